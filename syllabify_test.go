package syllabify

import (
	"bytes"
	"context"
	"log"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ieee0824/syllabify-go/cluster"
	"github.com/ieee0824/syllabify-go/lexicon"
	"github.com/ieee0824/syllabify-go/morpheme"
	"github.com/ieee0824/syllabify-go/phone"
	"github.com/ieee0824/syllabify-go/predict"
	"github.com/ieee0824/syllabify-go/survey"
)

const testDict = `STOP  S T AA1 P
STAY  S T EY1
TOP  T AA1 P
TREE  T R IY1
MOSS  M AO1 S
HAM  HH AE1 M
SPRY  S P R AY1
BIRD  B ER1 D
`

const testSurvey = `Word,Transcription,# of .C*,# of C.*,# of CC.*,# of CCC.*,# of ?,prop. of .C*,prop. of C.*,prop. of CC.*,prop. of CCC.*,prop. of ?
hamster,HH AE1 M S T ER0,1,8,1,0,2,0.083,0.667,0.083,0,0.167
atom,AE1 T AH0 M,6,4,,,0,0.6,0.4,,,0
`

func newTestAnalyzer(t *testing.T, opts ...Option) *Analyzer {
	t.Helper()
	dict, err := lexicon.LoadCMU(strings.NewReader(testDict))
	require.NoError(t, err)
	return NewAnalyzerFromData(phone.DefaultInventory(), dict, opts...)
}

func TestNewAnalyzerFromData(t *testing.T) {
	a := newTestAnalyzer(t)
	assert.Equal(t, 2, a.Onsets.Count(cluster.ParseCluster("S T")))
	assert.Equal(t, 2, a.Codas.Count(cluster.ParseCluster("P")))
	assert.Equal(t, 0, a.Codas.Count(cluster.ParseCluster("R D")))
	assert.True(t, a.Syllabifier.Onsets().Contains(cluster.ParseCluster("S P R")))
}

func TestSplitRhotics(t *testing.T) {
	a := newTestAnalyzer(t, WithSplitRhotics(true))
	assert.Equal(t, 1, a.Codas.Count(cluster.ParseCluster("R D")))
}

func TestRemoveExotics(t *testing.T) {
	a := newTestAnalyzer(t, WithRemoveExotics(true))
	assert.False(t, a.Syllabifier.Onsets().Contains(cluster.ParseCluster("S P R")))
	assert.True(t, a.Syllabifier.Onsets().Contains(cluster.ParseCluster("S T")))
}

func TestSyllabifyWord(t *testing.T) {
	dict, err := lexicon.LoadCMU(strings.NewReader(testDict + "MISTER  M IH1 S T ER0\n"))
	require.NoError(t, err)
	a := NewAnalyzerFromData(phone.DefaultInventory(), dict)

	got, err := a.SyllabifyWord("mister")
	require.NoError(t, err)
	assert.Equal(t, "+ M IH1 + S T ER0 +", got.Format())

	_, err = a.SyllabifyWord("absent")
	assert.Error(t, err)
}

func TestPredictAndEvaluate(t *testing.T) {
	var logs bytes.Buffer
	a := newTestAnalyzer(t, WithWorkers(2), WithLogger(log.New(&logs, "", 0)))
	obs, err := survey.ReadCSV(strings.NewReader(testSurvey), a.Inventory, survey.Options{SeparateWords: true})
	require.NoError(t, err)

	res, diag, err := a.Predict(context.Background(), obs, false, predict.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, int64(2), diag.Clusters)

	joint, ok := res[predict.ModelJoint].Lookup("hamster", cluster.ParseCluster("M S T"))
	require.True(t, ok)
	// only M.S T has both sides attested
	assert.InDelta(t, 1.0, joint.Prob(cluster.CodeCX), 1e-12)

	om, ok := res[predict.ModelOnsetMax].Lookup("hamster", cluster.ParseCluster("M S T"))
	require.True(t, ok)
	assert.Equal(t, 1.0, om.Prob(cluster.CodeCX))

	scores, err := a.Evaluate(obs, res, 0)
	require.NoError(t, err)
	// XC and CCX responses have probability 0 under the joint model
	assert.True(t, math.IsInf(scores[predict.ModelJoint].LogLikelihood, -1))
	assert.Contains(t, logs.String(), "model joint")

	smoothed, err := a.Evaluate(obs, res, 0.01)
	require.NoError(t, err)
	assert.False(t, math.IsInf(smoothed[predict.ModelJoint].LogLikelihood, 0))
	assert.Equal(t, 2, smoothed[predict.ModelJoint].SkippedUnknown)
	assert.InDelta(t, 10*math.Log(0.25)+10*math.Log(0.5), smoothed[predict.ModelUniform].LogLikelihood, 1e-9)
}

func TestMorphemesWithSplitRhotics(t *testing.T) {
	const words = "PERHAPS  P ER0 HH AE1 P S\nPER  P ER0\nHAPS  HH AE1 P S\n"
	const rows = "Word,Transcription,# of .C*,# of C.*,# of ?\nperhaps,P ER0 HH AE1 P S,4,1,0\n"
	annotations := []morpheme.Annotation{{Word: "perhaps", Morph1: "per", Morph2: "haps"}}

	for _, split := range []bool{false, true} {
		dict, err := lexicon.LoadCMU(strings.NewReader(words))
		require.NoError(t, err)
		a := NewAnalyzerFromData(phone.DefaultInventory(), dict, WithSplitRhotics(split), WithWorkers(1))
		a.Morphemes = morpheme.Build(annotations, nil, a.Dict)

		obs, err := survey.ReadCSV(strings.NewReader(rows), a.Inventory, survey.Options{SeparateWords: true})
		require.NoError(t, err)
		res, _, err := a.Predict(context.Background(), obs, true, predict.DefaultOptions())
		require.NoError(t, err)

		d, ok := res[predict.ModelMorpheme].Lookup("perhaps", cluster.ParseCluster("HH"))
		require.True(t, ok)
		assert.Equal(t, 1.0, d.Prob(cluster.CodeXC), "split rhotics %v", split)
		assert.Equal(t, 0.0, d.Prob(cluster.CodeCX), "split rhotics %v", split)
	}
}
