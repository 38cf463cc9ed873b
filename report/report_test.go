package report

import (
	"bytes"
	"encoding/csv"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ieee0824/syllabify-go/cluster"
	"github.com/ieee0824/syllabify-go/evaluate"
	"github.com/ieee0824/syllabify-go/phone"
	"github.com/ieee0824/syllabify-go/phonotactic"
	"github.com/ieee0824/syllabify-go/predict"
	"github.com/ieee0824/syllabify-go/survey"
)

const testCSV = `Word,Transcription,# of .C*,# of C.*,# of ?,prop. of .C*,prop. of C.*,prop. of ?
atom,AE1 T AH0 M,2,1,1,0.5,0.25,0.25
`

var t1 = cluster.ParseCluster("T")

func fixture(t *testing.T) (*survey.Set, predict.Result) {
	t.Helper()
	set, err := survey.ReadCSV(strings.NewReader(testCSV), phone.DefaultInventory(), survey.Options{SeparateWords: true, CheckStress: true})
	require.NoError(t, err)
	res := predict.Result{
		predict.ModelJoint: {
			predict.KeyFor("", t1): {Cluster: t1, Probs: map[cluster.Code]float64{cluster.CodeXC: 0.75, cluster.CodeCX: 0.25}},
		},
		predict.ModelOnsetMax: {
			predict.KeyFor("", t1): {Cluster: t1, Probs: map[cluster.Code]float64{cluster.CodeXC: 1, cluster.CodeCX: 0}},
		},
		predict.ModelMorpheme: {
			predict.KeyFor("atom", t1): {Cluster: t1, Probs: map[cluster.Code]float64{cluster.CodeXC: 0.5, cluster.CodeCX: 0.5}},
		},
	}
	return set, res
}

func readAll(t *testing.T, b *bytes.Buffer) [][]string {
	t.Helper()
	rows, err := csv.NewReader(b).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteLong(t *testing.T) {
	set, res := fixture(t)
	var buf bytes.Buffer
	cfg := DefaultConfig()
	require.NoError(t, WriteLong(&buf, set, res, cfg))

	rows := readAll(t, &buf)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Word", "Cluster", "Syllabification", "Prop Responses", "joint", "onsetmax"}, rows[0])
	assert.Equal(t, []string{"atom", "T", ".T", "0.5", "0.75", "1"}, rows[1])
	assert.Equal(t, []string{"atom", "T", "?.?", "0.25", "", ""}, rows[3])
}

func TestWriteLongRawCountsWithStress(t *testing.T) {
	set, res := fixture(t)
	var buf bytes.Buffer
	cfg := Config{RawCounts: true, IncludeStress: true, IncludeModels: []string{predict.ModelJoint}}
	require.NoError(t, WriteLong(&buf, set, res, cfg))

	rows := readAll(t, &buf)
	assert.Equal(t, []string{"Cluster", "Syllabification", "Num Responses", "Preceding Stress", "Lax Vowel", "joint"}, rows[0])
	assert.Equal(t, []string{"T", "T.", "1", "true", "true", "0.25"}, rows[2])
}

func TestWriteOneHot(t *testing.T) {
	set, res := fixture(t)
	var buf bytes.Buffer
	require.NoError(t, WriteOneHot(&buf, set, res, Config{IncludeModels: []string{predict.ModelJoint}}))

	rows := readAll(t, &buf)
	// header and one row per response
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Cluster", "Word", "Response", "XC", "CX", "CCX", "CCCX", "X", "joint"}, rows[0])
	assert.Equal(t, []string{"T", "atom", "XC", "1", "0", "0", "0", "0", "0.75"}, rows[1])
	assert.Equal(t, []string{"T", "atom", "X", "0", "0", "0", "0", "1", ""}, rows[4])
}

func TestWriteMultinom(t *testing.T) {
	set, res := fixture(t)

	var buf bytes.Buffer
	cfg := Config{SeparateWords: true, SplitRows: true, IncludeMorphemes: true}
	require.NoError(t, WriteMultinom(&buf, set, res, cfg))
	rows := readAll(t, &buf)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Cluster", "Word", "Response", "jP_XC", "jP_CX", "jP_CCX", "jP_CCCX", "OnsetMax", "Morpheme"}, rows[0])
	assert.Equal(t, []string{"T", "atom", "XC", "0.75", "0.25", "0", "0", "XC", "None"}, rows[1])

	buf.Reset()
	cfg = Config{SeparateProbs: true}
	require.NoError(t, WriteMultinom(&buf, set, res, cfg))
	rows = readAll(t, &buf)
	require.Len(t, rows, 4)
	assert.Contains(t, rows[0], "cP_CX")
	assert.Contains(t, rows[0], "oP_XC")
	assert.Equal(t, "Count", rows[0][len(rows[0])-1])
	assert.Equal(t, "2", rows[1][len(rows[1])-1])
}

func TestWriteEdges(t *testing.T) {
	onsets := phonotactic.NewTable()
	onsets.Add(cluster.ParseCluster("S T"), 3)
	onsets.Add(cluster.ParseCluster("T"), 1)
	codas := phonotactic.NewTable()
	codas.Add(cluster.ParseCluster("T"), 2)
	codas.Add(cluster.Cluster{}, 2)

	var buf bytes.Buffer
	require.NoError(t, WriteEdges(&buf, onsets, codas, 0))
	rows := readAll(t, &buf)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"", "0", "0", "2", "0", "0.5", "0", "0.5"}, rows[1])
	assert.Equal(t, []string{"T", "1", "1", "2", "0.25", "0.5", "0.25", "0.5"}, rows[2])
	assert.Equal(t, "S T", rows[3][0])
}

func TestWriteScores(t *testing.T) {
	var buf bytes.Buffer
	scores := map[string]evaluate.Report{
		"onsetmax": {LogLikelihood: math.Inf(-1), Responses: 4, ZeroEvents: 1},
		"joint":    {LogLikelihood: -2.5, Responses: 4},
	}
	require.NoError(t, WriteScores(&buf, scores))
	rows := readAll(t, &buf)
	require.Len(t, rows, 3)
	assert.Equal(t, "joint", rows[1][0])
	assert.Equal(t, "-Inf", rows[2][1])
}
