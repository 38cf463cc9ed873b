package predict

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ieee0824/syllabify-go/cluster"
	"github.com/ieee0824/syllabify-go/phone"
	"github.com/ieee0824/syllabify-go/syllable"
)

type mapScorer map[string]float64

func (m mapScorer) Prob(c cluster.Cluster) float64 { return m[c.Key()] }

func c(s string) cluster.Cluster { return cluster.ParseCluster(s) }

func TestIndependentUnnormalized(t *testing.T) {
	onsets := mapScorer{"S T": 0.3}
	codas := mapScorer{"M": 0.4}

	pred, err := Independent(c("M S T"), onsets, codas, Options{})
	require.NoError(t, err)
	assert.InDelta(t, 0.12, pred.Joint.Prob(cluster.CodeCX), 1e-12)
	assert.Zero(t, pred.Joint.Prob(cluster.CodeXC))
	assert.Zero(t, pred.Joint.Prob(cluster.CodeCCX))
	assert.Zero(t, pred.Joint.Prob(cluster.CodeCCCX))
	assert.False(t, pred.Joint.Normalized)
	assert.False(t, pred.AllZero)
	assert.Len(t, pred.Joint.Probs, 4)
}

func TestIndependentNormalized(t *testing.T) {
	onsets := mapScorer{"S T": 0.3, "T": 0.2, "": 0.1}
	codas := mapScorer{"M": 0.4, "M S": 0.1, "M S T": 0.05, "": 0.5}

	pred, err := Independent(c("M S T"), onsets, codas, Options{Normalize: true, WithComponents: true})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, pred.Joint.Sum(), 1e-9)
	assert.True(t, pred.Joint.Normalized)
	// XC: coda () 0.5 * onset (M S T) 0
	assert.Zero(t, pred.Joint.Prob(cluster.CodeXC))
	assert.Equal(t, 1, pred.MissingOnsets)
	assert.Equal(t, 0, pred.MissingCodas)

	assert.InDelta(t, 1.0, pred.Coda.Sum(), 1e-9)
	assert.InDelta(t, 1.0, pred.Onset.Sum(), 1e-9)
	assert.InDelta(t, 0.3/0.6, pred.Onset.Prob(cluster.CodeCX), 1e-12)

	best, _ := pred.Joint.Best()
	assert.Equal(t, cluster.CodeCX, best)
}

func TestIndependentAllZero(t *testing.T) {
	pred, err := Independent(c("Z G"), mapScorer{}, mapScorer{"Z": 1}, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, pred.AllZero)
	assert.True(t, pred.Joint.IsZero())
	assert.False(t, pred.Joint.Normalized)
	for _, p := range pred.Joint.Probs {
		assert.False(t, math.IsNaN(p))
	}
}

func TestIndependentEmptyCluster(t *testing.T) {
	empty := cluster.Cluster{}
	pred, err := Independent(empty, mapScorer{"": 0.4}, mapScorer{"": 0.5}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []cluster.Code{cluster.CodeXC}, pred.Joint.Codes())
	assert.InDelta(t, 0.2, pred.Joint.Prob(cluster.CodeXC), 1e-12)

	pred, err = Independent(empty, mapScorer{"": 0.4}, mapScorer{"": 0.5}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1.0, pred.Joint.Prob(cluster.CodeXC))

	pred, err = Independent(empty, mapScorer{}, mapScorer{"": 0.5}, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, pred.AllZero)
}

func TestSplitsReconstructCluster(t *testing.T) {
	for _, key := range []string{"T", "N D", "M S T", "K S T R"} {
		cl := c(key)
		d := Uniform(cl)
		for _, code := range d.Codes() {
			split, err := cluster.CodaOnset(code, cl)
			require.NoError(t, err)
			assert.True(t, cluster.Join(split.Coda, split.Onset).Equal(cl), "%s %s", key, code)
			p, ok := d.ProbOf(split.Coda, split.Onset)
			assert.True(t, ok)
			assert.InDelta(t, 1/float64(len(d.Codes())), p, 1e-12)
		}
	}
}

func TestUniform(t *testing.T) {
	d := Uniform(c("N"))
	assert.Len(t, d.Probs, 2)
	assert.InDelta(t, 0.5, d.Prob(cluster.CodeXC), 1e-12)
	assert.InDelta(t, 0.5, d.Prob(cluster.CodeCX), 1e-12)
	assert.Zero(t, d.Prob(cluster.CodeCCX))
}

func TestOnsetMaximization(t *testing.T) {
	onsets := syllable.NewOnsetSet(c("S T"), c("T"), c("S"))
	s := syllable.NewSyllabifier(onsets, phone.DefaultInventory())

	d, err := OnsetMaximization(c("M S T"), s)
	require.NoError(t, err)
	assert.Equal(t, 1.0, d.Prob(cluster.CodeCX))
	assert.InDelta(t, 1.0, d.Sum(), 1e-12)

	d, err = OnsetMaximization(c("N D"), s)
	require.NoError(t, err)
	assert.Equal(t, 1.0, d.Prob(cluster.CodeCCX))

	d, err = OnsetMaximization(cluster.Cluster{}, s)
	require.NoError(t, err)
	assert.Equal(t, 1.0, d.Prob(cluster.CodeXC))
}

func TestMorphemeAligned(t *testing.T) {
	// M AA1 N . S T ER0: cluster N S T starts at 2
	m := cluster.Medial{Cluster: c("N S T"), Start: 2}

	d := MorphemeAligned(m, 3, true)
	assert.Equal(t, 1.0, d.Prob(cluster.CodeCX))
	assert.InDelta(t, 1.0, d.Sum(), 1e-12)

	d = MorphemeAligned(m, 2, true)
	assert.Equal(t, 1.0, d.Prob(cluster.CodeXC))

	d = MorphemeAligned(m, 0, false)
	assert.InDelta(t, 0.25, d.Prob(cluster.CodeCCX), 1e-12)

	d = MorphemeAligned(m, 9, true)
	assert.True(t, d.IsZero())
}

func TestSmooth(t *testing.T) {
	set := Set{
		KeyFor("", c("N D")): degenerate(c("N D"), cluster.CodeCX),
	}
	same, err := Smooth(set, 0)
	require.NoError(t, err)
	assert.Equal(t, set, same)

	sm, err := Smooth(set, 1)
	require.NoError(t, err)
	d := sm[KeyFor("", c("N D"))]
	assert.InDelta(t, 2.0/4, d.Prob(cluster.CodeCX), 1e-12)
	assert.InDelta(t, 1.0/4, d.Prob(cluster.CodeXC), 1e-12)
	// input untouched
	assert.Equal(t, 0.0, set[KeyFor("", c("N D"))].Prob(cluster.CodeXC))

	_, err = Smooth(set, -1)
	assert.Error(t, err)
}

func TestSetLookupFallsBackToCluster(t *testing.T) {
	set := Set{
		KeyFor("", c("N D")):        Uniform(c("N D")),
		KeyFor("candle", c("N D")): degenerate(c("N D"), cluster.CodeCX),
	}
	d, ok := set.Lookup("candle", c("N D"))
	require.True(t, ok)
	assert.Equal(t, 1.0, d.Prob(cluster.CodeCX))

	d, ok = set.Lookup("window", c("N D"))
	require.True(t, ok)
	assert.True(t, d.Normalized)

	_, ok = set.Lookup("", c("Z"))
	assert.False(t, ok)
}

type boundaries map[string]int

func (b boundaries) Align(word string, _ cluster.Medial) (int, bool) {
	n, ok := b[word]
	return n, ok
}

func TestPredictAll(t *testing.T) {
	onsets := mapScorer{"S T": 0.3, "T": 0.2, "D": 0.2}
	codas := mapScorer{"M": 0.4, "N": 0.3}
	syl := syllable.NewSyllabifier(syllable.NewOnsetSet(c("S T"), c("T"), c("D")), phone.DefaultInventory())

	targets := []Target{
		{Word: "amstel", Medial: cluster.Medial{Cluster: c("M S T"), Start: 1}},
		{Word: "hamster", Medial: cluster.Medial{Cluster: c("M S T"), Start: 2}},
		{Word: "candle", Medial: cluster.Medial{Cluster: c("N D"), Start: 2}},
		{Word: "zigzag", Medial: cluster.Medial{Cluster: c("G Z"), Start: 2}},
	}
	p := NewPredictor(onsets, codas,
		WithSyllabifier(syl),
		WithMorphemes(boundaries{"hamster": 3}),
		WithWorkers(3),
	)
	res, err := p.PredictAll(context.Background(), targets)
	require.NoError(t, err)

	assert.Len(t, res[ModelJoint], 3)
	assert.Len(t, res[ModelOnsetMax], 3)
	assert.Len(t, res[ModelMorpheme], 4)

	joint, ok := res[ModelJoint].Lookup("hamster", c("M S T"))
	require.True(t, ok)
	assert.InDelta(t, 1.0, joint.Prob(cluster.CodeCX), 1e-12)

	morph, ok := res[ModelMorpheme].Lookup("hamster", c("M S T"))
	require.True(t, ok)
	assert.Equal(t, 1.0, morph.Prob(cluster.CodeCX))
	morph, ok = res[ModelMorpheme].Lookup("amstel", c("M S T"))
	require.True(t, ok)
	assert.InDelta(t, 0.25, morph.Prob(cluster.CodeXC), 1e-12)

	diag := p.Diagnostics()
	assert.Equal(t, int64(3), diag.Clusters)
	assert.Equal(t, int64(1), diag.AllZero)
}

func TestPredictAllSeparateWords(t *testing.T) {
	onsets := mapScorer{"T": 1}
	codas := mapScorer{"": 1}
	targets := []Target{
		{Word: "atom", Medial: cluster.Medial{Cluster: c("T"), Start: 1}},
		{Word: "otter", Medial: cluster.Medial{Cluster: c("T"), Start: 1}},
	}
	p := NewPredictor(onsets, codas, WithSeparateWords(true), WithWorkers(1))
	res, err := p.PredictAll(context.Background(), targets)
	require.NoError(t, err)
	assert.Len(t, res[ModelJoint], 2)
	assert.Contains(t, res[ModelJoint], KeyFor("otter", c("T")))
}

func TestPredictAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewPredictor(mapScorer{}, mapScorer{}, WithWorkers(1))
	_, err := p.PredictAll(ctx, []Target{{Word: "atom", Medial: cluster.Medial{Cluster: c("T"), Start: 1}}})
	assert.ErrorIs(t, err, context.Canceled)
}
