// Package evaluate scores boundary predictions against survey responses.
package evaluate

import (
	"math"

	"github.com/ieee0824/syllabify-go/cluster"
	"github.com/ieee0824/syllabify-go/internal/mathutil"
	"github.com/ieee0824/syllabify-go/predict"
	"github.com/ieee0824/syllabify-go/survey"
)

// UniformFallback is the probability used for a response whose cluster has
// no prediction at all.
const UniformFallback = 0.25

// Report is the outcome of scoring one set of predictions.
type Report struct {
	LogLikelihood  float64
	Responses      int // responses scored
	Fallbacks      int // observations scored with UniformFallback
	ZeroEvents     int // observations with responses but probability 0
	SkippedUnknown int // observations with the unknown code
}

// IsFinite reports whether no observed response had probability 0.
func (r Report) IsFinite() bool {
	return !math.IsInf(r.LogLikelihood, 0) && !math.IsNaN(r.LogLikelihood)
}

// PerResponse returns the mean log-likelihood per scored response.
func (r Report) PerResponse() float64 {
	if r.Responses == 0 {
		return 0
	}
	return r.LogLikelihood / float64(r.Responses)
}

// Evaluate sums responses * ln(p) over every observation with a known
// boundary. A probability of 0 for an observed response makes the total
// -Inf. An observation whose code is not valid for the length of its cluster
// fails with *cluster.InvalidCodeError.
func Evaluate(obs []survey.Observation, set predict.Set) (Report, error) {
	var r Report
	terms := make([]float64, 0, len(obs))
	for _, o := range obs {
		if !o.Code.ValidFor(len(o.Cluster)) {
			return Report{}, &cluster.InvalidCodeError{Cluster: o.Cluster, Code: o.Code}
		}
		if o.Code.IsUnknown() {
			r.SkippedUnknown++
			continue
		}
		p := UniformFallback
		if d, ok := set.Lookup(o.Word, o.Cluster); ok {
			p = d.Prob(o.Code)
		} else {
			r.Fallbacks++
		}
		if o.Responses == 0 {
			continue
		}
		if p == 0 {
			r.ZeroEvents++
		}
		r.Responses += o.Responses
		terms = append(terms, float64(o.Responses)*mathutil.Log(p))
	}
	r.LogLikelihood = mathutil.Sum(terms)
	return r, nil
}

// LogLikelihood returns the log-likelihood reported by Evaluate.
func LogLikelihood(obs []survey.Observation, set predict.Set) (float64, error) {
	r, err := Evaluate(obs, set)
	if err != nil {
		return 0, err
	}
	return r.LogLikelihood, nil
}
