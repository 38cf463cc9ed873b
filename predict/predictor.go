package predict

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/ieee0824/syllabify-go/cluster"
	"github.com/ieee0824/syllabify-go/internal/workerpool"
	"github.com/ieee0824/syllabify-go/syllable"
)

// Model names used as keys of Result.
const (
	ModelJoint    = "joint"
	ModelCoda     = "coda"
	ModelOnset    = "onset"
	ModelOnsetMax = "onsetmax"
	ModelMorpheme = "morpheme"
	ModelUniform  = "uniform"
)

// BoundaryIndex gives the morpheme boundary of a word as an index into the
// transcription m was extracted from.
type BoundaryIndex interface {
	Align(word string, m cluster.Medial) (int, bool)
}

// Target is one medial cluster to predict.
type Target struct {
	Word   string
	Medial cluster.Medial
}

// Diagnostics counts the recoverable conditions met while predicting.
type Diagnostics struct {
	Clusters      int64
	AllZero       int64 // joint distributions with no mass
	MissingCodas  int64 // splits whose coda had probability 0
	MissingOnsets int64 // splits whose onset had probability 0
}

// Result maps a model name to its predictions.
type Result map[string]Set

// Predictor runs every configured model over a batch of clusters. The
// onset and coda models must be fully built before PredictAll is called and
// are only read afterwards.
type Predictor struct {
	onsets      Scorer
	codas       Scorer
	syllabifier *syllable.Syllabifier
	morphemes   BoundaryIndex
	opts        Options
	perWord     bool
	workers     int
	logger      *log.Logger

	allZero       atomic.Int64
	missingCodas  atomic.Int64
	missingOnsets atomic.Int64
	clusters      atomic.Int64
}

// Option configures a Predictor.
type Option func(*Predictor)

// WithOptions sets the options passed to Independent.
func WithOptions(o Options) Option {
	return func(p *Predictor) { p.opts = o }
}

// WithSyllabifier enables the onset-maximization model.
func WithSyllabifier(s *syllable.Syllabifier) Option {
	return func(p *Predictor) { p.syllabifier = s }
}

// WithMorphemes enables the morpheme-aligned model.
func WithMorphemes(idx BoundaryIndex) Option {
	return func(p *Predictor) { p.morphemes = idx }
}

// WithSeparateWords keys every prediction by word as well as cluster.
func WithSeparateWords(on bool) Option {
	return func(p *Predictor) { p.perWord = on }
}

// WithWorkers sets the number of goroutines used by PredictAll.
func WithWorkers(n int) Option {
	return func(p *Predictor) { p.workers = n }
}

// WithLogger sets the logger for diagnostics. nil means no logging.
func WithLogger(l *log.Logger) Option {
	return func(p *Predictor) { p.logger = l }
}

// NewPredictor creates a Predictor over the given onset and coda models.
func NewPredictor(onsets, codas Scorer, opts ...Option) *Predictor {
	p := &Predictor{
		onsets:  onsets,
		codas:   codas,
		opts:    DefaultOptions(),
		workers: runtime.NumCPU(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Diagnostics returns the counters accumulated so far.
func (p *Predictor) Diagnostics() Diagnostics {
	return Diagnostics{
		Clusters:      p.clusters.Load(),
		AllZero:       p.allZero.Load(),
		MissingCodas:  p.missingCodas.Load(),
		MissingOnsets: p.missingOnsets.Load(),
	}
}

// Predict runs every configured model on one target.
func (p *Predictor) Predict(t Target) (map[string]Distribution, error) {
	c := t.Medial.Cluster
	out := make(map[string]Distribution)

	pred, err := Independent(c, p.onsets, p.codas, p.opts)
	if err != nil {
		return nil, fmt.Errorf("predict %q: %w", t.Word, err)
	}
	p.clusters.Add(1)
	p.missingCodas.Add(int64(pred.MissingCodas))
	p.missingOnsets.Add(int64(pred.MissingOnsets))
	if pred.AllZero {
		p.allZero.Add(1)
		p.logf("no probability mass for cluster %s (word %q)", c, t.Word)
	}
	out[ModelJoint] = pred.Joint
	if p.opts.WithComponents {
		out[ModelCoda] = pred.Coda
		out[ModelOnset] = pred.Onset
	}
	out[ModelUniform] = Uniform(c)

	if p.syllabifier != nil {
		d, err := OnsetMaximization(c, p.syllabifier)
		if err != nil {
			return nil, fmt.Errorf("onset maximization %q: %w", t.Word, err)
		}
		out[ModelOnsetMax] = d
	}
	if p.morphemes != nil {
		out[ModelMorpheme] = p.morpheme(t)
	}
	return out, nil
}

func (p *Predictor) morpheme(t Target) Distribution {
	boundary, known := p.morphemes.Align(t.Word, t.Medial)
	d := MorphemeAligned(t.Medial, boundary, known)
	if known && d.IsZero() {
		p.logf("morpheme boundary %d of %q is outside cluster %s", boundary, t.Word, t.Medial.Cluster)
	}
	return d
}

// PredictAll predicts every target on a worker pool. Without separate words
// targets sharing a cluster are predicted once; morpheme predictions are
// always keyed by word.
func (p *Predictor) PredictAll(ctx context.Context, targets []Target) (Result, error) {
	res := make(Result)
	var mu sync.Mutex
	seen := make(map[Key]bool)

	pool := workerpool.New(p.workers, 0)
	pool.Start(ctx)
	for _, t := range targets {
		key := p.key(t)
		if seen[key] && p.morphemes == nil {
			continue
		}
		dup := seen[key]
		seen[key] = true

		err := pool.Submit(ctx, func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var dists map[string]Distribution
			if dup {
				dists = map[string]Distribution{ModelMorpheme: p.morpheme(t)}
			} else {
				var err error
				if dists, err = p.Predict(t); err != nil {
					return err
				}
			}
			mu.Lock()
			defer mu.Unlock()
			for name, d := range dists {
				k := key
				if name == ModelMorpheme {
					k = KeyFor(t.Word, t.Medial.Cluster)
				}
				if res[name] == nil {
					res[name] = make(Set)
				}
				res[name][k] = d
			}
			return nil
		})
		if err != nil {
			pool.Wait()
			return nil, err
		}
	}
	if err := pool.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

func (p *Predictor) key(t Target) Key {
	if p.perWord {
		return KeyFor(t.Word, t.Medial.Cluster)
	}
	return KeyFor("", t.Medial.Cluster)
}

func (p *Predictor) logf(format string, args ...any) {
	if p.logger != nil {
		p.logger.Printf(format, args...)
	}
}
