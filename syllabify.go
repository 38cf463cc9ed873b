// Package syllabify predicts syllable boundaries inside medial consonant
// clusters from word-edge phonotactics, onset maximization and morphology.
package syllabify

import (
	"context"
	"fmt"
	"log"
	"runtime"

	"github.com/ieee0824/syllabify-go/cluster"
	"github.com/ieee0824/syllabify-go/evaluate"
	"github.com/ieee0824/syllabify-go/lexicon"
	"github.com/ieee0824/syllabify-go/phone"
	"github.com/ieee0824/syllabify-go/phonotactic"
	"github.com/ieee0824/syllabify-go/predict"
	"github.com/ieee0824/syllabify-go/survey"
	"github.com/ieee0824/syllabify-go/syllable"
)

// Analyzer builds word-edge models from a pronunciation corpus and predicts
// where speakers place syllable boundaries inside medial clusters.
type Analyzer struct {
	Inventory *phone.Inventory
	Dict      *lexicon.Dictionary

	// Onsets and Codas are frequency weighted when Weighted is set. The
	// syllabifier's legal onsets always count each word once.
	Onsets      *phonotactic.Table
	Codas       *phonotactic.Table
	OnsetModel  *phonotactic.Model
	CodaModel   *phonotactic.Model
	Syllabifier *syllable.Syllabifier

	LengthSmoothing float64 // added to every length total of the edge models
	RemoveExotics   bool    // drop onsets seen in a single word
	SplitRhotics    bool    // rewrite ER as UH R before counting
	Weighted        bool    // weight edge counts by corpus frequency
	Workers         int
	Logger          *log.Logger // nil disables diagnostics
	Morphemes       predict.BoundaryIndex
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLengthSmoothing sets the count added to every cluster length.
func WithLengthSmoothing(n float64) Option {
	return func(a *Analyzer) {
		a.LengthSmoothing = n
	}
}

// WithRemoveExotics keeps only onsets seen in more than one word as legal.
func WithRemoveExotics(enabled bool) Option {
	return func(a *Analyzer) {
		a.RemoveExotics = enabled
	}
}

// WithSplitRhotics rewrites ER as UH R in the corpus.
func WithSplitRhotics(enabled bool) Option {
	return func(a *Analyzer) {
		a.SplitRhotics = enabled
	}
}

// WithWeighted weights edge counts by corpus frequency.
func WithWeighted(enabled bool) Option {
	return func(a *Analyzer) {
		a.Weighted = enabled
	}
}

// WithWorkers sets the number of prediction goroutines.
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		a.Workers = n
	}
}

// WithLogger sets the logger for diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(a *Analyzer) {
		a.Logger = l
	}
}

// WithMorphemes enables the morpheme-aligned model.
func WithMorphemes(idx predict.BoundaryIndex) Option {
	return func(a *Analyzer) {
		a.Morphemes = idx
	}
}

// NewAnalyzer creates an Analyzer from a phones file and a pronunciation
// dictionary. An empty phonesPath uses the built-in CMU inventory.
func NewAnalyzer(phonesPath, dictPath string, opts ...Option) (*Analyzer, error) {
	inv := phone.DefaultInventory()
	if phonesPath != "" {
		var err error
		inv, err = phone.LoadFile(phonesPath)
		if err != nil {
			return nil, fmt.Errorf("load phones: %w", err)
		}
	}

	dict, err := lexicon.LoadFile(dictPath)
	if err != nil {
		return nil, fmt.Errorf("load dictionary: %w", err)
	}
	return NewAnalyzerFromData(inv, dict, opts...), nil
}

// NewAnalyzerFromData creates an Analyzer from a loaded inventory and
// dictionary. All tables and models are built before it returns.
func NewAnalyzerFromData(inv *phone.Inventory, dict *lexicon.Dictionary, opts ...Option) *Analyzer {
	a := &Analyzer{
		Inventory: inv,
		Dict:      dict,
		Workers:   runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.SplitRhotics {
		a.Dict = a.Dict.Map(phone.SplitRhotic)
	}

	entries := a.Dict.All()
	words := make([]phonotactic.Word, len(entries))
	for i, e := range entries {
		words[i] = phonotactic.Word{Phones: e.Phones, Frequency: 1}
		if a.Weighted {
			words[i].Frequency = e.Frequency
		}
	}
	a.Onsets, a.Codas = phonotactic.CountEdgesWeighted(words, inv)
	a.OnsetModel = phonotactic.Build(a.Onsets, a.LengthSmoothing)
	a.CodaModel = phonotactic.Build(a.Codas, a.LengthSmoothing)

	legal := a.Onsets
	if a.Weighted {
		legal, _ = phonotactic.CountEdges(a.Dict.Transcriptions(), inv)
	}
	a.Syllabifier = syllable.NewSyllabifier(syllable.LegalOnsets(legal, a.RemoveExotics), inv)

	a.logf("built edge models from %d words: %d onsets, %d codas", len(entries), a.Onsets.Len(), a.Codas.Len())
	return a
}

// Syllabify splits t into syllables by onset maximization.
func (a *Analyzer) Syllabify(t phone.Transcription) (syllable.Syllabification, error) {
	return a.Syllabifier.Syllabify(t)
}

// SyllabifyWord looks word up in the dictionary and syllabifies its first
// pronunciation.
func (a *Analyzer) SyllabifyWord(word string) (syllable.Syllabification, error) {
	t, ok := a.Dict.Transcription(word)
	if !ok {
		return nil, fmt.Errorf("word %q not in dictionary", word)
	}
	return a.Syllabify(t)
}

// Extract returns the medial cluster of t.
func (a *Analyzer) Extract(t phone.Transcription) (cluster.Medial, bool) {
	return cluster.Extract(t, a.Inventory)
}

// Predictor returns a predictor over the analyzer's models.
func (a *Analyzer) Predictor(separateWords bool, opts predict.Options) *predict.Predictor {
	popts := []predict.Option{
		predict.WithOptions(opts),
		predict.WithSyllabifier(a.Syllabifier),
		predict.WithSeparateWords(separateWords),
		predict.WithWorkers(a.Workers),
		predict.WithLogger(a.Logger),
	}
	if a.Morphemes != nil {
		popts = append(popts, predict.WithMorphemes(a.Morphemes))
	}
	return predict.NewPredictor(a.OnsetModel, a.CodaModel, popts...)
}

// Predict runs every model on the clusters of obs.
func (a *Analyzer) Predict(ctx context.Context, obs *survey.Set, separateWords bool, opts predict.Options) (predict.Result, predict.Diagnostics, error) {
	p := a.Predictor(separateWords, opts)
	res, err := p.PredictAll(ctx, obs.Targets())
	if err != nil {
		return nil, predict.Diagnostics{}, err
	}
	diag := p.Diagnostics()
	if diag.AllZero > 0 {
		a.logf("%d of %d clusters have no joint probability mass", diag.AllZero, diag.Clusters)
	}
	return res, diag, nil
}

// Evaluate smooths every model of res with lambda and scores it against obs.
func (a *Analyzer) Evaluate(obs *survey.Set, res predict.Result, lambda float64) (map[string]evaluate.Report, error) {
	all := obs.All()
	out := make(map[string]evaluate.Report, len(res))
	for name, set := range res {
		smoothed, err := predict.Smooth(set, lambda)
		if err != nil {
			return nil, err
		}
		r, err := evaluate.Evaluate(all, smoothed)
		if err != nil {
			return nil, fmt.Errorf("evaluate %s: %w", name, err)
		}
		if r.ZeroEvents > 0 {
			a.logf("model %s gives probability 0 to %d observed responses", name, r.ZeroEvents)
		}
		out[name] = r
	}
	return out, nil
}

func (a *Analyzer) logf(format string, args ...any) {
	if a.Logger != nil {
		a.Logger.Printf(format, args...)
	}
}
