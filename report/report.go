// Package report writes survey observations side by side with model
// predictions as CSV tables for analysis.
package report

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/ieee0824/syllabify-go/cluster"
	"github.com/ieee0824/syllabify-go/evaluate"
	"github.com/ieee0824/syllabify-go/phonotactic"
	"github.com/ieee0824/syllabify-go/predict"
	"github.com/ieee0824/syllabify-go/survey"
)

// Config selects the columns and rows of the written tables.
type Config struct {
	// SeparateWords adds a Word column and looks predictions up per word.
	SeparateWords bool
	// RawCounts writes response counts instead of proportions (long format).
	RawCounts bool
	// IncludeModels lists the models written as prediction columns, in
	// column order.
	IncludeModels []string
	// SplitRows writes one row per response; otherwise one row per
	// observation with a Count column (multinomial format).
	SplitRows bool
	// IncludeStress adds the stress and laxness of the vowel before the
	// cluster.
	IncludeStress bool
	// IncludeMorphemes adds the morpheme-aligned split (multinomial format).
	IncludeMorphemes bool
	// SeparateProbs adds the coda-only and onset-only scores (multinomial
	// format).
	SeparateProbs bool
}

// DefaultConfig returns per-word rows with the joint and onset-maximization
// predictions.
func DefaultConfig() Config {
	return Config{
		SeparateWords: true,
		IncludeModels: []string{predict.ModelJoint, predict.ModelOnsetMax},
		SplitRows:     true,
	}
}

func (cfg Config) word(o survey.Observation) string {
	if cfg.SeparateWords {
		return o.Word
	}
	return ""
}

// WriteLong writes one row per observation: cluster, split, responses and one
// column per model holding the predicted probability of that split.
func WriteLong(w io.Writer, obs *survey.Set, res predict.Result, cfg Config) error {
	cw := csv.NewWriter(w)
	var header []string
	if cfg.SeparateWords {
		header = append(header, "Word")
	}
	header = append(header, "Cluster", "Syllabification")
	if cfg.RawCounts {
		header = append(header, "Num Responses")
	} else {
		header = append(header, "Prop Responses")
	}
	if cfg.IncludeStress {
		header = append(header, "Preceding Stress", "Lax Vowel")
	}
	header = append(header, cfg.IncludeModels...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, o := range obs.All() {
		var row []string
		if cfg.SeparateWords {
			row = append(row, o.Word)
		}
		row = append(row, o.Cluster.Key(), o.Split.String())
		if cfg.RawCounts {
			row = append(row, strconv.Itoa(o.Responses))
		} else {
			row = append(row, formatFloat(o.Proportion))
		}
		if cfg.IncludeStress {
			row = append(row, stressFields(o)...)
		}
		for _, name := range cfg.IncludeModels {
			row = append(row, modelProb(res[name], cfg.word(o), o))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteOneHot writes one row per response with an indicator column per
// boundary code.
func WriteOneHot(w io.Writer, obs *survey.Set, res predict.Result, cfg Config) error {
	cw := csv.NewWriter(w)
	header := []string{"Cluster", "Word", "Response"}
	for _, code := range cluster.AllCodes {
		header = append(header, code.String())
	}
	if cfg.IncludeStress {
		header = append(header, "Preceding Stress", "Lax Vowel")
	}
	header = append(header, cfg.IncludeModels...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, o := range obs.All() {
		row := []string{o.Cluster.Key(), o.Word, o.Code.String()}
		for _, code := range cluster.AllCodes {
			row = append(row, indicator(code == o.Code))
		}
		if cfg.IncludeStress {
			row = append(row, stressFields(o)...)
		}
		for _, name := range cfg.IncludeModels {
			row = append(row, modelProb(res[name], cfg.word(o), o))
		}
		for i := 0; i < o.Responses; i++ {
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMultinom writes the table used for multinomial regression: the
// response, the joint probability of every code (jP_*), the onset
// maximization choice and, if configured, coda-only (cP_*) and onset-only
// (oP_*) scores, stress and morpheme predictors.
func WriteMultinom(w io.Writer, obs *survey.Set, res predict.Result, cfg Config) error {
	cw := csv.NewWriter(w)
	header := []string{"Cluster", "Word", "Response"}
	header = append(header, codeColumns("jP_")...)
	header = append(header, "OnsetMax")
	if cfg.SeparateProbs {
		header = append(header, codeColumns("cP_")...)
		header = append(header, codeColumns("oP_")...)
	}
	if cfg.IncludeStress {
		header = append(header, "Preceding Stress", "Lax Vowel")
	}
	if cfg.IncludeMorphemes {
		header = append(header, "Morpheme")
	}
	if !cfg.SplitRows {
		header = append(header, "Count")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, o := range obs.All() {
		if o.Responses == 0 {
			continue
		}
		word := cfg.word(o)
		row := []string{o.Cluster.Key(), o.Word, o.Code.String()}
		row = append(row, codeProbs(res[predict.ModelJoint], word, o.Cluster)...)
		row = append(row, chosen(res[predict.ModelOnsetMax], word, o.Cluster))
		if cfg.SeparateProbs {
			row = append(row, codeProbs(res[predict.ModelCoda], word, o.Cluster)...)
			row = append(row, codeProbs(res[predict.ModelOnset], word, o.Cluster)...)
		}
		if cfg.IncludeStress {
			row = append(row, stressFields(o)...)
		}
		if cfg.IncludeMorphemes {
			row = append(row, chosen(res[predict.ModelMorpheme], o.Word, o.Cluster))
		}
		if !cfg.SplitRows {
			row = append(row, strconv.Itoa(o.Responses))
			if err := cw.Write(row); err != nil {
				return err
			}
			continue
		}
		for i := 0; i < o.Responses; i++ {
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEdges writes word-edge counts, proportions and length-conditioned
// probabilities for every sequence seen as an onset or a coda.
func WriteEdges(w io.Writer, onsets, codas *phonotactic.Table, lengthSmoothing float64) error {
	onsetProp, codaProp := phonotactic.Proportions(onsets), phonotactic.Proportions(codas)
	onsetModel, codaModel := phonotactic.Build(onsets, lengthSmoothing), phonotactic.Build(codas, lengthSmoothing)

	seen := make(map[string]cluster.Cluster)
	for _, c := range append(onsets.Clusters(), codas.Clusters()...) {
		seen[c.Key()] = c
	}
	all := make([]cluster.Cluster, 0, len(seen))
	for _, c := range seen {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool {
		if len(all[i]) != len(all[j]) {
			return len(all[i]) < len(all[j])
		}
		return all[i].Key() < all[j].Key()
	})

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Cluster", "Length", "Onset count", "Coda count",
		"Onset proportion", "Coda proportion", "Onset prob2", "Coda prob2"}); err != nil {
		return err
	}
	for _, c := range all {
		row := []string{
			c.Key(),
			strconv.Itoa(len(c)),
			strconv.Itoa(onsets.Count(c)),
			strconv.Itoa(codas.Count(c)),
			formatFloat(onsetProp.Prob(c)),
			formatFloat(codaProp.Prob(c)),
			formatFloat(onsetModel.Prob(c)),
			formatFloat(codaModel.Prob(c)),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteScores writes one row per model with its log-likelihood report.
// Models are written in name order.
func WriteScores(w io.Writer, scores map[string]evaluate.Report) error {
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Model", "Log likelihood", "Responses", "Fallbacks", "Zero events", "Skipped unknown"}); err != nil {
		return err
	}
	for _, name := range names {
		r := scores[name]
		if err := cw.Write([]string{
			name,
			formatFloat(r.LogLikelihood),
			strconv.Itoa(r.Responses),
			strconv.Itoa(r.Fallbacks),
			strconv.Itoa(r.ZeroEvents),
			strconv.Itoa(r.SkippedUnknown),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func codeColumns(prefix string) []string {
	out := make([]string, len(cluster.Codes))
	for i, code := range cluster.Codes {
		out[i] = prefix + code.String()
	}
	return out
}

// codeProbs returns the probability of every real code; codes that cannot
// split c, or missing predictions, give 0.
func codeProbs(set predict.Set, word string, c cluster.Cluster) []string {
	d, ok := set.Lookup(word, c)
	out := make([]string, len(cluster.Codes))
	for i, code := range cluster.Codes {
		p := 0.0
		if ok {
			p = d.Prob(code)
		}
		out[i] = formatFloat(p)
	}
	return out
}

// chosen returns the code holding all the mass of a degenerate prediction,
// or "None".
func chosen(set predict.Set, word string, c cluster.Cluster) string {
	d, ok := set.Lookup(word, c)
	if !ok {
		return "None"
	}
	for _, code := range d.Codes() {
		if d.Prob(code) == 1 {
			return code.String()
		}
	}
	return "None"
}

func modelProb(set predict.Set, word string, o survey.Observation) string {
	if o.Code.IsUnknown() {
		return ""
	}
	d, ok := set.Lookup(word, o.Cluster)
	if !ok {
		return ""
	}
	return formatFloat(d.Prob(o.Code))
}

func stressFields(o survey.Observation) []string {
	if !o.HasStress {
		return []string{"", ""}
	}
	return []string{strconv.FormatBool(o.PrecedingStressed), strconv.FormatBool(o.LaxVowel)}
}

func indicator(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
