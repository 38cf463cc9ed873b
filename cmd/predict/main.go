package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"strings"
	"syscall"

	syllabify "github.com/ieee0824/syllabify-go"
	"github.com/ieee0824/syllabify-go/evaluate"
	"github.com/ieee0824/syllabify-go/morpheme"
	"github.com/ieee0824/syllabify-go/predict"
	"github.com/ieee0824/syllabify-go/report"
	"github.com/ieee0824/syllabify-go/store"
	"github.com/ieee0824/syllabify-go/survey"
)

func main() {
	phonesPath := flag.String("phones", "", "CMU phones file (default: built-in inventory)")
	dictPath := flag.String("dict", "", "pronunciation dictionary (CMU format or TSV with frequencies)")
	surveyPath := flag.String("survey", "", "survey responses CSV")
	morphPath := flag.String("morphemes", "", "morpheme annotations CSV (Word,Morph1,Morph2)")
	affixPath := flag.String("affixes", "", "affix lengths CSV (Affix,Length)")
	exclude := flag.String("exclude", "informed", "comma-separated words left out of the morpheme index")
	separateWords := flag.Bool("separate-words", true, "predict and report per word instead of per cluster")
	format := flag.String("format", "long", "output: long, onehot, multinom or scores")
	models := flag.String("models", "joint,onsetmax", "comma-separated model columns")
	splitRows := flag.Bool("split-rows", true, "multinom: one row per response instead of a Count column")
	stress := flag.Bool("stress", false, "add preceding stress and lax vowel columns")
	separateProbs := flag.Bool("separate-probs", false, "multinom: add coda-only and onset-only scores")
	rawCounts := flag.Bool("raw-counts", false, "long: write response counts instead of proportions")
	normalize := flag.Bool("normalize", true, "normalize joint scores over the cluster's splits")
	weighted := flag.Bool("weighted", false, "weight edge counts by corpus frequency")
	splitRhotics := flag.Bool("split-rhotics", false, "rewrite ER as UH R")
	removeExotics := flag.Bool("remove-exotics", false, "treat onsets seen in a single word as illegal")
	lengthSmooth := flag.Float64("length-smooth", 0, "count added to every cluster length total")
	lambda := flag.Float64("lambda", 1e-14, "add-lambda smoothing: lambda is added to every split before renormalizing, when scoring")
	dbPath := flag.String("db", "", "SQLite database recording the run (optional)")
	workers := flag.Int("workers", runtime.NumCPU(), "number of prediction goroutines")
	verbose := flag.Bool("v", false, "log diagnostics to stderr")
	output := flag.String("output", "", "output CSV file (default: stdout)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: predict -dict FILE -survey FILE [options]")
		fmt.Fprintln(os.Stderr, "  Predicts the syllable boundary of each surveyed medial cluster from")
		fmt.Fprintln(os.Stderr, "  word-edge frequencies, onset maximization and morpheme boundaries,")
		fmt.Fprintln(os.Stderr, "  and scores every model by the log-likelihood of the responses.")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *dictPath == "" || *surveyPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if (*morphPath == "") != (*affixPath == "") {
		log.Fatal("-morphemes and -affixes must be given together")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var logger *log.Logger
	if *verbose {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	a, err := syllabify.NewAnalyzer(*phonesPath, *dictPath,
		syllabify.WithWeighted(*weighted),
		syllabify.WithSplitRhotics(*splitRhotics),
		syllabify.WithRemoveExotics(*removeExotics),
		syllabify.WithLengthSmoothing(*lengthSmooth),
		syllabify.WithWorkers(*workers),
		syllabify.WithLogger(logger),
	)
	if err != nil {
		log.Fatalf("init: %v", err)
	}

	if *morphPath != "" {
		idx, err := morpheme.LoadFiles(*morphPath, *affixPath, a.Dict, splitList(*exclude)...)
		if err != nil {
			log.Fatalf("load morphemes: %v", err)
		}
		if len(idx.Unresolved) > 0 {
			fmt.Fprintf(os.Stderr, "%d annotated words without a morpheme boundary\n", len(idx.Unresolved))
		}
		a.Morphemes = idx
	}

	obs, err := survey.LoadFile(*surveyPath, a.Inventory, survey.Options{SeparateWords: *separateWords, CheckStress: *stress})
	if err != nil {
		log.Fatalf("load survey: %v", err)
	}
	if len(obs.Skipped) > 0 {
		fmt.Fprintf(os.Stderr, "Skipped %d survey words without a medial cluster\n", len(obs.Skipped))
	}

	opts := predict.DefaultOptions()
	opts.Normalize = *normalize
	opts.WithComponents = *separateProbs
	res, diag, err := a.Predict(ctx, obs, *separateWords, opts)
	if err != nil {
		log.Fatalf("predict: %v", err)
	}
	fmt.Fprintf(os.Stderr, "Predicted %d clusters (%d without joint probability mass)\n", diag.Clusters, diag.AllZero)

	scores, err := a.Evaluate(obs, res, *lambda)
	if err != nil {
		log.Fatalf("evaluate: %v", err)
	}
	for _, name := range sortedModels(scores) {
		fmt.Fprintf(os.Stderr, "  %-9s log-likelihood %.4f over %d responses\n", name, scores[name].LogLikelihood, scores[name].Responses)
	}

	if *dbPath != "" {
		if err := record(*dbPath, a, res, scores); err != nil {
			log.Fatalf("record run: %v", err)
		}
	}

	var w *os.File
	if *output != "" {
		w, err = os.Create(*output)
		if err != nil {
			log.Fatalf("create %s: %v", *output, err)
		}
		defer w.Close()
	} else {
		w = os.Stdout
	}

	cfg := report.Config{
		SeparateWords:    *separateWords,
		RawCounts:        *rawCounts,
		IncludeModels:    splitList(*models),
		SplitRows:        *splitRows,
		IncludeStress:    *stress,
		IncludeMorphemes: a.Morphemes != nil,
		SeparateProbs:    *separateProbs,
	}
	rows := obs
	if !*separateWords {
		rows = obs.Consolidated()
	}
	if err := write(w, *format, rows, res, scores, cfg); err != nil {
		log.Fatalf("write: %v", err)
	}
}

func write(w io.Writer, format string, obs *survey.Set, res predict.Result, scores map[string]evaluate.Report, cfg report.Config) error {
	switch format {
	case "long":
		return report.WriteLong(w, obs, res, cfg)
	case "onehot":
		return report.WriteOneHot(w, obs, res, cfg)
	case "multinom":
		return report.WriteMultinom(w, obs, res, cfg)
	case "scores":
		return report.WriteScores(w, scores)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func record(path string, a *syllabify.Analyzer, res predict.Result, scores map[string]evaluate.Report) error {
	db, err := store.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	var runID string
	err = store.WithTx(db, func(tx *sql.Tx) error {
		var err error
		runID, err = store.NewRun(tx, strings.Join(os.Args[1:], " "))
		if err != nil {
			return err
		}
		if err := store.SaveTable(tx, runID, store.SideOnset, a.Onsets, a.OnsetModel); err != nil {
			return err
		}
		if err := store.SaveTable(tx, runID, store.SideCoda, a.Codas, a.CodaModel); err != nil {
			return err
		}
		for name, set := range res {
			if err := store.SavePredictions(tx, runID, name, set); err != nil {
				return err
			}
		}
		for name, r := range scores {
			if err := store.SaveScore(tx, runID, name, r); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Recorded run %s in %s\n", runID, path)
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func sortedModels(scores map[string]evaluate.Report) []string {
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
