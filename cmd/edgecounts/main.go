package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	syllabify "github.com/ieee0824/syllabify-go"
	"github.com/ieee0824/syllabify-go/report"
)

func main() {
	phonesPath := flag.String("phones", "", "CMU phones file (default: built-in inventory)")
	dictPath := flag.String("dict", "", "pronunciation dictionary (CMU format or TSV with frequencies)")
	splitRhotics := flag.Bool("split-rhotics", false, "rewrite ER as UH R before counting")
	weighted := flag.Bool("weighted", false, "weight counts by corpus frequency")
	lengthSmooth := flag.Float64("length-smooth", 0, "count added to every cluster length total")
	output := flag.String("output", "", "output CSV file (default: stdout)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: edgecounts -dict FILE [options]")
		fmt.Fprintln(os.Stderr, "  Counts word-initial onsets and word-final codas and writes their")
		fmt.Fprintln(os.Stderr, "  counts, proportions and length-conditioned probabilities as CSV.")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *dictPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	a, err := syllabify.NewAnalyzer(*phonesPath, *dictPath,
		syllabify.WithSplitRhotics(*splitRhotics),
		syllabify.WithWeighted(*weighted),
		syllabify.WithLengthSmoothing(*lengthSmooth),
	)
	if err != nil {
		log.Fatalf("init: %v", err)
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

	if err := report.WriteEdges(w, a.Onsets, a.Codas, a.LengthSmoothing); err != nil {
		log.Fatalf("write: %v", err)
	}
	fmt.Fprintf(os.Stderr, "Counted %d onsets and %d codas from %d words\n", a.Onsets.Len(), a.Codas.Len(), a.Dict.Len())
}
