package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	syllabify "github.com/ieee0824/syllabify-go"
	"github.com/ieee0824/syllabify-go/syllable"
)

func main() {
	phonesPath := flag.String("phones", "", "CMU phones file (default: built-in inventory)")
	dictPath := flag.String("dict", "", "pronunciation dictionary (CMU format or TSV with frequencies)")
	format := flag.String("format", "syllabified", "output: plain, syllabified or onsets")
	initialOnly := flag.Bool("initial-only", false, "with -format onsets, only word-initial onsets")
	removeExotics := flag.Bool("remove-exotics", false, "treat onsets seen in a single word as illegal")
	splitRhotics := flag.Bool("split-rhotics", false, "rewrite ER as UH R")
	output := flag.String("output", "", "output file (default: stdout)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: syllabify -dict FILE [options]")
		fmt.Fprintln(os.Stderr, "  Syllabifies every dictionary entry by onset maximization,")
		fmt.Fprintln(os.Stderr, "  using the word-initial onsets of the dictionary as legal onsets.")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *dictPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	a, err := syllabify.NewAnalyzer(*phonesPath, *dictPath,
		syllabify.WithRemoveExotics(*removeExotics),
		syllabify.WithSplitRhotics(*splitRhotics),
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

	n, skipped, err := write(w, a, *format, *initialOnly)
	if err != nil {
		log.Fatalf("write: %v", err)
	}
	fmt.Fprintf(os.Stderr, "Syllabified %d words (%d without a vowel skipped)\n", n, skipped)
}

func write(w io.Writer, a *syllabify.Analyzer, format string, initialOnly bool) (int, int, error) {
	switch format {
	case "plain", "syllabified", "onsets":
	default:
		return 0, 0, fmt.Errorf("unknown format %q", format)
	}

	bw := bufio.NewWriter(w)
	var n, skipped int
	for _, t := range a.Dict.Transcriptions() {
		if format == "plain" {
			fmt.Fprintln(bw, t.String())
			n++
			continue
		}
		syl, err := a.Syllabify(t)
		if errors.Is(err, syllable.ErrNoNucleus) {
			skipped++
			continue
		}
		if err != nil {
			return n, skipped, err
		}
		n++
		if format == "syllabified" {
			fmt.Fprintln(bw, syl.Format())
			continue
		}
		for _, o := range syl.Onsets(initialOnly) {
			fmt.Fprintln(bw, o.Key())
		}
	}
	return n, skipped, bw.Flush()
}
