package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ieee0824/syllabify-go/cluster"
	"github.com/ieee0824/syllabify-go/phone"
)

func main() {
	n := flag.Int("n", 2, "onset length")
	vowel := flag.String("vowel", "IY2", "vowel appended to every onset")
	phonesPath := flag.String("phones", "", "CMU phones file (default: built-in inventory)")
	format := flag.String("format", "wugs", "output: wugs, syllabified, onsets or key")
	output := flag.String("output", "", "output file (default: stdout)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: wugs [options]")
		fmt.Fprintln(os.Stderr, "  Generates nonce words from every onset of n distinct consonants.")
		fmt.Fprintln(os.Stderr, "  The key format lists each onset with its sonority levels and profile.")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()

	inv := phone.DefaultInventory()
	if *phonesPath != "" {
		var err error
		inv, err = phone.LoadFile(*phonesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load phones: %v\n", err)
			os.Exit(1)
		}
	}
	if !inv.IsVowel(phone.Phone(*vowel)) {
		fmt.Fprintf(os.Stderr, "%s is not a vowel\n", *vowel)
		os.Exit(1)
	}

	onsets := cluster.Sequences(*n, inv.Consonants())

	var w *os.File
	if *output != "" {
		var err error
		w, err = os.Create(*output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "create %s: %v\n", *output, err)
			os.Exit(1)
		}
		defer w.Close()
	} else {
		w = os.Stdout
	}

	if err := write(w, *format, onsets, phone.Phone(*vowel), inv); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Generated %d onsets of length %d\n", len(onsets), *n)
}

func write(w io.Writer, format string, onsets []cluster.Cluster, vowel phone.Phone, inv *phone.Inventory) error {
	bw := bufio.NewWriter(w)
	for _, o := range onsets {
		wug := o.Key() + " " + string(vowel)
		var line string
		switch format {
		case "wugs":
			line = wug
		case "syllabified":
			line = "+ " + wug + " +"
		case "onsets":
			line = o.Key()
		case "key":
			levels := inv.SonorityProfile(o)
			strs := make([]string, len(levels))
			for i, l := range levels {
				strs[i] = fmt.Sprint(l)
			}
			line = o.Key() + "\t(" + strings.Join(strs, ", ") + ")\t" + string(phone.ClassifyProfile(levels))
		default:
			return fmt.Errorf("unknown format %q", format)
		}
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}
	return bw.Flush()
}
