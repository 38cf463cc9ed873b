package survey

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ieee0824/syllabify-go/cluster"
	"github.com/ieee0824/syllabify-go/phone"
	"github.com/ieee0824/syllabify-go/predict"
)

// Column names of the survey export.
const (
	ColWord          = "Word"
	ColTranscription = "Transcription"
)

// Options controls ReadCSV.
type Options struct {
	// SeparateWords keys observations by word and cluster instead of
	// cluster only.
	SeparateWords bool
	// CheckStress records the stress and laxness of the vowel before the
	// cluster.
	CheckStress bool
}

// CountColumn returns the response-count column of code, e.g. "# of C.*".
func CountColumn(code cluster.Code) string {
	if code.IsUnknown() {
		return "# of ?"
	}
	return "# of " + code.Label() + "*"
}

// PropColumn returns the response-proportion column of code, e.g. "prop. of C.*".
func PropColumn(code cluster.Code) string {
	if code.IsUnknown() {
		return "prop. of ?"
	}
	return "prop. of " + code.Label() + "*"
}

// ReadCSV parses survey rows with a header naming at least Word and
// Transcription. Rows without a transcription are ignored; rows whose
// transcription has no medial cluster are listed in Set.Skipped. Only codes
// valid for the cluster length produce observations.
func ReadCSV(r io.Reader, inv *phone.Inventory, opts Options) (*Set, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("survey: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("survey: header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")] = i
	}
	for _, name := range []string{ColWord, ColTranscription} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("survey: missing column %q", name)
		}
	}

	set := NewSet()
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("survey: %w", err)
		}
		line, _ := cr.FieldPos(0)
		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		word := field(ColWord)
		stressed := phone.ParseTranscription(field(ColTranscription))
		if len(stressed) == 0 {
			continue
		}
		m, ok := cluster.Extract(stressed, inv)
		if !ok {
			set.Skipped = append(set.Skipped, word)
			continue
		}

		base := Observation{
			Word:          word,
			Transcription: stressed.StripStress(),
			Cluster:       m.Cluster,
			Start:         m.Start,
		}
		if opts.CheckStress {
			vowel := stressed[m.Start-1]
			stress, _ := vowel.Stress()
			base.StressTranscription = stressed
			base.HasStress = true
			base.PrecedingStressed = stress > 0
			base.LaxVowel = inv.IsLax(vowel)
		}

		key := predict.KeyFor("", m.Cluster)
		if opts.SeparateWords {
			key = predict.KeyFor(word, m.Cluster)
		}
		for _, code := range cluster.ValidCodes(len(m.Cluster)) {
			o := base
			o.Code = code
			o.Split, err = cluster.CodaOnset(code, m.Cluster)
			if err != nil {
				return nil, fmt.Errorf("survey: line %d: %w", line, err)
			}
			if o.Responses, err = parseCount(field(CountColumn(code))); err != nil {
				return nil, fmt.Errorf("survey: line %d: %q: %w", line, CountColumn(code), err)
			}
			if o.Proportion, err = parseProp(field(PropColumn(code))); err != nil {
				return nil, fmt.Errorf("survey: line %d: %q: %w", line, PropColumn(code), err)
			}
			set.Add(key, o)
		}
	}
	return set, nil
}

// LoadFile reads a survey CSV from path.
func LoadFile(path string, inv *phone.Inventory, opts Options) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f, inv, opts)
}

func parseCount(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count %g", n)
	}
	if n != math.Trunc(n) {
		return 0, fmt.Errorf("count %g is not a whole number", n)
	}
	return int(n), nil
}

func parseProp(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
