// Package phonotactic counts word-edge consonant clusters in a pronunciation
// corpus and turns the counts into length-conditioned probability models.
package phonotactic

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/ieee0824/syllabify-go/cluster"
)

// Table maps consonant sequences to non-negative counts.
type Table struct {
	counts map[string]int
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{counts: make(map[string]int)}
}

// Add increments the count of c by n. Negative n is ignored.
func (t *Table) Add(c cluster.Cluster, n int) {
	if n < 0 {
		return
	}
	t.counts[c.Key()] += n
}

// Count returns the count of c, 0 when absent.
func (t *Table) Count(c cluster.Cluster) int {
	return t.counts[c.Key()]
}

// Has reports whether c was ever added.
func (t *Table) Has(c cluster.Cluster) bool {
	_, ok := t.counts[c.Key()]
	return ok
}

// Len returns the number of distinct sequences.
func (t *Table) Len() int { return len(t.counts) }

// Total returns the sum of all counts.
func (t *Table) Total() int {
	total := 0
	for _, n := range t.counts {
		total += n
	}
	return total
}

// Clusters returns the distinct sequences ordered by length, then key.
func (t *Table) Clusters() []cluster.Cluster {
	keys := t.sortedKeys()
	out := make([]cluster.Cluster, len(keys))
	for i, k := range keys {
		out[i] = cluster.ParseCluster(k)
	}
	return out
}

func (t *Table) sortedKeys() []string {
	keys := make([]string, 0, len(t.counts))
	for k := range t.counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		li, lj := keyLen(keys[i]), keyLen(keys[j])
		if li != lj {
			return li < lj
		}
		return keys[i] < keys[j]
	})
	return keys
}

func keyLen(k string) int {
	if k == "" {
		return 0
	}
	return strings.Count(k, " ") + 1
}

// WriteTSV writes the table as cluster<TAB>count lines in Clusters order.
// The empty sequence is written as "()".
func (t *Table) WriteTSV(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, k := range t.sortedKeys() {
		name := k
		if name == "" {
			name = "()"
		}
		if _, err := fmt.Fprintf(bw, "%s\t%d\n", name, t.counts[k]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// LoadTSV reads a table written by WriteTSV.
func LoadTSV(r io.Reader) (*Table, error) {
	t := NewTable()
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: expected 2 tab-separated fields, got %d", lineNum, len(parts))
		}
		n, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad count: %w", lineNum, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("line %d: negative count %d", lineNum, n)
		}
		key := strings.TrimSpace(parts[0])
		if key == "()" {
			key = ""
		}
		t.Add(cluster.ParseCluster(key), n)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return t, nil
}
