package syllable

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ieee0824/syllabify-go/cluster"
	"github.com/ieee0824/syllabify-go/phone"
	"github.com/ieee0824/syllabify-go/phonotactic"
)

func onsets(keys ...string) *OnsetSet {
	s := NewOnsetSet()
	for _, k := range keys {
		s.Add(cluster.ParseCluster(k))
	}
	return s
}

func TestSyllabifyLongestOnsetWins(t *testing.T) {
	s := NewSyllabifier(onsets("S T R", "T R", "R", "S", "T"), phone.DefaultInventory())
	got, err := s.Syllabify(phone.ParseTranscription("AH0 S T R AY1"))
	require.NoError(t, err)
	assert.Equal(t, "+ AH0 + S T R AY1 +", got.Format())
}

func TestSyllabify(t *testing.T) {
	s := NewSyllabifier(onsets("S T", "T", "S", "N", "D", "P L", "L", "K"), phone.DefaultInventory())
	tests := []struct {
		in   string
		want string
	}{
		{"HH AE1 M S T ER0", "+ HH AE1 M + S T ER0 +"},
		{"K AE1 N D AH0 L", "+ K AE1 N + D AH0 L +"},
		{"AE1 P L IY0", "+ AE1 + P L IY0 +"},
		{"AH0 B AW1 T", "+ AH0 B + AW1 T +"},
		{"S T R IY1 T", "+ S T R IY1 T +"},
		{"IY1 AA0", "+ IY1 + AA0 +"},
		{"AY1", "+ AY1 +"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := s.Syllabify(phone.ParseTranscription(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format())
		})
	}
}

func TestSyllabifyRoundTrip(t *testing.T) {
	s := NewSyllabifier(onsets("S T R", "S T", "T", "R", "K", "B L"), phone.DefaultInventory())
	inputs := []string{
		"EH1 K S T R AH0",
		"S T R EH1 NG K TH S",
		"AH0 B L AY1 K S T R IY0 M",
		"IY1 Q AA0",
		"M IH1 S T",
	}
	for _, in := range inputs {
		tr := phone.ParseTranscription(in)
		got, err := s.Syllabify(tr)
		require.NoError(t, err, in)
		assert.Equal(t, tr, got.Phones(), in)
	}
}

func TestSyllabifyNoNucleus(t *testing.T) {
	s := NewSyllabifier(NewOnsetSet(), phone.DefaultInventory())
	_, err := s.Syllabify(phone.ParseTranscription("HH M"))
	require.True(t, errors.Is(err, ErrNoNucleus))
}

func TestSyllabifyIgnoresStressWhenMatching(t *testing.T) {
	s := NewSyllabifier(onsets("B"), phone.DefaultInventory())
	got, err := s.Syllabify(phone.ParseTranscription("AH0 B AH1"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, phone.Phone("AH0"), got[0].Nucleus)
	assert.Empty(t, got[0].Coda)
	assert.Equal(t, []phone.Phone{"B"}, got[1].Onset)
}

func TestSplitCluster(t *testing.T) {
	s := NewSyllabifier(onsets("S T", "T", "S"), phone.DefaultInventory())
	tests := []struct {
		cluster string
		coda    int
	}{
		{"M S T", 1},
		{"N D", 2},
		{"S T", 0},
		{"T", 0},
	}
	for _, tt := range tests {
		got, err := s.SplitCluster(cluster.ParseCluster(tt.cluster))
		require.NoError(t, err)
		assert.Equal(t, tt.coda, got, tt.cluster)
	}
}

func TestLegalOnsetsRemoveExotics(t *testing.T) {
	table := phonotactic.NewTable()
	table.Add(cluster.ParseCluster("S T"), 5)
	table.Add(cluster.ParseCluster("V L"), 1)
	table.Add(cluster.ParseCluster(""), 3)

	all := LegalOnsets(table, false)
	assert.True(t, all.Contains(cluster.ParseCluster("V L")))
	assert.Equal(t, 2, all.MaxLen())

	common := LegalOnsets(table, true)
	assert.False(t, common.Contains(cluster.ParseCluster("V L")))
	assert.True(t, common.Contains(cluster.ParseCluster("S T")))
	assert.True(t, common.Contains(cluster.Cluster{}))
	assert.Equal(t, []cluster.Cluster{cluster.ParseCluster("S T"), cluster.ParseCluster("")}, common.Onsets())
}

func TestExoticOnsetStillWordInitial(t *testing.T) {
	table := phonotactic.NewTable()
	table.Add(cluster.ParseCluster("V L"), 1)
	table.Add(cluster.ParseCluster("L"), 4)
	s := NewSyllabifier(LegalOnsets(table, true), phone.DefaultInventory())

	got, err := s.Syllabify(phone.ParseTranscription("V L AA1 D AH0 V L AA0"))
	require.NoError(t, err)
	assert.Equal(t, "+ V L AA1 D + AH0 V + L AA0 +", got.Format())
}

func TestSyllabificationOnsets(t *testing.T) {
	s := NewSyllabifier(onsets("S T", "T", "K"), phone.DefaultInventory())
	got, err := s.Syllabify(phone.ParseTranscription("S T AA1 K T IY0"))
	require.NoError(t, err)
	assert.Equal(t, []cluster.Cluster{{"S", "T"}, {"T"}}, got.Onsets(false))
	assert.Equal(t, []cluster.Cluster{{"S", "T"}}, got.Onsets(true))
}
