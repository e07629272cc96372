package stock

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextReference(t *testing.T) {
	cases := []struct {
		name     string
		prefix   string
		existing []string
		want     string
	}{
		{"first of its prefix", "OUT", nil, "OUT00001"},
		{"continues the sequence", "OUT", []string{"OUT00001", "OUT00007", "OUT00003"}, "OUT00008"},
		{"ignores other prefixes", "OUT", []string{"IN00042", "OUT00002"}, "OUT00003"},
		{"unparsable suffix falls back to one", "OUT", []string{"OUTLEGACY"}, "OUT00001"},
		{"mixed parsable and unparsable", "OUT", []string{"OUT-DRAFT", "OUT00009"}, "OUT00010"},
		{"keeps zero padding past five digits", "OUT", []string{"OUT99999"}, "OUT100000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, NextReference(tc.prefix, tc.existing))
		})
	}
}
