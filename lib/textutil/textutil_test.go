package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	table := []struct {
		input    string
		expected string
	}{
		{input: "a\nb   c", expected: "a b c"},
		{input: "", expected: ""},
		{input: "   ", expected: ""},
		{input: "\tWhich of the\r\nfollowing\n\n  is TRUE? ", expected: "Which of the following is TRUE?"},
		{input: "single", expected: "single"},
		{input: "a\u00a0\u00a0b", expected: "a b"},
		{input: "a\v\vb", expected: "a b"},
		{input: "a\u0085b", expected: "a b"},
		{input: "a\u2028b\u2029c", expected: "a b c"},
	}

	for _, row := range table {
		require.Equal(t, row.expected, Normalize(row.input), "input: %q", row.input)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"a\nb   c",
		"  leading and trailing  ",
		"\n\n\n",
		"mixed \t\r\n whitespace\n\tall over ",
		"already normal",
	}
	for _, input := range inputs {
		once := Normalize(input)
		require.Equal(t, once, Normalize(once), "input: %q", input)
	}
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "abc", Truncate("abcdef", 3))
	require.Equal(t, "ab", Truncate("ab", 3))
	require.Equal(t, "ĀĂ", Truncate("ĀĂĄ", 2))
	require.Equal(t, "", Truncate("abc", 0))
}
