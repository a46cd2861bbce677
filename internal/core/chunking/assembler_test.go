package chunking

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertWithinCeiling(t *testing.T, chunks []string, max int) {
	t.Helper()
	for i, c := range chunks {
		n := utf8.RuneCountInString(c)
		assert.LessOrEqual(t, n, max, "chunk %d has %d runes", i, n)
		assert.NotEmpty(t, c, "chunk %d is empty", i)
		assert.True(t, utf8.ValidString(c), "chunk %d is not valid utf-8", i)
	}
}

func TestAssemble_Empty(t *testing.T) {
	assert.Equal(t, []string{}, Assemble(nil, 100))
	assert.Equal(t, []string{}, Assemble([]string{"", ""}, 100))
}

func TestAssemble_PacksSentencesUntilCeiling(t *testing.T) {
	got := Assemble([]string{"aaa", "bbb", "ccc", "ddd"}, 7)
	assert.Equal(t, []string{"aaa bbb", "ccc ddd"}, got)
}

func TestAssemble_ExactFitIncludesSeparator(t *testing.T) {
	// "aaaa bbbbb" is exactly 10 runes
	assert.Equal(t, []string{"aaaa bbbbb"}, Assemble([]string{"aaaa", "bbbbb"}, 10))
	// one more rune would overflow, so the second sentence starts a new chunk
	assert.Equal(t, []string{"aaaa", "bbbbbb"}, Assemble([]string{"aaaa", "bbbbbb"}, 10))
}

func TestAssemble_TwoLargeSentences(t *testing.T) {
	first := strings.Repeat("a", 600)
	second := strings.Repeat("b", 600)

	got := Assemble([]string{first, second}, 1000)
	assert.Equal(t, []string{first, second}, got)
}

func TestAssemble_OversizedSentenceHardSplit(t *testing.T) {
	sentence := strings.Repeat("x", 3000)
	got := Assemble([]string{sentence}, 1000)
	require.Len(t, got, 3)
	for _, c := range got {
		assert.Len(t, c, 1000)
	}

	withTail := strings.Repeat("y", 3250)
	got = Assemble([]string{withTail}, 1000)
	require.Len(t, got, 4)
	assert.Len(t, got[3], 250)
}

func TestAssemble_OversizedFlushesPendingChunk(t *testing.T) {
	got := Assemble([]string{"intro.", strings.Repeat("z", 25)}, 10)
	assert.Equal(t, []string{"intro.", "zzzzzzzzzz", "zzzzzzzzzz", "zzzzz"}, got)
}

func TestAssemble_TailSeedsNextChunk(t *testing.T) {
	got := Assemble([]string{strings.Repeat("z", 23), "ok."}, 10)
	assert.Equal(t, []string{"zzzzzzzzzz", "zzzzzzzzzz", "zzz ok."}, got)
}

func TestAssemble_TailAccountsForSeparator(t *testing.T) {
	// tail "zzzzz" (5) + " " + "bbbbb" (5) would be 11 > 10
	got := Assemble([]string{strings.Repeat("z", 15), "bbbbb"}, 10)
	assert.Equal(t, []string{"zzzzzzzzzz", "zzzzz", "bbbbb"}, got)
	assertWithinCeiling(t, got, 10)
}

func TestAssemble_PathologicalInputs(t *testing.T) {
	for _, max := range []int{1, 2, 7, 50, 1000} {
		inputs := [][]string{
			{strings.Repeat("q", 10*max)},
			{strings.Repeat("r", max+1)},
			{"a", strings.Repeat("s", max+1), "b", "c"},
			{strings.Repeat("é", 3*max+1), "ção"},
		}
		for _, sentences := range inputs {
			assertWithinCeiling(t, Assemble(sentences, max), max)
		}
	}
}

func TestAssemble_CountsRunesNotBytes(t *testing.T) {
	sentence := strings.Repeat("ã", 10) // 20 bytes, 10 runes
	assert.Equal(t, []string{sentence}, Assemble([]string{sentence}, 10))
}

func TestAssemble_NonPositiveCeilingUsesDefault(t *testing.T) {
	got := Assemble([]string{strings.Repeat("k", DefaultMaxChunkSize+1)}, 0)
	require.Len(t, got, 2)
	assert.Len(t, got[0], DefaultMaxChunkSize)
}
