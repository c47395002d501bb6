package dictionary

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainsCaseFolded(t *testing.T) {
	d := FromWords("Test", "spelling")
	assert.True(t, d.Contains("test"))
	assert.True(t, d.Contains("TEST"))
	assert.True(t, d.Contains("Spelling"))
	assert.False(t, d.Contains("tset"))
	assert.Equal(t, 2, d.Len())
}

func TestRangeByLength(t *testing.T) {
	d := FromWords("a", "bb", "cc", "ddd", "eeee")
	var got []string
	d.Range(2, 3, func(w string, _ int64) bool {
		got = append(got, w)
		return true
	})
	assert.Equal(t, []string{"bb", "cc", "ddd"}, got)

	got = got[:0]
	d.Range(-5, 10, func(w string, _ int64) bool {
		got = append(got, w)
		return len(got) < 2
	})
	assert.Equal(t, []string{"a", "bb"}, got)
}

func TestWithOverlay(t *testing.T) {
	base := New(map[string]int64{"hello": 10})
	over := base.With([]string{"Kafka"}, CustomFrequency)

	assert.False(t, base.Contains("kafka"))
	assert.True(t, over.Contains("kafka"))
	assert.Equal(t, int64(CustomFrequency), over.Frequency("KAFKA"))
	assert.Equal(t, int64(10), over.Frequency("hello"))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "en.txt")
	content := "# comment\nthe 5000\nHello 12\n\nworld\nodd 3.7\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, d.Len())
	assert.Equal(t, int64(5000), d.Frequency("the"))
	assert.Equal(t, int64(12), d.Frequency("hello"))
	assert.Equal(t, int64(1), d.Frequency("world"))
	assert.Equal(t, int64(3), d.Frequency("odd"))
}

func TestLoadEmptyAndMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Len())

	_, err = Load(filepath.Join(dir, "nope.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseKeepsNonPositiveCounts(t *testing.T) {
	d, err := Parse(strings.NewReader("foo 0\nbar -3\nbaz 5\nbaz 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, d.Len())
	assert.Equal(t, int64(1), d.Frequency("foo"))
	assert.Equal(t, int64(1), d.Frequency("bar"))
	assert.Equal(t, int64(5), d.Frequency("baz"))
}
