package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEngine struct {
	known map[string]bool
	sugg  map[string][]string
	delay time.Duration
}

func (s *stubEngine) Check(ctx context.Context, word string) (bool, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.known[word], nil
}

func (s *stubEngine) Suggest(_ context.Context, word string) ([]string, error) {
	return s.sugg[word], nil
}

func (s *stubEngine) CorrectText(ctx context.Context, text string) (string, error) {
	return CorrectWords(ctx, s, text)
}

type stubReporter struct{ stubEngine }

func (s *stubReporter) Issues(context.Context, string) ([]Issue, error) {
	return []Issue{{Offset: 0, Length: 1, Grammar: true}}, nil
}

func TestCorrectWords(t *testing.T) {
	e := &stubEngine{
		known: map[string]bool{"this": true, "is": true},
		sugg:  map[string][]string{"tset": {"test", "set"}},
	}
	out, err := e.CorrectText(context.Background(), "this is tset, 42!")
	require.NoError(t, err)
	assert.Equal(t, "this is test, 42!", out)

	out, err = e.CorrectText(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestWithTimeoutAbandonsSlowCalls(t *testing.T) {
	e := WithTimeout(&stubEngine{delay: 200 * time.Millisecond}, 10*time.Millisecond)
	start := time.Now()
	_, err := e.Check(context.Background(), "word")
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 150*time.Millisecond)
}

func TestWithTimeoutKeepsReporter(t *testing.T) {
	e := WithTimeout(&stubReporter{}, time.Second)
	r, ok := e.(IssueReporter)
	require.True(t, ok)
	issues, err := r.Issues(context.Background(), "x")
	require.NoError(t, err)
	assert.Len(t, issues, 1)

	_, ok = WithTimeout(&stubEngine{}, time.Second).(IssueReporter)
	assert.False(t, ok)
}

func TestBoundedRecoversPanic(t *testing.T) {
	_, err := Bounded(context.Background(), 0, func(context.Context) (int, error) {
		panic("boom")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestSpellchecker(t *testing.T) {
	sc, err := NewSpellchecker("", 2, 5)
	require.NoError(t, err)
	sc.Add("test", "spelling", "hello")

	ok, err := sc.Check(context.Background(), "Test")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = sc.Check(context.Background(), "tset")
	require.NoError(t, err)
	assert.False(t, ok)

	sugg, err := sc.Suggest(context.Background(), "speling")
	require.NoError(t, err)
	assert.Contains(t, sugg, "spelling")
}
