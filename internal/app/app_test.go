package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spellcheck/internal/corrector"
	"spellcheck/internal/customdict"
	"spellcheck/pkg/options"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func settings(t *testing.T) Settings {
	return Settings{
		DictionaryPath: writeFile(t, "en.txt", "this 900\nis 800\na 1000\ntest 500\ntext 300\nhello 200\nworld 200\nphone 50\n"),
		Detector:       "composite",
		Engine:         true,
		KeyboardLayout: "qwerty",
		Phonemes:       "en",
		LanguageModel:  writeFile(t, "lm.txt", "# counts\na 10\ntest 5\ntext 5\na test 4\n"),
		Options:        options.DefaultOptions,
	}
}

func TestBuildWiresEveryResource(t *testing.T) {
	ctx := context.Background()
	c, err := Build(ctx, settings(t), zerolog.Nop())
	require.NoError(t, err)
	defer c.Close()

	res, err := c.CheckText(ctx, "this is a tset")
	require.NoError(t, err)
	require.Equal(t, 1, res.ErrorCount)
	assert.Equal(t, "test", res.Errors[0].Suggestions[0])
	for _, name := range []string{"levenshtein", "missing_space", "backend", "keyboard", "phoneme", "detector:composite"} {
		assert.Contains(t, res.Sources, name)
	}
	assert.Equal(t, corrector.CodeOK, res.Sources["keyboard"].Status)
}

func TestBuildWithRedis(t *testing.T) {
	ctx := context.Background()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, customdict.New(client).Add(ctx, "kubectl"))

	s := settings(t)
	s.RedisAddr = srv.Addr()
	s.RedisKey = customdict.DefaultKey
	c, err := Build(ctx, s, zerolog.Nop())
	require.NoError(t, err)
	defer c.Close()

	res, err := c.CheckText(ctx, "hello kubectl")
	require.NoError(t, err)
	assert.Equal(t, 0, res.ErrorCount)
}

func TestBuildErrors(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		modify func(*Settings)
	}{
		{"missing dictionary", func(s *Settings) { s.DictionaryPath = filepath.Join(t.TempDir(), "none.txt") }},
		{"unknown detector", func(s *Settings) { s.Detector = "oracle" }},
		{"engine detector without engine", func(s *Settings) { s.Engine, s.Detector = false, "engine" }},
		{"missing layout file", func(s *Settings) { s.KeyboardLayout = "dvorak.tsv" }},
		{"bad model", func(s *Settings) { s.LanguageModel = writeFile(t, "bad.txt", "a b c d\n") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := settings(t)
			tt.modify(&s)
			_, err := Build(ctx, s, zerolog.Nop())
			assert.Error(t, err)
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DICTIONARY_PATH", "ru.txt")
	t.Setenv("ENGINE", "false")
	t.Setenv("AUTOCORRECT_MARGIN", "0.5")
	t.Setenv("GENERATOR_TIMEOUT", "750ms")
	t.Setenv("WORKERS", "nope")

	s := FromEnv()
	assert.Equal(t, "ru.txt", s.DictionaryPath)
	assert.False(t, s.Engine)
	assert.Equal(t, "qwerty", s.KeyboardLayout)
	assert.Equal(t, 0.5, s.Options.AutoCorrectMargin)
	assert.Equal(t, 750*time.Millisecond, s.Options.GeneratorTimeout)
	assert.Equal(t, options.DefaultOptions.Workers, s.Options.Workers)
}
