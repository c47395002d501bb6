// Package app assembles a spell checker from deployment settings. It is shared
// by the server and the command-line tool.
package app

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"spellcheck/internal/corrector"
	"spellcheck/internal/customdict"
	"spellcheck/internal/detector"
	"spellcheck/internal/dictionary"
	"spellcheck/internal/engine"
	"spellcheck/internal/generator"
	"spellcheck/internal/ranker"
	"spellcheck/pkg/options"
)

type Settings struct {
	DictionaryPath string
	// Detector is dictionary, engine or composite.
	Detector       string
	// Engine enables the in-process spellchecker backend.
	Engine         bool
	EngineAlphabet string
	// KeyboardLayout is a built-in layout name or a distance matrix file;
	// empty disables the keyboard generator.
	KeyboardLayout string
	// Phonemes is "en" or a rule file; empty disables the phoneme generator.
	Phonemes       string
	LanguageModel  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisKey      string

	Options options.CheckerOptions
}

// FromEnv reads settings from the environment, falling back to defaults.
func FromEnv() Settings {
	o := options.DefaultOptions
	return Settings{
		DictionaryPath: getenv("DICTIONARY_PATH", "en.txt"),
		Detector:       getenv("DETECTOR", "dictionary"),
		Engine:         getEnvBool("ENGINE", true),
		EngineAlphabet: os.Getenv("ENGINE_ALPHABET"),
		KeyboardLayout: getenv("KEYBOARD_LAYOUT", "qwerty"),
		Phonemes:       getenv("PHONEMES", "en"),
		LanguageModel:  os.Getenv("LM_PATH"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		RedisKey:       getenv("REDIS_KEY", customdict.DefaultKey),
		Options: options.Build(
			options.WithMaxCandidates(getEnvInt("MAX_CANDIDATES", o.MaxCandidates)),
			options.WithMaxEditDistance(getEnvInt("MAX_EDIT_DISTANCE", o.MaxEditDistance)),
			options.WithAutoCorrectMargin(getEnvFloat("AUTOCORRECT_MARGIN", o.AutoCorrectMargin)),
			options.WithGeneratorTimeout(getEnvDuration("GENERATOR_TIMEOUT", o.GeneratorTimeout)),
			options.WithGeneratorConcurrency(getEnvInt("GENERATOR_CONCURRENCY", o.GeneratorConcurrency)),
			options.WithWorkers(getEnvInt("WORKERS", o.Workers)),
			options.WithMinPartLength(getEnvInt("MIN_PART_LENGTH", o.MinPartLength)),
			options.WithRRFConstant(getEnvFloat("RRF_K", o.RRFConstant)),
			options.WithContextWindow(getEnvInt("CONTEXT_WINDOW", o.ContextWindow)),
		),
	}
}

// RegisterFlags lets command-line flags override s.
func (s *Settings) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&s.DictionaryPath, "dict", s.DictionaryPath, "frequency dictionary file")
	fs.StringVar(&s.Detector, "detector", s.Detector, "dictionary | engine | composite")
	fs.BoolVar(&s.Engine, "engine", s.Engine, "enable the in-process spellchecker backend")
	fs.StringVar(&s.KeyboardLayout, "keyboard", s.KeyboardLayout, "qwerty | jcuken | matrix file, empty to disable")
	fs.StringVar(&s.Phonemes, "phonemes", s.Phonemes, "en | rule file, empty to disable")
	fs.StringVar(&s.LanguageModel, "lm", s.LanguageModel, "n-gram count file for reranking")
	fs.StringVar(&s.RedisAddr, "redis", s.RedisAddr, "redis address for custom words, empty to disable")
	fs.IntVar(&s.Options.MaxCandidates, "max-candidates", s.Options.MaxCandidates, "candidates per generator")
	fs.IntVar(&s.Options.MaxEditDistance, "max-distance", s.Options.MaxEditDistance, "edit distance bound")
	fs.Float64Var(&s.Options.AutoCorrectMargin, "margin", s.Options.AutoCorrectMargin, "score lead needed to auto-correct")
	fs.DurationVar(&s.Options.GeneratorTimeout, "generator-timeout", s.Options.GeneratorTimeout, "per generator call timeout")
	fs.IntVar(&s.Options.Workers, "workers", s.Options.Workers, "concurrent batch items")
	fs.BoolVar(&s.Options.SkipCapitalized, "skip-capitalized", s.Options.SkipCapitalized, "do not flag capitalized words")
}

// Checker is a built spell checker with the resources it holds.
type Checker struct {
	*corrector.SpellChecker
	redis *redis.Client
}

func (c *Checker) Close() error {
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}

// Build loads resources and wires the pipeline.
func Build(ctx context.Context, s Settings, log zerolog.Logger) (*Checker, error) {
	start := time.Now()
	dict, err := dictionary.Load(s.DictionaryPath)
	if err != nil {
		return nil, fmt.Errorf("load dictionary: %w", err)
	}
	log.Info().Str("path", s.DictionaryPath).Int("words", dict.Len()).Dur("elapsed", time.Since(start)).Msg("dictionary loaded")

	cfg := corrector.Config{Options: s.Options, Logger: log}
	gens := corrector.DefaultGenerators(s.Options)

	var eng engine.Engine
	if s.Engine {
		sp, err := engine.NewSpellchecker(s.EngineAlphabet, s.Options.MaxEditDistance, s.Options.MaxCandidates)
		if err != nil {
			return nil, err
		}
		sp.AddDictionary(dict)
		eng = engine.WithTimeout(sp, s.Options.GeneratorTimeout)
		gens = append(gens, generator.Backend{Engine: eng})
	}

	layout, err := keyboardLayout(s.KeyboardLayout)
	if err != nil {
		return nil, err
	}
	if layout != nil {
		gens = append(gens, generator.Keyboard{Layout: layout, MaxDistance: s.Options.MaxEditDistance})
	}

	rules, err := phonemeRules(s.Phonemes)
	if err != nil {
		return nil, err
	}
	if rules != nil {
		gens = append(gens, generator.NewPhoneme(rules, s.Options.MaxEditDistance))
	}
	cfg.Generators = gens

	det, err := buildDetector(s, eng, log)
	if err != nil {
		return nil, err
	}
	cfg.Detector = det

	ens := ranker.Ensemble{K: s.Options.RRFConstant}
	if s.LanguageModel != "" {
		m, err := ranker.LoadModel(s.LanguageModel)
		if err != nil {
			return nil, err
		}
		ens.Extra = append(ens.Extra, ranker.LanguageModel{Model: m, Window: s.Options.ContextWindow})
	}
	cfg.Ranker = ens

	c := &Checker{}
	if s.RedisAddr != "" {
		c.redis = redis.NewClient(&redis.Options{
			Addr:     s.RedisAddr,
			Password: s.RedisPassword,
			DB:       s.RedisDB,
		})
		cfg.Custom = customdict.NewWithKey(c.redis, s.RedisKey)
	}

	sc, err := corrector.New(ctx, dict, cfg)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.SpellChecker = sc
	names := make([]string, len(gens))
	for i, g := range gens {
		names[i] = g.Name()
	}
	log.Info().Strs("generators", names).Str("detector", det.Name()).Bool("custom_words", cfg.Custom != nil).Msg("spell checker ready")
	return c, nil
}

func buildDetector(s Settings, eng engine.Engine, log zerolog.Logger) (detector.Detector, error) {
	dict := detector.Dictionary{SkipCapitalized: s.Options.SkipCapitalized}
	switch s.Detector {
	case "", "dictionary":
		return dict, nil
	case "engine", "composite":
		if eng == nil {
			return nil, fmt.Errorf("detector %q needs the engine enabled", s.Detector)
		}
		ed := detector.Engine{Engine: eng, SkipCapitalized: s.Options.SkipCapitalized}
		if s.Detector == "engine" {
			return ed, nil
		}
		return detector.Composite{Detectors: []detector.Detector{dict, ed}, Logger: log}, nil
	}
	return nil, fmt.Errorf("unknown detector %q", s.Detector)
}

func keyboardLayout(v string) (*generator.Layout, error) {
	if v == "" {
		return nil, nil
	}
	if l := generator.BuiltinLayout(v); l != nil {
		return l, nil
	}
	return generator.LoadLayout(v)
}

func phonemeRules(v string) (*generator.PhonemeRules, error) {
	switch strings.ToLower(v) {
	case "":
		return nil, nil
	case "en", "english":
		return generator.EnglishPhonemes(), nil
	}
	return generator.LoadPhonemes(v)
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if i, err := strconv.Atoi(v); err == nil {
		return i
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return def
}
