package options

import "time"

// DefaultOptions favour leaving text alone when the ranking is ambiguous.
var DefaultOptions = CheckerOptions{
	MaxCandidates:        10,
	MaxEditDistance:      2,
	AutoCorrectMargin:    0.25,
	GeneratorTimeout:     2 * time.Second,
	GeneratorConcurrency: 8,
	Workers:              4,
	MinPartLength:        1,
	RRFConstant:          1,
	ContextWindow:        1,
	SkipCapitalized:      false,
	PreserveCase:         true,
}

type CheckerOptions struct {
	MaxCandidates   int // per generator, and in reported findings
	MaxEditDistance int
	// AutoCorrectMargin is the fused-score lead the top candidate needs over
	// the runner-up before CorrectText applies it unasked.
	AutoCorrectMargin    float64
	GeneratorTimeout     time.Duration
	GeneratorConcurrency int // concurrent generator calls within one check
	Workers              int // concurrent items in a batch
	MinPartLength        int
	RRFConstant          float64
	ContextWindow        int
	SkipCapitalized      bool
	PreserveCase         bool
}

type Options interface {
	Apply(options *CheckerOptions)
}

type FuncConfig struct {
	ops func(options *CheckerOptions)
}

func (w FuncConfig) Apply(conf *CheckerOptions) {
	w.ops(conf)
}

func NewFuncOption(f func(options *CheckerOptions)) *FuncConfig {
	return &FuncConfig{ops: f}
}

// Build applies opts over DefaultOptions.
func Build(opts ...Options) CheckerOptions {
	o := DefaultOptions
	for _, opt := range opts {
		opt.Apply(&o)
	}
	return o
}

func WithMaxCandidates(n int) Options {
	return NewFuncOption(func(options *CheckerOptions) {
		options.MaxCandidates = n
	})
}

func WithMaxEditDistance(d int) Options {
	return NewFuncOption(func(options *CheckerOptions) {
		options.MaxEditDistance = d
	})
}

func WithAutoCorrectMargin(margin float64) Options {
	return NewFuncOption(func(options *CheckerOptions) {
		options.AutoCorrectMargin = margin
	})
}

func WithGeneratorTimeout(d time.Duration) Options {
	return NewFuncOption(func(options *CheckerOptions) {
		options.GeneratorTimeout = d
	})
}

func WithGeneratorConcurrency(n int) Options {
	return NewFuncOption(func(options *CheckerOptions) {
		options.GeneratorConcurrency = n
	})
}

func WithWorkers(n int) Options {
	return NewFuncOption(func(options *CheckerOptions) {
		options.Workers = n
	})
}

func WithMinPartLength(n int) Options {
	return NewFuncOption(func(options *CheckerOptions) {
		options.MinPartLength = n
	})
}

func WithRRFConstant(k float64) Options {
	return NewFuncOption(func(options *CheckerOptions) {
		options.RRFConstant = k
	})
}

func WithContextWindow(n int) Options {
	return NewFuncOption(func(options *CheckerOptions) {
		options.ContextWindow = n
	})
}

func WithSkipCapitalized() Options {
	return NewFuncOption(func(options *CheckerOptions) {
		options.SkipCapitalized = true
	})
}

func WithoutPreserveCase() Options {
	return NewFuncOption(func(options *CheckerOptions) {
		options.PreserveCase = false
	})
}

// Presets for how eagerly CorrectText rewrites text on its own.

// WithStrictCorrection only applies clear winners.
func WithStrictCorrection() Options {
	return NewFuncOption(func(options *CheckerOptions) {
		options.AutoCorrectMargin = 0.5
	})
}

// WithLenientCorrection applies anything with a small lead.
func WithLenientCorrection() Options {
	return NewFuncOption(func(options *CheckerOptions) {
		options.AutoCorrectMargin = 0.1
	})
}

// WithoutAutoCorrection never rewrites unless the caller forces it.
func WithoutAutoCorrection() Options {
	return NewFuncOption(func(options *CheckerOptions) {
		options.AutoCorrectMargin = 1000
	})
}
