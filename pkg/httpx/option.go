package httpx

import "mystic_market/pkg/logx"

type Option func(*LoggingRoundTripper)

// WithLogFieldMaxLen cuts logged bodies to n bytes; zero keeps them whole.
func WithLogFieldMaxLen(n int) Option {
	return func(rt *LoggingRoundTripper) {
		rt.logFieldMaxLen = n
	}
}

func WithMasker(masker logx.Masker) Option {
	return func(rt *LoggingRoundTripper) {
		rt.masker = masker
	}
}

// WithSink tags every logged exchange with the name of the outbound sink.
func WithSink(name string) Option {
	return func(rt *LoggingRoundTripper) {
		rt.sink = name
	}
}
