package logx

import (
	"regexp"
)

// Masker rewrites secrets out of a payload before it is logged.
type Masker interface {
	Mask(input []byte) []byte
}

type MaskerFunc func(input []byte) []byte

func (f MaskerFunc) Mask(input []byte) []byte {
	return f(input)
}

// NoMask logs payloads as they are.
var NoMask = MaskerFunc(func(input []byte) []byte { return input }) //nolint:gochecknoglobals

//nolint:gochecknoglobals
var sensitiveDataPatterns = []*regexp.Regexp{
	regexp.MustCompile("(?s)(Authorization: Bearer ).+?(\r)"),
	// Webhook tokens live in the URL path: /api/webhooks/<id>/<token>.
	regexp.MustCompile(`(/api/webhooks/\d+/)[\w-]+(\b)`),
	// Telegram bot tokens: /bot<id>:<secret>/.
	regexp.MustCompile(`(/bot\d+:)[\w-]+(/)`),
	regexp.MustCompile(`(?s)("[Pp]assword":\s?").+?(")`),
	regexp.MustCompile(`(?s)("[Tt]oken":\s?").+?(")`),
	regexp.MustCompile(`(?s)("webhookUrl":\s?").+?(")`),
}

type SensitiveDataMasker struct{}

func NewSensitiveDataMasker() SensitiveDataMasker {
	return SensitiveDataMasker{}
}

func (s SensitiveDataMasker) Mask(input []byte) []byte {
	for _, pattern := range sensitiveDataPatterns {
		input = pattern.ReplaceAll(input, []byte("${1}[MASKED]${2}"))
	}

	return input
}
