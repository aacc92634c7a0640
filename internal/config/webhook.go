package config

import (
	"strings"
	"time"

	"mystic_market/internal/infrastructure/notifier"
)

type Webhook struct {
	URL      string        `env:"WEBHOOK_URL" envDefault:"disabled" json:"-"`
	Username string        `env:"WEBHOOK_USERNAME" envDefault:"Mystic Market"`
	Token    string        `env:"WEBHOOK_TOKEN" json:"-"`
	Timeout  time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"10s"`
	NotifyOn []string      `env:"WEBHOOK_NOTIFY_ON" envDefault:"finalize" envSeparator:","`
}

func (w Webhook) Enabled() bool {
	return w.notifier(0).Enabled()
}

func (w Webhook) Notifier(logFieldMaxLen int) notifier.WebhookConfig {
	return w.notifier(logFieldMaxLen)
}

func (w Webhook) notifier(logFieldMaxLen int) notifier.WebhookConfig {
	return notifier.WebhookConfig{
		URL:            strings.Trim(strings.TrimSpace(w.URL), `"`),
		Username:       w.Username,
		Token:          w.Token,
		Timeout:        w.Timeout,
		LogFieldMaxLen: logFieldMaxLen,
	}
}
