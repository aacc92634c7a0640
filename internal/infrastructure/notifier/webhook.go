package notifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"mystic_market/internal/domain/entity"
	"mystic_market/pkg/httpx"
	"mystic_market/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// WebhookDisabled is the URL value that turns the webhook off.
const WebhookDisabled = "disabled"

var ErrUnexpectedStatus = errors.New("unexpected webhook status")

type WebhookConfig struct {
	URL            string
	Username       string
	Token          string
	Timeout        time.Duration
	LogFieldMaxLen int
}

// Enabled reports whether a webhook URL was configured.
func (c WebhookConfig) Enabled() bool {
	return c.URL != "" && c.URL != WebhookDisabled
}

// Webhook posts a chat embed and expects 204 No Content.
type Webhook struct {
	client   *http.Client
	url      string
	username string
}

func NewWebhook(cfg WebhookConfig) *Webhook {
	var transport http.RoundTripper = httpx.NewLoggingRoundTripper(
		http.DefaultTransport,
		httpx.WithMasker(logx.NewSensitiveDataMasker()),
		httpx.WithSink("webhook"),
		httpx.WithLogFieldMaxLen(cfg.LogFieldMaxLen),
	)

	if cfg.Token != "" {
		transport = httpx.NewAuthBearerRoundTripper(transport, httpx.StaticToken(cfg.Token))
	}

	return &Webhook{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		url:      cfg.URL,
		username: cfg.Username,
	}
}

func (w *Webhook) Name() string {
	return "webhook"
}

func (w *Webhook) Send(ctx context.Context, tx entity.Transaction) error {
	body, err := json.Marshal(newWebhookPayload(w.username, tx))
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("client.Do: %w", err)
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return nil
}

type webhookPayload struct {
	Username string         `json:"username,omitempty"`
	Embeds   []webhookEmbed `json:"embeds"`
}

type webhookEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Color       int            `json:"color"`
	Fields      []webhookField `json:"fields"`
	Footer      webhookFooter  `json:"footer"`
	Timestamp   string         `json:"timestamp,omitempty"`
}

type webhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type webhookFooter struct {
	Text string `json:"text"`
}

func newWebhookPayload(username string, tx entity.Transaction) webhookPayload {
	v := tx.Valuation

	embed := webhookEmbed{
		Title:       title(tx),
		Description: description(tx),
		Color:       rarityColor(v.Rarity),
		Fields: []webhookField{
			{Name: "Character", Value: orDash(tx.CharacterName), Inline: true},
			{Name: "Artifact", Value: orDash(tx.ArtifactName), Inline: true},
			{Name: "Rarity", Value: v.Rarity.DisplayName(), Inline: true},
			{Name: "Base price", Value: v.BasePrice.String(), Inline: true},
			{Name: "Discount", Value: discountLine(v)},
			{Name: "Final price", Value: v.FinalPrice.String(), Inline: true},
		},
		Footer: webhookFooter{Text: "Transaction " + tx.ID.String()},
	}

	if !tx.FinalizedAt.IsZero() {
		embed.Timestamp = tx.FinalizedAt.UTC().Format(time.RFC3339)
	}

	return webhookPayload{
		Username: username,
		Embeds:   []webhookEmbed{embed},
	}
}
