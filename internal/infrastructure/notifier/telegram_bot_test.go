package notifier_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/require"

	"mystic_market/internal/infrastructure/notifier"
)

const testBotToken = "123456789:AAEf_test-token_abcdefghijklmnopqrs"

func TestTelegramBotSend(t *testing.T) {
	rq := require.New(t)

	var (
		path string
		body string
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path

		data, _ := io.ReadAll(r.Body)
		body = string(data)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`)
	}))
	t.Cleanup(srv.Close)

	bot, err := notifier.NewTelegramBot(testBotToken, 42,
		telego.WithAPIServer(srv.URL),
		telego.WithDiscardLogger(),
	)
	rq.NoError(err)

	tx := newTransaction()
	rq.NoError(bot.Send(context.Background(), tx))

	rq.True(strings.HasSuffix(path, "/sendMessage"), path)
	rq.Contains(body, "Sale finalized")
	rq.Contains(body, tx.ID.String())
	rq.Contains(body, "HTML")
}

func TestTelegramBotSendFailure(t *testing.T) {
	rq := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`)
	}))
	t.Cleanup(srv.Close)

	bot, err := notifier.NewTelegramBot(testBotToken, 42,
		telego.WithAPIServer(srv.URL),
		telego.WithDiscardLogger(),
	)
	rq.NoError(err)

	rq.Error(bot.Send(context.Background(), newTransaction()))
}
