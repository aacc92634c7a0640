package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	App      App
	HTTP     HTTP
	Pricing  Pricing
	Session  Session
	Webhook  Webhook
	Bot      Bot
	Worker   Worker
	Redis    Redis
	Postgres Postgres
}

type App struct {
	Name     string     `env:"APP_NAME" envDefault:"mystic-market"`
	Version  string     `env:"APP_VERSION" envDefault:"dev"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON  bool       `env:"LOG_JSON" envDefault:"false"`
}

type HTTP struct {
	ListenAddress        string        `env:"HTTP_LISTEN_ADDRESS" envDefault:":8080"`
	ProbeListenAddress   string        `env:"PROBE_LISTEN_ADDRESS" envDefault:":8081"`
	MetricsListenAddress string        `env:"METRICS_LISTEN_ADDRESS" envDefault:":9090"`
	ShutdownTimeout      time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	ReadHeaderTimeout    time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"5s"`
	LogFieldMaxLen       int           `env:"HTTP_LOG_FIELD_MAX_LEN" envDefault:"4096"`
	FinalizeAwaitTimeout time.Duration `env:"HTTP_FINALIZE_AWAIT_TIMEOUT" envDefault:"15s"`
}

// Bot posts notifications to ChatID. With Commands it also serves the chat
// command frontend there.
type Bot struct {
	Token    string `env:"BOT_TOKEN" json:"-"`
	ChatID   int64  `env:"BOT_CHAT_ID"`
	Commands bool   `env:"BOT_COMMANDS" envDefault:"false"`
}

func (b Bot) Enabled() bool {
	return b.Token != ""
}

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"

	TransportInProcess = "inproc"
	TransportAsynq     = "asynq"

	NotifyOnFinalize = "finalize"
	NotifyOnRoll     = "roll"
)

type Session struct {
	Store           string        `env:"SESSION_STORE" envDefault:"memory"`
	TTL             time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"10m"`
}

type Worker struct {
	Transport       string        `env:"WORKER_TRANSPORT" envDefault:"inproc"`
	Count           int           `env:"WORKER_COUNT" envDefault:"2"`
	QueueSize       int           `env:"WORKER_QUEUE_SIZE" envDefault:"64"`
	QueueName       string        `env:"WORKER_QUEUE_NAME" envDefault:"notifications"`
	ShutdownTimeout time.Duration `env:"WORKER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type Redis struct {
	Address  string `env:"REDIS_ADDRESS"`
	Username string `env:"REDIS_USERNAME"`
	Password string `env:"REDIS_PASSWORD" json:"-"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) Validate() error {
	var errs []error

	if !slices.Contains([]string{SessionStoreMemory, SessionStoreRedis}, c.Session.Store) {
		errs = append(errs, fmt.Errorf("SESSION_STORE: unknown store %q", c.Session.Store))
	}

	if !slices.Contains([]string{TransportInProcess, TransportAsynq}, c.Worker.Transport) {
		errs = append(errs, fmt.Errorf("WORKER_TRANSPORT: unknown transport %q", c.Worker.Transport))
	}

	needsRedis := c.Session.Store == SessionStoreRedis || c.Worker.Transport == TransportAsynq
	if needsRedis && c.Redis.Address == "" {
		errs = append(errs, errors.New("REDIS_ADDRESS is required by the session store or the asynq transport"))
	}

	for _, trigger := range c.Webhook.NotifyOn {
		if !slices.Contains([]string{NotifyOnFinalize, NotifyOnRoll}, trigger) {
			errs = append(errs, fmt.Errorf("WEBHOOK_NOTIFY_ON: unknown trigger %q", trigger))
		}
	}

	if c.Webhook.Timeout <= 0 {
		errs = append(errs, errors.New("WEBHOOK_TIMEOUT must be positive"))
	}

	if c.Bot.Commands && !c.Bot.Enabled() {
		errs = append(errs, errors.New("BOT_COMMANDS requires BOT_TOKEN"))
	}

	if c.Bot.Enabled() && c.Bot.ChatID == 0 {
		errs = append(errs, errors.New("BOT_CHAT_ID is required with BOT_TOKEN"))
	}

	if _, err := c.Pricing.Policy(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}

	return nil
}

// NotifyOn reports whether notifications fire for the trigger.
func (c Config) NotifyOn(trigger string) bool {
	return slices.Contains(c.Webhook.NotifyOn, trigger)
}

// NotificationsEnabled reports whether at least one sink is configured.
func (c Config) NotificationsEnabled() bool {
	return c.Webhook.Enabled() || c.Bot.Enabled()
}
