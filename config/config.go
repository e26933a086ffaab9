package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

type Relay struct {
	Address string `yaml:"address" env:"RELAY_ADDRESS" env-default:":8080"`
	Path    string `yaml:"path" env:"RELAY_PATH" env-default:"/.netlify/functions/chat"`
	GinMode string `yaml:"gin_mode" env:"GIN_MODE" env-default:"release"`
	// ShutdownTimeout bounds the graceful shutdown of the HTTP server.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

type OpenAI struct {
	// OpenAIAPIKey is optional at load time: a missing key is reported per request.
	OpenAIAPIKey   string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL  string        `yaml:"open_ai_base_url" env:"OPENAI_BASE_URL" env-default:"https://api.anthropic.com/v1"`
	OpenAIModel    string        `yaml:"openai_model" env:"OPENAI_MODEL" env-default:"claude-3-5-sonnet-20241022"`
	MaxTokens      int           `yaml:"max_tokens" env:"OPENAI_MAX_TOKENS" env-default:"1024"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"OPENAI_REQUEST_TIMEOUT" env-default:"30s"`
	CountTokens    bool          `yaml:"count_tokens" env:"OPENAI_COUNT_TOKENS" env-default:"false"`
}

type RateLimit struct {
	Window  time.Duration `yaml:"window" env:"RATE_LIMIT_WINDOW" env-default:"60s"`
	Limit   int64         `yaml:"limit" env:"RATE_LIMIT_MAX" env-default:"20"`
	Storage string        `yaml:"storage" env:"RATE_LIMIT_STORAGE" env-default:"memory"`
}

type Redis struct {
	Endpoint   string        `yaml:"endpoint" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password   string        `env:"REDIS_PASSWORD"`
	DB         int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	SessionTTL time.Duration `yaml:"session_ttl" env:"REDIS_SESSION_TTL" env-default:"12h"`
}

type QuickPrompt struct {
	Text    string `yaml:"text"`
	Message string `yaml:"message"`
}

type Widget struct {
	Endpoint            string        `yaml:"endpoint" env:"WIDGET_ENDPOINT" env-default:"http://localhost:8080/.netlify/functions/chat"`
	RequestTimeout      time.Duration `yaml:"request_timeout" env:"WIDGET_REQUEST_TIMEOUT" env-default:"45s"`
	StateKey            string        `yaml:"state_key" env:"WIDGET_STATE_KEY" env-default:"campus_assistant_state"`
	MaxMessages         int           `yaml:"max_messages" env-default:"50"`
	OutboundMessages    int           `yaml:"outbound_messages" env-default:"10"`
	NarrowViewportWidth int           `yaml:"narrow_viewport_width" env-default:"480"`
	Storage             string        `yaml:"storage" env:"WIDGET_STORAGE" env-default:"memory"`
	QuickPrompts        []QuickPrompt `yaml:"quick_prompts"`
	// SessionName scopes the persisted state when the redis storage is used.
	SessionName string `yaml:"session_name" env:"WIDGET_SESSION" env-default:"default"`
}

type Config struct {
	Relay     Relay     `yaml:"relay"`
	OpenAI    OpenAI    `yaml:"open_ai"`
	RateLimit RateLimit `yaml:"rate_limit"`
	Redis     Redis     `yaml:"redis"`
	Widget    Widget    `yaml:"widget"`
}

func LoadConfig(cfgPath string) (*Config, error) {
	var cfg Config
	if cfgPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	if err := cleanenv.ReadConfig(cfgPath, &cfg); err != nil {
		return nil, err
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultQuickPrompts are shown before the first user message when the
// configuration does not list any.
func DefaultQuickPrompts() []QuickPrompt {
	return []QuickPrompt{
		{Text: "Pay my bill", Message: "How do I pay my tuition bill?"},
		{Text: "Office hours", Message: "What are the Business & Finance office hours?"},
		{Text: "Financial aid", Message: "How do I apply for financial aid?"},
		{Text: "IT Help", Message: "How do I contact the IT Help Desk?"},
	}
}
