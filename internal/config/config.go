package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig
	Redis   RedisConfig
	Auth    AuthConfig
	LLM     LLMConfig
	TTS     TTSConfig
	Measure MeasureConfig
	Storage StorageConfig
	Plan    PlanConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret string // empty disables auth; the API is public by default
}

type LLMConfig struct {
	DeepSeekKey      string
	DeepSeekBaseURL  string
	DeepSeekModel    string
	AnthropicKey     string
	AnthropicModel   string
	DefaultProvider  string
	FallbackProvider string
	MaxRetries       int
}

type TTSConfig struct {
	Backend       string // "gemini" or "openai"
	GeminiKey     string
	GeminiBaseURL string
	GeminiModel   string
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
}

type MeasureConfig struct {
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
}

type StorageConfig struct {
	PublicDir string
	WebDir    string
	Retention time.Duration
}

type PlanConfig struct {
	CacheTTL time.Duration
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8000)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxRetries, err := getEnvInt("LLM_MAX_RETRIES", 3)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_MAX_RETRIES: %w", err)
	}

	retention, err := getEnvDuration("AUDIO_RETENTION", 72*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid AUDIO_RETENTION: %w", err)
	}

	cacheTTL, err := getEnvDuration("PLAN_CACHE_TTL", time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid PLAN_CACHE_TTL: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", ""),
		},
		LLM: LLMConfig{
			DeepSeekKey:      getEnv("DEEPSEEK_API_KEY", ""),
			DeepSeekBaseURL:  getEnv("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1"),
			DeepSeekModel:    getEnv("DEEPSEEK_MODEL", "deepseek-chat"),
			AnthropicKey:     getEnv("ANTHROPIC_API_KEY", ""),
			AnthropicModel:   getEnv("ANTHROPIC_MODEL", "claude-3-haiku-20240307"),
			DefaultProvider:  getEnv("LLM_DEFAULT_PROVIDER", "deepseek"),
			FallbackProvider: getEnv("LLM_FALLBACK_PROVIDER", ""),
			MaxRetries:       maxRetries,
		},
		TTS: TTSConfig{
			Backend:       getEnv("TTS_BACKEND", "gemini"),
			GeminiKey:     getEnv("GOOGLE_API_KEY", ""),
			GeminiBaseURL: getEnv("TTS_GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			GeminiModel:   getEnv("TTS_GEMINI_MODEL", "gemini-2.5-flash-preview-tts"),
			OpenAIKey:     getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL: getEnv("TTS_OPENAI_BASE_URL", ""),
			OpenAIModel:   getEnv("TTS_OPENAI_MODEL", ""),
		},
		Measure: MeasureConfig{
			OpenAIKey:     getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL: getEnv("MEASURE_OPENAI_BASE_URL", ""),
			OpenAIModel:   getEnv("MEASURE_OPENAI_MODEL", ""),
		},
		Storage: StorageConfig{
			PublicDir: getEnv("PUBLIC_DIR", "public"),
			WebDir:    getEnv("WEB_DIR", "web"),
			Retention: retention,
		},
		Plan: PlanConfig{
			CacheTTL: cacheTTL,
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return time.ParseDuration(v)
}
