package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	STT       STTConfig
	Media     MediaConfig
	Embedding EmbeddingConfig
	Summary   SummaryConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	URL            string
	MaxConns       int
	MinConns       int
	MigrationsPath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret string
}

type STTConfig struct {
	Backend       string // "vosk" or "whisper"
	ModelPath     string
	SampleRate    float64
	ChunkSize     int
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
}

type MediaConfig struct {
	FFmpegBinary   string
	CommandTimeout time.Duration
	MaxAudioBytes  int
}

type EmbeddingConfig struct {
	Model string
}

type SummaryConfig struct {
	AnthropicKey string
	Model        string
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8004)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	maxConns, err := getEnvInt("DB_MAX_CONNS", 20)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	chunkSize, err := getEnvInt("STT_CHUNK_SIZE", 4000)
	if err != nil {
		return nil, fmt.Errorf("invalid STT_CHUNK_SIZE: %w", err)
	}

	sampleRate, err := getEnvFloat("STT_SAMPLE_RATE", 16000)
	if err != nil {
		return nil, fmt.Errorf("invalid STT_SAMPLE_RATE: %w", err)
	}

	maxAudioBytes, err := getEnvInt("MEDIA_MAX_AUDIO_BYTES", 512<<20)
	if err != nil {
		return nil, fmt.Errorf("invalid MEDIA_MAX_AUDIO_BYTES: %w", err)
	}

	ffmpegTimeout, err := getEnvDuration("MEDIA_FFMPEG_TIMEOUT", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid MEDIA_FFMPEG_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: port,
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxConns:       maxConns,
			MinConns:       minConns,
			MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", ""),
		},
		STT: STTConfig{
			Backend:       getEnv("STT_BACKEND", "vosk"),
			ModelPath:     getEnv("STT_MODEL_PATH", "models/vosk-model-small-ja-0.22"),
			SampleRate:    sampleRate,
			ChunkSize:     chunkSize,
			OpenAIKey:     getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL: getEnv("STT_OPENAI_BASE_URL", ""),
			OpenAIModel:   getEnv("STT_OPENAI_MODEL", ""),
		},
		Media: MediaConfig{
			FFmpegBinary:   getEnv("MEDIA_FFMPEG_BINARY", "ffmpeg"),
			CommandTimeout: ffmpegTimeout,
			MaxAudioBytes:  maxAudioBytes,
		},
		Embedding: EmbeddingConfig{
			Model: getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		},
		Summary: SummaryConfig{
			AnthropicKey: getEnv("ANTHROPIC_API_KEY", ""),
			Model:        getEnv("SUMMARY_MODEL", "claude-3-haiku-20240307"),
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	var missing []string
	switch c.STT.Backend {
	case "vosk":
		if c.STT.ModelPath == "" {
			missing = append(missing, "STT_MODEL_PATH")
		}
	case "whisper":
		if c.STT.OpenAIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown STT_BACKEND %q", c.STT.Backend)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
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

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(v, 64)
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return time.ParseDuration(v)
}
