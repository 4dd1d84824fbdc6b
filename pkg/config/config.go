package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	OpenAI    OpenAIConfig
	STT       STTConfig
	Embedding EmbeddingConfig
	Speech    SpeechConfig
	Data      DataConfig
	Logger    LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int // bytes
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DefaultJWTSecret is the placeholder secret used when JWT_SECRET_KEY is unset.
const DefaultJWTSecret = "change-me"

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
}

// Validate rejects the placeholder secret. Tokens signed with it can be
// minted by anyone.
func (c *JWTConfig) Validate() error {
	if c.SecretKey == "" || c.SecretKey == DefaultJWTSecret {
		return errors.New("JWT_SECRET_KEY is not set")
	}
	return nil
}

type OpenAIConfig struct {
	APIKey             string
	BaseURL            string
	Proxy              string // SOCKS5 address, empty for direct
	TranscriptionModel string
	SpeechModel        string
	SpeechVoice        string
	RateLimit          int // requests per second for embeddings, 0 = unlimited
}

type STTConfig struct {
	Provider        string // openai | whisper
	WhisperModelDir string
	Language        string
}

type EmbeddingConfig struct {
	Provider   string // openai | hash
	Model      string
	Dimensions int
	CacheMB    int
}

type SpeechConfig struct {
	Provider  string // none | openai
	Language  string
	Player    string // file | command
	OutputDir string
	PlayerCmd string
}

type DataConfig struct {
	FAQTablePath      string
	KnowledgeBasePath string
	IndexCacheSize    int
	DefaultTopK       int
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables work for containers.
	for _, envFile := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	return FromEnv(), nil
}

// LoadFile loads a specific env file before reading the environment.
func LoadFile(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}
	return FromEnv(), nil
}

func FromEnv() *Config {
	readTimeout := getEnvInt("SERVER_READ_TIMEOUT", 60)
	writeTimeout := getEnvInt("SERVER_WRITE_TIMEOUT", 60)
	bodyLimitMB := getEnvInt("SERVER_BODY_LIMIT_MB", 25)
	jwtExp := getEnvInt("JWT_EXPIRATION_HOURS", 24)

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8000"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
			BodyLimit:    bodyLimitMB * 1024 * 1024,
		},
		Database: DatabaseConfig{
			Enabled:  getEnvBool("DB_ENABLED", false),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "voicefaq"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", DefaultJWTSecret),
			Expiration: time.Duration(jwtExp) * time.Hour,
		},
		OpenAI: OpenAIConfig{
			APIKey:             getEnv("OPENAI_API_KEY", ""),
			BaseURL:            getEnv("OPENAI_BASE_URL", ""),
			Proxy:              getEnv("OPENAI_PROXY", ""),
			TranscriptionModel: getEnv("OPENAI_TRANSCRIPTION_MODEL", "whisper-1"),
			SpeechModel:        getEnv("OPENAI_SPEECH_MODEL", "tts-1"),
			SpeechVoice:        getEnv("OPENAI_SPEECH_VOICE", "alloy"),
			RateLimit:          getEnvInt("OPENAI_RATE_LIMIT", 0),
		},
		STT: STTConfig{
			Provider:        strings.ToLower(getEnv("STT_PROVIDER", "openai")),
			WhisperModelDir: getEnv("WHISPER_MODEL_DIR", "models"),
			Language:        getEnv("STT_LANGUAGE", "en"),
		},
		Embedding: EmbeddingConfig{
			Provider:   strings.ToLower(getEnv("EMBEDDING_PROVIDER", "openai")),
			Model:      getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			Dimensions: getEnvInt("EMBEDDING_DIMENSIONS", 384),
			CacheMB:    getEnvInt("EMBEDDING_CACHE_MB", 32),
		},
		Speech: SpeechConfig{
			Provider:  strings.ToLower(getEnv("TTS_PROVIDER", "none")),
			Language:  getEnv("TTS_LANGUAGE", "en"),
			Player:    strings.ToLower(getEnv("SPEECH_PLAYER", "file")),
			OutputDir: getEnv("SPEECH_OUTPUT_DIR", "speech"),
			PlayerCmd: getEnv("SPEECH_PLAYER_CMD", "ffplay -nodisp -autoexit -loglevel quiet"),
		},
		Data: DataConfig{
			FAQTablePath:      getEnv("FAQ_TABLE_PATH", "data/brand_faq.csv"),
			KnowledgeBasePath: getEnv("KNOWLEDGE_BASE_PATH", "data/sample_data.json"),
			IndexCacheSize:    getEnvInt("INDEX_CACHE_SIZE", 16),
			DefaultTopK:       getEnvInt("DEFAULT_TOP_K", 3),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}
