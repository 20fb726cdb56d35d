package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultSpamKeywords is the built-in keyword list used when neither
// SPAM_KEYWORDS nor SPAM_KEYWORDS_FILE is configured. The vocabulary is
// zh-TW, matching the traffic the engine was tuned against.
var DefaultSpamKeywords = []string{"賺錢", "兼職", "點擊", "免費", "優惠", "廣告", "推廣"}

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	ServerPort string

	RedisURL string

	JWTSecret         string
	TokenMaxAge       int // seconds
	AdminUsername     string
	AdminPassword     string // plaintext secret, compared in constant time
	AdminPasswordHash string // bcrypt hash, takes precedence when set

	SpamKeywords        []string
	SpamRejectThreshold float64
	HighRiskThreshold   float64

	SubmitRateRPS   float64
	SubmitRateBurst int

	WorkerCount int
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	tokenMaxAge, err := strconv.Atoi(os.Getenv("TOKEN_MAX_AGE"))
	if err != nil || tokenMaxAge <= 0 {
		tokenMaxAge = 3600
	}

	adminUsername := os.Getenv("ADMIN_USERNAME")
	if adminUsername == "" {
		adminUsername = "admin"
	}

	keywords, err := loadSpamKeywords()
	if err != nil {
		return nil, err
	}

	workerCount, err := strconv.Atoi(os.Getenv("WORKER_COUNT"))
	if err != nil || workerCount <= 0 {
		workerCount = 2
	}

	sslMode := os.Getenv("DB_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}

	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  sslMode,

		ServerPort: serverPort,

		RedisURL: os.Getenv("REDIS_URL"),

		JWTSecret:         os.Getenv("JWT_SECRET"),
		TokenMaxAge:       tokenMaxAge,
		AdminUsername:     adminUsername,
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		SpamKeywords:        keywords,
		SpamRejectThreshold: floatEnv("SPAM_REJECT_THRESHOLD", 0.8),
		HighRiskThreshold:   floatEnv("HIGH_RISK_THRESHOLD", 0.6),

		SubmitRateRPS:   floatEnv("SUBMIT_RATE_RPS", 2),
		SubmitRateBurst: intEnv("SUBMIT_RATE_BURST", 4),

		WorkerCount: workerCount,
	}, nil
}

// loadSpamKeywords resolves the scorer's keyword list. Precedence:
// SPAM_KEYWORDS (comma-separated), then SPAM_KEYWORDS_FILE (YAML), then
// the built-in defaults.
func loadSpamKeywords() ([]string, error) {
	if raw := os.Getenv("SPAM_KEYWORDS"); raw != "" {
		var keywords []string
		for _, kw := range strings.Split(raw, ",") {
			kw = strings.TrimSpace(kw)
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}
		if len(keywords) > 0 {
			return keywords, nil
		}
	}

	if path := os.Getenv("SPAM_KEYWORDS_FILE"); path != "" {
		return loadSpamKeywordsFile(path)
	}

	return DefaultSpamKeywords, nil
}

func loadSpamKeywordsFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spam keywords file: %w", err)
	}

	var doc struct {
		Keywords []string `yaml:"keywords"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse spam keywords file: %w", err)
	}
	if len(doc.Keywords) == 0 {
		return nil, fmt.Errorf("spam keywords file %s contains no keywords", path)
	}
	return doc.Keywords, nil
}

func floatEnv(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func intEnv(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
