package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Storage holds remote object store settings. The remote tier is optional;
// when it is not fully configured uploads fall back to the local directory.
type Storage struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicBaseURL   string
}

// Configured reports whether every credential needed for the remote tier is present.
func (s Storage) Configured() bool {
	return s.Endpoint != "" && s.Region != "" && s.AccessKeyID != "" && s.SecretAccessKey != ""
}

// Config holds application configuration.
type Config struct {
	Port             string
	Env              string
	CORSAllowOrigins []string
	DatabaseURL      string
	Storage          Storage
	UploadDir        string
	PublicBaseURL    string
	TogetherAPIKey   string
	LLMModel         string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of a local env file for dev convenience.
	_ = godotenv.Load()

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")
	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	port := getEnv("PORT", "8080")

	return Config{
		Port:             port,
		Env:              env,
		CORSAllowOrigins: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		DatabaseURL:      dbURL,
		Storage: Storage{
			Endpoint:        getEnv("STORAGE_ENDPOINT", ""),
			Region:          getEnv("STORAGE_REGION", ""),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("STORAGE_SECRET_ACCESS_KEY", ""),
			Bucket:          getEnv("STORAGE_BUCKET", "cv-uploads"),
			PublicBaseURL:   getEnv("STORAGE_PUBLIC_BASE_URL", ""),
		},
		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		PublicBaseURL:  getEnv("PUBLIC_BASE_URL", "http://localhost:"+port),
		TogetherAPIKey: getEnv("TOGETHER_API_KEY", ""),
		LLMModel:       getEnv("LLM_MODEL", "meta-llama/Llama-3.2-3B-Instruct-Turbo"),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
