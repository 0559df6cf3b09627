package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port   string
	AppEnv string

	LLMName string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	GeminiAPIKey  string
	GeminiModel   string

	RequestTimeout time.Duration
	MaxUploadBytes int64
	MaxImageSide   int
	TmpDir         string
	PromptDir      string
	LogLevel       string
	CORSOrigins    []string
}

// LoadEnvFiles reads .env and then overlays .env.<APP_ENV>. Both files are optional.
func LoadEnvFiles() {
	appEnv := getEnv("APP_ENV", "dev")

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("no .env file found, using process environment")
	}
	envFile := fmt.Sprintf(".env.%s", appEnv)
	if err := godotenv.Overload(envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("could not load %s: %v", envFile, err)
	}
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load builds the configuration from the process environment. It fails when
// the credential of the selected engine is missing.
func Load() (*Config, error) {
	cfg := &Config{
		Port:   getEnv("PORT", "8000"),
		AppEnv: getEnv("APP_ENV", "dev"),

		LLMName: strings.ToLower(getEnv("LLM_NAME", "gpt")),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		RequestTimeout: time.Duration(getInt("REQUEST_TIMEOUT_SEC", 180)) * time.Second,
		MaxUploadBytes: int64(getInt("MAX_UPLOAD_MB", 32)) << 20,
		MaxImageSide:   getInt("MAX_IMAGE_SIDE", 1568),
		TmpDir:         getEnv("TMP_DIR", os.TempDir()),
		PromptDir:      getEnv("PROMPT_DIR", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 180 * time.Second
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 32 << 20
	}

	switch cfg.LLMName {
	case "gpt", "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("missing required env OPENAI_API_KEY")
		}
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("missing required env GEMINI_API_KEY")
		}
	default:
		return nil, fmt.Errorf("unknown LLM_NAME %q; use 'gpt' or 'gemini'", cfg.LLMName)
	}
	return cfg, nil
}
