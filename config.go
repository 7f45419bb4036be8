package edugo

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the environment-derived configuration surface. Binaries load a
// .env file first, then call FromEnv; missing values fall back to the
// defaults of the original deployment.
type Config struct {
	BotToken     string
	OpenAIAPIKey string
	OpenAIModel  string

	DailyLimit   int
	MaxQuestions int
	MaxFileMB    int
	AllowedTypes []string
	MaxChars     int

	BankPath string

	CacheDriver string // fs|sqlite
	CacheDir    string
	CacheDB     string
	CacheTTL    time.Duration

	GenTimeout time.Duration
	GenLogDir  string

	HTTPAddr     string
	KeepAliveURL string

	Verbose bool
}

// FromEnv reads the configuration from the environment.
func FromEnv() Config {
	return Config{
		BotToken:     os.Getenv("BOT_TOKEN"),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  os.Getenv("OPENAI_MODEL"),

		DailyLimit:   envInt("DAILY_LIMIT", 3),
		MaxQuestions: envInt("MAX_QUESTIONS", 6),
		MaxFileMB:    envInt("MAX_FILE_MB", 5),
		AllowedTypes: csvOr("ALLOWED_TYPES", ".pdf,.docx,.pptx"),
		MaxChars:     envInt("MAX_CHARS", 10000),

		BankPath: envOr("BANK_PATH", "data/bank.json"),

		CacheDriver: envOr("CACHE_DRIVER", "fs"),
		CacheDir:    envOr("CACHE_DIR", "qa_cache"),
		CacheDB:     envOr("CACHE_DB", "qa_cache.db"),
		CacheTTL:    time.Duration(envInt("CACHE_TTL_HOURS", 72)) * time.Hour,

		GenTimeout: time.Duration(envInt("GEN_TIMEOUT_SECONDS", 90)) * time.Second,
		GenLogDir:  envOr("GEN_LOG_DIR", "log"),

		HTTPAddr:     envOr("HTTP_ADDR", ":8080"),
		KeepAliveURL: os.Getenv("KEEPALIVE_URL"),

		Verbose: envBool("VERBOSE", false),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
