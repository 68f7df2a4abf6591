package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds process-wide settings, resolved once at startup
type Config struct {
	HTTPPort       string            `yaml:"http_port"`
	MongoURI       string            `yaml:"mongo_uri"`
	DBName         string            `yaml:"db_name"`
	RedisAddr      string            `yaml:"redis_addr"`
	JWTSecret      string            `yaml:"-"`
	TokenTTL       time.Duration     `yaml:"token_ttl"`
	AllowedOrigins []string          `yaml:"allowed_origins"`
	LogLevel       string            `yaml:"log_level"`
	RiskScorer     string            `yaml:"risk_scorer"`
	AuthRatePerMin int               `yaml:"auth_rate_per_min"`
	Models         ModelConfig       `yaml:"models"`
	Recommender    RecommenderConfig `yaml:"recommender"`
}

// Load reads configuration from the environment, then applies the YAML file
// named by CONFIG_FILE on top of it when set.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:       getEnv("PORT", "8000"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:         getEnv("DB_NAME", "eunoia_ai"),
		RedisAddr:      normalizeRedisAddr(os.Getenv("REDIS_URI")),
		JWTSecret:      getEnv("JWT_SECRET", "eunoia-dev-secret-change-in-production"),
		TokenTTL:       time.Duration(getEnvInt("TOKEN_TTL_HOURS", 24)) * time.Hour,
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		RiskScorer:     getEnv("RISK_SCORER", ScorerWeighted),
		AuthRatePerMin: getEnvInt("AUTH_RATE_PER_MIN", 30),
		Models:         DefaultModelConfig(),
		Recommender:    DefaultRecommenderConfig(),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Scorer names accepted by RISK_SCORER
const (
	ScorerConstant = "constant"
	ScorerWeighted = "weighted"
)

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	switch c.RiskScorer {
	case ScorerConstant, ScorerWeighted:
	default:
		return fmt.Errorf("config: unknown risk scorer %q", c.RiskScorer)
	}
	switch c.Models.Backend {
	case BackendNone, BackendHugot, BackendRemote, BackendLocal:
	default:
		return fmt.Errorf("config: unknown model backend %q", c.Models.Backend)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("config: token ttl must be positive")
	}
	return nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// RedisEnabled reports whether a Redis address was configured
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Remove redis:// prefix if present
func normalizeRedisAddr(addr string) string {
	return strings.TrimPrefix(strings.TrimSpace(addr), "redis://")
}
