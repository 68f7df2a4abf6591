package config

import "time"

// Model backends accepted by MODEL_BACKEND
const (
	BackendNone   = "none"
	BackendHugot  = "hugot"
	BackendRemote = "remote"
	BackendLocal  = "local"
)

// ModelConfig defines which pretrained pipelines to load and how to reach them
type ModelConfig struct {
	Backend string `yaml:"backend"`

	// Sentiment is the text-classification model used for sentiment labels
	Sentiment string `yaml:"sentiment"`

	// MentalHealth is the auxiliary classifier for the indicator extractor
	MentalHealth string `yaml:"mental_health"`

	// Dir is where hugot downloads and caches ONNX exports
	Dir string `yaml:"dir"`

	// Runtime selects the hugot session: "go" or "ort"
	Runtime string `yaml:"runtime"`

	// InferenceURL is the base URL of a hosted inference API (remote backend)
	InferenceURL   string `yaml:"inference_url"`
	InferenceToken string `yaml:"-"` // Never serialize

	// LocalPath is the classifier file written by cmd/train (local backend)
	LocalPath string `yaml:"local_path"`

	TimeoutMS int `yaml:"timeout_ms"`
}

// DefaultModelConfig returns the model configuration from the environment
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		Backend:        getEnv("MODEL_BACKEND", BackendNone),
		Sentiment:      getEnv("SENTIMENT_MODEL", "cardiffnlp/twitter-roberta-base-sentiment-latest"),
		MentalHealth:   getEnv("MENTAL_HEALTH_MODEL", "mental/mental-bert-base-uncased"),
		Dir:            getEnv("MODEL_DIR", "./models"),
		Runtime:        getEnv("HUGOT_RUNTIME", "go"),
		InferenceURL:   getEnv("INFERENCE_URL", "https://api-inference.huggingface.co/models"),
		InferenceToken: getEnv("INFERENCE_TOKEN", ""),
		LocalPath:      getEnv("LOCAL_MODEL_PATH", "./models/mental_health_classifier.json"),
		TimeoutMS:      getEnvInt("MODEL_TIMEOUT_MS", 10000),
	}
}

// Timeout returns the per-inference deadline
func (c ModelConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// IsEnabled returns true if any model backend is configured
func (c ModelConfig) IsEnabled() bool {
	return c.Backend != "" && c.Backend != BackendNone
}

// RecommenderConfig holds the optional LLM settings for recommendations
type RecommenderConfig struct {
	APIKey    string `yaml:"-"` // Never serialize
	Model     string `yaml:"model"`
	TimeoutMS int    `yaml:"timeout_ms"`
}

// DefaultRecommenderConfig returns the recommender configuration from the environment
func DefaultRecommenderConfig() RecommenderConfig {
	return RecommenderConfig{
		APIKey:    getEnv("OPENAI_API_KEY", ""),
		Model:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		TimeoutMS: getEnvInt("OPENAI_TIMEOUT_MS", 8000),
	}
}

// IsEnabled returns true if the LLM API is configured
func (c RecommenderConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// Timeout returns the per-call deadline
func (c RecommenderConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}
