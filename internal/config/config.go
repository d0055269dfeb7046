package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"

	"github.com/mpopa/stress-journal/backend/internal/analysis/emotion"
)

// Config aggregates every configuration surface of the service.
type Config struct {
	Server  ServerConfig
	AI      AIConfig
	Safety  SafetyConfig
	Emotion EmotionConfig
	Storage StorageConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	safety, err := loadSafetyConfig()
	if err != nil {
		return nil, err
	}

	emotionCfg, err := loadEmotionConfig()
	if err != nil {
		return nil, err
	}

	storage := loadStorageConfig()

	return &Config{
		Server:  server,
		AI:      ai,
		Safety:  safety,
		Emotion: emotionCfg,
		Storage: storage,
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the Ark chat model used for journal responses and the
// categorical emotion classifier.
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// Enabled reports whether the required credentials were provided.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel builds a model instance from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing: set ARK_API_KEY + ARK_MODEL, or the AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("ARK_MODEL")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	}, nil
}

// SafetyConfig describes the guardrail layer.
type SafetyConfig struct {
	MinInputChars int
	MaxInputChars int
	PatternFile   string
	CrisisHotline string
}

func loadSafetyConfig() (SafetyConfig, error) {
	minChars := 2
	if override, err := parseOptionalIntEnv("SAFETY_MIN_INPUT_CHARS"); err != nil {
		return SafetyConfig{}, err
	} else if override != nil {
		minChars = *override
	}

	maxChars := 5000
	if override, err := parseOptionalIntEnv("SAFETY_MAX_INPUT_CHARS"); err != nil {
		return SafetyConfig{}, err
	} else if override != nil {
		maxChars = *override
	}

	if minChars < 1 || maxChars <= minChars {
		return SafetyConfig{}, fmt.Errorf("invalid input length bounds: min=%d max=%d", minChars, maxChars)
	}

	return SafetyConfig{
		MinInputChars: minChars,
		MaxInputChars: maxChars,
		PatternFile:   strings.TrimSpace(os.Getenv("SAFETY_PATTERN_FILE")),
		CrisisHotline: strings.TrimSpace(os.Getenv("SAFETY_CRISIS_HOTLINE")),
	}, nil
}

// EmotionConfig describes emotion scoring behavior.
type EmotionConfig struct {
	// LLMEnabled toggles the categorical classifier; when off the service
	// runs in the documented polarity-only degraded mode.
	LLMEnabled bool
	Weights    emotion.Weights
}

func loadEmotionConfig() (EmotionConfig, error) {
	enabled, err := parseBoolEnv("EMOTION_LLM_ENABLED", true)
	if err != nil {
		return EmotionConfig{}, err
	}

	weights := emotion.DefaultWeights()
	if override, err := parseOptionalFloatEnv("STRESS_WEIGHT_ANGER"); err != nil {
		return EmotionConfig{}, err
	} else if override != nil {
		weights.Anger = *override
	}
	if override, err := parseOptionalFloatEnv("STRESS_WEIGHT_FEAR"); err != nil {
		return EmotionConfig{}, err
	} else if override != nil {
		weights.Fear = *override
	}
	if override, err := parseOptionalFloatEnv("STRESS_WEIGHT_DISGUST"); err != nil {
		return EmotionConfig{}, err
	} else if override != nil {
		weights.Disgust = *override
	}
	if override, err := parseOptionalFloatEnv("STRESS_POLARITY_DAMPING"); err != nil {
		return EmotionConfig{}, err
	} else if override != nil {
		weights.PolarityDamping = *override
	}
	if override, err := parseOptionalIntEnv("STRESS_DISPLAY_THRESHOLD"); err != nil {
		return EmotionConfig{}, err
	} else if override != nil {
		weights.DisplayThreshold = *override
	}

	if weights.Anger < 0 || weights.Fear < 0 || weights.Disgust < 0 {
		return EmotionConfig{}, fmt.Errorf("stress weights must be non-negative")
	}

	return EmotionConfig{LLMEnabled: enabled, Weights: weights}, nil
}

// StorageConfig describes the collaborator stores.
type StorageConfig struct {
	// SQLitePath enables the on-disk history store when set; empty keeps
	// history in memory.
	SQLitePath string
	// TenantKey attributes all history and memory writes. The product
	// currently runs single-tenant on purpose; this makes that choice a
	// visible configuration value instead of implicit global state.
	TenantKey string
	// MemoryLimit caps how many similar past entries feed the prompt.
	MemoryLimit int
}

func loadStorageConfig() StorageConfig {
	limit := 5
	if override, err := parseOptionalIntEnv("MEMORY_SEARCH_LIMIT"); err == nil && override != nil && *override > 0 {
		limit = *override
	}

	return StorageConfig{
		SQLitePath:  strings.TrimSpace(os.Getenv("HISTORY_SQLITE_PATH")),
		TenantKey:   getEnvOrDefault("TENANT_KEY", "default"),
		MemoryLimit: limit,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
