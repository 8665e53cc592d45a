package model

import "time"

// NormalizeScope selects which recognizer spans are normalized
type NormalizeScope string

const (
	// ScopeAll normalizes every DATE span and every span of every place label
	ScopeAll NormalizeScope = "all"
	// ScopeFirst normalizes only the first DATE span and the first span of the
	// first place label that has spans (legacy behavior)
	ScopeFirst NormalizeScope = "first"
)

// Config holds the complete application configuration
type Config struct {
	Data         DataConfig         `yaml:"data" mapstructure:"data"`
	Analysis     AnalysisConfig     `yaml:"analysis" mapstructure:"analysis"`
	Recognizer   RecognizerConfig   `yaml:"recognizer" mapstructure:"recognizer"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Logging      LoggingConfig      `yaml:"logging" mapstructure:"logging"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// DataConfig points at the startup reference tables
type DataConfig struct {
	SchoolsCSV      string `yaml:"schools_csv" mapstructure:"schools_csv"`
	StationsCSV     string `yaml:"stations_csv" mapstructure:"stations_csv"`
	HospitalsCSV    string `yaml:"hospitals_csv" mapstructure:"hospitals_csv"`
	TouristSpotsCSV string `yaml:"tourist_spots_csv" mapstructure:"tourist_spots_csv"`
	HolidaysCSV     string `yaml:"holidays_csv" mapstructure:"holidays_csv"`
}

// AnalysisConfig controls the normalization pipeline
type AnalysisConfig struct {
	Timezone       string         `yaml:"timezone" mapstructure:"timezone"`
	ReferenceTime  string         `yaml:"reference_time" mapstructure:"reference_time"` // RFC 3339; empty = now
	NormalizeScope NormalizeScope `yaml:"normalize_scope" mapstructure:"normalize_scope"`
	MaxTextLength  int            `yaml:"max_text_length" mapstructure:"max_text_length"`
	HTMLInput      bool           `yaml:"html_input" mapstructure:"html_input"`
}

// RecognizerConfig selects the named-entity recognizer backend
type RecognizerConfig struct {
	Kind      string        `yaml:"kind" mapstructure:"kind"`             // rules, remote
	RulesPath string        `yaml:"rules_path" mapstructure:"rules_path"` // EntityRuler-style YAML patterns
	RemoteURL string        `yaml:"remote_url" mapstructure:"remote_url"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// LLMConfig configures the explanation generator
type LLMConfig struct {
	Provider        string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, "" (disabled)
	Model           string `yaml:"model" mapstructure:"model"`
	APIKey          string `yaml:"-" mapstructure:"api_key"` // Never written to config files
	BaseURL         string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout         int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens       int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	StrictRedaction bool   `yaml:"strict_redaction" mapstructure:"strict_redaction"`
	HTTPProxy       string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy      string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
}

// CacheConfig configures the explanation cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskDir   string        `yaml:"disk_dir" mapstructure:"disk_dir"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
	RedisURL  string        `yaml:"redis_url,omitempty" mapstructure:"redis_url"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr           string        `yaml:"addr" mapstructure:"addr"`
	AllowedOrigins []string      `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// ConcurrencyConfig configures batch workers
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig limits calls to the explanation provider
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// LoggingConfig configures the structured logger
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // text or json
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultAllowedOrigins are the browser origins allowed to call the API
var DefaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"http://localhost:5173",
	"http://127.0.0.1:5173",
	"https://x.com",
	"https://twitter.com",
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			SchoolsCSV:      "data/schools.csv",
			StationsCSV:     "data/stations.csv",
			HospitalsCSV:    "data/hospital.csv",
			TouristSpotsCSV: "data/touristspots.csv",
			HolidaysCSV:     "syukujitsu.csv",
		},
		Analysis: AnalysisConfig{
			Timezone:       "Asia/Tokyo",
			NormalizeScope: ScopeAll,
			MaxTextLength:  10000,
		},
		Recognizer: RecognizerConfig{
			Kind:      "rules",
			RulesPath: "nlp/patterns/entity_ruler.yml",
			Timeout:   10 * time.Second,
		},
		LLM: LLMConfig{
			Provider:        "", // Disabled by default
			Model:           "", // Provider default
			Timeout:         30,
			MaxTokens:       600,
			StrictRedaction: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 30 * time.Minute,
			DiskDir:   "",
			DiskTTL:   24 * time.Hour,
		},
		Server: ServerConfig{
			Addr:           ":8000",
			AllowedOrigins: append([]string(nil), DefaultAllowedOrigins...),
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   60 * time.Second,
			RequestTimeout: 45 * time.Second,
			MaxBodyBytes:   64 << 10,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
