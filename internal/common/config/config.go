// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig               `mapstructure:"app"`
	Camunda    CamundaConfig           `mapstructure:"camunda"`
	Database   DatabaseConfig          `mapstructure:"database"`
	Workers    map[string]WorkerConfig `mapstructure:"workers"`
	Evaluation EvaluationConfig        `mapstructure:"evaluation"`
	Search     SearchConfig            `mapstructure:"search"`
	Registry   RegistryConfig          `mapstructure:"registry"`
	Logging    LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	SSLEnabled bool     `mapstructure:"ssl_enabled"`
	URL        string   `mapstructure:"url"` // Single URL for backwards compatibility
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Specific Configuration Sections ---

// EvaluationConfig carries every rule constant used by the eligibility engine.
// Nothing in the rules packages reads these values from anywhere else.
type EvaluationConfig struct {
	// Policy selects the aggregation strategy: "weighted" or "boolean".
	Policy string `mapstructure:"policy"`
	// DecisionMode selects what happens after evaluation: "recommend" leaves
	// the application untouched, "auto" applies accepted/rejected directly.
	DecisionMode string `mapstructure:"decision_mode"`
	// CourseMatchMode selects mandatory-course matching: "substring" matches
	// case-insensitively against course names, "code" against course codes.
	CourseMatchMode string `mapstructure:"course_match_mode"`

	DefaultMinGPA        float64  `mapstructure:"default_min_gpa"`
	MandatoryCourses     []string `mapstructure:"mandatory_courses"`
	RequiredTotalCourses int      `mapstructure:"required_total_courses"`
	RequiredDocuments    []string `mapstructure:"required_documents"`

	// Weighted policy thresholds and options.
	EligibleThreshold float64 `mapstructure:"eligible_threshold"`
	ReviewThreshold   float64 `mapstructure:"review_threshold"`
	WeighDocuments    bool    `mapstructure:"weigh_documents"`

	// Requirements cache.
	RequirementsCacheTTL int `mapstructure:"requirements_cache_ttl"` // seconds
}

// SearchConfig holds settings for the eligibility result indexer.
type SearchConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ResultIndex string `mapstructure:"result_index"`
}

// RegistryConfig points at the worker activity registry file.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
