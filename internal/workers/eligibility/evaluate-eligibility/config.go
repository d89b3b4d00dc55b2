// internal/workers/eligibility/evaluate-eligibility/config.go
package evaluateeligibility

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
