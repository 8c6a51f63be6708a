package walletscope

import (
	"os"
	"time"

	"github.com/walletscope/walletscope-go/pkg/data"
	"github.com/walletscope/walletscope-go/pkg/gamma"
	"github.com/walletscope/walletscope-go/pkg/transport"
)

// BaseURLs defines per-service base endpoints.
type BaseURLs struct {
	Data  string
	Gamma string
}

// Config holds shared client configuration.
type Config struct {
	BaseURLs   BaseURLs
	HTTPClient transport.Doer
	UserAgent  string
	Timeout    time.Duration
	Retry      transport.RetryConfig
}

// DefaultConfig returns default service endpoints.
func DefaultConfig() Config {
	return Config{
		BaseURLs: BaseURLs{
			Data:  data.BaseURL,
			Gamma: gamma.BaseURL,
		},
		UserAgent: "github.com/walletscope/walletscope-go",
		Timeout:   30 * time.Second,
		Retry:     transport.DefaultRetryConfig(),
	}
}

// ConfigFromEnv returns the default configuration with WALLETSCOPE_* overrides
// applied. Unset variables keep their defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("WALLETSCOPE_DATA_URL"); v != "" {
		cfg.BaseURLs.Data = v
	}
	if v := os.Getenv("WALLETSCOPE_GAMMA_URL"); v != "" {
		cfg.BaseURLs.Gamma = v
	}
	if v := os.Getenv("WALLETSCOPE_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("WALLETSCOPE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	return cfg
}
