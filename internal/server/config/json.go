package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/promptmanager/internal/flagx"
	"github.com/dmitrijs2005/promptmanager/internal/timex"
)

// JsonConfig is the on-disk shape of the server config. Durations accept
// "10s" or integer nanoseconds; pointer fields tell "absent" apart from
// "zero".
type JsonConfig struct {
	EndpointAddrHTTP   *string         `json:"endpoint_addr_http"`
	DatabaseDSN        *string         `json:"database_dsn"`
	MinPasswordLength  *int            `json:"min_password_length"`
	LoginRatePerMinute *int            `json:"login_rate_per_minute"`
	ShutdownTimeout    *timex.Duration `json:"shutdown_timeout"`
	LogLevel           *string         `json:"log_level"`
}

// parseJson overlays config with the file named by -c/-config, if any.
// A file that cannot be read or parsed panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != nil {
		config.EndpointAddrHTTP = *c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.MinPasswordLength != nil {
		config.MinPasswordLength = *c.MinPasswordLength
	}
	if c.LoginRatePerMinute != nil {
		config.LoginRatePerMinute = *c.LoginRatePerMinute
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = time.Duration(c.ShutdownTimeout.Duration)
	}
	if c.LogLevel != nil {
		config.LogLevel = *c.LogLevel
	}
}
