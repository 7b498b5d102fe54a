package sshkeys

import "time"

// Config holds the lookup client settings.
type Config struct {
	// ConfFile is the Hesiod configuration file holding lhs and rhs.
	ConfFile string `mapstructure:"conf_file" default:"/etc/hesiod.conf"`
	// Nameserver is a host:port to query. When empty the first resolv.conf server is used.
	Nameserver string `mapstructure:"nameserver" default:""`
	// Tries is the number of lookup attempts.
	Tries int `mapstructure:"tries" default:"3"`
	// RetryDelayMillis is the wait between two attempts.
	RetryDelayMillis int `mapstructure:"retry_delay_ms" default:"300"`
	// TimeoutSeconds bounds a single query.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"5"`
}

// RetryDelay returns the wait between two attempts.
func (c Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMillis) * time.Millisecond
}

// Timeout returns the per-query timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
