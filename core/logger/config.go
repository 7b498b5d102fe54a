package logger

// Config holds configuration for the logger.
type Config struct {
	// Level is the minimum level logged: debug, info, warn or error.
	Level string `mapstructure:"level" default:"info"`
	// Format is the encoding of log entries: json or console.
	Format string `mapstructure:"format" default:"json"`
}
