// Package logger provides a structured logging facility based on Zap.
//
// Level debug selects zap's development preset; any other level uses the
// production preset. Entries are written to stderr so that command output on
// stdout, such as the keys printed for sshd, is never mixed with logs.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json or console
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log = logger.WithRun(log, "example.com", "hs.example.com")
//	log.Info("Sync started")
package logger
