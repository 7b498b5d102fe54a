// Package config provides configuration management for hesiod53.
//
// Settings come from environment variables, optionally seeded from a .env
// file. Every field declares its default in a `default` struct tag.
//
// # Configuration Structure
//
//   - Log: logging level and format
//   - Route53: region, optional static credentials, endpoint override
//   - Commit: change polling interval, poll limit and API retry policy
//   - Storage: S3/MinIO credentials and bucket for run reports
//   - Archive: whether and where run reports are written
//   - Hesiod: hesiod.conf location and nameserver for key lookups
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Route53.Region)
package config
