// Package config provides configuration management for the inventory sync
// service.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: MySQL connection details
//   - Storage: S3/MinIO credentials and report bucket settings
//   - Log: Logging level and format
//   - Source: Source system API (base URL, token, paging, rate-limit fallback)
//   - Sync: Synchronization run defaults (workers, pool size, delay)
//   - Reconcile: Identity map cache lifetime
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
