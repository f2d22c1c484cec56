// Package config provides configuration management for the loan service.
//
// It utilizes Viper for loading configuration from environment variables,
// an optional config file (config.yaml) and a .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: registry database (sqlite or mysql)
//   - Storage: S3/MinIO settings for the snapshot archive
//   - Log: Logging level and format
//   - Library: library API endpoint
//   - Account / Accounts: the library accounts to poll
//
// Defaults come from the `default` struct tags. A single account can be set
// through ACCOUNT_NAME, ACCOUNT_USERNAME and ACCOUNT_PASSWORD; more accounts
// are listed under `accounts` in config.yaml.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, acc := range cfg.Accounts() {
//	    fmt.Println(acc.Name)
//	}
package config
