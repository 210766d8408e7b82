// Package config provides centralized configuration management for WhatsFlow.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file (config.yaml, or the path in WHATSFLOW_CONFIG)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern WHATSFLOW_<SECTION>_<FIELD>:
//
//	WHATSFLOW_SERVER_PORT=8080
//	WHATSFLOW_LOGGING_LEVEL=debug
//	WHATSFLOW_PATHS_DATABASE_FILE=/var/lib/whatsflow/whatsflow.db
//	WHATSFLOW_MAIL_HOST=smtp.example.com
//	WHATSFLOW_SECURITY_RATE_LIMIT_RPS=20
//
// # Paths
//
// Relative paths are resolved against the working directory by GetPaths and
// created on startup by EnsureDirectories.
package config
