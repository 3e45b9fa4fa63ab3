// Package config loads runtime configuration for the depositkeeper client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: DEPOSITKEEPER_* variables, with a .env file in the
//     working directory loaded through godotenv.
//  3. Optional JSON file selected via -c / -config or $DEPOSITKEEPER_CONFIG.
//  4. Command-line flags, which override everything else.
//
// # JSON schema
//
//	{
//	  "environment": "production",
//	  "api_url": "",
//	  "share_origin": "https://depositkeeper.app",
//	  "public_request_timeout": "5s",
//	  "online_check_interval": "10s",
//	  "database_path": "depositkeeper.db",
//	  "log_format": "zap",
//	  "photo_store": "s3",
//	  "s3_bucket": "photos"
//	}
//
// The backend URL is resolved at runtime by (*Config).BaseURL: an explicit
// api_url wins, otherwise the production or development URL is used
// depending on the environment.
package config
