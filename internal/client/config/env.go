package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "DEPOSITKEEPER_"

// parseEnv overlays Config with DEPOSITKEEPER_* environment variables. A .env
// file in the working directory is loaded first when present; variables
// already set in the process environment win over the file.
//
// Panics on a malformed duration, like the other parsers.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	setString(&cfg.Environment, "ENV")
	setString(&cfg.APIURL, "API_URL")
	setString(&cfg.ProductionAPIURL, "PRODUCTION_API_URL")
	setString(&cfg.DevelopmentAPIURL, "DEVELOPMENT_API_URL")
	setString(&cfg.ShareOrigin, "ORIGIN")
	setDuration(&cfg.PublicRequestTimeout, "PUBLIC_TIMEOUT")
	setDuration(&cfg.OnlineCheckInterval, "ONLINE_CHECK_INTERVAL")
	setString(&cfg.DatabasePath, "DB")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.LogFormat, "LOG_FORMAT")
	setString(&cfg.PhotoStore, "PHOTO_STORE")
	setString(&cfg.PhotoDir, "PHOTO_DIR")
	setString(&cfg.S3Bucket, "S3_BUCKET")
	setString(&cfg.S3Region, "S3_REGION")
	setString(&cfg.S3Endpoint, "S3_ENDPOINT")
	setString(&cfg.S3AccessKey, "S3_ACCESS_KEY")
	setString(&cfg.S3SecretKey, "S3_SECRET_KEY")
}

func setString(dst *string, name string) {
	if v, ok := os.LookupEnv(envPrefix + name); ok && v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, name string) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
