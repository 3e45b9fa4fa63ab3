package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/depositkeeper/internal/flagx"
	"github.com/dmitrijs2005/depositkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations go
// through timex.Duration so they may be written as "5s" or as nanoseconds.
type JsonConfig struct {
	Environment          string         `json:"environment"`
	APIURL               string         `json:"api_url"`
	ProductionAPIURL     string         `json:"production_api_url"`
	DevelopmentAPIURL    string         `json:"development_api_url"`
	ShareOrigin          string         `json:"share_origin"`
	PublicRequestTimeout timex.Duration `json:"public_request_timeout"`
	OnlineCheckInterval  timex.Duration `json:"online_check_interval"`
	DatabasePath         string         `json:"database_path"`
	LogLevel             string         `json:"log_level"`
	LogFormat            string         `json:"log_format"`
	PhotoStore           string         `json:"photo_store"`
	PhotoDir             string         `json:"photo_dir"`
	S3Bucket             string         `json:"s3_bucket"`
	S3Region             string         `json:"s3_region"`
	S3Endpoint           string         `json:"s3_endpoint"`
	S3AccessKey          string         `json:"s3_access_key"`
	S3SecretKey          string         `json:"s3_secret_key"`
}

// parseJson overlays Config with values from the JSON file named by -c,
// -config or $DEPOSITKEEPER_CONFIG. Fields absent from the file keep their
// current value. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	path := flagx.ConfigPath()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	overlay(&cfg.Environment, jc.Environment)
	overlay(&cfg.APIURL, jc.APIURL)
	overlay(&cfg.ProductionAPIURL, jc.ProductionAPIURL)
	overlay(&cfg.DevelopmentAPIURL, jc.DevelopmentAPIURL)
	overlay(&cfg.ShareOrigin, jc.ShareOrigin)
	overlay(&cfg.DatabasePath, jc.DatabasePath)
	overlay(&cfg.LogLevel, jc.LogLevel)
	overlay(&cfg.LogFormat, jc.LogFormat)
	overlay(&cfg.PhotoStore, jc.PhotoStore)
	overlay(&cfg.PhotoDir, jc.PhotoDir)
	overlay(&cfg.S3Bucket, jc.S3Bucket)
	overlay(&cfg.S3Region, jc.S3Region)
	overlay(&cfg.S3Endpoint, jc.S3Endpoint)
	overlay(&cfg.S3AccessKey, jc.S3AccessKey)
	overlay(&cfg.S3SecretKey, jc.S3SecretKey)

	if jc.PublicRequestTimeout.Duration > 0 {
		cfg.PublicRequestTimeout = jc.PublicRequestTimeout.Duration
	}
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
