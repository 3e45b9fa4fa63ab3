package config

import (
	"strings"
	"time"
)

const (
	EnvironmentProduction  = "production"
	EnvironmentDevelopment = "development"

	defaultProductionAPIURL  = "https://api.depositkeeper.app"
	defaultDevelopmentAPIURL = "http://localhost:5000"
	productionOrigin         = "https://depositkeeper.app"
	developmentOrigin        = "http://localhost:3000"
)

// Config holds runtime settings for the depositkeeper client.
//
// The backend base URL is picked at runtime (see BaseURL): APIURL when set,
// otherwise the production or development URL depending on Environment.
type Config struct {
	Environment       string
	ProductionAPIURL  string
	DevelopmentAPIURL string
	APIURL            string

	// ShareOrigin is the origin of shareable report links. Empty means the
	// environment default.
	ShareOrigin string

	// PublicRequestTimeout bounds anonymous calls (shared report views).
	PublicRequestTimeout time.Duration
	OnlineCheckInterval  time.Duration

	DatabasePath string

	LogLevel  string
	LogFormat string

	// PhotoStore is "local" or "s3".
	PhotoStore  string
	PhotoDir    string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.Environment = EnvironmentDevelopment
	c.ProductionAPIURL = defaultProductionAPIURL
	c.DevelopmentAPIURL = defaultDevelopmentAPIURL
	c.PublicRequestTimeout = 5 * time.Second
	c.OnlineCheckInterval = 10 * time.Second
	c.DatabasePath = "depositkeeper.db"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.PhotoStore = "local"
	c.PhotoDir = "photos"
	c.S3Bucket = "photos"
	c.S3Region = "us-east-1"
}

// IsProduction reports whether the client talks to the production backend.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, EnvironmentProduction)
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Config) BaseURL() string {
	u := c.DevelopmentAPIURL
	switch {
	case c.APIURL != "":
		u = c.APIURL
	case c.IsProduction():
		u = c.ProductionAPIURL
	}
	return strings.TrimRight(u, "/")
}

// Origin returns the origin used to build shareable report links.
func (c *Config) Origin() string {
	o := developmentOrigin
	switch {
	case c.ShareOrigin != "":
		o = c.ShareOrigin
	case c.IsProduction():
		o = productionOrigin
	}
	return strings.TrimRight(o, "/")
}

// LoadConfig constructs a Config from defaults, then overlays the
// environment (including a .env file), an optional JSON file and finally
// command-line flags. Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
