package config

import (
	"errors"
	"strings"
	"time"

	"github.com/romangod6/sitemapper/internal/catalog"
	"github.com/spf13/viper"
)

type Config struct {
	Site struct {
		URL string
	}
	Server struct {
		Port      int
		StaticDir string
	}
	Blog struct {
		Source   string // http, postgres, sqlite or none
		APIBase  string
		Endpoint string
		Timeout  string
		NoCache  bool
	}
	Database struct {
		URL string
	}
	Sitemap struct {
		Output string
	}
	Log struct {
		Level string
		Dir   string
	}
	Audit struct {
		UserAgent   string
		Parallelism int
		Timeout     string
	}
	Catalog catalog.Catalog
}

// LoadConfig reads config.yaml from path, or from . and ./config when path is
// empty. A missing file is not an error. SITEMAPPER_* environment variables
// override file values, e.g. SITEMAPPER_BLOG_APIBASE.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("sitemapper")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Default values
	v.SetDefault("site.url", "https://www.example-ai.com")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.staticdir", "dist")
	v.SetDefault("blog.source", "http")
	v.SetDefault("blog.apibase", "http://localhost:5000/api")
	v.SetDefault("blog.endpoint", "/blogs/published")
	v.SetDefault("blog.timeout", "15s")
	v.SetDefault("blog.nocache", true)
	v.SetDefault("database.url", "")
	v.SetDefault("sitemap.output", "public/sitemap.xml")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.dir", "")
	v.SetDefault("audit.useragent", "sitemapper-audit/1.0")
	v.SetDefault("audit.parallelism", 4)
	v.SetDefault("audit.timeout", "20s")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if !v.IsSet("catalog") {
		config.Catalog = catalog.Default()
	}
	config.Site.URL = strings.TrimRight(config.Site.URL, "/")

	if err := config.Catalog.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) GetBlogTimeout() time.Duration {
	return parseDuration(c.Blog.Timeout, 15*time.Second)
}

func (c *Config) GetAuditTimeout() time.Duration {
	return parseDuration(c.Audit.Timeout, 20*time.Second)
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}
