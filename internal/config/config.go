// Package config reads process settings from the environment once at start.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	applog "organicfoods/internal/log"
)

// Storefront is what cmd/organicfoods needs.
type Storefront struct {
	Port               string
	CatalogURL         string
	CatalogTimeout     time.Duration
	CatalogPointLookup bool
	CatalogCacheTTL    time.Duration
	RedisAddr          string
	SessionTTL         time.Duration
	LogFile            string
	OTLPEndpoint       string
	// CSRF is on unless a test turns it off.
	CSRF bool
}

// Catalogd is what cmd/catalogd needs.
type Catalogd struct {
	Port         string
	DBDSN        string
	LogFile      string
	OTLPEndpoint string
}

func LoadStorefront() Storefront {
	cfg := Storefront{
		Port:               str("PORT", "8080"),
		CatalogURL:         str("CATALOG_URL", "http://localhost:8090"),
		CatalogTimeout:     dur("CATALOG_TIMEOUT", 5*time.Second),
		CatalogPointLookup: flag("CATALOG_POINT_LOOKUP", false),
		CatalogCacheTTL:    dur("CATALOG_CACHE_TTL", 0),
		RedisAddr:          str("REDIS_ADDR", ""),
		SessionTTL:         dur("SESSION_TTL", 30*time.Minute),
		LogFile:            str("LOG_FILE", ""),
		OTLPEndpoint:       str("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		CSRF:               true,
	}
	applog.Info(nil, "config.loaded", map[string]any{
		"port":                 cfg.Port,
		"catalog_url":          cfg.CatalogURL,
		"catalog_timeout":      cfg.CatalogTimeout.String(),
		"catalog_point_lookup": cfg.CatalogPointLookup,
		"catalog_cache_ttl":    cfg.CatalogCacheTTL.String(),
		"redis_addr":           cfg.RedisAddr,
		"session_ttl":          cfg.SessionTTL.String(),
		"log_file":             cfg.LogFile,
		"otlp_endpoint":        cfg.OTLPEndpoint,
	})
	return cfg
}

// CacheEnabled reports whether both a TTL and a Redis address are set.
func (c Storefront) CacheEnabled() bool {
	return c.CatalogCacheTTL > 0 && c.RedisAddr != ""
}

func LoadCatalogd() Catalogd {
	cfg := Catalogd{
		Port:         str("CATALOG_PORT", "8090"),
		DBDSN:        str("DB_DSN", "catalog.db"), // sqlite file in working dir
		LogFile:      str("LOG_FILE", ""),
		OTLPEndpoint: str("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
	applog.Info(nil, "config.loaded", map[string]any{
		"port": cfg.Port, "db_dsn": cfg.DBDSN, "log_file": cfg.LogFile, "otlp_endpoint": cfg.OTLPEndpoint,
	})
	return cfg
}

func str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// Bad values fall back to the default and are reported, so a typo never stops the process.
func dur(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		applog.Error(nil, "config.invalid", err, map[string]any{"key": key, "value": v})
		return def
	}
	return d
}

func flag(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		applog.Error(nil, "config.invalid", err, map[string]any{"key": key, "value": v})
		return def
	}
	return b
}
