// Package config loads service configuration from the environment.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults for optional settings.
const (
	DefaultAddr             = "127.0.0.1:8080"
	DefaultCatalogPath      = "data/data_moods.csv"
	DefaultCascadePath      = "models/haarcascade_frontalface_default.xml"
	DefaultEmotionModelPath = "models/mini_xception.onnx"
	DefaultUploadDir        = "uploads"
	DefaultAllowedOrigins   = "http://localhost:5173,http://127.0.0.1:5173,http://localhost:3000,http://127.0.0.1:3000"

	DefaultMaxUploadBytes        = 5 << 20
	DefaultPreviewCacheSize      = 4000
	DefaultPreviewTimeoutSeconds = 6
	DefaultMaxPreviewLookups     = 12
)

// Config holds all runtime settings for the mood-music service.
// Every field is read from a MOOD_MUSIC_* environment variable.
type Config struct {
	Addr           string
	AllowedOrigins []string

	// CatalogPath is the CSV catalog snapshot. Ignored when DatabaseURL is set.
	CatalogPath string
	DatabaseURL string

	CascadePath      string
	EmotionModelPath string

	UploadDir      string
	MaxUploadBytes int64

	PreviewCacheSize  int
	PreviewTimeout    time.Duration
	MaxPreviewLookups int
}

// Load reads configuration from the environment, applying defaults for
// anything unset.
func Load() *Config {
	v := viper.New()
	v.SetEnvPrefix("MOOD_MUSIC")
	v.AutomaticEnv()

	v.SetDefault("ADDR", DefaultAddr)
	v.SetDefault("ALLOWED_ORIGINS", DefaultAllowedOrigins)
	v.SetDefault("CATALOG_PATH", DefaultCatalogPath)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("CASCADE_PATH", DefaultCascadePath)
	v.SetDefault("EMOTION_MODEL_PATH", DefaultEmotionModelPath)
	v.SetDefault("UPLOAD_DIR", DefaultUploadDir)
	v.SetDefault("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes)
	v.SetDefault("PREVIEW_CACHE_SIZE", DefaultPreviewCacheSize)
	v.SetDefault("PREVIEW_TIMEOUT_SECONDS", DefaultPreviewTimeoutSeconds)
	v.SetDefault("MAX_PREVIEW_LOOKUPS", DefaultMaxPreviewLookups)

	return &Config{
		Addr:              v.GetString("ADDR"),
		AllowedOrigins:    splitOrigins(v.GetString("ALLOWED_ORIGINS")),
		CatalogPath:       v.GetString("CATALOG_PATH"),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		CascadePath:       v.GetString("CASCADE_PATH"),
		EmotionModelPath:  v.GetString("EMOTION_MODEL_PATH"),
		UploadDir:         v.GetString("UPLOAD_DIR"),
		MaxUploadBytes:    v.GetInt64("MAX_UPLOAD_BYTES"),
		PreviewCacheSize:  v.GetInt("PREVIEW_CACHE_SIZE"),
		PreviewTimeout:    time.Duration(v.GetInt("PREVIEW_TIMEOUT_SECONDS")) * time.Second,
		MaxPreviewLookups: v.GetInt("MAX_PREVIEW_LOOKUPS"),
	}
}

// splitOrigins parses a comma-separated origin list, dropping empty entries.
func splitOrigins(raw string) []string {
	var origins []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
