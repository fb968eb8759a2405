package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// Serveur
	Addr           string
	DBPath         string
	AllowedOrigins []string
	MaxStreams     int

	// Client
	ServerURL   string
	HistoryDB   string
	DownloadDir string

	LogLevel string
}

func Default() Config {
	return Config{
		Addr:           envOr("NEOTUBE_ADDR", "127.0.0.1:5000"),
		DBPath:         envOr("NEOTUBE_DB_PATH", "neotube.db"),
		AllowedOrigins: splitList(envOr("NEOTUBE_ALLOWED_ORIGINS", "*")),
		MaxStreams:     envIntOr("NEOTUBE_MAX_STREAMS", 4),
		ServerURL:      envOr("NEOTUBE_SERVER_URL", "http://127.0.0.1:5000"),
		HistoryDB:      envOr("NEOTUBE_HISTORY_DB", "neotube-history.db"),
		DownloadDir:    envOr("NEOTUBE_DOWNLOAD_DIR", "."),
		LogLevel:       envOr("NEOTUBE_LOG_LEVEL", "info"),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// splitList découpe une liste séparée par des virgules en ignorant les vides.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
