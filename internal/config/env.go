package config

import (
	"os"
	"strconv"
)

// FromEnv overlays environment variables on cfg. Unset variables leave the
// existing value alone.
func FromEnv(cfg *Config) *Config {
	if v := os.Getenv("TODOFAST_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v, ok := os.LookupEnv("TODOFAST_DATA_DIR"); ok {
		// Explicitly set to empty selects the in-memory backend.
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("TODOFAST_STORAGE_KEY"); v != "" {
		cfg.Storage.Key = v
	}
	if v := getEnvInt("TODOFAST_RESTORE_WINDOW_SECONDS"); v > 0 {
		cfg.Restore.WindowSeconds = v
	}
	return cfg
}

func getEnvInt(key string) int {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return num
}
