package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultSnapshotPath = "bookings.db"
	defaultRulesPath    = "rules.json"
	defaultLogLevel     = "info"
	defaultRooms        = "R11,R12,R13,R14,R15,R16,R21,R22,R23,R24,R31,R32,R33,R34"
)

type Config struct {
	SnapshotPath string
	RulesPath    string
	Rooms        []string
	LogLevel     string
}

// Load reads configuration from the environment, after loading a local
// .env file when one exists. Every key has a working default so the tool
// runs with no configuration at all.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		SnapshotPath: getEnv("HOTEL_SNAPSHOT_PATH", defaultSnapshotPath),
		RulesPath:    getEnv("HOTEL_RULES_PATH", defaultRulesPath),
		LogLevel:     strings.ToLower(getEnv("HOTEL_LOG_LEVEL", defaultLogLevel)),
	}

	for _, r := range strings.Split(getEnv("HOTEL_ROOMS", defaultRooms), ",") {
		r = strings.ToUpper(strings.TrimSpace(r))
		if r != "" {
			cfg.Rooms = append(cfg.Rooms, r)
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
