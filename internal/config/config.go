package config

import (
	"os"
	"time"
)

type Config struct {
	Port             string
	JWTSecret        string
	AdminGracePeriod time.Duration
	RoomTTL          time.Duration
}

func Load() *Config {
	return &Config{
		Port:             getEnv("PORT", "8080"),
		JWTSecret:        getEnv("JWT_SECRET", "super-secret-key-change-in-production"),
		AdminGracePeriod: getDuration("ADMIN_GRACE_PERIOD", 60*time.Second),
		RoomTTL:          getDuration("ROOM_TTL", 6*time.Hour),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
