package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// MonthDay is a fixed yearly holiday, e.g. {Day: 12, Month: 7} for July 12.
type MonthDay struct {
	Day   int
	Month int
}

type Config struct {
	BakeryAPIURL   string
	RedisURL       string
	ServerPort     string
	SessionTimeout int
	CacheTTL       int
	LeadTimeDays   int
	ClosedDays     []MonthDay
	PickupDates    []string
}

func Load() *Config {
	// Load .env file if exists
	godotenv.Load()

	return &Config{
		BakeryAPIURL:   getEnv("BAKERY_API_URL", "http://localhost:3000"),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		SessionTimeout: getEnvAsInt("SESSION_TIMEOUT", 3600),
		CacheTTL:       getEnvAsInt("CACHE_TTL", 60),
		LeadTimeDays:   getEnvAsInt("LEAD_TIME_DAYS", 3),
		ClosedDays:     parseMonthDays(getEnv("CLOSED_DAYS", "12/7,21/8")),
		PickupDates:    parseList(getEnv("PICKUP_DATES", "")),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// parseMonthDays reads a "day/month" comma list like "12/7,21/8".
func parseMonthDays(value string) []MonthDay {
	var days []MonthDay
	for _, item := range strings.Split(value, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "/", 2)
		if len(parts) != 2 {
			continue
		}
		day, err1 := strconv.Atoi(parts[0])
		month, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || day < 1 || day > 31 || month < 1 || month > 12 {
			continue
		}
		days = append(days, MonthDay{Day: day, Month: month})
	}
	return days
}

func parseList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
