package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all server configuration. It is built once at startup and
// passed explicitly into components; business logic never reads the
// environment directly.
type Config struct {
	Port int

	Auth struct {
		AccessSecret string
		AccessExpire time.Duration
	}

	Database struct {
		SQLitePath string
	}

	Model struct {
		BaseURL string
		APIKey  string
		Name    string
	}

	Chat struct {
		MaxMessageChars int
		HistoryTokens   int
		MaxToolRounds   int
		Timeout         time.Duration
	}

	Login struct {
		MaxFailedAttempts int
		LockoutWindow     time.Duration
	}
}

// Load builds a Config from the process environment.
// Call godotenv.Load before this if a .env file should be honored.
func Load() (Config, error) {
	var c Config

	c.Port = envInt("TASKPILOT_PORT", 8080)

	c.Auth.AccessSecret = os.Getenv("TASKPILOT_ACCESS_SECRET")
	if c.Auth.AccessSecret == "" {
		return c, fmt.Errorf("TASKPILOT_ACCESS_SECRET is required")
	}
	c.Auth.AccessExpire = envDuration("TASKPILOT_ACCESS_EXPIRE", 30*24*time.Hour)

	c.Database.SQLitePath = envString("TASKPILOT_SQLITE_PATH", "./data/taskpilot.db")

	c.Model.BaseURL = envString("TASKPILOT_MODEL_BASE_URL", "")
	c.Model.APIKey = os.Getenv("TASKPILOT_MODEL_API_KEY")
	c.Model.Name = envString("TASKPILOT_MODEL_NAME", "gpt-4o-mini")

	c.Chat.MaxMessageChars = envInt("TASKPILOT_CHAT_MAX_MESSAGE_CHARS", 10000)
	c.Chat.HistoryTokens = envInt("TASKPILOT_CHAT_HISTORY_TOKENS", 2000)
	c.Chat.MaxToolRounds = envInt("TASKPILOT_CHAT_MAX_TOOL_ROUNDS", 5)
	c.Chat.Timeout = envDuration("TASKPILOT_CHAT_TIMEOUT", 30*time.Second)

	c.Login.MaxFailedAttempts = envInt("TASKPILOT_LOGIN_MAX_FAILED_ATTEMPTS", 5)
	c.Login.LockoutWindow = envDuration("TASKPILOT_LOGIN_LOCKOUT_WINDOW", 15*time.Minute)

	return c, nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	if i, err := strconv.Atoi(v); err == nil {
		return i
	}
	return defaultVal
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultVal
}
