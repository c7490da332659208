// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	CMSRepository  string
	CMSAccessToken string
	CMSEndpoint    string
	NewsFeedURL    string

	HTTPAddr     string
	FetchTimeout time.Duration

	// TelegramBotToken is optional; the bot and scheduler stay off without it.
	TelegramBotToken string
	DatabasePath     string
	AllowedUsers     []int64

	LogLevel string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	repo := os.Getenv("CMS_REPOSITORY")
	endpoint := os.Getenv("CMS_ENDPOINT")
	if repo == "" && endpoint == "" {
		return nil, fmt.Errorf("CMS_REPOSITORY is required")
	}

	timeout := 10 * time.Second
	if raw := os.Getenv("FETCH_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid FETCH_TIMEOUT %q: %w", raw, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", d)
		}
		timeout = d
	}

	allowedUsers, err := parseUsers(os.Getenv("ALLOWED_USERS"))
	if err != nil {
		return nil, err
	}

	return &Config{
		CMSRepository:    repo,
		CMSAccessToken:   os.Getenv("CMS_ACCESS_TOKEN"),
		CMSEndpoint:      endpoint,
		NewsFeedURL:      os.Getenv("NEWS_FEED_URL"),
		HTTPAddr:         envOrDefault("HTTP_ADDR", ":8080"),
		FetchTimeout:     timeout,
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatabasePath:     envOrDefault("DATABASE_PATH", "./data/site.db"),
		AllowedUsers:     allowedUsers,
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
	}, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseUsers(raw string) ([]int64, error) {
	var users []int64
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		uid, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user ID %q in ALLOWED_USERS: %w", s, err)
		}
		users = append(users, uid)
	}
	return users, nil
}

// BotEnabled reports whether a Telegram token was configured.
func (c *Config) BotEnabled() bool {
	return c.TelegramBotToken != ""
}

// IsUserAllowed checks whether a user ID is in the allow list.
// Returns true if the allow list is empty (all users permitted).
func (c *Config) IsUserAllowed(userID int64) bool {
	if len(c.AllowedUsers) == 0 {
		return true
	}
	for _, id := range c.AllowedUsers {
		if id == userID {
			return true
		}
	}
	return false
}
