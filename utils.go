/* utils.go
 * Utility functions used across the application
 */

package main

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Config holds the settings read from flags and the environment at start up
type Config struct {
	Sport        string
	UpcomingDays int
	Test         bool
	RankingsTTL  time.Duration
	DiscordToken string
	APIBaseURL   string
	LogLevel     logrus.Level

	// Webhook server is only started when an address is set
	WebhookAddr   string
	WebhookSecret string
}

// convertStrToBool converts a string of true or false into a boolean for comparisons
// Preconditions: Receives string containing either true or false (case insensitive)
// Postconditions: Returns boolean value or an error if the string is not true or false
func convertStrToBool(str string) (bool, error) {
	str = strings.TrimSpace(str)
	str = strings.ToLower(str)

	if str == "true" {
		return true, nil
	} else if str == "false" {
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean string")
}

// loadConfig parses the command line flags and reads tokens from the environment
// Preconditions: Receives the command line arguments (without the program name) and an environment lookup
// Postconditions: Returns the config, or an error if a flag is invalid or the selected bot token is missing
func loadConfig(args []string, getenv func(string) string) (Config, error) {
	fs := flag.NewFlagSet("rankings-bot", flag.ContinueOnError)
	sportPtr := fs.String("sport", "mru", "Rankings to follow: mru (men's) or wru (women's)")
	daysPtr := fs.Int("days", 7, "Default number of days ahead loaded by $upcoming")
	testPtr := fs.String("test", "false", "Use main or test bot: takes true or false as argument")
	ttlPtr := fs.Duration("ttl", 30*time.Minute, "How long fetched rankings are cached, e.g. 30m")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	sport := strings.ToLower(strings.TrimSpace(*sportPtr))
	if sport != "mru" && sport != "wru" {
		return Config{}, fmt.Errorf("invalid \"sport\" flag %q. Should be mru or wru", *sportPtr)
	}
	if *daysPtr < 1 {
		return Config{}, fmt.Errorf("\"days\" flag must be at least 1")
	}
	if *ttlPtr < time.Minute {
		return Config{}, fmt.Errorf("\"ttl\" flag must be at least 1m")
	}

	isTest, err := convertStrToBool(*testPtr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid \"test\" flag. Should be true or false")
	}

	cfg := Config{
		Sport:         sport,
		UpcomingDays:  *daysPtr,
		Test:          isTest,
		RankingsTTL:   *ttlPtr,
		APIBaseURL:    getenv("RANKINGS_API_URL"),
		LogLevel:      logrus.InfoLevel,
		WebhookAddr:   getenv("WEBHOOK_ADDR"),
		WebhookSecret: getenv("WEBHOOK_SECRET"),
	}

	if isTest { // Load beta bot token
		cfg.DiscordToken = getenv("DISCORD_BETA_TOKEN")
	} else { // Load production bot token
		cfg.DiscordToken = getenv("DISCORD_PROD_TOKEN")
	}
	if cfg.DiscordToken == "" {
		return Config{}, fmt.Errorf("no discord token set for test=%t", isTest)
	}

	if level := getenv("LOG_LEVEL"); level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = parsed
	}
	if isTest && getenv("LOG_LEVEL") == "" {
		cfg.LogLevel = logrus.DebugLevel
	}

	return cfg, nil
}

// newLogger creates the logger shared by every package
func newLogger(level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(level)
	return logger
}
