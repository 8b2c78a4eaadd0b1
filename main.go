/* main.go
 * The "main" method for running the rankings bot. Run options are described in utils.go
 * Usage: go run . -sport="mru" -days=7 -test=false
 */

package main

import (
	"os"
	"time"

	"rankings-bot/api/api"
	"rankings-bot/api/external"
	"rankings-bot/api/store"
	"rankings-bot/bot"
	"rankings-bot/web"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Requests per second allowed against the rankings api, and the burst allowed on top
const (
	providerRate  = 2
	providerBurst = 4
)

func main() {
	// A missing .env is fine when the variables are set in the environment
	envErr := godotenv.Load()

	cfg, err := loadConfig(os.Args[1:], os.Getenv)
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	logger := newLogger(cfg.LogLevel)
	if envErr != nil {
		logger.WithError(envErr).Debug("no .env file loaded")
	}

	limiter := rate.NewLimiter(rate.Every(time.Second/providerRate), providerBurst)
	client := external.NewClient(cfg.APIBaseURL, limiter, logger)

	s, err := store.NewStore(client, cfg.Sport, cfg.RankingsTTL, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize store")
	}

	apiPtr, err := api.NewAPI(s, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize API")
	}

	b, err := bot.NewBot(cfg.DiscordToken, apiPtr, cfg.UpcomingDays, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize bot")
	}

	if cfg.WebhookAddr != "" {
		go func() {
			cfgWeb := web.Config{Addr: cfg.WebhookAddr, Secret: cfg.WebhookSecret, Store: s, Logger: logger}
			if err := web.Start(cfgWeb); err != nil {
				logger.WithError(err).Error("webhook server stopped")
			}
		}()
	}

	logger.WithFields(logrus.Fields{
		"sport": cfg.Sport,
		"test":  cfg.Test,
		"ttl":   cfg.RankingsTTL,
	}).Info("starting rankings bot")

	if err := b.Run(); err != nil {
		logger.WithError(err).Fatal("bot stopped with an error")
	}
}
