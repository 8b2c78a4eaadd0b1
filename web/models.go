/* models.go
 * Contains the types used by the webhook server
 */

package web

import (
	"rankings-bot/api/store"

	"github.com/sirupsen/logrus"
)

// Header carrying the shared secret on webhook requests
const secretHeader = "X-Webhook-Secret"

// Config holds the configuration for the web server
type Config struct {
	Addr   string
	Secret string
	Store  store.Interface
	Logger *logrus.Logger
}

// Server is the HTTP server that handles webhook requests
type Server struct {
	store  store.Interface
	secret string
	logger *logrus.Logger
}

// RankingsEvent is the body posted when a rankings table may have changed
type RankingsEvent struct {
	Sport string `json:"sport"`
	Event string `json:"event"`
}

// NewServer creates a server from the config. A nil logger falls back to the standard logger
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Server{
		store:  cfg.Store,
		secret: cfg.Secret,
		logger: logger,
	}
}
