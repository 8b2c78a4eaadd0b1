/* rankings_webhook.go
 * Contains the webhook handler used to force a refresh of the cached rankings when the published table changes
 */

package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Upper bound on how long a webhook waits for the provider
const refreshTimeout = 20 * time.Second

// authorized reports whether the request carries the configured secret. No secret configured means open
func (s *Server) authorized(r *http.Request) bool {
	if s.secret == "" {
		return true
	}
	got := r.Header.Get(secretHeader)
	return subtle.ConstantTimeCompare([]byte(got), []byte(s.secret)) == 1
}

// RankingsWebhookHandler HTTP endpoint that receives a notification that rankings were republished and refreshes the
// cached snapshot
// Preconditions: HTTP server has been started, receives HTTP ResponseWriter and Http Request
// Postconditions: Refreshes the store's rankings when the event is for the followed sport. Responds 200 when the event
// is handled or ignored, 502 if the refresh failed
func (s *Server) RankingsWebhookHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !s.authorized(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	defer r.Body.Close()

	var event RankingsEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		s.logger.WithError(err).Warn("failed to decode webhook")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	// Events for the other rankings table are acknowledged and dropped
	if !strings.EqualFold(event.Sport, s.store.GetSport()) {
		w.WriteHeader(http.StatusOK)
		return
	}

	s.logger.WithFields(logrus.Fields{
		"sport": event.Sport,
		"event": event.Event,
	}).Info("rankings webhook received")

	ctx, cancel := context.WithTimeout(r.Context(), refreshTimeout)
	defer cancel()

	snapshot, err := s.store.RefreshRankings(ctx)
	if err != nil {
		s.logger.WithError(err).Error("rankings refresh from webhook failed")
		w.WriteHeader(http.StatusBadGateway)
		return
	}

	s.logger.WithField("effective", snapshot.Effective.Format(time.DateOnly)).Info("rankings refreshed from webhook")
	w.WriteHeader(http.StatusOK)
}

// HealthHandler reports that the process is serving requests
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Routes returns the mux with every handler bound
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/webhooks/rankings", s.RankingsWebhookHandler)
	mux.HandleFunc("/healthz", s.HealthHandler)
	return mux
}
