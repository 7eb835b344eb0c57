package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/pubsub"
	"github.com/mauv0809/courtside/internal/rotation"
)

var errEmptyPush = errors.New("empty push message")

type pushEnvelope struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data      string `json:"data"`
		MessageID string `json:"messageId"`
	} `json:"message"`
}

// readPush unwraps a Pub/Sub push request and decodes its payload into v.
// It writes the error response itself and reports whether to carry on.
func (s *Server) readPush(w http.ResponseWriter, r *http.Request, v any) bool {
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("Failed to read request body", "error", err)
		http.Error(w, "Failed to read request body", http.StatusInternalServerError)
		return false
	}

	var msg pushEnvelope
	if err := json.Unmarshal(bodyBytes, &msg); err != nil {
		log.Error("Failed to unmarshal wrapper JSON", "error", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return false
	}
	log.Debug("Received push message", "subscription", msg.Subscription, "message_id", msg.Message.MessageID)

	rawData, err := base64.StdEncoding.DecodeString(msg.Message.Data)
	if err == nil && len(rawData) == 0 {
		err = errEmptyPush
	}
	if err != nil {
		log.Error("Failed to decode base64 data", "error", err)
		http.Error(w, "Invalid base64 data", http.StatusBadRequest)
		return false
	}
	if err := s.Bus.ProcessMessage(rawData, v); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return false
	}
	return true
}

// ackPush acknowledges a handled push. Rejections by the rotation engine are
// acknowledged too, redelivery would only be rejected again.
func ackPush(w http.ResponseWriter, eventID string, err error) {
	if err != nil {
		if rotation.Kind(err) == "" {
			log.Error("Failed to apply push message", "id", eventID, "error", err)
			http.Error(w, "Failed to apply message", http.StatusInternalServerError)
			return
		}
		log.Warn("Push message rejected", "id", eventID, "kind", rotation.Kind(err), "error", err)
		w.Write([]byte("REJECTED"))
		return
	}
	w.Write([]byte("OK"))
}

// CheckInPushHandler queues a player checked in at a kiosk.
func (s *Server) CheckInPushHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var event pubsub.PlayerCheckInEvent
		if !s.readPush(w, r, &event) {
			return
		}
		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would queue checked-in player", "id", event.ID, "player", event.Player)
			w.Write([]byte("OK"))
			return
		}
		ackPush(w, event.ID, s.Club.JoinQueue(event.Player))
	}
}

// CourtFinishedPushHandler ends the game a scoreboard reported as finished.
func (s *Server) CourtFinishedPushHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var event pubsub.CourtFinishedEvent
		if !s.readPush(w, r, &event) {
			return
		}
		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would end game", "id", event.ID, "court", event.CourtID)
			w.Write([]byte("OK"))
			return
		}
		ackPush(w, event.ID, s.finishCourt(event))
	}
}

func (s *Server) finishCourt(event pubsub.CourtFinishedEvent) error {
	if event.Team1Score != nil {
		if err := s.Club.UpdateScore(event.CourtID, rotation.Team1, *event.Team1Score); err != nil {
			return err
		}
	}
	if event.Team2Score != nil {
		if err := s.Club.UpdateScore(event.CourtID, rotation.Team2, *event.Team2Score); err != nil {
			return err
		}
	}
	rec, err := s.Club.EndGame(event.CourtID)
	if err != nil {
		return err
	}
	log.Info("Game ended from scoreboard", "id", event.ID, "court", event.CourtID, "duration", rec.Duration)
	return nil
}
