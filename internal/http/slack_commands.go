package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	courtslack "github.com/mauv0809/courtside/internal/slack"
	"github.com/slack-go/slack"
)

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// parseQueueCommand splits "join Jane Doe" into ("join", "Jane Doe").
func parseQueueCommand(text string) (action, name string) {
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return "", ""
	}
	return strings.ToLower(parts[0]), strings.Join(parts[1:], " ")
}

// QueueCommandHandler serves the /queue slash command: join, leave, next and status.
func (s *Server) QueueCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		action, name := parseQueueCommand(r.FormValue("text"))
		log.Info("Received queue command", "action", action, "name", name, "user", r.FormValue("user_name"))

		switch action {
		case "join":
			if err := s.Club.JoinQueue(name); err != nil {
				respondWithSlackMsg(w, courtslack.FormatText(fmt.Sprintf("Could not add %s: %v", name, err)))
				return
			}
			respondWithSlackMsg(w, courtslack.FormatText(fmt.Sprintf("%s joined the queue at position %d.", name, len(s.Club.Snapshot().Queue))))
		case "leave":
			if err := s.Club.LeaveQueueByName(name); err != nil {
				respondWithSlackMsg(w, courtslack.FormatText(fmt.Sprintf("Could not remove %s: %v", name, err)))
				return
			}
			respondWithSlackMsg(w, courtslack.FormatText(fmt.Sprintf("%s left the queue.", name)))
		case "next":
			preview, err := s.Club.NextGamePreview()
			if err != nil {
				respondWithSlackMsg(w, courtslack.FormatText(fmt.Sprintf("No game ready: %v", err)))
				return
			}
			respondWithSlackMsg(w, courtslack.FormatNextGame(preview))
		case "status":
			respondWithSlackMsg(w, courtslack.FormatStatus(s.Club.Snapshot(), s.Club.Now()))
		default:
			respondWithSlackMsg(w, courtslack.FormatUsage())
		}
	}
}
