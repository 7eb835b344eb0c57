package http

import (
	"net/http"

	"github.com/mauv0809/courtside/internal/club"
	"github.com/mauv0809/courtside/internal/config"
	"github.com/mauv0809/courtside/internal/processor"
	"github.com/mauv0809/courtside/internal/pubsub"
	"github.com/mauv0809/courtside/internal/rotation"
)

type Server struct {
	Club           club.ClubService
	Processor      *processor.Processor
	Bus            pubsub.PubSubClient
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

type nameRequest struct {
	Name string `json:"name"`
}

type reorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type groupRequest struct {
	Name    string   `json:"name"`
	Players []string `json:"players"`
}

type scoreRequest struct {
	Team  int `json:"team"`
	Value int `json:"value"`
}

// courtSkillRequest clears the restriction when Level is null or empty.
type courtSkillRequest struct {
	Level *string `json:"level"`
}

type timerRequest struct {
	Action    string `json:"action"` // start, pause or set
	ElapsedMs int64  `json:"elapsed_ms"`
}

type scheduleRequest struct {
	Hours    float64 `json:"hours"`
	RentedBy string  `json:"rented_by"`
}

type playerSkillRequest struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

type bulkRequest struct {
	Names []string `json:"names"`
}

type waitResponse struct {
	Index   int    `json:"index"`
	Minutes int    `json:"minutes"`
	Display string `json:"display"`
}

type startResponse struct {
	CourtID   int                `json:"court_id"`
	Selection rotation.Selection `json:"selection"`
}
