package pubsub

import (
	"time"

	"cloud.google.com/go/pubsub"
	amqp "github.com/rabbitmq/amqp091-go"
)

type client struct {
	client   *pubsub.Client
	teardown func()
}

type rabbitClient struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// EventType represents the type of event/message sent via pubsub. It doubles
// as the GCP topic name and the RabbitMQ routing key.
type EventType string

const (
	EventGameStarted     EventType = "game-started"
	EventGameEnded       EventType = "game-ended"
	EventRentalEnding    EventType = "rental-ending"
	EventPlayersUpNext   EventType = "players-up-next"
	EventQueueChanged    EventType = "queue-changed"
	EventSettingsChanged EventType = "settings-changed"

	// Pushed to us by check-in kiosks and court scoreboards.
	EventPlayerCheckIn EventType = "player-check-in"
	EventCourtFinished EventType = "court-finished"
)

type GameStartedEvent struct {
	ID        string    `msgpack:"id"`
	CourtID   int       `msgpack:"court_id"`
	Players   []string  `msgpack:"players"`
	GroupName string    `msgpack:"group_name,omitempty"`
	StartedAt time.Time `msgpack:"started_at"`
}

type GameEndedEvent struct {
	ID         string    `msgpack:"id"`
	CourtID    int       `msgpack:"court_id"`
	Players    []string  `msgpack:"players"`
	Duration   int       `msgpack:"duration"`
	Team1Score *int      `msgpack:"team1_score,omitempty"`
	Team2Score *int      `msgpack:"team2_score,omitempty"`
	EndedAt    time.Time `msgpack:"ended_at"`
}

type RentalEndingEvent struct {
	ID        string        `msgpack:"id"`
	CourtID   int           `msgpack:"court_id"`
	RentedBy  string        `msgpack:"rented_by"`
	Remaining time.Duration `msgpack:"remaining"`
}

type PlayersUpNextEvent struct {
	ID      string   `msgpack:"id"`
	Players []string `msgpack:"players"`
	CourtID *int     `msgpack:"court_id,omitempty"`
	Quality int      `msgpack:"quality"`
}

type QueueChangedEvent struct {
	ID      string `msgpack:"id"`
	Players int    `msgpack:"players"`
	Entries int    `msgpack:"entries"`
}

type PlayerCheckInEvent struct {
	ID     string `msgpack:"id"`
	Player string `msgpack:"player"`
}

// CourtFinishedEvent ends the game on a court. Scores are recorded first when
// the scoreboard sends them.
type CourtFinishedEvent struct {
	ID         string `msgpack:"id"`
	CourtID    int    `msgpack:"court_id"`
	Team1Score *int   `msgpack:"team1_score,omitempty"`
	Team2Score *int   `msgpack:"team2_score,omitempty"`
}
