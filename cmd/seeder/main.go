// Command seeder registers players straight into the stored facility snapshot.
// Run it while the server is stopped; a running server keeps its own copy and
// would overwrite the seeded snapshot on its next change.
//
// Usage: seeder "Jane Doe:advanced" "John Roe" ...
package main

import (
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/club"
	"github.com/mauv0809/courtside/internal/config"
	"github.com/mauv0809/courtside/internal/database"
	"github.com/mauv0809/courtside/internal/metrics"
	"github.com/mauv0809/courtside/internal/pubsub"
	"github.com/mauv0809/courtside/internal/rotation"
	"github.com/mauv0809/courtside/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
)

// parseEntry splits "Name:level"; a missing level leaves the default.
func parseEntry(raw string) (string, *rotation.SkillLevel, error) {
	name, levelStr, found := strings.Cut(raw, ":")
	name = strings.TrimSpace(name)
	if !found {
		return name, nil, nil
	}
	level, err := rotation.ParseSkillLevel(levelStr)
	if err != nil {
		return "", nil, err
	}
	return name, &level, nil
}

func main() {
	log.Info("Starting player seeder...")
	if len(os.Args) < 2 {
		log.Fatal("Usage: seeder \"Name[:level]\" ...")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}
	defaults, err := cfg.Facility.Settings()
	if err != nil {
		log.Fatal("Invalid facility configuration", "error", err)
	}

	db, closeDB, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		log.Fatal("Failed to initialize database", "error", err)
	}
	defer closeDB()

	svc, err := club.New(storage.New(db), metrics.NewService(prometheus.NewRegistry()), metrics.New(db), pubsub.NewNoop(), defaults)
	if err != nil {
		log.Fatal("Failed to restore facility", "error", err)
	}

	startTime := time.Now()
	names := make([]string, 0, len(os.Args)-1)
	levels := make(map[string]rotation.SkillLevel)
	for _, raw := range os.Args[1:] {
		name, level, err := parseEntry(raw)
		if err != nil {
			log.Fatal("Invalid entry", "entry", raw, "error", err)
		}
		names = append(names, name)
		if level != nil {
			levels[name] = *level
		}
	}

	added, skipped, err := svc.BulkRegister(names)
	if err != nil {
		log.Fatal("Failed to register players", "error", err)
	}
	for name, level := range levels {
		if err := svc.SetSkillLevel(name, level); err != nil {
			log.Fatal("Failed to set skill level", "player", name, "error", err)
		}
	}
	log.Info("Seeding finished", "added", added, "skipped", skipped, "levels_set", len(levels), "took", time.Since(startTime))
}
