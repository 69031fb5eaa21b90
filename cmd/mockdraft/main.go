package main

import (
	"context"
	"flag"
	"math/rand"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/leaguehq/draftsim/internal/adp"
	"github.com/leaguehq/draftsim/internal/behavior"
	"github.com/leaguehq/draftsim/internal/draft"
	"github.com/leaguehq/draftsim/internal/models"
	"github.com/leaguehq/draftsim/internal/predictor"
	"github.com/leaguehq/draftsim/internal/profile"
	"github.com/leaguehq/draftsim/internal/providers"
	"github.com/leaguehq/draftsim/internal/services"
	"github.com/leaguehq/draftsim/internal/storage"
	"github.com/leaguehq/draftsim/pkg/database"
	"github.com/leaguehq/draftsim/pkg/logger"
)

// mockdraft runs a full autopilot snake draft from stored history and two
// local ADP files, writing the round x team grid as CSV.
func main() {
	var (
		databaseURL  = flag.String("db", "file:draftsim.db", "database URL (sqlite path or postgres URL)")
		league       = flag.String("league", "", "league to draft for (required)")
		rounds       = flag.Int("rounds", 15, "number of rounds")
		seed         = flag.Int64("seed", 1, "random seed for reproducible autopicks")
		primaryADP   = flag.String("adp-a", "adp_primary.json", "primary ADP source file")
		secondaryADP = flag.String("adp-b", "adp_secondary.json", "secondary ADP source file")
		out          = flag.String("out", "mock-draft.csv", "output CSV path")
	)
	flag.Parse()

	log := logger.InitLogger("info", true)
	if *league == "" {
		log.Fatal("-league is required")
	}

	db, err := database.NewConnection(*databaseURL, false)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	store := storage.NewRecordStore(db, log)
	records, err := store.LoadLeague(*league)
	if err != nil {
		log.Fatalf("Failed to load draft records: %v", err)
	}
	members := storage.Members(records)
	if len(members) < 2 {
		log.Fatalf("League %s has %d known members; need at least 2", *league, len(members))
	}

	ctx := context.Background()
	sourceA, err := providers.NewFileADPSource("primary", *primaryADP).FetchADP(ctx)
	if err != nil {
		log.Fatalf("Failed to load primary ADP source: %v", err)
	}
	sourceB, err := providers.NewFileADPSource("secondary", *secondaryADP).FetchADP(ctx)
	if err != nil {
		log.Fatalf("Failed to load secondary ADP source: %v", err)
	}
	pool := adp.NewReconciler(log).Reconcile(sourceA, sourceB)
	log.Infof("Reconciled player pool: %d players", len(pool))

	// Build behavior models for everyone in the league.
	profileBuilder := profile.NewBuilder(log)
	behaviorBuilder := behavior.NewBuilder(log, behavior.NewValueSource(rand.New(rand.NewSource(*seed))))
	behaviorModels := make(map[string]*models.BehaviorModel, len(members))
	for _, memberID := range members {
		memberRecords := storage.RecordsForMember(records, memberID)
		memberProfile := profileBuilder.Build(memberID, memberRecords)
		behaviorModels[memberID] = behaviorBuilder.Build(memberProfile, memberRecords)
	}

	settings := models.DraftSettings{
		TeamCount:  len(members),
		RoundCount: *rounds,
		DraftType:  models.DraftTypeSnake,
	}
	sim, err := draft.New(members, pool, settings, nil, log)
	if err != nil {
		log.Fatalf("Failed to initialize draft: %v", err)
	}

	registry := services.NewSessionRegistry()
	session := registry.Create(*league, sim, behaviorModels)
	driver := services.NewAutopickDriver(predictor.New(log, rand.New(rand.NewSource(*seed))), log)

	// Caller-owned stepping: the loop, not a timer, drives the draft.
	for !sim.IsComplete() {
		if _, err := driver.Step(session); err != nil {
			log.Fatalf("Autopick failed at pick %d: %v", sim.CurrentPickNumber(), err)
		}
	}
	log.WithFields(logrus.Fields{
		"picks":   len(sim.Picks()),
		"members": len(members),
	}).Info("Mock draft complete")

	file, err := os.Create(*out)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	defer file.Close()
	if err := sim.WriteGridCSV(file); err != nil {
		log.Fatalf("Failed to write draft grid: %v", err)
	}
	log.Infof("Wrote mock draft grid to %s", *out)
}
