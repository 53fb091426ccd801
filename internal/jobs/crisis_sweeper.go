// Package jobs holds background loops run alongside the HTTP server.
package jobs

import (
	"context"
	"log"
	"time"

	"counselhub/internal/crisis"
	"counselhub/internal/db"
	"counselhub/internal/email"
	"counselhub/internal/metrics"
)

// CrisisSweeper rescans ended sessions whose transcripts were never run
// through the crisis detector. The save path scans synchronously, so the
// sweeper only catches rows written by older clients or before the detector
// shipped.
type CrisisSweeper struct {
	db        *db.DB
	notifier  *email.Notifier
	interval  time.Duration
	batchSize int
}

// NewCrisisSweeper creates a new sweeper. The notifier may be nil when email
// is not configured.
func NewCrisisSweeper(database *db.DB, notifier *email.Notifier, interval time.Duration, batchSize int) *CrisisSweeper {
	return &CrisisSweeper{
		db:        database,
		notifier:  notifier,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Start begins the background sweep loop.
func (s *CrisisSweeper) Start(ctx context.Context) {
	log.Printf("Crisis sweeper started (interval: %v, batch: %d)", s.interval, s.batchSize)

	// Run immediately on start
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Crisis sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep scans one batch of unscanned sessions.
func (s *CrisisSweeper) sweep(ctx context.Context) {
	sessions, err := s.db.GetSessionsNeedingCrisisScan(ctx, s.batchSize)
	if err != nil {
		log.Printf("Crisis sweeper: failed to get sessions: %v", err)
		return
	}

	if len(sessions) == 0 {
		return
	}

	log.Printf("Crisis sweeper: scanning %d sessions", len(sessions))

	for i := range sessions {
		select {
		case <-ctx.Done():
			return
		default:
		}

		session := &sessions[i]
		result := crisis.ClassifyTranscript(session.Transcript)
		metrics.RecordCrisisScan(result.Detected)

		if err := s.db.MarkSessionScanned(ctx, session.ID, result.Detected); err != nil {
			log.Printf("Crisis sweeper: failed to mark session %s: %v", session.ID, err)
			continue
		}

		// Alert only on newly raised flags; already-flagged sessions were
		// alerted when they were saved.
		if result.Detected && !session.CrisisDetected && s.notifier != nil {
			s.notifier.NotifyCrisisDetected(session, result.MatchedKeywords)
		}
	}
}
