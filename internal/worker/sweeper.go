// Package worker runs the background expiry sweep that frees slots
// held by reservations whose pickup window lapsed.
package worker

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bikemetro/bikemetro/internal/queue"
	"github.com/bikemetro/bikemetro/internal/repository"
	queue_publisher "github.com/bikemetro/bikemetro/internal/service"
)

var expiredTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "bikemetro_reservas_expiradas_total",
	Help: "Reservations expired by the background sweep.",
})

// Sweeper periodically expires overdue PENDIENTE reservations. Each
// sweep runs in a single transaction so a crash mid-sweep leaves no
// half-expired state; the same rows are simply picked up on the next
// tick.
type Sweeper struct {
	Reservations *repository.ReservationRepo
	Interval     time.Duration
}

// Run blocks until ctx is cancelled, sweeping once per interval. A
// failed sweep is logged and retried on the next tick.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.sweepOnce(ctx); err != nil {
				log.Printf("sweeper: sweep failed: %v", err)
			}
		}
	}
}

func (s *Sweeper) sweepOnce(ctx context.Context) error {
	now := time.Now().UTC()

	tx, err := s.Reservations.DB().BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	expired, err := s.Reservations.ExpireDueTx(ctx, tx, now)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	if len(expired) == 0 {
		return nil
	}
	expiredTotal.Add(float64(len(expired)))
	log.Printf("sweeper: expired %d reservation(s)", len(expired))

	// Best effort: notification events after commit.
	for _, e := range expired {
		_ = queue_publisher.PublishReservationEvent(ctx, queue.ReservationEvent{
			Tipo:       queue.EventReservaExpirada,
			ReservaID:  e.ID,
			UserID:     e.UserID,
			StationID:  e.StationID,
			OccurredAt: now.Format(time.RFC3339),
		})
	}
	return nil
}
