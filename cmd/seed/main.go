package main // Seeds the station catalog with the Línea 1 bicicleteros

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/bikemetro/bikemetro/internal/config"
	"github.com/bikemetro/bikemetro/internal/data"
	"github.com/bikemetro/bikemetro/internal/database"
	"github.com/bikemetro/bikemetro/internal/model"
	"github.com/bikemetro/bikemetro/internal/repository"
)

func main() {
	all := flag.Bool("all", false, "seed every Línea 1 station with parking room, not just the pilot subset")
	wipe := flag.Bool("clear", false, "delete all stations and slots before seeding")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	stations := repository.NewStationRepo(db)
	slots := repository.NewSlotRepo(db)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if *wipe {
		if err := runInTx(ctx, db, func(tx *sql.Tx) error {
			return stations.ClearTx(ctx, tx)
		}); err != nil {
			log.Fatalf("clear: %v", err)
		}
		log.Println("catalog cleared")
	}

	created, skipped := 0, 0
	for _, st := range data.Line1 {
		if !st.HasParking {
			continue
		}
		if !*all && !st.Pilot {
			continue
		}

		// Idempotent by name: an existing station is left untouched.
		if _, err := stations.GetByName(ctx, st.Name); err == nil {
			skipped++
			continue
		} else if err != sql.ErrNoRows {
			log.Fatalf("lookup %q: %v", st.Name, err)
		}

		if err := runInTx(ctx, db, func(tx *sql.Tx) error {
			s := &model.Station{
				Name:       st.Name,
				Line:       "L1",
				State:      model.StationActive,
				TotalSlots: model.SlotMaxRow * len(model.SlotColumns),
			}
			if err := stations.CreateTx(ctx, tx, s); err != nil {
				return err
			}
			_, err := slots.CreateGridTx(ctx, tx, s.ID)
			return err
		}); err != nil {
			log.Fatalf("seed %q: %v", st.Name, err)
		}
		created++
	}

	log.Printf("done: %d station(s) created, %d already present", created, skipped)
}

func runInTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
