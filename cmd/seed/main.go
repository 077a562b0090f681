package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/godilite/clinic-assistant/internal/config"
	"github.com/godilite/clinic-assistant/internal/repository"
	"github.com/godilite/clinic-assistant/internal/schedule"
	"github.com/godilite/clinic-assistant/internal/service"
	dbbuilder "github.com/godilite/clinic-assistant/pkg/database"
)

var specializations = []string{
	"Терапевт",
	"Кардиолог",
	"Хирург",
	"Невролог",
	"Офтальмолог",
	"Отоларинголог",
	"Эндокринолог",
	"Дерматолог",
}

var shifts = []string{"8:00-14:00", "9:00-15:00", "14:00-20:00", "10:00-18:00", ""}

func main() {
	doctors := flag.Int("doctors", 0, "write a fake roster with this many doctors to ROSTER_CSV_PATH first")
	events := flag.Int("events", 200, "number of fake visit outcomes to insert")
	flag.Parse()

	_ = godotenv.Load(".env")
	cfg := config.LoadFromEnv()

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()
	logger = logger.Named("seed")

	gofakeit.Seed(time.Now().UnixNano())

	if *doctors > 0 {
		if err := writeRoster(cfg.RosterCSVPath, *doctors); err != nil {
			logger.Fatal("write roster", zap.Error(err))
		}
		logger.Info("roster written", zap.String("path", cfg.RosterCSVPath), zap.Int("doctors", *doctors))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	roster, err := schedule.NewProvider(schedule.NewFileSource(cfg.RosterCSVPath)).ListDoctors(ctx)
	if err != nil {
		logger.Fatal("read roster", zap.Error(err))
	}
	if len(roster) == 0 {
		logger.Fatal("roster is empty", zap.String("path", cfg.RosterCSVPath))
	}

	db, err := dbbuilder.New(ctx,
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(cfg.DBPath),
		dbbuilder.WithLogger(logger),
	)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	defer db.Close()

	repo := repository.NewRatingEventRepository(db, repository.DialectFor(cfg.DBDriver))
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Fatal("ensure schema", zap.Error(err))
	}
	ratings := service.NewRatingService(repo, logger)

	for i := 0; i < *events; i++ {
		d := roster[gofakeit.Number(0, len(roster)-1)]
		if err := ratings.RecordVisit(ctx, fakeOutcome(d)); err != nil {
			logger.Fatal("insert event", zap.Int("n", i), zap.Error(err))
		}
	}
	logger.Info("seed complete", zap.Int("events", *events), zap.Int("doctors", len(roster)))
}

// fakeOutcome skews ratings upward and leaves about one in five visits unrated.
func fakeOutcome(d schedule.Doctor) service.VisitOutcome {
	userID := int64(gofakeit.Number(100000, 999999999))
	if gofakeit.Number(1, 5) == 1 {
		return service.NotVisited(userID, d.ID, d.Name)
	}
	weights := []float32{1, 1, 2, 4, 6}
	pick, _ := gofakeit.Weighted([]any{1, 2, 3, 4, 5}, weights)
	return service.Rated(userID, d.ID, d.Name, pick.(int))
}

func writeRoster(path string, count int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"ID врача", "ФИО врача", "Специализация"}
	for day := schedule.Monday; day <= schedule.Sunday; day++ {
		header = append(header, day.Key())
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := 1; i <= count; i++ {
		row := []string{
			strconv.Itoa(i),
			fmt.Sprintf("%s %s", gofakeit.LastName(), gofakeit.FirstName()),
			specializations[gofakeit.Number(0, len(specializations)-1)],
		}
		for day := schedule.Monday; day <= schedule.Sunday; day++ {
			hours := ""
			if day < schedule.Saturday {
				hours = shifts[gofakeit.Number(0, len(shifts)-1)]
			}
			row = append(row, hours)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
