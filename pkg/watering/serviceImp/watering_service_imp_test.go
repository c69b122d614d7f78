package serviceImp

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"plantcare/database"
	"plantcare/entities"
	"plantcare/pkg/plant"
	plantrepo "plantcare/pkg/plant/repositoryImp"
	"plantcare/pkg/platform/logger"
	"plantcare/pkg/watering/repositoryImp"
	"plantcare/pkg/watering/service"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Add(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func setup(t *testing.T, clk *clock) (service.WateringService, *gorm.DB) {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "water.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	plants := plantrepo.New(db, nil)
	if err := plants.Create(context.Background(), &entities.Plant{ID: "fern", Type: entities.PlantFern}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return NewWateringService(repositoryImp.New(db, nil), plants, logger.Nop(), clk.Now), db
}

func TestMarkWateredWritesLogAndSummaryWithSameInstant(t *testing.T) {
	clk := &clock{t: time.Date(2025, 6, 1, 8, 30, 0, 123456789, time.UTC)}
	svc, db := setup(t, clk)

	res, err := svc.MarkWatered(context.Background(), "fern")
	if err != nil {
		t.Fatalf("water: %v", err)
	}
	if !res.Watered || res.JustWateredMs != 2500 {
		t.Fatalf("result: %+v", res)
	}

	var p entities.Plant
	db.First(&p, "id = ?", "fern")
	var logs []entities.WateringLog
	db.Find(&logs)
	if len(logs) != 1 {
		t.Fatalf("logs: %d", len(logs))
	}
	if p.LastWatered == nil || !p.LastWatered.Equal(logs[0].WateredAt) || !p.LastWatered.Equal(clk.Now()) {
		t.Fatalf("summary %v and log %v disagree", p.LastWatered, logs[0].WateredAt)
	}
}

func TestMarkWateredTwiceSameDayIsNoop(t *testing.T) {
	clk := &clock{t: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)}
	svc, db := setup(t, clk)
	ctx := context.Background()

	first, _ := svc.MarkWatered(ctx, "fern")
	clk.Add(3 * time.Hour)
	second, err := svc.MarkWatered(ctx, "fern")
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if second.Watered || !second.LastWatered.Equal(*first.LastWatered) {
		t.Fatalf("second call should be a no-op: %+v", second)
	}
	var n int64
	db.Model(&entities.WateringLog{}).Count(&n)
	if n != 1 {
		t.Fatalf("logs: %d", n)
	}

	clk.Add(24 * time.Hour)
	third, _ := svc.MarkWatered(ctx, "fern")
	if !third.Watered {
		t.Fatalf("next day should water")
	}
	hist, _ := svc.History(ctx, "fern")
	if len(hist) != 2 || !hist[0].WateredAt.After(hist[1].WateredAt) {
		t.Fatalf("history newest first: %+v", hist)
	}
}

func TestMarkWateredGuards(t *testing.T) {
	svc, _ := setup(t, &clock{t: time.Now()})
	res, err := svc.MarkWatered(context.Background(), "")
	if err != nil || res.Watered {
		t.Fatalf("empty id: %+v %v", res, err)
	}
	if _, err := svc.MarkWatered(context.Background(), "ghost"); !errors.Is(err, plant.ErrNotFound) {
		t.Fatalf("unknown plant: %v", err)
	}
}

type blockingRepo struct {
	entered chan struct{}
	release chan struct{}
	calls   int
}

func (b *blockingRepo) Water(ctx context.Context, plantID string, at time.Time) (*entities.WateringLog, error) {
	b.calls++
	close(b.entered)
	<-b.release
	return &entities.WateringLog{PlantID: plantID, WateredAt: at}, nil
}
func (b *blockingRepo) ListByPlant(context.Context, string) ([]entities.WateringLog, error) {
	return nil, nil
}
func (b *blockingRepo) ListAll(context.Context) ([]entities.WateringLog, error) { return nil, nil }

type onePlant struct{}

func (onePlant) FindByID(_ context.Context, id string) (*entities.Plant, error) {
	return &entities.Plant{ID: id, Type: entities.PlantCactus}, nil
}

func TestMarkWateredInFlightIsNoop(t *testing.T) {
	repo := &blockingRepo{entered: make(chan struct{}), release: make(chan struct{})}
	svc := NewWateringService(repo, onePlant{}, logger.Nop(), nil)

	done := make(chan *service.Result)
	go func() {
		res, _ := svc.MarkWatered(context.Background(), "cactus")
		done <- res
	}()
	<-repo.entered

	res, err := svc.MarkWatered(context.Background(), "cactus")
	if err != nil || res.Watered {
		t.Fatalf("concurrent call should be a no-op: %+v %v", res, err)
	}
	close(repo.release)
	if first := <-done; !first.Watered {
		t.Fatalf("first call should water")
	}
	if repo.calls != 1 {
		t.Fatalf("repo calls: %d", repo.calls)
	}
}
