package serviceImp

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"plantcare/database"
	"plantcare/entities"
	"plantcare/pkg/advice"
	"plantcare/pkg/ai"
	"plantcare/pkg/climate"
	"plantcare/pkg/plant"
	"plantcare/pkg/plant/repository"
	plantrepo "plantcare/pkg/plant/repositoryImp"
	"plantcare/pkg/platform/logger"
	proxy "plantcare/pkg/proxy/service"
	settingsrepo "plantcare/pkg/settings/repositoryImp"
)

type fakeAdvisor struct {
	calls atomic.Int32
	reply *ai.Advice
	err   error
	last  proxy.AdviceRequest
	// runs inside the call, before the reply is returned
	during func(call int32)
}

func (f *fakeAdvisor) Advise(_ context.Context, req proxy.AdviceRequest) (*ai.Advice, error) {
	n := f.calls.Add(1)
	f.last = req
	if f.during != nil {
		f.during(n)
	}
	return f.reply, f.err
}

var january = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	plants  repository.PlantRepository
	advisor *fakeAdvisor
	svc     *adviceSvc
}

func setup(t *testing.T, adv *fakeAdvisor, country, city string) fixture {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "advice.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	plants := plantrepo.New(db, nil)
	settings := settingsrepo.New(db, nil)
	ctx := context.Background()
	if country != "" {
		if err := settings.Save(ctx, &entities.UserSettings{Location: entities.Location{Mode: entities.LocationAuto, Country: country, City: city}}); err != nil {
			t.Fatalf("settings: %v", err)
		}
	}
	for _, p := range []*entities.Plant{
		{ID: "cactus", Type: entities.PlantCactus, Species: "Opuntia"},
		{ID: "odd", Type: "Bonsai"},
	} {
		if err := plants.Create(ctx, p); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	svc := NewAdviceService(plants, settings, adv, nil, logger.Nop(), func() time.Time { return january }).(*adviceSvc)
	return fixture{plants: plants, advisor: adv, svc: svc}
}

func TestAcquireSuccessBuildsMetadata(t *testing.T) {
	adv := &fakeAdvisor{reply: &ai.Advice{Advice: "Water lightly.", FrequencyDays: 10, BestTime: entities.BestTimeEvening, Amount: entities.AmountLight}}
	f := setup(t, adv, "Argentina", "Buenos Aires")

	got, err := f.svc.Acquire(context.Background(), "cactus", false)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if got.IsFallback || got.FrequencyDays != 10 || got.Season != entities.SeasonSummer ||
		got.Location != "Buenos Aires, Argentina" || !got.GeneratedAt.Equal(january) {
		t.Fatalf("advice: %+v", got)
	}
	if adv.last.PlantType != "Cactus" || adv.last.Species != "Opuntia" || adv.last.City != "Buenos Aires" {
		t.Fatalf("request: %+v", adv.last)
	}
	stored, _ := f.plants.FindByID(context.Background(), "cactus")
	if stored.WateringAdvice == nil || stored.WateringAdvice.Advice != "Water lightly." {
		t.Fatalf("not persisted: %+v", stored.WateringAdvice)
	}
}

func TestAcquireCachedMakesNoCall(t *testing.T) {
	adv := &fakeAdvisor{reply: &ai.Advice{Advice: "x", FrequencyDays: 4}}
	f := setup(t, adv, "France", "")
	ctx := context.Background()
	first, _ := f.svc.Acquire(ctx, "cactus", false)
	second, err := f.svc.Acquire(ctx, "cactus", false)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if adv.calls.Load() != 1 || !second.GeneratedAt.Equal(first.GeneratedAt) {
		t.Fatalf("cached advice must not hit the advisor: calls=%d", adv.calls.Load())
	}
	if _, err := f.svc.Acquire(ctx, "cactus", true); err != nil || adv.calls.Load() != 2 {
		t.Fatalf("forced acquire: calls=%d err=%v", adv.calls.Load(), err)
	}
}

func TestAcquireUpstreamFailureFallsBack(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"http 500", &ai.StatusError{Status: 500, Body: `{"error":"boom"}`}},
		{"rate limited", &ai.StatusError{Status: 429}},
		{"malformed", ai.ErrMalformed},
		{"timeout", context.DeadlineExceeded},
	}
	want := climate.DefaultFallbacks().Lookup(entities.PlantCactus)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := setup(t, &fakeAdvisor{err: tc.err}, "Norway", "")
			got, err := f.svc.Acquire(context.Background(), "cactus", false)
			if err != nil {
				t.Fatalf("fallback must not error: %v", err)
			}
			if !got.IsFallback || got.FrequencyDays != want.FrequencyDays || got.Advice != want.Advice ||
				got.Season != entities.SeasonWinter || got.Location != "Norway" {
				t.Fatalf("fallback advice: %+v", got)
			}
			stored, _ := f.plants.FindByID(context.Background(), "cactus")
			if stored.WateringAdvice == nil || !stored.WateringAdvice.IsFallback {
				t.Fatalf("fallback not persisted")
			}
		})
	}
}

func TestAcquireUnknownTypeUsesGenericFallback(t *testing.T) {
	f := setup(t, &fakeAdvisor{err: errors.New("offline")}, "", "")
	got, err := f.svc.Acquire(context.Background(), "odd", false)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if got.FrequencyDays != climate.DefaultFallbacks().Lookup("nope").FrequencyDays || got.Location != "" {
		t.Fatalf("generic fallback: %+v", got)
	}
}

type failingStore struct{ PlantStore }

func (failingStore) SetAdvice(context.Context, string, *entities.WateringAdvice) error {
	return errors.New("database is locked")
}

func TestPersistFailureReachesErrorState(t *testing.T) {
	f := setup(t, &fakeAdvisor{err: errors.New("offline")}, "", "")
	f.svc.plants = failingStore{f.plants}

	snap := advice.NewSession(f.svc, "cactus").Start(context.Background())
	if snap.State != advice.StateError || snap.Err == nil {
		t.Fatalf("snap: %+v", snap)
	}
}

func TestAcquireClampsAdvisorFrequencyBeforeStoring(t *testing.T) {
	cases := map[int]int{45: climate.MaxFrequencyDays, 0: climate.MinFrequencyDays, -3: climate.MinFrequencyDays, 12: 12}
	for in, want := range cases {
		f := setup(t, &fakeAdvisor{reply: &ai.Advice{Advice: "Soak.", FrequencyDays: in}}, "", "")
		got, err := f.svc.Acquire(context.Background(), "cactus", false)
		if err != nil {
			t.Fatalf("%d: acquire: %v", in, err)
		}
		stored, err := f.plants.FindByID(context.Background(), "cactus")
		if err != nil {
			t.Fatalf("%d: find: %v", in, err)
		}
		if got.FrequencyDays != want || stored.WateringAdvice == nil || stored.WateringAdvice.FrequencyDays != want {
			t.Fatalf("%d: returned=%d stored=%+v want=%d", in, got.FrequencyDays, stored.WateringAdvice, want)
		}
	}
}

func TestAcquireRegeneratesWhenPlantEditedMidFlight(t *testing.T) {
	adv := &fakeAdvisor{reply: &ai.Advice{Advice: "Water.", FrequencyDays: 6}}
	f := setup(t, adv, "", "")
	ctx := context.Background()
	adv.during = func(call int32) {
		if call != 1 {
			return
		}
		sp := "Saguaro"
		if err := f.plants.Update(ctx, "cactus", repository.Patch{Species: &sp, ClearAdvice: true}); err != nil {
			t.Errorf("edit: %v", err)
		}
	}

	if _, err := f.svc.Acquire(ctx, "cactus", false); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if adv.calls.Load() != 2 || adv.last.Species != "Saguaro" {
		t.Fatalf("calls=%d last=%+v", adv.calls.Load(), adv.last)
	}
	stored, _ := f.plants.FindByID(ctx, "cactus")
	if stored.Species != "Saguaro" || stored.WateringAdvice == nil {
		t.Fatalf("stored: %+v", stored)
	}
}

func TestCachedReportsStoredAdvice(t *testing.T) {
	f := setup(t, &fakeAdvisor{reply: &ai.Advice{Advice: "x", FrequencyDays: 4}}, "", "")
	ctx := context.Background()
	if adv, err := f.svc.Cached(ctx, "cactus"); err != nil || adv != nil {
		t.Fatalf("before: %+v %v", adv, err)
	}
	_, _ = f.svc.Acquire(ctx, "cactus", false)
	if adv, err := f.svc.Cached(ctx, "cactus"); err != nil || adv == nil || adv.FrequencyDays != 4 {
		t.Fatalf("after: %+v %v", adv, err)
	}
	if _, err := f.svc.Cached(ctx, ""); !errors.Is(err, plant.ErrNotFound) {
		t.Fatalf("empty id: %v", err)
	}
}
