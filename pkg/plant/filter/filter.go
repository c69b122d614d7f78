// Package filter narrows and orders the plant list. Apply is pure: the same
// plants, options and now always give the same output, and the input is never modified.
package filter

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"plantcare/entities"
	"plantcare/pkg/schedule"
)

type Status string

const (
	StatusAll        Status = "all"
	StatusNeedsWater Status = "needs_water"
	StatusOK         Status = "ok"
	StatusNoData     Status = "no_data"
)

type SortBy string

const (
	SortNextWatering SortBy = "next_watering"
	SortAlphabetical SortBy = "alphabetical"
	SortNewest       SortBy = "newest"
	SortLastWatered  SortBy = "last_watered"
)

type Options struct {
	Search string
	Status Status
	// Type is an exact category match; empty passes everything.
	Type entities.PlantType
	Sort SortBy
	// Locale drives alphabetical collation (BCP 47, e.g. "en", "sv").
	Locale string
}

func Defaults() Options {
	return Options{Status: StatusAll, Sort: SortNextWatering}
}

// ParseStatus and ParseSort fall back to the defaults on unknown input.
func ParseStatus(s string) Status {
	switch v := Status(strings.ToLower(strings.TrimSpace(s))); v {
	case StatusNeedsWater, StatusOK, StatusNoData:
		return v
	}
	return StatusAll
}

func ParseSort(s string) SortBy {
	switch v := SortBy(strings.ToLower(strings.TrimSpace(s))); v {
	case SortAlphabetical, SortNewest, SortLastWatered:
		return v
	}
	return SortNextWatering
}

type item struct {
	plant  entities.Plant
	status schedule.Status
}

// Apply runs search, status filter, type filter and sort, in that order.
func Apply(plants []entities.Plant, opts Options, now time.Time) []entities.Plant {
	term := strings.ToLower(strings.TrimSpace(opts.Search))

	items := make([]item, 0, len(plants))
	for i := range plants {
		p := plants[i]
		if term != "" && !matches(&p, term) {
			continue
		}
		st := schedule.Evaluate(&p, now)
		if !keepStatus(&p, st.Urgency, opts.Status) {
			continue
		}
		if opts.Type != "" && p.Type != opts.Type {
			continue
		}
		items = append(items, item{plant: p, status: st})
	}

	slices.SortStableFunc(items, comparator(opts))

	out := make([]entities.Plant, len(items))
	for i := range items {
		out[i] = items[i].plant
	}
	return out
}

func matches(p *entities.Plant, term string) bool {
	for _, f := range []string{p.Nickname, p.Species, string(p.Type)} {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func keepStatus(p *entities.Plant, u schedule.Urgency, s Status) bool {
	switch s {
	case StatusNoData:
		return p.LastWatered == nil
	case StatusNeedsWater:
		return u == schedule.Urgent || u == schedule.Warning
	case StatusOK:
		return u == schedule.OK
	default:
		return true
	}
}

func comparator(opts Options) func(a, b item) int {
	switch opts.Sort {
	case SortAlphabetical:
		tag, err := language.Parse(opts.Locale)
		if err != nil {
			tag = language.English
		}
		// a Collator is not safe for concurrent use
		col := collate.New(tag)
		return func(a, b item) int {
			return col.CompareString(a.plant.DisplayName(), b.plant.DisplayName())
		}
	case SortNewest:
		return func(a, b item) int { return b.plant.CreatedAt.Compare(a.plant.CreatedAt) }
	case SortLastWatered:
		return func(a, b item) int {
			la, lb := a.plant.LastWatered, b.plant.LastWatered
			switch {
			case la == nil && lb == nil:
				return 0
			case la == nil:
				return 1
			case lb == nil:
				return -1
			}
			return lb.Compare(*la)
		}
	default:
		return func(a, b item) int {
			if d := a.status.Urgency.Rank() - b.status.Urgency.Rank(); d != 0 {
				return d
			}
			return cmp.Compare(days(a.status.DaysUntilDue), days(b.status.DaysUntilDue))
		}
	}
}

// never-watered plants lead their tier
func days(d *int) int {
	if d == nil {
		return math.MinInt32
	}
	return *d
}
