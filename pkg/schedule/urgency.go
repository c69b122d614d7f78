package schedule

import (
	"time"

	"plantcare/entities"
)

type Urgency string

const (
	Urgent  Urgency = "urgent"
	Warning Urgency = "warning"
	OK      Urgency = "ok"
)

// Rank orders tiers for sorting: Urgent < Warning < OK.
func (u Urgency) Rank() int {
	switch u {
	case Urgent:
		return 0
	case Warning:
		return 1
	default:
		return 2
	}
}

// FrequencyDays is the advice frequency, or the weekly default.
func FrequencyDays(p *entities.Plant) int {
	if p.WateringAdvice != nil && p.WateringAdvice.FrequencyDays > 0 {
		return p.WateringAdvice.FrequencyDays
	}
	return DefaultFrequencyDays
}

// Status is everything the list, the badges and the reminder need about one plant.
type Status struct {
	Urgency      Urgency    `json:"urgency"`
	NextDue      *time.Time `json:"next_due"`
	DaysUntilDue *int       `json:"days_until_due"`
}

// Evaluate computes the due date, the day distance and the tier in one pass.
// Classify, the filter engine and the reminder scheduler all go through here.
// Day addition happens in now's zone: timestamps reloaded from the store carry
// only a fixed offset, which would shift the due date across a DST change.
func Evaluate(p *entities.Plant, now time.Time) Status {
	last := p.LastWatered
	if last != nil {
		lw := last.In(now.Location())
		last = &lw
	}
	due := NextDueDate(last, FrequencyDays(p))
	d := DaysUntilDue(due, now)
	return Status{Urgency: tier(d), NextDue: due, DaysUntilDue: d}
}

// Classify maps a plant to its urgency tier.
func Classify(p *entities.Plant, now time.Time) Urgency {
	return Evaluate(p, now).Urgency
}

func tier(d *int) Urgency {
	switch {
	case d == nil, *d <= 0:
		return Urgent
	case *d == 1:
		return Warning
	default:
		return OK
	}
}
