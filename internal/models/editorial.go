package models

import "time"

// PublicationSlot is a recurring calendar position configured by the
// editorial team. The engine consumes slots, it never mutates them.
type PublicationSlot struct {
	ID       string       `json:"id" bson:"_id"`
	Label    string       `json:"label" bson:"label"`
	Day      time.Weekday `json:"day" bson:"day"`
	Channels []Channel    `json:"channels" bson:"channels"`
	Pillar   string       `json:"pillar,omitempty" bson:"pillar,omitempty"` // optional affinity
}

// EditorialDNA is the configured set of content pillars used to
// balance topical diversity over time.
type EditorialDNA struct {
	Pillars []string `json:"pillars" bson:"pillars"`
}

// DefaultPillarCount is assumed when no DNA is configured
const DefaultPillarCount = 6

// PillarCount returns the number of recognized pillars
func (d *EditorialDNA) PillarCount() int {
	if d == nil || len(d.Pillars) == 0 {
		return DefaultPillarCount
	}
	return len(d.Pillars)
}

// Constraints bound both the auto-scheduler and the calendar validator
type Constraints struct {
	MaxHeavyPerWeek     int `json:"max_heavy_per_week"`
	CoresPerDay         int `json:"cores_per_day"`
	NoRepeatProjectDays int `json:"no_repeat_project_days"`
	NoRepeatFormatDays  int `json:"no_repeat_format_days"`
	BufferTarget        int `json:"buffer_target"`
	HorizonDays         int `json:"horizon_days"`
}

// DefaultConstraints returns the stock editorial rules
func DefaultConstraints() Constraints {
	return Constraints{
		MaxHeavyPerWeek:     3,
		CoresPerDay:         1,
		NoRepeatProjectDays: 2,
		NoRepeatFormatDays:  2,
		BufferTarget:        3,
		HorizonDays:         14,
	}
}
