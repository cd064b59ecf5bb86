package stresslog

import "time"

const (
	// MinLevel and MaxLevel bound the self-reported stress scale.
	MinLevel = 1
	MaxLevel = 5
)

// Entry is one self-reported stress level.
type Entry struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Timestamp time.Time `json:"timestamp"`
	Level     int       `json:"level"`
	Tags      []string  `json:"tags,omitempty"`
	Note      string    `json:"note,omitempty"`
}

// LevelToPercent maps a 1–5 level onto 0–100.
func LevelToPercent(level float64) float64 {
	pct := (level - MinLevel) / (MaxLevel - MinLevel) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
