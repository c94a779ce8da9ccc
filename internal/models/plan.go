package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// DateLayout is the wire and storage format of a gathering date.
	DateLayout = "2006-01-02"
	// TimeLayout is the wire and storage format of a gathering start time.
	TimeLayout = "15:04"
)

// Plan is a proposed event owned by one user, optionally tied to a game.
// A PlayerLimit of 0 means the plan has no cap.
type Plan struct {
	ID          uuid.UUID
	Name        string
	Description string
	IsPrivate   bool
	PlayerLimit int
	Owner       *User
	Game        *Game
	Gatherings  []Gathering
}

// Gathering is one dated occurrence of a plan with its own participant roster.
type Gathering struct {
	ID           uuid.UUID
	PlanID       uuid.UUID
	Date         time.Time // UTC midnight
	StartTime    string    // HH:MM
	Participants []User
}

// HasParticipant reports whether userID is on the gathering's roster.
func (g *Gathering) HasParticipant(userID uuid.UUID) bool {
	for i := range g.Participants {
		if g.Participants[i].ID == userID {
			return true
		}
	}
	return false
}

// Joinable reports whether one more participant fits under limit.
func (g *Gathering) Joinable(limit int) bool {
	return limit == 0 || len(g.Participants) < limit
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// ParseStartTime normalises an HH:MM or HH:MM:SS start time to HH:MM.
func ParseStartTime(s string) (string, error) {
	for _, layout := range []string{TimeLayout, "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(TimeLayout), nil
		}
	}
	return "", fmt.Errorf("invalid start time %q", s)
}
