// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Scoring selects which rounds contribute to the final result.
type Scoring string

const (
	// ScoringRound reports only the round active at termination.
	ScoringRound Scoring = "round"
	// ScoringSession aggregates every round of the session.
	ScoringSession Scoring = "session"
)

// ParseScoring maps a config or flag value to a Scoring mode.
func ParseScoring(value string) (Scoring, error) {
	switch Scoring(strings.ToLower(strings.TrimSpace(value))) {
	case ScoringRound:
		return ScoringRound, nil
	case ScoringSession:
		return ScoringSession, nil
	default:
		return "", fmt.Errorf("unknown scoring %q (want %q or %q)", value, ScoringRound, ScoringSession)
	}
}

// Config defines practice settings.
type Config struct {
	Words   int
	Pause   time.Duration
	Tick    time.Duration
	Scoring Scoring
	Seed    int64
}

// RoundResult captures a completed round. It lives only in memory.
type RoundResult struct {
	Index    int
	Target   string
	WPM      float64
	Accuracy float64
	Correct  int
	Total    int
	Duration time.Duration
}

// FinalResult is produced once when the session terminates.
type FinalResult struct {
	WPM      float64
	Accuracy float64
	Correct  int
	Total    int
	Scoring  Scoring
	Rounds   []RoundResult
}
