// Package session implements the typing state machine: rounds, counters,
// timing and the final result.
package session

import (
	"time"

	"github.com/verte-zerg/wpmtest/internal/generator"
	"github.com/verte-zerg/wpmtest/internal/model"
	"github.com/verte-zerg/wpmtest/internal/stats"
	"github.com/verte-zerg/wpmtest/internal/wordbank"
)

// State is the session lifecycle state.
type State int

const (
	// Active accepts input for the current round.
	Active State = iota
	// RoundComplete holds the finished round until Advance is called.
	RoundComplete
	// Terminated is final; Result is available.
	Terminated
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case RoundComplete:
		return "round-complete"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Clock returns the current time.
type Clock func() time.Time

// Snapshot is the render input for one frame.
type Snapshot struct {
	State   State
	Round   int
	Target  string
	Typed   string
	WPM     float64
	Correct int
	Total   int
}

// Session owns the active round and its counters.
type Session struct {
	bank    *wordbank.Bank
	gen     *generator.Generator
	now     Clock
	words   int
	scoring model.Scoring

	state       State
	target      string
	typed       []byte
	startedAt   time.Time
	completedAt time.Time
	correct     int
	total       int

	rounds []model.RoundResult
	result model.FinalResult
}

// New starts a session with a fresh round. A nil clock uses time.Now.
func New(cfg model.Config, bank *wordbank.Bank, gen *generator.Generator, now Clock) *Session {
	if now == nil {
		now = time.Now
	}
	words := cfg.Words
	if words <= 0 {
		words = generator.DefaultWords
	}
	scoring := cfg.Scoring
	if scoring == "" {
		scoring = model.ScoringRound
	}
	s := &Session{
		bank:    bank,
		gen:     gen,
		now:     now,
		words:   words,
		scoring: scoring,
	}
	s.newRound()
	return s
}

// Apply feeds one event to the state machine and returns the new state.
func (s *Session) Apply(ev Event) State {
	switch s.state {
	case Active:
		s.applyActive(ev)
	case RoundComplete:
		if ev.Kind == EventCancel {
			s.finish()
		}
	}
	return s.state
}

func (s *Session) applyActive(ev Event) {
	switch ev.Kind {
	case EventCancel:
		s.finish()
	case EventDelete:
		if len(s.typed) > 0 {
			s.typed = s.typed[:len(s.typed)-1]
		}
	case EventPrintable:
		if !IsPrintable(rune(ev.Char)) {
			return
		}
		s.typed = append(s.typed, ev.Char)
		s.total++
		pos := len(s.typed) - 1
		if pos < len(s.target) && s.target[pos] == ev.Char {
			s.correct++
		}
		if len(s.typed) >= len(s.target) {
			s.state = RoundComplete
			s.completedAt = s.now()
		}
	}
}

// Advance records the completed round and starts the next one. It is a
// no-op outside RoundComplete.
func (s *Session) Advance() {
	if s.state != RoundComplete {
		return
	}
	s.recordRound()
	s.newRound()
}

// LiveWPM is the current round's rate over the typed text. It stops moving
// once the round completes.
func (s *Session) LiveWPM() float64 {
	end := s.now()
	if s.state != Active {
		end = s.completedAt
	}
	return stats.WPM(s.startedAt, end, len(s.typed))
}

// Snapshot returns the state needed to draw one frame.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		State:   s.state,
		Round:   s.Round(),
		Target:  s.target,
		Typed:   string(s.typed),
		WPM:     s.LiveWPM(),
		Correct: s.correct,
		Total:   s.total,
	}
}

// State returns the lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Round returns the 1-based number of the current round.
func (s *Session) Round() int {
	return len(s.rounds) + 1
}

// Target returns the current round's phrase.
func (s *Session) Target() string {
	return s.target
}

// Typed returns the current round's typed text.
func (s *Session) Typed() string {
	return string(s.typed)
}

// Counters returns the current round's correct and total counts.
func (s *Session) Counters() (correct, total int) {
	return s.correct, s.total
}

// Rounds returns the completed rounds.
func (s *Session) Rounds() []model.RoundResult {
	out := make([]model.RoundResult, len(s.rounds))
	copy(out, s.rounds)
	return out
}

// Result returns the final result once the session has terminated.
func (s *Session) Result() (model.FinalResult, bool) {
	if s.state != Terminated {
		return model.FinalResult{}, false
	}
	return s.result, true
}

func (s *Session) newRound() {
	s.state = Active
	s.target = s.gen.Target(s.bank, s.words)
	s.typed = nil
	s.correct = 0
	s.total = 0
	s.startedAt = s.now()
	s.completedAt = time.Time{}
}

func (s *Session) recordRound() {
	s.rounds = append(s.rounds, model.RoundResult{
		Index:    len(s.rounds) + 1,
		Target:   s.target,
		WPM:      stats.WPM(s.startedAt, s.completedAt, s.total),
		Accuracy: stats.Accuracy(s.correct, s.total),
		Correct:  s.correct,
		Total:    s.total,
		Duration: s.completedAt.Sub(s.startedAt),
	})
}

func (s *Session) finish() {
	end := s.now()
	completed := s.state == RoundComplete
	if completed {
		end = s.completedAt
	}

	res := model.FinalResult{Scoring: s.scoring}
	switch s.scoring {
	case model.ScoringSession:
		chars, correct, elapsed := s.total, s.correct, end.Sub(s.startedAt)
		for _, r := range s.rounds {
			chars += r.Total
			correct += r.Correct
			elapsed += r.Duration
		}
		res.WPM = stats.RateFor(chars, elapsed)
		res.Accuracy = stats.Accuracy(correct, chars)
		res.Correct = correct
		res.Total = chars
	default:
		res.WPM = stats.WPM(s.startedAt, end, s.total)
		res.Accuracy = stats.Accuracy(s.correct, s.total)
		res.Correct = s.correct
		res.Total = s.total
	}

	if completed {
		s.recordRound()
	}
	res.Rounds = s.Rounds()
	s.result = res
	s.state = Terminated
}
