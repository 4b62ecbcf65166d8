package session

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/verte-zerg/wpmtest/internal/generator"
	"github.com/verte-zerg/wpmtest/internal/model"
	"github.com/verte-zerg/wpmtest/internal/wordbank"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Step(d time.Duration) { c.t = c.t.Add(d) }

func newTestSession(t *testing.T, scoring model.Scoring, target string) (*Session, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	gen := generator.NewWithSource(rand.NewSource(1))
	cfg := model.Config{Words: 3, Scoring: scoring}
	s := New(cfg, wordbank.Default(), gen, clock.Now)
	if target != "" {
		s.target = target
	}
	return s, clock
}

func typeString(s *Session, text string) {
	for _, r := range text {
		s.Apply(Printable(r))
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestNewSessionStartsActive(t *testing.T) {
	s, _ := newTestSession(t, model.ScoringRound, "")
	if s.State() != Active {
		t.Fatalf("expected active, got %s", s.State())
	}
	if s.Target() == "" {
		t.Fatalf("expected generated target")
	}
	if correct, total := s.Counters(); correct != 0 || total != 0 {
		t.Fatalf("expected zeroed counters, got %d/%d", correct, total)
	}
}

func TestExactTypingCompletesRound(t *testing.T) {
	s, _ := newTestSession(t, model.ScoringRound, "the be to")
	typeString(s, "the be to")
	if s.State() != RoundComplete {
		t.Fatalf("expected round complete, got %s", s.State())
	}
	correct, total := s.Counters()
	if correct != 9 || total != 9 {
		t.Fatalf("expected 9/9, got %d/%d", correct, total)
	}
	s.Apply(Cancel())
	res, ok := s.Result()
	if !ok {
		t.Fatalf("expected result after cancel")
	}
	if !approx(res.Accuracy, 100) {
		t.Fatalf("expected 100%% accuracy, got %v", res.Accuracy)
	}
}

func TestMistypedCharacter(t *testing.T) {
	s, clock := newTestSession(t, model.ScoringRound, "cat")
	s.Apply(Printable('c'))
	s.Apply(Printable('b'))
	if s.State() != Active {
		t.Fatalf("expected active mid-round, got %s", s.State())
	}
	s.Apply(Printable('t'))
	correct, total := s.Counters()
	if correct != 2 || total != 3 {
		t.Fatalf("expected 2/3, got %d/%d", correct, total)
	}
	clock.Step(time.Second)
	s.Apply(Cancel())
	res, _ := s.Result()
	if !approx(res.Accuracy, 200.0/3.0) {
		t.Fatalf("expected ~66.67%% accuracy, got %v", res.Accuracy)
	}
}

func TestCancelWithNothingTyped(t *testing.T) {
	s, clock := newTestSession(t, model.ScoringRound, "")
	clock.Step(3 * time.Second)
	if state := s.Apply(Cancel()); state != Terminated {
		t.Fatalf("expected terminated, got %s", state)
	}
	res, ok := s.Result()
	if !ok {
		t.Fatalf("expected result")
	}
	if res.Total != 0 || res.Accuracy != 0 || res.WPM != 0 {
		t.Fatalf("expected zero result, got %+v", res)
	}
}

func TestResultUnavailableBeforeTermination(t *testing.T) {
	s, _ := newTestSession(t, model.ScoringRound, "")
	if _, ok := s.Result(); ok {
		t.Fatalf("expected no result while active")
	}
}

func TestDeleteOnEmptyIsNoop(t *testing.T) {
	s, _ := newTestSession(t, model.ScoringRound, "cat")
	s.Apply(Delete())
	if s.Typed() != "" || s.State() != Active {
		t.Fatalf("expected empty active session, got %q %s", s.Typed(), s.State())
	}
}

func TestDeleteKeepsRawTotal(t *testing.T) {
	s, clock := newTestSession(t, model.ScoringRound, "cat")
	s.Apply(Printable('x'))
	s.Apply(Delete())
	s.Apply(Printable('c'))
	if s.Typed() != "c" {
		t.Fatalf("expected typed %q, got %q", "c", s.Typed())
	}
	correct, total := s.Counters()
	if correct != 1 || total != 2 {
		t.Fatalf("expected 1/2, got %d/%d", correct, total)
	}
	clock.Step(6 * time.Second)
	s.Apply(Cancel())
	res, _ := s.Result()
	// 2 raw chars over 6s = 0.4 words / 0.1 min.
	if !approx(res.WPM, 4) {
		t.Fatalf("expected final WPM from raw total, got %v", res.WPM)
	}
}

func TestTypingPastTargetNotScored(t *testing.T) {
	s, _ := newTestSession(t, model.ScoringRound, "cat")
	s.Apply(Printable('c'))
	// Buffer already at the end of the target.
	s.typed = []byte("cat")
	s.Apply(Printable('t'))
	if s.Typed() != "catt" {
		t.Fatalf("expected extra char appended, got %q", s.Typed())
	}
	correct, total := s.Counters()
	if correct != 1 || total != 2 {
		t.Fatalf("expected extra chars to count in total only, got %d/%d", correct, total)
	}
	if s.State() != RoundComplete {
		t.Fatalf("expected round complete, got %s", s.State())
	}
}

func TestOtherEventsIgnored(t *testing.T) {
	s, _ := newTestSession(t, model.ScoringRound, "cat")
	s.Apply(Other())
	s.Apply(Event{Kind: EventPrintable, Char: 0x07})
	s.Apply(Printable('é'))
	if s.Typed() != "" {
		t.Fatalf("expected nothing typed, got %q", s.Typed())
	}
	if _, total := s.Counters(); total != 0 {
		t.Fatalf("expected zero total, got %d", total)
	}
}

func TestCountersInvariantUnderRandomInput(t *testing.T) {
	s, _ := newTestSession(t, model.ScoringRound, "")
	rnd := rand.New(rand.NewSource(99))
	for i := 0; i < 5000; i++ {
		if rnd.Intn(4) == 0 {
			s.Apply(Delete())
		} else {
			s.Apply(Printable(rune(' ' + rnd.Intn(95))))
		}
		if s.State() == RoundComplete {
			s.Advance()
		}
		correct, total := s.Counters()
		if correct < 0 || correct > total {
			t.Fatalf("invariant broken: %d/%d", correct, total)
		}
		if len(s.Typed()) > len(s.Target()) {
			t.Fatalf("typed %q longer than target %q while active", s.Typed(), s.Target())
		}
	}
}

func TestRoundCompleteIgnoresKeysAndFreezesWPM(t *testing.T) {
	s, clock := newTestSession(t, model.ScoringRound, "cat")
	clock.Step(time.Second)
	typeString(s, "cat")
	frozen := s.LiveWPM()
	clock.Step(time.Minute)
	if got := s.LiveWPM(); got != frozen {
		t.Fatalf("expected frozen WPM %v, got %v", frozen, got)
	}
	s.Apply(Printable('z'))
	s.Apply(Delete())
	if s.Typed() != "cat" || s.State() != RoundComplete {
		t.Fatalf("expected completed round untouched, got %q %s", s.Typed(), s.State())
	}
}

func TestAdvanceStartsFreshRound(t *testing.T) {
	s, clock := newTestSession(t, model.ScoringRound, "cat")
	if s.Round() != 1 {
		t.Fatalf("expected round 1, got %d", s.Round())
	}
	clock.Step(6 * time.Second)
	typeString(s, "cbt")
	if s.Round() != 1 {
		t.Fatalf("expected completed round to stay current until advance, got %d", s.Round())
	}
	s.Advance()
	if s.Round() != 2 {
		t.Fatalf("expected round 2 after advance, got %d", s.Round())
	}
	if s.State() != Active {
		t.Fatalf("expected active after advance, got %s", s.State())
	}
	if s.Typed() != "" {
		t.Fatalf("expected typed reset, got %q", s.Typed())
	}
	if correct, total := s.Counters(); correct != 0 || total != 0 {
		t.Fatalf("expected counters reset, got %d/%d", correct, total)
	}
	rounds := s.Rounds()
	if len(rounds) != 1 {
		t.Fatalf("expected 1 recorded round, got %d", len(rounds))
	}
	r := rounds[0]
	if r.Index != 1 || r.Target != "cat" || r.Correct != 2 || r.Total != 3 || r.Duration != 6*time.Second {
		t.Fatalf("unexpected round record: %+v", r)
	}
	if !approx(r.WPM, 6) {
		t.Fatalf("expected 6 WPM, got %v", r.WPM)
	}
	if snap := s.Snapshot(); snap.Round != 2 || snap.WPM != 0 {
		t.Fatalf("unexpected snapshot after advance: %+v", snap)
	}
}

func TestAdvanceOutsideRoundCompleteIsNoop(t *testing.T) {
	s, _ := newTestSession(t, model.ScoringRound, "cat")
	s.Apply(Printable('c'))
	s.Advance()
	if s.Typed() != "c" || len(s.Rounds()) != 0 {
		t.Fatalf("expected advance to be ignored while active")
	}
}

func TestRoundScoringDiscardsCompletedRounds(t *testing.T) {
	s, clock := newTestSession(t, model.ScoringRound, "cat")
	typeString(s, "cat")
	s.Advance()
	s.target = "dog"
	clock.Step(6 * time.Second)
	s.Apply(Printable('x'))
	s.Apply(Cancel())
	res, _ := s.Result()
	if res.Scoring != model.ScoringRound {
		t.Fatalf("expected round scoring, got %q", res.Scoring)
	}
	if res.Correct != 0 || res.Total != 1 || res.Accuracy != 0 {
		t.Fatalf("expected only the active round, got %+v", res)
	}
	if len(res.Rounds) != 1 {
		t.Fatalf("expected history of 1 round, got %d", len(res.Rounds))
	}
}

func TestSessionScoringAggregatesRounds(t *testing.T) {
	s, clock := newTestSession(t, model.ScoringSession, "cat")
	clock.Step(3 * time.Second)
	typeString(s, "cat")
	clock.Step(5 * time.Second) // pause, not counted
	s.Advance()
	s.target = "dog"
	clock.Step(3 * time.Second)
	typeString(s, "dx")
	s.Apply(Cancel())
	res, _ := s.Result()
	if res.Correct != 4 || res.Total != 5 {
		t.Fatalf("expected 4/5 across rounds, got %d/%d", res.Correct, res.Total)
	}
	if !approx(res.Accuracy, 80) {
		t.Fatalf("expected 80%% accuracy, got %v", res.Accuracy)
	}
	// 5 chars = 1 word over 6s of typing.
	if !approx(res.WPM, 10) {
		t.Fatalf("expected 10 WPM, got %v", res.WPM)
	}
}

func TestCancelDuringRoundCompleteRecordsRound(t *testing.T) {
	s, clock := newTestSession(t, model.ScoringSession, "cat")
	clock.Step(6 * time.Second)
	typeString(s, "cat")
	clock.Step(time.Second)
	s.Apply(Cancel())
	res, ok := s.Result()
	if !ok {
		t.Fatalf("expected result")
	}
	if len(res.Rounds) != 1 || res.Total != 3 {
		t.Fatalf("expected completed round counted once, got %+v", res)
	}
	if !approx(res.WPM, 6) {
		t.Fatalf("expected 6 WPM, got %v", res.WPM)
	}
}

func TestTerminatedIgnoresInput(t *testing.T) {
	s, _ := newTestSession(t, model.ScoringRound, "cat")
	s.Apply(Cancel())
	s.Apply(Printable('c'))
	s.Advance()
	if s.State() != Terminated || s.Typed() != "" {
		t.Fatalf("expected terminated session to ignore input")
	}
}

func TestPrintableClassification(t *testing.T) {
	if ev := Printable(' '); ev.Kind != EventPrintable || ev.Char != ' ' {
		t.Fatalf("expected space to be printable, got %+v", ev)
	}
	if ev := Printable('~'); ev.Kind != EventPrintable {
		t.Fatalf("expected tilde to be printable")
	}
	for _, r := range []rune{0x1f, 0x7f, 'é', '\n'} {
		if ev := Printable(r); ev.Kind != EventOther {
			t.Fatalf("expected %q to be other, got %s", r, ev.Kind)
		}
	}
}
