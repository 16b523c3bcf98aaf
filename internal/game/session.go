// internal/game/session.go
//
// Session runs one player's cursed-dice run.
// Responsibilities:
//   - Own the bus, dice, scorecard, progression controller, phase machine
//     and the active blessing for a run.
//   - Drive the turn loop: rolling -> selecting -> scoring -> transitioning.
//   - Apply mode twists (cursed die, locked categories) each hand.
//   - Run the mode timer and treat expiry as a failed run.
//   - Offer blessings at each cleared mode boundary.
//
// Notes:
//   - A Session is single-writer. Callers serialise access (the HTTP layer
//     holds a per-run mutex).
//   - Verbs follow the engine convention: false / -1 / nil on a failed
//     precondition, never an error. Only ChooseBlessing returns errors.
package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/robalobadob/cursed-dice/internal/blessing"
	"github.com/robalobadob/cursed-dice/internal/dice"
	"github.com/robalobadob/cursed-dice/internal/events"
	"github.com/robalobadob/cursed-dice/internal/fsm"
	"github.com/robalobadob/cursed-dice/internal/progression"
	"github.com/robalobadob/cursed-dice/internal/scorecard"
	"github.com/robalobadob/cursed-dice/internal/scoring"
)

var (
	ErrNotChoosing    = errors.New("not choosing a blessing")
	ErrBlessingLocked = errors.New("blessing is not unlocked")
)

// Outcome is how a run ended.
type Outcome string

const (
	OutcomeNone   Outcome = ""
	OutcomeWon    Outcome = "won"
	OutcomeFailed Outcome = "failed"
	OutcomeTimeUp Outcome = "time-up"
)

// Run-ended reasons carried by run:ended.
const (
	ReasonComplete  = "complete"
	ReasonThreshold = "threshold"
	ReasonTime      = "time"
)

// Options configure a Session. Zero values pick sensible defaults.
type Options struct {
	ID       string
	Modes    progression.File
	Source   dice.Source
	Registry *blessing.Registry
	// Unlocked are blessings the player already earned in earlier runs.
	Unlocked        []blessing.ID
	SixthDieCharges int
	Clock           Clock
	Logger          *zerolog.Logger
	Bus             *events.Bus
}

// Session is one run.
type Session struct {
	id       string
	bus      *events.Bus
	machine  *fsm.Machine
	dice     *dice.Dice
	card     *scorecard.Scorecard
	prog     *progression.Controller
	registry *blessing.Registry
	active   blessing.Blessing
	unlocked map[blessing.ID]bool
	charges  int
	locked   map[scoring.CategoryID]bool
	timer    *Timer
	clock    Clock
	log      zerolog.Logger
	outcome  Outcome
	turn     int
}

// NewSession wires a run in the idle phase. Call Start to play.
func NewSession(opts Options) *Session {
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.Source == nil {
		opts.Source = dice.NewSource()
	}
	if opts.Registry == nil {
		opts.Registry = blessing.Defaults()
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.Bus == nil {
		opts.Bus = events.NewBus()
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	s := &Session{
		id:       opts.ID,
		bus:      opts.Bus,
		machine:  fsm.New(),
		dice:     dice.New(opts.Source, opts.Bus),
		card:     scorecard.New(opts.Bus),
		prog:     progression.NewController(opts.Modes, opts.Source, opts.Bus),
		registry: opts.Registry,
		unlocked: make(map[blessing.ID]bool),
		charges:  opts.SixthDieCharges,
		timer:    NewTimer(0),
		clock:    opts.Clock,
		log:      logger.With().Str("run", opts.ID).Logger(),
	}
	for _, id := range opts.Unlocked {
		if s.registry.Has(id) {
			s.unlocked[id] = true
		}
	}

	for _, st := range fsm.States() {
		s.machine.OnEnter(st, s.onEnter)
	}
	s.bus.Subscribe(blessing.ExpansionEnabled, func(events.Event) {
		s.card.EnableSpecialSection()
	})
	s.bus.Subscribe(events.ScoreCategory, s.onScoreRequest)
	return s
}

func (s *Session) onEnter(from, to fsm.State) {
	s.log.Debug().Str("from", from.String()).Str("to", to.String()).Msg("state changed")
	s.bus.Publish(events.StateChanged, events.StateChangedPayload{From: from.String(), To: to.String()})
}

// onScoreRequest lets a presentation layer score by publishing score:category.
func (s *Session) onScoreRequest(e events.Event) {
	p, ok := e.Payload.(events.ScoreCategoryPayload)
	if !ok {
		return
	}
	s.Score(scoring.CategoryID(p.CategoryID))
}

func (s *Session) ID() string                   { return s.id }
func (s *Session) Bus() *events.Bus             { return s.bus }
func (s *Session) State() fsm.State             { return s.machine.Current() }
func (s *Session) Outcome() Outcome             { return s.outcome }
func (s *Session) Mode() progression.ModeConfig { return s.prog.Current() }
func (s *Session) Cumulative() int              { return s.prog.Cumulative() }
func (s *Session) ModesCleared() int            { return s.prog.ModesCleared() }
func (s *Session) Total() int                   { return s.card.Total() }

// Start begins mode 1 from idle.
func (s *Session) Start() bool {
	if !s.machine.Is(fsm.Idle) {
		return false
	}
	s.outcome = OutcomeNone
	s.startMode()
	s.machine.Transition(fsm.Rolling)
	s.beginTurn()
	return true
}

func (s *Session) startMode() {
	mode := s.prog.Current()
	s.card = scorecard.New(s.bus)
	s.dice.ClearCurse()
	s.timer = NewTimer(mode.TimeLimit)
	s.timer.Start(s.clock.Now())
	s.turn = 0
	s.prog.StartMode()
	if s.active != nil {
		s.active.OnModeStart()
	}
	s.log.Debug().Int("mode", mode.Index).Str("name", mode.Name).Msg("mode started")
}

func (s *Session) beginTurn() {
	s.dice.Reset()
	s.turn++
	if s.active != nil {
		s.active.OnNewHand()
	}
	locked := s.prog.BeginTurn(s.card.Unfilled())
	s.locked = make(map[scoring.CategoryID]bool, len(locked))
	for _, id := range locked {
		s.locked[id] = true
	}
}

// CanRoll reports whether Roll would succeed.
func (s *Session) CanRoll() bool {
	if !s.machine.Is(fsm.Rolling) {
		return false
	}
	return !s.dice.HasRolled() || s.dice.RerollsLeft() > 0
}

// Roll performs the initial roll of a hand, or a reroll of the unlocked dice.
func (s *Session) Roll() bool {
	if s.expireIfDue() || !s.CanRoll() {
		return false
	}
	if !s.dice.Roll(!s.dice.HasRolled()) {
		return false
	}
	if s.prog.Current().CursedDice {
		s.dice.CurseRandom()
	}
	return true
}

// CanToggleLock reports whether ToggleLock(i) would succeed.
func (s *Session) CanToggleLock(i int) bool {
	return s.machine.Is(fsm.Rolling) && s.dice.CanToggle(i)
}

// ToggleLock holds or releases die i.
func (s *Session) ToggleLock(i int) bool {
	if s.expireIfDue() || !s.machine.Is(fsm.Rolling) {
		return false
	}
	return s.dice.ToggleLock(i)
}

// FinishRolling moves from rolling to selecting once the hand has been rolled.
func (s *Session) FinishRolling() bool {
	if s.expireIfDue() || !s.machine.Is(fsm.Rolling) || !s.dice.HasRolled() {
		return false
	}
	return s.machine.Transition(fsm.Selecting)
}

// CanScore reports whether Score(id) would succeed.
func (s *Session) CanScore(id scoring.CategoryID) bool {
	if !s.machine.IsAny(fsm.Rolling, fsm.Selecting) || !s.dice.HasRolled() {
		return false
	}
	if s.locked[id] {
		return false
	}
	return s.card.CalculatePotential(id, s.dice.Values()) >= 0
}

// Score fills id with the current hand and ends the turn. It returns the
// points scored, or -1 if the category cannot be scored now.
func (s *Session) Score(id scoring.CategoryID) int {
	if s.expireIfDue() || !s.CanScore(id) {
		return -1
	}
	if s.machine.Is(fsm.Rolling) {
		s.machine.Transition(fsm.Selecting)
	}
	s.machine.Transition(fsm.Scoring)
	points := s.card.Score(id, s.dice.Values())
	if s.prog.Current().CursedDice {
		s.dice.CurseRandom()
	}
	s.machine.Transition(fsm.Transitioning)
	s.endTurn()
	return points
}

// IsCategoryLocked reports whether id is sealed for the current turn.
func (s *Session) IsCategoryLocked(id scoring.CategoryID) bool { return s.locked[id] }

// LockedCategories lists this turn's sealed categories in definition order.
func (s *Session) LockedCategories() []scoring.CategoryID {
	var out []scoring.CategoryID
	for _, d := range scoring.Definitions() {
		if s.locked[d.ID] {
			out = append(out, d.ID)
		}
	}
	return out
}

func (s *Session) endTurn() {
	if s.card.IsComplete() {
		s.completeMode()
		return
	}
	s.machine.Transition(fsm.Rolling)
	s.beginTurn()
}

func (s *Session) completeMode() {
	now := s.clock.Now()
	total := s.card.Total()
	remaining := s.timer.Remaining(now)
	s.timer.Stop(now)
	s.bus.Publish(events.ScoreComplete, events.ScoreCompletePayload{
		Total:         total,
		TimeRemaining: remaining.Milliseconds(),
	})
	if s.active != nil {
		s.active.OnModeEnd()
	}

	mode := s.prog.ModeIndex()
	before := s.prog.Cumulative()
	res := s.prog.CompleteMode(total)
	if res.Passed {
		for _, id := range s.registry.Unlocked(s.prog.ModesCleared()) {
			s.unlocked[id] = true
		}
	}

	payload := events.ModeCompletedPayload{
		Mode:        mode,
		Score:       total,
		Passed:      res.Passed,
		Cumulative:  s.prog.Cumulative(),
		RunComplete: res.RunComplete,
	}
	if res.Passed && res.NextMode != nil {
		payload.NextMode = *res.NextMode
	}
	s.bus.Publish(events.ModeCompleted, payload)
	s.log.Debug().Int("mode", mode).Int("score", total).Bool("passed", res.Passed).Msg("mode completed")

	switch {
	case res.RunComplete:
		s.endRun(OutcomeWon, ReasonComplete, s.prog.Cumulative(), s.prog.ModesCleared())
	case res.Passed:
		s.machine.Transition(fsm.BlessingChoice)
	default:
		s.endRun(OutcomeFailed, ReasonThreshold, before, mode-1)
	}
}

func (s *Session) endRun(o Outcome, reason string, cumulative, cleared int) {
	s.outcome = o
	if !s.machine.Transition(fsm.GameOver) {
		s.machine.ForceTransition(fsm.GameOver)
	}
	s.bus.Publish(events.RunEnded, events.RunEndedPayload{
		Reason:       reason,
		Won:          o == OutcomeWon,
		Cumulative:   cumulative,
		ModesCleared: cleared,
	})
	s.log.Debug().Str("outcome", string(o)).Int("cumulative", cumulative).Msg("run ended")
}

// OfferedBlessings lists the blessings the player may choose right now.
func (s *Session) OfferedBlessings() []blessing.ID {
	if !s.machine.Is(fsm.BlessingChoice) {
		return nil
	}
	return s.UnlockedBlessings()
}

// UnlockedBlessings lists every unlocked blessing in registry order.
func (s *Session) UnlockedBlessings() []blessing.ID {
	var out []blessing.ID
	for _, id := range s.registry.IDs() {
		if s.unlocked[id] {
			out = append(out, id)
		}
	}
	return out
}

// ActiveBlessing returns the run's blessing, or nil.
func (s *Session) ActiveBlessing() blessing.Blessing { return s.active }

// ChooseBlessing picks id for the rest of the run and starts the next mode.
// An empty id keeps the current blessing.
func (s *Session) ChooseBlessing(id blessing.ID) error {
	if !s.machine.Is(fsm.BlessingChoice) {
		return ErrNotChoosing
	}
	if id != "" {
		if s.registry.Has(id) && !s.unlocked[id] {
			return fmt.Errorf("%w: %q", ErrBlessingLocked, id)
		}
		b, err := s.registry.Create(id, blessing.Deps{Bus: s.bus, SixthDieCharges: s.charges})
		if err != nil {
			return err
		}
		if s.active != nil {
			s.active.Destroy()
		}
		s.active = b
		s.log.Debug().Str("blessing", string(id)).Msg("blessing chosen")
	}
	s.machine.Transition(fsm.ModeTransition)
	s.startMode()
	s.machine.Transition(fsm.Rolling)
	s.beginTurn()
	return nil
}

// Pause freezes the timer during play.
func (s *Session) Pause() bool {
	if s.expireIfDue() || !s.machine.Transition(fsm.Paused) {
		return false
	}
	s.timer.Pause(s.clock.Now())
	return true
}

// Resume returns to the phase Pause interrupted.
func (s *Session) Resume() bool {
	if !s.machine.Is(fsm.Paused) || !s.machine.Transition(s.machine.Previous()) {
		return false
	}
	s.timer.Resume(s.clock.Now())
	return true
}

// Tick publishes timer:tick and ends the run if the mode timer has expired.
// It returns the time remaining.
func (s *Session) Tick(now time.Time) time.Duration {
	if !s.machine.IsPlayable() || s.timer.Untimed() {
		return s.timer.Remaining(now)
	}
	remaining := s.timer.Remaining(now)
	s.bus.Publish(events.TimerTick, events.TimerTickPayload{
		Remaining: remaining.Milliseconds(),
		Formatted: FormatRemaining(remaining),
	})
	if s.timer.Expired(now) {
		s.expire(now)
	}
	return remaining
}

// TimeRemaining reports the mode timer at the session clock's current time.
func (s *Session) TimeRemaining() time.Duration { return s.timer.Remaining(s.clock.Now()) }

func (s *Session) expireIfDue() bool {
	now := s.clock.Now()
	if s.machine.IsPlayable() && s.timer.Expired(now) {
		s.expire(now)
		return true
	}
	return false
}

// expire treats a timeout as a failed mode: the run restarts from mode 1.
func (s *Session) expire(now time.Time) {
	s.timer.Stop(now)
	if s.active != nil {
		s.active.OnModeEnd()
	}
	mode := s.prog.ModeIndex()
	before := s.prog.Cumulative()
	total := s.card.Total()
	s.prog.Reset()
	s.bus.Publish(events.ModeCompleted, events.ModeCompletedPayload{
		Mode:   mode,
		Score:  total,
		Passed: false,
	})
	s.endRun(OutcomeTimeUp, ReasonTime, before, mode-1)
}

// Restart clears a finished run back to idle. The next Start begins at mode 1
// with no active blessing; unlocked blessings are kept.
func (s *Session) Restart() bool {
	if !s.machine.Is(fsm.GameOver) {
		return false
	}
	if s.active != nil {
		s.active.Destroy()
		s.active = nil
	}
	s.prog.Reset()
	s.outcome = OutcomeNone
	s.timer.Stop(s.clock.Now())
	s.card = scorecard.New(s.bus)
	s.dice.Reset()
	s.dice.ClearCurse()
	s.locked = nil
	s.turn = 0
	return s.machine.Transition(fsm.Idle)
}

func (s *Session) sanctuary() (*blessing.Sanctuary, bool) {
	b, ok := s.active.(*blessing.Sanctuary)
	return b, ok
}

// BankDice stores the current five dice with Sanctuary.
func (s *Session) BankDice() bool {
	sanct, ok := s.sanctuary()
	if !ok || s.expireIfDue() || !s.machine.Is(fsm.Rolling) || !s.dice.HasRolled() {
		return false
	}
	return sanct.Bank(s.dice.MainValues())
}

// RestoreDice replaces the five dice with the Sanctuary bank.
func (s *Session) RestoreDice() bool {
	sanct, ok := s.sanctuary()
	if !ok || s.expireIfDue() || !s.machine.Is(fsm.Rolling) {
		return false
	}
	values := sanct.Restore()
	if values == nil {
		return false
	}
	if err := s.dice.SetValues(values); err != nil {
		s.log.Error().Err(err).Ints("values", values).Msg("restore banked dice")
		return false
	}
	// A restore can stand in for the first roll of a hand.
	if s.prog.Current().CursedDice && s.dice.CursedIndex() == dice.NoCurse {
		s.dice.CurseRandom()
	}
	return true
}

// UseMercy spends Mercy for one extra reroll this hand.
func (s *Session) UseMercy() bool {
	m, ok := s.active.(*blessing.Mercy)
	if !ok || s.expireIfDue() || !s.machine.Is(fsm.Rolling) || !m.CanUse() {
		return false
	}
	if !m.Use() {
		return false
	}
	s.dice.AddRerolls(1)
	return true
}

// ActivateSixthDie adds a sixth die to the current hand.
func (s *Session) ActivateSixthDie() bool {
	sd, ok := s.active.(*blessing.SixthDie)
	if !ok || s.expireIfDue() || !s.machine.Is(fsm.Rolling) || !s.dice.HasRolled() || s.dice.HasExtraDie() {
		return false
	}
	if !sd.Activate() {
		return false
	}
	return s.dice.AddDie()
}
