// internal/fsm/fsm.go
//
// Game-phase state machine.
// Responsibilities:
//   - Hold the current and previous phase.
//   - Enforce the legal transition table (Transition) or bypass it (ForceTransition).
//   - Run exit callbacks for the old phase, then enter callbacks for the new one.
//
// Notes:
//   - Paused may only resume into the phase it interrupted (Previous).
//   - Callbacks run after the phase has changed, so Current() inside a
//     callback already reports the new phase.
package fsm

// State is a game phase.
type State int

const (
	Idle           State = iota // no run in progress
	Rolling                     // player may roll and lock dice
	Selecting                   // rolling finished, choosing a category
	Scoring                     // applying the chosen category
	Transitioning               // between hands
	Paused                      // timer frozen
	BlessingChoice              // mode passed, choosing a blessing
	ModeTransition              // setting up the next mode
	GameOver                    // run ended
)

var stateNames = map[State]string{
	Idle:           "idle",
	Rolling:        "rolling",
	Selecting:      "selecting",
	Scoring:        "scoring",
	Transitioning:  "transitioning",
	Paused:         "paused",
	BlessingChoice: "blessing-choice",
	ModeTransition: "mode-transition",
	GameOver:       "game-over",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// MarshalText serialises a State by name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

var transitions = map[State][]State{
	Idle:           {Rolling},
	Rolling:        {Selecting, Paused, GameOver},
	Selecting:      {Scoring, Paused},
	Scoring:        {Transitioning, Paused, GameOver},
	Transitioning:  {Rolling, BlessingChoice, GameOver},
	BlessingChoice: {ModeTransition},
	ModeTransition: {Rolling},
	GameOver:       {Idle},
}

// Callback observes a transition.
type Callback func(from, to State)

// Machine is a single game's phase machine. It is not safe for concurrent use.
type Machine struct {
	current  State
	previous State
	enter    map[State][]Callback
	exit     map[State][]Callback
}

// New returns a machine in Idle.
func New() *Machine {
	return &Machine{
		current:  Idle,
		previous: Idle,
		enter:    make(map[State][]Callback),
		exit:     make(map[State][]Callback),
	}
}

func (m *Machine) Current() State  { return m.current }
func (m *Machine) Previous() State { return m.previous }

func (m *Machine) Is(s State) bool { return m.current == s }

// IsAny reports whether the current phase is one of states.
func (m *Machine) IsAny(states ...State) bool {
	for _, s := range states {
		if m.current == s {
			return true
		}
	}
	return false
}

// IsPlayable reports whether the player can act on dice or the scorecard.
func (m *Machine) IsPlayable() bool {
	return m.IsAny(Rolling, Selecting, Scoring)
}

// Can reports whether Transition(next) would succeed.
func (m *Machine) Can(next State) bool {
	if m.current == Paused {
		return next == m.previous
	}
	for _, s := range transitions[m.current] {
		if s == next {
			return true
		}
	}
	return false
}

// Transition moves to next if the table allows it.
func (m *Machine) Transition(next State) bool {
	if !m.Can(next) {
		return false
	}
	m.apply(next)
	return true
}

// ForceTransition moves to next unconditionally. Used for timer expiry and resets.
func (m *Machine) ForceTransition(next State) {
	m.apply(next)
}

func (m *Machine) apply(next State) {
	from := m.current
	m.previous = from
	m.current = next
	for _, cb := range m.exit[from] {
		cb(from, next)
	}
	for _, cb := range m.enter[next] {
		cb(from, next)
	}
}

// OnEnter registers cb to run whenever s is entered.
func (m *Machine) OnEnter(s State, cb Callback) {
	m.enter[s] = append(m.enter[s], cb)
}

// OnExit registers cb to run whenever s is left.
func (m *Machine) OnExit(s State, cb Callback) {
	m.exit[s] = append(m.exit[s], cb)
}

// States lists every phase in declaration order.
func States() []State {
	return []State{Idle, Rolling, Selecting, Scoring, Transitioning, Paused, BlessingChoice, ModeTransition, GameOver}
}
