package blessing

// DefaultSixthDieCharges is the number of activations per mode.
const DefaultSixthDieCharges = 3

// SixthDieState is the read model of SixthDie.
type SixthDieState struct {
	Charges        int  `json:"charges"`
	MaxCharges     int  `json:"maxCharges"`
	ActiveThisHand bool `json:"activeThisHand"`
}

// SixthDie adds a sixth die to a hand, a limited number of times per mode.
type SixthDie struct {
	base
	max     int
	charges int
	active  bool
}

func NewSixthDie(bus Bus, charges int) *SixthDie {
	if charges <= 0 {
		charges = DefaultSixthDieCharges
	}
	return &SixthDie{base: base{id: IDSixthDie, bus: bus}, max: charges, charges: charges}
}

func (s *SixthDie) OnModeStart() {
	s.charges = s.max
	s.active = false
}

func (s *SixthDie) OnModeEnd() { s.active = false }

func (s *SixthDie) OnNewHand() { s.active = false }

func (s *SixthDie) CanUse() bool {
	return !s.destroyed && s.charges > 0 && !s.active
}

// Activate consumes a charge for the current hand.
func (s *SixthDie) Activate() bool {
	if !s.CanUse() {
		return false
	}
	s.charges--
	s.active = true
	s.publish("activated", SixthDieState{Charges: s.charges, MaxCharges: s.max, ActiveThisHand: true})
	return true
}

func (s *SixthDie) State() any {
	return SixthDieState{Charges: s.charges, MaxCharges: s.max, ActiveThisHand: s.active}
}
