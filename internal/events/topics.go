package events

// Topic names a stream of events on the bus.
type Topic string

const (
	DiceRolled      Topic = "dice:rolled"
	DiceLocked      Topic = "dice:locked"
	DiceLockRefused Topic = "dice:lock-refused"
	DiceCursed      Topic = "dice:cursed"

	ScoreCategory Topic = "score:category"
	ScoreUpdated  Topic = "score:updated"
	ScoreComplete Topic = "score:complete"

	TimerTick Topic = "timer:tick"

	ModeGauntlet         Topic = "mode:gauntlet"
	ModeLockedCategories Topic = "mode:lockedCategories"
	ModeCompleted        Topic = "mode:completed"

	StateChanged Topic = "state:changed"
	RunEnded     Topic = "run:ended"
)

// BlessingTopic builds the blessing-specific topic "blessing:<id>:<verb>".
func BlessingTopic(id, verb string) Topic {
	return Topic("blessing:" + id + ":" + verb)
}

// DiceRolledPayload accompanies DiceRolled.
type DiceRolledPayload struct {
	Values         []int `json:"values"`
	IsInitial      bool  `json:"isInitial"`
	SixthDieActive bool  `json:"sixthDieActive,omitempty"`
}

// DiceLockedPayload accompanies DiceLocked.
type DiceLockedPayload struct {
	Index  int  `json:"index"`
	Locked bool `json:"locked"`
}

// LockRefusedPayload accompanies DiceLockRefused.
type LockRefusedPayload struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// DiceCursedPayload accompanies DiceCursed. Index is -1 when the curse is
// lifted.
type DiceCursedPayload struct {
	Index int `json:"index"`
}

// ScoreCategoryPayload is a presentation request to score a category.
type ScoreCategoryPayload struct {
	CategoryID string `json:"categoryId"`
	Dice       []int  `json:"dice,omitempty"`
}

// ScoreUpdatedPayload accompanies ScoreUpdated.
type ScoreUpdatedPayload struct {
	CategoryID string `json:"categoryId"`
	Score      int    `json:"score"`
	Total      int    `json:"total"`
}

// ScoreCompletePayload is published when a scorecard is full.
type ScoreCompletePayload struct {
	Total         int   `json:"total"`
	TimeRemaining int64 `json:"timeRemaining"` // milliseconds
}

// TimerTickPayload accompanies TimerTick.
type TimerTickPayload struct {
	Remaining int64  `json:"remaining"` // milliseconds
	Formatted string `json:"formatted"`
}

// LockedCategoriesPayload accompanies ModeLockedCategories.
type LockedCategoriesPayload struct {
	Categories []string `json:"categories"`
}

// ModeCompletedPayload reports the pass/fail gate for one mode.
type ModeCompletedPayload struct {
	Mode        int  `json:"mode"`
	Score       int  `json:"score"`
	Passed      bool `json:"passed"`
	Cumulative  int  `json:"cumulative"`
	NextMode    int  `json:"nextMode,omitempty"`
	RunComplete bool `json:"runComplete,omitempty"`
}

// RunEndedPayload is published when a run reaches game-over.
type RunEndedPayload struct {
	Reason       string `json:"reason"`
	Won          bool   `json:"won"`
	Cumulative   int    `json:"cumulative"`
	ModesCleared int    `json:"modesCleared"`
}

// StateChangedPayload mirrors a state machine transition.
type StateChangedPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// BlessingPayload is the generic payload of blessing:<id>:* topics.
type BlessingPayload struct {
	Blessing string `json:"blessing"`
	Verb     string `json:"verb"`
	Data     any    `json:"data,omitempty"`
}
