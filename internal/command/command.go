// internal/command/command.go
//
// Player actions as command objects.
// Responsibilities:
//   - Give every presentation-facing action a CanExecute/Execute pair.
//   - Keep an undo history of reversible actions (lock toggles).
//
// Notes:
//   - An irreversible command (roll, score) clears the history: undoing a
//     lock after the dice moved would rewrite the past.
package command

import (
	"github.com/robalobadob/cursed-dice/internal/scoring"
)

// Command is one player action.
type Command interface {
	Name() string
	CanExecute() bool
	Execute() bool
}

// Undoable is a Command that can be reverted.
type Undoable interface {
	Command
	Undo() bool
}

// Roller is the session surface RollCommand needs.
type Roller interface {
	CanRoll() bool
	Roll() bool
}

// Locker is the session surface ToggleLockCommand needs.
type Locker interface {
	CanToggleLock(i int) bool
	ToggleLock(i int) bool
}

// Scorer is the session surface ScoreCommand needs.
type Scorer interface {
	CanScore(id scoring.CategoryID) bool
	Score(id scoring.CategoryID) int
}

type RollCommand struct {
	Target Roller
}

func (c RollCommand) Name() string     { return "roll" }
func (c RollCommand) CanExecute() bool { return c.Target.CanRoll() }
func (c RollCommand) Execute() bool    { return c.Target.Roll() }

type ToggleLockCommand struct {
	Target Locker
	Index  int
}

func (c ToggleLockCommand) Name() string     { return "lock" }
func (c ToggleLockCommand) CanExecute() bool { return c.Target.CanToggleLock(c.Index) }
func (c ToggleLockCommand) Execute() bool    { return c.Target.ToggleLock(c.Index) }

// Undo toggles the same die back.
func (c ToggleLockCommand) Undo() bool { return c.Target.ToggleLock(c.Index) }

// ScoreCommand records the points it scored in Points.
type ScoreCommand struct {
	Target   Scorer
	Category scoring.CategoryID
	Points   int
}

func (c *ScoreCommand) Name() string     { return "score" }
func (c *ScoreCommand) CanExecute() bool { return c.Target.CanScore(c.Category) }

func (c *ScoreCommand) Execute() bool {
	c.Points = c.Target.Score(c.Category)
	return c.Points >= 0
}
