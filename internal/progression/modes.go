// internal/progression/modes.go
//
// Static mode descriptors and their YAML source.
// Responsibilities:
//   - Describe each mode's twist (cursed die, locked categories, gauntlet).
//   - Parse modes.yaml (yaml.v3) and validate it before a Controller uses it.
//
// Notes:
//   - Mode configs are read-only once loaded; nothing in the engine mutates them.
//   - A zero TimeLimit means the mode is untimed.
package progression

import (
	"fmt"
	"io/fs"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPassThreshold is the mode score needed to advance.
const DefaultPassThreshold = 250

// ModeConfig is one mode's rule twist.
type ModeConfig struct {
	Index            int           `yaml:"index" json:"index"`
	Name             string        `yaml:"name" json:"name"`
	Description      string        `yaml:"description" json:"description"`
	CursedDice       bool          `yaml:"cursed_dice" json:"cursedDice"`
	LockedCategories int           `yaml:"locked_categories" json:"lockedCategories"`
	LockAllButOne    bool          `yaml:"lock_all_but_one" json:"lockAllButOne"`
	TimeLimit        time.Duration `yaml:"time_limit" json:"-"`
}

// Gauntlet reports whether every category but one is locked each turn.
func (m ModeConfig) Gauntlet() bool { return m.LockAllButOne }

// File is the top-level shape of modes.yaml.
type File struct {
	PassThreshold int          `yaml:"pass_threshold"`
	Modes         []ModeConfig `yaml:"modes"`
}

// DefaultModes is the built-in four-mode run.
func DefaultModes() File {
	return File{
		PassThreshold: DefaultPassThreshold,
		Modes: []ModeConfig{
			{Index: 1, Name: "Classic", Description: "Plain Yahtzee against the clock.", TimeLimit: 6 * time.Minute},
			{Index: 2, Name: "Cursed", Description: "One die is cursed and stays put; the curse moves after every roll and score.", CursedDice: true, TimeLimit: 6 * time.Minute},
			{Index: 3, Name: "Sealed", Description: "Three categories are sealed each turn.", LockedCategories: 3, TimeLimit: 5 * time.Minute},
			{Index: 4, Name: "Gauntlet", Description: "Only one category is open each turn.", LockAllButOne: true, TimeLimit: 5 * time.Minute},
		},
	}
}

// ParseModes decodes and validates a modes.yaml document.
func ParseModes(b []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return File{}, fmt.Errorf("parse modes: %w", err)
	}
	if f.PassThreshold == 0 {
		f.PassThreshold = DefaultPassThreshold
	}
	if err := ValidateModes(f); err != nil {
		return File{}, err
	}
	return f, nil
}

// LoadModes reads path from fsys and parses it.
func LoadModes(fsys fs.FS, path string) (File, error) {
	b, err := fs.ReadFile(fsys, path)
	if err != nil {
		return File{}, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseModes(b)
}

// ValidateModes checks semantic constraints of a modes file.
func ValidateModes(f File) error {
	var errs []string

	if f.PassThreshold <= 0 {
		errs = append(errs, "pass_threshold must be > 0")
	}
	if len(f.Modes) == 0 {
		errs = append(errs, "modes must not be empty")
	}
	for i, m := range f.Modes {
		at := fmt.Sprintf("modes[%d]", i)
		if m.Index != i+1 {
			errs = append(errs, fmt.Sprintf("%s.index must be %d", at, i+1))
		}
		if strings.TrimSpace(m.Name) == "" {
			errs = append(errs, at+".name is required")
		}
		if m.LockedCategories < 0 {
			errs = append(errs, at+".locked_categories must be >= 0")
		}
		if m.LockAllButOne && m.LockedCategories > 0 {
			errs = append(errs, at+": locked_categories and lock_all_but_one are exclusive")
		}
		if m.TimeLimit < 0 {
			errs = append(errs, at+".time_limit must be >= 0")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid modes: %s", strings.Join(errs, "; "))
	}
	return nil
}
