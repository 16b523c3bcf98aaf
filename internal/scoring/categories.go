// internal/scoring/categories.go
//
// Category identifiers and the definition table that drives the scorecard.
// Responsibilities:
//   - Name every scoring category (13 standard + 4 special).
//   - Assign each category to a section (upper/lower/special).
//   - Fix the canonical definition order used by the scorecard and read models.
package scoring

// CategoryID is the stable identifier of a scoring category.
type CategoryID string

const (
	Ones   CategoryID = "ones"
	Twos   CategoryID = "twos"
	Threes CategoryID = "threes"
	Fours  CategoryID = "fours"
	Fives  CategoryID = "fives"
	Sixes  CategoryID = "sixes"

	ThreeOfAKind  CategoryID = "threeOfAKind"
	FourOfAKind   CategoryID = "fourOfAKind"
	FullHouse     CategoryID = "fullHouse"
	SmallStraight CategoryID = "smallStraight"
	LargeStraight CategoryID = "largeStraight"
	Yahtzee       CategoryID = "yahtzee"
	Chance        CategoryID = "chance"

	AllOdd  CategoryID = "allOdd"
	AllEven CategoryID = "allEven"
	AllHigh CategoryID = "allHigh"
	TwoPair CategoryID = "twoPair"
)

// Section groups categories on the scorecard.
type Section int

const (
	SectionUpper Section = iota
	SectionLower
	SectionSpecial
)

var sectionNames = map[Section]string{
	SectionUpper:   "upper",
	SectionLower:   "lower",
	SectionSpecial: "special",
}

func (s Section) String() string {
	if n, ok := sectionNames[s]; ok {
		return n
	}
	return "unknown"
}

// MarshalText lets sections serialise by name in JSON read models.
func (s Section) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Fixed point values.
const (
	FullHousePoints     = 25
	SmallStraightPoints = 30
	LargeStraightPoints = 40
	YahtzeePoints       = 50
	SpecialPoints       = 45
)

// Definition binds a category to its section and scoring function.
type Definition struct {
	ID      CategoryID
	Section Section
	Score   Func
}

// Func scores a hand for one category. Implementations never return a negative value.
type Func func(dice []int) int

var definitions = []Definition{
	{Ones, SectionUpper, Upper(1)},
	{Twos, SectionUpper, Upper(2)},
	{Threes, SectionUpper, Upper(3)},
	{Fours, SectionUpper, Upper(4)},
	{Fives, SectionUpper, Upper(5)},
	{Sixes, SectionUpper, Upper(6)},

	{ThreeOfAKind, SectionLower, OfAKind(3)},
	{FourOfAKind, SectionLower, OfAKind(4)},
	{FullHouse, SectionLower, FullHouseScore},
	{SmallStraight, SectionLower, SmallStraightScore},
	{LargeStraight, SectionLower, LargeStraightScore},
	{Yahtzee, SectionLower, YahtzeeScore},
	{Chance, SectionLower, ChanceScore},

	{AllOdd, SectionSpecial, AllOddScore},
	{AllEven, SectionSpecial, AllEvenScore},
	{AllHigh, SectionSpecial, AllHighScore},
	{TwoPair, SectionSpecial, TwoPairScore},
}

var byID = func() map[CategoryID]Definition {
	m := make(map[CategoryID]Definition, len(definitions))
	for _, d := range definitions {
		m[d.ID] = d
	}
	return m
}()

// Definitions returns every category in definition order.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// Lookup returns the definition for id.
func Lookup(id CategoryID) (Definition, bool) {
	d, ok := byID[id]
	return d, ok
}

// Score evaluates id against dice. Unknown categories score 0 and report false.
func Score(id CategoryID, dice []int) (int, bool) {
	d, ok := byID[id]
	if !ok {
		return 0, false
	}
	return d.Score(dice), true
}

// IsSpecial reports whether id belongs to the expansion section.
func IsSpecial(id CategoryID) bool {
	d, ok := byID[id]
	return ok && d.Section == SectionSpecial
}
