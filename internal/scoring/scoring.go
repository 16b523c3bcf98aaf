// internal/scoring/scoring.go
//
// Pure scoring functions over a 5- or 6-die hand.
//
// Notes:
//   - Faces outside 1..6 are ignored by the counting helpers.
//   - Yahtzee only looks at the first five dice; the sixth die never
//     contributes to a five-of-a-kind.
//   - Five of a kind is not a full house.
package scoring

// MinFace and MaxFace bound a die face.
const (
	MinFace = 1
	MaxFace = 6
)

// ValidHand reports whether dice has 5 or 6 values, each a legal face.
func ValidHand(dice []int) bool {
	if len(dice) != 5 && len(dice) != 6 {
		return false
	}
	for _, v := range dice {
		if v < MinFace || v > MaxFace {
			return false
		}
	}
	return true
}

// Upper scores face × (number of dice showing face).
func Upper(face int) Func {
	return func(dice []int) int {
		return face * counts(dice)[face]
	}
}

// OfAKind scores the sum of all dice when at least n share a face.
func OfAKind(n int) Func {
	return func(dice []int) int {
		faces := counts(dice)
		for _, c := range faces[MinFace:] {
			if c >= n {
				return sum(dice)
			}
		}
		return 0
	}
}

// FullHouseScore is 25 when the face counts contain exactly a three and exactly a pair.
func FullHouseScore(dice []int) int {
	var three, two bool
	faces := counts(dice)
	for _, c := range faces[MinFace:] {
		switch c {
		case 3:
			three = true
		case 2:
			two = true
		}
	}
	if three && two {
		return FullHousePoints
	}
	return 0
}

// SmallStraightScore is 30 when the hand contains a run of four.
func SmallStraightScore(dice []int) int {
	if longestRun(dice) >= 4 {
		return SmallStraightPoints
	}
	return 0
}

// LargeStraightScore is 40 when the hand contains a run of five.
func LargeStraightScore(dice []int) int {
	if longestRun(dice) >= 5 {
		return LargeStraightPoints
	}
	return 0
}

// YahtzeeScore is 50 when the five non-extra dice share one face.
func YahtzeeScore(dice []int) int {
	if len(dice) < 5 {
		return 0
	}
	first := dice[0]
	if first < MinFace || first > MaxFace {
		return 0
	}
	for _, v := range dice[1:5] {
		if v != first {
			return 0
		}
	}
	return YahtzeePoints
}

// ChanceScore is the sum of all dice.
func ChanceScore(dice []int) int { return sum(dice) }

func AllOddScore(dice []int) int {
	return special(dice, func(v int) bool { return v%2 == 1 })
}

func AllEvenScore(dice []int) int {
	return special(dice, func(v int) bool { return v%2 == 0 })
}

// AllHighScore requires every die to show 4 or more.
func AllHighScore(dice []int) int {
	return special(dice, func(v int) bool { return v >= 4 })
}

// TwoPairScore requires exactly two distinct faces that appear at least twice.
func TwoPairScore(dice []int) int {
	pairs := 0
	faces := counts(dice)
	for _, c := range faces[MinFace:] {
		if c >= 2 {
			pairs++
		}
	}
	if pairs == 2 {
		return SpecialPoints
	}
	return 0
}

func special(dice []int, pred func(int) bool) int {
	if len(dice) == 0 {
		return 0
	}
	for _, v := range dice {
		if v < MinFace || v > MaxFace || !pred(v) {
			return 0
		}
	}
	return SpecialPoints
}

// counts is indexed by face; index 0 is unused.
func counts(dice []int) [MaxFace + 1]int {
	var c [MaxFace + 1]int
	for _, v := range dice {
		if v >= MinFace && v <= MaxFace {
			c[v]++
		}
	}
	return c
}

func sum(dice []int) int {
	total := 0
	for _, v := range dice {
		if v >= MinFace && v <= MaxFace {
			total += v
		}
	}
	return total
}

// longestRun returns the length of the longest run of consecutive distinct faces.
func longestRun(dice []int) int {
	c := counts(dice)
	best, run := 0, 0
	for face := MinFace; face <= MaxFace; face++ {
		if c[face] > 0 {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return best
}
