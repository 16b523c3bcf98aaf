package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryScores(t *testing.T) {
	tests := []struct {
		name string
		id   CategoryID
		dice []int
		want int
	}{
		{"ones counted", Ones, []int{1, 1, 3, 4, 1}, 3},
		{"sixes absent", Sixes, []int{1, 2, 3, 4, 5}, 0},
		{"fives with extra die", Fives, []int{5, 5, 2, 3, 4, 5}, 15},

		{"three of a kind", ThreeOfAKind, []int{3, 3, 3, 2, 6}, 17},
		{"three of a kind missing", ThreeOfAKind, []int{3, 3, 2, 2, 6}, 0},
		{"four of a kind", FourOfAKind, []int{6, 6, 6, 6, 1}, 25},
		{"four of a kind from five", FourOfAKind, []int{2, 2, 2, 2, 2}, 10},

		{"full house", FullHouse, []int{2, 2, 3, 3, 3}, 25},
		{"full house unordered", FullHouse, []int{5, 1, 5, 1, 5}, 25},
		{"five of a kind is not a full house", FullHouse, []int{4, 4, 4, 4, 4}, 0},
		{"two pair is not a full house", FullHouse, []int{2, 2, 3, 3, 6}, 0},
		{"four and one is not a full house", FullHouse, []int{2, 2, 2, 2, 3}, 0},
		{"six dice three and two", FullHouse, []int{1, 1, 1, 4, 4, 6}, 25},

		{"small straight", SmallStraight, []int{1, 2, 3, 4, 6}, 30},
		{"small straight with duplicate", SmallStraight, []int{3, 4, 5, 6, 3}, 30},
		{"small straight broken", SmallStraight, []int{1, 2, 3, 5, 6}, 0},
		{"large straight low", LargeStraight, []int{1, 2, 3, 4, 5}, 40},
		{"large straight high", LargeStraight, []int{6, 5, 4, 3, 2}, 40},
		{"large straight is also small", SmallStraight, []int{2, 3, 4, 5, 6}, 30},
		{"large straight missing", LargeStraight, []int{1, 2, 3, 4, 6}, 0},

		{"yahtzee", Yahtzee, []int{6, 6, 6, 6, 6}, 50},
		{"yahtzee ignores extra die", Yahtzee, []int{2, 2, 2, 2, 2, 5}, 50},
		{"extra die cannot complete yahtzee", Yahtzee, []int{2, 2, 2, 2, 5, 2}, 0},
		{"no yahtzee", Yahtzee, []int{6, 6, 6, 6, 5}, 0},

		{"chance", Chance, []int{1, 2, 3, 4, 5}, 15},
		{"chance six dice", Chance, []int{6, 6, 6, 6, 6, 6}, 36},

		{"all odd", AllOdd, []int{1, 3, 5, 5, 1}, 45},
		{"all odd fails", AllOdd, []int{1, 3, 5, 5, 2}, 0},
		{"all even", AllEven, []int{2, 4, 6, 6, 2}, 45},
		{"all high", AllHigh, []int{4, 5, 6, 4, 5}, 45},
		{"all high fails on three", AllHigh, []int{4, 5, 6, 3, 5}, 0},
		{"two pair", TwoPair, []int{2, 2, 5, 5, 1}, 45},
		{"two pair with full house", TwoPair, []int{2, 2, 5, 5, 5}, 45},
		{"one pair only", TwoPair, []int{2, 2, 3, 4, 5}, 0},
		{"five of a kind is not two pair", TwoPair, []int{3, 3, 3, 3, 3}, 0},
		{"three pairs on six dice", TwoPair, []int{1, 1, 2, 2, 3, 3}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Score(tt.id, tt.dice)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoresAreNeverNegative(t *testing.T) {
	hands := [][]int{
		{1, 1, 1, 1, 1},
		{1, 2, 3, 4, 5},
		{6, 5, 4, 3, 2, 1},
		{0, 7, -1, 3, 3},
	}
	for _, d := range Definitions() {
		for _, h := range hands {
			assert.GreaterOrEqual(t, d.Score(h), 0, "%s %v", d.ID, h)
		}
	}
}

func TestScoreUnknownCategory(t *testing.T) {
	got, ok := Score("bogus", []int{1, 2, 3, 4, 5})
	assert.False(t, ok)
	assert.Zero(t, got)
}

func TestDefinitionOrderAndSections(t *testing.T) {
	defs := Definitions()
	assert.Len(t, defs, 17)
	assert.Equal(t, Ones, defs[0].ID)
	assert.Equal(t, Chance, defs[12].ID)
	assert.Equal(t, TwoPair, defs[16].ID)

	assert.True(t, IsSpecial(AllHigh))
	assert.False(t, IsSpecial(Yahtzee))
	assert.Equal(t, "special", SectionSpecial.String())
}

func TestValidHand(t *testing.T) {
	assert.True(t, ValidHand([]int{1, 2, 3, 4, 5}))
	assert.True(t, ValidHand([]int{1, 2, 3, 4, 5, 6}))
	assert.False(t, ValidHand([]int{1, 2, 3, 4}))
	assert.False(t, ValidHand([]int{1, 2, 3, 4, 7}))
	assert.False(t, ValidHand([]int{0, 0, 0, 0, 0}))
}
