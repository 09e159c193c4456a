package score_test

import (
	"testing"

	"github.com/nholm/arrowsync/internal/score"
	"github.com/stretchr/testify/assert"
)

func TestValue(t *testing.T) {
	assert.Equal(t, 10, score.Value("X"))
	assert.Equal(t, 0, score.Value("M"))
	assert.Equal(t, 0, score.Value(""))
	assert.Equal(t, 7, score.Value("7"))
	assert.Equal(t, 10, score.Value("10"))
	assert.Equal(t, 0, score.Value("0"))

	// Stray input scores zero instead of erroring.
	assert.Equal(t, 0, score.Value("11"))
	assert.Equal(t, 0, score.Value("-1"))
	assert.Equal(t, 0, score.Value("banana"))
}

func TestTieBreakValue(t *testing.T) {
	assert.Greater(t, score.TieBreakValue("X"), score.TieBreakValue("10"))
	assert.Equal(t, 9.0, score.TieBreakValue("9"))
	assert.Equal(t, 0.0, score.TieBreakValue("M"))
}

func TestCompleteAndTotal(t *testing.T) {
	assert.False(t, score.Complete([]string{"10", "", "9"}))
	assert.False(t, score.Complete(nil))
	assert.True(t, score.Complete([]string{"X", "M", "9"}))

	// Total is provisional: it does not require completeness.
	assert.Equal(t, 19, score.Total([]string{"10", "", "9"}))
	assert.Equal(t, 29, score.Total([]string{"X", "10", "9"}))
	assert.Equal(t, 0, score.Total(nil))
}

func TestSetPoints(t *testing.T) {
	cases := []struct {
		a, b           int
		wantA, wantB   int
	}{
		{30, 27, 2, 0},
		{25, 28, 0, 2},
		{26, 26, 1, 1},
		{0, 0, 1, 1},
	}
	for _, c := range cases {
		gotA, gotB := score.SetPoints(c.a, c.b)
		assert.Equal(t, c.wantA, gotA)
		assert.Equal(t, c.wantB, gotB)
	}
}

func TestTensAndXs(t *testing.T) {
	tokens := []string{"X", "10", "9", "X", "M"}
	assert.Equal(t, 3, score.Tens(tokens))
	assert.Equal(t, 2, score.Xs(tokens))
}

func TestMaxTieBreak(t *testing.T) {
	assert.Equal(t, 10.1, score.MaxTieBreak([]string{"9", "X", "10"}))
	assert.Equal(t, 10.0, score.MaxTieBreak([]string{"10", "8"}))
	assert.Equal(t, 0.0, score.MaxTieBreak(nil))
}
