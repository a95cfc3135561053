package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveWinner(t *testing.T) {
	plays := func(values map[string]int) map[string]Play {
		out := make(map[string]Play, len(values))
		for id, v := range values {
			out[id] = Play{PlayerId: id, AttributeValue: v}
		}
		return out
	}

	tests := []struct {
		name   string
		order  []string
		values map[string]int
		want   string
		ok     bool
	}{
		{
			name:   "strict maximum",
			order:  []string{"A", "B", "C"},
			values: map[string]int{"A": 10, "B": 15, "C": 3},
			want:   "B",
			ok:     true,
		},
		{
			name:   "tie goes to lowest turn index",
			order:  []string{"C", "A", "B"},
			values: map[string]int{"A": 10, "B": 15, "C": 15},
			want:   "C",
			ok:     true,
		},
		{
			name:   "tie between later players",
			order:  []string{"P1", "P2", "P3"},
			values: map[string]int{"P1": 20, "P2": 45, "P3": 45},
			want:   "P2",
			ok:     true,
		},
		{
			name:   "everybody equal",
			order:  []string{"X", "Y"},
			values: map[string]int{"X": 0, "Y": 0},
			want:   "X",
			ok:     true,
		},
		{
			name:   "negative values",
			order:  []string{"X", "Y"},
			values: map[string]int{"X": -5, "Y": -2},
			want:   "Y",
			ok:     true,
		},
		{
			name:   "no plays",
			order:  []string{"X", "Y"},
			values: map[string]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveWinner(tt.order, plays(tt.values))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRank(t *testing.T) {
	order := []string{"D", "A", "C", "B"}
	scores := map[string]int{"A": 3, "B": 3, "C": 1, "D": 1}

	assert.Equal(t, []Standing{
		{PlayerId: "A", Score: 3, Position: 1},
		{PlayerId: "B", Score: 3, Position: 2},
		{PlayerId: "D", Score: 1, Position: 3},
		{PlayerId: "C", Score: 1, Position: 4},
	}, Rank(order, scores))
}

func TestPlaysInOrder(t *testing.T) {
	plays := map[string]Play{
		"B": {PlayerId: "B", AttributeValue: 2},
		"A": {PlayerId: "A", AttributeValue: 1},
	}
	got := playsInOrder([]string{"A", "C", "B"}, plays)
	assert.Equal(t, []Play{plays["A"], plays["B"]}, got)
}
