package match

import "sort"

// ResolveWinner returns the player with the strictly highest attribute value.
// Equal values go to whoever comes first in order. ok is false when plays
// holds nobody from order.
func ResolveWinner(order []string, plays map[string]Play) (winner string, ok bool) {
	best := 0
	for _, id := range order {
		p, played := plays[id]
		if !played {
			continue
		}
		if !ok || p.AttributeValue > best {
			winner, best, ok = id, p.AttributeValue, true
		}
	}
	return winner, ok
}

// Rank orders players by score, highest first, keeping turn order between
// equal scores.
func Rank(order []string, scores map[string]int) []Standing {
	standings := make([]Standing, len(order))
	for i, id := range order {
		standings[i] = Standing{PlayerId: id, Score: scores[id]}
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score > standings[j].Score
	})
	for i := range standings {
		standings[i].Position = i + 1
	}
	return standings
}

// playsInOrder lists plays following turn order.
func playsInOrder(order []string, plays map[string]Play) []Play {
	out := make([]Play, 0, len(plays))
	for _, id := range order {
		if p, ok := plays[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
