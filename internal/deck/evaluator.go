package deck

// Score ranks a two-card hand. A pair scores 1000 plus the rank value so any
// pair beats any high card; otherwise high*14+low orders hands by top card
// first with the kicker breaking ties.
func Score(cards []Card) int {
	if len(cards) != 2 {
		return 0
	}

	c1, c2 := cards[0], cards[1]

	if c1.Rank == c2.Rank {
		return 1000 + c1.Value
	}

	high, low := c1.Value, c2.Value
	if low > high {
		high, low = low, high
	}
	return high*14 + low
}

// PlayerHand pairs a player id with the two cards in play for a round.
type PlayerHand struct {
	PlayerID int64
	Cards    []Card
}

// Winners returns every player tied for the strictly highest score.
// Ties split the round; an empty input yields no winners.
func Winners(hands []PlayerHand) []int64 {
	bestScore := -1
	var winners []int64

	for _, h := range hands {
		score := Score(h.Cards)
		switch {
		case score > bestScore:
			bestScore = score
			winners = []int64{h.PlayerID}
		case score == bestScore:
			winners = append(winners, h.PlayerID)
		}
	}

	return winners
}
