package deck

import "math/rand"

// Deck is an ordered set of the 52 unique cards, owned by a single game
// session. Not safe for concurrent use.
type Deck struct {
	cards []Card
}

func New() *Deck {
	d := &Deck{}
	d.Reset()
	return d
}

// Reset rebuilds the full 52-card set and shuffles it.
func (d *Deck) Reset() {
	d.cards = d.cards[:0]
	if cap(d.cards) < 52 {
		d.cards = make([]Card, 0, 52)
	}
	for _, suit := range Suits {
		for i, rank := range Ranks {
			d.cards = append(d.cards, Card{Suit: suit, Rank: rank, Value: i + 2})
		}
	}
	d.shuffle()
}

// shuffle performs an unbiased Fisher-Yates permutation.
func (d *Deck) shuffle() {
	rand.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Deal removes and returns the first n cards. Callers never request more
// than 30 cards per game (6 cards x 5 seats), well under the deck size.
func (d *Deck) Deal(n int) []Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	dealt := make([]Card, n)
	copy(dealt, d.cards[:n])
	d.cards = d.cards[n:]
	return dealt
}

// Remaining reports how many cards are left to deal.
func (d *Deck) Remaining() int {
	return len(d.cards)
}
