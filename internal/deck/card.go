package deck

import "fmt"

// Suit is a single-letter suit code, matching the wire format clients render.
type Suit string

const (
	Hearts   Suit = "H"
	Diamonds Suit = "D"
	Clubs    Suit = "C"
	Spades   Suit = "S"
)

var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// Ranks in ascending order. Index i maps to value i+2, so "2" is 2 and "A" is 14.
var Ranks = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

// Card is immutable once dealt. Value duplicates the rank as an integer so
// comparisons never parse strings.
type Card struct {
	Suit  Suit   `json:"suit"`
	Rank  string `json:"rank"`
	Value int    `json:"value"`
}

func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}
