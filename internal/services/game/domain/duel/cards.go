package duel

const (
	// HandSize is the number of cards each player holds.
	HandSize = 2
	// MaxCardValue is the largest value a card can hold.
	MaxCardValue = 4
	// InitialCardValue is the value every card starts with.
	InitialCardValue = 1

	cardModulus = MaxCardValue + 1
)

// Cards is one player's hand. Arrays copy by value, so a Session copy never
// shares a hand with the original.
type Cards [HandSize]int

// NewCards returns a hand with every card at InitialCardValue.
func NewCards() Cards {
	var c Cards
	for i := range c {
		c[i] = InitialCardValue
	}
	return c
}

// AllZero reports whether every card in the hand is zero.
func (c Cards) AllZero() bool {
	for _, v := range c {
		if v != 0 {
			return false
		}
	}
	return true
}

// Valid reports whether every card is within [0, MaxCardValue].
func (c Cards) Valid() bool {
	for _, v := range c {
		if v < 0 || v > MaxCardValue {
			return false
		}
	}
	return true
}

// Slice returns the hand as a fresh slice.
func (c Cards) Slice() []int {
	out := make([]int, len(c))
	copy(out, c[:])
	return out
}

// Resolve returns the new target value after attacker hits target.
//
// The sum wraps modulo 5 and a sum of exactly 5 becomes 0, so results
// always stay within [0, MaxCardValue] for in-range inputs.
func Resolve(attacker, target int) int {
	sum := target + attacker
	if sum == cardModulus {
		return 0
	}
	if sum > cardModulus {
		return sum % cardModulus
	}
	return sum
}
