package ledger

import (
	"go.uber.org/atomic"
)

// Imbalance represents newly issued supply that is not yet assigned to any
// account. It must be consumed exactly once; dropping it on the floor or
// consuming it twice is a programming error, so Consume panics on reuse.
type Imbalance struct {
	amount   Balance
	consumed atomic.Bool
}

func NewImbalance(amount Balance) *Imbalance {
	return &Imbalance{amount: amount}
}

// Peek returns the amount without consuming the token
func (self *Imbalance) Peek() Balance {
	return self.amount
}

// Consume marks the token as used up and returns the amount
func (self *Imbalance) Consume() Balance {
	if !self.consumed.CompareAndSwap(false, true) {
		panic("imbalance consumed twice")
	}
	return self.amount
}
