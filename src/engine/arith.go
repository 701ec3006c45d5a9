package engine

import (
	"math"

	"github.com/chocolate-network/ledger/src/ledger"
)

func saturatingAdd32(a, b uint32) uint32 {
	if a > math.MaxUint32-b {
		return math.MaxUint32
	}
	return a + b
}

func saturatingAdd64(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}

func saturatingAddBalance(a, b ledger.Balance) ledger.Balance {
	return ledger.Balance(saturatingAdd64(uint64(a), uint64(b)))
}

func saturatingSubBalance(a, b ledger.Balance) ledger.Balance {
	if b > a {
		return 0
	}
	return a - b
}

func saturatingMulBalance(a, b ledger.Balance) ledger.Balance {
	if a == 0 || b == 0 {
		return 0
	}
	if uint64(a) > math.MaxUint64/uint64(b) {
		return math.MaxUint64
	}
	return a * b
}

func checkedAdd32(a, b uint32) (uint32, bool) {
	if a > math.MaxUint32-b {
		return 0, false
	}
	return a + b, true
}

// divideReward computes floor(reward / totalScores). A failed division is
// classified by cause rather than just detected: a zero divisor is division
// by zero; were the operation to fail with a nonzero divisor, a dividend
// larger than the divisor would indicate underflow and anything else
// overflow. With unsigned integers only the first cause is reachable, the
// other two stay in the error taxonomy for callers.
func divideReward(reward ledger.Balance, totalScores uint32) (ledger.Balance, error) {
	if totalScores == 0 {
		return 0, ErrDivisionByZero
	}
	return reward / ledger.Balance(totalScores), nil
}
