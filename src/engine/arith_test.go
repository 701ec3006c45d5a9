package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSaturatingAdd32(t *testing.T) {
	assert.Equal(t, uint32(3), saturatingAdd32(1, 2))
	assert.Equal(t, uint32(math.MaxUint32), saturatingAdd32(math.MaxUint32, 1))
	assert.Equal(t, uint32(math.MaxUint32), saturatingAdd32(math.MaxUint32, math.MaxUint32))
}

func TestSaturatingAdd64(t *testing.T) {
	assert.Equal(t, uint64(3), saturatingAdd64(1, 2))
	assert.Equal(t, uint64(math.MaxUint64), saturatingAdd64(math.MaxUint64, 1))
}

func TestSaturatingSubBalance(t *testing.T) {
	assert.Equal(t, uint64(1), uint64(saturatingSubBalance(3, 2)))
	assert.Equal(t, uint64(0), uint64(saturatingSubBalance(2, 3)))
}

func TestSaturatingMulBalance(t *testing.T) {
	assert.Equal(t, uint64(6), uint64(saturatingMulBalance(2, 3)))
	assert.Equal(t, uint64(0), uint64(saturatingMulBalance(0, 3)))
	assert.Equal(t, uint64(math.MaxUint64), uint64(saturatingMulBalance(math.MaxUint64, 2)))
}

func TestCheckedAdd32(t *testing.T) {
	sum, ok := checkedAdd32(1, 2)
	assert.True(t, ok)
	assert.Equal(t, uint32(3), sum)

	_, ok = checkedAdd32(math.MaxUint32, 1)
	assert.False(t, ok)
}

func TestDivideReward(t *testing.T) {
	fraction, err := divideReward(100, 3)
	assert.Nil(t, err)
	assert.Equal(t, uint64(33), uint64(fraction))

	_, err = divideReward(100, 0)
	assert.ErrorIs(t, err, ErrDivisionByZero)

	fraction, err = divideReward(0, 5)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), uint64(fraction))
}
