package usecase

import (
	"math"
	"math/bits"

	domainErrors "github.com/polkiloo/merchpay/internal/domain/errors"
)

// mulPoints returns amount*ratio if it fits in a points counter.
func mulPoints(amount uint64, ratio uint32) (uint32, error) {
	hi, lo := bits.Mul64(amount, uint64(ratio))
	if hi != 0 || lo > math.MaxUint32 {
		return 0, domainErrors.ErrArithmeticOverflow
	}
	return uint32(lo), nil
}

func addPoints(a, b uint32) (uint32, error) {
	sum, carry := bits.Add32(a, b, 0)
	if carry != 0 {
		return 0, domainErrors.ErrArithmeticOverflow
	}
	return sum, nil
}
