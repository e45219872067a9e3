package service

import (
	"sort"
	"strconv"

	"github.com/goodnatureofminers/walletsync7000-backend/internal/wallet/model"
)

// SelectFeeRate picks the rate for the largest estimate target that does not
// exceed the requested one: a wider confirmation window substitutes for a
// tighter one, never the reverse. When no entry qualifies, the default of
// 1 sat/vB applies.
//
// Keys that do not parse as integers are skipped on purpose. Some backends
// emit malformed table entries, and the chosen behaviour is to tolerate them
// rather than fail the whole estimate.
func SelectFeeRate(target uint32, estimates map[string]float64) model.FeeRate {
	type candidate struct {
		target uint64
		rate   float64
	}
	candidates := make([]candidate, 0, len(estimates))
	for key, rate := range estimates {
		parsed, err := strconv.ParseUint(key, 10, 32)
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{target: parsed, rate: rate})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].target > candidates[j].target
	})
	for _, c := range candidates {
		if c.target <= uint64(target) {
			return model.FeeRate(c.rate)
		}
	}
	return model.DefaultFeeRate
}
