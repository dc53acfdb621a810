package divergence

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// toFixed formats v with n decimals, rounding halves away from zero on the
// exact binary value: 20.25 gives "20.3" while 1.005 (stored as 1.00499...)
// gives "1.00".
func toFixed(v float64, n int) string {
	exact := new(big.Float).SetFloat64(v).Text('f', 40)
	return decimal.RequireFromString(exact).StringFixed(int32(n))
}
