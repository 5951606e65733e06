package chains

import (
	"fmt"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/params"

	xerrors "OpenMCP-EVM/internal/errors"
)

// Gas levels understood by GasBand.Level.
const (
	GasLow      = "low"
	GasAverage  = "average"
	GasHigh     = "high"
	GasVeryHigh = "veryHigh"
)

// GasBand summarises typical gas prices for a chain, in Gwei.
type GasBand struct {
	Low      float64 `json:"low" yaml:"low"`
	Average  float64 `json:"average" yaml:"average"`
	High     float64 `json:"high" yaml:"high"`
	VeryHigh float64 `json:"veryHigh" yaml:"very_high"`
}

// Level returns the Gwei value for one of the Gas* level names.
func (b GasBand) Level(level string) (float64, error) {
	switch level {
	case GasLow:
		return b.Low, nil
	case GasAverage:
		return b.Average, nil
	case GasHigh:
		return b.High, nil
	case GasVeryHigh:
		return b.VeryHigh, nil
	default:
		return 0, xerrors.New(xerrors.CodeInvalidArgument, fmt.Sprintf("unknown gas level %q", level))
	}
}

// Wei converts a level to wei, rounding to the nearest integer.
func (b GasBand) Wei(level string) (*big.Int, error) {
	gwei, err := b.Level(level)
	if err != nil {
		return nil, err
	}
	wei := new(big.Float).Mul(big.NewFloat(gwei), big.NewFloat(params.GWei))
	wei.Add(wei, big.NewFloat(0.5))
	out, _ := wei.Int(nil)
	return out, nil
}

// maxGasPrice is the largest gas price a transaction can carry (2^256-1 wei).
var maxGasPrice = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// validate rejects bands that cannot be expressed as a transaction gas price:
// negative, NaN or infinite levels, and levels above 2^256-1 wei.
func (b GasBand) validate() error {
	for _, level := range []string{GasLow, GasAverage, GasHigh, GasVeryHigh} {
		gwei, _ := b.Level(level)
		if gwei < 0 || math.IsNaN(gwei) || math.IsInf(gwei, 0) {
			return fmt.Errorf("gas %s must be a non-negative number, got %v", level, gwei)
		}
		wei, err := b.Wei(level)
		if err != nil {
			return err
		}
		if wei.Cmp(maxGasPrice) > 0 {
			return fmt.Errorf("gas %s of %v gwei overflows a 256-bit wei amount", level, gwei)
		}
	}
	return nil
}
