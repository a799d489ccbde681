package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-strategy/internal/types"
)

// Series is an indicator series aligned with its input price series: the
// value at index i is None during the warm-up period and Some thereafter.
type Series []optional.Option[float64]

// LastDefined returns the last defined value of the series, or None when the
// series has no defined value at all (insufficient history).
func (s Series) LastDefined() optional.Option[float64] {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].IsSome() {
			return s[i]
		}
	}

	return optional.None[float64]()
}

// WarmUp returns the number of leading undefined entries.
func (s Series) WarmUp() int {
	for i, v := range s {
		if v.IsSome() {
			return i
		}
	}

	return len(s)
}

// Indicator interface defines methods that any technical indicator must implement
type Indicator interface {
	// Name returns the name of the indicator
	Name() types.IndicatorType
	// Config configures the indicator parameters
	Config(params ...any) error
	// Compute calculates the indicator series over a closing price series.
	// The result has the same length as the input.
	Compute(prices []float64) (Series, error)
}
