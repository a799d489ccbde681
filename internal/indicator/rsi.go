package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-strategy/internal/types"
	"github.com/rxtech-lab/argo-strategy/pkg/errors"
)

// RSI represents the Relative Strength Index indicator.
type RSI struct {
	period int
}

// NewRSI creates a new RSI indicator with default configuration.
func NewRSI() Indicator {
	return &RSI{
		period: types.DefaultPeriod,
	}
}

// Name returns the name of the indicator.
func (r *RSI) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Config configures the RSI indicator. Expected parameters: period (int).
func (r *RSI) Config(params ...any) error {
	if len(params) < 1 {
		return errors.New(errors.ErrCodeInvalidPeriod, "Config expects at least 1 parameter: period (int)")
	}

	period, ok := params[0].(int)
	if !ok {
		return errors.New(errors.ErrCodeInvalidPeriod, "invalid type for period parameter, expected int")
	}

	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	r.period = period

	return nil
}

// Compute calculates the RSI series using Wilder's method: a seed average of
// gains and losses over the warm-up window, then the smoothed moving-average
// recurrence for every later bar. The value at bar N always reuses the prior
// smoothed averages, never a fresh mean over the last `period` changes.
//
// The first defined value sits at index period-1; everything before it is
// None. A price series shorter than the period yields an all-None series of
// matching length.
func (r *RSI) Compute(prices []float64) (Series, error) {
	series := make(Series, len(prices))
	for i := range series {
		series[i] = optional.None[float64]()
	}

	if len(prices) < r.period {
		return series, nil
	}

	var avgGain, avgLoss float64

	// Seed averages over the changes inside the warm-up window.
	for i := 1; i <= r.period-1; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}

	if r.period > 1 {
		avgGain /= float64(r.period - 1)
		avgLoss /= float64(r.period - 1)
	}

	series[r.period-1] = optional.Some(rsiFromAverages(avgGain, avgLoss))

	// Wilder smoothing for every bar past the warm-up window.
	for i := r.period; i < len(prices); i++ {
		change := prices[i] - prices[i-1]

		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}

		avgGain = (avgGain*float64(r.period-1) + gain) / float64(r.period)
		avgLoss = (avgLoss*float64(r.period-1) + loss) / float64(r.period)

		series[i] = optional.Some(rsiFromAverages(avgGain, avgLoss))
	}

	return series, nil
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100 // perfect uptrend
	}

	rs := avgGain / avgLoss

	return 100 - (100 / (1 + rs))
}
