// Package decision implements live strategy evaluation: one compiled
// strategy, one symbol, one BUY/SELL/WAIT decision per call.
package decision

import (
	"context"
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-strategy/internal/indicator"
	"github.com/rxtech-lab/argo-strategy/internal/logger"
	"github.com/rxtech-lab/argo-strategy/internal/metrics"
	"github.com/rxtech-lab/argo-strategy/internal/types"
	"github.com/rxtech-lab/argo-strategy/pkg/errors"
	"github.com/rxtech-lab/argo-strategy/pkg/marketdata"
	"go.uber.org/zap"
)

// EngineConfig controls how much history an evaluation fetches.
type EngineConfig struct {
	// Interval is the candle interval used for indicator computation.
	Interval marketdata.Interval `validate:"required"`
	// CandleLimit is how many recent candles to request per evaluation.
	CandleLimit int `validate:"gte=2"`
}

// DefaultEngineConfig returns the config used by NewEngine.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Interval:    marketdata.Interval1h,
		CandleLimit: 100,
	}
}

// Engine evaluates a compiled strategy against live market data. It is
// stateless across invocations: every call re-derives its decision from
// freshly fetched data and no position memory is kept. Concurrent calls for
// different symbols share no mutable state.
type Engine struct {
	provider marketdata.Provider
	registry indicator.IndicatorRegistry
	config   EngineConfig
	log      *logger.Logger
}

// NewEngine creates a decision engine with the default configuration and all
// built-in indicators registered.
func NewEngine(provider marketdata.Provider, log *logger.Logger) *Engine {
	return NewEngineWithConfig(provider, log, DefaultEngineConfig())
}

// NewEngineWithConfig creates a decision engine with an explicit configuration.
func NewEngineWithConfig(provider marketdata.Provider, log *logger.Logger, config EngineConfig) *Engine {
	return &Engine{
		provider: provider,
		registry: indicator.NewDefaultIndicatorRegistry(),
		config:   config,
		log:      log,
	}
}

// Evaluate runs one live evaluation. It never returns an error past its
// boundary: provider failures, insufficient history, and unsupported
// configuration all surface as a WAIT decision with Diagnostics.Error set,
// distinct (via Reason) from a WAIT meaning the condition did not hold.
func (e *Engine) Evaluate(ctx context.Context, strategy types.Strategy, symbol string) types.Decision {
	candles, err := e.provider.FetchCandles(ctx, symbol, e.config.Interval, e.config.CandleLimit)
	if err != nil {
		metrics.ProviderFailuresTotal.Inc()

		return e.waitOnFailure(symbol, types.ReasonDataUnavailable,
			fmt.Sprintf("could not fetch market data for %s", symbol), err)
	}

	if len(candles) == 0 {
		return e.waitOnFailure(symbol, types.ReasonDataUnavailable,
			fmt.Sprintf("no market data returned for %s", symbol),
			errors.Newf(errors.ErrCodeDataUnavailable, "provider returned no candles for %s", symbol))
	}

	ind, err := e.registry.GetIndicator(strategy.Indicator.Type)
	if err != nil {
		return e.waitOnFailure(symbol, types.ReasonUnsupportedIndicator,
			fmt.Sprintf("indicator %q is not supported", strategy.Indicator.Type), err)
	}

	if err := ind.Config(strategy.Indicator.Period); err != nil {
		return e.waitOnFailure(symbol, types.ReasonUnsupportedIndicator,
			fmt.Sprintf("invalid %s configuration", strategy.Indicator.Type), err)
	}

	series, err := ind.Compute(types.ClosePrices(candles))
	if err != nil {
		return e.waitOnFailure(symbol, types.ReasonDataUnavailable,
			fmt.Sprintf("failed to compute %s", strategy.Indicator.Type), err)
	}

	last := series.LastDefined()
	if last.IsNone() {
		return e.waitOnFailure(symbol, types.ReasonInsufficientHistory,
			fmt.Sprintf("not enough history to compute %s(%d) for %s", strategy.Indicator.Type, strategy.Indicator.Period, symbol),
			errors.Newf(errors.ErrCodeInsufficientData, "%d candles fetched, period %d", len(candles), strategy.Indicator.Period))
	}

	value := last.Unwrap()
	threshold := strategy.Condition.Threshold

	hold, err := evaluateCondition(strategy.Condition.Operator, value, threshold)
	if err != nil {
		decision := e.waitOnFailure(symbol, types.ReasonInvalidOperator,
			fmt.Sprintf("operator %q has no evaluation rule", strategy.Condition.Operator), err)
		decision.Diagnostics.IndicatorValue = optional.Some(value)
		decision.Diagnostics.Threshold = optional.Some(threshold)

		return decision
	}

	if !hold {
		decision := types.Decision{
			Kind:   types.DecisionKindWait,
			Reason: types.ReasonConditionNotMet,
			Message: fmt.Sprintf("condition not met: %s %.2f is not %s %.2f",
				strategy.Indicator.Type, value, strategy.Condition.Operator, threshold),
			Diagnostics: types.DecisionDiagnostics{
				IndicatorValue: optional.Some(value),
				Threshold:      optional.Some(threshold),
				CurrentPrice:   optional.None[float64](),
				Error:          "",
			},
		}

		e.observe(symbol, decision)

		return decision
	}

	price, err := e.provider.FetchCurrentPrice(ctx, symbol)
	if err != nil {
		metrics.ProviderFailuresTotal.Inc()

		decision := e.waitOnFailure(symbol, types.ReasonDataUnavailable,
			fmt.Sprintf("condition met but current price for %s is unavailable", symbol), err)
		decision.Diagnostics.IndicatorValue = optional.Some(value)
		decision.Diagnostics.Threshold = optional.Some(threshold)

		return decision
	}

	decision := types.Decision{
		Kind:   decisionKind(strategy.Action.Kind),
		Reason: types.ReasonConditionMet,
		Message: fmt.Sprintf("%s %.2f %s %.2f: %s %.2f %s at price %.2f",
			strategy.Indicator.Type, value, strategy.Condition.Operator, threshold,
			strategy.Action.Kind, strategy.Action.Amount, symbol, price),
		Diagnostics: types.DecisionDiagnostics{
			IndicatorValue: optional.Some(value),
			Threshold:      optional.Some(threshold),
			CurrentPrice:   optional.Some(price),
			Error:          "",
		},
	}

	e.observe(symbol, decision)

	return decision
}

// evaluateCondition applies a comparison operator. Operators outside gt/lt
// (crossover included) have no evaluation rule and report an error.
func evaluateCondition(operator types.Operator, value, threshold float64) (bool, error) {
	switch operator {
	case types.OperatorGreaterThan:
		return value > threshold, nil
	case types.OperatorLessThan:
		return value < threshold, nil
	default:
		return false, errors.Newf(errors.ErrCodeInvalidOperator, "operator %q has no evaluation semantics", operator)
	}
}

func decisionKind(kind types.ActionKind) types.DecisionKind {
	if kind == types.ActionKindSell {
		return types.DecisionKindSell
	}

	return types.DecisionKindBuy
}

func (e *Engine) waitOnFailure(symbol string, reason types.DecisionReason, message string, cause error) types.Decision {
	decision := types.Decision{
		Kind:    types.DecisionKindWait,
		Reason:  reason,
		Message: message,
		Diagnostics: types.DecisionDiagnostics{
			IndicatorValue: optional.None[float64](),
			Threshold:      optional.None[float64](),
			CurrentPrice:   optional.None[float64](),
			Error:          cause.Error(),
		},
	}

	e.observe(symbol, decision)

	return decision
}

func (e *Engine) observe(symbol string, decision types.Decision) {
	metrics.DecisionsTotal.WithLabelValues(string(decision.Kind)).Inc()

	e.log.Info("evaluation complete",
		zap.String("symbol", symbol),
		zap.String("decision", string(decision.Kind)),
		zap.String("reason", string(decision.Reason)),
		zap.String("message", decision.Message),
	)
}
