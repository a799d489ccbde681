package types

import "github.com/moznion/go-optional"

// IndicatorType identifies a technical indicator.
type IndicatorType string

const (
	IndicatorTypeRSI IndicatorType = "rsi"
)

// Operator is a comparison operator for logic nodes.
type Operator string

const (
	OperatorGreaterThan Operator = "gt"
	OperatorLessThan    Operator = "lt"
	// OperatorCrossover is accepted by the graph editor vocabulary but has no
	// evaluation semantics. Evaluating it yields WAIT, never a trade.
	OperatorCrossover Operator = "crossover"
)

// ActionKind is the trade side an action node emits.
type ActionKind string

const (
	ActionKindBuy  ActionKind = "buy"
	ActionKindSell ActionKind = "sell"
)

// Defaults substituted for unset payload fields, both by the compiler and by
// the backtest simulator when handed a partially specified strategy.
const (
	DefaultIndicatorType = IndicatorTypeRSI
	DefaultPeriod        = 14
	DefaultOperator      = OperatorLessThan
	DefaultThreshold     = 30.0
	DefaultActionKind    = ActionKindBuy
	DefaultActionAmount  = 100.0
)

// IndicatorSpec is the compiled indicator configuration.
type IndicatorSpec struct {
	Type   IndicatorType `yaml:"type" validate:"required"`
	Period int           `yaml:"period" validate:"gte=1"`
}

// ConditionSpec is the compiled entry condition.
type ConditionSpec struct {
	Operator  Operator `yaml:"operator" validate:"oneof=gt lt crossover"`
	Threshold float64  `yaml:"threshold"`
}

// ActionSpec is the compiled trade action.
type ActionSpec struct {
	Kind   ActionKind `yaml:"kind" validate:"oneof=buy sell"`
	Amount float64    `yaml:"amount" validate:"gt=0"`
}

// Strategy is the immutable value object produced by a successful graph
// compilation. It is never mutated after creation.
type Strategy struct {
	Indicator IndicatorSpec `yaml:"indicator"`
	Condition ConditionSpec `yaml:"condition"`
	Action    ActionSpec    `yaml:"action"`
}

// WithDefaults returns a copy of the strategy with every unset field replaced
// by its default. The compiler applies this before validation; the backtest
// simulator applies it to repair partially specified strategies instead of
// rejecting them.
func (s Strategy) WithDefaults() Strategy {
	if s.Indicator.Type == "" {
		s.Indicator.Type = DefaultIndicatorType
	}

	if s.Indicator.Period == 0 {
		s.Indicator.Period = DefaultPeriod
	}

	if s.Condition.Operator == "" {
		s.Condition.Operator = DefaultOperator
	}

	if s.Condition.Threshold == 0 {
		s.Condition.Threshold = DefaultThreshold
	}

	if s.Action.Kind == "" {
		s.Action.Kind = DefaultActionKind
	}

	if s.Action.Amount == 0 {
		s.Action.Amount = DefaultActionAmount
	}

	return s
}

// CompileResult is the outcome of compiling a strategy graph. Compilation
// never fails with a Go error; invalid graphs produce Valid == false and a
// message naming the defect.
type CompileResult struct {
	Valid    bool
	Strategy optional.Option[Strategy]
	Message  string
}
