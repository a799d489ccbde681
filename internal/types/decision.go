package types

import "github.com/moznion/go-optional"

// DecisionKind is the outcome of a single live evaluation.
type DecisionKind string

const (
	DecisionKindBuy  DecisionKind = "BUY"
	DecisionKindSell DecisionKind = "SELL"
	DecisionKindWait DecisionKind = "WAIT"
)

// DecisionReason distinguishes why a decision came out the way it did. In
// particular it separates "condition not met" from "engine could not run",
// which both surface as WAIT.
type DecisionReason string

const (
	ReasonConditionMet        DecisionReason = "condition_met"
	ReasonConditionNotMet     DecisionReason = "condition_not_met"
	ReasonDataUnavailable     DecisionReason = "data_unavailable"
	ReasonInsufficientHistory DecisionReason = "insufficient_history"
	ReasonInvalidOperator     DecisionReason = "invalid_operator"
	ReasonUnsupportedIndicator DecisionReason = "unsupported_indicator"
)

// DecisionDiagnostics carries the raw values behind a decision. Error is
// non-empty exactly when the engine could not run (provider failure,
// insufficient history, unsupported configuration).
type DecisionDiagnostics struct {
	IndicatorValue optional.Option[float64]
	Threshold      optional.Option[float64]
	CurrentPrice   optional.Option[float64]
	Error          string
}

// Decision is produced fresh per evaluation and never persisted.
type Decision struct {
	Kind        DecisionKind
	Reason      DecisionReason
	Message     string
	Diagnostics DecisionDiagnostics
}
