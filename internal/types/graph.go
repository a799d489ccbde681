package types

// NodeRole identifies the function of a node in a strategy graph.
type NodeRole string

const (
	// NodeRoleIndicator computes a technical indicator over the price series.
	NodeRoleIndicator NodeRole = "indicator"
	// NodeRoleLogic compares the indicator value against a threshold.
	NodeRoleLogic NodeRole = "logic"
	// NodeRoleAction emits a trade action when the logic condition holds.
	NodeRoleAction NodeRole = "action"
)

// IndicatorPayload configures an indicator node.
type IndicatorPayload struct {
	Type   IndicatorType `yaml:"type"`
	Period int           `yaml:"period"`
}

// LogicPayload configures a logic node.
type LogicPayload struct {
	Operator  Operator `yaml:"operator"`
	Threshold float64  `yaml:"threshold"`
}

// ActionPayload configures an action node.
type ActionPayload struct {
	Kind   ActionKind `yaml:"kind"`
	Amount float64    `yaml:"amount"`
}

// NodePayload carries the role-specific configuration of a node. Exactly one
// field is expected to be set, matching the node's role; the compiler treats
// a missing payload as "all fields defaulted".
type NodePayload struct {
	Indicator *IndicatorPayload `yaml:"indicator,omitempty"`
	Logic     *LogicPayload     `yaml:"logic,omitempty"`
	Action    *ActionPayload    `yaml:"action,omitempty"`
}

// Node is a single node of a strategy graph.
type Node struct {
	ID      string      `yaml:"id"`
	Role    NodeRole    `yaml:"role"`
	Payload NodePayload `yaml:"payload"`
}

// Edge is a directed connection between two nodes, referenced by ID.
type Edge struct {
	SourceID string `yaml:"source"`
	TargetID string `yaml:"target"`
}

// StrategyGraph is the raw, caller-owned graph a user assembles. It is
// consumed once by the compiler; downstream components only ever see the
// typed Strategy produced from it.
type StrategyGraph struct {
	Nodes []Node `yaml:"nodes"`
	Edges []Edge `yaml:"edges"`
}
