// Package graph validates and compiles user-assembled strategy graphs into
// the typed Strategy consumed by the decision engine and backtest simulator.
package graph

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-strategy/internal/types"
)

var validate = validator.New()

// Compile validates the topology and payloads of a strategy graph and
// produces a typed Strategy. It never returns a Go error: every failure
// state comes back as CompileResult{Valid: false} with a message naming the
// defect, mirroring the WAIT-on-failure policy of the decision engine.
func Compile(graph types.StrategyGraph) types.CompileResult {
	byRole := make(map[types.NodeRole][]types.Node)
	for _, node := range graph.Nodes {
		byRole[node.Role] = append(byRole[node.Role], node)
	}

	requiredRoles := []types.NodeRole{types.NodeRoleIndicator, types.NodeRoleLogic, types.NodeRoleAction}

	var missing []string

	for _, role := range requiredRoles {
		if len(byRole[role]) == 0 {
			missing = append(missing, string(role))
		}
	}

	if len(missing) > 0 {
		return invalidResult(fmt.Sprintf("graph is missing required node role(s): %s", strings.Join(missing, ", ")))
	}

	for _, role := range requiredRoles {
		if count := len(byRole[role]); count > 1 {
			return invalidResult(fmt.Sprintf("graph must contain exactly one %s node, found %d", role, count))
		}
	}

	indicatorNode := byRole[types.NodeRoleIndicator][0]
	logicNode := byRole[types.NodeRoleLogic][0]
	actionNode := byRole[types.NodeRoleAction][0]

	if msg := checkEdge(graph.Edges, indicatorNode, logicNode); msg != "" {
		return invalidResult(msg)
	}

	if msg := checkEdge(graph.Edges, logicNode, actionNode); msg != "" {
		return invalidResult(msg)
	}

	strategy := types.Strategy{
		Indicator: indicatorSpec(indicatorNode.Payload.Indicator),
		Condition: conditionSpec(logicNode.Payload.Logic),
		Action:    actionSpec(actionNode.Payload.Action),
	}.WithDefaults()

	if err := validate.Struct(strategy); err != nil {
		return invalidResult(fmt.Sprintf("invalid node payload: %v", err))
	}

	return types.CompileResult{
		Valid:    true,
		Strategy: optional.Some(strategy),
		Message:  "strategy compiled successfully",
	}
}

// checkEdge verifies that the edge source -> target exists. A reversed edge
// gets its own message so the user learns the chain direction, not just that
// an edge is absent.
func checkEdge(edges []types.Edge, source, target types.Node) string {
	if hasEdge(edges, source.ID, target.ID) {
		return ""
	}

	if hasEdge(edges, target.ID, source.ID) {
		return fmt.Sprintf(
			"edge between %s and %s node is reversed; nodes must be chained in the order indicator, logic, action",
			source.Role, target.Role,
		)
	}

	return fmt.Sprintf(
		"missing edge from %s node to %s node; nodes must be chained in the order indicator, logic, action",
		source.Role, target.Role,
	)
}

func hasEdge(edges []types.Edge, sourceID, targetID string) bool {
	for _, edge := range edges {
		if edge.SourceID == sourceID && edge.TargetID == targetID {
			return true
		}
	}

	return false
}

func indicatorSpec(payload *types.IndicatorPayload) types.IndicatorSpec {
	if payload == nil {
		return types.IndicatorSpec{}
	}

	return types.IndicatorSpec{
		Type:   payload.Type,
		Period: payload.Period,
	}
}

func conditionSpec(payload *types.LogicPayload) types.ConditionSpec {
	if payload == nil {
		return types.ConditionSpec{}
	}

	return types.ConditionSpec{
		Operator:  payload.Operator,
		Threshold: payload.Threshold,
	}
}

func actionSpec(payload *types.ActionPayload) types.ActionSpec {
	if payload == nil {
		return types.ActionSpec{}
	}

	return types.ActionSpec{
		Kind:   payload.Kind,
		Amount: payload.Amount,
	}
}

func invalidResult(message string) types.CompileResult {
	return types.CompileResult{
		Valid:    false,
		Strategy: optional.None[types.Strategy](),
		Message:  message,
	}
}
