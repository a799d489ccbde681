package graph

import (
	"fmt"
	"os"

	"github.com/rxtech-lab/argo-strategy/internal/types"
	"gopkg.in/yaml.v3"
)

// LoadGraphFile reads a strategy graph from a YAML document of the form:
//
//	nodes:
//	  - id: n1
//	    role: indicator
//	    payload:
//	      indicator: {type: rsi, period: 14}
//	  - id: n2
//	    role: logic
//	    payload:
//	      logic: {operator: lt, threshold: 30}
//	  - id: n3
//	    role: action
//	    payload:
//	      action: {kind: buy, amount: 100}
//	edges:
//	  - {source: n1, target: n2}
//	  - {source: n2, target: n3}
//
// Only I/O and syntax problems are errors here; semantic validation belongs
// to Compile.
func LoadGraphFile(path string) (types.StrategyGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.StrategyGraph{}, fmt.Errorf("failed to read graph file: %w", err)
	}

	var graph types.StrategyGraph
	if err := yaml.Unmarshal(data, &graph); err != nil {
		return types.StrategyGraph{}, fmt.Errorf("failed to parse graph file: %w", err)
	}

	return graph, nil
}
