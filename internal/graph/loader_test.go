package graph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/argo-strategy/internal/types"
	"github.com/stretchr/testify/suite"
)

type LoaderTestSuite struct {
	suite.Suite
}

func TestLoaderSuite(t *testing.T) {
	suite.Run(t, new(LoaderTestSuite))
}

const graphDocument = `nodes:
  - id: n1
    role: indicator
    payload:
      indicator:
        type: rsi
        period: 14
  - id: n2
    role: logic
    payload:
      logic:
        operator: lt
        threshold: 30
  - id: n3
    role: action
    payload:
      action:
        kind: buy
        amount: 100
edges:
  - source: n1
    target: n2
  - source: n2
    target: n3
`

func (suite *LoaderTestSuite) TestLoadGraphFile() {
	path := filepath.Join(suite.T().TempDir(), "graph.yaml")
	suite.NoError(os.WriteFile(path, []byte(graphDocument), 0644))

	graph, err := LoadGraphFile(path)
	suite.NoError(err)
	suite.Len(graph.Nodes, 3)
	suite.Len(graph.Edges, 2)

	result := Compile(graph)
	suite.True(result.Valid)

	strategy := result.Strategy.Unwrap()
	suite.Equal(types.IndicatorTypeRSI, strategy.Indicator.Type)
	suite.Equal(14, strategy.Indicator.Period)
	suite.Equal(types.OperatorLessThan, strategy.Condition.Operator)
}

func (suite *LoaderTestSuite) TestLoadGraphFileMissing() {
	_, err := LoadGraphFile(filepath.Join(suite.T().TempDir(), "missing.yaml"))
	suite.Error(err)
}

func (suite *LoaderTestSuite) TestLoadGraphFileMalformed() {
	path := filepath.Join(suite.T().TempDir(), "bad.yaml")
	suite.NoError(os.WriteFile(path, []byte("nodes: [::not yaml"), 0644))

	_, err := LoadGraphFile(path)
	suite.Error(err)
}
