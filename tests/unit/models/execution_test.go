package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/latencylab/edge-placement-rl/pkg/models"
	"github.com/latencylab/edge-placement-rl/tests/mocks"
)

// Node execution requirements:
// 1. Latency must combine processing time (size/capacity) and network time
// 2. Energy must equal tier power draw times total execution time
// 3. A failing latency source must degrade to the fallback, never abort
// 4. Load must accumulate per execution and clear on reset

type ExecutionTestSuite struct {
	suite.Suite
	edge   *models.Node
	cloud  *models.Node
	source *mocks.MockLatencySource
}

func (suite *ExecutionTestSuite) SetupTest() {
	suite.edge = models.NewNode(0, models.EDGE, 2.0)
	suite.cloud = models.NewNode(1, models.CLOUD, 8.0)
	suite.source = mocks.NewMockLatencySource(42)
}

// Test that latency combines processing and network components
func (suite *ExecutionTestSuite) TestLatencyComposition() {
	task := models.NewTask(1, models.IOT, 4.0, models.LOW)

	exec := suite.edge.Execute(task, suite.source)

	// 4MB over 2Mbps is 2s of processing; the mock answers 5ms on an
	// idle edge node.
	expectedMs := 2000.0 + 5.0
	assert.InDelta(suite.T(), expectedMs, exec.LatencyMs, 1e-9,
		"Latency should be processing plus network time")
	assert.False(suite.T(), exec.Degraded)

	require.Equal(suite.T(), 1, suite.source.CallCount())
	query := suite.source.Calls()[0]
	assert.Equal(suite.T(), models.EDGE, query.Node)
	assert.Equal(suite.T(), 0.0, query.Load, "First execution should see an idle node")
}

// Test that energy follows tier power draw
func (suite *ExecutionTestSuite) TestEnergyAccounting() {
	task := models.NewTask(1, models.ARVR, 8.0, models.HIGH)

	edgeExec := suite.edge.Execute(task, nil)
	cloudExec := suite.cloud.Execute(task, nil)

	// Edge: 4s at 10W. Cloud: 1s at 50W. Both plus the 1ms fallback.
	assert.InDelta(suite.T(), models.EdgePowerWatts*(4.0+0.001), edgeExec.EnergyJoules, 1e-9)
	assert.InDelta(suite.T(), models.CloudPowerWatts*(1.0+0.001), cloudExec.EnergyJoules, 1e-9)

	// The slower edge tier can still be cheaper on energy.
	assert.Less(suite.T(), edgeExec.EnergyJoules, cloudExec.EnergyJoules,
		"Edge should cost less energy for this task shape")
}

// Test that a failing source degrades gracefully
func (suite *ExecutionTestSuite) TestDegradationOnSourceFailure() {
	suite.source.SetFailureRate(1.0)
	task := models.NewTask(1, models.VANET, 2.0, models.MEDIUM)

	exec := suite.edge.Execute(task, suite.source)

	assert.True(suite.T(), exec.Degraded, "Failed query should mark the execution degraded")
	expectedMs := (2.0/2.0 + models.FallbackNetworkSeconds) * 1000
	assert.InDelta(suite.T(), expectedMs, exec.LatencyMs, 1e-9,
		"Fallback network time should substitute")
	assert.Equal(suite.T(), 2.0, suite.edge.CurrentLoad,
		"Load should accrue even when the source fails")
}

// Test transient failures via FailNext
func (suite *ExecutionTestSuite) TestTransientFailureRecovery() {
	suite.source.FailNext(1)
	task := models.NewTask(1, models.IOT, 1.0, models.LOW)

	first := suite.edge.Execute(task, suite.source)
	second := suite.edge.Execute(task, suite.source)

	assert.True(suite.T(), first.Degraded)
	assert.False(suite.T(), second.Degraded, "Mock should recover after the injected failure")
}

// Test load accumulation and reset
func (suite *ExecutionTestSuite) TestLoadLifecycle() {
	tasks := []models.Task{
		models.NewTask(1, models.IOT, 3.0, models.LOW),
		models.NewTask(2, models.VANET, 5.0, models.MEDIUM),
		models.NewTask(3, models.ARVR, 7.0, models.HIGH),
	}

	for _, task := range tasks {
		suite.edge.Execute(task, suite.source)
	}

	assert.InDelta(suite.T(), 15.0, suite.edge.CurrentLoad, 1e-9)
	assert.InDelta(suite.T(), 0.15, suite.edge.NormalizedLoad(), 1e-9)

	// The source sees the load grow between queries.
	calls := suite.source.Calls()
	require.Len(suite.T(), calls, 3)
	assert.Equal(suite.T(), 0.0, calls[0].Load)
	assert.InDelta(suite.T(), 0.03, calls[1].Load, 1e-9)
	assert.InDelta(suite.T(), 0.08, calls[2].Load, 1e-9)

	suite.edge.ResetLoad()
	assert.Equal(suite.T(), 0.0, suite.edge.CurrentLoad)
	assert.Equal(suite.T(), 0.0, suite.edge.NormalizedLoad())
}

// Test normalized load saturation
func (suite *ExecutionTestSuite) TestNormalizedLoadSaturates() {
	for i := 0; i < 30; i++ {
		suite.edge.Execute(models.NewTask(i, models.ARVR, 10.0, models.LOW), nil)
	}

	assert.Equal(suite.T(), 300.0, suite.edge.CurrentLoad)
	assert.Equal(suite.T(), 1.0, suite.edge.NormalizedLoad(),
		"Normalized load should clamp at full scale")
}

// Run the test suite
func TestExecutionSuite(t *testing.T) {
	suite.Run(t, new(ExecutionTestSuite))
}
