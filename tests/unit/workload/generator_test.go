package workload_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/latencylab/edge-placement-rl/pkg/models"
	"github.com/latencylab/edge-placement-rl/pkg/workload"
)

// Workload generator test requirements:
// 1. Every sampled task must validate and respect its app profile
// 2. One seed must reproduce the identical task stream
// 3. Priority weights must hold over a large sample
// 4. Timeline arrivals must be ordered and track the configured rate
// 5. Custom profiles must be validated at construction

type GeneratorTestSuite struct {
	suite.Suite
	generator *workload.Generator
}

func (suite *GeneratorTestSuite) SetupTest() {
	suite.generator = workload.NewGenerator(42)
}

// Test that sampled tasks stay inside their profiles
func (suite *GeneratorTestSuite) TestSamplesHonorProfiles() {
	bounds := make(map[models.AppType][2]float64)
	for _, profile := range workload.DefaultProfiles() {
		bounds[profile.App] = [2]float64{profile.MinSizeMB, profile.MaxSizeMB}
	}

	for i := 0; i < 500; i++ {
		task := suite.generator.Sample(i)
		require.NoError(suite.T(), task.Validate(), "Sampled task %d should validate", i)

		span, known := bounds[task.AppType]
		require.True(suite.T(), known, "Sampled app %s should come from a profile", task.AppType)
		assert.GreaterOrEqual(suite.T(), task.SizeMB, span[0])
		assert.LessOrEqual(suite.T(), task.SizeMB, span[1])
	}
}

// Test stream reproducibility per seed
func (suite *GeneratorTestSuite) TestStreamIsReproducible() {
	twin := workload.NewGenerator(42)
	for i := 0; i < 100; i++ {
		assert.Equal(suite.T(), suite.generator.Sample(i), twin.Sample(i),
			"Same seed should reproduce task %d", i)
	}

	reference := workload.NewGenerator(42)
	other := workload.NewGenerator(43)
	diverged := false
	for i := 0; i < 100; i++ {
		if reference.Sample(i) != other.Sample(i) {
			diverged = true
			break
		}
	}
	assert.True(suite.T(), diverged, "A different seed should change the stream")
}

// Test that priority weights hold over a large sample
func (suite *GeneratorTestSuite) TestPriorityWeightsHold() {
	const samples = 3000
	counts := make(map[models.AppType]int)
	lowCounts := make(map[models.AppType]int)

	for i := 0; i < samples; i++ {
		task := suite.generator.Sample(i)
		counts[task.AppType]++
		if task.Priority == models.LOW {
			lowCounts[task.AppType]++
		}
	}

	var expected workload.AppProfile
	for _, profile := range workload.DefaultProfiles() {
		if profile.App == models.IOT {
			expected = profile
		}
	}
	require.Greater(suite.T(), counts[models.IOT], 500,
		"Uniform app choice should cover IoT heavily at this sample size")

	lowShare := float64(lowCounts[models.IOT]) / float64(counts[models.IOT])
	assert.InDelta(suite.T(), expected.Priorities.Low, lowShare, 0.1,
		"IoT low-priority share should track the profile weight")
}

// Test timeline ordering and rate
func (suite *GeneratorTestSuite) TestTimelineTracksRate() {
	const count = 150
	const rate = 10.0

	entries := suite.generator.Timeline(0, count, rate)
	require.Len(suite.T(), entries, count)

	previous := 0.0
	for i, entry := range entries {
		assert.GreaterOrEqual(suite.T(), entry.ArrivalSec, previous,
			"Arrival %d should not precede its predecessor", i)
		assert.NoError(suite.T(), entry.Task.Validate())
		assert.Equal(suite.T(), i, entry.Task.ID)
		previous = entry.ArrivalSec
	}

	// Poisson arrivals at 10/s should span roughly 15 seconds.
	span := entries[count-1].ArrivalSec
	assert.Greater(suite.T(), span, 7.5, "Timeline span should reflect the arrival rate")
	assert.Less(suite.T(), span, 25.0, "Timeline span should reflect the arrival rate")
}

// Test custom profile validation
func (suite *GeneratorTestSuite) TestCustomProfilesValidated() {
	_, err := workload.NewGeneratorWithProfiles(nil, 1)
	assert.Error(suite.T(), err, "Empty profile sets should be rejected")

	inverted := []workload.AppProfile{{
		App:        models.IOT,
		MinSizeMB:  5.0,
		MaxSizeMB:  2.0,
		Priorities: workload.PriorityMix{Low: 1.0},
	}}
	_, err = workload.NewGeneratorWithProfiles(inverted, 1)
	assert.Error(suite.T(), err, "Inverted size bounds should be rejected")

	only := []workload.AppProfile{{
		App:        models.VANET,
		MinSizeMB:  1.0,
		MaxSizeMB:  2.0,
		Priorities: workload.PriorityMix{Low: 0.5, Medium: 0.5},
	}}
	generator, err := workload.NewGeneratorWithProfiles(only, 1)
	require.NoError(suite.T(), err)

	for _, task := range generator.Batch(0, 50) {
		assert.Equal(suite.T(), models.VANET, task.AppType,
			"A single-profile generator should only emit that app")
		assert.NotEqual(suite.T(), models.HIGH, task.Priority,
			"A zero-weight priority should never be drawn")
	}
}

// Run the test suite
func TestGeneratorSuite(t *testing.T) {
	suite.Run(t, new(GeneratorTestSuite))
}
