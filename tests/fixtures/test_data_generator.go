package fixtures

import (
	"math/rand"

	"github.com/latencylab/edge-placement-rl/pkg/models"
)

// TestDataGenerator creates realistic task populations and cost
// samples for algorithm validation. One seed fixes every stream.
type TestDataGenerator struct {
	rand *rand.Rand
	seed int64
}

func NewTestDataGenerator(seed int64) *TestDataGenerator {
	return &TestDataGenerator{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

func (g *TestDataGenerator) GetSeed() int64 {
	return g.seed
}

// GenerateTasks creates a mixed task population with realistic
// app-size correlation: telemetry stays small, AR/VR streams run large.
func (g *TestDataGenerator) GenerateTasks(count int) []models.Task {
	tasks := make([]models.Task, count)

	for i := 0; i < count; i++ {
		var app models.AppType
		var size float64

		switch g.rand.Intn(3) {
		case 0:
			app = models.IOT
			size = 0.5 + g.rand.Float64()*2.5
		case 1:
			app = models.ARVR
			size = 5.0 + g.rand.Float64()*7.0
		default:
			app = models.VANET
			size = 2.0 + g.rand.Float64()*6.0
		}

		priorities := models.ValidTaskPriorities()
		tasks[i] = models.NewTask(i, app, size, priorities[g.rand.Intn(len(priorities))])
	}

	return tasks
}

// GenerateSmallTasks creates tasks that a size-threshold heuristic
// sends to the edge
func (g *TestDataGenerator) GenerateSmallTasks(count int) []models.Task {
	tasks := make([]models.Task, count)
	for i := 0; i < count; i++ {
		tasks[i] = models.NewTask(i, models.IOT, 0.5+g.rand.Float64()*2.0, models.LOW)
	}
	return tasks
}

// GenerateLargeTasks creates tasks past the medium size bucket
func (g *TestDataGenerator) GenerateLargeTasks(count int) []models.Task {
	tasks := make([]models.Task, count)
	for i := 0; i < count; i++ {
		tasks[i] = models.NewTask(i, models.ARVR, 10.0+g.rand.Float64()*5.0, models.LOW)
	}
	return tasks
}

// GenerateLoadLevels creates normalized load samples across the full
// range, clamped into [0,1]
func (g *TestDataGenerator) GenerateLoadLevels(count int) []float64 {
	loads := make([]float64, count)
	for i := 0; i < count; i++ {
		loads[i] = clampFloat64(g.rand.Float64()*1.2-0.1, 0.0, 1.0)
	}
	return loads
}

// GenerateRewardCurve creates a noisy improving reward curve like a
// converging training run produces
func (g *TestDataGenerator) GenerateRewardCurve(episodes int, start, end float64) []float64 {
	curve := make([]float64, episodes)
	span := float64(episodes - 1)
	if span < 1 {
		span = 1
	}
	for i := 0; i < episodes; i++ {
		progress := float64(i) / span
		noise := (g.rand.Float64() - 0.5) * 0.1 * (start - end)
		curve[i] = start + (end-start)*progress + noise
	}
	return curve
}

func clampFloat64(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
