package workload

import (
	"testing"

	"github.com/latencylab/edge-placement-rl/pkg/models"
)

func TestDefaultProfiles_Valid(t *testing.T) {
	profiles := DefaultProfiles()
	if len(profiles) != 3 {
		t.Fatalf("Expected 3 profiles, got %d", len(profiles))
	}

	for _, profile := range profiles {
		if err := profile.Validate(); err != nil {
			t.Errorf("Expected profile %s to validate, got %v", profile.App, err)
		}
	}
}

func TestAppProfile_ValidateRejects(t *testing.T) {
	testCases := []struct {
		name    string
		profile AppProfile
	}{
		{"unknown app", AppProfile{App: "batch", MinSizeMB: 1, MaxSizeMB: 2,
			Priorities: PriorityMix{Low: 1}}},
		{"zero min size", AppProfile{App: models.IOT, MinSizeMB: 0, MaxSizeMB: 2,
			Priorities: PriorityMix{Low: 1}}},
		{"inverted range", AppProfile{App: models.IOT, MinSizeMB: 5, MaxSizeMB: 2,
			Priorities: PriorityMix{Low: 1}}},
		{"zero weights", AppProfile{App: models.IOT, MinSizeMB: 1, MaxSizeMB: 2}},
	}

	for _, tc := range testCases {
		if err := tc.profile.Validate(); err == nil {
			t.Errorf("Expected validation error for %s, got nil", tc.name)
		}
	}
}

func TestGenerator_SamplesStayInProfile(t *testing.T) {
	gen := NewGenerator(42)

	bounds := make(map[models.AppType][2]float64)
	for _, profile := range DefaultProfiles() {
		bounds[profile.App] = [2]float64{profile.MinSizeMB, profile.MaxSizeMB}
	}

	for i := 0; i < 1000; i++ {
		task := gen.Sample(i)
		if err := task.Validate(); err != nil {
			t.Fatalf("Sampled task failed validation: %v", err)
		}

		span, ok := bounds[task.AppType]
		if !ok {
			t.Fatalf("Sampled unknown app type %s", task.AppType)
		}
		if task.SizeMB < span[0] || task.SizeMB > span[1] {
			t.Errorf("Expected %s size in [%f, %f], got %f",
				task.AppType, span[0], span[1], task.SizeMB)
		}
	}
}

func TestGenerator_CoversAllApps(t *testing.T) {
	gen := NewGenerator(42)

	seen := make(map[models.AppType]int)
	for i := 0; i < 300; i++ {
		seen[gen.Sample(i).AppType]++
	}

	for _, app := range models.ValidAppTypes() {
		if seen[app] == 0 {
			t.Errorf("Expected app %s to appear in 300 samples", app)
		}
	}
}

func TestGenerator_DeterministicPerSeed(t *testing.T) {
	a := NewGenerator(7)
	b := NewGenerator(7)

	for i := 0; i < 200; i++ {
		ta, tb := a.Sample(i), b.Sample(i)
		if ta != tb {
			t.Fatalf("Expected identical tasks for equal seeds at %d, got %+v and %+v",
				i, ta, tb)
		}
	}

	c := NewGenerator(8)
	diverged := false
	for i := 0; i < 200; i++ {
		if a.Sample(i) != c.Sample(i) {
			diverged = true
			break
		}
	}
	if !diverged {
		t.Error("Expected different seeds to diverge")
	}
}

func TestGenerator_SizesRounded(t *testing.T) {
	gen := NewGenerator(42)

	for i := 0; i < 100; i++ {
		task := gen.Sample(i)
		rounded := round3(task.SizeMB)
		if task.SizeMB != rounded {
			t.Errorf("Expected size rounded to 3 decimals, got %v", task.SizeMB)
		}
	}
}

func TestGenerator_Batch(t *testing.T) {
	gen := NewGenerator(42)
	tasks := gen.Batch(100, 50)

	if len(tasks) != 50 {
		t.Fatalf("Expected 50 tasks, got %d", len(tasks))
	}
	for i, task := range tasks {
		if task.ID != 100+i {
			t.Errorf("Expected ID %d at position %d, got %d", 100+i, i, task.ID)
		}
	}
}

func TestGenerator_TimelineArrivalsIncrease(t *testing.T) {
	gen := NewGenerator(42)
	entries := gen.Timeline(0, 200, 5.0)

	if len(entries) != 200 {
		t.Fatalf("Expected 200 entries, got %d", len(entries))
	}

	previous := 0.0
	for i, entry := range entries {
		if entry.ArrivalSec < previous {
			t.Errorf("Expected non-decreasing arrivals, got %f after %f at %d",
				entry.ArrivalSec, previous, i)
		}
		previous = entry.ArrivalSec
	}

	// Around 5 tasks per second, 200 arrivals should span roughly 40s.
	last := entries[len(entries)-1].ArrivalSec
	if last < 20.0 || last > 80.0 {
		t.Errorf("Expected timeline span near 40s at rate 5/s, got %f", last)
	}
}

func TestNewGeneratorWithProfiles_RejectsInvalid(t *testing.T) {
	if _, err := NewGeneratorWithProfiles(nil, 42); err == nil {
		t.Error("Expected error for empty profile set, got nil")
	}

	bad := []AppProfile{{App: models.IOT, MinSizeMB: 5, MaxSizeMB: 2,
		Priorities: PriorityMix{Low: 1}}}
	if _, err := NewGeneratorWithProfiles(bad, 42); err == nil {
		t.Error("Expected error for invalid profile, got nil")
	}
}

func TestUniformSampler_CoversAttributeSpace(t *testing.T) {
	sampler := NewUniformSampler(42)

	apps := make(map[models.AppType]int)
	priorities := make(map[models.TaskPriority]int)
	for i := 0; i < 600; i++ {
		task := sampler.Sample(i)
		if task.SizeMB < sampler.MinSizeMB || task.SizeMB > sampler.MaxSizeMB {
			t.Errorf("Expected size in [%f, %f], got %f",
				sampler.MinSizeMB, sampler.MaxSizeMB, task.SizeMB)
		}
		apps[task.AppType]++
		priorities[task.Priority]++
	}

	if len(apps) != 3 {
		t.Errorf("Expected all 3 app types, got %d", len(apps))
	}
	if len(priorities) != 3 {
		t.Errorf("Expected all 3 priorities, got %d", len(priorities))
	}
}

func TestPriorityMix_Pick(t *testing.T) {
	mix := PriorityMix{Low: 0.6, Medium: 0.3, High: 0.1}

	testCases := []struct {
		u        float64
		expected models.TaskPriority
	}{
		{0.0, models.LOW},
		{0.59, models.LOW},
		{0.61, models.MEDIUM},
		{0.89, models.MEDIUM},
		{0.91, models.HIGH},
		{0.999, models.HIGH},
	}

	for _, tc := range testCases {
		if got := mix.pick(tc.u); got != tc.expected {
			t.Errorf("Expected %s for u=%f, got %s", tc.expected, tc.u, got)
		}
	}
}
