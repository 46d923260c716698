package analysis

import (
	"math"
	"testing"
)

func TestNewDriftDetector(t *testing.T) {
	detector := NewDriftDetector(-100.0, 2.0, 20.0)

	if detector.reference != -100.0 {
		t.Errorf("Expected reference -100.0, got %f", detector.reference)
	}
	if detector.drift != 2.0 {
		t.Errorf("Expected drift 2.0, got %f", detector.drift)
	}
	if detector.threshold != 20.0 {
		t.Errorf("Expected threshold 20.0, got %f", detector.threshold)
	}
}

func TestDriftDetector_DetectsUpwardShift(t *testing.T) {
	detector := NewDriftDetector(0.0, 0.5, 5.0)

	for i := 0; i < 10; i++ {
		if _, tripped := detector.Observe(0.0); tripped {
			t.Fatalf("Expected no shift on the reference level at sample %d", i)
		}
	}

	// Each 2.0 adds 1.5 to the upward sum, crossing 5.0 on the fourth.
	var shift Shift
	tripped := false
	trips := 0
	for i := 0; i < 4; i++ {
		shift, tripped = detector.Observe(2.0)
		if tripped {
			trips++
		}
	}

	if trips != 1 {
		t.Fatalf("Expected exactly one shift, got %d", trips)
	}
	if !tripped {
		t.Fatal("Expected the fourth elevated sample to trip the shift")
	}
	if shift.Direction != ShiftUp {
		t.Errorf("Expected direction up, got %s", shift.Direction)
	}
	if shift.Episode != 13 {
		t.Errorf("Expected shift at sample 13, got %d", shift.Episode)
	}
	if math.Abs(shift.Severity-6.0/5.0) > 1e-12 {
		t.Errorf("Expected severity 1.2, got %f", shift.Severity)
	}
}

func TestDriftDetector_DetectsDownwardShift(t *testing.T) {
	detector := NewDriftDetector(0.0, 0.5, 5.0)

	var shift Shift
	tripped := false
	for i := 0; i < 4; i++ {
		shift, tripped = detector.Observe(-2.0)
	}

	if !tripped {
		t.Fatal("Expected four depressed samples to trip the shift")
	}
	if shift.Direction != ShiftDown {
		t.Errorf("Expected direction down, got %s", shift.Direction)
	}
}

func TestDriftDetector_RebasesAfterShift(t *testing.T) {
	detector := NewDriftDetector(0.0, 0.5, 5.0)

	for i := 0; i < 4; i++ {
		detector.Observe(2.0)
	}
	if detector.Reference() != 2.0 {
		t.Errorf("Expected reference rebased to 2.0, got %f", detector.Reference())
	}

	// The new level is now the reference, so holding it is quiet.
	for i := 0; i < 20; i++ {
		if _, tripped := detector.Observe(2.0); tripped {
			t.Fatalf("Expected no further shifts at the new level, sample %d", i)
		}
	}
}

func TestDriftDetector_IgnoresNoiseWithinDrift(t *testing.T) {
	detector := NewDriftDetector(0.0, 0.5, 5.0)

	for i := 0; i < 100; i++ {
		value := 0.4
		if i%2 == 1 {
			value = -0.4
		}
		if _, tripped := detector.Observe(value); tripped {
			t.Fatalf("Expected deviations inside the drift allowance to stay quiet, sample %d", i)
		}
	}
}

func TestDriftDetector_Reset(t *testing.T) {
	detector := NewDriftDetector(0.0, 0.5, 5.0)
	detector.Observe(3.0)
	detector.Observe(3.0)

	detector.Reset(5.0)

	if detector.Reference() != 5.0 {
		t.Errorf("Expected reference 5.0 after reset, got %f", detector.Reference())
	}
	if detector.upSum != 0.0 || detector.downSum != 0.0 {
		t.Error("Expected cleared sums after reset")
	}
	if detector.samples != 0 {
		t.Errorf("Expected sample count 0 after reset, got %d", detector.samples)
	}
}

func TestAnalyzeCurve_DetectsLearningShift(t *testing.T) {
	// Flat noisy floor, then a one-step improvement that holds.
	curve := make([]float64, 0, 30)
	for i := 0; i < 15; i++ {
		value := -2001.0
		if i%2 == 1 {
			value = -1999.0
		}
		curve = append(curve, value)
	}
	for i := 0; i < 15; i++ {
		curve = append(curve, -600.0)
	}

	report := AnalyzeCurve(curve)

	if len(report.Shifts) != 1 {
		t.Fatalf("Expected exactly one shift, got %d", len(report.Shifts))
	}
	if report.Shifts[0].Episode != 15 {
		t.Errorf("Expected the shift at episode 15, got %d", report.Shifts[0].Episode)
	}
	if report.Shifts[0].Direction != ShiftUp {
		t.Errorf("Expected an upward shift, got %s", report.Shifts[0].Direction)
	}
	if report.ConvergedAt != 15 {
		t.Errorf("Expected convergence at episode 15, got %d", report.ConvergedAt)
	}
	if !report.Improved {
		t.Error("Expected the curve to count as improved")
	}
}

func TestAnalyzeCurve_FlatCurveReportsNothing(t *testing.T) {
	curve := make([]float64, 30)
	for i := range curve {
		curve[i] = -500.0
	}

	report := AnalyzeCurve(curve)

	if len(report.Shifts) != 0 {
		t.Errorf("Expected no shifts on a flat curve, got %d", len(report.Shifts))
	}
	if report.ConvergedAt != 0 {
		t.Errorf("Expected converged-at 0 on a flat curve, got %d", report.ConvergedAt)
	}
	if report.Improved {
		t.Error("Expected a flat curve not to count as improved")
	}
}

func TestAnalyzeCurve_DetectsRegression(t *testing.T) {
	curve := make([]float64, 0, 30)
	for i := 0; i < 20; i++ {
		curve = append(curve, -600.0)
	}
	for i := 0; i < 10; i++ {
		curve = append(curve, -1500.0)
	}

	report := AnalyzeCurve(curve)

	if len(report.Shifts) == 0 {
		t.Fatal("Expected the collapse to register as a shift")
	}
	if report.Shifts[0].Direction != ShiftDown {
		t.Errorf("Expected a downward shift, got %s", report.Shifts[0].Direction)
	}
	if report.Improved {
		t.Error("Expected a collapsing curve not to count as improved")
	}
}

func TestAnalyzeCurve_ShortCurveIsEmpty(t *testing.T) {
	report := AnalyzeCurve(make([]float64, 15))

	if len(report.Shifts) != 0 || report.ConvergedAt != 0 {
		t.Error("Expected an empty report for a curve shorter than the calibration window")
	}
}
