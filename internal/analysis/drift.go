package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Shift directions reported by the drift detector
type ShiftDirection string

const (
	ShiftUp   ShiftDirection = "up"
	ShiftDown ShiftDirection = "down"
)

// Shift marks one detected level change in a reward curve
type Shift struct {
	Episode   int            `json:"episode"`
	Direction ShiftDirection `json:"direction"`
	// Severity is the tripped sum as a multiple of the threshold
	Severity float64 `json:"severity"`
}

// DriftDetector flags sustained shifts of a series away from its
// reference level using two one-sided cumulative sums. Each sample
// contributes its deviation from the reference minus the drift
// allowance; a sum crossing the threshold signals a shift, after which
// the reference rebases onto the triggering value so one level change
// reports a bounded number of shifts.
type DriftDetector struct {
	drift     float64
	threshold float64
	reference float64
	upSum     float64
	downSum   float64
	samples   int
}

// NewDriftDetector creates a detector around an initial reference
// level. Drift is the per-sample slack, threshold the detection level.
func NewDriftDetector(reference, drift, threshold float64) *DriftDetector {
	return &DriftDetector{
		drift:     drift,
		threshold: threshold,
		reference: reference,
	}
}

// Observe folds one sample in. The boolean reports whether this sample
// tripped a shift.
func (d *DriftDetector) Observe(value float64) (Shift, bool) {
	d.samples++
	deviation := value - d.reference

	d.upSum = math.Max(0, d.upSum+deviation-d.drift)
	d.downSum = math.Max(0, d.downSum-deviation-d.drift)

	if d.upSum > d.threshold {
		shift := Shift{Episode: d.samples - 1, Direction: ShiftUp, Severity: d.upSum / d.threshold}
		d.rebase(value)
		return shift, true
	}
	if d.downSum > d.threshold {
		shift := Shift{Episode: d.samples - 1, Direction: ShiftDown, Severity: d.downSum / d.threshold}
		d.rebase(value)
		return shift, true
	}
	return Shift{}, false
}

// Reference returns the current reference level
func (d *DriftDetector) Reference() float64 {
	return d.reference
}

// Reset clears the sums and rebases onto a new reference
func (d *DriftDetector) Reset(reference float64) {
	d.reference = reference
	d.upSum = 0.0
	d.downSum = 0.0
	d.samples = 0
}

func (d *DriftDetector) rebase(value float64) {
	d.reference = value
	d.upSum = 0.0
	d.downSum = 0.0
}

// CurveReport summarizes the level changes of one training run
type CurveReport struct {
	Shifts []Shift `json:"shifts"`
	// ConvergedAt is the episode after which no further shift was
	// detected, zero when the curve never shifted
	ConvergedAt int  `json:"converged_at"`
	Improved    bool `json:"improved"`
}

const (
	// curveCalibrationWindow is how many leading episodes estimate the
	// reference level and noise scale
	curveCalibrationWindow = 10

	// Standard CUSUM parameterization: half a sigma of slack per
	// sample, detection at five sigma
	curveDriftSigma     = 0.5
	curveThresholdSigma = 5.0
)

// AnalyzeCurve scans a smoothed reward curve for level shifts and
// reports where learning settled. Detection parameters calibrate on
// the leading window; curves shorter than twice the window return an
// empty report.
func AnalyzeCurve(smoothed []float64) CurveReport {
	if len(smoothed) < 2*curveCalibrationWindow {
		return CurveReport{}
	}

	head := smoothed[:curveCalibrationWindow]
	reference := stat.Mean(head, nil)
	sigma := stat.StdDev(head, nil)

	// A dead-flat head still needs a usable noise scale. Tie it to the
	// curve's magnitude so thresholds stay proportionate.
	floor := 0.01 * math.Abs(reference)
	if floor < 1e-9 {
		floor = 1e-9
	}
	if sigma < floor {
		sigma = floor
	}

	detector := NewDriftDetector(reference, curveDriftSigma*sigma, curveThresholdSigma*sigma)

	report := CurveReport{}
	for i := curveCalibrationWindow; i < len(smoothed); i++ {
		if shift, tripped := detector.Observe(smoothed[i]); tripped {
			shift.Episode = i
			report.Shifts = append(report.Shifts, shift)
			report.ConvergedAt = i
		}
	}

	report.Improved = smoothed[len(smoothed)-1] > reference
	return report
}
