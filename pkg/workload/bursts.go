package workload

import (
	"fmt"
	"math"
)

// BurstProfile shapes recurring load bursts layered over the base
// arrival stream. Burst starts follow exponential quiet gaps measured
// from the previous burst's end; inside a window the arrival rate is
// the base rate times the multiplier.
type BurstProfile struct {
	RateMultiplier float64 `json:"rate_multiplier"`
	MeanQuietSec   float64 `json:"mean_quiet_sec"`
	DurationSec    float64 `json:"duration_sec"`
}

// DefaultBurstProfile returns a flash-crowd shape: short windows at
// eight times the base rate, a minute or so apart.
func DefaultBurstProfile() BurstProfile {
	return BurstProfile{
		RateMultiplier: 8.0,
		MeanQuietSec:   60.0,
		DurationSec:    8.0,
	}
}

// Validate validates the burst profile
func (p BurstProfile) Validate() error {
	if p.RateMultiplier <= 1 {
		return fmt.Errorf("rate multiplier must exceed 1, got %.2f", p.RateMultiplier)
	}
	if p.MeanQuietSec <= 0 {
		return fmt.Errorf("mean quiet gap must be positive, got %.2f", p.MeanQuietSec)
	}
	if p.DurationSec <= 0 {
		return fmt.Errorf("burst duration must be positive, got %.2f", p.DurationSec)
	}
	return nil
}

// BurstTimeline draws count tasks whose arrivals alternate between the
// base Poisson rate and burst windows at the profile's elevated rate.
// The rate is piecewise constant, so gaps that would cross a window
// boundary are cut at the boundary and redrawn at the new rate.
func (g *Generator) BurstTimeline(startID, count int, ratePerSec float64, profile BurstProfile) ([]Entry, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if ratePerSec <= 0 {
		return nil, fmt.Errorf("arrival rate must be positive, got %.2f", ratePerSec)
	}

	entries := make([]Entry, 0, count)
	clock := 0.0
	burstEnd := math.Inf(-1)
	nextBurst := g.rng.ExpFloat64() * profile.MeanQuietSec

	for i := 0; i < count; i++ {
		for {
			inBurst := clock < burstEnd
			rate := ratePerSec
			boundary := nextBurst
			if inBurst {
				rate *= profile.RateMultiplier
				boundary = burstEnd
			}

			gap := g.rng.ExpFloat64() / rate
			if clock+gap <= boundary {
				clock += gap
				break
			}

			// Crossed into or out of a window, advance to the
			// boundary and redraw at the rate beyond it.
			clock = boundary
			if !inBurst {
				burstEnd = nextBurst + profile.DurationSec
				nextBurst = burstEnd + g.rng.ExpFloat64()*profile.MeanQuietSec
			}
		}

		entries = append(entries, Entry{
			Task:       g.Sample(startID + i),
			ArrivalSec: round3(clock),
		})
	}

	return entries, nil
}
