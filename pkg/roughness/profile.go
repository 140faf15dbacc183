// Package roughness discretizes the interfacial roughness between the layers
// of a material stack. It builds the shared step profile that grades every
// interface and expands a slab sequence into the homogeneous tiles consumed
// by the reflectivity recursion.
package roughness

import (
	"fmt"
	"math"
)

// MaxSteps is the largest allowed number of ordinate steps in an interfacial
// profile.
const MaxSteps = 100

// erfScale makes the error-function weight reach one half at the half-width
// ordinate of an interface.
const erfScale = 1.665

// Profile is the discretized roughness profile shared by every interface of
// a stack. Both slices hold steps+1 entries, one per ordinate. Each
// interface rescales the widths by its own interface width.
type Profile struct {
	// Widths are the normalized tile widths, symmetric about the center of
	// the interface.
	Widths []float64

	// Weights are the error-function blending weights in [-1, 1], odd about
	// the center of the interface.
	Weights []float64
}

// Steps returns the number of ordinate steps the profile was built with.
func (p *Profile) Steps() int {
	return len(p.Widths) - 1
}

// NewProfile builds the interfacial profile for the given number of ordinate
// steps. Counts below 1 are clamped to 1; counts above MaxSteps are
// rejected.
//
// The ordinates follow an inverse hyperbolic tangent mapping: for uniformly
// stepped d in (-1, 1), z = ln((1+d)/(1-d))/(2*1.665), so the grid is dense
// near the nominal interface and sparse in the wings. Each weight is
// erf(1.665*z). A second pass converts the ordinate positions into tile
// widths from the half-distances between neighbours, keeping the result
// symmetric.
func NewProfile(steps int) (*Profile, error) {
	if steps < 1 {
		steps = 1
	}
	if steps > MaxSteps {
		return nil, fmt.Errorf("%d ordinate steps exceed the maximum of %d", steps, MaxSteps)
	}

	z, weights, err := ordinates(steps)
	if err != nil {
		return nil, err
	}

	widths := make([]float64, steps+1)
	widths[0] = z[1] - z[0]
	widths[steps] = widths[0]
	for j := 1; j <= steps/2; j++ {
		w := 0.5 * (z[j+1] - z[j-1])
		widths[j] = w
		widths[steps-j] = w
	}

	return &Profile{Widths: widths, Weights: weights}, nil
}

// ordinates returns the symmetric ordinate grid and its error-function
// weights for the given step count.
func ordinates(steps int) ([]float64, []float64, error) {
	z := make([]float64, steps+1)
	weights := make([]float64, steps+1)
	for j := 0; j <= steps; j++ {
		d := float64(2*j-steps) / float64(steps+1)
		z[j] = math.Log((1.0+d)/(1.0-d)) / (2.0 * erfScale)
		w, err := checkedErf(erfScale * z[j])
		if err != nil {
			return nil, nil, err
		}
		weights[j] = w
	}
	return z, weights, nil
}

// checkedErf evaluates the error function and reports arguments for which
// the result is not a number.
func checkedErf(x float64) (float64, error) {
	v := math.Erf(x)
	if math.IsNaN(v) {
		return 0, fmt.Errorf("error function undefined for argument %v", x)
	}
	return v, nil
}
