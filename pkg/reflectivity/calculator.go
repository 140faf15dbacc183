package reflectivity

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"neutronrefl/internal/models"
	"neutronrefl/pkg/roughness"
)

// Params holds the input parameters for a reflectivity computation.
type Params struct {
	// NumRough is the number of ordinate steps used to discretize the
	// interfacial roughness. Values below 1 are clamped to 1; values above
	// roughness.MaxSteps are rejected.
	NumRough int

	// DeltaQ0 is the constant term of the instrument resolution width.
	DeltaQ0 float64

	// DeltaQ1ByQ is the resolution term proportional to the wave vector.
	DeltaQ1ByQ float64

	// Wavelength is the wavelength of the incident neutrons in angstroms.
	// Zero or below yields an all-zero reflectivity curve.
	Wavelength float64

	// RQ4 scales each output value by the fourth power of its wave vector,
	// a common display convention that flattens the high-Q decay.
	RQ4 bool

	// NumCores is the number of worker goroutines used for the per-point
	// evaluation. Values below 1 fall back to 1.
	NumCores int
}

// ProgressCallback is a function type for progress reporting during
// computation.
type ProgressCallback func(completed, total int, message string)

// Calculator computes specular reflectivity profiles for slab stacks.
type Calculator struct {
	params           *Params
	progressCallback ProgressCallback
	progressMutex    sync.Mutex
}

// NewCalculator creates a calculator with the provided parameters.
func NewCalculator(params *Params) *Calculator {
	return &Calculator{params: params}
}

// SetProgressCallback installs a callback invoked while a computation runs.
// Install it before calling Compute.
func (c *Calculator) SetProgressCallback(callback ProgressCallback) {
	c.progressCallback = callback
}

// reportProgress invokes the progress callback if one is set. Workers report
// concurrently, so invocations are serialized.
func (c *Calculator) reportProgress(completed, total int, message string) {
	if c.progressCallback == nil {
		return
	}
	c.progressMutex.Lock()
	defer c.progressMutex.Unlock()
	c.progressCallback(completed, total, message)
}

// Compute runs the full pipeline for one stack and wave vector grid: it
// grades the interfaces into tiles, evaluates the ideal reflectivity on a
// grid extended for full kernel support, smears it with the instrument
// resolution, applies the optional RQ4 scaling, and derives the scattering
// density profile.
//
// The slabs and the wave vector are never modified; the returned profile
// owns its slices.
//
// Parameters:
//   - slabs: the material stack, ambient first and substrate last
//   - waveVector: strictly increasing momentum transfer values
//
// Returns:
//   - the assembled reflectivity profile, or an error describing the first
//     input or capacity problem found
func (c *Calculator) Compute(slabs []models.Slab, waveVector []float64) (*models.ReflectivityProfile, error) {
	if err := validateInput(slabs, waveVector); err != nil {
		return nil, err
	}
	if c.params.NumRough > roughness.MaxSteps {
		return nil, fmt.Errorf("%d roughness steps exceed the maximum of %d", c.params.NumRough, roughness.MaxSteps)
	}

	// Work in the frame of the incident medium: tile generation sees
	// scattering lengths relative to the ambient slab, and the callers'
	// slabs stay untouched.
	corrected := make([]models.Slab, len(slabs))
	copy(corrected, slabs)
	ambient := corrected[0].ScatteringLength
	for i := range corrected {
		corrected[i].ScatteringLength -= ambient
	}

	profile, err := roughness.NewProfile(c.params.NumRough)
	if err != nil {
		return nil, fmt.Errorf("failed to build interfacial profile: %v", err)
	}
	tiles, err := roughness.GenerateTiles(corrected, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tiles: %v", err)
	}

	res := Resolution{DeltaQ0: c.params.DeltaQ0, DeltaQ1ByQ: c.params.DeltaQ1ByQ}
	numPoints := len(waveVector)
	numLow := res.LowExtensionLength(waveVector)
	numHigh := res.HighExtensionLength(waveVector)
	if total := numLow + numPoints + numHigh; total > MaxWorkingPoints {
		return nil, fmt.Errorf("extended wave vector needs %d working points, maximum is %d", total, MaxWorkingPoints)
	}

	extended := extendWaveVector(waveVector, numLow, numHigh)
	ideal := c.idealCurve(extended, tiles)

	reflectivity := res.Smear(extended, ideal, numPoints, numLow)
	if c.params.RQ4 {
		for i := range reflectivity {
			reflectivity[i] *= math.Pow(waveVector[i], 4.0)
		}
	}

	depth, density := DensityProfile(tiles)

	echo := make([]float64, numPoints)
	copy(echo, waveVector)

	return &models.ReflectivityProfile{
		WaveVector:        echo,
		Reflectivity:      reflectivity,
		Depth:             depth,
		ScatteringDensity: density,
	}, nil
}

// validateInput rejects stacks and grids the pipeline cannot process.
func validateInput(slabs []models.Slab, waveVector []float64) error {
	if len(slabs) < 2 {
		return fmt.Errorf("a stack needs at least 2 slabs, got %d", len(slabs))
	}
	for i, slab := range slabs {
		if slab.InterfaceWidth < 0 {
			return fmt.Errorf("slab %d has negative interface width %v", i, slab.InterfaceWidth)
		}
	}
	for i := 1; i < len(slabs)-1; i++ {
		if slabs[i].Thickness <= 0 {
			return fmt.Errorf("interior slab %d has non-positive thickness %v", i, slabs[i].Thickness)
		}
	}
	if len(waveVector) < 2 {
		return fmt.Errorf("wave vector needs at least 2 points, got %d", len(waveVector))
	}
	for i := 1; i < len(waveVector); i++ {
		if waveVector[i] <= waveVector[i-1] {
			return fmt.Errorf("wave vector must be strictly increasing, entry %d is not", i)
		}
	}
	return nil
}

// extendWaveVector continues the grid uniformly on both sides using the edge
// spacings, giving the smearing kernel full support at the original
// endpoints.
func extendWaveVector(waveVector []float64, numLow, numHigh int) []float64 {
	numPoints := len(waveVector)
	extended := make([]float64, numLow+numPoints+numHigh)

	lowStep := waveVector[1] - waveVector[0]
	for i := 0; i < numLow; i++ {
		extended[i] = waveVector[0] - lowStep*float64(numLow-i)
	}
	copy(extended[numLow:], waveVector)
	highStep := waveVector[numPoints-1] - waveVector[numPoints-2]
	for i := 0; i < numHigh; i++ {
		extended[numLow+numPoints+i] = waveVector[numPoints-1] + highStep*float64(i+1)
	}

	return extended
}

// idealCurve evaluates the perfect-resolution reflectivity at every extended
// grid point, splitting the points into contiguous chunks across the
// configured number of workers. Each worker writes a disjoint range, so the
// result does not depend on scheduling.
func (c *Calculator) idealCurve(waveVector []float64, tiles []models.Tile) []float64 {
	total := len(waveVector)
	ideal := make([]float64, total)

	workers := c.params.NumCores
	if workers < 1 {
		workers = 1
	}
	if workers > total {
		workers = total
	}
	pointsPerWorker := (total + workers - 1) / workers

	c.reportProgress(0, total, "computing reflectivity")

	var completed int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(start int) {
			defer wg.Done()

			if start >= total {
				return
			}
			end := start + pointsPerWorker
			if end > total {
				end = total
			}
			for i := start; i < end; i++ {
				qEff := waveVector[i]
				if qEff < minWaveVector {
					qEff = minWaveVector
				}
				ideal[i] = SpecularReflectivity(qEff, c.params.Wavelength, tiles)
			}

			done := atomic.AddInt64(&completed, int64(end-start))
			c.reportProgress(int(done), total, "computing reflectivity")
		}(w * pointsPerWorker)
	}
	wg.Wait()

	return ideal
}
