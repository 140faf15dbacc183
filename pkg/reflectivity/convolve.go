package reflectivity

import "math"

// MaxWorkingPoints is the largest extended grid the smearing stage accepts,
// counting the original wave vector plus both extensions.
const MaxWorkingPoints = 2000

// weightCutoff stops a convolution walk once the squared distance over the
// kernel width exceeds it, where the Gaussian weight has fallen to roughly
// one part in a thousand.
const weightCutoff = 6.908

// minWidthSq is the floor of the squared-width term of the resolution
// kernel, keeping the smearing well defined at zero resolution.
const minWidthSq = 1.0e-10

// minWaveVector guards kernel evaluations at vanishing or negative momentum
// transfer, which extended grids can reach.
const minWaveVector = 1.0e-10

// Resolution models the instrument resolution as a Gaussian whose full width
// at half maximum grows linearly with the wave vector,
// dQ = DeltaQ0 + Q*DeltaQ1ByQ. With both coefficients zero the smearing
// reduces to the identity.
type Resolution struct {
	// DeltaQ0 is the constant term of the resolution width.
	DeltaQ0 float64

	// DeltaQ1ByQ is the term proportional to the wave vector.
	DeltaQ1ByQ float64
}

// twoSigmaSq returns the clamped 2*sigma^2 term of the Gaussian kernel at
// the given wave vector.
func (res Resolution) twoSigmaSq(waveVectorQ float64) float64 {
	qDel := res.DeltaQ0 + waveVectorQ*res.DeltaQ1ByQ
	width := 2.0 * qDel * qDel / (8.0 * math.Ln2)
	if width < minWidthSq {
		width = minWidthSq
	}
	return width
}

// LowExtensionLength returns the number of grid points the wave vector needs
// below its first entry so the kernel there has full support. The wave
// vector must be strictly increasing with at least two entries.
func (res Resolution) LowExtensionLength(waveVector []float64) int {
	return extensionLength(res.twoSigmaSq(waveVector[0]), waveVector[1]-waveVector[0])
}

// HighExtensionLength is the counterpart of LowExtensionLength above the
// last entry of the wave vector.
func (res Resolution) HighExtensionLength(waveVector []float64) int {
	n := len(waveVector)
	return extensionLength(res.twoSigmaSq(waveVector[n-1]), waveVector[n-1]-waveVector[n-2])
}

// extensionLength counts outward steps until the kernel weight drops below
// the cutoff. Counting past the working capacity is pointless, the
// calculator rejects such grids, so the walk stops there.
func extensionLength(twoSigmaSq, qStep float64) int {
	count := 0
	for qR := 0.0; qR*qR/twoSigmaSq < weightCutoff; qR += qStep {
		count++
		if count > MaxWorkingPoints {
			break
		}
	}
	return count
}

// Smear convolves a reflectivity curve with the Gaussian resolution kernel.
// Both input slices cover the extended grid; the numPoints original values
// start at offset numLow. Around each point the kernel is accumulated in two
// directional walks that stop independently at the weight cutoff or the grid
// edge, and the weighted sum is normalized by the accumulated weight.
//
// The returned slice holds the numPoints smeared values on the original
// grid.
func (res Resolution) Smear(waveVector, reflectivity []float64, numPoints, numLow int) []float64 {
	smeared := make([]float64, numPoints)

	for i := numLow; i < numLow+numPoints; i++ {
		qEff := waveVector[i]
		if qEff < minWaveVector {
			qEff = minWaveVector
		}
		twoSigmaSq := res.twoSigmaSq(qEff)

		norm := 1.0
		sum := reflectivity[i]
		lowDone, highDone := false, false
		for step := 1; !lowDone || !highDone; step++ {
			if !lowDone {
				j := i - step
				if j < 0 {
					lowDone = true
				} else {
					qRes := waveVector[j] - waveVector[i]
					if qRes*qRes/twoSigmaSq < weightCutoff {
						weight := math.Exp(-qRes * qRes / twoSigmaSq)
						norm += weight
						sum += weight * reflectivity[j]
					} else {
						lowDone = true
					}
				}
			}
			if !highDone {
				j := i + step
				if j >= len(waveVector) {
					highDone = true
				} else {
					qRes := waveVector[j] - waveVector[i]
					if qRes*qRes/twoSigmaSq < weightCutoff {
						weight := math.Exp(-qRes * qRes / twoSigmaSq)
						norm += weight
						sum += weight * reflectivity[j]
					} else {
						highDone = true
					}
				}
			}
		}
		smeared[i-numLow] = sum / norm
	}

	return smeared
}
