// Package reflectivity computes specular neutron reflectivity curves for
// layered material stacks. The core follows the recursive method of Parratt
// [Phys. Rev. 95, 359 (1954)], extended with complex wave vectors so true
// and incoherent absorption attenuate the beam, Gaussian resolution smearing
// of the ideal curve, and a real-space scattering density profile of the
// graded stack.
package reflectivity

import (
	"math"
	"math/cmplx"

	"neutronrefl/internal/models"
)

// SpecularReflectivity returns the squared modulus of the specular
// reflectivity amplitude of a tile stack at a single wave vector.
//
// The recursion starts at the bottom-most tile, which is treated as a bulk
// medium with no reflected beam, and folds the Fresnel amplitude of each
// interface upward through the stack. A wavelength of zero or below carries
// no beam and yields zero reflectivity.
//
// Parameters:
//   - waveVectorQ: momentum transfer in inverse angstroms
//   - wavelength: wavelength of the incident neutrons in angstroms
//   - tiles: homogeneous layers ordered top to bottom
//
// Returns:
//   - the reflectivity, the squared modulus of the amplitude
func SpecularReflectivity(waveVectorQ, wavelength float64, tiles []models.Tile) float64 {
	if wavelength <= 0.0 || len(tiles) == 0 {
		return 0.0
	}

	r := complex(0.0, 0.0)
	qLower := waveVectorNormal(waveVectorQ, wavelength, tiles[len(tiles)-1])

	for i := len(tiles) - 1; i > 0; i-- {
		tile := tiles[i-1]
		qUpper := waveVectorNormal(waveVectorQ, wavelength, tile)

		// Half-thickness propagation factor through the upper tile. The
		// real part of q ends up in the exponent's imaginary part and vice
		// versa, so absorption decays the amplitude.
		phase := cmplx.Exp(complex(-0.5*tile.Thickness*imag(qUpper), -0.5*tile.Thickness*real(qUpper)))
		fresnel := (qUpper - qLower) / (qUpper + qLower)

		r = phase * phase * (r + fresnel) / (r*fresnel + 1)
		qLower = qUpper
	}

	return real(r)*real(r) + imag(r)*imag(r)
}

// waveVectorNormal returns the normal component of the wave vector inside a
// tile. The principal branch of the complex square root keeps the imaginary
// part matched to the absorption term, so waves decay instead of growing.
func waveVectorNormal(waveVectorQ, wavelength float64, tile models.Tile) complex128 {
	critical := 16.0 * math.Pi * tile.ScatteringLength
	absorption := 4.0 * math.Pi * (tile.TrueAbsLength + tile.IncAbsLength/wavelength)
	return cmplx.Sqrt(complex(waveVectorQ*waveVectorQ-critical, -2.0*absorption))
}
