package reflectivity

import "neutronrefl/internal/models"

// surfaceDepth marks the top of the ambient layer in the density profile, so
// the ambient level is visible when the profile is plotted.
const surfaceDepth = -10.0

// DensityProfile converts a tile stack into a real-space step profile of the
// scattering length density, two samples per tile so the curve plots as
// steps. Every value carries the ambient tile's scattering length as offset,
// keeping the profile referenced to the incident medium.
//
// The returned slices have 2*len(tiles) entries; both are nil for an empty
// stack.
func DensityProfile(tiles []models.Tile) (depth, density []float64) {
	if len(tiles) == 0 {
		return nil, nil
	}

	depth = make([]float64, 2*len(tiles))
	density = make([]float64, 2*len(tiles))

	depth[0] = surfaceDepth
	density[0] = 2.0 * tiles[0].ScatteringLength
	sum := tiles[0].Thickness
	depth[1] = sum
	density[1] = density[0]

	for i := 1; i < len(tiles); i++ {
		depth[2*i] = sum
		sum += tiles[i].Thickness
		depth[2*i+1] = sum
		density[2*i] = tiles[i].ScatteringLength + tiles[0].ScatteringLength
		density[2*i+1] = density[2*i]
	}

	return depth, density
}
