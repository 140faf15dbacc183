package roughness

import (
	"fmt"

	"neutronrefl/internal/models"
)

// GenerateTiles expands a stack of slabs into the ordered sequence of
// homogeneous tiles used by the reflectivity recursion, grading every
// interface with the given profile.
//
// The ambient slab and the substrate each contribute one tile with their own
// properties. Every interface contributes up to steps+1 graded tiles, split
// at the center: the lower-index half of the profile lies in the layer above
// the interface, the upper-index half in the layer below. When the two
// interface zones inside an interior layer overlap, the whole layer is
// graded in uniform sub-steps instead.
//
// Tiles are ordered top to bottom, ambient first. The slabs are not
// modified.
func GenerateTiles(slabs []models.Slab, prof *Profile) ([]models.Tile, error) {
	if len(slabs) < 2 {
		return nil, fmt.Errorf("a stack needs at least 2 slabs, got %d", len(slabs))
	}

	steps := prof.Steps()
	half := steps / 2

	// Normalized widths of the two profile halves, used to decide whether
	// the interface zones inside a layer overlap.
	var lowerHalf, upperHalf float64
	for j := 0; j <= half; j++ {
		lowerHalf += prof.Widths[j]
	}
	for j := half + 1; j <= steps; j++ {
		upperHalf += prof.Widths[j]
	}

	tiles := make([]models.Tile, 0, 2+(steps+2)*(len(slabs)-1))

	// Ambient layer, then the ambient-side half of the first interface.
	tiles = append(tiles, tileFromSlab(slabs[0]))
	tiles = appendInterfaceHalf(tiles, prof, 0, half, slabs[0], slabs[1])

	for i := 1; i < len(slabs)-1; i++ {
		above, slab, below := slabs[i-1], slabs[i], slabs[i+1]

		// Bulk thickness left once the interface zones entering from the
		// top and leaving through the bottom are carved out of the layer.
		mid := slab.Thickness - upperHalf*slab.InterfaceWidth - lowerHalf*below.InterfaceWidth
		if mid <= 1.0e-10 {
			var err error
			tiles, err = appendGradedLayer(tiles, steps, above, slab, below)
			if err != nil {
				return nil, fmt.Errorf("failed to grade layer %d: %v", i, err)
			}
			continue
		}

		tiles = appendInterfaceHalf(tiles, prof, half+1, steps, above, slab)
		bulk := tileFromSlab(slab)
		bulk.Thickness = mid
		tiles = append(tiles, bulk)
		tiles = appendInterfaceHalf(tiles, prof, 0, half, slab, below)
	}

	// Substrate-side half of the last interface, then the substrate.
	substrate := slabs[len(slabs)-1]
	tiles = appendInterfaceHalf(tiles, prof, half+1, steps, slabs[len(slabs)-2], substrate)
	tiles = append(tiles, tileFromSlab(substrate))

	return tiles, nil
}

// tileFromSlab copies the slab properties into a tile of the same thickness.
func tileFromSlab(slab models.Slab) models.Tile {
	return models.Tile{
		ScatteringLength: slab.ScatteringLength,
		TrueAbsLength:    slab.TrueAbsLength,
		IncAbsLength:     slab.IncAbsLength,
		Thickness:        slab.Thickness,
	}
}

// appendInterfaceHalf appends the profile ordinates from..to of the
// interface between two slabs. The tile widths scale with the interface
// width of the lower slab, and properties blend between the two slabs with
// the error-function weights. Sharp interfaces produce zero-width tiles,
// which are skipped because they cannot change the reflected amplitude.
func appendInterfaceHalf(tiles []models.Tile, prof *Profile, from, to int, above, below models.Slab) []models.Tile {
	for j := from; j <= to; j++ {
		thickness := prof.Widths[j] * below.InterfaceWidth
		if thickness <= 0 {
			continue
		}
		ruf := prof.Weights[j]
		tiles = append(tiles, models.Tile{
			Thickness:        thickness,
			ScatteringLength: blend(above.ScatteringLength, below.ScatteringLength, ruf),
			TrueAbsLength:    blend(above.TrueAbsLength, below.TrueAbsLength, ruf),
			IncAbsLength:     blend(above.IncAbsLength, below.IncAbsLength, ruf),
		})
	}
	return tiles
}

// blend interpolates a property across an interface. A weight of -1 gives
// the value of the slab above, +1 the value of the slab below.
func blend(above, below, weight float64) float64 {
	return 0.5 * (below + above + weight*(below-above))
}

// appendGradedLayer grades an entire layer whose interface zones overlap.
// The layer is cut into uniform sub-steps with a half step at each end, and
// the properties at every position come from a three-slab blend over the
// neighbouring interface widths.
func appendGradedLayer(tiles []models.Tile, steps int, above, slab, below models.Slab) ([]models.Tile, error) {
	step := slab.Thickness / float64(steps+1)

	dist := step / 4.0
	tile, err := gradedTile(above, slab, below, dist)
	if err != nil {
		return nil, err
	}
	tile.Thickness = step / 2.0
	tiles = append(tiles, tile)

	dist += 0.75 * step
	for j := 0; j < steps; j++ {
		tile, err = gradedTile(above, slab, below, dist)
		if err != nil {
			return nil, err
		}
		tile.Thickness = step
		tiles = append(tiles, tile)
		dist += step
	}

	tile, err = gradedTile(above, slab, below, slab.Thickness-step/4.0)
	if err != nil {
		return nil, err
	}
	tile.Thickness = step / 2.0
	tiles = append(tiles, tile)

	return tiles, nil
}

// gradedTile blends the properties of three neighbouring slabs at a distance
// below the top of the middle slab. The top factor follows the interface
// above, the bottom factor the interface below.
func gradedTile(above, slab, below models.Slab, dist float64) (models.Tile, error) {
	top, err := checkedErf(erfScale * dist / slab.InterfaceWidth)
	if err != nil {
		return models.Tile{}, err
	}
	bottom, err := checkedErf(erfScale * (dist - slab.Thickness) / below.InterfaceWidth)
	if err != nil {
		return models.Tile{}, err
	}

	return models.Tile{
		ScatteringLength: gradedValue(above.ScatteringLength, slab.ScatteringLength, below.ScatteringLength, top, bottom),
		TrueAbsLength:    gradedValue(above.TrueAbsLength, slab.TrueAbsLength, below.TrueAbsLength, top, bottom),
		IncAbsLength:     gradedValue(above.IncAbsLength, slab.IncAbsLength, below.IncAbsLength, top, bottom),
	}, nil
}

// gradedValue combines one property of three neighbouring slabs into a
// sub-tile value using the two interface factors.
func gradedValue(above, mid, below, top, bottom float64) float64 {
	return 0.5*(above+mid+top*(mid-above)+mid+below+bottom*(below-mid)) - mid
}
