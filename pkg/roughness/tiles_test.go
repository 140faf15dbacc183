package roughness

import (
	"math"
	"testing"

	"neutronrefl/internal/models"
)

// sumThickness adds up the thicknesses of a tile range.
func sumThickness(tiles []models.Tile) float64 {
	sum := 0.0
	for _, tile := range tiles {
		sum += tile.Thickness
	}
	return sum
}

// halfSums returns the normalized widths of the lower and upper profile
// halves.
func halfSums(prof *Profile) (low, high float64) {
	half := prof.Steps() / 2
	for j := 0; j <= half; j++ {
		low += prof.Widths[j]
	}
	for j := half + 1; j <= prof.Steps(); j++ {
		high += prof.Widths[j]
	}
	return low, high
}

// TestGenerateTilesSharpInterfaces verifies that a stack with zero interface
// widths collapses to one tile per slab
func TestGenerateTilesSharpInterfaces(t *testing.T) {
	slabs := []models.Slab{
		{ScatteringLength: 0.0, Thickness: 0.0},
		{ScatteringLength: 4.0e-6, TrueAbsLength: 1.0e-9, IncAbsLength: 2.0e-9, Thickness: 50.0},
	}

	prof, err := NewProfile(8)
	if err != nil {
		t.Fatalf("NewProfile failed: %v", err)
	}
	tiles, err := GenerateTiles(slabs, prof)
	if err != nil {
		t.Fatalf("GenerateTiles failed: %v", err)
	}

	if len(tiles) != 2 {
		t.Fatalf("expected 2 tiles for a sharp two-slab stack, got %d", len(tiles))
	}
	for i, tile := range tiles {
		if tile.ScatteringLength != slabs[i].ScatteringLength ||
			tile.TrueAbsLength != slabs[i].TrueAbsLength ||
			tile.IncAbsLength != slabs[i].IncAbsLength ||
			tile.Thickness != slabs[i].Thickness {
			t.Errorf("tile %d does not carry the slab properties: %+v vs %+v", i, tile, slabs[i])
		}
	}
}

// TestGenerateTilesSeparatedInterfaces verifies tile assembly for a film
// whose interface zones do not overlap: the graded interface tiles, the
// unmodified bulk tile and the conserved film thickness
func TestGenerateTilesSeparatedInterfaces(t *testing.T) {
	film := models.Slab{
		ScatteringLength: 2.0e-6,
		TrueAbsLength:    1.0e-9,
		IncAbsLength:     2.0e-9,
		Thickness:        200.0,
		InterfaceWidth:   5.0,
	}
	slabs := []models.Slab{
		{ScatteringLength: 0.0, Thickness: 0.0},
		film,
		{ScatteringLength: 4.0e-6, Thickness: 50.0, InterfaceWidth: 0.0},
	}

	steps := 8
	half := steps / 2
	prof, err := NewProfile(steps)
	if err != nil {
		t.Fatalf("NewProfile failed: %v", err)
	}
	tiles, err := GenerateTiles(slabs, prof)
	if err != nil {
		t.Fatalf("GenerateTiles failed: %v", err)
	}

	// One ambient tile, half+1 interface tiles graded into the ambient,
	// steps-half interface tiles plus the bulk tile inside the film, a
	// sharp lower film boundary, and the substrate tile.
	wantLen := steps + 4
	if len(tiles) != wantLen {
		t.Fatalf("expected %d tiles, got %d", wantLen, len(tiles))
	}

	filmTiles := tiles[half+2 : steps+3]
	filmSum := sumThickness(filmTiles)
	if math.Abs(filmSum-film.Thickness) > 1e-9*film.Thickness {
		t.Errorf("film thickness not conserved: expected %v, got %v", film.Thickness, filmSum)
	}

	// The bulk tile carries the film properties unmodified and the
	// thickness left after the interface zone is carved out.
	_, high := halfSums(prof)
	bulk := tiles[steps+2]
	if bulk.ScatteringLength != film.ScatteringLength ||
		bulk.TrueAbsLength != film.TrueAbsLength ||
		bulk.IncAbsLength != film.IncAbsLength {
		t.Errorf("bulk tile does not carry film properties: %+v", bulk)
	}
	wantBulk := film.Thickness - high*film.InterfaceWidth
	if math.Abs(bulk.Thickness-wantBulk) > 1e-12*film.Thickness {
		t.Errorf("bulk thickness: expected %v, got %v", wantBulk, bulk.Thickness)
	}

	// The interface tiles blend monotonically from the ambient value to
	// the film value.
	for i := 1; i <= steps+1; i++ {
		sl := tiles[i].ScatteringLength
		if sl <= 0.0 || sl >= film.ScatteringLength {
			t.Errorf("interface tile %d scattering length %v outside (0, %v)", i, sl, film.ScatteringLength)
		}
		if i > 1 && sl <= tiles[i-1].ScatteringLength {
			t.Errorf("interface scattering length not increasing at tile %d", i)
		}
	}
}

// TestGenerateTilesThicknessConservation verifies that the interior slab
// thicknesses survive tiling for a four-slab stack with distinct interface
// widths, for odd and even step counts
func TestGenerateTilesThicknessConservation(t *testing.T) {
	slabs := []models.Slab{
		{ScatteringLength: 0.0, Thickness: 0.0},
		{ScatteringLength: 2.0e-6, Thickness: 150.0, InterfaceWidth: 4.0},
		{ScatteringLength: 6.0e-6, Thickness: 300.0, InterfaceWidth: 6.0},
		{ScatteringLength: 4.0e-6, Thickness: 30.0, InterfaceWidth: 3.0},
	}
	wantInterior := slabs[1].Thickness + slabs[2].Thickness

	for _, steps := range []int{1, 2, 8, 9, 21} {
		prof, err := NewProfile(steps)
		if err != nil {
			t.Fatalf("steps=%d: NewProfile failed: %v", steps, err)
		}
		tiles, err := GenerateTiles(slabs, prof)
		if err != nil {
			t.Fatalf("steps=%d: GenerateTiles failed: %v", steps, err)
		}

		// Tiles graded into the ambient and the substrate lie outside the
		// interior slabs: the first interface scales its ambient half with
		// the first film's width, the last interface its substrate half
		// with the substrate's width.
		low, high := halfSums(prof)
		sum := sumThickness(tiles)
		sum -= tiles[0].Thickness + tiles[len(tiles)-1].Thickness
		sum -= low*slabs[1].InterfaceWidth + high*slabs[len(slabs)-1].InterfaceWidth

		if math.Abs(sum-wantInterior) > 1e-9*wantInterior {
			t.Errorf("steps=%d: interior thickness not conserved: expected %v, got %v",
				steps, wantInterior, sum)
		}
	}
}

// TestGenerateTilesOverlappingInterfaces verifies the uniform sub-stepping
// of a thin film whose interface zones overlap
func TestGenerateTilesOverlappingInterfaces(t *testing.T) {
	film := models.Slab{ScatteringLength: 2.0e-6, Thickness: 10.0, InterfaceWidth: 10.0}
	slabs := []models.Slab{
		{ScatteringLength: 0.0, Thickness: 0.0},
		film,
		{ScatteringLength: 4.0e-6, Thickness: 30.0, InterfaceWidth: 10.0},
	}

	steps := 8
	half := steps / 2
	prof, err := NewProfile(steps)
	if err != nil {
		t.Fatalf("NewProfile failed: %v", err)
	}
	tiles, err := GenerateTiles(slabs, prof)
	if err != nil {
		t.Fatalf("GenerateTiles failed: %v", err)
	}

	// Ambient tile, half+1 tiles graded into the ambient, steps+2 film
	// sub-steps, steps-half tiles graded into the substrate, substrate
	// tile.
	wantLen := 2*steps + 5
	if len(tiles) != wantLen {
		t.Fatalf("expected %d tiles, got %d", wantLen, len(tiles))
	}

	filmStart := half + 2
	filmTiles := tiles[filmStart : filmStart+steps+2]

	filmSum := sumThickness(filmTiles)
	if math.Abs(filmSum-film.Thickness) > 1e-9*film.Thickness {
		t.Errorf("film thickness not conserved: expected %v, got %v", film.Thickness, filmSum)
	}

	// Half steps at the film boundaries, full steps in between.
	step := film.Thickness / float64(steps+1)
	if math.Abs(filmTiles[0].Thickness-step/2.0) > 1e-12 {
		t.Errorf("first sub-step: expected %v, got %v", step/2.0, filmTiles[0].Thickness)
	}
	if math.Abs(filmTiles[len(filmTiles)-1].Thickness-step/2.0) > 1e-12 {
		t.Errorf("last sub-step: expected %v, got %v", step/2.0, filmTiles[len(filmTiles)-1].Thickness)
	}
	for i := 1; i < len(filmTiles)-1; i++ {
		if math.Abs(filmTiles[i].Thickness-step) > 1e-12 {
			t.Errorf("sub-step %d: expected %v, got %v", i, step, filmTiles[i].Thickness)
		}
	}

	// The three-slab blend grades from the ambient side to the substrate
	// side without leaving the bracketing values.
	for i, tile := range filmTiles {
		sl := tile.ScatteringLength
		if sl <= slabs[0].ScatteringLength || sl >= slabs[2].ScatteringLength {
			t.Errorf("graded tile %d scattering length %v outside bracket", i, sl)
		}
		if i > 0 && sl <= filmTiles[i-1].ScatteringLength {
			t.Errorf("graded scattering length not increasing at tile %d", i)
		}
	}
}

// TestGenerateTilesOverlapWithSharpTop verifies the overlap branch when the
// film's own top interface is sharp and only the lower interface zone floods
// the layer
func TestGenerateTilesOverlapWithSharpTop(t *testing.T) {
	film := models.Slab{ScatteringLength: 2.0e-6, Thickness: 10.0, InterfaceWidth: 0.0}
	slabs := []models.Slab{
		{ScatteringLength: 0.0, Thickness: 0.0},
		film,
		{ScatteringLength: 4.0e-6, Thickness: 30.0, InterfaceWidth: 12.0},
	}

	steps := 8
	half := steps / 2
	prof, err := NewProfile(steps)
	if err != nil {
		t.Fatalf("NewProfile failed: %v", err)
	}
	tiles, err := GenerateTiles(slabs, prof)
	if err != nil {
		t.Fatalf("GenerateTiles failed: %v", err)
	}

	// The sharp top interface contributes no tiles, so the film sub-steps
	// start right after the ambient tile.
	wantLen := 1 + (steps + 2) + (steps - half) + 1
	if len(tiles) != wantLen {
		t.Fatalf("expected %d tiles, got %d", wantLen, len(tiles))
	}

	filmSum := sumThickness(tiles[1 : steps+3])
	if math.Abs(filmSum-film.Thickness) > 1e-9*film.Thickness {
		t.Errorf("film thickness not conserved: expected %v, got %v", film.Thickness, filmSum)
	}
}

// TestGenerateTilesRejectsShortStacks verifies the minimum stack size
func TestGenerateTilesRejectsShortStacks(t *testing.T) {
	prof, err := NewProfile(4)
	if err != nil {
		t.Fatalf("NewProfile failed: %v", err)
	}

	if _, err := GenerateTiles(nil, prof); err == nil {
		t.Errorf("expected an error for an empty stack")
	}
	single := []models.Slab{{ScatteringLength: 1.0e-6}}
	if _, err := GenerateTiles(single, prof); err == nil {
		t.Errorf("expected an error for a single-slab stack")
	}
}
