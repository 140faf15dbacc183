package models

// Slab describes one physical layer of a material stack as supplied by the
// caller. Slabs are ordered top to bottom: the first entry is the ambient
// (incident medium) and the last is the substrate, both treated as
// semi-infinite. Slabs are never modified by a computation.
type Slab struct {
	// ScatteringLength is the real part of the neutron scattering length
	// density in 1/angstrom^2.
	ScatteringLength float64

	// TrueAbsLength is the true absorption term of the layer.
	TrueAbsLength float64

	// IncAbsLength is the incoherent absorption term of the layer. The
	// recursion divides it by the neutron wavelength.
	IncAbsLength float64

	// Thickness is the layer thickness in angstroms. Interior layers must
	// have a positive thickness; the ambient and substrate values are only
	// echoed into the density profile.
	Thickness float64

	// InterfaceWidth is the roughness scale of the interface on top of this
	// layer in angstroms. Zero means an ideally sharp interface.
	InterfaceWidth float64
}

// Tile is one homogeneous sub-layer produced by discretizing the roughness
// between slabs. Tiles carry no roughness of their own and are the unit the
// Parratt recursion consumes. They belong to a single computation and are
// never shared.
type Tile struct {
	// ScatteringLength is the real part of the scattering length density.
	ScatteringLength float64

	// TrueAbsLength is the true absorption term.
	TrueAbsLength float64

	// IncAbsLength is the incoherent absorption term.
	IncAbsLength float64

	// Thickness is the tile thickness in angstroms.
	Thickness float64
}

// ReflectivityProfile bundles the computed reflectivity curve with the
// real-space scattering density profile of the tile stack that produced it.
type ReflectivityProfile struct {
	// WaveVector echoes the momentum transfer values the curve was computed
	// for, in 1/angstrom.
	WaveVector []float64

	// Reflectivity holds one value per wave vector entry.
	Reflectivity []float64

	// Depth holds the step positions of the density profile in angstroms,
	// two entries per tile.
	Depth []float64

	// ScatteringDensity holds the density value for each Depth entry,
	// relative to the ambient medium.
	ScatteringDensity []float64
}

// MeasuredPoint is one point of a measured reflectivity curve used for
// comparing a computed profile against experiment.
type MeasuredPoint struct {
	// WaveVector is the momentum transfer of the measurement in 1/angstrom.
	WaveVector float64

	// Reflectivity is the measured reflectivity value.
	Reflectivity float64

	// Error is the measurement uncertainty; zero or negative means unknown.
	Error float64
}
