package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"
	"time"

	"gonum.org/v1/gonum/floats"

	"neutronrefl/pkg/config"
	"neutronrefl/pkg/dataio"
	"neutronrefl/pkg/reflectivity"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "neutronrefl.yaml", "Configuration file (YAML)")
	initConfig := flag.Bool("init", false, "Write the default configuration file and exit")
	waveVectorFile := flag.String("qfile", "", "File with wave vector values overriding the configured grid")
	measuredFile := flag.String("data", "", "Measured reflectivity curve to compare against")
	reflectivityOut := flag.String("output", "", "Output file for the computed curve (default: from config)")
	densityOut := flag.String("profile", "", "Output file for the density profile (default: from config)")
	numCores := flag.Int("cores", 0, "Number of CPU cores to use (default: from config)")
	flag.Parse()

	if *initConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write default configuration: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	// Load configuration and apply command line overrides
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *reflectivityOut != "" {
		cfg.Output.ReflectivityFile = *reflectivityOut
	}
	if *densityOut != "" {
		cfg.Output.DensityFile = *densityOut
	}
	if *numCores > 0 {
		cfg.Computation.NumCores = *numCores
	}
	if cfg.Computation.NumCores < 1 {
		cfg.Computation.NumCores = runtime.NumCPU()
	}

	fmt.Println("================================")
	fmt.Println("SPECULAR NEUTRON REFLECTIVITY OF LAYERED MATERIALS BY RECURSIVE DYNAMICAL CALCULATION")
	fmt.Println("Based on the method by L. G. Parratt, Phys. Rev. 95, 359 (1954)")
	fmt.Println("================================")

	// Build the wave vector grid
	var waveVector []float64
	if *waveVectorFile != "" {
		waveVector, err = dataio.ReadWaveVector(*waveVectorFile)
		if err != nil {
			log.Fatalf("Failed to read wave vector file: %v", err)
		}
		fmt.Printf("Loaded %d wave vector points from %s\n", len(waveVector), *waveVectorFile)
	} else {
		if cfg.Grid.NumPoints < 2 {
			log.Fatalf("Grid needs at least 2 points, configured %d", cfg.Grid.NumPoints)
		}
		waveVector = make([]float64, cfg.Grid.NumPoints)
		floats.Span(waveVector, cfg.Grid.QMin, cfg.Grid.QMax)
		fmt.Printf("Using configured grid: %d points from %g to %g\n", cfg.Grid.NumPoints, cfg.Grid.QMin, cfg.Grid.QMax)
	}

	// Describe the material stack
	fmt.Printf("Material stack (%d layers, %d roughness steps per interface):\n", len(cfg.Layers), cfg.Computation.NumRough)
	for _, layer := range cfg.Layers {
		fmt.Printf("  %-12s sld=%.3e  thickness=%.1f A  roughness=%.1f A\n",
			layer.Name, layer.ScatteringLength, layer.Thickness, layer.Roughness)
	}

	// Initialize the calculator
	params := &reflectivity.Params{
		NumRough:   cfg.Computation.NumRough,
		DeltaQ0:    cfg.Beam.DeltaQ0,
		DeltaQ1ByQ: cfg.Beam.DeltaQ1ByQ,
		Wavelength: cfg.Beam.Wavelength,
		RQ4:        cfg.Computation.RQ4,
		NumCores:   cfg.Computation.NumCores,
	}
	calculator := reflectivity.NewCalculator(params)
	if cfg.Output.Verbose {
		calculator.SetProgressCallback(func(completed, total int, message string) {
			fmt.Printf("\r%s: %.1f%% complete", message, float64(completed)/float64(total)*100)
			if completed == total {
				fmt.Println()
			}
		})
	}

	// Run the computation
	fmt.Println("Starting reflectivity computation...")
	startTime := time.Now()
	profile, err := calculator.Compute(cfg.Slabs(), waveVector)
	if err != nil {
		log.Fatalf("Computation failed: %v", err)
	}
	processingTime := time.Since(startTime)
	fmt.Printf("Computed %d reflectivity points in %.3f seconds using %d cores\n",
		len(profile.Reflectivity), processingTime.Seconds(), cfg.Computation.NumCores)

	// Write the results
	if err := dataio.WriteReflectivity(cfg.Output.ReflectivityFile, profile); err != nil {
		log.Fatalf("Failed to write reflectivity curve: %v", err)
	}
	fmt.Printf("Reflectivity curve saved to: %s\n", cfg.Output.ReflectivityFile)
	if err := dataio.WriteDensityProfile(cfg.Output.DensityFile, profile); err != nil {
		log.Fatalf("Failed to write density profile: %v", err)
	}
	fmt.Printf("Density profile saved to: %s\n", cfg.Output.DensityFile)

	// Compare against measured data if provided
	if *measuredFile != "" {
		measured, err := dataio.ReadMeasurement(*measuredFile)
		if err != nil {
			log.Fatalf("Failed to read measured curve: %v", err)
		}
		metrics, err := reflectivity.CompareToMeasurement(profile, measured)
		if err != nil {
			log.Fatalf("Failed to compare against measured curve: %v", err)
		}

		fmt.Printf("\nFit against %s:\n", *measuredFile)
		fmt.Printf("=======================================\n")
		fmt.Printf("Points compared: %d\n", metrics.Points)
		fmt.Printf("Reduced chi-squared: %.4f\n", metrics.ChiSquared)
		fmt.Printf("Log-space RMSE: %.4f\n", metrics.LogRMSE)
		fmt.Printf("Log-space correlation: %.4f\n", metrics.LogCorrelation)
	}
}
