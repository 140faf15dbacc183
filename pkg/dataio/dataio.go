// Package dataio reads and writes the plain-text data files the calculator
// exchanges with reflectometry tooling: wave vector grids, measured curves,
// and the computed reflectivity and density profiles.
package dataio

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"neutronrefl/internal/models"
)

// parseColumns splits one data line into float columns. Columns may be
// separated by commas, semicolons, tabs or spaces.
func parseColumns(line string) ([]float64, bool) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ';' || r == '\t' || r == ' '
	})
	if len(fields) == 0 {
		return nil, false
	}
	values := make([]float64, 0, len(fields))
	for _, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, false
		}
		values = append(values, v)
	}
	return values, true
}

// ReadWaveVector reads the first numeric column of a file into a wave vector
// grid. Blank lines and lines starting with '#' are skipped, as are
// non-numeric header lines before the data starts.
func ReadWaveVector(path string) ([]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open wave vector file: %v", err)
	}
	defer file.Close()

	var waveVector []float64
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		values, ok := parseColumns(line)
		if !ok {
			if len(waveVector) == 0 {
				// Header line before the data.
				continue
			}
			return nil, fmt.Errorf("unparsable line %d in %s", lineNum, path)
		}
		waveVector = append(waveVector, values[0])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read wave vector file: %v", err)
	}
	if len(waveVector) == 0 {
		return nil, fmt.Errorf("no data points found in %s", path)
	}

	return waveVector, nil
}

// ReadMeasurement reads a measured reflectivity curve with columns wave
// vector, reflectivity and optionally the measurement uncertainty. Points
// without an uncertainty column get a zero Error. Blank lines, '#' comments
// and leading header lines are skipped.
func ReadMeasurement(path string) ([]models.MeasuredPoint, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open measurement file: %v", err)
	}
	defer file.Close()

	var points []models.MeasuredPoint
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		values, ok := parseColumns(line)
		if !ok {
			if len(points) == 0 {
				continue
			}
			return nil, fmt.Errorf("unparsable line %d in %s", lineNum, path)
		}
		if len(values) < 2 {
			return nil, fmt.Errorf("line %d in %s has %d columns, need at least 2", lineNum, path, len(values))
		}
		point := models.MeasuredPoint{WaveVector: values[0], Reflectivity: values[1]}
		if len(values) > 2 {
			point.Error = values[2]
		}
		points = append(points, point)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read measurement file: %v", err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("no data points found in %s", path)
	}

	return points, nil
}

// WriteReflectivity writes the computed curve as two comma separated
// columns, wave vector and reflectivity.
func WriteReflectivity(path string, profile *models.ReflectivityProfile) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create reflectivity file: %v", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	fmt.Fprintln(writer, "# waveVector,reflectivity")
	for i, q := range profile.WaveVector {
		fmt.Fprintf(writer, "%.8e,%.8e\n", q, profile.Reflectivity[i])
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to write reflectivity file: %v", err)
	}

	return nil
}

// WriteDensityProfile writes the real-space scattering density profile as
// two comma separated columns, depth and density.
func WriteDensityProfile(path string, profile *models.ReflectivityProfile) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create density profile file: %v", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	fmt.Fprintln(writer, "# depth,scatteringDensity")
	for i, d := range profile.Depth {
		fmt.Fprintf(writer, "%.8e,%.8e\n", d, profile.ScatteringDensity[i])
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to write density profile file: %v", err)
	}

	return nil
}
