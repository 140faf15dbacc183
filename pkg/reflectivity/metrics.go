package reflectivity

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/stat"

	"neutronrefl/internal/models"
)

// FitMetrics holds goodness-of-fit statistics between a computed curve and a
// measured one. Reflectivity spans many decades, so the pointwise statistics
// are taken on the log10 curves.
type FitMetrics struct {
	// Points is the number of measured points that entered the comparison.
	Points int

	// ChiSquared is the reduced chi-squared over the points with a known
	// uncertainty, zero when none carry one.
	ChiSquared float64

	// LogRMSE is the root mean square error between the log10 curves.
	LogRMSE float64

	// LogCorrelation is the Pearson correlation between the log10 curves.
	LogCorrelation float64
}

// CompareToMeasurement resamples a computed profile onto the wave vectors of
// a measured curve and reports fit statistics. Measured points outside the
// computed range, or with a non-positive reflectivity on either side, are
// skipped.
//
// Parameters:
//   - profile: the computed reflectivity profile
//   - measured: the measured curve
//
// Returns:
//   - the fit metrics, or an error when fewer than 2 usable points remain
func CompareToMeasurement(profile *models.ReflectivityProfile, measured []models.MeasuredPoint) (FitMetrics, error) {
	var resampler interp.PiecewiseLinear
	if err := resampler.Fit(profile.WaveVector, profile.Reflectivity); err != nil {
		return FitMetrics{}, fmt.Errorf("failed to resample computed curve: %v", err)
	}

	qMin := profile.WaveVector[0]
	qMax := profile.WaveVector[len(profile.WaveVector)-1]

	var logComputed, logMeasured []float64
	chiSum := 0.0
	weighted := 0
	for _, point := range measured {
		if point.WaveVector < qMin || point.WaveVector > qMax {
			continue
		}
		computed := resampler.Predict(point.WaveVector)
		if computed <= 0.0 || point.Reflectivity <= 0.0 {
			continue
		}
		logComputed = append(logComputed, math.Log10(computed))
		logMeasured = append(logMeasured, math.Log10(point.Reflectivity))
		if point.Error > 0.0 {
			diff := (computed - point.Reflectivity) / point.Error
			chiSum += diff * diff
			weighted++
		}
	}

	if len(logComputed) < 2 {
		return FitMetrics{}, fmt.Errorf("only %d usable measured points inside the computed range", len(logComputed))
	}

	residuals := make([]float64, len(logComputed))
	floats.SubTo(residuals, logComputed, logMeasured)

	metrics := FitMetrics{
		Points:         len(logComputed),
		LogRMSE:        math.Sqrt(floats.Dot(residuals, residuals) / float64(len(residuals))),
		LogCorrelation: stat.Correlation(logComputed, logMeasured, nil),
	}
	if weighted > 0 {
		metrics.ChiSquared = chiSum / float64(weighted)
	}

	return metrics, nil
}
