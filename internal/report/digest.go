package report

import (
	"fmt"
	"math"
	"strings"
)

// BuildDigest condenses the computed metric series into the compact
// statistical summary fed to the narrative model: mean and range per
// series, months covered, and a volatility bucket from the sample
// standard deviation of the month-over-month changes.
func BuildDigest(m Metrics) string {
	var b strings.Builder

	yoy := validValues(m.YOY)
	if len(yoy) > 0 {
		b.WriteString("YOY Performance (2024→2025):\n")
		b.WriteString(fmt.Sprintf("  - Average: %.2f%%\n", mean(yoy)))
		b.WriteString(fmt.Sprintf("  - Range: %.2f%% to %.2f%%\n", minOf(yoy), maxOf(yoy)))
		b.WriteString(fmt.Sprintf("  - Months analyzed: %d\n", len(yoy)))
	} else {
		b.WriteString("YOY Performance: Limited data for 2024-2025 comparison\n")
	}

	b.WriteString("\n")

	lm := validValues(m.LM)
	if len(lm) > 0 {
		b.WriteString("Month-over-Month Performance (2025):\n")
		b.WriteString(fmt.Sprintf("  - Average: %.2f%%\n", mean(lm)))
		b.WriteString(fmt.Sprintf("  - Range: %.2f%% to %.2f%%\n", minOf(lm), maxOf(lm)))
		b.WriteString(fmt.Sprintf("  - Months with data: %d\n", len(lm)))
		if len(lm) > 1 {
			sd := sampleStdDev(lm)
			b.WriteString(fmt.Sprintf("  - Volatility: %s (σ=%.2f)\n", volatilityBucket(sd), sd))
		}
	} else {
		b.WriteString("Month-over-Month Performance: Insufficient month-to-month data\n")
	}

	return b.String()
}

// volatilityBucket classifies the spread of month-over-month changes by
// their sample standard deviation.
func volatilityBucket(sd float64) string {
	switch {
	case sd > 20:
		return "High"
	case sd > 10:
		return "Moderate"
	default:
		return "Low"
	}
}

func validValues(series []Percent) []float64 {
	var out []float64
	for _, p := range series {
		if p.Valid {
			out = append(out, p.Value)
		}
	}
	return out
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// sampleStdDev returns the n-1 standard deviation; 0 for fewer than two
// samples.
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sq float64
	for _, v := range values {
		d := v - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)-1))
}
