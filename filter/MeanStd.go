// Package filter implements running filters over streams of scalar
// values
package filter

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/goreinforce/utils/floatutils"
)

// eps guards the division by the running standard deviation before
// enough samples have accumulated for the variance to be meaningful.
const eps float64 = 1e-8

// MeanStd normalizes a stream of scalar rewards online. It maintains
// the running mean and variance of every value it has seen using
// Welford's algorithm and standardizes each new value against those
// statistics, clipping the result to a fixed symmetric bound.
//
// The filter's statistics are never reset: a single MeanStd sees every
// reward generated over the lifetime of the training run that owns it.
// MeanStd is not safe for concurrent use.
type MeanStd struct {
	count uint
	mean  float64
	m2    float64 // Sum of squared differences from the running mean
	clip  float64
}

// NewMeanStd creates a new MeanStd filter that clips normalized
// values to [-clip, clip]. The clip bound must be positive.
func NewMeanStd(clip float64) (*MeanStd, error) {
	if clip <= 0 {
		return nil, fmt.Errorf("newMeanStd: clip bound must be "+
			"positive, got %v", clip)
	}
	return &MeanStd{clip: clip}, nil
}

// Normalize pushes a new raw reward into the filter's running
// statistics and returns the standardized, clipped reward. The first
// reward ever seen is returned unmodified, since a single sample has
// no defined variance.
func (m *MeanStd) Normalize(raw float64) float64 {
	m.push(raw)

	if m.count == 1 {
		return raw
	}

	z := (raw - m.mean) / math.Sqrt(m.Var()+eps)
	return floatutils.Clip(z, -m.clip, m.clip)
}

// push updates the running statistics with a new value
func (m *MeanStd) push(x float64) {
	m.count++
	delta := x - m.mean
	m.mean += delta / float64(m.count)
	m.m2 += delta * (x - m.mean)
}

// Count returns the number of values the filter has seen
func (m *MeanStd) Count() uint { return m.count }

// Mean returns the running mean of the values the filter has seen
func (m *MeanStd) Mean() float64 { return m.mean }

// Var returns the running population variance of the values the
// filter has seen. The variance of fewer than two values is 0.
func (m *MeanStd) Var() float64 {
	if m.count < 2 {
		return 0.0
	}
	return m.m2 / float64(m.count)
}

// Clip returns the filter's clip bound
func (m *MeanStd) Clip() float64 { return m.clip }

func (m *MeanStd) String() string {
	str := "MeanStd | Count: %d  |  Mean: %.4f  |  Var: %.4f  |  " +
		"Clip: %.2f"

	return fmt.Sprintf(str, m.count, m.mean, m.Var(), m.clip)
}
