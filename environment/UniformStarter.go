package environment

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
)

// UniformStarter samples starting states uniformly from a bounded
// hyper-rectangle, one r1.Interval per state feature.
type UniformStarter struct {
	features int
	rand     *distmv.Uniform
}

// NewUniformStarter creates and returns a new UniformStarter which
// samples starting states from the given bounds, seeded with seed.
func NewUniformStarter(bounds []r1.Interval, seed uint64) UniformStarter {
	source := rand.NewSource(seed)

	return UniformStarter{len(bounds), distmv.NewUniform(bounds, source)}
}

// Start samples and returns a starting state
func (u UniformStarter) Start() *mat.VecDense {
	return mat.NewVecDense(u.features, u.rand.Rand(nil))
}
