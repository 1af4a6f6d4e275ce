package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

type activationType string

const (
	relu     activationType = "relu"
	identity activationType = "identity"
	tanh     activationType = "tanh"
	clip     activationType = "clip"
)

// Activation represents an activation function type
type Activation struct {
	activationType
	f func(x *G.Node) (*G.Node, error)
}

// fwd performs the forward pass of an Activation
func (a *Activation) fwd(x *G.Node) (*G.Node, error) {
	return a.f(x)
}

// String implements the Stringer interface
func (a *Activation) String() string {
	return string(a.activationType)
}

// IsIdentity returns whether or not the Activation is the identity
// function.
func (a *Activation) IsIdentity() bool {
	return a.activationType == identity
}

// Identity returns an identity *Activation
func Identity() *Activation {
	return &Activation{
		activationType: identity,
		f: func(x *G.Node) (*G.Node, error) {
			return x, nil
		},
	}
}

// ReLU returns a ReLU *Activation
func ReLU() *Activation {
	return &Activation{
		activationType: relu,
		f:              G.Rectify,
	}
}

// TanH returns a tanh *Activation
func TanH() *Activation {
	return &Activation{
		activationType: tanh,
		f:              G.Tanh,
	}
}

// Clip returns an *Activation that clips its input elementwise to
// [min, max]. Clip panics if min > max.
//
// Gorgonia has no clipping op, so the clip is built from rectified
// linear units: min(x, hi) = hi - relu(hi - x) and
// max(y, lo) = lo + relu(y - lo).
func Clip(min, max float64) *Activation {
	if min > max {
		panic(fmt.Sprintf("clip: min (%v) > max (%v)", min, max))
	}

	return &Activation{
		activationType: clip,
		f: func(x *G.Node) (*G.Node, error) {
			hi := G.NewConstant(max)
			lo := G.NewConstant(min)

			// min(x, hi)
			upper, err := G.Sub(hi, x)
			if err != nil {
				return nil, fmt.Errorf("clip: %v", err)
			}
			upper, err = G.Rectify(upper)
			if err != nil {
				return nil, fmt.Errorf("clip: %v", err)
			}
			clipped, err := G.Sub(hi, upper)
			if err != nil {
				return nil, fmt.Errorf("clip: %v", err)
			}

			// max(clipped, lo)
			lower, err := G.Sub(clipped, lo)
			if err != nil {
				return nil, fmt.Errorf("clip: %v", err)
			}
			lower, err = G.Rectify(lower)
			if err != nil {
				return nil, fmt.Errorf("clip: %v", err)
			}
			clipped, err = G.Add(lo, lower)
			if err != nil {
				return nil, fmt.Errorf("clip: %v", err)
			}

			return clipped, nil
		},
	}
}
