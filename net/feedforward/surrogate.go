package feedforward

import "math/rand"

// Topology of the elastic surrogate: six strain components in, one ReLU
// hidden layer, six stress components out.
const (
	SurrogateInputs  = 6
	SurrogateHidden  = 20
	SurrogateOutputs = 6
)

// NewSurrogate creates the untrained elastic surrogate network.
func NewSurrogate(rng *rand.Rand) *Network {
	return New(rng, SurrogateInputs,
		Dense{Units: SurrogateHidden, Activation: ReLU},
		Dense{Units: SurrogateOutputs, Activation: Linear})
}
