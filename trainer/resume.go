package trainer

import "github.com/neurlang/surrogate/net/feedforward"

// Resume replaces net's weights with the ones stored in dstmodel when resume
// is requested, so training continues from a previous run.
func Resume(net *feedforward.Network, resume *bool, dstmodel *string) error {
	if resume != nil && *resume && dstmodel != nil && *dstmodel != "" {
		return net.ReadCompressedWeightsFromFile(*dstmodel)
	}
	return nil
}
