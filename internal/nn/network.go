package nn

import (
	"fmt"

	"birdsim/internal/rnd"
)

// Topology lists the neuron count of every layer, inputs first.
type Topology []int

// Validate panics unless the topology has at least two positive layers.
func (t Topology) Validate() {
	if len(t) < 2 {
		panic(fmt.Sprintf("nn: topology needs at least 2 layers, got %d", len(t)))
	}
	for i, n := range t {
		if n < 1 {
			panic(fmt.Sprintf("nn: layer %d has %d neurons", i, n))
		}
	}
}

// GenomeSize returns the total number of parameters (biases included)
func (t Topology) GenomeSize() int {
	size := 0
	for i := 1; i < len(t); i++ {
		size += (t[i-1] + 1) * t[i]
	}
	return size
}

// Network is a fully connected feedforward network with ReLU activations.
//
// Parameters are stored contiguously, layer by layer and neuron by neuron,
// each neuron contributing its bias followed by one weight per input. This is
// also the genome order used by Weights and FromWeights.
type Network struct {
	layers []Layer
}

// Layer is a read-only view over the parameters of one layer.
type Layer struct {
	inputs int
	params []float32
}

// Neuron is a read-only view over one neuron's parameters.
type Neuron struct {
	Bias    float32
	Weights []float32
}

// Random creates a network whose parameters are drawn uniformly from [-1, 1].
func Random(rng rnd.Source, topology Topology) *Network {
	topology.Validate()
	return build(topology, func() float32 {
		return rng.Float32In(-1, 1)
	})
}

// FromWeights rebuilds a network from a flat parameter sequence. It panics if
// the sequence is shorter or longer than the topology requires.
func FromWeights(topology Topology, weights []float32) *Network {
	topology.Validate()
	c := cursor{src: weights}
	n := build(topology, c.next)
	if c.pos != len(weights) {
		panic(fmt.Sprintf("nn: got %d weights, topology needs %d", len(weights), c.pos))
	}
	return n
}

type cursor struct {
	src []float32
	pos int
}

func (c *cursor) next() float32 {
	if c.pos >= len(c.src) {
		panic(fmt.Sprintf("nn: ran out of weights after %d", c.pos))
	}
	v := c.src[c.pos]
	c.pos++
	return v
}

func build(topology Topology, draw func() float32) *Network {
	params := make([]float32, topology.GenomeSize())
	for i := range params {
		params[i] = draw()
	}

	n := &Network{layers: make([]Layer, 0, len(topology)-1)}
	offset := 0
	for i := 1; i < len(topology); i++ {
		size := (topology[i-1] + 1) * topology[i]
		n.layers = append(n.layers, Layer{
			inputs: topology[i-1],
			params: params[offset : offset+size : offset+size],
		})
		offset += size
	}
	return n
}

// Topology returns the shape of the network.
func (n *Network) Topology() Topology {
	t := Topology{n.layers[0].inputs}
	for _, l := range n.layers {
		t = append(t, l.Len())
	}
	return t
}

// Layers returns the layer views in propagation order.
func (n *Network) Layers() []Layer {
	return n.layers
}

// Len returns the number of neurons in the layer.
func (l Layer) Len() int {
	return len(l.params) / (l.inputs + 1)
}

// Neuron returns the j-th neuron. The returned slice must not be modified.
func (l Layer) Neuron(j int) Neuron {
	stride := l.inputs + 1
	p := l.params[j*stride : (j+1)*stride]
	return Neuron{Bias: p[0], Weights: p[1:]}
}

// Propagate runs a forward pass. The input length must match the first
// layer's input size.
func (n *Network) Propagate(inputs []float32) []float32 {
	if want := n.layers[0].inputs; len(inputs) != want {
		panic(fmt.Sprintf("nn: got %d inputs, want %d", len(inputs), want))
	}
	for _, l := range n.layers {
		inputs = l.propagate(inputs)
	}
	return inputs
}

func (l Layer) propagate(inputs []float32) []float32 {
	out := make([]float32, l.Len())
	offset := 0
	for j := range out {
		sum := l.params[offset] // bias
		offset++
		for i := 0; i < l.inputs; i++ {
			sum += inputs[i] * l.params[offset]
			offset++
		}
		out[j] = relu(sum)
	}
	return out
}

// Weights flattens the network into genome order.
func (n *Network) Weights() []float32 {
	size := 0
	for _, l := range n.layers {
		size += len(l.params)
	}
	weights := make([]float32, 0, size)
	for _, l := range n.layers {
		weights = append(weights, l.params...)
	}
	return weights
}

func relu(x float32) float32 {
	if x > 0 {
		return x
	}
	return 0
}
