package nnue

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// ContainerVersion is the only weight container version this evaluator
// accepts; unknown versions are rejected outright per §6.
const ContainerVersion = 0

// manifest is the TOML header preceding the container's raw tensor data:
// version, then the tensors in the exact order their bytes follow the
// manifest.
type manifest struct {
	Version int             `toml:"version"`
	Tensors []tensorManifest `toml:"tensor"`
}

type tensorManifest struct {
	Name  string `toml:"name"`
	Shape []int  `toml:"shape"`
}

// requiredTensors names the four tensors §6 requires, each carrying both a
// weight and a bias entry in the manifest.
var requiredTensors = []string{
	"embedding.weight", "embedding.bias",
	"hidden1.weight", "hidden1.bias",
	"hidden2.weight", "hidden2.bias",
	"output.weight", "output.bias",
}

func tensorSize(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// LoadContainer reads a TOML manifest followed by the manifest's tensors'
// raw float32 data, little-endian, concatenated in manifest order, and
// quantizes the embedding layer into a ready-to-use Network.
func LoadContainer(r io.Reader) (*Network, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("nnue: reading container: %w", err)
	}

	sep := []byte("\n---\n")
	idx := bytes.Index(data, sep)
	if idx < 0 {
		return nil, fmt.Errorf("nnue: container missing manifest/tensor separator")
	}
	header, body := data[:idx], data[idx+len(sep):]

	var m manifest
	if _, err := toml.Decode(string(header), &m); err != nil {
		return nil, fmt.Errorf("nnue: decoding manifest: %w", err)
	}
	if m.Version != ContainerVersion {
		return nil, fmt.Errorf("nnue: unsupported container version %d, want %d", m.Version, ContainerVersion)
	}

	byName := make(map[string][]float32, len(m.Tensors))
	offset := 0
	for _, t := range m.Tensors {
		n := tensorSize(t.Shape)
		vals := make([]float32, n)
		end := offset + n*4
		if end > len(body) {
			return nil, fmt.Errorf("nnue: tensor %q truncated", t.Name)
		}
		if err := binary.Read(bytes.NewReader(body[offset:end]), binary.LittleEndian, &vals); err != nil {
			return nil, fmt.Errorf("nnue: reading tensor %q: %w", t.Name, err)
		}
		byName[t.Name] = vals
		offset = end
	}
	for _, name := range requiredTensors {
		if _, ok := byName[name]; !ok {
			return nil, fmt.Errorf("nnue: container missing required tensor %q", name)
		}
	}

	return buildNetwork(byName)
}

func buildNetwork(t map[string][]float32) (*Network, error) {
	var embedW [EmbeddingSize][NumFeatures]float32
	flat := t["embedding.weight"]
	if len(flat) != EmbeddingSize*NumFeatures {
		return nil, fmt.Errorf("nnue: embedding.weight has %d elements, want %d", len(flat), EmbeddingSize*NumFeatures)
	}
	for out := 0; out < EmbeddingSize; out++ {
		copy(embedW[out][:], flat[out*NumFeatures:(out+1)*NumFeatures])
	}
	var embedB [EmbeddingSize]float32
	copy(embedB[:], t["embedding.bias"])

	qw, qb, scale := quantizeEmbedding(embedW, embedB)

	n := &Network{
		EmbeddingWeights: qw,
		EmbeddingBias:    qb,
		scale:            scale,
	}

	h1 := t["hidden1.weight"]
	if len(h1) != Hidden1Size*EmbeddingSize {
		return nil, fmt.Errorf("nnue: hidden1.weight has %d elements, want %d", len(h1), Hidden1Size*EmbeddingSize)
	}
	for r := 0; r < Hidden1Size; r++ {
		copy(n.Hidden1Weights[r][:], h1[r*EmbeddingSize:(r+1)*EmbeddingSize])
	}
	copy(n.Hidden1Bias[:], t["hidden1.bias"])

	h2 := t["hidden2.weight"]
	if len(h2) != Hidden2Size*Hidden1Size {
		return nil, fmt.Errorf("nnue: hidden2.weight has %d elements, want %d", len(h2), Hidden2Size*Hidden1Size)
	}
	for r := 0; r < Hidden2Size; r++ {
		copy(n.Hidden2Weights[r][:], h2[r*Hidden1Size:(r+1)*Hidden1Size])
	}
	copy(n.Hidden2Bias[:], t["hidden2.bias"])

	out := t["output.weight"]
	if len(out) != Hidden2Size {
		return nil, fmt.Errorf("nnue: output.weight has %d elements, want %d", len(out), Hidden2Size)
	}
	copy(n.OutputWeights[:], out)
	if len(t["output.bias"]) != 1 {
		return nil, fmt.Errorf("nnue: output.bias must hold exactly one value")
	}
	n.OutputBias = t["output.bias"][0]

	return n, nil
}

