package nnue

import "sort"

// quantizeEmbedding computes a scale S such that the 99.9th percentile of
// |weights| maps to i8::MAX, then quantizes weights (int8, transposed to
// [feature][embedding_out]) and biases (int16) using that scale, per §4.3.
// weights is row-major [EmbeddingSize][NumFeatures] float32, matching the
// training-time Linear(1153->1024) layout before transposition.
func quantizeEmbedding(weights [EmbeddingSize][NumFeatures]float32, bias [EmbeddingSize]float32) ([][EmbeddingSize]int8, [EmbeddingSize]int16, float32) {
	abs := make([]float32, 0, EmbeddingSize*NumFeatures)
	for _, row := range weights {
		for _, w := range row {
			if w < 0 {
				w = -w
			}
			abs = append(abs, w)
		}
	}
	sort.Slice(abs, func(i, j int) bool { return abs[i] < abs[j] })

	var p999 float32
	if len(abs) > 0 {
		idx := int(float64(len(abs)-1) * 0.999)
		p999 = abs[idx]
	}
	if p999 == 0 {
		p999 = maxAbs(abs)
	}

	var scale float32 = 1
	if p999 != 0 {
		scale = 127 / p999
	}

	transposed := make([][EmbeddingSize]int8, NumFeatures)
	for out := 0; out < EmbeddingSize; out++ {
		for in := 0; in < NumFeatures; in++ {
			transposed[in][out] = clampI8(roundI32(weights[out][in] * scale))
		}
	}

	var qbias [EmbeddingSize]int16
	for i, b := range bias {
		qbias[i] = int16(roundI32(b * scale))
	}

	return transposed, qbias, scale
}

func maxAbs(vals []float32) float32 {
	var m float32
	for _, v := range vals {
		if v < 0 {
			v = -v
		}
		if v > m {
			m = v
		}
	}
	return m
}

func roundI32(f float32) int32 {
	if f >= 0 {
		return int32(f + 0.5)
	}
	return int32(f - 0.5)
}
