package aigate

// Embedding is a vector representation of text. Its length is fixed by the
// embedding model and is otherwise opaque to the gateway.
type Embedding []float64

// Dimensions returns the vector length.
func (e Embedding) Dimensions() int {
	return len(e)
}

// Float32 converts the embedding for stores that index single precision.
func (e Embedding) Float32() []float32 {
	out := make([]float32, len(e))
	for i, v := range e {
		out[i] = float32(v)
	}
	return out
}
