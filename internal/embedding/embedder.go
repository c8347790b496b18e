package embedding

import "context"

// Embedder is the black-box embedding capability: text in, fixed-width
// float vector out. The vector dimension is decided by the backing
// model and must be constant across one index build.
type Embedder interface {
	Embed(ctx context.Context, inputs []string) ([][]float64, error)
}
