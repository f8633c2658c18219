//go:build onnx

package cli

import (
	"github.com/armcknight/cache-for-clankers/config"
	"github.com/armcknight/cache-for-clankers/memory"
	"github.com/armcknight/cache-for-clankers/memory/embedder/mock"
	"github.com/armcknight/cache-for-clankers/memory/embedder/onnx"
)

// newEmbedder returns the ONNX embedder when a model is configured,
// falling back to the deterministic offline embedder otherwise.
func newEmbedder(cfg config.Config) (memory.Embedder, error) {
	if cfg.ModelPath == "" {
		return mock.New(), nil
	}
	return onnx.New(onnx.Config{
		ModelPath:     cfg.ModelPath,
		TokenizerPath: cfg.TokenizerPath,
		Dimensions:    cfg.Dimensions,
	})
}
