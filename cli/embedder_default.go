//go:build !onnx

package cli

import (
	"errors"

	"github.com/armcknight/cache-for-clankers/config"
	"github.com/armcknight/cache-for-clankers/memory"
	"github.com/armcknight/cache-for-clankers/memory/embedder/mock"
)

// newEmbedder returns the deterministic offline embedder. Builds
// without the onnx tag cannot load a model file.
func newEmbedder(cfg config.Config) (memory.Embedder, error) {
	if cfg.ModelPath != "" {
		return nil, errors.New("built without ONNX support; rebuild with -tags onnx to use a model file")
	}
	return mock.New(), nil
}
