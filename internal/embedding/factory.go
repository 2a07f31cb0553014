package embedding

import (
	"fmt"
	"time"
)

// Provider selects an embedding implementation.
type Provider string

const (
	// ProviderVoyage uses the VoyageAI API. Requires an API key.
	ProviderVoyage Provider = "voyage"
	// ProviderONNX runs a local model via ONNX Runtime. Requires CGO.
	ProviderONNX Provider = "onnx"
	// ProviderMock is the deterministic test embedder.
	ProviderMock Provider = "mock"
)

// Options carries provider configuration.
type Options struct {
	Provider   string
	Dimensions int
	CacheSize  int

	// Voyage
	APIKey  string
	Model   string
	Timeout time.Duration

	// ONNX
	ModelPath string
	MaxTokens int
}

// New creates the configured embedding provider.
func New(opts Options) (Embedder, error) {
	switch Provider(opts.Provider) {
	case ProviderVoyage, "":
		return NewVoyageEmbedder(opts.APIKey, opts.Model, opts.Dimensions, opts.CacheSize, opts.Timeout)
	case ProviderONNX:
		return NewONNXEmbedder(opts.ModelPath, opts.Dimensions, opts.MaxTokens, opts.CacheSize)
	case ProviderMock:
		return NewMockEmbedder(opts.Dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: voyage, onnx, mock)", opts.Provider)
	}
}
