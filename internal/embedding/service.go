// Package embedding turns requisition text into vectors for similarity
// search.
package embedding

import (
	"context"
	"fmt"

	"github.com/reqline/reqline/internal/llm"
)

type Service struct {
	gw    llm.Gateway
	model string
}

func NewService(gw llm.Gateway, model string) *Service {
	return &Service{gw: gw, model: model}
}

// EmbedText returns a single embedding for the given text.
func (s *Service) EmbedText(ctx context.Context, text string) ([]float32, error) {
	resp, err := s.gw.Embed(ctx, llm.EmbeddingRequest{
		Model: s.model,
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("embed text: empty response")
	}
	return resp.Embeddings[0], nil
}
