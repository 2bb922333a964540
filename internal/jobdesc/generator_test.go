package jobdesc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reqline/reqline/internal/apperr"
	"github.com/reqline/reqline/internal/llm"
	"github.com/reqline/reqline/internal/models"
)

type stubGateway struct {
	lastReq llm.ChatRequest
	content string
	err     error
}

func (s *stubGateway) Chat(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &llm.ChatResponse{Content: s.content}, nil
}

func (s *stubGateway) Embed(context.Context, llm.EmbeddingRequest) (*llm.EmbeddingResponse, error) {
	return nil, errors.New("not used")
}

func detail() *models.RequisitionDetail {
	return &models.RequisitionDetail{
		Requisition: models.Requisition{Title: "Backend Engineer"},
		Level:       "Senior",
		Type:        "Employee",
		SubType:     "Full Time",
		Reason:      "Growth",
		Location:    "Remote",
		Office:      "London",
	}
}

func TestBuildPromptContainsAllFields(t *testing.T) {
	prompt := BuildPrompt("Acme", detail())

	assert.Contains(t, prompt, "Backend Engineer position at Acme")
	assert.Contains(t, prompt, "Seniority: Senior")
	assert.Contains(t, prompt, "Employment type: Employee")
	assert.Contains(t, prompt, "Subtype: Full Time")
	assert.Contains(t, prompt, "Reason: Growth")
	assert.Contains(t, prompt, "Location: Remote")
	assert.Contains(t, prompt, "Office: London")
	assert.Contains(t, prompt, "markdown")
}

func TestGenerateReturnsFirstChoiceVerbatim(t *testing.T) {
	gw := &stubGateway{content: "## About the role\n..."}
	gen := NewGenerator(gw, "gpt-4o-mini")

	out, err := gen.Generate(context.Background(), "Acme", detail())
	require.NoError(t, err)

	assert.Equal(t, "## About the role\n...", out)
	assert.Equal(t, "gpt-4o-mini", gw.lastReq.Model)
	require.Len(t, gw.lastReq.Messages, 1)
	assert.Equal(t, "user", gw.lastReq.Messages[0].Role)
}

func TestGenerateWrapsGatewayFailure(t *testing.T) {
	gw := &stubGateway{err: errors.New("timeout")}
	gen := NewGenerator(gw, "gpt-4o-mini")

	_, err := gen.Generate(context.Background(), "Acme", detail())
	assert.ErrorIs(t, err, apperr.ErrUpstream)
}

func TestGenerateRejectsEmptyCompletion(t *testing.T) {
	gw := &stubGateway{content: "   "}
	gen := NewGenerator(gw, "gpt-4o-mini")

	_, err := gen.Generate(context.Background(), "Acme", detail())
	assert.ErrorIs(t, err, apperr.ErrUpstream)
}

func TestEmbeddingTextIncludesDescription(t *testing.T) {
	d := detail()
	desc := "We build things."
	d.Description = &desc

	text := EmbeddingText(d)
	assert.Contains(t, text, "Backend Engineer")
	assert.Contains(t, text, "We build things.")
}
