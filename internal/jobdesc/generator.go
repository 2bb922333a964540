// Package jobdesc produces requisition descriptions: generated through the
// LLM gateway or imported from an uploaded document.
package jobdesc

import (
	"context"
	"fmt"
	"strings"

	"github.com/reqline/reqline/internal/apperr"
	"github.com/reqline/reqline/internal/llm"
	"github.com/reqline/reqline/internal/models"
)

type Generator struct {
	gw    llm.Gateway
	model string
}

func NewGenerator(gw llm.Gateway, model string) *Generator {
	return &Generator{gw: gw, model: model}
}

// Generate builds a prompt from the requisition's denormalized fields, makes
// one chat-completion call and returns the first choice verbatim. The caller
// persists the result.
func (g *Generator) Generate(ctx context.Context, companyName string, d *models.RequisitionDetail) (string, error) {
	resp, err := g.gw.Chat(ctx, llm.ChatRequest{
		Model: g.model,
		Messages: []llm.Message{
			{Role: "user", Content: BuildPrompt(companyName, d)},
		},
	})
	if err != nil {
		return "", apperr.Upstream("generate description", err)
	}
	if strings.TrimSpace(resp.Content) == "" {
		return "", apperr.Upstream("generate description", fmt.Errorf("empty completion"))
	}
	return resp.Content, nil
}

// BuildPrompt renders the instruction sent to the model.
func BuildPrompt(companyName string, d *models.RequisitionDetail) string {
	var b strings.Builder
	b.WriteString("You are a recruitment requisition tool.\n")
	fmt.Fprintf(&b, "Create a detailed job description for a %s position at %s.\n", d.Title, companyName)
	b.WriteString("Analyze this data about the job:\n")
	fmt.Fprintf(&b, "Job title: %s\n", d.Title)
	fmt.Fprintf(&b, "Seniority: %s\n", d.Level)
	fmt.Fprintf(&b, "Employment type: %s\n", d.Type)
	fmt.Fprintf(&b, "Subtype: %s\n", d.SubType)
	fmt.Fprintf(&b, "Reason: %s\n", d.Reason)
	fmt.Fprintf(&b, "Location: %s\n", d.Location)
	fmt.Fprintf(&b, "Office: %s\n", d.Office)
	b.WriteString(`
Please provide:
1. Essential technical skills (5-7)
2. Preferred qualifications (3-5)
3. Required education/certifications
4. Recommended years of experience
5. Provide a salary expectation range based on location, seniority, and job title

Format your response using markdown with headers, bullet points, and appropriate styling.
`)
	return b.String()
}

// EmbeddingText is the flattened representation of a requisition used for
// similarity vectors.
func EmbeddingText(d *models.RequisitionDetail) string {
	parts := []string{d.Title, d.Level, d.Type, d.SubType, d.Reason, d.Location, d.Office}
	if d.Description != nil {
		parts = append(parts, *d.Description)
	}
	return strings.Join(parts, "\n")
}
