// Package llm defines the provider capability used for post-hoc
// enrichment of classifier output.
package llm

import (
	"context"
	"fmt"
)

// Provider generates free-form text for a prompt. Implementations may
// block on network IO and should honour the supplied context deadline.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Selection names the provider requested for a call.
type Selection string

const (
	SelectionGroq   Selection = "groq"
	SelectionGemini Selection = "gemini"
	SelectionAuto   Selection = "auto"
)

// ParseSelection validates a provider name from a request payload. An
// empty value resolves to automatic selection.
func ParseSelection(v string) (Selection, error) {
	switch Selection(v) {
	case SelectionGroq, SelectionGemini, SelectionAuto:
		return Selection(v), nil
	case "":
		return SelectionAuto, nil
	default:
		return "", fmt.Errorf("unknown llm provider %q", v)
	}
}
