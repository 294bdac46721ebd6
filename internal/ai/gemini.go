package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	genai "google.golang.org/genai"

	"github.com/thywilljoshua/pdf-outline/internal/outline"
)

type Gemini struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

func NewGemini(ctx context.Context, apiKey, model string, logger *slog.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("missing GOOGLE_API_KEY")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if logger == nil {
		logger = slog.Default()
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	return &Gemini{client: c, model: model, logger: logger}, nil
}

func (g *Gemini) prompt(ctx context.Context, text string) (string, error) {
	res, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0),
	})
	if err != nil {
		return "", err
	}
	return res.Text(), nil
}

const reviewPrompt = `You repair text extracted from PDF headings. Return ONLY the JSON object below with the same structure.

Rules:
- Fix broken spacing, hyphenation split across lines and doubled characters in "title" and in each "text".
- Do NOT add, remove, reorder or merge entries.
- Do NOT change any "level" or "page" value.
- Do NOT translate or paraphrase.

`

// Review asks Gemini to clean up heading text. Any answer that does not pass
// Accept is discarded and doc is returned as is.
func (g *Gemini) Review(ctx context.Context, doc outline.Document) (outline.Document, error) {
	if g.client == nil || len(doc.Outline) == 0 && doc.Title == "" {
		return doc, nil
	}
	return review(ctx, doc, g.prompt, g.logger)
}

func review(ctx context.Context, doc outline.Document, ask func(context.Context, string) (string, error), logger *slog.Logger) (outline.Document, error) {
	in, err := json.Marshal(doc)
	if err != nil {
		return doc, err
	}
	out, err := ask(ctx, reviewPrompt+string(in))
	if err != nil {
		return doc, fmt.Errorf("gemini review: %w", err)
	}

	js := stripCodeFences(out)
	var revised outline.Document
	if err := json.Unmarshal([]byte(js), &revised); err != nil {
		s := findFirstJSON(js)
		if s == "" {
			return doc, fmt.Errorf("gemini review: no JSON in response: %w", err)
		}
		if err2 := json.Unmarshal([]byte(s), &revised); err2 != nil {
			return doc, fmt.Errorf("gemini review: %w (original error: %v)", err2, err)
		}
	}

	accepted, ok := Accept(doc, revised)
	if !ok {
		logger.Warn("gemini review rejected: structure changed", "entries", len(doc.Outline), "returned", len(revised.Outline))
	}
	return accepted, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if nl := strings.Index(s, "\n"); nl != -1 {
			s = s[nl+1:]
		}
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}

func findFirstJSON(s string) string {
	// naive scan for the first balanced {...}
	start := -1
	depth := 0
	for i, r := range s {
		switch r {
		case '{':
			if start == -1 {
				start = i
			}
			depth++
		case '}':
			if start != -1 {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}
