package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/kvasylenko/finance-assistant/pkg/models"
)

// GeminiParser implements TextParser with Google's Gemini models.
type GeminiParser struct {
	client *genai.Client
	model  string
}

// NewGeminiParser creates a new GeminiParser. Credentials come from the
// environment (GEMINI_API_KEY or application default credentials).
func NewGeminiParser(ctx context.Context, model string) (*GeminiParser, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiParser{client: client, model: model}, nil
}

// Make sure we conform to the interface
var _ TextParser = (*GeminiParser)(nil)

var parsePrompt = "You are an expense extraction assistant.\n\n" +
	"Task:\n" +
	"- Extract ALL money movements mentioned in the user's text.\n" +
	"- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n" +
	"- Output a JSON object with an \"items\" array and an optional \"title\" string.\n\n" +
	"Each item must have these fields:\n" +
	"- \"date\": string, ISO format \"YYYY-MM-DD\" (use today's date if none is mentioned)\n" +
	"- \"amount\": number, always positive\n" +
	"- \"currency\": string ISO code, or \"\" when not mentioned\n" +
	"- \"category\": string, one of: " + strings.Join(models.CategoryIds, ", ") +
	" (use \"other\" when none fits)\n" +
	"- \"description\": string, a short human-readable label\n" +
	"- \"type\": \"income\" or \"expense\"\n\n" +
	"Rules:\n" +
	"- Direction is carried by \"type\", never by a negative amount.\n" +
	"- Return ONLY valid raw JSON.\n" +
	"- Do NOT wrap the response in code fences.\n" +
	"- Do NOT use ```json or any Markdown.\n"

const interpretPrompt = "You classify personal-finance questions.\n\n" +
	"Output STRICT JSON only: an object with fields\n" +
	"- \"intent\": one of \"total\", \"category\", \"biggestCategory\"\n" +
	"- \"category\": the category id the question asks about, or null\n\n" +
	"Use \"category\" when the question names a spending category, " +
	"\"biggestCategory\" when it asks what was spent on most, " +
	"and \"total\" otherwise.\n" +
	"Return ONLY valid raw JSON, no Markdown.\n"

// ParseExpenses sends the text to the model and decodes the strict-JSON
// response into untrusted item maps.
func (p *GeminiParser) ParseExpenses(ctx context.Context, text, lang string) (*ParseResult, error) {
	prompt := parsePrompt
	if lang != "" {
		prompt += fmt.Sprintf("\nThe text is written in %q.\n", lang)
	}

	raw, err := p.generate(ctx, prompt, text)
	if err != nil {
		return nil, err
	}
	return decodeParseResult(raw)
}

// InterpretQuestion classifies the question into an intent and category.
func (p *GeminiParser) InterpretQuestion(ctx context.Context, question string) (*QuestionInterpretation, error) {
	raw, err := p.generate(ctx, interpretPrompt, question)
	if err != nil {
		return nil, err
	}
	return decodeInterpretation(raw)
}

func (p *GeminiParser) generate(ctx context.Context, prompt, input string) (string, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
				{Text: input},
			},
		},
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("%w: generate content: %v", ErrUnavailable, err)
	}

	raw := resp.Text()
	if raw == "" {
		return "", fmt.Errorf("%w: empty response from model", ErrUnavailable)
	}
	return raw, nil
}

func decodeParseResult(raw string) (*ParseResult, error) {
	clean := cleanModelJSON(raw)

	var result ParseResult
	if err := json.Unmarshal([]byte(clean), &result); err != nil {
		// Some responses come back as a bare array of items.
		var items []map[string]any
		if arrErr := json.Unmarshal([]byte(clean), &items); arrErr != nil {
			return nil, fmt.Errorf("%w: undecodable response: %v", ErrUnavailable, err)
		}
		result = ParseResult{Items: items}
	}
	return &result, nil
}

func decodeInterpretation(raw string) (*QuestionInterpretation, error) {
	clean := cleanModelJSON(raw)

	var interpretation QuestionInterpretation
	if err := json.Unmarshal([]byte(clean), &interpretation); err != nil {
		return nil, fmt.Errorf("%w: undecodable response: %v", ErrUnavailable, err)
	}

	switch interpretation.Intent {
	case IntentTotal, IntentCategory, IntentBiggestCategory:
	default:
		interpretation.Intent = IntentTotal
	}
	return &interpretation, nil
}

// cleanModelJSON strips Markdown fences and surrounding junk when the model
// ignores the raw-JSON instruction.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	// Keep only the outermost JSON value when text surrounds it. Whichever
	// opener appears first decides whether it is an object or an array.
	objStart := strings.Index(s, "{")
	arrStart := strings.Index(s, "[")
	switch {
	case arrStart != -1 && (objStart == -1 || arrStart < objStart):
		if end := strings.LastIndex(s, "]"); end > arrStart {
			return strings.TrimSpace(s[arrStart : end+1])
		}
	case objStart != -1:
		if end := strings.LastIndex(s, "}"); end > objStart {
			return strings.TrimSpace(s[objStart : end+1])
		}
	}
	return s
}
