package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// PaperInfo is the structured summary extracted from a document. It feeds
// both the published record and the script prompt.
type PaperInfo struct {
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Abstract    string   `json:"abstract"`
	Field       string   `json:"field"`
	Tags        []string `json:"tags"`
	Innovations []string `json:"innovations"`
	Method      string   `json:"method"`
	Results     string   `json:"results"`
	Conclusion  string   `json:"conclusion"`
}

const extractionPrompt = `Read the attached research paper carefully and extract the following information:
- title: the full paper title
- authors: every author name, in the order listed
- abstract: a faithful summary of the abstract in two or three sentences
- field: the primary research field (for example "machine learning" or "computational biology")
- tags: three to six short topic keywords
- innovations: the key contributions or novel ideas, one entry per contribution
- method: how the work was carried out, in plain language
- results: the main experimental or theoretical findings
- conclusion: what the authors conclude and what follow-up work they suggest

Base every value strictly on the paper content. Respond with JSON only.`

// paperInfoSchema constrains the structured-output response so the model
// returns every field with the expected shape.
var paperInfoSchema = &schema{
	Type: "OBJECT",
	Properties: map[string]*schema{
		"title":       {Type: "STRING"},
		"authors":     {Type: "ARRAY", Items: &schema{Type: "STRING"}},
		"abstract":    {Type: "STRING"},
		"field":       {Type: "STRING"},
		"tags":        {Type: "ARRAY", Items: &schema{Type: "STRING"}},
		"innovations": {Type: "ARRAY", Items: &schema{Type: "STRING"}},
		"method":      {Type: "STRING"},
		"results":     {Type: "STRING"},
		"conclusion":  {Type: "STRING"},
	},
	Required: []string{"title", "authors", "abstract", "field", "tags", "innovations", "method", "results", "conclusion"},
}

// ExtractPaper sends the document inline and asks for a structured summary.
// The PDF travels base64-encoded in the request body; the response is
// decoded from the schema-constrained JSON payload and whitespace-trimmed.
func (c *Client) ExtractPaper(ctx context.Context, pdf []byte) (*PaperInfo, error) {
	const op = "gemini extract"
	if len(pdf) == 0 {
		return nil, errors.New(op + ": empty document")
	}

	payload := generateContentRequest{
		Contents: []content{{
			Parts: []part{
				{InlineData: &inlineData{
					MIMEType: "application/pdf",
					Data:     base64.StdEncoding.EncodeToString(pdf),
				}},
				{Text: extractionPrompt},
			},
		}},
		GenerationConfig: &generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   paperInfoSchema,
		},
	}

	resp, err := c.generate(ctx, c.cfg.ExtractionModel, payload, op)
	if err != nil {
		return nil, err
	}
	text, finishReason := firstText(resp)
	if text == "" {
		return nil, &emptyContentError{Op: op, FinishReason: finishReason}
	}

	var info PaperInfo
	if err := json.Unmarshal([]byte(text), &info); err != nil {
		return nil, fmt.Errorf("%s: parse payload: %w", op, err)
	}
	info.Normalize()
	return &info, nil
}

// Normalize trims whitespace from every field and drops empty list entries.
func (p *PaperInfo) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Abstract = strings.TrimSpace(p.Abstract)
	p.Field = strings.TrimSpace(p.Field)
	p.Method = strings.TrimSpace(p.Method)
	p.Results = strings.TrimSpace(p.Results)
	p.Conclusion = strings.TrimSpace(p.Conclusion)
	p.Authors = cleanList(p.Authors)
	p.Tags = cleanList(p.Tags)
	p.Innovations = cleanList(p.Innovations)
}

// Validate enforces the completeness policy for publishable summaries:
// title, abstract, field, method, and results must be non-empty and at
// least one innovation must be present. Authors, tags, and conclusion are
// optional because many preprints omit or bury them.
func (p *PaperInfo) Validate() error {
	var missing []string
	if p.Title == "" {
		missing = append(missing, "title")
	}
	if p.Abstract == "" {
		missing = append(missing, "abstract")
	}
	if p.Field == "" {
		missing = append(missing, "field")
	}
	if len(p.Innovations) == 0 {
		missing = append(missing, "innovations")
	}
	if p.Method == "" {
		missing = append(missing, "method")
	}
	if p.Results == "" {
		missing = append(missing, "results")
	}
	if len(missing) > 0 {
		return fmt.Errorf("incomplete extraction: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

func cleanList(values []string) []string {
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return nil
	}
	return cleaned
}
