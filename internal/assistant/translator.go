package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/fundgraph/internal/platform/openai"
)

// Translator turns a question into a Cypher query for the given schema description.
type Translator interface {
	Translate(ctx context.Context, question, tenantID, schema string) (string, error)
}

type LLMTranslator struct {
	client openai.Client
	cfg    PromptConfig
}

func NewLLMTranslator(client openai.Client, cfg PromptConfig) *LLMTranslator {
	return &LLMTranslator{client: client, cfg: cfg}
}

func (t *LLMTranslator) systemPrompt(schema string) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(t.cfg.System))
	sb.WriteString("\n\nSchema:\n")
	sb.WriteString(schema)
	if len(t.cfg.Examples) > 0 {
		sb.WriteString("\nExamples:\n")
		for _, ex := range t.cfg.Examples {
			fmt.Fprintf(&sb, "Question: %s\nCypher:\n%s\n\n", ex.Question, strings.TrimSpace(ex.Cypher))
		}
	}
	return sb.String()
}

func (t *LLMTranslator) Translate(ctx context.Context, question, tenantID, schema string) (string, error) {
	user := fmt.Sprintf("Tenant parameter: $tenant_id (value %q)\nQuestion: %s", tenantID, question)
	out, err := t.client.GenerateText(ctx, t.systemPrompt(schema), user)
	if err != nil {
		return "", fmt.Errorf("translate question: %w", err)
	}
	cypher := stripFences(out)
	if cypher == "" {
		return "", fmt.Errorf("translate question: empty query")
	}
	return cypher, nil
}

// stripFences removes a surrounding markdown code fence, which models add despite being
// told not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = ""
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
