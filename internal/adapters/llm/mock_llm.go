package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/PabloGalante/psychologue-api/internal/domain"
)

// MockLLM answers without any network call. Useful for local development.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

// Generate echoes the last patient line of the prompt.
func (m *MockLLM) Generate(ctx context.Context, prompt string, params domain.GenerationParams) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}

	last := ""
	for _, line := range strings.Split(prompt, "\n") {
		if rest, ok := strings.CutPrefix(line, "Patient: "); ok {
			last = rest
		}
	}

	return fmt.Sprintf("je vous entends. Vous dites %q.  Pouvez-vous m'en dire plus sur ce que vous ressentez ?", last), nil
}
