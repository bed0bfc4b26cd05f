package slides

import (
	"context"
	"fmt"

	"github.com/nhle/foundry/internal/ai"
	"github.com/nhle/foundry/internal/model"
)

// Draft asks the provider for a pitch deck and parses the markdown
// response into a slide deck document.
func Draft(
	ctx context.Context,
	provider ai.Provider,
	title, topic string,
) (*model.Document, error) {
	system, user := ai.SlideDeckPrompt(topic)
	raw, err := provider.Generate(ctx, system, user)
	if err != nil {
		return nil, fmt.Errorf("generating slide deck: %w", err)
	}

	deck, err := Parse([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing drafted deck: %w", err)
	}
	if title != "" {
		deck.Meta.Title = title
	}

	doc := ToDocument(deck)
	doc.Description = topic
	return doc, nil
}
