package store

import (
	"context"
	"fmt"

	"github.com/jsamuelsen/quotevault/internal/domain"
)

func ptr(s string) *string { return &s }

// SampleQuotes are inserted by Seed into an empty database.
var SampleQuotes = []domain.NewQuote{
	{
		Title:    "The only way to do great work",
		Content:  "The only way to do great work is to love what you do. If you haven't found it yet, keep looking. Don't settle.",
		Author:   ptr("Steve Jobs"),
		Hashtags: []string{"motivation", "work"},
	},
	{
		Title:    "Be the change",
		Content:  "Be the change that you wish to see in the world.",
		Author:   ptr("Mahatma Gandhi"),
		Hashtags: []string{"wisdom", "inspiration"},
	},
}

// Seed inserts SampleQuotes when the quotes table is empty and returns the
// number of quotes created.
func (s *QuoteStore) Seed(ctx context.Context) (int, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}

	if n > 0 {
		return 0, nil
	}

	for i, q := range SampleQuotes {
		if _, err := s.Create(ctx, q); err != nil {
			return i, fmt.Errorf("seeding quote %q: %w", q.Title, err)
		}
	}

	return len(SampleQuotes), nil
}
