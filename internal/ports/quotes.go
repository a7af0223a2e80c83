// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never storage models or driver types
//   - Error returns use domain error types (ErrNotFound, ErrUnavailable, etc.)
package ports

import (
	"context"

	"github.com/jsamuelsen/quotevault/internal/domain"
)

// QuoteRepository persists quotes and their tags.
//
// Implementations own query construction: filters, keyset cursors and the
// atomic get-or-create of tag rows all live behind this interface.
type QuoteRepository interface {
	// List returns one page of quotes matching the filter.
	// An unknown cursor yields an empty page.
	List(ctx context.Context, filter domain.QuoteFilter) (*domain.QuotePage, error)

	// SuggestTitles returns up to limit quotes whose title contains term,
	// case-insensitively, newest first.
	SuggestTitles(ctx context.Context, term string, limit int) ([]domain.QuoteSummary, error)

	// Recent returns the limit most recently created quotes.
	Recent(ctx context.Context, limit int) ([]domain.Quote, error)

	// TagNames returns tag names starting with the filter prefix, ordered by name.
	TagNames(ctx context.Context, filter domain.TagFilter) ([]string, error)

	// Create stores a new quote, creating missing tags, and returns it
	// with its assigned ID and creation time.
	Create(ctx context.Context, quote domain.NewQuote) (*domain.Quote, error)

	// Get returns the quote with the given ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.Quote, error)

	// Update applies a partial update.
	// Returns domain.ErrNotFound if the quote does not exist.
	Update(ctx context.Context, id string, patch domain.QuotePatch) (*domain.Quote, error)

	// Delete removes the quote and its tag links. Tags themselves remain.
	// Returns domain.ErrNotFound if the quote does not exist.
	Delete(ctx context.Context, id string) error
}
