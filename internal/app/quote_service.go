package app

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/jsamuelsen/quotevault/internal/domain"
	"github.com/jsamuelsen/quotevault/internal/platform/logging"
	"github.com/jsamuelsen/quotevault/internal/ports"
)

// QuoteService orchestrates quote-related use cases.
// It depends on port interfaces, not concrete implementations,
// following the Dependency Inversion Principle.
type QuoteService struct {
	repo    ports.QuoteRepository
	logger  *slog.Logger
	shuffle func([]domain.Quote)
}

// QuoteServiceConfig contains configuration for the quote service.
type QuoteServiceConfig struct {
	Repository ports.QuoteRepository
	Logger     *slog.Logger

	// Shuffle reorders quotes in place. Defaults to a uniform shuffle.
	Shuffle func([]domain.Quote)
}

// ListQuotesInput carries the raw list/search parameters.
type ListQuotesInput struct {
	Query    string
	Author   string
	Tags     string // comma-separated
	Language string
	Sort     string
	Cursor   string
	Limit    int // zero selects the default
}

// CreateQuoteInput carries the unsanitized fields of a new quote.
type CreateQuoteInput struct {
	Title    string
	Content  string
	Author   *string
	Language *string
	Hashtags []string
}

// UpdateQuoteInput carries a partial update. Nil fields and false Set flags
// leave the stored value untouched.
type UpdateQuoteInput struct {
	Title   *string
	Content *string

	AuthorSet bool
	Author    *string

	LanguageSet bool
	Language    *string

	HashtagsSet bool
	Hashtags    []string
}

// NewQuoteService creates a new quote service with the provided dependencies.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Repository == nil {
		panic("app: QuoteServiceConfig.Repository is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	shuffle := cfg.Shuffle
	if shuffle == nil {
		shuffle = func(quotes []domain.Quote) {
			rand.Shuffle(len(quotes), func(i, j int) {
				quotes[i], quotes[j] = quotes[j], quotes[i]
			})
		}
	}

	return &QuoteService{
		repo:    cfg.Repository,
		logger:  logger.With(slog.String("component", "app.QuoteService")),
		shuffle: shuffle,
	}
}

// List returns one page of quotes matching the search and filters.
// Unknown languages are ignored; an unknown sort or an out-of-range limit
// is a validation error.
func (s *QuoteService) List(ctx context.Context, in ListQuotesInput) (*domain.QuotePage, error) {
	sort, err := domain.ParseSortOrder(in.Sort)
	if err != nil {
		return nil, err
	}

	limit := in.Limit
	if limit == 0 {
		limit = domain.DefaultPageLimit
	}

	if limit < 1 || limit > domain.MaxPageLimit {
		return nil, domain.NewValidationErrorWithValue("limit", "must be between 1 and 100", in.Limit)
	}

	filter := domain.QuoteFilter{
		Query:    strings.TrimSpace(in.Query),
		Author:   strings.TrimSpace(in.Author),
		Tags:     domain.ParseTagList(in.Tags),
		Language: domain.ParseLanguage(in.Language),
		Sort:     sort,
		Cursor:   in.Cursor,
		Limit:    limit,
	}

	page, err := s.repo.List(ctx, filter)
	if err != nil {
		s.log(ctx).ErrorContext(ctx, "failed to list quotes", slog.Any("error", err))
		return nil, err
	}

	return page, nil
}

// Suggest returns title suggestions for autocomplete. A blank term returns
// no suggestions without touching the repository.
func (s *QuoteService) Suggest(ctx context.Context, term string) ([]domain.QuoteSummary, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []domain.QuoteSummary{}, nil
	}

	items, err := s.repo.SuggestTitles(ctx, term, domain.SuggestLimit)
	if err != nil {
		s.log(ctx).ErrorContext(ctx, "failed to suggest titles", slog.Any("error", err))
		return nil, err
	}

	return items, nil
}

// Shuffle returns up to limit quotes in random order, drawn from the
// 2×limit most recent quotes. Older quotes are never drawn.
func (s *QuoteService) Shuffle(ctx context.Context, limit int) ([]domain.Quote, error) {
	limit = ClampLimit(limit, domain.DefaultShuffleLimit, domain.MaxShuffleLimit)

	quotes, err := s.repo.Recent(ctx, 2*limit)
	if err != nil {
		s.log(ctx).ErrorContext(ctx, "failed to load quotes to shuffle", slog.Any("error", err))
		return nil, err
	}

	s.shuffle(quotes)

	if len(quotes) > limit {
		quotes = quotes[:limit]
	}

	return quotes, nil
}

// Tags returns tag names starting with prefix, for search suggestions.
func (s *QuoteService) Tags(ctx context.Context, prefix, language string, limit int) ([]string, error) {
	filter := domain.TagFilter{
		Prefix:   domain.NormalizeTagName(prefix),
		Language: domain.ParseLanguage(language),
		Limit:    ClampLimit(limit, domain.DefaultTagLimit, domain.MaxTagLimit),
	}

	names, err := s.repo.TagNames(ctx, filter)
	if err != nil {
		s.log(ctx).ErrorContext(ctx, "failed to list tags", slog.Any("error", err))
		return nil, err
	}

	return names, nil
}

// Get returns a single quote.
func (s *QuoteService) Get(ctx context.Context, id string) (*domain.Quote, error) {
	return s.repo.Get(ctx, id)
}

// Create sanitizes the input and stores a new quote.
func (s *QuoteService) Create(ctx context.Context, in CreateQuoteInput) (*domain.Quote, error) {
	nq := domain.NewQuote{
		Title:    domain.SanitizeTitle(in.Title),
		Content:  domain.SanitizeContent(in.Content),
		Author:   sanitizeAuthor(in.Author),
		Language: parseLanguagePtr(in.Language),
		Hashtags: domain.ParseHashtags(in.Hashtags...),
	}

	if nq.Title == "" || nq.Content == "" {
		return nil, domain.NewValidationError("", "Title and content are required")
	}

	quote, err := s.repo.Create(ctx, nq)
	if err != nil {
		s.log(ctx).ErrorContext(ctx, "failed to create quote", slog.Any("error", err))
		return nil, err
	}

	s.log(ctx).InfoContext(ctx, "quote created",
		slog.String("quote_id", quote.ID),
		slog.Int("hashtags", len(quote.Hashtags)),
	)

	return quote, nil
}

// Update sanitizes the supplied fields and applies them to the quote.
func (s *QuoteService) Update(ctx context.Context, id string, in UpdateQuoteInput) (*domain.Quote, error) {
	patch := domain.QuotePatch{
		AuthorSet:   in.AuthorSet,
		LanguageSet: in.LanguageSet,
		HashtagsSet: in.HashtagsSet,
	}

	if in.Title != nil {
		title := domain.SanitizeTitle(*in.Title)
		if title == "" {
			return nil, domain.NewValidationError("title", "must not be empty")
		}

		patch.Title = &title
	}

	if in.Content != nil {
		content := domain.SanitizeContent(*in.Content)
		if content == "" {
			return nil, domain.NewValidationError("content", "must not be empty")
		}

		patch.Content = &content
	}

	if in.AuthorSet {
		patch.Author = sanitizeAuthor(in.Author)
	}

	if in.LanguageSet {
		patch.Language = parseLanguagePtr(in.Language)
	}

	if in.HashtagsSet {
		patch.Hashtags = domain.ParseHashtags(in.Hashtags...)
	}

	quote, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if !domain.IsNotFound(err) {
			s.log(ctx).ErrorContext(ctx, "failed to update quote",
				slog.String("quote_id", id),
				slog.Any("error", err),
			)
		}

		return nil, err
	}

	s.log(ctx).InfoContext(ctx, "quote updated", slog.String("quote_id", id))

	return quote, nil
}

// Delete removes a quote.
func (s *QuoteService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if !domain.IsNotFound(err) {
			s.log(ctx).ErrorContext(ctx, "failed to delete quote",
				slog.String("quote_id", id),
				slog.Any("error", err),
			)
		}

		return err
	}

	s.log(ctx).InfoContext(ctx, "quote deleted", slog.String("quote_id", id))

	return nil
}

func (s *QuoteService) log(ctx context.Context) *slog.Logger {
	return logging.FromContextOr(ctx, s.logger)
}

// ClampLimit maps a non-positive limit to def and caps it at maxLimit.
func ClampLimit(limit, def, maxLimit int) int {
	if limit <= 0 {
		return def
	}

	return min(limit, maxLimit)
}

// sanitizeAuthor returns nil for a missing author or one that sanitizes to empty.
func sanitizeAuthor(author *string) *string {
	if author == nil {
		return nil
	}

	a := domain.SanitizeAuthor(*author)
	if a == "" {
		return nil
	}

	return &a
}

func parseLanguagePtr(lang *string) domain.Language {
	if lang == nil {
		return domain.LanguageUnset
	}

	return domain.ParseLanguage(*lang)
}
