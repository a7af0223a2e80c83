package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jsamuelsen/quotevault/internal/domain"
	"github.com/jsamuelsen/quotevault/internal/ports"
)

const quoteEntity = "quote"

// Compile-time interface check.
var _ ports.QuoteRepository = (*QuoteStore)(nil)

// QuoteStore is the gorm implementation of ports.QuoteRepository.
type QuoteStore struct {
	db  *gorm.DB
	now func() time.Time
}

// Option configures a QuoteStore.
type Option func(*QuoteStore)

// WithClock replaces the creation-time source.
func WithClock(now func() time.Time) Option {
	return func(s *QuoteStore) {
		s.now = now
	}
}

// NewQuoteStore creates a store on an open database.
func NewQuoteStore(db *gorm.DB, opts ...Option) *QuoteStore {
	s := &QuoteStore{
		db:  db,
		now: time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// List returns one page of quotes. It fetches one row beyond the limit to
// learn whether another page follows.
func (s *QuoteStore) List(ctx context.Context, filter domain.QuoteFilter) (*domain.QuotePage, error) {
	limit := clampLimit(filter.Limit, domain.DefaultPageLimit, domain.MaxPageLimit)
	db := s.db.WithContext(ctx)

	q := applyFilter(db.Model(&quoteRecord{}), &filter)

	if filter.Cursor != "" {
		var cursor quoteRecord

		err := db.Select("id", "created_at").Where("id = ?", filter.Cursor).Take(&cursor).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &domain.QuotePage{Items: []domain.Quote{}}, nil
		}

		if err != nil {
			return nil, fmt.Errorf("loading cursor quote: %w", err)
		}

		q = applyCursor(q, filter.Sort, &cursor)
	}

	var records []quoteRecord

	err := applyOrder(q, filter.Sort).
		Preload("Tags", orderTags).
		Limit(limit + 1).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("listing quotes: %w", err)
	}

	page := &domain.QuotePage{}

	if len(records) > limit {
		records = records[:limit]
		page.NextCursor = records[len(records)-1].ID
	}

	page.Items = toDomainQuotes(records)

	return page, nil
}

// SuggestTitles returns id and title of quotes whose title contains term.
func (s *QuoteStore) SuggestTitles(ctx context.Context, term string, limit int) ([]domain.QuoteSummary, error) {
	var records []quoteRecord

	err := applyOrder(s.db.WithContext(ctx).Model(&quoteRecord{}), domain.SortNewest).
		Select("quotes.id", "quotes.title").
		Where(`LOWER(quotes.title) LIKE ? ESCAPE '\'`, containsPattern(term)).
		Limit(clampLimit(limit, domain.SuggestLimit, domain.MaxPageLimit)).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("suggesting titles: %w", err)
	}

	items := make([]domain.QuoteSummary, 0, len(records))
	for _, r := range records {
		items = append(items, domain.QuoteSummary{ID: r.ID, Title: r.Title})
	}

	return items, nil
}

// Recent returns the most recently created quotes, newest first.
func (s *QuoteStore) Recent(ctx context.Context, limit int) ([]domain.Quote, error) {
	var records []quoteRecord

	err := applyOrder(s.db.WithContext(ctx).Model(&quoteRecord{}), domain.SortNewest).
		Preload("Tags", orderTags).
		Limit(clampLimit(limit, domain.DefaultShuffleLimit, 2*domain.MaxShuffleLimit)).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("loading recent quotes: %w", err)
	}

	return toDomainQuotes(records), nil
}

// TagNames returns tag names starting with the prefix. With a language set,
// only tags attached to at least one quote in that language are returned.
func (s *QuoteStore) TagNames(ctx context.Context, filter domain.TagFilter) ([]string, error) {
	q := s.db.WithContext(ctx).Model(&tagRecord{})

	if filter.Prefix != "" {
		q = q.Where(`tags.name LIKE ? ESCAPE '\'`, prefixPattern(filter.Prefix))
	}

	if filter.Language.IsSet() {
		q = q.Where(tagUsedInLanguage, string(filter.Language))
	}

	names := make([]string, 0)

	err := q.Order("tags.name ASC").
		Limit(clampLimit(filter.Limit, domain.DefaultTagLimit, domain.MaxTagLimit)).
		Pluck("tags.name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	return names, nil
}

// Create stores a new quote with a UUIDv7 id. Missing tags are created in
// the same transaction.
func (s *QuoteStore) Create(ctx context.Context, quote domain.NewQuote) (*domain.Quote, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating quote id: %w", err)
	}

	record := quoteRecord{
		ID:        id.String(),
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
		Title:     quote.Title,
		Content:   quote.Content,
		Author:    quote.Author,
		Language:  languageColumn(quote.Language),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := upsertTags(tx, quote.Hashtags)
		if err != nil {
			return err
		}

		record.Tags = tags

		return tx.Omit("Tags.*").Create(&record).Error
	})
	if err != nil {
		return nil, fmt.Errorf("creating quote: %w", err)
	}

	return s.Get(ctx, record.ID)
}

// Get returns a single quote with its tags.
func (s *QuoteStore) Get(ctx context.Context, id string) (*domain.Quote, error) {
	var record quoteRecord

	err := s.db.WithContext(ctx).Preload("Tags", orderTags).Where("id = ?", id).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError(quoteEntity, id)
	}

	if err != nil {
		return nil, fmt.Errorf("loading quote: %w", err)
	}

	q := record.toDomain()

	return &q, nil
}

// Update applies the supplied fields of patch. Supplied hashtags replace
// the quote's whole tag set.
func (s *QuoteStore) Update(ctx context.Context, id string, patch domain.QuotePatch) (*domain.Quote, error) {
	if patch.IsEmpty() {
		return s.Get(ctx, id)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record quoteRecord
		if err := tx.Where("id = ?", id).Take(&record).Error; err != nil {
			return err
		}

		if updates := patchColumns(&patch); len(updates) > 0 {
			if err := tx.Model(&record).Updates(updates).Error; err != nil {
				return err
			}
		}

		if !patch.HashtagsSet {
			return nil
		}

		tags, err := upsertTags(tx, patch.Hashtags)
		if err != nil {
			return err
		}

		association := tx.Model(&record).Association("Tags")
		if len(tags) == 0 {
			return association.Clear()
		}

		return association.Replace(tags)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError(quoteEntity, id)
	}

	if err != nil {
		return nil, fmt.Errorf("updating quote: %w", err)
	}

	return s.Get(ctx, id)
}

// Delete removes the quote and its tag links. Tag rows are kept.
func (s *QuoteStore) Delete(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record quoteRecord
		if err := tx.Select("id").Where("id = ?", id).Take(&record).Error; err != nil {
			return err
		}

		return tx.Select("Tags").Delete(&record).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NewNotFoundError(quoteEntity, id)
	}

	if err != nil {
		return fmt.Errorf("deleting quote: %w", err)
	}

	return nil
}

// Count returns the number of stored quotes.
func (s *QuoteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&quoteRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting quotes: %w", err)
	}

	return n, nil
}

// upsertTags creates any missing tags with a single conflict-tolerant insert
// and then reads all of them back, ordered by name.
func upsertTags(tx *gorm.DB, names []string) ([]tagRecord, error) {
	if len(names) == 0 {
		return nil, nil
	}

	rows := make([]tagRecord, 0, len(names))
	for _, name := range names {
		rows = append(rows, tagRecord{Name: name})
	}

	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("creating tags: %w", err)
	}

	var tags []tagRecord
	if err := tx.Where("name IN ?", names).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("loading tags: %w", err)
	}

	return tags, nil
}

func patchColumns(p *domain.QuotePatch) map[string]any {
	updates := make(map[string]any)

	if p.Title != nil {
		updates["title"] = *p.Title
	}

	if p.Content != nil {
		updates["content"] = *p.Content
	}

	if p.AuthorSet {
		if p.Author == nil {
			updates["author"] = nil
		} else {
			updates["author"] = *p.Author
		}
	}

	if p.LanguageSet {
		if lang := languageColumn(p.Language); lang == nil {
			updates["language"] = nil
		} else {
			updates["language"] = *lang
		}
	}

	return updates
}

func orderTags(db *gorm.DB) *gorm.DB {
	return db.Order("tags.name ASC")
}

func clampLimit(limit, def, maxLimit int) int {
	if limit <= 0 {
		return def
	}

	return min(limit, maxLimit)
}
