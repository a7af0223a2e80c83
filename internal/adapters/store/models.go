package store

import (
	"time"

	"github.com/jsamuelsen/quotevault/internal/domain"
)

type quoteRecord struct {
	ID        string      `gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time   `gorm:"not null;index:idx_quotes_created_at"`
	Title     string      `gorm:"type:varchar(500);not null"`
	Content   string      `gorm:"type:text;not null"`
	Author    *string     `gorm:"type:varchar(200)"`
	Language  *string     `gorm:"type:varchar(2);index:idx_quotes_language"`
	Tags      []tagRecord `gorm:"many2many:quote_tags;joinForeignKey:QuoteID;joinReferences:TagID"`
}

func (quoteRecord) TableName() string { return "quotes" }

type tagRecord struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(100);uniqueIndex;not null"`
}

func (tagRecord) TableName() string { return "tags" }

func (r *quoteRecord) toDomain() domain.Quote {
	hashtags := make([]string, 0, len(r.Tags))
	for _, t := range r.Tags {
		hashtags = append(hashtags, t.Name)
	}

	q := domain.Quote{
		ID:        r.ID,
		CreatedAt: r.CreatedAt.UTC(),
		Title:     r.Title,
		Content:   r.Content,
		Author:    r.Author,
		Hashtags:  hashtags,
	}

	if r.Language != nil {
		q.Language = domain.ParseLanguage(*r.Language)
	}

	return q
}

func languageColumn(l domain.Language) *string {
	if !l.IsSet() {
		return nil
	}

	s := string(l)

	return &s
}

func toDomainQuotes(records []quoteRecord) []domain.Quote {
	quotes := make([]domain.Quote, 0, len(records))
	for i := range records {
		quotes = append(quotes, records[i].toDomain())
	}

	return quotes
}
