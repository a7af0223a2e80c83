package store

import (
	"strings"

	"gorm.io/gorm"

	"github.com/jsamuelsen/quotevault/internal/domain"
)

const (
	textMatch = `LOWER(quotes.title) LIKE ? ESCAPE '\' OR LOWER(quotes.content) LIKE ? ESCAPE '\' OR LOWER(quotes.author) LIKE ? ESCAPE '\'`

	authorMatch = `LOWER(quotes.author) LIKE ? ESCAPE '\'`

	hasTag = `quotes.id IN (SELECT quote_tags.quote_id FROM quote_tags ` +
		`JOIN tags ON tags.id = quote_tags.tag_id WHERE tags.name = ?)`

	tagUsedInLanguage = `tags.id IN (SELECT quote_tags.tag_id FROM quote_tags ` +
		`JOIN quotes ON quotes.id = quote_tags.quote_id WHERE quotes.language = ?)`

	afterCursorDesc = `(quotes.created_at < ? OR (quotes.created_at = ? AND quotes.id < ?))`
	afterCursorAsc  = `(quotes.created_at > ? OR (quotes.created_at = ? AND quotes.id > ?))`
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching term anywhere, case-insensitively.
// The caller compares it against LOWER(column).
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

// prefixPattern builds a LIKE pattern matching values that start with prefix.
func prefixPattern(prefix string) string {
	return likeEscaper.Replace(prefix) + "%"
}

// applyFilter adds the search and filter conditions of f to q.
// Blank text filters, an empty tag list and an unset language add nothing.
func applyFilter(q *gorm.DB, f *domain.QuoteFilter) *gorm.DB {
	if term := strings.TrimSpace(f.Query); term != "" {
		p := containsPattern(term)
		q = q.Where("("+textMatch+")", p, p, p)
	}

	if author := strings.TrimSpace(f.Author); author != "" {
		q = q.Where(authorMatch, containsPattern(author))
	}

	for _, name := range f.Tags {
		q = q.Where(hasTag, name)
	}

	if f.Language.IsSet() {
		q = q.Where("quotes.language = ?", string(f.Language))
	}

	return q
}

// applyOrder orders by creation time with the id as tie-breaker.
func applyOrder(q *gorm.DB, sort domain.SortOrder) *gorm.DB {
	if sort == domain.SortOldest {
		return q.Order("quotes.created_at ASC").Order("quotes.id ASC")
	}

	return q.Order("quotes.created_at DESC").Order("quotes.id DESC")
}

// applyCursor continues strictly after the cursor row in the active order.
func applyCursor(q *gorm.DB, sort domain.SortOrder, cursor *quoteRecord) *gorm.DB {
	cond := afterCursorDesc
	if sort == domain.SortOldest {
		cond = afterCursorAsc
	}

	return q.Where(cond, cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
}
