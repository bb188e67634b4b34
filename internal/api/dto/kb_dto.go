package dto

import (
	"sort"

	"github.com/helpdesk-platform/intake-service/internal/domain"
)

// KBArticleResponse is one matched article with content in the requested
// language (falling back when that language is absent).
type KBArticleResponse struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Category  string   `json:"category"`
	Type      string   `json:"type"`
	Keywords  []string `json:"keywords"`
	Languages []string `json:"languages"`
}

// FromKBArticle converts an article for the given display language.
func FromKBArticle(article *domain.KBArticle, lang string) KBArticleResponse {
	langs := make([]string, 0, len(article.Bodies))
	for l := range article.Bodies {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return KBArticleResponse{
		ID:        article.ID,
		Title:     article.Title(lang),
		Body:      article.Body(lang),
		Category:  article.Category,
		Type:      string(article.Type),
		Keywords:  article.Keywords,
		Languages: langs,
	}
}
