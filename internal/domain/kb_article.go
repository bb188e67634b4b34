package domain

import (
	"sort"
	"time"
)

// KBArticleType differentiates knowledge-base entry kinds.
type KBArticleType string

const (
	KBTypeGuide  KBArticleType = "guide"
	KBTypeFAQ    KBArticleType = "faq"
	KBTypePolicy KBArticleType = "policy"
)

// KBArticle is a multilingual knowledge-base entry. Titles and Bodies are
// keyed by language code ("ru", "kk", "en"); at least one language must be
// populated. Unpublished articles are never surfaced to matching.
type KBArticle struct {
	ID        string
	Titles    map[string]string
	Bodies    map[string]string
	Category  string
	Type      KBArticleType
	Keywords  []string
	Published bool
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasLanguage reports whether the article carries content in lang.
func (a *KBArticle) HasLanguage(lang string) bool {
	_, ok := a.Bodies[lang]
	return ok
}

// Title returns the title in lang, falling back to English and then to the
// first populated language in sorted order.
func (a *KBArticle) Title(lang string) string {
	return localized(a.Titles, lang)
}

// Body returns the body in lang with the same fallback order as Title.
func (a *KBArticle) Body(lang string) string {
	return localized(a.Bodies, lang)
}

func localized(values map[string]string, lang string) string {
	if v, ok := values[lang]; ok {
		return v
	}
	if v, ok := values["en"]; ok {
		return v
	}
	langs := make([]string, 0, len(values))
	for l := range values {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	if len(langs) > 0 {
		return values[langs[0]]
	}
	return ""
}
