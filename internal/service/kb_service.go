package service

import (
	"context"
	"iter"
	"sort"
	"strings"

	"github.com/helpdesk-platform/intake-service/internal/domain"
	"github.com/helpdesk-platform/intake-service/internal/repository"
	"github.com/helpdesk-platform/intake-service/pkg/util/errorutil"
)

// KBService ranks knowledge-base articles for a triaged ticket. Ranking is
// deterministic: exact category match outweighs keyword overlap, and content
// in the requested language breaks ties without ever excluding an article.
type KBService struct {
	kb repository.KBRepository
}

// MatchQuery describes what the matcher ranks against.
type MatchQuery struct {
	Category string
	Keywords []string
	Language string
	Limit    int
}

// NewKBService constructs the matcher.
func NewKBService(kb repository.KBRepository) *KBService {
	return &KBService{kb: kb}
}

// Match returns up to Limit published articles, most relevant first.
func (s *KBService) Match(ctx context.Context, q MatchQuery) ([]domain.KBArticle, error) {
	var out []domain.KBArticle
	for article := range s.MatchSeq(ctx, q) {
		out = append(out, article)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, ctx.Err()
}

// MatchSeq yields ranked published articles lazily; callers may stop after
// any prefix. Re-invocation with the same query over unchanged KB contents
// yields the same order.
func (s *KBService) MatchSeq(ctx context.Context, q MatchQuery) iter.Seq[domain.KBArticle] {
	return func(yield func(domain.KBArticle) bool) {
		articles, err := s.kb.List(ctx, true)
		if err != nil {
			return
		}
		ranked := rankArticles(articles, q)
		for _, entry := range ranked {
			if entry.score.overlap == 0 && !entry.score.category {
				// Nothing relates this article to the query.
				continue
			}
			if !yield(articles[entry.index]) {
				return
			}
		}
	}
}

// ListArticles exposes the raw KB contents, optionally restricted to
// published entries.
func (s *KBService) ListArticles(ctx context.Context, publishedOnly bool) ([]domain.KBArticle, error) {
	articles, err := s.kb.List(ctx, publishedOnly)
	if err != nil {
		return nil, errorutil.NewStorageFailure(err)
	}
	return articles, nil
}

type articleScore struct {
	category bool
	overlap  int
	language bool
}

type rankedEntry struct {
	index int
	score articleScore
	id    string
}

func rankArticles(articles []domain.KBArticle, q MatchQuery) []rankedEntry {
	queryTerms := make(map[string]struct{}, len(q.Keywords))
	for _, kw := range q.Keywords {
		queryTerms[strings.ToLower(strings.TrimSpace(kw))] = struct{}{}
	}

	ranked := make([]rankedEntry, 0, len(articles))
	for i := range articles {
		article := &articles[i]
		score := articleScore{
			category: q.Category != "" && article.Category == q.Category,
			language: q.Language != "" && article.HasLanguage(q.Language),
		}
		for _, kw := range article.Keywords {
			if _, ok := queryTerms[strings.ToLower(kw)]; ok {
				score.overlap++
			}
		}
		ranked = append(ranked, rankedEntry{index: i, score: score, id: article.ID})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].score, ranked[j].score
		if a.category != b.category {
			return a.category
		}
		if a.overlap != b.overlap {
			return a.overlap > b.overlap
		}
		if a.language != b.language {
			return a.language
		}
		// Stable final order independent of store iteration.
		return ranked[i].id < ranked[j].id
	})
	return ranked
}
