package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-platform/intake-service/internal/domain"
	"github.com/helpdesk-platform/intake-service/internal/repository"
	"github.com/helpdesk-platform/intake-service/internal/repository/memory"
)

func seedKB(t *testing.T) (repository.KBRepository, map[string]string) {
	t.Helper()
	repo := memory.NewKBRepository()
	ctx := context.Background()
	ids := make(map[string]string)

	articles := []struct {
		name    string
		article domain.KBArticle
	}{
		{"vpn-reset", domain.KBArticle{
			Titles:    map[string]string{"ru": "Сброс пароля VPN", "en": "VPN password reset"},
			Bodies:    map[string]string{"ru": "Откройте портал self-service и выберите VPN.", "en": "Open the self-service portal and pick VPN."},
			Category:  "access_vpn",
			Type:      domain.KBTypeGuide,
			Keywords:  []string{"vpn", "пароль", "сброс", "reset"},
			Published: true,
		}},
		{"vpn-errors", domain.KBArticle{
			Titles:    map[string]string{"ru": "Ошибки подключения VPN"},
			Bodies:    map[string]string{"ru": "Коды 789 и 809 означают проблему с клиентом VPN."},
			Category:  "access_vpn",
			Type:      domain.KBTypeFAQ,
			Keywords:  []string{"vpn", "ошибка", "789", "809"},
			Published: true,
		}},
		{"network-vpn", domain.KBArticle{
			Titles:    map[string]string{"en": "Office network checklist"},
			Bodies:    map[string]string{"en": "Check the cable, then the vpn concentrator."},
			Category:  "network",
			Type:      domain.KBTypeGuide,
			Keywords:  []string{"vpn", "пароль", "сброс", "network"},
			Published: true,
		}},
		{"vpn-draft", domain.KBArticle{
			Titles:    map[string]string{"en": "VPN policy draft"},
			Bodies:    map[string]string{"en": "Draft, do not surface."},
			Category:  "access_vpn",
			Type:      domain.KBTypePolicy,
			Keywords:  []string{"vpn", "пароль"},
			Published: false,
		}},
	}
	for _, entry := range articles {
		a := entry.article
		require.NoError(t, repo.Create(ctx, &a))
		ids[entry.name] = a.ID
	}
	return repo, ids
}

func matchedIDs(articles []domain.KBArticle) []string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.ID
	}
	return out
}

func TestMatchCategoryOutranksKeywordOverlap(t *testing.T) {
	repo, ids := seedKB(t)
	svc := NewKBService(repo)

	matches, err := svc.Match(context.Background(), MatchQuery{
		Category: "access_vpn",
		Keywords: []string{"vpn", "пароль", "сброс"},
		Language: "ru",
		Limit:    5,
	})
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	// The same-keyword article of another category must sit below every
	// category match even though it overlaps on three terms.
	got := matchedIDs(matches)
	assert.Equal(t, ids["vpn-reset"], got[0])
	assert.Equal(t, ids["network-vpn"], got[len(got)-1])
}

func TestMatchExcludesUnpublished(t *testing.T) {
	repo, ids := seedKB(t)
	svc := NewKBService(repo)

	matches, err := svc.Match(context.Background(), MatchQuery{
		Category: "access_vpn",
		Keywords: []string{"vpn"},
		Limit:    10,
	})
	require.NoError(t, err)
	assert.NotContains(t, matchedIDs(matches), ids["vpn-draft"])
}

func TestMatchDeterministicAcrossCalls(t *testing.T) {
	repo, _ := seedKB(t)
	svc := NewKBService(repo)
	query := MatchQuery{
		Category: "access_vpn",
		Keywords: []string{"vpn", "ошибка", "789"},
		Language: "ru",
		Limit:    5,
	}

	first, err := svc.Match(context.Background(), query)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := svc.Match(context.Background(), query)
		require.NoError(t, err)
		assert.Equal(t, matchedIDs(first), matchedIDs(again))
	}
}

func TestMatchLanguageBreaksTies(t *testing.T) {
	repo := memory.NewKBRepository()
	ctx := context.Background()

	enOnly := domain.KBArticle{
		Titles:    map[string]string{"en": "Printer jam"},
		Bodies:    map[string]string{"en": "Open the tray."},
		Category:  "hardware_printer",
		Type:      domain.KBTypeGuide,
		Keywords:  []string{"принтер"},
		Published: true,
	}
	withRU := domain.KBArticle{
		Titles:    map[string]string{"ru": "Замятие бумаги", "en": "Printer jam"},
		Bodies:    map[string]string{"ru": "Откройте лоток.", "en": "Open the tray."},
		Category:  "hardware_printer",
		Type:      domain.KBTypeGuide,
		Keywords:  []string{"принтер"},
		Published: true,
	}
	require.NoError(t, repo.Create(ctx, &enOnly))
	require.NoError(t, repo.Create(ctx, &withRU))

	svc := NewKBService(repo)
	matches, err := svc.Match(ctx, MatchQuery{
		Category: "hardware_printer",
		Keywords: []string{"принтер"},
		Language: "ru",
		Limit:    2,
	})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, withRU.ID, matches[0].ID)
	assert.Equal(t, enOnly.ID, matches[1].ID)
}

func TestMatchSkipsUnrelatedArticles(t *testing.T) {
	repo, _ := seedKB(t)
	svc := NewKBService(repo)

	matches, err := svc.Match(context.Background(), MatchQuery{
		Category: "email_outlook",
		Keywords: []string{"совещание"},
		Limit:    10,
	})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestMatchSeqStopsAfterPrefix(t *testing.T) {
	repo, ids := seedKB(t)
	svc := NewKBService(repo)

	var got []string
	for article := range svc.MatchSeq(context.Background(), MatchQuery{
		Category: "access_vpn",
		Keywords: []string{"vpn", "пароль", "сброс"},
		Language: "ru",
	}) {
		got = append(got, article.ID)
		break
	}
	require.Len(t, got, 1)
	assert.Equal(t, ids["vpn-reset"], got[0])
}

func TestListArticlesPublishedFilter(t *testing.T) {
	repo, _ := seedKB(t)
	svc := NewKBService(repo)

	all, err := svc.ListArticles(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	published, err := svc.ListArticles(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, published, 3)
}
