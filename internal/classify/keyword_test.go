package classify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-platform/intake-service/internal/domain"
)

func TestKeywordClassifierCategories(t *testing.T) {
	c := NewKeywordClassifier()
	ctx := context.Background()

	cases := []struct {
		name     string
		text     string
		category string
		priority domain.TicketPriority
	}{
		{
			name:     "vpn russian",
			text:     "VPN не подключается из дома",
			category: "access_vpn",
			priority: domain.TicketPriorityHigh,
		},
		{
			name:     "printer low priority",
			text:     "Принтер на третьем этаже зажевал бумагу",
			category: "hardware_printer",
			priority: domain.TicketPriorityLow,
		},
		{
			name:     "password english",
			text:     "my account is locked and the password does not work",
			category: "account_password",
			priority: domain.TicketPriorityMedium,
		},
		{
			name:     "outlook kazakh",
			text:     "Пошта жүйесі ашылмайды",
			category: "email_outlook",
			priority: domain.TicketPriorityMedium,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := c.Classify(ctx, tc.text, "")
			require.NoError(t, err)
			assert.Equal(t, tc.category, result.Category)
			assert.Equal(t, tc.priority, result.Priority)
			assert.Greater(t, result.CategoryConf, 0.4)
			assert.NotEmpty(t, result.Summary)
		})
	}
}

func TestKeywordClassifierUnmatchedFallsBackToGeneral(t *testing.T) {
	c := NewKeywordClassifier()

	result, err := c.Classify(context.Background(), "совещание перенесли на завтра", "")
	require.NoError(t, err)
	assert.Equal(t, "general", result.Category)
	assert.Equal(t, domain.DispositionNeedsOperator, result.Disposition)
	assert.Equal(t, domain.TicketPriorityMedium, result.Priority)
}

func TestKeywordClassifierErrorCodeBoostsPriority(t *testing.T) {
	c := NewKeywordClassifier()

	result, err := c.Classify(context.Background(), "принтер выдает ошибка 0x5013 при печати", "")
	require.NoError(t, err)
	assert.Equal(t, "hardware_printer", result.Category)
	assert.Equal(t, domain.TicketPriorityHigh, result.Priority)
	assert.InDelta(t, 0.7, result.PriorityConf, 1e-9)
}

func TestKeywordClassifierMultipleHitsSuggestAutoResolve(t *testing.T) {
	c := NewKeywordClassifier()

	result, err := c.Classify(context.Background(), "vpn туннель не поднимается, remote access недоступен", "")
	require.NoError(t, err)
	assert.Equal(t, "access_vpn", result.Category)
	assert.Equal(t, domain.DispositionAutoResolvable, result.Disposition)
}

func TestKeywordClassifierDeterministicOnTies(t *testing.T) {
	c := NewKeywordClassifier()
	ctx := context.Background()

	// One hit for access_vpn and one for account_password; the earlier rule
	// must win every time.
	for i := 0; i < 20; i++ {
		result, err := c.Classify(ctx, "vpn просит пароль", "")
		require.NoError(t, err)
		assert.Equal(t, "access_vpn", result.Category)
	}
}

func TestKeywordClassifierSummaryTruncation(t *testing.T) {
	c := NewKeywordClassifier()

	long := "принтер "
	for len([]rune(long)) < 300 {
		long += "очень сильно сломался "
	}
	result, err := c.Classify(context.Background(), long, "")
	require.NoError(t, err)
	assert.LessOrEqual(t, len([]rune(result.Summary)), summaryLimit)
}

func TestKeywordsTokenization(t *testing.T) {
	got := Keywords("VPN не работает: ошибка 789, VPN!!")
	assert.Equal(t, []string{"vpn", "работает", "ошибка", "789"}, got)
}

func TestKeywordsCapped(t *testing.T) {
	text := "alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo lima mike november"
	got := Keywords(text)
	assert.Len(t, got, maxKeywords)
}
