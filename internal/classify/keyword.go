package classify

import (
	"context"
	"regexp"
	"strings"

	"github.com/helpdesk-platform/intake-service/internal/domain"
)

// KeywordClassifier is a rule-based scorer used when no external scoring
// service is configured. It covers the common helpdesk categories well
// enough for development and for channels that must keep working while the
// real model is down.
type KeywordClassifier struct {
	rules []keywordRule
}

type keywordRule struct {
	category string
	terms    []string
	priority domain.TicketPriority
}

var errorCodePattern = regexp.MustCompile(`(?i)(ошибка|қате|error)\s*#?\d+`)

// NewKeywordClassifier builds the classifier with the built-in rule set.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{rules: []keywordRule{
		{
			category: "access_vpn",
			terms:    []string{"vpn", "впн", "туннел", "remote access", "удаленный доступ", "қашықтан"},
			priority: domain.TicketPriorityHigh,
		},
		{
			category: "account_password",
			terms:    []string{"пароль", "password", "құпия сөз", "логин", "login", "заблокирован", "locked"},
			priority: domain.TicketPriorityMedium,
		},
		{
			category: "hardware_printer",
			terms:    []string{"принтер", "printer", "печать", "картридж", "toner", "басып шығару"},
			priority: domain.TicketPriorityLow,
		},
		{
			category: "email_outlook",
			terms:    []string{"outlook", "почта", "email", "пошта", "письмо", "mailbox"},
			priority: domain.TicketPriorityMedium,
		},
		{
			category: "network",
			terms:    []string{"интернет", "internet", "сеть", "wifi", "желі", "network"},
			priority: domain.TicketPriorityHigh,
		},
	}}
}

// Classify matches rule terms as substrings of the lowercased text. The rule
// with the most hits wins; ties go to the earlier rule, which keeps repeated
// calls deterministic.
func (c *KeywordClassifier) Classify(ctx context.Context, text, language string) (*Result, error) {
	lower := strings.ToLower(text)

	best := -1
	bestHits := 0
	for i, rule := range c.rules {
		hits := 0
		for _, term := range rule.terms {
			if strings.Contains(lower, term) {
				hits++
			}
		}
		if hits > bestHits {
			best = i
			bestHits = hits
		}
	}

	if best < 0 {
		return &Result{
			Category:        "general",
			CategoryConf:    0.2,
			Priority:        domain.TicketPriorityMedium,
			PriorityConf:    0.3,
			Disposition:     domain.DispositionNeedsOperator,
			DispositionConf: 0.5,
			Summary:         summarize(text),
		}, nil
	}

	rule := c.rules[best]
	categoryConf := 0.45 + 0.15*float64(bestHits)
	if categoryConf > 0.95 {
		categoryConf = 0.95
	}

	priority := rule.priority
	priorityConf := 0.5
	if errorCodePattern.MatchString(text) {
		// Explicit error codes usually mean something is actually broken.
		if priority == domain.TicketPriorityLow || priority == domain.TicketPriorityMedium {
			priority = domain.TicketPriorityHigh
		}
		priorityConf = 0.7
	}

	disposition := domain.DispositionNeedsOperator
	dispositionConf := 0.5
	if bestHits >= 2 {
		disposition = domain.DispositionAutoResolvable
		dispositionConf = 0.6
	}

	return &Result{
		Category:        rule.category,
		CategoryConf:    categoryConf,
		Priority:        priority,
		PriorityConf:    priorityConf,
		Disposition:     disposition,
		DispositionConf: dispositionConf,
		Summary:         summarize(text),
	}, nil
}

const summaryLimit = 140

func summarize(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= summaryLimit {
		return text
	}
	return string(runes[:summaryLimit-1]) + "…"
}
