// Package classify defines the contract for the external NLP scoring service
// and the clients that speak it. The service is consumed as an opaque scorer:
// text and language in, labeled dimensions with confidences out.
package classify

import (
	"context"
	"strings"
	"unicode"

	"github.com/helpdesk-platform/intake-service/internal/domain"
)

// Result is the scoring-service output for one piece of text. Confidences
// are in [0,1] and independent per dimension.
type Result struct {
	Category        string                   `json:"category"`
	CategoryConf    float64                  `json:"category_conf"`
	Priority        domain.TicketPriority    `json:"priority"`
	PriorityConf    float64                  `json:"priority_conf"`
	Disposition     domain.TriageDisposition `json:"disposition"`
	DispositionConf float64                  `json:"disposition_conf"`
	Summary         string                   `json:"summary"`
}

// Classifier scores a support-request text. Implementations may be slow and
// may fail; callers bound the context and absorb errors.
type Classifier interface {
	Classify(ctx context.Context, text, language string) (*Result, error)
}

const maxKeywords = 12

// Keywords tokenizes text into lowercase terms usable for KB matching:
// letters and digits only, at least three runes, deduplicated, in first-seen
// order.
func Keywords(text string) []string {
	var (
		out  []string
		seen = make(map[string]struct{})
	)
	for _, tok := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len([]rune(tok)) < 3 {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
		if len(out) == maxKeywords {
			break
		}
	}
	return out
}
