package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-platform/intake-service/internal/api/dto"
	"github.com/helpdesk-platform/intake-service/internal/service"
)

// KBHandler exposes knowledge-base search to operator tooling.
type KBHandler struct {
	kb *service.KBService
}

// NewKBHandler constructs handler.
func NewKBHandler(kb *service.KBService) *KBHandler {
	return &KBHandler{kb: kb}
}

// Search GET /kb/search?category=&keywords=&lang=&limit=.
func (h *KBHandler) Search(c *fiber.Ctx) error {
	var keywords []string
	if raw := strings.TrimSpace(c.Query("keywords")); raw != "" {
		for _, kw := range strings.Split(raw, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				keywords = append(keywords, kw)
			}
		}
	}

	limit := c.QueryInt("limit", 10)
	lang := c.Query("lang")

	matches, err := h.kb.Match(c.UserContext(), service.MatchQuery{
		Category: c.Query("category"),
		Keywords: keywords,
		Language: lang,
		Limit:    limit,
	})
	if err != nil {
		return err
	}

	items := make([]dto.KBArticleResponse, 0, len(matches))
	for i := range matches {
		items = append(items, dto.FromKBArticle(&matches[i], lang))
	}
	return c.JSON(fiber.Map{"data": items})
}
