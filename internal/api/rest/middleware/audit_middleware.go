package middleware

import (
	"strings"

	"github.com/Dhoini/accounts-service/internal/audit"
	"github.com/gin-gonic/gin"
)

// ActorHeader заголовок с именем исполнителя для полей аудита
const ActorHeader = "X-Audit-Actor"

// ActorMaxLen максимальная длина исполнителя в символах, длиннее обрезается
const ActorMaxLen = 100

// AuditActorMiddleware кладет исполнителя из заголовка в контекст запроса.
// Без заголовка сервис использует исполнителя по умолчанию.
func AuditActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor := strings.TrimSpace(c.GetHeader(ActorHeader)); actor != "" {
			c.Request = c.Request.WithContext(audit.WithActor(c.Request.Context(), truncate(actor, ActorMaxLen)))
		}
		c.Next()
	}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit]))
}
