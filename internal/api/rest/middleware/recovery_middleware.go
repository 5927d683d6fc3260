package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Dhoini/accounts-service/pkg/logger"
	"github.com/Dhoini/accounts-service/pkg/res"
	"github.com/gin-gonic/gin"
)

// RecoveryMiddleware превращает панику в ответ 500 с телом ErrorResponseDto
func RecoveryMiddleware(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		log.Errorw("Panic recovered", "path", c.Request.URL.Path, "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, res.NewErrorResponse(
			c.Request.URL.Path,
			http.StatusInternalServerError,
			fmt.Sprint(recovered),
			time.Now(),
		))
	})
}
