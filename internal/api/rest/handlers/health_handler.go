package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker проверяет доступность зависимости (БД, кеш)
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler обработчик для проверки работоспособности сервиса
type HealthHandler struct {
	checks map[string]HealthChecker
}

// NewHealthHandler создает обработчик проверки; checks может быть пустым
func NewHealthHandler(checks map[string]HealthChecker) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// HealthCheck отвечает 200, если все зависимости доступны, иначе 503
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	components := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			components[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		components[name] = "OK"
	}

	body := gin.H{
		"status": "OK",
		"time":   time.Now().Format(time.RFC3339),
	}
	if status != http.StatusOK {
		body["status"] = "DEGRADED"
	}
	if len(components) > 0 {
		body["components"] = components
	}
	c.JSON(status, body)
}
