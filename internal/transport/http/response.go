package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/Gunvolt24/wc_order_export/internal/domain"
	"github.com/gin-gonic/gin"
)

// envelope — общий формат ответа: признак успеха и полезная нагрузка.
type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type failure struct {
	Message string `json:"message"`
}

type previewResponse struct {
	Data       []domain.OrderRow `json:"data"`
	TotalCount int               `json:"total_count"`
	Columns    []string          `json:"columns"`
	Backend    string            `json:"backend,omitempty"`
}

type exportResponse struct {
	Filename    string `json:"filename"`
	DownloadURL string `json:"download_url"`
	Count       int    `json:"count"`
	Filesize    string `json:"filesize"`
	Bytes       int64  `json:"bytes"`
}

func writeOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

func writeFail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, envelope{Success: false, Data: failure{Message: message}})
}

// writeError — ошибка ядра → HTTP-статус и сообщение для администратора.
func writeError(c *gin.Context, err error) {
	writeFail(c, statusFor(err), domain.UserMessage(err))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNoMatch), errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
