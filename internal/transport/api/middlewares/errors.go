package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var statusTexts = map[int]string{ //nolint:gochecknoglobals
	http.StatusBadRequest:          "bad request",
	http.StatusUnauthorized:        "unauthorized",
	http.StatusPaymentRequired:     "payment required",
	http.StatusForbidden:           "forbidden",
	http.StatusNotFound:            "not found",
	http.StatusConflict:            "conflict",
	http.StatusUnprocessableEntity: "unprocessable entity",
	http.StatusTooManyRequests:     "too many requests",
	http.StatusGatewayTimeout:      "timeout",
}

func statusErrorText(status int) string {
	if text, ok := statusTexts[status]; ok {
		return text
	}
	return "internal server error"
}

// Errors отдает клиенту первую ошибку обработчика в виде {"error": msg}. Текст публичных ошибок уходит как есть,
// для остальных только текст статуса. Клиент, который явно просит text/plain, получает текст без JSON обертки.
func Errors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// тело ответа уже записано обработчиком, ошибки остаются только для логгера.
		if len(c.Errors) == 0 || c.Writer.Size() > 0 {
			return
		}

		status := c.Writer.Status()
		msg := statusErrorText(status)
		if publicErr := c.Errors.ByType(gin.ErrorTypePublic).Last(); publicErr != nil {
			msg = publicErr.Error()
		}

		accept := c.GetHeader("Accept")
		if strings.Contains(accept, "text/plain") && !strings.Contains(accept, "application/json") {
			c.String(status, msg)
		} else {
			c.JSON(status, gin.H{"error": msg})
		}
		c.Abort()
	}
}
