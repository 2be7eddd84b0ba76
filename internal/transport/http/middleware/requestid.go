package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"go-gin-user-console/internal/core/logger"
)

const KeyRequestID = "X-Request-ID"

// RequestID 透传或生成请求 id，同时写进 request ctx 给上游调用日志用
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.Request.Header.Get(KeyRequestID)
		if rid == "" || len(rid) > 128 {
			rid = uuid.NewString()
		}
		c.Writer.Header().Set(KeyRequestID, rid)
		c.Set(KeyRequestID, rid)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), rid))
		c.Next()
	}
}
