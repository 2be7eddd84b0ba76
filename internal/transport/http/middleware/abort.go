package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	resp "go-gin-user-console/internal/transport/http/response"
)

// abort 控制台页面回纯文本，/api 回 JSON 包
func abort(c *gin.Context, code int, msg string) {
	status := resp.Status(code)
	if wantsJSON(c) {
		c.AbortWithStatusJSON(status, resp.Error(code, msg))
		return
	}
	c.Abort()
	c.String(status, msg)
}

func wantsJSON(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}
