package middleware

import (
	"github.com/gin-gonic/gin"

	resp "go-gin-user-console/internal/transport/http/response"
)

// PanicAbort 作为 panic 恢复后的响应：/api 回 JSON，页面回纯文本。日志由恢复中间件负责
func PanicAbort(c *gin.Context, _ any) {
	abort(c, resp.CodeServerError, "internal error")
}
