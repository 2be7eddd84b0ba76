package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-user-console/internal/console"
	"go-gin-user-console/internal/core/session"
	resp "go-gin-user-console/internal/transport/http/response"
)

const keySession = "console.session"

type SessionOptions struct {
	Store  *console.Store
	Signer *session.Signer
	Cookie string
	MaxAge int // 秒
	Secure bool
}

// Session 签名 cookie -> 会话；无效/过期/找不到都会换一个新会话
func Session(o SessionOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		var s *console.Session
		if tok, err := c.Cookie(o.Cookie); err == nil {
			if sid, err := o.Signer.Parse(tok); err == nil {
				s, _ = o.Store.Get(sid)
			}
		}
		if s == nil {
			s = o.Store.Create()
			tok, err := o.Signer.Issue(s.ID())
			if err != nil {
				_ = c.Error(err)
				abort(c, resp.CodeServerError, "session error")
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(o.Cookie, tok, o.MaxAge, "/", "", o.Secure, true)
		}
		c.Set(keySession, s)
		c.Next()
	}
}

// SessionFrom 取当前请求的会话（挂了 Session 中间件的路由才有）
func SessionFrom(c *gin.Context) *console.Session {
	v, _ := c.Get(keySession)
	s, _ := v.(*console.Session)
	return s
}
