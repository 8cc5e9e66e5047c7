package middleware

import (
	"context"
	"net/http"

	"task_frontend/internal/logger"
	"task_frontend/internal/page"
	"task_frontend/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	CookieName = "task_session"

	ctxSessionID = "sid"
	ctxPage      = "page"
)

// Session attaches the caller's page to the request, starting a new session
// when the cookie is missing, invalid, or names an expired entry. A new
// session loads the task list once before the handler runs.
func Session(store *session.Store, tokens *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			sid string
			p   *page.Page
			ok  bool
		)
		if raw, err := c.Cookie(CookieName); err == nil {
			if sid, err = tokens.Parse(raw); err == nil {
				p, ok = store.Get(sid)
			}
		}

		if !ok {
			sid, p = store.Create()
			logger.Info("view session started", "sid", sid)
			_ = p.Refresh(context.WithoutCancel(c.Request.Context()))
		}

		// re-issued on every request so the cookie expiry follows activity
		token, err := tokens.Issue(sid)
		if err != nil {
			logger.Error("issue session token", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(CookieName, token, int(tokens.TTL().Seconds()), "/", "", false, true)

		c.Set(ctxSessionID, sid)
		c.Set(ctxPage, p)
		c.Next()
	}
}

// SessionID returns the id set by Session, or "".
func SessionID(c *gin.Context) string {
	return c.GetString(ctxSessionID)
}

// PageFrom returns the page set by Session, or nil.
func PageFrom(c *gin.Context) *page.Page {
	v, ok := c.Get(ctxPage)
	if !ok {
		return nil
	}
	p, _ := v.(*page.Page)
	return p
}
