package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"productdesk/internal/domain"
	"productdesk/internal/inertia"
	"productdesk/internal/service/auth"
	"productdesk/internal/validation"
)

const (
	sessionCookie = "productdesk_session"

	sessionCtxKey = "session"
	flashCtxKey   = "flash"
)

// session loads the session named by the cookie, or starts a new one, and
// moves any flash payload out of storage so it is seen by this request only.
func (h *handlers) session() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		cookie, _ := c.Cookie(sessionCookie)
		sess, err := h.auth.Load(ctx, cookie)
		if errors.Is(err, auth.ErrInvalidSession) {
			sess, err = h.auth.Start(ctx)
			if err == nil {
				h.setSessionCookie(c, sess)
			}
		}
		if err != nil {
			h.fail(c, fmt.Errorf("load session: %w", err))
			return
		}

		flash := sess.Data.Flash
		if !flash.Empty() {
			sess.Data.Flash = nil
			if err := h.auth.Save(ctx, sess); err != nil {
				h.fail(c, fmt.Errorf("consume flash: %w", err))
				return
			}
		}

		c.Set(sessionCtxKey, sess)
		c.Set(flashCtxKey, flash)
		shareFlash(c, flash)
		inertia.Share(c, "auth", gin.H{"user": nil})

		c.Next()
	}
}

func shareFlash(c *gin.Context, flash *domain.Flash) {
	errs := map[string]string{}
	old := map[string]any{}
	var success any
	if flash != nil {
		if len(flash.Errors) > 0 {
			errs = validation.Errors(flash.Errors).First()
		}
		if len(flash.Old) > 0 {
			old = flash.Old
		}
		if flash.Success != "" {
			success = flash.Success
		}
	}
	inertia.Share(c, "errors", errs)
	inertia.Share(c, "old", old)
	inertia.Share(c, "flash", gin.H{"success": success})
}

func currentSession(c *gin.Context) *domain.Session {
	if v, ok := c.Get(sessionCtxKey); ok {
		if s, ok := v.(*domain.Session); ok {
			return s
		}
	}
	return nil
}

func (h *handlers) setSessionCookie(c *gin.Context, sess *domain.Session) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, sess.ID, 0, "/", "", h.secure, true)
}

func (h *handlers) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", h.secure, true)
}

// redirectWithFlash stores flash for the next request and redirects to
// location. The session is saved before any response bytes are written.
func (h *handlers) redirectWithFlash(c *gin.Context, location string, flash *domain.Flash) {
	sess := currentSession(c)
	if sess == nil {
		h.fail(c, errors.New("no session in context"))
		return
	}
	sess.Data.Flash = flash
	if err := h.auth.Save(c.Request.Context(), sess); err != nil {
		h.fail(c, fmt.Errorf("save flash: %w", err))
		return
	}
	inertia.Redirect(c, location)
}

func (h *handlers) redirectWithSuccess(c *gin.Context, location, message string) {
	h.redirectWithFlash(c, location, &domain.Flash{Success: message})
}

// redirectBackWithErrors sends the client back to the form it came from with
// the errors and the submitted values.
func (h *handlers) redirectBackWithErrors(c *gin.Context, fallback string, errs validation.Errors, old map[string]any) {
	h.redirectWithFlash(c, back(c, fallback), &domain.Flash{Errors: errs, Old: old})
}

// back returns the same-origin Referer path, or fallback.
func back(c *gin.Context, fallback string) string {
	ref := c.GetHeader("Referer")
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil || u.Path == "" {
		return fallback
	}
	if u.Host != "" && u.Host != c.Request.Host {
		return fallback
	}
	return u.RequestURI()
}
