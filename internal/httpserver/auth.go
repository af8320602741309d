package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"productdesk/internal/inertia"
	"productdesk/internal/service/auth"
	"productdesk/internal/validation"
)

const (
	loginPath = "/login"
	homePath  = "/products"

	userCtxKey = "user"
)

// requireUser lets authenticated sessions through and redirects everyone
// else to the login page, remembering GET targets for after login.
func (h *handlers) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		u, err := h.auth.CurrentUser(c.Request.Context(), sess)
		if err != nil {
			h.fail(c, fmt.Errorf("resolve user: %w", err))
			return
		}
		if u == nil {
			if c.Request.Method == http.MethodGet && sess != nil {
				sess.Data.Intended = c.Request.URL.RequestURI()
				if err := h.auth.Save(c.Request.Context(), sess); err != nil {
					h.fail(c, fmt.Errorf("remember intended url: %w", err))
					return
				}
			}
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}

		c.Set(userCtxKey, u)
		inertia.Share(c, "auth", gin.H{"user": gin.H{"id": u.ID, "name": u.Name, "email": u.Email}})
		c.Next()
	}
}

// guestOnly sends already authenticated users to the product list.
func (h *handlers) guestOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := h.auth.CurrentUser(c.Request.Context(), currentSession(c))
		if err != nil {
			h.fail(c, fmt.Errorf("resolve user: %w", err))
			return
		}
		if u != nil {
			c.Redirect(http.StatusFound, homePath)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (h *handlers) loginForm(c *gin.Context) {
	h.render.Render(c, "auth/Login", nil)
}

func (h *handlers) login(c *gin.Context) {
	raw, err := readInput(c)
	if err != nil {
		c.String(http.StatusBadRequest, "Bad Request")
		return
	}

	in, err := validation.Login(raw)
	if verrs, ok := validation.AsErrors(err); ok {
		h.redirectBackWithErrors(c, loginPath, verrs, oldInput(raw))
		return
	}

	ctx := c.Request.Context()
	u, err := h.auth.Login(ctx, in.Email, in.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		verrs := validation.Errors{}
		verrs.Add("email", "These credentials do not match our records.")
		h.redirectBackWithErrors(c, loginPath, verrs, oldInput(raw))
		return
	}
	if err != nil {
		h.fail(c, fmt.Errorf("login: %w", err))
		return
	}

	sess, err := h.auth.Regenerate(ctx, currentSession(c), &u.ID, in.Remember)
	if err != nil {
		h.fail(c, fmt.Errorf("regenerate session: %w", err))
		return
	}
	h.setSessionCookie(c, sess)
	c.Set(sessionCtxKey, sess)

	target := sess.Data.Intended
	if target == "" {
		target = homePath
	}
	sess.Data.Intended = ""
	h.redirectWithFlash(c, target, nil)
}

func (h *handlers) logout(c *gin.Context) {
	if sess := currentSession(c); sess != nil {
		if err := h.auth.Destroy(c.Request.Context(), sess.ID); err != nil {
			h.fail(c, fmt.Errorf("destroy session: %w", err))
			return
		}
	}
	h.clearSessionCookie(c)
	inertia.Redirect(c, loginPath)
}
