// Package inertia renders server-side pages using the Inertia.js protocol.
// Inertia visits (X-Inertia: true) receive the page object as JSON; first
// loads receive an HTML shell carrying the same object in data-page.
package inertia

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	HeaderInertia          = "X-Inertia"
	HeaderVersion          = "X-Inertia-Version"
	HeaderLocation         = "X-Inertia-Location"
	HeaderPartialComponent = "X-Inertia-Partial-Component"
	HeaderPartialData      = "X-Inertia-Partial-Data"

	sharedKey = "inertia.shared"
)

//go:embed root.html
var rootHTML string

// Page is the object handed to the client-side adapter.
type Page struct {
	Component string         `json:"component"`
	Props     map[string]any `json:"props"`
	URL       string         `json:"url"`
	Version   string         `json:"version"`
}

// LazyProp is evaluated only when the prop ends up in the response.
type LazyProp func() any

// Renderer turns a component name and props into a response.
type Renderer struct {
	version    string
	assetEntry string
	title      string
	root       *template.Template
}

// New builds a Renderer. version is the asset version compared against the
// client's X-Inertia-Version; assetEntry is the script loaded by the shell.
func New(version, assetEntry string) (*Renderer, error) {
	tmpl, err := template.New("root").Parse(rootHTML)
	if err != nil {
		return nil, fmt.Errorf("parse root template: %w", err)
	}
	return &Renderer{
		version:    version,
		assetEntry: assetEntry,
		title:      "Products",
		root:       tmpl,
	}, nil
}

// Version returns the asset version.
func (r *Renderer) Version() string {
	return r.version
}

// IsInertia reports whether the request is an Inertia visit.
func IsInertia(c *gin.Context) bool {
	return c.GetHeader(HeaderInertia) == "true"
}

// Share adds a prop merged into every page rendered for this request.
func Share(c *gin.Context, key string, value any) {
	shared := sharedProps(c)
	shared[key] = value
	c.Set(sharedKey, shared)
}

func sharedProps(c *gin.Context) map[string]any {
	if v, ok := c.Get(sharedKey); ok {
		if m, ok := v.(map[string]any); ok {
			return m
		}
	}
	return map[string]any{}
}

// Middleware sets Vary on every response and forces a full reload when an
// Inertia GET carries a stale asset version.
func (r *Renderer) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Vary", HeaderInertia)
		if IsInertia(c) && c.Request.Method == http.MethodGet {
			if v := c.GetHeader(HeaderVersion); v != "" && v != r.version {
				c.Header(HeaderLocation, c.Request.URL.RequestURI())
				c.AbortWithStatus(http.StatusConflict)
				return
			}
		}
		c.Next()
	}
}

// Render writes component with props merged over the shared props.
func (r *Renderer) Render(c *gin.Context, component string, props gin.H) {
	page := Page{
		Component: component,
		Props:     r.resolveProps(c, component, props),
		URL:       c.Request.URL.RequestURI(),
		Version:   r.version,
	}

	if IsInertia(c) {
		c.Header(HeaderInertia, "true")
		c.JSON(http.StatusOK, page)
		return
	}

	body, err := json.Marshal(page)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, fmt.Errorf("encode page %s: %w", component, err))
		return
	}
	var buf bytes.Buffer
	err = r.root.Execute(&buf, map[string]any{
		"Title":      r.title,
		"AssetEntry": r.assetEntry,
		"PageJSON":   string(body),
	})
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, fmt.Errorf("render root for %s: %w", component, err))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (r *Renderer) resolveProps(c *gin.Context, component string, props gin.H) map[string]any {
	merged := map[string]any{}
	for k, v := range sharedProps(c) {
		merged[k] = v
	}
	for k, v := range props {
		merged[k] = v
	}

	if only := partialKeys(c, component); only != nil {
		for k := range merged {
			if _, keep := only[k]; !keep && k != "errors" {
				delete(merged, k)
			}
		}
	}

	for k, v := range merged {
		if lazy, ok := v.(LazyProp); ok {
			merged[k] = lazy()
		}
	}
	return merged
}

// partialKeys returns the requested prop names for a partial reload of
// component, or nil for a full render.
func partialKeys(c *gin.Context, component string) map[string]struct{} {
	if !IsInertia(c) || c.GetHeader(HeaderPartialComponent) != component {
		return nil
	}
	raw := c.GetHeader(HeaderPartialData)
	if raw == "" {
		return nil
	}
	keys := map[string]struct{}{}
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys[k] = struct{}{}
		}
	}
	return keys
}

// Redirect sends the client to location. Inertia visits that used PUT, PATCH
// or DELETE get 303 so the follow-up request is a GET; everything else gets
// 302.
func Redirect(c *gin.Context, location string) {
	status := http.StatusFound
	if IsInertia(c) {
		switch c.Request.Method {
		case http.MethodPut, http.MethodPatch, http.MethodDelete:
			status = http.StatusSeeOther
		}
	}
	c.Redirect(status, location)
}

// Location forces a full page visit to url, for targets outside the Inertia
// app.
func Location(c *gin.Context, url string) {
	if IsInertia(c) {
		c.Header(HeaderLocation, url)
		c.Status(http.StatusConflict)
		return
	}
	c.Redirect(http.StatusFound, url)
}
