package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
)

const maxBodyBytes = 1 << 20

// readInput decodes the request body into a raw field map. JSON numbers are
// kept as json.Number so prices never pass through float64. Form bodies yield
// string values; the method override field is dropped.
func readInput(c *gin.Context) (map[string]any, error) {
	contentType := c.ContentType()
	if strings.Contains(contentType, "json") {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		raw := map[string]any{}
		if len(bytes.TrimSpace(body)) == 0 {
			return raw, nil
		}
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode json body: %w", err)
		}
		return raw, nil
	}

	if strings.HasPrefix(contentType, "multipart/") {
		if err := c.Request.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, fmt.Errorf("parse multipart form: %w", err)
		}
	} else if err := c.Request.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	raw := map[string]any{}
	for key, values := range c.Request.PostForm {
		if key == methodOverrideField || len(values) == 0 {
			continue
		}
		raw[key] = values[0]
	}
	return raw, nil
}

// oldInput is the part of raw that is safe to echo back into a form. JSON
// numbers are kept as their literal text so the session store can decode them
// whatever their size.
func oldInput(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		if strings.Contains(strings.ToLower(k), "password") {
			continue
		}
		if n, ok := v.(json.Number); ok {
			v = n.String()
		}
		out[k] = v
	}
	return out
}
