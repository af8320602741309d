package httpserver

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"productdesk/internal/inertia"
)

type handlers struct {
	products ProductService
	auth     AuthService
	render   *inertia.Renderer
	logger   *log.Logger
	secure   bool
}

// fail logs err and ends the request with a 500.
func (h *handlers) fail(c *gin.Context, err error) {
	h.logger.Printf("http: %s %s request_id=%s error=%v", c.Request.Method, c.Request.URL.Path, c.GetString(requestIDKey), err)
	_ = c.Error(err)
	c.String(http.StatusInternalServerError, "Server Error")
	c.Abort()
}

func notFound(c *gin.Context) {
	c.String(http.StatusNotFound, "Not Found")
	c.Abort()
}

// productID parses the :id route segment. Anything that is not a positive
// integer cannot name a product.
func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
