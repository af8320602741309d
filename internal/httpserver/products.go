package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"productdesk/internal/domain"
	"productdesk/internal/validation"
)

const (
	productsPath   = "/products"
	newProductPath = "/products/new"

	msgProductCreated = "Product created successfully."
	msgProductUpdated = "Product updated successfully."
	msgProductDeleted = "Product deleted successfully."
)

func (h *handlers) listProducts(c *gin.Context) {
	list, err := h.products.List(c.Request.Context())
	if err != nil {
		h.fail(c, fmt.Errorf("list products: %w", err))
		return
	}
	h.render.Render(c, "products/Index", gin.H{"products": list})
}

func (h *handlers) newProductForm(c *gin.Context) {
	h.render.Render(c, "products/Create", nil)
}

func (h *handlers) storeProduct(c *gin.Context) {
	raw, err := readInput(c)
	if err != nil {
		c.String(http.StatusBadRequest, "Bad Request")
		return
	}

	in, err := validation.Product(raw)
	if verrs, ok := validation.AsErrors(err); ok {
		h.redirectBackWithErrors(c, newProductPath, verrs, oldInput(raw))
		return
	}

	if _, err := h.products.Create(c.Request.Context(), in); err != nil {
		h.fail(c, fmt.Errorf("create product: %w", err))
		return
	}
	h.redirectWithSuccess(c, productsPath, msgProductCreated)
}

func (h *handlers) showProduct(c *gin.Context) {
	p, ok := h.findProduct(c)
	if !ok {
		return
	}
	h.render.Render(c, "products/Show", gin.H{"product": p})
}

func (h *handlers) editProductForm(c *gin.Context) {
	p, ok := h.findProduct(c)
	if !ok {
		return
	}
	h.render.Render(c, "products/Edit", gin.H{"product": p})
}

func (h *handlers) updateProduct(c *gin.Context) {
	p, ok := h.findProduct(c)
	if !ok {
		return
	}

	raw, err := readInput(c)
	if err != nil {
		c.String(http.StatusBadRequest, "Bad Request")
		return
	}

	in, err := validation.Product(raw)
	if verrs, ok := validation.AsErrors(err); ok {
		h.redirectBackWithErrors(c, fmt.Sprintf("%s/%d/edit", productsPath, p.ID), verrs, oldInput(raw))
		return
	}

	_, err = h.products.Update(c.Request.Context(), p.ID, in)
	if errors.Is(err, domain.ErrNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		h.fail(c, fmt.Errorf("update product %d: %w", p.ID, err))
		return
	}
	h.redirectWithSuccess(c, productsPath, msgProductUpdated)
}

func (h *handlers) deleteProduct(c *gin.Context) {
	p, ok := h.findProduct(c)
	if !ok {
		return
	}

	err := h.products.Delete(c.Request.Context(), p.ID)
	if errors.Is(err, domain.ErrNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		h.fail(c, fmt.Errorf("delete product %d: %w", p.ID, err))
		return
	}
	h.redirectWithSuccess(c, productsPath, msgProductDeleted)
}

// findProduct resolves the :id segment to a stored product. On false the
// response has already been written.
func (h *handlers) findProduct(c *gin.Context) (*domain.Product, bool) {
	id, ok := productID(c)
	if !ok {
		notFound(c)
		return nil, false
	}
	p, err := h.products.Get(c.Request.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		notFound(c)
		return nil, false
	}
	if err != nil {
		h.fail(c, fmt.Errorf("get product %d: %w", id, err))
		return nil, false
	}
	return p, true
}
