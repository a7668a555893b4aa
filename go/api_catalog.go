package posserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/komsyte/pos-engine/internal/domains/catalog/application"
	catalogdomain "github.com/komsyte/pos-engine/internal/domains/catalog/domain"
)

// CatalogAPI wires HTTP transport with the plan-gated catalog service.
type CatalogAPI struct {
	service *catalogapp.Service
}

// NewCatalogAPI creates a CatalogAPI backed by the provided service.
func NewCatalogAPI(service *catalogapp.Service) CatalogAPI {
	return CatalogAPI{service: service}
}

// ProductView is the wire shape of one catalog entry.
type ProductView struct {
	ID       string  `json:"id"`
	Barcode  string  `json:"barcode"`
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	InStock  bool    `json:"inStock"`
}

func toProductView(p catalogdomain.Product) ProductView {
	return ProductView{
		ID:       p.ID,
		Barcode:  p.Barcode,
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price,
		Quantity: p.Quantity,
		InStock:  p.InStock(),
	}
}

func toProductViews(products []catalogdomain.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, toProductView(p))
	}
	return views
}

// Get /v1/catalog/products
// Snapshot listing, optionally filtered by ?q=
func (api *CatalogAPI) ListProducts(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusOK, toProductViews(api.service.All()))
		return
	}
	c.JSON(http.StatusOK, toProductViews(api.service.Search(term)))
}

// Post /v1/catalog/products
// Register a new product, subject to the plan's catalog ceiling
func (api *CatalogAPI) RegisterProduct(c *gin.Context) {
	var payload struct {
		Barcode  string  `json:"barcode"`
		Name     string  `json:"name"`
		Category string  `json:"category"`
		Price    float64 `json:"price"`
		Quantity int     `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	product, err := api.service.RegisterProduct(c.Request.Context(), payload.Barcode, payload.Name, payload.Category, payload.Price, payload.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductView(product))
}

// Post /v1/catalog/stock
// Add units to an existing product, subject to the update capability
func (api *CatalogAPI) AdjustStock(c *gin.Context) {
	var payload struct {
		Barcode  string `json:"barcode"`
		Quantity int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if err := api.service.AdjustStock(c.Request.Context(), payload.Barcode, payload.Quantity); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /v1/catalog/low-stock
// Products at or below the alert threshold, subject to the alert capability
func (api *CatalogAPI) LowStock(c *gin.Context) {
	low, err := api.service.LowStockAlerts()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductViews(low))
}

// Delete /v1/catalog/products/:id
// Permanently remove a catalog entry
func (api *CatalogAPI) DeleteProduct(c *gin.Context) {
	if err := api.service.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Post /v1/catalog/refresh
// Re-read the catalog snapshot from the backend
func (api *CatalogAPI) RefreshCatalog(c *gin.Context) {
	if err := api.service.Refresh(c.Request.Context()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": api.service.Len()})
}

// Get /v1/catalog/capabilities
// The active plan and its feature toggles
func (api *CatalogAPI) Capabilities(c *gin.Context) {
	set := api.service.Capabilities()
	payload := gin.H{
		"plan":           string(api.service.Plan()),
		"updateQuantity": set.UpdateQuantity,
		"bulkUpload":     set.BulkUpload,
		"lowStockAlert":  set.LowStockAlert,
	}
	if set.Unlimited() {
		payload["maxProducts"] = nil
	} else {
		payload["maxProducts"] = set.MaxCatalogSize
	}
	c.JSON(http.StatusOK, payload)
}
