package posserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	billingdomain "github.com/komsyte/pos-engine/internal/domains/billing/domain"
	billingports "github.com/komsyte/pos-engine/internal/domains/billing/ports"
)

// BillingAPI wires HTTP transport with the simple-bill service.
type BillingAPI struct {
	service billingports.Service
}

// NewBillingAPI creates a BillingAPI backed by the provided service.
func NewBillingAPI(service billingports.Service) BillingAPI {
	return BillingAPI{service: service}
}

// LineView is the wire shape of an order line.
type LineView struct {
	ItemID    string  `json:"itemId,omitempty"`
	Barcode   string  `json:"barcode,omitempty"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
	Status    string  `json:"status"`
}

// CartView is the wire shape of the whole cart.
type CartView struct {
	Lines []LineView `json:"lines"`
	Total float64    `json:"total"`
}

// ReceiptView is the wire shape of a finalized receipt.
type ReceiptView struct {
	Number      string           `json:"number"`
	ShopName    string           `json:"shopName"`
	TableNumber *int             `json:"tableNumber,omitempty"`
	IssuedAt    time.Time        `json:"issuedAt"`
	Rows        []ReceiptRowView `json:"rows"`
	Subtotal    float64          `json:"subtotal"`
	TaxRate     float64          `json:"taxRate"`
	Tax         float64          `json:"tax"`
	GrandTotal  float64          `json:"grandTotal"`
}

// ReceiptRowView is one itemized receipt row on the wire.
type ReceiptRowView struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Subtotal  float64 `json:"subtotal"`
}

func toLineViews(lines []billingdomain.Line) []LineView {
	views := make([]LineView, 0, len(lines))
	for _, line := range lines {
		views = append(views, LineView{
			ItemID:    line.Item.ID,
			Barcode:   line.Item.Barcode,
			Name:      line.Item.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			Subtotal:  line.Subtotal,
			Status:    string(line.Status),
		})
	}
	return views
}

func toReceiptView(receipt billingdomain.Receipt) ReceiptView {
	view := ReceiptView{
		Number:      receipt.Number,
		ShopName:    receipt.ShopName,
		TableNumber: receipt.TableNumber,
		IssuedAt:    receipt.IssuedAt,
		Subtotal:    receipt.Subtotal,
		TaxRate:     receipt.TaxRate,
		Tax:         receipt.Tax,
		GrandTotal:  receipt.GrandTotal,
	}
	for _, row := range receipt.Rows {
		view.Rows = append(view.Rows, ReceiptRowView{
			Name:      row.Name,
			Quantity:  row.Quantity,
			UnitPrice: row.UnitPrice,
			Subtotal:  row.Subtotal,
		})
	}
	return view
}

// Get /v1/billing/cart
// Current cart contents and running total
func (api *BillingAPI) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, CartView{Lines: toLineViews(api.service.Lines()), Total: api.service.Total()})
}

// Post /v1/billing/cart/items
// Scan a barcode into the cart
func (api *BillingAPI) AddCartItem(c *gin.Context) {
	var payload struct {
		Barcode  string `json:"barcode"`
		Quantity int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if payload.Quantity == 0 {
		payload.Quantity = 1
	}
	if err := api.service.AddItem(payload.Barcode, payload.Quantity); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, CartView{Lines: toLineViews(api.service.Lines()), Total: api.service.Total()})
}

// Delete /v1/billing/cart/items/:index
// Remove one cart line by position
func (api *BillingAPI) RemoveCartItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if err := api.service.RemoveItem(index); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, CartView{Lines: toLineViews(api.service.Lines()), Total: api.service.Total()})
}

// Delete /v1/billing/cart
// Empty the cart without billing
func (api *BillingAPI) ClearCart(c *gin.Context) {
	api.service.Clear()
	c.Status(http.StatusNoContent)
}

// Post /v1/billing/finalize
// Persist the bill and clear the cart on success
func (api *BillingAPI) FinalizeBill(c *gin.Context) {
	receipt, err := api.service.FinalizeBill(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toReceiptView(receipt))
}
