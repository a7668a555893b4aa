package posserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	restaurantapp "github.com/komsyte/pos-engine/internal/domains/restaurant/application"
	restaurantdomain "github.com/komsyte/pos-engine/internal/domains/restaurant/domain"
	restaurantports "github.com/komsyte/pos-engine/internal/domains/restaurant/ports"
)

// RestaurantAPI wires HTTP transport with the table-and-dispatch service.
type RestaurantAPI struct {
	service restaurantports.Service
}

// NewRestaurantAPI creates a RestaurantAPI backed by the provided service.
func NewRestaurantAPI(service restaurantports.Service) RestaurantAPI {
	return RestaurantAPI{service: service}
}

// TableView is the wire shape of one floor table.
type TableView struct {
	Number   int    `json:"number"`
	Status   string `json:"status"`
	Selected bool   `json:"selected"`
}

// OrderView is the wire shape of the selected table's order.
type OrderView struct {
	TableNumber int        `json:"tableNumber"`
	Lines       []LineView `json:"lines"`
	Total       float64    `json:"total"`
}

// Get /v1/restaurant/tables
// Floor layout with occupancy
func (api *RestaurantAPI) ListTables(c *gin.Context) {
	selected, hasSelection := api.service.SelectedTable()
	tables := api.service.Tables()
	views := make([]TableView, 0, len(tables))
	for _, table := range tables {
		status := "available"
		if table.Occupancy == restaurantdomain.Occupied {
			status = "occupied"
		}
		views = append(views, TableView{
			Number:   table.Number,
			Status:   status,
			Selected: hasSelection && table.Number == selected,
		})
	}
	c.JSON(http.StatusOK, views)
}

// Post /v1/restaurant/tables/:number/select
// Make the table current, restoring its open order if occupied
func (api *RestaurantAPI) SelectTable(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if err := api.service.SelectTable(c.Request.Context(), number); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, OrderView{
		TableNumber: number,
		Lines:       toLineViews(api.service.OrderLines()),
		Total:       api.service.Total(),
	})
}

// Get /v1/restaurant/order
// The selected table's order
func (api *RestaurantAPI) GetOrder(c *gin.Context) {
	number, ok := api.service.SelectedTable()
	if !ok {
		respondServiceError(c, restaurantapp.ErrNoTableSelected)
		return
	}
	c.JSON(http.StatusOK, OrderView{
		TableNumber: number,
		Lines:       toLineViews(api.service.OrderLines()),
		Total:       api.service.Total(),
	})
}

// Post /v1/restaurant/order/items
// Add a menu item to the selected table's order
func (api *RestaurantAPI) AddOrderItem(c *gin.Context) {
	var payload struct {
		ItemID   string `json:"itemId"`
		Quantity int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if payload.Quantity == 0 {
		payload.Quantity = 1
	}
	if err := api.service.AddItem(payload.ItemID, payload.Quantity); err != nil {
		respondServiceError(c, err)
		return
	}
	number, _ := api.service.SelectedTable()
	c.JSON(http.StatusOK, OrderView{
		TableNumber: number,
		Lines:       toLineViews(api.service.OrderLines()),
		Total:       api.service.Total(),
	})
}

// Post /v1/restaurant/kot
// Dispatch the not-yet-sent lines to the kitchen
func (api *RestaurantAPI) GenerateKOT(c *gin.Context) {
	lines, err := api.service.GenerateKOT(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"dispatched": toLineViews(lines)})
}

// Get /v1/restaurant/receipt
// Preview the bill for the selected table without settling
func (api *RestaurantAPI) GetReceipt(c *gin.Context) {
	receipt, err := api.service.Receipt()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReceiptView(receipt))
}

// Post /v1/restaurant/settle
// Close the table and free it on the floor
func (api *RestaurantAPI) SettleTable(c *gin.Context) {
	if err := api.service.Settle(c.Request.Context()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
