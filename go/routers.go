// Package posserver is the HTTP surface of the order and billing engine.
package posserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route binds one HTTP method and pattern to a handler.
type Route struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc gin.HandlerFunc
}

// Routes is the list of the server's routes.
type Routes []Route

// ApiHandleFunctions groups the per-context API handlers.
type ApiHandleFunctions struct {
	BillingAPI    BillingAPI
	RestaurantAPI RestaurantAPI
	CatalogAPI    CatalogAPI
	NoticeAPI     NoticeAPI
}

// NewRouter returns a new gin router with all engine routes registered.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine registers all engine routes on an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = defaultFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

func defaultFunc(c *gin.Context) {}

func getRoutes(handleFunctions ApiHandleFunctions) Routes {
	return Routes{
		{
			"GetCart",
			http.MethodGet,
			"/v1/billing/cart",
			handleFunctions.BillingAPI.GetCart,
		},
		{
			"AddCartItem",
			http.MethodPost,
			"/v1/billing/cart/items",
			handleFunctions.BillingAPI.AddCartItem,
		},
		{
			"RemoveCartItem",
			http.MethodDelete,
			"/v1/billing/cart/items/:index",
			handleFunctions.BillingAPI.RemoveCartItem,
		},
		{
			"ClearCart",
			http.MethodDelete,
			"/v1/billing/cart",
			handleFunctions.BillingAPI.ClearCart,
		},
		{
			"FinalizeBill",
			http.MethodPost,
			"/v1/billing/finalize",
			handleFunctions.BillingAPI.FinalizeBill,
		},
		{
			"ListTables",
			http.MethodGet,
			"/v1/restaurant/tables",
			handleFunctions.RestaurantAPI.ListTables,
		},
		{
			"SelectTable",
			http.MethodPost,
			"/v1/restaurant/tables/:number/select",
			handleFunctions.RestaurantAPI.SelectTable,
		},
		{
			"GetOrder",
			http.MethodGet,
			"/v1/restaurant/order",
			handleFunctions.RestaurantAPI.GetOrder,
		},
		{
			"AddOrderItem",
			http.MethodPost,
			"/v1/restaurant/order/items",
			handleFunctions.RestaurantAPI.AddOrderItem,
		},
		{
			"GenerateKOT",
			http.MethodPost,
			"/v1/restaurant/kot",
			handleFunctions.RestaurantAPI.GenerateKOT,
		},
		{
			"GetReceipt",
			http.MethodGet,
			"/v1/restaurant/receipt",
			handleFunctions.RestaurantAPI.GetReceipt,
		},
		{
			"SettleTable",
			http.MethodPost,
			"/v1/restaurant/settle",
			handleFunctions.RestaurantAPI.SettleTable,
		},
		{
			"ListProducts",
			http.MethodGet,
			"/v1/catalog/products",
			handleFunctions.CatalogAPI.ListProducts,
		},
		{
			"RegisterProduct",
			http.MethodPost,
			"/v1/catalog/products",
			handleFunctions.CatalogAPI.RegisterProduct,
		},
		{
			"DeleteProduct",
			http.MethodDelete,
			"/v1/catalog/products/:id",
			handleFunctions.CatalogAPI.DeleteProduct,
		},
		{
			"AdjustStock",
			http.MethodPost,
			"/v1/catalog/stock",
			handleFunctions.CatalogAPI.AdjustStock,
		},
		{
			"LowStock",
			http.MethodGet,
			"/v1/catalog/low-stock",
			handleFunctions.CatalogAPI.LowStock,
		},
		{
			"RefreshCatalog",
			http.MethodPost,
			"/v1/catalog/refresh",
			handleFunctions.CatalogAPI.RefreshCatalog,
		},
		{
			"Capabilities",
			http.MethodGet,
			"/v1/catalog/capabilities",
			handleFunctions.CatalogAPI.Capabilities,
		},
		{
			"DrainNotices",
			http.MethodGet,
			"/v1/notices",
			handleFunctions.NoticeAPI.DrainNotices,
		},
	}
}
