package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func NewRouter(h *APIHandler, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(logger), CORS())

	api := router.Group("/api")
	{
		api.GET("/health", h.Health)

		api.GET("/products", h.GetProducts)
		api.POST("/products", h.CreateProduct)
		api.DELETE("/products/:id", h.DeleteProduct)

		api.GET("/orders", h.GetOrders)
		api.POST("/orders", h.CreateOrder)
		api.PUT("/orders/:id", h.UpdateOrder)

		api.GET("/customers", h.GetCustomers)
		api.POST("/customers", h.CreateOrUpdateCustomer)

		api.GET("/kpis", h.GetKPIs)
		api.GET("/reports/orders.csv", h.ExportOrders)
		api.GET("/reports/products.csv", h.ExportProducts)
	}
	return router
}
