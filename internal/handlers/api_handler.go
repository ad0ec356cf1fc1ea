package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"mirror_shop/internal/analytics"
	"mirror_shop/internal/models"
	"mirror_shop/internal/reports"
	"mirror_shop/internal/services"
)

type APIHandler struct {
	productService  services.ProductService
	orderService    services.OrderService
	customerService services.CustomerService
	kpiOptions      analytics.KPIOptions
	threshold       int
	now             func() time.Time
}

func NewAPIHandler(
	productService services.ProductService,
	orderService services.OrderService,
	customerService services.CustomerService,
	threshold int,
	kpiOptions analytics.KPIOptions,
) *APIHandler {
	return &APIHandler{
		productService:  productService,
		orderService:    orderService,
		customerService: customerService,
		kpiOptions:      kpiOptions,
		threshold:       threshold,
		now:             time.Now,
	}
}

func (h *APIHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Products

func (h *APIHandler) GetProducts(c *gin.Context) {
	products, err := h.productService.GetAllProducts(c.Request.Context())
	if err != nil {
		h.internalError(c, "Failed to load products", err)
		return
	}
	c.JSON(http.StatusOK, nonNil(products))
}

func (h *APIHandler) CreateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	created, err := h.productService.CreateProduct(c.Request.Context(), &product)
	if err != nil {
		h.internalError(c, "Failed to create product", err)
		return
	}
	c.JSON(createdStatus(created), product)
}

func (h *APIHandler) DeleteProduct(c *gin.Context) {
	if err := h.productService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.internalError(c, "Failed to delete product", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

// Orders

func (h *APIHandler) GetOrders(c *gin.Context) {
	orders, err := h.orderService.GetAllOrders(c.Request.Context())
	if err != nil {
		h.internalError(c, "Failed to load orders", err)
		return
	}
	c.JSON(http.StatusOK, nonNil(orders))
}

func (h *APIHandler) CreateOrder(c *gin.Context) {
	var order models.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	created, err := h.orderService.CreateOrder(c.Request.Context(), &order)
	if err != nil {
		h.internalError(c, "Failed to create order", err)
		return
	}
	c.JSON(createdStatus(created), order)
}

func (h *APIHandler) UpdateOrder(c *gin.Context) {
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), c.Param("id"), fields)
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.Is(err, services.ErrInvalidStatus), errors.Is(err, services.ErrInvalidFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		h.internalError(c, "Failed to update order", err)
	default:
		c.JSON(http.StatusOK, order)
	}
}

// Customers

func (h *APIHandler) GetCustomers(c *gin.Context) {
	customers, err := h.customerService.GetAllCustomers(c.Request.Context())
	if err != nil {
		h.internalError(c, "Failed to load customers", err)
		return
	}
	c.JSON(http.StatusOK, nonNil(customers))
}

func (h *APIHandler) CreateOrUpdateCustomer(c *gin.Context) {
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	result, created, err := h.customerService.CreateOrUpdateCustomer(c.Request.Context(), customer)
	if err != nil {
		h.internalError(c, "Failed to save customer", err)
		return
	}
	c.JSON(createdStatus(created), result)
}

// Analytics and reports

func (h *APIHandler) GetKPIs(c *gin.Context) {
	ctx := c.Request.Context()
	orders, err := h.orderService.GetAllOrders(ctx)
	if err != nil {
		h.internalError(c, "Failed to load orders", err)
		return
	}
	products, err := h.productService.GetAllProducts(ctx)
	if err != nil {
		h.internalError(c, "Failed to load products", err)
		return
	}
	c.JSON(http.StatusOK, analytics.ComputeKPIs(orders, products, h.now(), h.kpiOptions))
}

func (h *APIHandler) ExportOrders(c *gin.Context) {
	orders, err := h.orderService.GetAllOrders(c.Request.Context())
	if err != nil {
		h.internalError(c, "Failed to load orders", err)
		return
	}
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="orders.csv"`)
	if err := reports.WriteOrdersCSV(c.Writer, orders); err != nil {
		zap.L().Error("failed to write orders csv", zap.Error(err))
	}
}

func (h *APIHandler) ExportProducts(c *gin.Context) {
	products, err := h.productService.GetAllProducts(c.Request.Context())
	if err != nil {
		h.internalError(c, "Failed to load products", err)
		return
	}
	threshold := h.threshold
	if v := c.Query("threshold"); v != "" {
		if n, err := cast.ToIntE(v); err == nil && n >= 0 {
			threshold = n
		}
	}
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="products.csv"`)
	if err := reports.WriteProductsCSV(c.Writer, products, threshold); err != nil {
		zap.L().Error("failed to write products csv", zap.Error(err))
	}
}

func (h *APIHandler) internalError(c *gin.Context, message string, err error) {
	zap.L().Error(message, zap.Error(err), zap.String("request_id", c.GetString(requestIDKey)))
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}

// createdStatus answers a resent record with 200 instead of 201.
func createdStatus(created bool) int {
	if created {
		return http.StatusCreated
	}
	return http.StatusOK
}

// nonNil keeps empty collections encoded as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
