package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"crm/internal/repository"
	"crm/internal/service"
)

type Server struct {
	engine    *gin.Engine
	customers *service.CustomerService
	products  *service.ProductService
	orders    *service.OrderService
}

func NewServer(customers *service.CustomerService, products *service.ProductService, orders *service.OrderService, log *zap.Logger) *Server {
	r := gin.New()
	r.Use(requestID(), requestLogger(log), gin.Recovery())
	s := &Server{engine: r, customers: customers, products: products, orders: orders}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := s.engine.Group("/api/v1")
	{
		v1.GET("/hello", s.hello)

		customers := v1.Group("/customers")
		customers.POST("", s.createCustomer)
		customers.GET(":id", s.getCustomer)
		customers.GET("", s.listCustomers)

		products := v1.Group("/products")
		products.POST("", s.createProduct)
		products.GET(":id", s.getProduct)
		products.GET("", s.listProducts)
		products.POST("/restock", s.restockLowStock)

		orders := v1.Group("/orders")
		orders.POST("", s.createOrder)
		orders.GET(":id", s.getOrder)
		orders.GET("", s.listOrders)
	}
}

// @Summary Liveness probe
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /hello [get]
func (s *Server) hello(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello, CRM!"})
}

// Customer handlers
type createCustomerReq struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
	Phone string `json:"phone"`
}

// @Summary Create customer
// @Tags customers
// @Accept json
// @Produce json
// @Param input body createCustomerReq true "Customer"
// @Success 201 {object} service.CustomerResult
// @Failure 400 {object} service.CustomerResult
// @Failure 409 {object} service.CustomerResult
// @Router /customers [post]
func (s *Server) createCustomer(c *gin.Context) {
	var req createCustomerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	res := s.customers.CreateCustomer(c, req.Name, req.Email, req.Phone)
	if !res.OK {
		c.JSON(mapErrorToStatus(res.Err), res)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// @Summary Get customer by id
// @Tags customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} domain.Customer
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /customers/{id} [get]
func (s *Server) getCustomer(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	cust, err := s.customers.GetCustomer(c, id)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cust)
}

// @Summary List customers
// @Tags customers
// @Produce json
// @Param q query string false "Name contains"
// @Param email query string false "Email contains"
// @Success 200 {array} domain.Customer
// @Router /customers [get]
func (s *Server) listCustomers(c *gin.Context) {
	f := repository.CustomerFilter{
		NameSubstring:  c.Query("q"),
		EmailSubstring: c.Query("email"),
	}
	list, err := s.customers.ListCustomers(c, f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list customers"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// Product handlers
type createProductReq struct {
	Name  string  `json:"name" binding:"required"`
	Price float64 `json:"price" binding:"gte=0"`
	Stock int64   `json:"stock" binding:"gte=0"`
}

// @Summary Create product
// @Tags products
// @Accept json
// @Produce json
// @Param input body createProductReq true "Product"
// @Success 201 {object} service.ProductResult
// @Failure 400 {object} service.ProductResult
// @Router /products [post]
func (s *Server) createProduct(c *gin.Context) {
	var req createProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	res := s.products.CreateProduct(c, req.Name, decimal.NewFromFloat(req.Price), req.Stock)
	if !res.OK {
		c.JSON(mapErrorToStatus(res.Err), res)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// @Summary Get product by id
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /products/{id} [get]
func (s *Server) getProduct(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	p, err := s.products.GetProduct(c, id)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary List products
// @Tags products
// @Produce json
// @Param q query string false "Name contains"
// @Param min_price query number false "Min price"
// @Param max_price query number false "Max price"
// @Param low_stock query int false "Stock below"
// @Success 200 {array} domain.Product
// @Router /products [get]
func (s *Server) listProducts(c *gin.Context) {
	var f repository.ProductFilter
	if q := c.Query("q"); q != "" {
		f.NameSubstring = q
	}
	if v := c.Query("min_price"); v != "" {
		if x, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinPrice = &x
		}
	}
	if v := c.Query("max_price"); v != "" {
		if x, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxPrice = &x
		}
	}
	if v := c.Query("low_stock"); v != "" {
		if x, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.StockBelow = &x
		}
	}
	list, err := s.products.ListProducts(c, f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list products"})
		return
	}
	c.JSON(http.StatusOK, list)
}

type restockReq struct {
	IncrementBy int64 `json:"increment_by"`
}

// @Summary Restock products below the low-stock threshold
// @Tags products
// @Accept json
// @Produce json
// @Param input body restockReq false "Increment (0 = default)"
// @Success 200 {object} service.RestockResult
// @Failure 503 {object} service.RestockResult
// @Router /products/restock [post]
func (s *Server) restockLowStock(c *gin.Context) {
	var req restockReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
	}
	res := s.products.RestockLowStock(c, req.IncrementBy)
	if !res.OK {
		c.JSON(mapErrorToStatus(res.Err), res)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Order handlers
type createOrderReq struct {
	CustomerID int64 `json:"customer_id" binding:"required"`
	ProductID  int64 `json:"product_id" binding:"required"`
	Quantity   int64 `json:"quantity"`
}

// @Summary Create order
// @Tags orders
// @Accept json
// @Produce json
// @Param input body createOrderReq true "Order"
// @Success 201 {object} service.OrderResult
// @Failure 400 {object} service.OrderResult
// @Failure 404 {object} service.OrderResult
// @Failure 503 {object} service.OrderResult
// @Router /orders [post]
func (s *Server) createOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	res := s.orders.CreateOrder(c, req.CustomerID, req.ProductID, req.Quantity)
	if !res.OK {
		c.JSON(mapErrorToStatus(res.Err), res)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// @Summary Get order by id
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [get]
func (s *Server) getOrder(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	o, err := s.orders.GetOrder(c, id)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, o)
}

// @Summary List orders
// @Tags orders
// @Produce json
// @Param since query string false "Placed at or after (RFC3339)"
// @Success 200 {array} domain.Order
// @Router /orders [get]
func (s *Server) listOrders(c *gin.Context) {
	var f repository.OrderFilter
	if v := c.Query("since"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid since"})
			return
		}
		f.Since = &ts
	}
	list, err := s.orders.ListOrders(c, f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list orders"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotEnoughStock):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, repository.ErrContention):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
