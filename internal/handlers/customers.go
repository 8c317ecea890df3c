package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guybracha/karinaCrm2/internal/crm"
	"github.com/guybracha/karinaCrm2/internal/models"
)

type CustomersHandler struct {
	svc *crm.Service
}

func NewCustomersHandler(svc *crm.Service) *CustomersHandler {
	return &CustomersHandler{svc: svc}
}

// List returns every customer joined with one order each, sorted by name.
func (h *CustomersHandler) List(c *gin.Context) {
	customers, err := h.svc.FetchCustomers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list customers"})
		return
	}
	c.JSON(http.StatusOK, customers)
}

// Get returns the assembled customer view, orders and storage graphics
// included.
func (h *CustomersHandler) Get(c *gin.Context) {
	customer, err := h.svc.AssembleCustomer(c.Request.Context(), c.Param("customer_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to load customer"})
		return
	}
	if customer == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "customer not found"})
		return
	}
	c.JSON(http.StatusOK, customer)
}

// Create adds a customer profile with its initial order.
func (h *CustomersHandler) Create(c *gin.Context) {
	var req models.NewCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}
	customer, err := h.svc.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to create customer"})
		return
	}
	c.JSON(http.StatusCreated, customer)
}
