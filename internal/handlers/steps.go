package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guybracha/karinaCrm2/internal/crm"
	"github.com/guybracha/karinaCrm2/internal/models"
)

type StepsHandler struct {
	svc *crm.Service
}

func NewStepsHandler(svc *crm.Service) *StepsHandler {
	return &StepsHandler{svc: svc}
}

// Save replaces the order's production checklist and returns the reassembled
// customer.
func (h *StepsHandler) Save(c *gin.Context) {
	var req models.SaveStepsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}
	customer, err := h.svc.SaveProductionSteps(c.Request.Context(), c.Param("customer_id"), req.ProductionSteps, req.OrderID)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}
