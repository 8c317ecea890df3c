package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guybracha/karinaCrm2/internal/crm"
	"github.com/guybracha/karinaCrm2/internal/models"
)

type GraphicsHandler struct {
	svc *crm.Service
}

func NewGraphicsHandler(svc *crm.Service) *GraphicsHandler {
	return &GraphicsHandler{svc: svc}
}

func writeOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, crm.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: crm.ErrOrderNotFound.Error()})
	case errors.Is(err, crm.ErrOrderOwnershipMismatch):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: crm.ErrOrderOwnershipMismatch.Error()})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "save failed"})
	}
}

// Save replaces the order's graphics list and returns the reassembled
// customer.
func (h *GraphicsHandler) Save(c *gin.Context) {
	var req models.SaveGraphicsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}
	customer, err := h.svc.SaveGraphics(c.Request.Context(), c.Param("customer_id"), req.Graphics, req.OrderID)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// Upload stores one file in the customer's storage folder and returns the
// graphic entry. The client follows up with Save so the order document stays
// consistent with storage.
func (h *GraphicsHandler) Upload(c *gin.Context) {
	customer, err := h.svc.AssembleCustomer(c.Request.Context(), c.Param("customer_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to load customer"})
		return
	}
	if customer == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "customer not found"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "no file selected for upload"})
		return
	}
	defer file.Close()

	graphic, err := h.svc.UploadGraphic(
		c.Request.Context(),
		customer.FirebaseUID,
		header.Filename,
		header.Header.Get("Content-Type"),
		file,
		c.PostForm("label"),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "upload failed"})
		return
	}
	c.JSON(http.StatusCreated, models.UploadGraphicResponse{Graphic: *graphic})
}

// Delete removes a graphic: the storage object (if it has a path) and the
// order's list entry in one request. Deleting an already-gone object counts
// as success.
func (h *GraphicsHandler) Delete(c *gin.Context) {
	var req models.DeleteGraphicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Path != "" {
		if err := h.svc.DeleteGraphic(c.Request.Context(), req.Path); err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
			return
		}
	}

	customer, err := h.svc.SaveGraphics(c.Request.Context(), c.Param("customer_id"), req.Graphics, req.OrderID)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}
