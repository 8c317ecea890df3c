package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guybracha/karinaCrm2/internal/cities"
	"github.com/guybracha/karinaCrm2/internal/models"
)

type CitiesHandler struct {
	svc *cities.Service
}

func NewCitiesHandler(svc *cities.Service) *CitiesHandler {
	return &CitiesHandler{svc: svc}
}

func (h *CitiesHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "failed to load the cities list"})
		return
	}
	c.JSON(http.StatusOK, models.CitiesResponse{Cities: list})
}
