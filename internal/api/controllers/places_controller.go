package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"itinera/internal/services"
	"itinera/pkg/utils"
)

type PlacesController struct {
	mapsService services.MapsServiceInterface
}

func NewPlacesController(mapsService services.MapsServiceInterface) *PlacesController {
	return &PlacesController{
		mapsService: mapsService,
	}
}

// GET /api/places/autocomplete?input=
func (p *PlacesController) AutocompleteHandler(c *gin.Context) {
	input := strings.TrimSpace(c.Query("input"))
	if input == "" {
		utils.RespondError(c, http.StatusBadRequest, "input is required")
		return
	}

	predictions, err := p.mapsService.AutocompleteCities(c.Request.Context(), input)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, predictions, "Predictions fetched successfully")
}
