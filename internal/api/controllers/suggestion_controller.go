package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"itinera/internal/models/request_models"
	"itinera/internal/models/response_models"
	"itinera/internal/services"
	"itinera/pkg/utils"
)

type SuggestionController struct {
	suggestionService services.SuggestionServiceInterface
}

func NewSuggestionController(suggestionService services.SuggestionServiceInterface) *SuggestionController {
	return &SuggestionController{
		suggestionService: suggestionService,
	}
}

// POST /api/suggest-places
// Failures other than bad input still carry an empty list so the client can
// render "no suggestions".
func (s *SuggestionController) SuggestPlacesHandler(c *gin.Context) {
	var req request_models.SuggestPlacesRequest
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.City) == "" || strings.TrimSpace(req.Interests) == "" {
		utils.RespondError(c, http.StatusBadRequest, "City and interests are required")
		return
	}

	suggestions, err := s.suggestionService.SuggestPlaces(c.Request.Context(), req.City, req.Interests)
	if err != nil {
		code, message := utils.StatusFor(err)
		if code == http.StatusBadRequest {
			utils.RespondError(c, code, message)
			return
		}
		utils.HandleServiceErrorWithData(c, err, []response_models.PlaceSuggestion{})
		return
	}

	utils.RespondSuccess(c, suggestions, "Suggestions fetched successfully")
}

// POST /api/suggested-places
func (s *SuggestionController) SuggestedPlacesHandler(c *gin.Context) {
	var req request_models.SuggestedPlacesRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Cities) == 0 || strings.TrimSpace(req.Vibe) == "" {
		utils.RespondError(c, http.StatusBadRequest, "Cities and vibe are required")
		return
	}

	suggestions, err := s.suggestionService.SuggestForCities(c.Request.Context(), req.Cities, req.Vibe)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, suggestions, "Suggestions fetched successfully")
}
