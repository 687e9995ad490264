package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"itinera/internal/models/request_models"
	"itinera/internal/planner"
	"itinera/internal/services"
	"itinera/pkg/middleware"
	"itinera/pkg/utils"
)

type PlannerController struct {
	plannerService services.PlannerServiceInterface
}

func NewPlannerController(plannerService services.PlannerServiceInterface) *PlannerController {
	return &PlannerController{
		plannerService: plannerService,
	}
}

func (p *PlannerController) respond(c *gin.Context, st planner.State, err error, message string) {
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, st, message)
}

// GET /api/planner
func (p *PlannerController) GetStateHandler(c *gin.Context) {
	st, err := p.plannerService.GetState(c.Request.Context(), middleware.SessionID(c))
	p.respond(c, st, err, "Planner state fetched successfully")
}

// PUT /api/planner/start-point
func (p *PlannerController) SetStartPointHandler(c *gin.Context) {
	var req request_models.ValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	st, err := p.plannerService.SetStartPoint(c.Request.Context(), middleware.SessionID(c), req.Value)
	p.respond(c, st, err, "Start point updated")
}

// PUT /api/planner/end-point
func (p *PlannerController) SetEndPointHandler(c *gin.Context) {
	var req request_models.ValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	st, err := p.plannerService.SetEndPoint(c.Request.Context(), middleware.SessionID(c), req.Value)
	p.respond(c, st, err, "End point updated")
}

// PUT /api/planner/intermediate-cities
func (p *PlannerController) SetIntermediateCitiesHandler(c *gin.Context) {
	var req request_models.IntermediateCitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	st, err := p.plannerService.SetIntermediateCities(c.Request.Context(), middleware.SessionID(c), req.Cities)
	p.respond(c, st, err, "Intermediate cities updated")
}

// POST /api/planner/intermediate-cities
func (p *PlannerController) AddIntermediateCityHandler(c *gin.Context) {
	var req request_models.AddCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	st, err := p.plannerService.AddIntermediateCity(c.Request.Context(), middleware.SessionID(c), req.City)
	p.respond(c, st, err, "Intermediate city added")
}

// DELETE /api/planner/intermediate-cities/:index
func (p *PlannerController) RemoveIntermediateCityHandler(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid index")
		return
	}
	st, err := p.plannerService.RemoveIntermediateCity(c.Request.Context(), middleware.SessionID(c), index)
	p.respond(c, st, err, "Intermediate city removed")
}

// PUT /api/planner/sidebar-tab
func (p *PlannerController) SetSidebarTabHandler(c *gin.Context) {
	var req request_models.ValueRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Value) == "" {
		utils.RespondError(c, http.StatusBadRequest, "value is required")
		return
	}
	st, err := p.plannerService.SetSidebarTab(c.Request.Context(), middleware.SessionID(c), req.Value)
	p.respond(c, st, err, "Sidebar tab updated")
}

// PUT /api/planner/selected-city
func (p *PlannerController) SelectCityHandler(c *gin.Context) {
	var req request_models.SelectCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	st, err := p.plannerService.SelectCity(c.Request.Context(), middleware.SessionID(c), req.City)
	p.respond(c, st, err, "Selected city updated")
}

// PUT /api/planner/map-view
func (p *PlannerController) SetMapViewHandler(c *gin.Context) {
	var req request_models.MapViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	view := planner.MapView{
		Center: planner.LatLng{Lat: req.Center.Lat, Lng: req.Center.Lng},
		Zoom:   req.Zoom,
	}
	st, err := p.plannerService.SetMapView(c.Request.Context(), middleware.SessionID(c), view)
	p.respond(c, st, err, "Map view updated")
}

func bindPlace(c *gin.Context) (request_models.PlaceRequest, bool) {
	var req request_models.PlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.City) == "" || strings.TrimSpace(req.Place) == "" {
		utils.RespondError(c, http.StatusBadRequest, "city and place are required")
		return req, false
	}
	return req, true
}

// POST /api/planner/places
func (p *PlannerController) AddPlaceHandler(c *gin.Context) {
	req, ok := bindPlace(c)
	if !ok {
		return
	}
	st, err := p.plannerService.AddPlace(c.Request.Context(), middleware.SessionID(c), req.City, req.Place, req.Description)
	p.respond(c, st, err, "Place added")
}

// POST /api/planner/places/toggle
func (p *PlannerController) TogglePlaceHandler(c *gin.Context) {
	req, ok := bindPlace(c)
	if !ok {
		return
	}
	st, err := p.plannerService.TogglePlace(c.Request.Context(), middleware.SessionID(c), req.City, req.Place, req.Description)
	p.respond(c, st, err, "Place toggled")
}

// DELETE /api/planner/places/:placeId
func (p *PlannerController) RemovePlaceHandler(c *gin.Context) {
	placeID := c.Param("placeId")
	if placeID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Place ID is required")
		return
	}
	st, err := p.plannerService.RemovePlace(c.Request.Context(), middleware.SessionID(c), placeID)
	p.respond(c, st, err, "Place removed")
}

// DELETE /api/planner/places?city=&place=
func (p *PlannerController) RemovePlaceByNameHandler(c *gin.Context) {
	city, place := c.Query("city"), c.Query("place")
	if strings.TrimSpace(city) == "" || strings.TrimSpace(place) == "" {
		utils.RespondError(c, http.StatusBadRequest, "city and place are required")
		return
	}
	st, err := p.plannerService.RemovePlaceByName(c.Request.Context(), middleware.SessionID(c), city, place)
	p.respond(c, st, err, "Place removed")
}

// POST /api/planner/route
func (p *PlannerController) CalculateRouteHandler(c *gin.Context) {
	st, err := p.plannerService.CalculateRoute(c.Request.Context(), middleware.SessionID(c))
	p.respond(c, st, err, "Route calculated")
}

// POST /api/planner/cities/:city/optimize
func (p *PlannerController) OptimizeDayHandler(c *gin.Context) {
	city := c.Param("city")
	st, err := p.plannerService.OptimizeDay(c.Request.Context(), middleware.SessionID(c), city)
	p.respond(c, st, err, "Day optimized")
}

// DELETE /api/planner
func (p *PlannerController) ClearHandler(c *gin.Context) {
	st, err := p.plannerService.Clear(c.Request.Context(), middleware.SessionID(c))
	p.respond(c, st, err, "Planner cleared")
}
