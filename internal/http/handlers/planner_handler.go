// README: Planner handlers for pickup listings and route planning.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"justonemore/internal/maps"
	"justonemore/internal/modules/planner"
	"justonemore/internal/types"
)

type PlannerHandler struct {
	planner *planner.Service
}

func NewPlannerHandler(svc *planner.Service) *PlannerHandler {
	return &PlannerHandler{planner: svc}
}

type pickupResponse struct {
	Dish       dishResponse `json:"dish"`
	DistanceKm *float64     `json:"distance_km,omitempty"`
	MapsLink   string       `json:"maps_link,omitempty"`
}

// Pickups lists prepared dishes, distance-sorted when lat/lng are given.
func (h *PlannerHandler) Pickups(c *gin.Context) {
	origin, ok, err := parseOrigin(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid coordinates")
		return
	}
	var originPtr *types.Point
	if ok {
		originPtr = &origin
	}
	pickups, err := h.planner.AvailablePickups(c.Request.Context(), originPtr)
	if err != nil {
		writePlannerError(c, err)
		return
	}
	out := make([]pickupResponse, 0, len(pickups))
	for _, p := range pickups {
		resp := pickupResponse{Dish: toDishResponse(p.Dish)}
		if p.DistanceKm >= 0 {
			km := p.DistanceKm
			resp.DistanceKm = &km
		}
		if p.Dish.PickupCoords != nil {
			resp.MapsLink = maps.DirectionsLink(*p.Dish.PickupCoords)
		}
		out = append(out, resp)
	}
	writeJSON(c, http.StatusOK, out)
}

type planReq struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Limit int     `json:"limit"`
}

type routeStopResponse struct {
	Dish  dishResponse `json:"dish"`
	LegKm float64      `json:"leg_km"`
}

type routeResponse struct {
	Stops      []routeStopResponse `json:"stops"`
	HubID      *string             `json:"hub_id,omitempty"`
	HubName    string              `json:"hub_name,omitempty"`
	FinalLegKm float64             `json:"final_leg_km"`
	TotalKm    float64             `json:"total_km"`
	MapsLink   string              `json:"maps_link,omitempty"`
}

func (h *PlannerHandler) Plan(c *gin.Context) {
	var req planReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	route, err := h.planner.Plan(c.Request.Context(), types.Point{Lat: req.Lat, Lng: req.Lng}, req.Limit)
	if err != nil {
		writePlannerError(c, err)
		return
	}
	resp := routeResponse{
		Stops:      make([]routeStopResponse, 0, len(route.Stops)),
		FinalLegKm: route.FinalLegKm,
		TotalKm:    route.TotalKm,
		MapsLink:   route.MapsLink,
	}
	for _, stop := range route.Stops {
		resp.Stops = append(resp.Stops, routeStopResponse{Dish: toDishResponse(stop.Dish), LegKm: stop.LegKm})
	}
	if route.Hub != nil {
		id := string(route.Hub.ID)
		resp.HubID = &id
		resp.HubName = route.Hub.Name
	}
	writeJSON(c, http.StatusOK, resp)
}

func parseOrigin(c *gin.Context) (types.Point, bool, error) {
	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr == "" && lngStr == "" {
		return types.Point{}, false, nil
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return types.Point{}, false, err
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return types.Point{}, false, err
	}
	return types.Point{Lat: lat, Lng: lng}, true, nil
}
