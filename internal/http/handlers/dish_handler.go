// README: Dish handlers for creation, lookup, lifecycle transitions, and
// inventories.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"justonemore/internal/modules/dish"
	"justonemore/internal/types"
)

type DishHandler struct {
	dish *dish.Service
}

func NewDishHandler(svc *dish.Service) *DishHandler {
	return &DishHandler{dish: svc}
}

type createDishReq struct {
	CookID        string   `json:"cook_id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Allergens     []string `json:"allergens"`
	Portions      int      `json:"portions"`
	ExpiryDate    *string  `json:"expiry_date"`
	PickupAddress string   `json:"pickup_address"`
	PickupLat     *float64 `json:"pickup_lat"`
	PickupLng     *float64 `json:"pickup_lng"`
}

type dishResponse struct {
	ID            string     `json:"id"`
	CookID        string     `json:"cook_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Allergens     []string   `json:"allergens,omitempty"`
	Portions      int        `json:"portions"`
	PreparedAt    time.Time  `json:"prepared_at"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
	Status        string     `json:"status"`
	PickupAddress string     `json:"pickup_address,omitempty"`
	PickupLat     *float64   `json:"pickup_lat,omitempty"`
	PickupLng     *float64   `json:"pickup_lng,omitempty"`
	QRPayload     string     `json:"qr_payload"`
	TripID        *string    `json:"trip_id,omitempty"`
	HubID         *string    `json:"hub_id,omitempty"`
	LighthouseID  *string    `json:"lighthouse_id,omitempty"`
}

func toDishResponse(d *dish.Dish) dishResponse {
	resp := dishResponse{
		ID:            string(d.ID),
		CookID:        string(d.CookID),
		Title:         d.Title,
		Description:   d.Description,
		Allergens:     d.Allergens,
		Portions:      d.Portions,
		PreparedAt:    d.PreparedAt,
		ExpiryDate:    d.ExpiryDate,
		Status:        string(d.Status),
		PickupAddress: d.PickupAddress,
		QRPayload:     d.QRPayload,
		TripID:        idToString(d.TripID),
		HubID:         idToString(d.HubID),
		LighthouseID:  idToString(d.LighthouseID),
	}
	if d.PickupCoords != nil {
		resp.PickupLat = &d.PickupCoords.Lat
		resp.PickupLng = &d.PickupCoords.Lng
	}
	return resp
}

func idToString(id *types.ID) *string {
	if id == nil {
		return nil
	}
	s := string(*id)
	return &s
}

func (h *DishHandler) Create(c *gin.Context) {
	var req createDishReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	cmd := dish.CreateCommand{
		CookID:        types.ID(req.CookID),
		Title:         req.Title,
		Description:   req.Description,
		Allergens:     req.Allergens,
		Portions:      req.Portions,
		PreparedAt:    time.Now().UTC(),
		PickupAddress: req.PickupAddress,
	}
	if req.PickupLat != nil && req.PickupLng != nil {
		cmd.PickupCoords = &types.Point{Lat: *req.PickupLat, Lng: *req.PickupLng}
	}
	if req.ExpiryDate != nil {
		t, err := time.Parse(time.RFC3339, *req.ExpiryDate)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid expiry_date")
			return
		}
		cmd.ExpiryDate = &t
	}
	d, err := h.dish.Create(c.Request.Context(), cmd)
	if err != nil {
		writeDishError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toDishResponse(d))
}

func (h *DishHandler) Get(c *gin.Context) {
	d, err := h.dish.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDishError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toDishResponse(d))
}

// Label serves the dish's rendered QR label PNG.
func (h *DishHandler) Label(c *gin.Context) {
	d, err := h.dish.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDishError(c, err)
		return
	}
	if d.QRPath == "" {
		writeError(c, http.StatusNotFound, "no label for dish")
		return
	}
	c.File(d.QRPath)
}

type transitionReq struct {
	Code         string  `json:"code"`
	Target       string  `json:"target"`
	TripID       *string `json:"trip_id"`
	HubID        *string `json:"hub_id"`
	LighthouseID *string `json:"lighthouse_id"`
}

// Transition applies a lifecycle step identified by a scanned payload or a
// manually typed code.
func (h *DishHandler) Transition(c *gin.Context) {
	var req transitionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	d, err := h.dish.ApplyTransition(c.Request.Context(), dish.TransitionCommand{
		PayloadOrCode: req.Code,
		Target:        dish.Status(req.Target),
		TripID:        stringToID(req.TripID),
		HubID:         stringToID(req.HubID),
		LighthouseID:  stringToID(req.LighthouseID),
	})
	if err != nil {
		writeDishError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toDishResponse(d))
}

func stringToID(s *string) *types.ID {
	if s == nil || *s == "" {
		return nil
	}
	id := types.ID(*s)
	return &id
}

type assignReq struct {
	HubID        string `json:"hub_id"`
	LighthouseID string `json:"lighthouse_id"`
}

// Assign routes a hub-held dish to a lighthouse without a scan.
func (h *DishHandler) Assign(c *gin.Context) {
	var req assignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	d, err := h.dish.Assign(c.Request.Context(), types.ID(c.Param("id")), types.ID(req.HubID), types.ID(req.LighthouseID))
	if err != nil {
		writeDishError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toDishResponse(d))
}

func (h *DishHandler) ListByCook(c *gin.Context) {
	out, err := h.dish.ListByCook(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDishError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toDishList(out))
}

func (h *DishHandler) HubInventory(c *gin.Context) {
	out, err := h.dish.HubInventory(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDishError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toDishList(out))
}

func (h *DishHandler) LighthouseInventory(c *gin.Context) {
	out, err := h.dish.LighthouseInventory(c.Request.Context())
	if err != nil {
		writeDishError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toDishList(out))
}

func toDishList(dishes []*dish.Dish) []dishResponse {
	out := make([]dishResponse, 0, len(dishes))
	for _, d := range dishes {
		out = append(out, toDishResponse(d))
	}
	return out
}
