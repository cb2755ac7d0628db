// README: Directory handlers for users, hubs, and lighthouses.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"justonemore/internal/modules/directory"
	"justonemore/internal/types"
)

type DirectoryHandler struct {
	directory *directory.Service
}

func NewDirectoryHandler(svc *directory.Service) *DirectoryHandler {
	return &DirectoryHandler{directory: svc}
}

type registerUserReq struct {
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone"`
	Address string   `json:"address"`
	Roles   []string `json:"roles"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
}

func (h *DirectoryHandler) RegisterUser(c *gin.Context) {
	var req registerUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	roles := make([]directory.Role, 0, len(req.Roles))
	for _, r := range req.Roles {
		roles = append(roles, directory.Role(r))
	}
	var coords *types.Point
	if req.Lat != nil && req.Lng != nil {
		coords = &types.Point{Lat: *req.Lat, Lng: *req.Lng}
	}
	u, err := h.directory.RegisterUser(c.Request.Context(), directory.Registration{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Roles:   roles,
		Coords:  coords,
	})
	if err != nil {
		writeDirectoryError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toUserResponse(u))
}

func (h *DirectoryHandler) GetUser(c *gin.Context) {
	u, err := h.directory.GetUser(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDirectoryError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toUserResponse(u))
}

// LookupUser resolves a user by email, the sign-in path for returning users.
func (h *DirectoryHandler) LookupUser(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		writeError(c, http.StatusBadRequest, "email is required")
		return
	}
	u, err := h.directory.GetUserByEmail(c.Request.Context(), email)
	if err != nil {
		writeDirectoryError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toUserResponse(u))
}

func toUserResponse(u *directory.User) gin.H {
	resp := gin.H{
		"id":      u.ID,
		"name":    u.Name,
		"email":   u.Email,
		"phone":   u.Phone,
		"roles":   u.Roles,
		"address": u.Address,
	}
	if u.Coords != nil {
		resp["lat"] = u.Coords.Lat
		resp["lng"] = u.Coords.Lng
	}
	return resp
}

type createFacilityReq struct {
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
}

func (req createFacilityReq) coords() *types.Point {
	if req.Lat == nil || req.Lng == nil {
		return nil
	}
	return &types.Point{Lat: *req.Lat, Lng: *req.Lng}
}

func (h *DirectoryHandler) CreateHub(c *gin.Context) {
	var req createFacilityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	hub, err := h.directory.CreateHub(c.Request.Context(), req.Name, req.Address, req.coords())
	if err != nil {
		writeDirectoryError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toHubResponse(hub))
}

// ListHubs returns all hubs. With lat and lng query parameters the list
// narrows to located hubs ordered nearest first, each with its distance.
func (h *DirectoryHandler) ListHubs(c *gin.Context) {
	origin, ok, err := parseOrigin(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid lat or lng")
		return
	}
	if ok {
		ranked, err := h.directory.HubsByDistance(c.Request.Context(), origin)
		if err != nil {
			writeDirectoryError(c, err)
			return
		}
		out := make([]gin.H, 0, len(ranked))
		for _, hd := range ranked {
			resp := toHubResponse(hd.Hub)
			resp["distance_km"] = hd.Km
			out = append(out, resp)
		}
		writeJSON(c, http.StatusOK, out)
		return
	}
	hubs, err := h.directory.ListHubs(c.Request.Context())
	if err != nil {
		writeDirectoryError(c, err)
		return
	}
	out := make([]gin.H, 0, len(hubs))
	for _, hub := range hubs {
		out = append(out, toHubResponse(hub))
	}
	writeJSON(c, http.StatusOK, out)
}

// NearestHub returns the hub closest to the given coordinates.
func (h *DirectoryHandler) NearestHub(c *gin.Context) {
	origin, ok, err := parseOrigin(c)
	if err != nil || !ok {
		writeError(c, http.StatusBadRequest, "lat and lng are required")
		return
	}
	hub, km, err := h.directory.NearestHub(c.Request.Context(), origin)
	if err != nil {
		writeDirectoryError(c, err)
		return
	}
	if hub == nil {
		writeError(c, http.StatusNotFound, "no located hubs")
		return
	}
	resp := toHubResponse(hub)
	resp["distance_km"] = km
	writeJSON(c, http.StatusOK, resp)
}

func toHubResponse(h *directory.Hub) gin.H {
	resp := gin.H{
		"id":      h.ID,
		"name":    h.Name,
		"address": h.Address,
	}
	if h.Coords != nil {
		resp["lat"] = h.Coords.Lat
		resp["lng"] = h.Coords.Lng
	}
	return resp
}

func (h *DirectoryHandler) CreateLighthouse(c *gin.Context) {
	var req createFacilityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	l, err := h.directory.CreateLighthouse(c.Request.Context(), req.Name, req.Address, req.coords())
	if err != nil {
		writeDirectoryError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toLighthouseResponse(l))
}

func (h *DirectoryHandler) ListLighthouses(c *gin.Context) {
	lighthouses, err := h.directory.ListLighthouses(c.Request.Context())
	if err != nil {
		writeDirectoryError(c, err)
		return
	}
	out := make([]gin.H, 0, len(lighthouses))
	for _, l := range lighthouses {
		out = append(out, toLighthouseResponse(l))
	}
	writeJSON(c, http.StatusOK, out)
}

func toLighthouseResponse(l *directory.Lighthouse) gin.H {
	resp := gin.H{
		"id":      l.ID,
		"name":    l.Name,
		"address": l.Address,
	}
	if l.Coords != nil {
		resp["lat"] = l.Coords.Lat
		resp["lng"] = l.Coords.Lng
	}
	return resp
}
