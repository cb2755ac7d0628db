// README: API gateway; registers HTTP routes and delegates to module
// services.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"justonemore/internal/ai"
	"justonemore/internal/http/handlers"
	"justonemore/internal/http/middleware"
	"justonemore/internal/modules/demo"
	"justonemore/internal/modules/directory"
	"justonemore/internal/modules/dish"
	"justonemore/internal/modules/impact"
	"justonemore/internal/modules/planner"
	"justonemore/internal/modules/qrcode"
	"justonemore/internal/modules/trip"
)

type ServerDeps struct {
	Dish      *dish.Service
	Trip      *trip.Service
	Directory *directory.Service
	Planner   *planner.Service
	Impact    *impact.Service
	QR        *qrcode.Service
	Suggester ai.AllergenSuggester
	// Seeder is optional; the admin seed endpoint is only registered when
	// it is present.
	Seeder *demo.Seeder
}

type Server struct {
	deps ServerDeps
}

func NewServer(deps ServerDeps) *Server {
	return &Server{deps: deps}
}

func (s *Server) Routes() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	dishHandler := handlers.NewDishHandler(s.deps.Dish)
	r.POST("/api/dishes", dishHandler.Create)
	r.GET("/api/dishes/:id", dishHandler.Get)
	r.GET("/api/dishes/:id/label", dishHandler.Label)
	r.POST("/api/dishes/transitions", dishHandler.Transition)
	r.POST("/api/dishes/:id/assign", dishHandler.Assign)
	r.GET("/api/cooks/:id/dishes", dishHandler.ListByCook)
	r.GET("/api/hubs/:id/inventory", dishHandler.HubInventory)
	r.GET("/api/lighthouse/inventory", dishHandler.LighthouseInventory)

	scanHandler := handlers.NewScanHandler(s.deps.QR)
	r.POST("/api/scans", scanHandler.Decode)

	tripHandler := handlers.NewTripHandler(s.deps.Trip)
	r.POST("/api/trips", tripHandler.Start)
	r.POST("/api/trips/:id/end", tripHandler.End)
	r.GET("/api/trips/:id", tripHandler.Get)
	r.GET("/api/drivers/:id/trips", tripHandler.ListByDriver)

	plannerHandler := handlers.NewPlannerHandler(s.deps.Planner)
	r.GET("/api/planner/pickups", plannerHandler.Pickups)
	r.POST("/api/planner/routes", plannerHandler.Plan)

	directoryHandler := handlers.NewDirectoryHandler(s.deps.Directory)
	r.POST("/api/users", directoryHandler.RegisterUser)
	r.GET("/api/users", directoryHandler.LookupUser)
	r.GET("/api/users/:id", directoryHandler.GetUser)
	r.POST("/api/hubs", directoryHandler.CreateHub)
	r.GET("/api/hubs", directoryHandler.ListHubs)
	r.GET("/api/hubs/nearest", directoryHandler.NearestHub)
	r.POST("/api/lighthouses", directoryHandler.CreateLighthouse)
	r.GET("/api/lighthouses", directoryHandler.ListLighthouses)

	impactHandler := handlers.NewImpactHandler(s.deps.Impact)
	r.GET("/api/users/:id/impact", impactHandler.Summary)
	r.GET("/api/users/:id/notifications", impactHandler.Notifications)
	r.POST("/api/notifications/:id/read", impactHandler.MarkRead)
	r.GET("/api/stats", impactHandler.PlatformStats)

	aiHandler := handlers.NewAIHandler(s.deps.Suggester)
	r.POST("/api/ai/allergen-suggestions", aiHandler.SuggestAllergens)

	if s.deps.Seeder != nil {
		adminHandler := handlers.NewAdminHandler(s.deps.Seeder)
		r.POST("/api/admin/seed-demo", adminHandler.SeedDemo)
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
