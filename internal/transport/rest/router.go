package rest

import (
	"net/http"

	"eunoia/internal/service"
	"eunoia/internal/transport/rest/handler"
	"eunoia/internal/transport/rest/middleware"
	"eunoia/internal/transport/ws"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService       *service.AuthService
	AssessmentService *service.AssessmentService
	UserService       *service.UserService
	HealthService     *service.HealthService
	WSHub             *ws.Hub
	AllowedOrigins    []string
	AuthRatePerMin    int
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	assessmentHandler := handler.NewAssessmentHandler(c.AssessmentService)
	userHandler := handler.NewUserHandler(c.UserService)
	healthHandler := handler.NewHealthHandler(c.HealthService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.AllowedOrigins)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)
	limiter := middleware.NewRateLimiter(c.AuthRatePerMin)

	r.Use(middleware.RequestLogger)
	r.Use(middleware.CORS(c.AllowedOrigins))

	// Public routes
	r.HandleFunc("/", healthHandler.Root).Methods("GET")
	r.HandleFunc("/health", healthHandler.Health).Methods("GET")

	authRoutes := r.PathPrefix("/auth").Subrouter()
	authRoutes.Use(limiter.Limit)
	authRoutes.HandleFunc("/register", authHandler.Register).Methods("POST", "OPTIONS")
	authRoutes.HandleFunc("/login", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket route (token in query param)
	r.HandleFunc("/ws/assessments", wsHandler.AssessmentFeed).Methods("GET")

	// User routes (require a bearer token)
	userRoutes := r.NewRoute().Subrouter()
	userRoutes.Use(authMW.RequireUser)

	userRoutes.HandleFunc("/ai/risk-assessment", assessmentHandler.RiskAssessment).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/ai/analyze-text", assessmentHandler.AnalyzeText).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/user/profile", userHandler.Profile).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/user/assessments", assessmentHandler.History).Methods("GET", "OPTIONS")

	return r
}
