package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"rechenraum/internal/service"
	"rechenraum/internal/transport/rest/handler"
	"rechenraum/internal/transport/ws"
)

// Container holds all dependencies for the router.
type Container struct {
	RoomService   *service.RoomService
	ReportService *service.ReportService
	WSHandler     *ws.Handler
}

// NewRouter creates the API router with all endpoints.
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	reportHandler := handler.NewReportHandler(c.ReportService)
	problemsHandler := handler.NewProblemsHandler()

	r.Use(corsMiddleware)

	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/ws", c.WSHandler.ServeWS).Methods("GET")
	v1.HandleFunc("/rooms/{code}/report", reportHandler.Download).Methods("GET", "OPTIONS")
	v1.HandleFunc("/problems", problemsHandler.Generate).Methods("GET", "OPTIONS")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
