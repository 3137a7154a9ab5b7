package server

import (
	"log"
	"net/http"

	"scenebuilder/internal/gateway/handler"
	"scenebuilder/internal/gateway/middleware"
)

func NewMux(sceneHandler *handler.SceneHandler, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/agent/scene", sceneHandler.HandleCreate)
	mux.HandleFunc("GET /v1/agent/scene/{id}", sceneHandler.HandleGet)
	mux.HandleFunc("GET /healthz", handler.HandleHealth)

	// Middleware
	return middleware.CORS(middleware.Logging(logger)(mux))
}
