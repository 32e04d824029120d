package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chathandler "github.com/kevintang/slate-gateway/internal/handler/chat"
	placehandler "github.com/kevintang/slate-gateway/internal/handler/place"
	speechhandler "github.com/kevintang/slate-gateway/internal/handler/speech"
	middlewarePkg "github.com/kevintang/slate-gateway/internal/middleware"
	chatservice "github.com/kevintang/slate-gateway/internal/service/chat"
	placeservice "github.com/kevintang/slate-gateway/internal/service/place"
	speechservice "github.com/kevintang/slate-gateway/internal/service/speech"
)

// NewRouter wires HTTP routes to core services. speechSvc may be nil when no
// synthesis endpoint is configured.
func NewRouter(registry *chatservice.Registry, placeSvc *placeservice.Service, speechSvc *speechservice.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	chatHandler := chathandler.New(registry)
	wsHandler := chathandler.NewWebSocketHandler(registry)
	placeHandler := placehandler.New(placeSvc)

	var synth speechhandler.Synthesizer
	if speechSvc != nil {
		synth = speechSvc
	}
	speechHandler := speechhandler.New(synth)

	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
		wsHandler.RegisterWebSocketRoutes(api)
		placeHandler.RegisterRoutes(api)
		speechHandler.RegisterRoutes(api)
	})

	return r
}
