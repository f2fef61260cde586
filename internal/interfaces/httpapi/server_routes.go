package httpapi

import (
	"net/http"
	"path/filepath"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /favicon.ico", handler.Favicon)
}

func registerRosterRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /players", handler.ListPlayers)
	mux.HandleFunc("POST /players", handler.CreatePlayer)
	mux.HandleFunc("POST /update_player", handler.UpdatePlayer)
}

func registerTeamRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /generate", handler.Generate)
	mux.HandleFunc("POST /generate/selection", handler.GenerateFromSelection)
	mux.HandleFunc("GET /formation", handler.FormationPreview)
}

func registerStaticRoutes(mux *http.ServeMux, staticDir string) {
	if staticDir == "" {
		return
	}

	index := filepath.Join(staticDir, "index.html")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, index)
	})
}
