package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apppretest "github.com/adityasw/creative-pretest/internal/application/pretest"
	domai "github.com/adityasw/creative-pretest/internal/domain/ai"
	"github.com/adityasw/creative-pretest/internal/domain/assets"
	domain "github.com/adityasw/creative-pretest/internal/domain/pretest"
)

type Router struct {
	svc *apppretest.Service
}

func NewRouter(svc *apppretest.Service) http.Handler {
	r := &Router{svc: svc}
	mux := chi.NewRouter()

	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		rt.Post("/pretests", r.wrap(r.handleRun))
		rt.Get("/pretests/latest", r.wrap(r.handleLatest))
		rt.Get("/pretests/{id}", r.wrap(r.handleGet))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				http.Error(w, "not found", http.StatusNotFound)
			case errors.Is(err, domain.ErrNoAssets), errors.Is(err, assets.ErrUnknownKind):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, domain.ErrNoValidAssets):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			case errors.Is(err, domai.ErrQuotaExceeded):
				http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

// POST /v1/{tenant}/pretests
// Body: an AnalysisRequest. Runs the full pipeline synchronously and returns
// the result together with the persisted run metadata.
func (r *Router) handleRun(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")

	var body domain.AnalysisRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return nil
	}

	res, run, err := r.svc.Run(req.Context(), tenant, body)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{
		"pretest": run,
		"result":  res,
	})
}

// GET /v1/{tenant}/pretests/latest?limit=20
func (r *Router) handleLatest(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.svc.Latest(req.Context(), tenant, limit)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /v1/{tenant}/pretests/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")

	p, err := r.svc.Get(req.Context(), tenant, domain.PretestID(id))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(p)
}
