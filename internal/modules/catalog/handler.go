package catalog

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(router *chi.Mux) {
	router.Get("/api/v1/products", h.listProducts) // GET /api/v1/products?category=&size=&brand=&color=
	router.Get("/api/v1/categories", h.listCategories)
	router.Get("/api/v1/sizes", h.listSizes)
	router.Get("/api/v1/brands", h.listBrands)
	router.Get("/api/v1/colors", h.listColors)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := Filters{
		Category: optParam(q, "category"),
		Size:     optParam(q, "size"),
		Brand:    optParam(q, "brand"),
		Color:    optParam(q, "color"),
	}

	view, err := h.service.Aggregate(r.Context(), f)
	if err != nil {
		log.Printf("catalog aggregation: %v", err)
		respond(w, http.StatusInternalServerError, map[string]string{"error": "could not load catalog"})
		return
	}
	respond(w, http.StatusOK, view)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	h.respondLookup(w, r, func() (interface{}, error) { return h.service.ListCategories(r.Context()) })
}

func (h *Handler) listSizes(w http.ResponseWriter, r *http.Request) {
	h.respondLookup(w, r, func() (interface{}, error) { return h.service.ListSizes(r.Context()) })
}

func (h *Handler) listBrands(w http.ResponseWriter, r *http.Request) {
	h.respondLookup(w, r, func() (interface{}, error) { return h.service.ListBrands(r.Context()) })
}

func (h *Handler) listColors(w http.ResponseWriter, r *http.Request) {
	h.respondLookup(w, r, func() (interface{}, error) { return h.service.ListColors(r.Context()) })
}

func (h *Handler) respondLookup(w http.ResponseWriter, r *http.Request, fetch func() (interface{}, error)) {
	result, err := fetch()
	if err != nil {
		log.Printf("catalog lookup: %v", err)
		respond(w, http.StatusInternalServerError, map[string]string{"error": "could not load catalog data"})
		return
	}
	respond(w, http.StatusOK, result)
}

// optParam treats filter presence explicitly: a parameter supplied with any
// value (including empty) constrains the query, an absent one does not.
func optParam(q url.Values, key string) *string {
	if !q.Has(key) {
		return nil
	}
	v := q.Get(key)
	return &v
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
