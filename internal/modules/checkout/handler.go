package checkout

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jvalladares/tienda-backend/internal/modules/auth"
)

// ConfirmationSender delivers the post-checkout confirmation email.
// A nil sender disables confirmations.
type ConfirmationSender func(email, name string, invoiceID int64, total float64) error

// Handler exposes checkout HTTP endpoints.
type Handler struct {
	service          Service
	sendConfirmation ConfirmationSender
}

func NewHandler(service Service, sendConfirmation ConfirmationSender) *Handler {
	return &Handler{service: service, sendConfirmation: sendConfirmation}
}

// RegisterRoutes mounts the checkout endpoints. requireAuth guards invoice
// creation; the lookups are public.
func (h *Handler) RegisterRoutes(router *chi.Mux, requireAuth func(http.Handler) http.Handler) {
	router.With(requireAuth).Post("/api/v1/checkout", h.createInvoice)
	router.Get("/api/v1/payment-types", h.listPaymentTypes)
	router.Get("/api/v1/states", h.listStates)
	router.Get("/api/v1/states/{state_id}/cities", h.listCities)
}

func (h *Handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req InvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	// The invoice belongs to the authenticated user, whatever the payload says.
	req.UserID = u.ID

	invoiceID, err := h.service.CreateInvoice(r.Context(), req)
	if err != nil {
		h.respondCreateError(w, err)
		return
	}

	if h.sendConfirmation != nil && u.Email != "" {
		go func(email, name string, id int64, total float64) {
			if err := h.sendConfirmation(email, name, id, total); err != nil {
				log.Printf("confirmation email for invoice %d to %s: %v", id, email, err)
			}
		}(u.Email, u.FirstName, invoiceID, req.Total)
	}

	respond(w, http.StatusCreated, map[string]interface{}{
		"invoiceId": invoiceID,
		"status":    "created",
	})
}

func (h *Handler) respondCreateError(w http.ResponseWriter, err error) {
	msg := err.Error()
	switch {
	case errors.Is(err, ErrUnknownReference):
		respond(w, http.StatusUnprocessableEntity, map[string]string{"error": ErrUnknownReference.Error()})
	case strings.Contains(msg, "required") || strings.Contains(msg, "at least one") ||
		strings.Contains(msg, "missing a color") || strings.Contains(msg, "quantity must be"):
		respond(w, http.StatusBadRequest, map[string]string{"error": msg})
	default:
		// Store faults stay in the logs; callers get an opaque failure.
		log.Printf("create invoice: %v", err)
		respond(w, http.StatusInternalServerError, map[string]string{"error": "could not create invoice"})
	}
}

func (h *Handler) listPaymentTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.service.ListPaymentTypes(r.Context())
	if err != nil {
		h.respondLookupError(w, err)
		return
	}
	respond(w, http.StatusOK, types)
}

func (h *Handler) listStates(w http.ResponseWriter, r *http.Request) {
	states, err := h.service.ListStates(r.Context())
	if err != nil {
		h.respondLookupError(w, err)
		return
	}
	respond(w, http.StatusOK, states)
}

func (h *Handler) listCities(w http.ResponseWriter, r *http.Request) {
	stateID, err := strconv.ParseInt(chi.URLParam(r, "state_id"), 10, 64)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid state id"})
		return
	}
	cities, err := h.service.ListCitiesByState(r.Context(), stateID)
	if err != nil {
		h.respondLookupError(w, err)
		return
	}
	respond(w, http.StatusOK, cities)
}

func (h *Handler) respondLookupError(w http.ResponseWriter, err error) {
	log.Printf("checkout lookup: %v", err)
	respond(w, http.StatusInternalServerError, map[string]string{"error": "could not load checkout data"})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
