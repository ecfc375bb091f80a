package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	stateCookie    = "oauth_state"
	verifierCookie = "pkce_verifier"
)

// Handler exposes authentication HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

// RegisterRoutes mounts the auth endpoints. requireAuth guards the
// current-user endpoint.
func (h *Handler) RegisterRoutes(router *chi.Mux, requireAuth func(http.Handler) http.Handler) {
	router.Get("/auth/login", h.federatedLogin)
	router.Get("/auth/callback", h.callback)
	router.Post("/auth/register", h.register)
	router.Post("/auth/login", h.login)
	router.With(requireAuth).Get("/auth/me", h.me)
}

// federatedLogin starts the authorization-code flow against the identity
// provider. The PKCE verifier and CSRF state are kept in short-lived cookies
// so the callback can be validated without server-side session state.
func (h *Handler) federatedLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.New().String()
	verifier := oauth2.GenerateVerifier()

	setFlowCookie(w, stateCookie, state)
	setFlowCookie(w, verifierCookie, verifier)

	http.Redirect(w, r, h.service.AuthCodeURL(state, verifier), http.StatusFound)
}

func (h *Handler) callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		respond(w, http.StatusBadRequest, map[string]string{"error": "authorization code not found"})
		return
	}

	stateCk, err := r.Cookie(stateCookie)
	if err != nil || stateCk.Value == "" || stateCk.Value != r.URL.Query().Get("state") {
		respond(w, http.StatusBadRequest, map[string]string{"error": "state mismatch"})
		return
	}
	verifierCk, err := r.Cookie(verifierCookie)
	if err != nil || verifierCk.Value == "" {
		respond(w, http.StatusBadRequest, map[string]string{"error": "pkce verifier not found"})
		return
	}

	clearFlowCookie(w, stateCookie)
	clearFlowCookie(w, verifierCookie)

	token, err := h.service.HandleCallback(r.Context(), code, verifierCk.Value)
	if err != nil {
		respond(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	u, err := h.service.Register(r.Context(), req)
	if err != nil {
		code := http.StatusInternalServerError
		if err.Error() == "email and password are required" {
			code = http.StatusBadRequest
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, u)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respond(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	respond(w, http.StatusOK, u)
}

func setFlowCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/auth",
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearFlowCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{Name: name, Value: "", Path: "/auth", MaxAge: -1, HttpOnly: true})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
