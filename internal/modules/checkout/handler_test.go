package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jvalladares/tienda-backend/internal/modules/auth"
	"github.com/jvalladares/tienda-backend/internal/modules/user"
)

type stubService struct {
	gotReq    InvoiceRequest
	invoiceID int64
	err       error
}

func (s *stubService) CreateInvoice(ctx context.Context, req InvoiceRequest) (int64, error) {
	s.gotReq = req
	return s.invoiceID, s.err
}

func (s *stubService) ListPaymentTypes(ctx context.Context) ([]PaymentType, error) {
	return []PaymentType{{ID: 1, Name: "Card"}}, nil
}

func (s *stubService) ListStates(ctx context.Context) ([]State, error) {
	return []State{{ID: 1, Name: "Francisco Morazán"}}, nil
}

func (s *stubService) ListCitiesByState(ctx context.Context, stateID int64) ([]City, error) {
	return []City{{ID: 3, Name: "Tegucigalpa"}}, nil
}

// fakeAuth injects a fixed authenticated user the way RequireAuth would.
func fakeAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := &user.User{ID: 7, Email: "ana@example.com", FirstName: "Ana"}
		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), u)))
	})
}

func setupRouter(svc Service) *chi.Mux {
	router := chi.NewRouter()
	NewHandler(svc, nil).RegisterRoutes(router, fakeAuth)
	return router
}

func postCheckout(t *testing.T, router http.Handler, body interface{}) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestCreateInvoiceHandlerSuccess(t *testing.T) {
	svc := &stubService{invoiceID: 99}
	router := setupRouter(svc)

	req := validRequest()
	req.UserID = 999 // spoofed; must be overridden by the authenticated user

	recorder := postCheckout(t, router, req)
	assert.Equal(t, http.StatusCreated, recorder.Code)

	var response struct {
		InvoiceID int64  `json:"invoiceId"`
		Status    string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, int64(99), response.InvoiceID)
	assert.Equal(t, "created", response.Status)

	// The payload's user id is replaced by the authenticated user's.
	assert.Equal(t, int64(7), svc.gotReq.UserID)
}

func TestCreateInvoiceHandlerValidationError(t *testing.T) {
	svc := &stubService{err: errors.New("cart must contain at least one item")}
	router := setupRouter(svc)

	recorder := postCheckout(t, router, InvoiceRequest{})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "cart must contain at least one item", response["error"])
}

func TestCreateInvoiceHandlerUnknownReference(t *testing.T) {
	svc := &stubService{err: fmt.Errorf("create invoice: %w", ErrUnknownReference)}
	router := setupRouter(svc)

	recorder := postCheckout(t, router, validRequest())
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}

func TestCreateInvoiceHandlerHidesStoreFaults(t *testing.T) {
	svc := &stubService{err: errors.New(`pq: relation "invoices" does not exist`)}
	router := setupRouter(svc)

	recorder := postCheckout(t, router, validRequest())
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "could not create invoice", response["error"])
	assert.NotContains(t, recorder.Body.String(), "pq:")
}

func TestCheckoutLookupEndpoints(t *testing.T) {
	router := setupRouter(&stubService{})

	for _, path := range []string{"/api/v1/payment-types", "/api/v1/states", "/api/v1/states/1/cities"} {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, recorder.Code, path)
	}
}
