// Package devstub is an in-memory implementation of the PenDen backend API,
// used by `storefront devserver` for local development and as the fixture
// server in client tests. It mirrors the wire shapes of the real backend,
// including the Django-style field errors and the nested-product cart items.
package devstub

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Thamsanqa-bit/penden-storefront/internal/domain"
)

type user struct {
	ID       int64
	Username string
	Email    string
	Phone    string
	Address  string
	Password string
}

type order struct {
	ID    int64
	User  string
	Total decimal.Decimal
}

type imageUpload struct {
	Filename string
	Size     int64
	Email    string
	Phone    string
}

type pdfUpload struct {
	Title    string
	Filename string
	User     string
}

type Server struct {
	log *zap.Logger

	mu         sync.Mutex
	products   []domain.Product
	users      map[string]*user          // by username
	tokens     map[string]string         // token -> username
	carts      map[string]map[int64]int  // username -> productID -> quantity
	orders     map[int64]*order          // by order id
	idemOrders map[string]int64          // idempotency key -> order id
	images     []imageUpload
	pdfs       []pdfUpload
	nextUserID int64
	nextOrder  int64
}

func NewServer(log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		log:        log,
		products:   seedProducts(),
		users:      make(map[string]*user),
		tokens:     make(map[string]string),
		carts:      make(map[string]map[int64]int),
		orders:     make(map[int64]*order),
		idemOrders: make(map[string]int64),
		nextUserID: 1,
		nextOrder:  1000,
	}
}

// Handler builds the chi router for the stub API, mounted under /api.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products/", s.handleListProducts)
		r.Post("/login/", s.handleLogin)
		r.Post("/register/", s.handleRegister)
		r.Post("/image-upload/", s.handleImageUpload)

		r.Group(func(r chi.Router) {
			r.Use(s.requireToken)
			r.Post("/upload-pdf/", s.handleUploadPDF)
			r.Get("/cart/", s.handleGetCart)
			r.Post("/cart/add/", s.handleAddToCart)
			r.Post("/cart/remove/", s.handleRemoveFromCart)
			r.Get("/auth/user/", s.handleCurrentUser)
			r.Post("/checkout/", s.handleCheckout)
			r.Post("/create-payment/", s.handleCreatePayment)
		})
	})
	return r
}

type ctxKey string

const userKey ctxKey = "devstub_user"

// requireToken resolves "Authorization: Token <value>" to a user much like
// DRF token auth, answering 401 with the DRF detail body on failure.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Token ")
		if !ok || token == "" {
			respondJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
			return
		}

		s.mu.Lock()
		username, found := s.tokens[token]
		s.mu.Unlock()
		if !found {
			respondJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid token."})
			return
		}

		ctx := context.WithValue(r.Context(), userKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func usernameFromContext(ctx context.Context) string {
	if name, ok := ctx.Value(userKey).(string); ok {
		return name
	}
	return ""
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
