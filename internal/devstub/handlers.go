package devstub

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Thamsanqa-bit/penden-storefront/internal/domain"
)

const defaultPageSize = 12

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	category := r.URL.Query().Get("category")

	s.mu.Lock()
	var filtered []domain.Product
	for _, p := range s.products {
		if category == "" || p.Category == category {
			filtered = append(filtered, p)
		}
	}
	s.mu.Unlock()

	totalPages := (len(filtered) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * pageSize
	end := min(start+pageSize, len(filtered))

	respondJSON(w, http.StatusOK, map[string]any{
		"products": filtered[start:end],
		"pagination": domain.Pagination{
			Page:        page,
			PageSize:    pageSize,
			TotalPages:  totalPages,
			TotalItems:  len(filtered),
			HasNext:     page < totalPages,
			HasPrevious: page > 1,
		},
	})
}

type cartItemPayload struct {
	ProductID int64           `json:"product_id"`
	Quantity  json.RawMessage `json:"quantity"`
}

// quantity decodes the int-or-"all" quantity field. all=true means the
// whole line goes.
func (p cartItemPayload) quantity() (int, bool, error) {
	var all string
	if json.Unmarshal(p.Quantity, &all) == nil {
		if all == "all" {
			return 0, true, nil
		}
		return 0, false, fmt.Errorf("unknown quantity %q", all)
	}
	var n int
	if err := json.Unmarshal(p.Quantity, &n); err != nil {
		return 0, false, fmt.Errorf("quantity must be an integer or \"all\"")
	}
	return n, false, nil
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	username := usernameFromContext(r.Context())
	s.mu.Lock()
	defer s.mu.Unlock()
	respondJSON(w, http.StatusOK, s.cartJSON(username))
}

func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	username := usernameFromContext(r.Context())

	var payload cartItemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	qty, all, err := payload.quantity()
	if err != nil || all || qty < 1 {
		respondError(w, http.StatusBadRequest, "quantity must be a positive integer")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findProduct(payload.ProductID) == nil {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	cart := s.cart(username)
	cart[payload.ProductID] += qty
	s.log.Debug("cart add",
		zap.String("user", username),
		zap.Int64("product_id", payload.ProductID),
		zap.Int("quantity", cart[payload.ProductID]),
	)
	respondJSON(w, http.StatusOK, s.cartJSON(username))
}

func (s *Server) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	username := usernameFromContext(r.Context())

	var payload cartItemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	qty, all, err := payload.quantity()
	if err != nil || (!all && qty < 1) {
		respondError(w, http.StatusBadRequest, "quantity must be a positive integer or \"all\"")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cart(username)
	current, present := cart[payload.ProductID]
	if !present {
		respondError(w, http.StatusNotFound, "product not in cart")
		return
	}

	// Decrement to zero removes the line, same as an explicit "all".
	if all || qty >= current {
		delete(cart, payload.ProductID)
	} else {
		cart[payload.ProductID] = current - qty
	}
	respondJSON(w, http.StatusOK, s.cartJSON(username))
}

// cartJSON renders a user's cart in the backend's nested-product item shape.
// Callers must hold s.mu.
func (s *Server) cartJSON(username string) map[string]any {
	cart := s.cart(username)

	items := make([]map[string]any, 0, len(cart))
	total := decimal.Zero
	count := 0
	for _, p := range s.products {
		qty, ok := cart[p.ID]
		if !ok {
			continue
		}
		items = append(items, map[string]any{
			"product":  p,
			"quantity": qty,
		})
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(qty))))
		count += qty
	}

	return map[string]any{
		"id":          s.users[username].ID,
		"items":       items,
		"total_price": total,
		"total_items": count,
	}
}

func (s *Server) cart(username string) map[int64]int {
	cart, ok := s.carts[username]
	if !ok {
		cart = make(map[int64]int)
		s.carts[username] = cart
	}
	return cart
}

func (s *Server) findProduct(id int64) *domain.Product {
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i]
		}
	}
	return nil
}

type registerPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload registerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	fieldErrors := make(map[string][]string)
	if payload.Username == "" {
		fieldErrors["username"] = []string{"This field may not be blank."}
	}
	if payload.Password == "" {
		fieldErrors["password"] = []string{"This field may not be blank."}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.users[payload.Username]; taken {
		fieldErrors["username"] = []string{"A user with that username already exists."}
	}
	for _, u := range s.users {
		if payload.Email != "" && u.Email == payload.Email {
			fieldErrors["email"] = []string{"A user with that email already exists."}
		}
	}
	if len(fieldErrors) > 0 {
		respondJSON(w, http.StatusBadRequest, fieldErrors)
		return
	}

	s.users[payload.Username] = &user{
		ID:       s.nextUserID,
		Username: payload.Username,
		Email:    payload.Email,
		Phone:    payload.Phone,
		Address:  payload.Address,
		Password: payload.Password,
	}
	s.nextUserID++

	token := uuid.NewString()
	s.tokens[token] = payload.Username
	respondJSON(w, http.StatusCreated, map[string]string{"status": "success", "token": token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[payload.Username]
	if !ok || u.Password != payload.Password {
		respondError(w, http.StatusBadRequest, "Invalid username or password")
		return
	}

	token := uuid.NewString()
	s.tokens[token] = payload.Username
	respondJSON(w, http.StatusOK, map[string]string{"status": "success", "token": token})
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	username := usernameFromContext(r.Context())

	s.mu.Lock()
	u := s.users[username]
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, map[string]any{
		"id":       u.ID,
		"username": u.Username,
		"email":    u.Email,
		"phone":    u.Phone,
		"address":  u.Address,
	})
}

type checkoutPayload struct {
	FullName   string             `json:"full_name"`
	Phone      string             `json:"phone"`
	Street     string             `json:"street"`
	City       string             `json:"city"`
	Province   string             `json:"province"`
	PostalCode string             `json:"postal_code"`
	Country    string             `json:"country"`
	Email      string             `json:"email"`
	Items      []domain.OrderItem `json:"items"`
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	username := usernameFromContext(r.Context())

	var payload checkoutPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(payload.Items) == 0 {
		respondError(w, http.StatusBadRequest, "cannot checkout an empty cart")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Replaying the same confirmation returns the order it already created.
	idemKey := r.Header.Get("X-Idempotency-Key")
	if idemKey != "" {
		if id, seen := s.idemOrders[idemKey]; seen {
			o := s.orders[id]
			respondJSON(w, http.StatusOK, map[string]any{"id": o.ID, "total": o.Total})
			return
		}
	}

	total := decimal.Zero
	for _, item := range payload.Items {
		p := s.findProduct(item.ProductID)
		if p == nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown product %d", item.ProductID))
			return
		}
		if item.Quantity < 1 {
			respondError(w, http.StatusBadRequest, "item quantity must be positive")
			return
		}
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	o := &order{ID: s.nextOrder, User: username, Total: total}
	s.nextOrder++
	s.orders[o.ID] = o
	if idemKey != "" {
		s.idemOrders[idemKey] = o.ID
	}

	// The order supersedes the cart.
	delete(s.carts, username)

	s.log.Info("order placed",
		zap.String("user", username),
		zap.Int64("order_id", o.ID),
		zap.String("total", total.String()),
	)
	respondJSON(w, http.StatusCreated, map[string]any{"id": o.ID, "total": o.Total})
}

const maxImageBytes = 5 << 20

var imageExtensions = map[string]struct{}{
	".jpeg": {},
	".jpg":  {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

func (s *Server) handleImageUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageBytes + 1024); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string][]string{"image": {"No image provided."}})
		return
	}
	defer file.Close()

	if header.Size > maxImageBytes {
		respondJSON(w, http.StatusBadRequest, map[string][]string{"image": {"Image size should be less than 5MB."}})
		return
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := imageExtensions[ext]; !ok {
		respondJSON(w, http.StatusBadRequest, map[string][]string{"image": {"Unsupported image type."}})
		return
	}

	s.mu.Lock()
	s.images = append(s.images, imageUpload{
		Filename: header.Filename,
		Size:     header.Size,
		Email:    r.FormValue("email"),
		Phone:    r.FormValue("phone"),
	})
	s.mu.Unlock()

	s.log.Info("image received",
		zap.String("filename", header.Filename),
		zap.Int64("size", header.Size),
	)
	respondJSON(w, http.StatusCreated, map[string]string{"message": "Image uploaded successfully!"})
}

func (s *Server) handleUploadPDF(w http.ResponseWriter, r *http.Request) {
	username := usernameFromContext(r.Context())

	if err := r.ParseMultipartForm(maxImageBytes + 1024); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		respondJSON(w, http.StatusBadRequest, map[string][]string{"title": {"This field may not be blank."}})
		return
	}
	file, header, err := r.FormFile("pdf_file")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string][]string{"pdf_file": {"No file provided."}})
		return
	}
	defer file.Close()
	if strings.ToLower(filepath.Ext(header.Filename)) != ".pdf" {
		respondJSON(w, http.StatusBadRequest, map[string][]string{"pdf_file": {"File must be a PDF."}})
		return
	}

	s.mu.Lock()
	s.pdfs = append(s.pdfs, pdfUpload{Title: title, Filename: header.Filename, User: username})
	s.mu.Unlock()

	s.log.Info("stationery pdf received",
		zap.String("user", username),
		zap.String("title", title),
	)
	respondJSON(w, http.StatusCreated, map[string]string{"status": "success"})
}

func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Amount  decimal.Decimal `json:"amount"`
		OrderID json.Number     `json:"order_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	orderID, err := payload.OrderID.Int64()
	if err != nil {
		respondError(w, http.StatusBadRequest, "order_id must be numeric")
		return
	}

	s.mu.Lock()
	o, ok := s.orders[orderID]
	s.mu.Unlock()
	if !ok {
		respondError(w, http.StatusNotFound, "order not found")
		return
	}
	if !payload.Amount.Equal(o.Total) {
		respondError(w, http.StatusBadRequest, "amount does not match order total")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"payment_url": fmt.Sprintf("https://sandbox.payfast.co.za/eng/process?order=%d&amount=%s", o.ID, o.Total),
	})
}
