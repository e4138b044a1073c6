package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/themizzi/swaglabs/internal/services"
	"go.uber.org/zap"
)

// CartAPIHandler exposes the current cart as JSON
type CartAPIHandler struct {
	carts  services.CartService
	logger *zap.Logger
}

// NewCartAPIHandler creates a new cart API handler
func NewCartAPIHandler(carts services.CartService, logger *zap.Logger) *CartAPIHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartAPIHandler{carts: carts, logger: logger}
}

// CartResponse represents the response sent to the client
type CartResponse struct {
	Username string             `json:"username"`
	Count    int                `json:"count"`
	Items    []CartItemResponse `json:"items"`
}

// CartItemResponse is one product in CartResponse
type CartItemResponse struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ServeHTTP handles GET /api/cart
func (h *CartAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendErrorResponse(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	username, ok := UsernameFromContext(r.Context())
	if !ok {
		sendErrorResponse(w, "Login required", http.StatusUnauthorized)
		return
	}

	lines, err := h.carts.Lines(username)
	if err != nil {
		h.logger.Error("Error loading cart", zap.String("username", username), zap.Error(err))
		sendErrorResponse(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}

	resp := CartResponse{
		Username: username,
		Count:    len(lines),
		Items:    make([]CartItemResponse, len(lines)),
	}
	for i, line := range lines {
		resp.Items[i] = CartItemResponse{
			Slug:  line.Product.Slug,
			Name:  line.Product.Name,
			Price: line.Product.FormattedPrice(),
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("Error encoding response", zap.Error(err))
	}
}

// sendErrorResponse sends a JSON error response
func sendErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}
