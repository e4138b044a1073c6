package handlers

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/themizzi/swaglabs/internal/models"
	"github.com/themizzi/swaglabs/internal/services"
	"go.uber.org/zap"
)

// InventoryHandler renders the product list
type InventoryHandler struct {
	template *template.Template
	catalog  *models.Catalog
	carts    services.CartService
	logger   *zap.Logger
}

// InventoryItem is a product as shown on the inventory page
type InventoryItem struct {
	Product models.Product
	InCart  bool
}

// InventoryData represents the data passed to the inventory template
type InventoryData struct {
	Username  string
	Items     []InventoryItem
	CartCount int
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(templatePath string, catalog *models.Catalog, carts services.CartService, logger *zap.Logger) (*InventoryHandler, error) {
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &InventoryHandler{
		template: tmpl,
		catalog:  catalog,
		carts:    carts,
		logger:   logger,
	}, nil
}

// ServeHTTP handles GET /inventory.html
func (h *InventoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	username, ok := UsernameFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	cart, err := h.carts.Cart(username)
	if err != nil {
		h.logger.Error("Error loading cart", zap.String("username", username), zap.Error(err))
		http.Error(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}

	products := h.catalog.Products()
	items := make([]InventoryItem, len(products))
	for i, p := range products {
		items[i] = InventoryItem{Product: p, InCart: cart.Contains(p.Slug)}
	}

	data := InventoryData{
		Username:  username,
		Items:     items,
		CartCount: cart.Count(),
	}

	if err := h.template.Execute(w, data); err != nil {
		h.logger.Error("Error rendering inventory template", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
