package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/themizzi/swaglabs/internal/models"
	"github.com/themizzi/swaglabs/internal/services"
	"go.uber.org/zap"
)

// CartHandler renders the cart page
type CartHandler struct {
	template *template.Template
	carts    services.CartService
	logger   *zap.Logger
}

// CartData represents the data passed to the cart template
type CartData struct {
	Username  string
	Lines     []services.CartLine
	CartCount int
	Total     string
}

// NewCartHandler creates a new cart page handler
func NewCartHandler(templatePath string, carts services.CartService, logger *zap.Logger) (*CartHandler, error) {
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CartHandler{
		template: tmpl,
		carts:    carts,
		logger:   logger,
	}, nil
}

// ServeHTTP handles GET /cart.html
func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	username, ok := UsernameFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	lines, err := h.carts.Lines(username)
	if err != nil {
		h.logger.Error("Error loading cart", zap.String("username", username), zap.Error(err))
		http.Error(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}

	var total int64
	for _, line := range lines {
		total += line.Product.PriceCents
	}

	data := CartData{
		Username:  username,
		Lines:     lines,
		CartCount: len(lines),
		Total:     models.Product{PriceCents: total}.FormattedPrice(),
	}

	if err := h.template.Execute(w, data); err != nil {
		h.logger.Error("Error rendering cart template", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// CartAction is the change a CartActionHandler applies
type CartAction string

// Cart actions
const (
	CartActionAdd    CartAction = "add"
	CartActionRemove CartAction = "remove"
)

// CartActionHandler adds or removes a product, then redirects back
type CartActionHandler struct {
	action CartAction
	carts  services.CartService
	logger *zap.Logger
}

// NewCartActionHandler creates a handler for POST /cart/add or /cart/remove
func NewCartActionHandler(action CartAction, carts services.CartService, logger *zap.Logger) *CartActionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartActionHandler{
		action: action,
		carts:  carts,
		logger: logger,
	}
}

// ServeHTTP handles the cart form submission
func (h *CartActionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	username, ok := UsernameFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	product := r.PostForm.Get("product")

	var err error
	switch h.action {
	case CartActionAdd:
		err = h.carts.AddToCart(username, product)
	case CartActionRemove:
		err = h.carts.RemoveFromCart(username, product)
	default:
		err = fmt.Errorf("unsupported cart action %q", h.action)
	}

	switch {
	case err == nil:
	case errors.Is(err, models.ErrProductAlreadyInCart), errors.Is(err, models.ErrProductNotInCart):
		// The cart already reflects the request, e.g. after a double submit
		h.logger.Debug("Cart action had no effect", zap.String("action", string(h.action)), zap.Error(err))
	case errors.Is(err, models.ErrUnknownProduct):
		http.Error(w, "Unknown product", http.StatusBadRequest)
		return
	default:
		h.logger.Error("Cart action failed", zap.String("action", string(h.action)), zap.Error(err))
		http.Error(w, "Failed to update cart", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, returnPath(r.PostForm.Get("return")), http.StatusSeeOther)
}

// returnPath only allows redirects to local paths. Browsers read a backslash
// as a slash, so "/\host" is as external as "//host".
func returnPath(target string) string {
	const fallback = "/inventory.html"
	if !strings.HasPrefix(target, "/") || strings.ContainsRune(target, '\\') {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" || strings.HasPrefix(target, "//") {
		return fallback
	}
	return target
}
