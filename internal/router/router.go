package router

import (
	"net/http"

	"storefront/internal/handler"
	"storefront/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Page     *handler.PageHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	MFA      *handler.MFAHandler
	Recovery *handler.RecoveryHandler
}

// Options holds the router's middleware configuration.
type Options struct {
	APIKey         string
	AllowedOrigins []string
	Session        middleware.SessionConfig
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Recovery -> Logging -> CORS, with request ids assigned first
	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(opts.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Storefront routes carry a browser session and forward its credentials.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(opts.Session, logger))
		r.Use(middleware.ForwardCredentials)

		r.Get("/shop/{lang}", h.Page.Resolve)
		r.Get("/shop/{lang}/*", h.Page.Resolve)

		r.Route("/api/cart", func(r chi.Router) {
			r.Get("/", h.Cart.Get)
			r.Post("/items", h.Cart.AddItems)
			r.Delete("/", h.Cart.Clear)
		})

		r.Route("/api/checkout", func(r chi.Router) {
			r.Get("/", h.Checkout.State)
			r.Post("/information", h.Checkout.SubmitInformation)
			r.Post("/address", h.Checkout.SubmitAddress)
			r.Post("/shipping-method", h.Checkout.SelectShippingMethod)
			r.Post("/payment-confirmation", h.Checkout.ConfirmPayment)
			r.Post("/place-order", h.Checkout.PlaceOrder)
			r.Post("/back", h.Checkout.GoBack)
		})

		r.Route("/api/mfa", func(r chi.Router) {
			r.Get("/status", h.MFA.Status)
			r.Get("/banner", h.MFA.Banner)
			r.Post("/banner/dismiss", h.MFA.Dismiss)
			r.Get("/enrollment", h.MFA.Enrollment)
			r.Post("/enrollment/app", h.MFA.ChooseApp)
			r.Post("/enrollment/continue", h.MFA.Continue)
			r.Post("/enrollment/code", h.MFA.SubmitCode)
			r.Post("/enrollment/finish", h.MFA.Finish)
			r.Delete("/enrollment", h.MFA.Restart)
			r.Post("/disable", h.MFA.Disable)
			r.Post("/backup-codes", h.MFA.RegenerateBackupCodes)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(opts.APIKey, logger))
		r.Get("/subscription-failures", h.Recovery.List)
		r.Get("/subscription-failures/{id}", h.Recovery.GetByID)
		r.Post("/subscription-failures/{id}/resolve", h.Recovery.Resolve)
	})

	return r
}
