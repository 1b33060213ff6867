package main

import (
	"net/http"

	"gigmarket-be/internal/config"
	"gigmarket-be/internal/coupon"
	"gigmarket-be/internal/db"
	"gigmarket-be/internal/gig"
	"gigmarket-be/internal/logger"
	"gigmarket-be/internal/middleware"
	"gigmarket-be/internal/offer"
	"gigmarket-be/internal/order"
	"gigmarket-be/internal/payment"
	"gigmarket-be/internal/payment/webhook"
	"gigmarket-be/internal/pricing"
	"gigmarket-be/internal/review"
	"gigmarket-be/internal/user"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	gigRepo := gig.NewRepository(database)
	gigSvc := gig.NewService(gigRepo)
	gigHandler := gig.NewHandler(gigSvc)

	offerRepo := offer.NewRepository(database)
	offerSvc := offer.NewService(offerRepo)
	offerHandler := offer.NewHandler(offerSvc)

	couponRepo := coupon.NewRepository(database)
	couponSvc := coupon.NewService(couponRepo)
	couponHandler := coupon.NewHandler(couponSvc)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo)
	orderHandler := order.NewHandler(orderSvc)

	reviewRepo := review.NewRepository(database)
	reviewSvc := review.NewService(reviewRepo)
	reviewHandler := review.NewHandler(reviewSvc)

	priceResolver := pricing.NewResolver(gigRepo, offerRepo, couponRepo)

	stripeGateway := payment.NewStripeGateway(cfg)
	paypalGateway := payment.NewPayPalGateway(cfg)
	paymentHandler := payment.NewHandler(priceResolver, stripeGateway, paypalGateway, orderSvc, userSvc)
	webhookHandler := webhook.NewHandler(orderSvc, userSvc, stripeGateway)

	r := chi.NewRouter()

	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.AuthMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", userHandler.Register)
			r.Post("/login", userHandler.Login)
		})

		r.With(middleware.RequireAuth).Get("/users/me", userHandler.Me)

		r.Route("/gigs", func(r chi.Router) {
			r.Get("/", gigHandler.List)
			r.Get("/{id}", gigHandler.Get)
			r.Get("/{id}/reviews", reviewHandler.ListByGig)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/", gigHandler.Create)
				r.Put("/{id}", gigHandler.Update)
				r.Delete("/{id}", gigHandler.Delete)
			})
		})

		r.Route("/offers", func(r chi.Router) {
			r.Get("/", offerHandler.List)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/", offerHandler.Create)
				r.Put("/{id}", offerHandler.Update)
				r.Delete("/{id}", offerHandler.Delete)
			})
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Post("/validate", couponHandler.Validate)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", couponHandler.List)
				r.Post("/", couponHandler.Create)
				r.Delete("/{id}", couponHandler.Delete)
			})
		})

		r.Route("/stripe", func(r chi.Router) {
			r.With(middleware.RequireAuth).Post("/checkout", paymentHandler.StripeCheckout)
			// signature is verified against the raw body; no auth on this route
			r.Post("/webhook", webhookHandler.StripeWebhook)
		})

		r.Route("/paypal", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/checkout", paymentHandler.PayPalCheckout)
			r.Post("/capture", paymentHandler.PayPalCapture)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/", orderHandler.List)
			r.Get("/{id}", orderHandler.Get)
			r.Post("/{id}/cancel-request", orderHandler.RequestCancel)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Patch("/{id}/status", orderHandler.UpdateStatus)
				r.Delete("/{id}", orderHandler.Delete)
			})
		})

		r.Route("/reviews", func(r chi.Router) {
			r.With(middleware.RequireAuth).Post("/", reviewHandler.Create)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Patch("/{id}/status", reviewHandler.Moderate)
				r.Delete("/{id}", reviewHandler.Delete)
			})
		})
	})

	addr := ":" + cfg.AppPort
	logger.L().Info("server listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
