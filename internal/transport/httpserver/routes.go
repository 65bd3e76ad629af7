package httpserver

import (
	"net/http"
	"time"

	"giftcircle/internal/config"
	"giftcircle/internal/transport/httpserver/handler"
	authmw "giftcircle/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, auth *authmw.Auth) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(cfg.Rate.RequestLimit, cfg.Rate.WindowLength))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Post("/auth/register", handlers.Register)
		r.Post("/auth/login", handlers.Login)
		r.Post("/auth/verify", handlers.VerifyEmail)
		r.Post("/auth/resend-verification", handlers.ResendVerification)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.AuthMe)
			r.Delete("/auth/me", handlers.DeleteAccount)

			r.Get("/families", handlers.ListFamilies)
			r.Post("/families", handlers.CreateFamily)
			r.Post("/families/join", handlers.JoinFamily)

			r.Get("/wishlist/mine", handlers.ListMyWishlist)

			r.Route("/families/{family_id}", func(r chi.Router) {
				r.Use(authmw.RequireFamilyMember(handlers.Families))

				r.Get("/", handlers.GetFamily)
				r.Get("/members", handlers.ListFamilyMembers)
				r.Post("/invite", handlers.InviteToFamily)

				r.Get("/profiles", handlers.ListProfiles)
				r.Get("/profiles/{user_id}", handlers.GetProfile)
				r.Put("/profiles/me", handlers.UpsertMyProfile)

				r.Get("/wishlist", handlers.ListFamilyWishlist)
				r.Post("/wishlist", handlers.AddWishlistItem)

				r.Get("/groups", handlers.ListGiftGroups)
				r.Post("/groups", handlers.CreateGiftGroup)

				r.Group(func(r chi.Router) {
					r.Use(authmw.RequireFamilyAdmin(handlers.Families))

					r.Patch("/", handlers.UpdateFamily)
					r.Delete("/", handlers.DeleteFamily)
					r.Delete("/members/{member_id}", handlers.RemoveFamilyMember)
				})
			})

			r.Route("/wishlist/{item_id}", func(r chi.Router) {
				r.Patch("/", handlers.UpdateWishlistItem)
				r.Delete("/", handlers.DeleteWishlistItem)
				r.Post("/claim", handlers.ClaimWishlistItem)
				r.Post("/unclaim", handlers.UnclaimWishlistItem)
				r.Post("/purchase", handlers.PurchaseWishlistItem)
			})

			r.Route("/groups/{group_id}", func(r chi.Router) {
				r.Use(authmw.RequireGroupMember(handlers.Groups))

				r.Get("/", handlers.GetGiftGroup)
				r.Patch("/", handlers.UpdateGiftGroup)
				r.Delete("/", handlers.DeleteGiftGroup)
				r.Get("/members", handlers.ListGiftGroupMembers)
				r.Post("/contributions", handlers.Contribute)
				r.Get("/messages", handlers.ListGroupMessages)
				r.Post("/messages", handlers.PostGroupMessage)
				r.Patch("/messages/{message_id}", handlers.EditGroupMessage)
			})
		})
	})

	return r
}
