package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/goodseed1/Lightning-Pickleball-sub009/handlers"
	"github.com/goodseed1/Lightning-Pickleball-sub009/middleware"
)

type Options struct {
	JWTSecret      []byte
	RateLimitRPS   float64
	RateLimitBurst int
}

func SetupRoutes(
	router *chi.Mux,
	opts Options,
	authHandler *handlers.AuthHandler,
	playerHandler *handlers.PlayerHandler,
	tournamentHandler *handlers.TournamentHandler,
	bracketHandler *handlers.BracketHandler,
	matchHandler *handlers.MatchHandler,
	standingHandler *handlers.StandingHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(middleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(middleware.RateLimit(opts.RateLimitRPS, opts.RateLimitBurst))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(opts.JWTSecret)
	organizerOnly := middleware.Authorize("organizer", "admin")

	router.Get("/swagger/*", httpSwagger.Handler())

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	router.Route("/players", func(r chi.Router) {
		r.Get("/{playerID}", playerHandler.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/me", playerHandler.GetMe)
			r.Patch("/me", playerHandler.UpdateMe)
			r.Post("/me/avatar", playerHandler.UploadAvatar)
			r.Delete("/me/avatar", playerHandler.DeleteAvatar)
		})
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.List)
		r.Get("/{tournamentID}", tournamentHandler.GetByID)
		r.Get("/{tournamentID}/registrations", tournamentHandler.ListRegistrations)
		r.Get("/{tournamentID}/bracket", bracketHandler.Get)
		r.Get("/{tournamentID}/matches", matchHandler.List)
		r.Get("/{tournamentID}/matches/{matchID}", matchHandler.GetByID)
		r.Get("/{tournamentID}/standings", standingHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/{tournamentID}/registrations", tournamentHandler.Register)
			r.Delete("/{tournamentID}/registrations/{registrationID}", tournamentHandler.Withdraw)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(organizerOnly)
			r.Post("/", tournamentHandler.Create)
			r.Patch("/{tournamentID}/status", tournamentHandler.UpdateStatus)
			r.Post("/{tournamentID}/registrations/{registrationID}/confirm", tournamentHandler.ConfirmRegistration)
			r.Post("/{tournamentID}/bracket", bracketHandler.Generate)
			r.Delete("/{tournamentID}/bracket", bracketHandler.Delete)
			r.Post("/{tournamentID}/matches/{matchID}/result", matchHandler.SubmitResult)
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
