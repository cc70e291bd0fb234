package router

import (
	"net/http"

	"resqhome-backend/internal/handlers"
	"resqhome-backend/internal/middleware"
	"resqhome-backend/internal/models"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Options carries everything the router mounts
type Options struct {
	Auth      *handlers.AuthHandler
	Profile   *handlers.ProfileHandler
	Reports   *handlers.ReportHandler
	Rescued   *handlers.RescuedHandler
	Adoptions *handlers.AdoptionHandler
	Requests  *handlers.RequestsHandler
	Dashboard *handlers.DashboardHandler
	Events    *handlers.EventsHandler

	TokenValidator middleware.TokenValidator

	// UploadsDir, when non-empty, is served statically at /uploads/
	UploadsDir string
}

// New builds the application router
func New(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	authRequired := middleware.Auth(opts.TokenValidator)
	corpOnly := middleware.RequireRoles(models.RoleCorporation, models.RoleAdmin)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", opts.Auth.Signup)
			r.Post("/login", opts.Auth.Login)
			r.Post("/logout", opts.Auth.Logout)
		})

		// Public rescued catalogue
		r.Get("/rescued", opts.Rescued.PublicList)
		r.Get("/rescued/{id}", opts.Rescued.PublicGet)

		r.Route("/user", func(r chi.Router) {
			r.Use(authRequired)
			r.Get("/profile", opts.Profile.Get)
			r.Put("/update-profile", opts.Profile.Update)
			r.Post("/report", opts.Reports.Create)
			r.Get("/my-reports", opts.Reports.ListMine)
			r.Get("/report/{id}", opts.Reports.Get)
			r.Delete("/delete-report/{id}", opts.Reports.Delete)
			r.Post("/adopt/{animalId}", opts.Requests.Adopt)
			r.Get("/my-adoptions", opts.Requests.MyAdoptions)
		})

		r.Route("/corp", func(r chi.Router) {
			r.Use(authRequired)
			r.Use(corpOnly)
			r.Get("/dashboard", opts.Dashboard.Get)
			r.Get("/reports", opts.Reports.ListAll)
			r.Put("/reports/update-status/{id}", opts.Reports.UpdateStatus)
			r.Post("/report/{id}/rescue", opts.Rescued.Promote)
			r.Get("/rescued", opts.Rescued.List)
			r.Post("/rescued", opts.Rescued.Create)
			r.Get("/rescued/{id}", opts.Rescued.Get)
			r.Put("/rescued/{id}", opts.Rescued.Update)
			r.Delete("/rescued/{id}", opts.Rescued.Delete)
			r.Post("/rescued/{id}/medical", opts.Rescued.AddMedical)
			r.Post("/adoption/create", opts.Adoptions.Create)
			r.Get("/adoptions", opts.Adoptions.List)
			r.Get("/adoption/{id}", opts.Adoptions.Get)
			r.Put("/adoption/{id}/edit", opts.Adoptions.Edit)
			r.Delete("/adoption/{id}", opts.Adoptions.Delete)
			r.Route("/adoption-requests", func(r chi.Router) {
				r.Get("/requests", opts.Requests.List)
				r.Get("/requests/{id}", opts.Requests.Get)
				r.Put("/requests/{id}/status", opts.Requests.UpdateStatus)
			})
		})
	})

	if opts.Events != nil {
		r.Get("/ws", opts.Events.Subscribe)
	}

	if opts.UploadsDir != "" {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadsDir)))
		r.Get("/uploads/*", fileServer.ServeHTTP)
	}

	return r
}

// corsMiddleware handles CORS for the SPA front end
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
