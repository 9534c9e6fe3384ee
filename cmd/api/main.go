package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/fkhayef/membership/docs"
	"github.com/fkhayef/membership/internal/addrequest"
	"github.com/fkhayef/membership/internal/authz"
	"github.com/fkhayef/membership/internal/config"
	"github.com/fkhayef/membership/internal/database"
	"github.com/fkhayef/membership/internal/event"
	"github.com/fkhayef/membership/internal/group"
	"github.com/fkhayef/membership/internal/job"
	"github.com/fkhayef/membership/internal/mailinglist"
	"github.com/fkhayef/membership/internal/market"
	"github.com/fkhayef/membership/internal/participation"
	"github.com/fkhayef/membership/internal/person"
	mw "github.com/fkhayef/membership/pkg/middleware"
)

// @title           Membership API
// @version         1.0
// @description     Event participations, application market, person add requests and mailing list synchronization.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Connected to database successfully")

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Outbound jobs are written here and run by cmd/worker
	jobs := job.NewPostgresQueue(db, cfg.Worker.LockTimeout, cfg.Worker.MaxAttempts)

	// Person feature
	personRepo := person.NewRepository(db)
	personService := person.NewService(personRepo)
	personHandler := person.NewHandler(personService)

	// Group feature
	groupRepo := group.NewRepository(db)
	groupService := group.NewService(groupRepo)
	groupHandler := group.NewHandler(groupService)

	// Event feature
	eventRepo := event.NewRepository(db)
	eventService := event.NewService(eventRepo)

	// Permissions from group roles and event roles
	participationRepo := participation.NewRepository(db)
	guard := authz.NewGuard(authz.NewRolePolicy(), groupService, participationRepo, groupService)

	// Participation feature
	participationService := participation.NewService(participationRepo, eventService, personService, guard, jobs)
	participationHandler := participation.NewHandler(participationService)

	// Application market
	marketService := market.NewService(participationRepo, eventService, guard)
	marketHandler := market.NewHandler(marketService)

	// Mailing lists
	listRepo := mailinglist.NewRepository(db)
	listService := mailinglist.NewService(listRepo, personService, guard, jobs)
	listHandler := mailinglist.NewHandler(listService)

	// Person add requests
	bodies := addrequest.NewBodyResolver(groupService, eventService, listService)
	addRequestService := addrequest.NewService(addrequest.NewRepository(db), bodies, personService, guard, jobs)
	addRequestHandler := addrequest.NewHandler(addRequestService)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.DevAuth {
			log.Println("DEV_AUTH enabled, trusting X-Person-ID")
			r.Use(mw.DevPersonMiddleware)
		} else {
			r.Use(mw.AuthMiddleware(cfg.JWTSecret))
		}

		groups := groupHandler.Routes()
		groups.Mount("/{groupId}/events/{eventId}/participations", participationHandler.Routes())
		groups.Mount("/{groupId}/events/{eventId}/application_market", marketHandler.Routes())

		// Mount feature routers
		r.Mount("/people", personHandler.Routes())
		r.Mount("/groups", groups)
		r.Mount("/mailing_lists", listHandler.Routes())
		r.Mount("/person_add_requests", addRequestHandler.Routes())
	})

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
