package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/muster-archive/musterbackend/config"
	"github.com/muster-archive/musterbackend/database"
	"github.com/muster-archive/musterbackend/handlers"
	"github.com/muster-archive/musterbackend/importer"
	"github.com/muster-archive/musterbackend/models"
	"github.com/muster-archive/musterbackend/repository"
	"github.com/muster-archive/musterbackend/services"
	"github.com/muster-archive/musterbackend/workers"
)

func main() {
	importDir := flag.String("import", "", "import every answer set in the given directory, then exit")
	flag.Parse()

	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	storagePaths := []string{cfg.ImagesPath, cfg.ThumbnailsPath, filepath.Dir(cfg.DatabasePath)}
	for _, p := range storagePaths {
		log.Printf("Ensuring storage directory exists: %s", p)
		if err := os.MkdirAll(p, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create storage directory %s: %v", p, err)
		}
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database schema: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("FATAL: Failed to get underlying sql.DB: %v", err)
	}
	defer sqlDB.Close()

	answerSetImporter := importer.NewImporter(db)

	if *importDir != "" {
		imported, err := answerSetImporter.ImportDir(*importDir)
		if err != nil {
			log.Fatalf("FATAL: Import finished with errors after %d file(s): %v", imported, err)
		}
		log.Printf("Import complete: %d answer set(s)", imported)
		return
	}

	personRepo := repository.NewPersonRepository(db)
	formRepo := repository.NewFormRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	userRepo := repository.NewUserRepository(db)

	seedReviewer(userRepo, cfg)

	auditService := &services.AuditService{DB: db}
	sessions := services.NewEditSessionStore()

	log.Printf("Initializing thumbnail worker pool (Workers: %d, Queue Size: %d)...", cfg.NumThumbnailWorkers, cfg.ThumbnailQueueSize)
	thumbGen := workers.NewThumbnailGenerator(cfg, cfg.ThumbnailQueueSize, cfg.NumThumbnailWorkers)
	defer thumbGen.Stop()
	go thumbGen.ScanImages()

	log.Printf("Serving scanned pages from: %s", cfg.ImagesPath)
	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Storing thumbnails in: %s", cfg.ThumbnailsPath)
	log.Printf("Thumbnail width: %dpx", cfg.ThumbnailWidth)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"}, //TODO: configurable
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	jwtSecret := []byte(cfg.JWTSecret)
	authHandler := handlers.NewAuthHandler(userRepo, jwtSecret)
	formHandler := &handlers.FormHandler{FormRepo: formRepo, AuditRepo: auditRepo, Audit: auditService, Sessions: sessions}
	personHandler := &handlers.PersonHandler{PersonRepo: personRepo, AuditRepo: auditRepo, Audit: auditService, Sessions: sessions}
	auditHandler := &handlers.AuditHandler{DB: sqlDB}
	lookupHandler := &handlers.LookupHandler{DB: sqlDB}
	importHandler := &handlers.ImportHandler{Importer: answerSetImporter, Cfg: &cfg}

	requireAuth := func(h http.HandlerFunc) http.Handler {
		return handlers.AuthMiddleware(userRepo, jwtSecret, h)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)

		r.Route("/forms", func(r chi.Router) {
			r.Get("/", formHandler.ListForms)
			r.Route("/{form_id}", func(r chi.Router) {
				r.Get("/", formHandler.GetForm)
				r.Get("/audit", formHandler.GetFormHistory)
				r.Method(http.MethodPost, "/edit", requireAuth(formHandler.BeginEdit))
				r.Method(http.MethodPut, "/", requireAuth(formHandler.UpdateForm))
			})
		})

		r.Route("/people", func(r chi.Router) {
			r.Get("/", personHandler.ListPeople)
			r.Route("/{person_id}", func(r chi.Router) {
				r.Get("/", personHandler.GetPerson)
				r.Get("/audit", personHandler.GetPersonHistory)
				r.Method(http.MethodPost, "/edit", requireAuth(personHandler.BeginEdit))
				r.Method(http.MethodPut, "/", requireAuth(personHandler.UpdatePerson))
			})
		})

		r.Get("/audit", auditHandler.ListAuditEntries)
		r.Get("/lookups/{table}", lookupHandler.ListOptions)
		r.Method(http.MethodPost, "/imports", requireAuth(importHandler.RunImport))

		r.Get("/images/*", handlers.AssetServer(cfg.ImagesPath, "/api/images/"))
		r.Get("/thumbnails/*", handlers.AssetServer(cfg.ThumbnailsPath, "/api/thumbnails/"))
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	fmt.Printf("Server starting on http://localhost:%s\n", port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}

// seedReviewer creates the initial reviewer account on an empty users table so
// a fresh deployment can log in without manual SQL.
func seedReviewer(userRepo repository.UserRepositoryInterface, cfg config.Config) {
	count, err := userRepo.Count()
	if err != nil {
		log.Printf("Warning: failed to count users for seeding: %v", err)
		return
	}
	if count > 0 {
		return
	}
	if cfg.SeedPassword == "" {
		log.Printf("Warning: users table is empty and SEED_REVIEWER_PASSWORD is unset; no reviewer account created")
		return
	}

	user := &models.User{Username: cfg.SeedUsername}
	if err := user.SetPassword(cfg.SeedPassword); err != nil {
		log.Printf("Warning: failed to hash seed reviewer password: %v", err)
		return
	}
	if err := userRepo.Create(user); err != nil {
		log.Printf("Warning: failed to create seed reviewer account: %v", err)
		return
	}
	log.Printf("Created seed reviewer account %q", cfg.SeedUsername)
}
