package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/Temirlan230/friendgallery/internal/config"
	"github.com/Temirlan230/friendgallery/internal/database"
	"github.com/Temirlan230/friendgallery/internal/handlers"
	"github.com/Temirlan230/friendgallery/internal/repository"
	cronjobs "github.com/Temirlan230/friendgallery/internal/scheduler"
	"github.com/Temirlan230/friendgallery/internal/services"
	"github.com/Temirlan230/friendgallery/pkg/blobstore"
	"github.com/Temirlan230/friendgallery/pkg/email"
	"github.com/Temirlan230/friendgallery/pkg/logger"
	"github.com/Temirlan230/friendgallery/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}
	if err := database.EnsureIndexes(context.Background(), db); err != nil {
		log.Fatalf("Index creation error: %v", err)
	}

	// Blob store for uploaded photo assets
	blobs, err := blobstore.NewDiskStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Blob store error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Outbound mail; stays nil (and the welcome mail off) without SMTP settings
	var mailer services.Mailer
	if m := email.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPSender, cfg.SMTPPassword); m.Enabled() {
		mailer = m
	}

	// --- Services ---
	notificationService := services.NewNotificationService(notificationRepo)
	userService := services.NewUserService(userRepo, friendRepo, photoRepo, mailer)
	friendService := services.NewFriendService(friendRepo, userRepo, notificationService)
	photoService := services.NewPhotoService(photoRepo, friendRepo, userRepo, blobs)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	friendHandler := handlers.NewFriendHandler(friendService)
	photoHandler := handlers.NewPhotoHandler(photoService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Public auth routes
	router.HandleFunc("/users/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/users/login", userHandler.LoginUserHandler).Methods("POST")

	// Protected user routes
	protectedUserRoutes := router.PathPrefix("/users").Subrouter()
	protectedUserRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedUserRoutes.HandleFunc("", userHandler.BrowseUsersHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/{username}", userHandler.ProfileHandler).Methods("GET")

	// Friend routes
	protectedFriendRoutes := router.PathPrefix("/friends").Subrouter()
	protectedFriendRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedFriendRoutes.HandleFunc("/{id}/request", friendHandler.SendFriendRequestHandler).Methods("POST")
	protectedFriendRoutes.HandleFunc("/requests", friendHandler.GetPendingRequestsHandler).Methods("GET")
	protectedFriendRoutes.HandleFunc("/requests/sent", friendHandler.GetSentRequestsHandler).Methods("GET")
	protectedFriendRoutes.HandleFunc("/requests/{id}/respond", friendHandler.RespondToFriendRequestHandler).Methods("POST")
	protectedFriendRoutes.HandleFunc("", friendHandler.GetFriendsHandler).Methods("GET")

	// Photo routes
	protectedPhotoRoutes := router.PathPrefix("/photos").Subrouter()
	protectedPhotoRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedPhotoRoutes.HandleFunc("", photoHandler.UploadPhotoHandler).Methods("POST")
	protectedPhotoRoutes.HandleFunc("/feed", photoHandler.FeedHandler).Methods("GET")
	protectedPhotoRoutes.HandleFunc("/{id}", photoHandler.PhotoDetailHandler).Methods("GET")
	protectedPhotoRoutes.HandleFunc("/{id}", photoHandler.DeletePhotoHandler).Methods("DELETE")

	// Notification routes
	protectedNotificationRoutes := router.PathPrefix("/notifications").Subrouter()
	protectedNotificationRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedNotificationRoutes.HandleFunc("", notificationHandler.GetUserNotificationsHandler).Methods("GET")
	protectedNotificationRoutes.HandleFunc("/{id}/read", notificationHandler.MarkAsReadHandler).Methods("POST")
	protectedNotificationRoutes.HandleFunc("/{id}", notificationHandler.DeleteNotificationHandler).Methods("DELETE")

	// Serve uploaded photo assets
	router.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Background cleanup of expired notifications
	cronjobs.StartNotificationCronJobs(notificationService)

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // adjust to frontend origin
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
