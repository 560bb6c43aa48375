package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/chessmanager/club-api/config"
	"github.com/chessmanager/club-api/handlers"
	"github.com/chessmanager/club-api/middleware"
	"github.com/chessmanager/club-api/routes"
	"github.com/chessmanager/club-api/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := config.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	log.Println("✅ Database connected successfully")

	if err := config.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Le stockage objet est optionnel : sans credentials, les endpoints de
	// documents répondent 503 mais le reste de l'API fonctionne.
	storage, err := services.NewStorageService()
	if err != nil {
		log.Printf("⚠️ File storage disabled: %v", err)
		storage = nil
	}

	go scheduleSessionCleaning(db)

	wsHandler := handlers.NewWSHandler()

	router := gin.Default()

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:5173"
	}

	allowedOrigins := []string{
		frontendURL,
		"https://chessmanager.club",
		"https://www.chessmanager.club",
	}

	log.Printf("🌍 CORS: Allowing origins:")
	for _, origin := range allowedOrigins {
		log.Printf("   - %s", origin)
	}

	corsConfig := cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Admin-Secret"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}
	router.Use(cors.New(corsConfig))

	router.Use(func(c *gin.Context) {
		start := time.Now()
		log.Printf("📨 %s %s from %s", c.Request.Method, c.Request.URL.Path, c.ClientIP())
		c.Next()
		duration := time.Since(start)
		log.Printf("✅ %s %s - %d (%v)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), duration)
	})

	router.Use(middleware.RateLimiter(300, time.Minute))

	v1 := router.Group("/api/v1")
	{
		routes.SetupAuthRoutes(v1, db)
		v1.GET("/ws/clubs/:id", wsHandler.HandleWS)
		routes.SetupAdminRoutes(v1, db)

		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			routes.SetupUserRoutes(protected, db)
			routes.SetupClubRoutes(protected, db, storage, wsHandler)
			routes.SetupMemberRoutes(protected, db, wsHandler)
			routes.SetupFinanceRoutes(protected, db, wsHandler)
			routes.SetupEventRoutes(protected, db, wsHandler)
			routes.SetupDocumentRoutes(protected, db, storage, wsHandler)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 Server starting on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func scheduleSessionCleaning(db *sql.DB) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	cleanExpiredSessions(db)
	for range ticker.C {
		cleanExpiredSessions(db)
	}
}

func cleanExpiredSessions(db *sql.DB) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < NOW()`)
	if err != nil {
		log.Printf("❌ Session cleanup failed: %v", err)
		return
	}
	rows, _ := result.RowsAffected()

	if _, err := db.ExecContext(ctx, `DELETE FROM email_verifications WHERE expires_at < NOW()`); err != nil {
		log.Printf("❌ Verification cleanup failed: %v", err)
	}

	if rows > 0 {
		log.Printf("🧹 Cleaned %d expired sessions", rows)
	}
}
