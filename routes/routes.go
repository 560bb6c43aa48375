package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/chessmanager/club-api/handlers"
	"github.com/chessmanager/club-api/services"
)

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, db *sql.DB) {
	authHandler := &handlers.AuthHandler{DB: db, Email: services.NewEmailService()}

	rg.POST("/auth/signup", authHandler.Signup)
	rg.POST("/auth/login", authHandler.Login)
	rg.POST("/auth/refresh", authHandler.Refresh)
	rg.POST("/auth/logout", authHandler.Logout)
	rg.GET("/auth/verify", authHandler.VerifyEmail)
}

// SetupUserRoutes sets up protected user routes.
func SetupUserRoutes(rg *gin.RouterGroup, db *sql.DB) {
	userHandler := &handlers.UserHandler{DB: db}

	rg.GET("/user/profile", userHandler.GetProfile)
	rg.PUT("/user/profile", userHandler.UpdateProfile)
	rg.POST("/user/password", userHandler.ChangePassword)
	rg.POST("/user/2fa/setup", userHandler.SetupTOTP)
	rg.POST("/user/2fa/verify", userHandler.VerifyTOTP)
	rg.POST("/user/2fa/disable", userHandler.DisableTOTP)
	rg.DELETE("/user/account", userHandler.DeleteAccount)
}

// SetupClubRoutes sets up the club lifecycle and theming routes.
func SetupClubRoutes(rg *gin.RouterGroup, db *sql.DB, storage *services.StorageService, ws *handlers.WSHandler) {
	clubHandler := &handlers.ClubHandler{
		DB:      db,
		AI:      services.NewAIService(),
		Storage: storage,
		WS:      ws,
	}

	rg.GET("/club", clubHandler.GetMyClub)
	rg.POST("/club", clubHandler.CreateClub)
	rg.PATCH("/club/theme", clubHandler.UpdateTheme)
	rg.POST("/club/design", clubHandler.GenerateDesign)
	rg.POST("/club/logo", clubHandler.UploadLogo)
}

// SetupMemberRoutes sets up roster management, including the AI scanner.
func SetupMemberRoutes(rg *gin.RouterGroup, db *sql.DB, ws *handlers.WSHandler) {
	memberHandler := &handlers.MemberHandler{
		DB:     db,
		Roster: services.NewRosterService(db),
		AI:     services.NewAIService(),
		WS:     ws,
	}

	rg.GET("/members", memberHandler.ListMembers)
	rg.GET("/members/stats", memberHandler.GetStats)
	rg.POST("/members", memberHandler.CreateMember)
	rg.POST("/members/scan", memberHandler.ScanRoster)
	rg.PUT("/members/:id", memberHandler.UpdateMember)
	rg.POST("/members/:id/license", memberHandler.ToggleLicense)
	rg.DELETE("/members/:id", memberHandler.DeleteMember)
}

// SetupFinanceRoutes sets up sponsors, expenses and the summary.
func SetupFinanceRoutes(rg *gin.RouterGroup, db *sql.DB, ws *handlers.WSHandler) {
	financeHandler := &handlers.FinanceHandler{DB: db, WS: ws}

	rg.GET("/finance/summary", financeHandler.GetSummary)
	rg.GET("/finance/categories", financeHandler.ListExpenseCategories)

	rg.GET("/sponsors", financeHandler.ListSponsors)
	rg.POST("/sponsors", financeHandler.CreateSponsor)
	rg.DELETE("/sponsors/:id", financeHandler.DeleteSponsor)

	rg.GET("/expenses", financeHandler.ListExpenses)
	rg.POST("/expenses", financeHandler.CreateExpense)
	rg.DELETE("/expenses/:id", financeHandler.DeleteExpense)
}

// SetupEventRoutes sets up the calendar and event management routes.
func SetupEventRoutes(rg *gin.RouterGroup, db *sql.DB, ws *handlers.WSHandler) {
	eventHandler := &handlers.EventHandler{DB: db, WS: ws}

	rg.GET("/events", eventHandler.ListEvents)
	rg.GET("/events/upcoming", eventHandler.GetUpcoming)
	rg.GET("/events/calendar", eventHandler.GetCalendar)
	rg.POST("/events/match", eventHandler.CreateMatch)
	rg.POST("/events", eventHandler.CreateEvent)
	rg.DELETE("/events/:id", eventHandler.DeleteEvent)
}

// SetupDocumentRoutes sets up the member document vault.
func SetupDocumentRoutes(rg *gin.RouterGroup, db *sql.DB, storage *services.StorageService, ws *handlers.WSHandler) {
	documentHandler := &handlers.DocumentHandler{DB: db, Storage: storage, WS: ws}

	rg.POST("/members/:id/documents/:docType", documentHandler.Upload)
	rg.GET("/members/:id/documents/:docType", documentHandler.Download)
	rg.DELETE("/members/:id/documents/:docType", documentHandler.Delete)
}

// SetupAdminRoutes sets up the X-Admin-Secret maintenance routes.
func SetupAdminRoutes(rg *gin.RouterGroup, db *sql.DB) {
	adminHandler := &handlers.AdminHandler{DB: db}

	rg.POST("/admin/normalize-categories", adminHandler.NormalizeAllCategories)
	rg.POST("/admin/normalize-categories/:id", adminHandler.NormalizeClubCategories)
}
