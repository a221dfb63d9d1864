package routes

import (
	"time"

	"github.com/Evarmedia/jumbly-BE-sub000/app"
	"github.com/Evarmedia/jumbly-BE-sub000/controllers"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	s := controllers.GetSrv(a)
	authCtl := controllers.NewAuthController(s)
	userCtl := controllers.NewUserController(s)
	itemCtl := controllers.NewItemController(s)
	projectCtl := controllers.NewProjectController(s)
	txnCtl := controllers.NewTransactionController(s)
	notifCtl := controllers.NewNotificationController(s)
	fbCtl := controllers.NewFeedbackController(s)

	authMW := app.AuthRequired(a.Tokens, a.AppSessions(), s.Repo)
	adminMW := app.AdminOnly()
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ------------------------------
	// Auth
	// ------------------------------
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", authCtl.Login)
	}
	authProtected := auth.Group("", authMW, seenMW)
	{
		authProtected.POST("/register", adminMW, authCtl.Register)
		authProtected.POST("/logout", authCtl.Logout)
		authProtected.GET("/whoami", authCtl.Whoami)
	}

	// ------------------------------
	// User admin
	// ------------------------------
	users := r.Group("/api/users", authMW, adminMW)
	{
		users.GET("", userCtl.ListUsers) // ?q=&page=&size=
		users.GET("/:id", userCtl.GetUser)
		users.DELETE("/:id", userCtl.DeleteUser)
	}

	// ------------------------------
	// Catalog
	// ------------------------------
	items := r.Group("/api/items", authMW, seenMW)
	{
		items.GET("", itemCtl.ListItems)
		items.GET("/:id", itemCtl.GetItem)
		items.POST("", adminMW, itemCtl.CreateItem)
		items.PUT("/:id", adminMW, itemCtl.UpdateItem)
		items.DELETE("/:id", adminMW, itemCtl.DeleteItem)
	}

	projects := r.Group("/api/projects", authMW, seenMW)
	{
		projects.GET("", projectCtl.ListProjects)
		projects.GET("/:id", projectCtl.GetProject)
		projects.GET("/:id/inventory", projectCtl.GetProjectInventory)
		projects.POST("", adminMW, projectCtl.CreateProject)
	}

	// ------------------------------
	// Allocation ledger
	// ------------------------------
	txns := r.Group("/api/transactions", authMW, seenMW)
	{
		txns.POST("/borrow", txnCtl.Borrow)
		txns.POST("/return", txnCtl.Return)
		txns.GET("", txnCtl.ListTransactions) // ?item_id=&project_id=&action=&page=&size=
		txns.GET("/reconcile", adminMW, txnCtl.Reconcile)
		txns.GET("/:transaction_id", txnCtl.GetTransaction)
	}

	// ------------------------------
	// Peripheral
	// ------------------------------
	notifs := r.Group("/api/notifications", authMW, seenMW)
	{
		notifs.GET("", notifCtl.ListNotifications) // ?unread=true&page=&size=
		notifs.PUT("/:id/read", notifCtl.MarkRead)
	}

	feedback := r.Group("/api/feedback", authMW, seenMW)
	{
		feedback.POST("", fbCtl.CreateFeedback)
		feedback.GET("", adminMW, fbCtl.ListFeedback)
	}
}
