package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/joblinkhq/joblink/internal/api/handlers"
	"github.com/joblinkhq/joblink/internal/api/middleware"
)

type Deps struct {
	User         *handlers.UserHandler
	Company      *handlers.CompanyHandler
	Job          *handlers.JobHandler
	Application  *handlers.ApplicationHandler
	Notification *handlers.NotificationHandler
	WS           *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	v1 := r.Group("/api/v1")

	// Open endpoints
	user := v1.Group("/user")
	user.POST("/register", d.User.Register)
	user.POST("/login", d.User.Login)
	user.GET("/logout", d.User.Logout)

	job := v1.Group("/job")
	job.GET("/get", d.Job.List)
	job.GET("/get/:id", d.Job.Get)

	// Protected endpoints
	auth := v1.Group("/")
	auth.Use(middleware.Auth())

	auth.POST("/user/profile/update", d.User.UpdateProfile)
	auth.GET("/user/workers", middleware.RequireRecruiter(), d.User.ListWorkers)

	company := auth.Group("/company")
	company.POST("/register", middleware.RequireRecruiter(), d.Company.Register)
	company.GET("/get", middleware.RequireRecruiter(), d.Company.ListMine)
	company.GET("/get/:id", d.Company.Get)
	company.PUT("/update/:id", middleware.RequireRecruiter(), d.Company.Update)

	auth.POST("/job/post", middleware.RequireRecruiter(), d.Job.Post)
	auth.GET("/job/getadminjobs", middleware.RequireRecruiter(), d.Job.ListMine)
	auth.PUT("/job/update/:id", middleware.RequireRecruiter(), d.Job.Update)

	app := auth.Group("/application")
	app.GET("/apply/:id", middleware.RequireWorker(), d.Application.Apply)
	app.GET("/get", middleware.RequireWorker(), d.Application.ListMine)
	app.GET("/:id/applicants", middleware.RequireRecruiter(), d.Application.Applicants)
	app.POST("/status/:id/update", middleware.RequireRecruiter(), d.Application.UpdateStatus)
	app.GET("/applications/accepted", middleware.RequireRecruiter(), d.Application.ListAccepted)
	app.POST("/create-checkout-session/:id", middleware.RequireRecruiter(), d.Application.CreateCheckoutSession)
	app.PUT("/applications/mark-paid/:id", d.Application.MarkPaid)
	app.POST("/rate/:id", middleware.RequireWorker(), d.Application.Rate)
	app.POST("/feedback-to-applicant/:id", middleware.RequireRecruiter(), d.Application.Feedback)

	notifications := auth.Group("/notifications", middleware.RequireWorker())
	notifications.GET("", d.Notification.List)
	notifications.DELETE("/:id/read", d.Notification.Dismiss)

	// WebSocket
	auth.GET("/ws/notifications", d.WS.NotificationsWS)
}
