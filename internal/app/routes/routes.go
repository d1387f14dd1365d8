package routes

import (
	"net/http"

	"github.com/agentcommand/tracker/internal/app/controllers"
	"github.com/agentcommand/tracker/internal/middleware"
	"github.com/agentcommand/tracker/internal/pkg/validation"
	"github.com/gin-gonic/gin"
)

// Controllers groups every HTTP handler set
type Controllers struct {
	Agent        *controllers.AgentController
	Notification *controllers.NotificationController
	Student      *controllers.StudentController
	Application  *controllers.ApplicationController
	Document     *controllers.DocumentController
	University   *controllers.UniversityController
	Stats        *controllers.StatsController
	Advisor      *controllers.AdvisorController
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	ctrl Controllers,
	authMiddleware *middleware.AuthMiddleware,
	aiLimiter *middleware.RateLimiter,
) {
	validation.RegisterBindingRules()

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	// Signed downloads carry their own token and skip bearer auth
	router.GET("/files/*path", ctrl.Document.DownloadFile)

	// API version group
	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware.BearerAuth())

	v1.POST("/agent", aiLimiter.Limit(), ctrl.Agent.Invoke)
	v1.POST("/notifications", ctrl.Notification.Send)
	v1.GET("/stats", ctrl.Stats.GetStats)

	students := v1.Group("/students")
	{
		students.GET("", ctrl.Student.ListStudents)
		students.POST("", ctrl.Student.CreateStudent)
		students.GET("/:id", ctrl.Student.GetStudent)
		students.PUT("/:id", ctrl.Student.UpdateStudent)
		students.DELETE("/:id", ctrl.Student.DeleteStudent)
		students.POST("/:id/checklist/:itemId/toggle", ctrl.Student.ToggleChecklistItem)
		students.POST("/:id/notify", ctrl.Notification.NotifyStudent)
		students.POST("/:id/report", aiLimiter.Limit(), ctrl.Advisor.GenerateReport)
		students.POST("/:id/brainstorm", aiLimiter.Limit(), ctrl.Advisor.Brainstorm)

		students.GET("/:id/applications", ctrl.Application.ListApplications)
		students.POST("/:id/applications", ctrl.Application.AddApplication)

		students.GET("/:id/documents", ctrl.Document.ListDocuments)
		students.POST("/:id/documents", ctrl.Document.UploadDocument)
	}

	applications := v1.Group("/applications")
	{
		applications.GET("/:id", ctrl.Application.GetApplication)
		applications.PUT("/:id", ctrl.Application.UpdateApplication)
		applications.DELETE("/:id", ctrl.Application.DeleteApplication)
		applications.PATCH("/:id/status", ctrl.Application.SetStatus)
		applications.POST("/:id/checklist/:docId/toggle", ctrl.Application.ToggleDocument)
		applications.POST("/:id/checklist/init", ctrl.Application.InitializeChecklist)
	}

	documents := v1.Group("/documents")
	{
		documents.DELETE("/:id", ctrl.Document.DeleteDocument)
		documents.GET("/:id/url", ctrl.Document.DocumentURL)
	}

	universities := v1.Group("/universities")
	{
		universities.GET("", ctrl.University.ListUniversities)
		universities.POST("", ctrl.University.AddCustomUniversity)
		// AI extraction shares the agent endpoint's budget
		universities.POST("/extract", aiLimiter.Limit(), ctrl.University.ExtractUniversityInfo)
		universities.GET("/:id", ctrl.University.GetUniversity)
	}
}
