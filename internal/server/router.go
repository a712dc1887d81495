package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"taskboard/internal/auth"
	"taskboard/internal/handlers"
	"taskboard/internal/middleware"
	"taskboard/internal/ratelimit"
	"taskboard/internal/services"

	_ "taskboard/internal/docs" // swagger docs
)

// Deps is everything the router needs from the process.
type Deps struct {
	DB          *gorm.DB
	Tokens      *auth.TokenManager
	Limiter     ratelimit.Limiter
	CORSOrigins []string
}

// NewRouter builds the services and handlers on top of deps and mounts every route.
func NewRouter(deps Deps) *gin.Engine {
	limiter := deps.Limiter
	if limiter == nil {
		limiter = ratelimit.Noop{}
	}

	// Services
	db := deps.DB
	userService := services.NewUserService(db)
	projectService := services.NewProjectService(db)
	taskService := services.NewTaskService(db)
	profileService := services.NewProfileService(db)
	settingsService := services.NewSettingsService(db)
	notificationService := services.NewNotificationService(db)
	eventService := services.NewCalendarEventService(db)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService, deps.Tokens)
	projectHandler := handlers.NewProjectHandler(projectService, taskService, auditService)
	taskHandler := handlers.NewTaskHandler(taskService, auditService)
	profileHandler := handlers.NewProfileHandler(profileService)
	settingsHandler := handlers.NewSettingsHandler(settingsService, auditService)
	notificationHandler := handlers.NewNotificationHandler(notificationService, auditService)
	eventHandler := handlers.NewCalendarEventHandler(eventService, auditService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(deps.CORSOrigins))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public routes
	router.POST("/register", authHandler.Register)
	router.POST("/login", middleware.LoginRateLimit(limiter), authHandler.Login)
	router.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := router.Group("/")
	protected.Use(middleware.AuthMiddleware(deps.Tokens))

	protected.GET("/me", authHandler.Me)

	projects := protected.Group("/projects")
	projects.POST("", projectHandler.CreateProject)
	projects.GET("", projectHandler.GetUserProjects)
	projects.GET("/:id", projectHandler.GetProjectByID)
	projects.PUT("/:id", projectHandler.UpdateProject)
	projects.DELETE("/:id", projectHandler.DeleteProject)
	projects.GET("/:id/tasks", projectHandler.ListProjectTasks)

	tasks := protected.Group("/tasks")
	tasks.POST("", taskHandler.CreateTask)
	tasks.GET("", taskHandler.GetUserTasks)
	tasks.GET("/:id", taskHandler.GetTaskByID)
	tasks.PUT("/:id", taskHandler.UpdateTask)
	tasks.DELETE("/:id", taskHandler.DeleteTask)

	protected.GET("/user_profile", profileHandler.GetProfile)
	protected.POST("/user_profile", profileHandler.UpdateProfile)
	protected.GET("/user_settings", settingsHandler.GetSettings)
	protected.POST("/user_settings", settingsHandler.UpdateSettings)

	notifications := protected.Group("/notifications")
	notifications.GET("", notificationHandler.GetUserNotifications)
	notifications.POST("", notificationHandler.CreateNotification)
	notifications.PUT("/read_all", notificationHandler.MarkAllRead)
	notifications.PUT("/:id", notificationHandler.UpdateNotification)
	notifications.DELETE("/:id", notificationHandler.DeleteNotification)

	events := protected.Group("/calendar_events")
	events.GET("", eventHandler.GetUserEvents)
	events.POST("", eventHandler.CreateEvent)
	events.GET("/:id", eventHandler.GetEventByID)
	events.PUT("/:id", eventHandler.UpdateEvent)
	events.DELETE("/:id", eventHandler.DeleteEvent)

	return router
}
