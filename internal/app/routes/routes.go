package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/classtrack/classtrack/internal/app/controllers"
	"github.com/classtrack/classtrack/internal/app/models"
	"github.com/classtrack/classtrack/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	classroomController *controllers.ClassroomController,
	leaveRequestController *controllers.LeaveRequestController,
	reportController *controllers.ReportController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// --- Public auth routes ---
	auth := router.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.Refresh)
		auth.POST("/logout", authController.Logout)
	}

	// --- Authenticated routes ---
	authenticated := router.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	classroom := authenticated.Group("/classroom")
	{
		classroom.GET("/:id", classroomController.Get)

		// Student routes
		classroomStudent := classroom.Group("")
		classroomStudent.Use(authMiddleware.RoleRequired(models.RoleStudent))
		{
			classroomStudent.GET("/my-enrolled", classroomController.ListEnrolled)
			classroomStudent.POST("/join", classroomController.Join)
			classroomStudent.DELETE("/leave/:id", classroomController.Leave)
		}

		// Instructor routes
		classroomInstructor := classroom.Group("")
		classroomInstructor.Use(authMiddleware.RoleRequired(models.RoleInstructor))
		{
			classroomInstructor.POST("/create", classroomController.Create)
			classroomInstructor.GET("/my-teaching", classroomController.ListTeaching)
			classroomInstructor.PUT("/:id", classroomController.Update)
			classroomInstructor.DELETE("/:id", classroomController.Delete)
			classroomInstructor.GET("/:id/students", classroomController.ListStudents)
		}
	}

	leaveRequest := authenticated.Group("/leave-request")
	{
		leaveRequest.GET("/:id", leaveRequestController.Get)
		leaveRequest.GET("/evidence/:id", leaveRequestController.Evidence)

		leaveRequestStudent := leaveRequest.Group("")
		leaveRequestStudent.Use(authMiddleware.RoleRequired(models.RoleStudent))
		{
			leaveRequestStudent.POST("/submit", leaveRequestController.Submit)
			leaveRequestStudent.GET("/my-requests", leaveRequestController.ListMine)
			leaveRequestStudent.DELETE("/:id", leaveRequestController.Withdraw)
		}

		leaveRequestInstructor := leaveRequest.Group("")
		leaveRequestInstructor.Use(authMiddleware.RoleRequired(models.RoleInstructor))
		{
			leaveRequestInstructor.GET("/my-all", leaveRequestController.ListAll)
			leaveRequestInstructor.GET("/classroom/:id", leaveRequestController.ListForClassroom)
			leaveRequestInstructor.POST("/:id/approve", leaveRequestController.Approve)
			leaveRequestInstructor.POST("/:id/deny", leaveRequestController.Deny)
		}
	}

	report := authenticated.Group("/report")
	report.Use(authMiddleware.RoleRequired(models.RoleInstructor))
	{
		report.GET("/:id/attendance-report", reportController.AttendanceReport)
	}
}
