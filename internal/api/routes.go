package api

import (
	"net/http"

	"ironhub/gym-admin/internal/domain"
	"ironhub/gym-admin/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires the HTTP surface. Registration lookup and completion are
// public; everything else sits behind JWT auth and the ADMIN role.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	registrationService service.RegistrationService,
	sagaService service.RegistrationSagaService,
	userService service.UserService,
	exerciseService service.ExerciseService,
	routineService service.RoutineService,
	statsService service.StatsService,
) {
	authHandler := NewAuthHandler(authService)
	registrationHandler := NewRegistrationHandler(registrationService, sagaService)
	userHandler := NewUserHandler(userService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	routineHandler := NewRoutineHandler(routineService)
	statsHandler := NewStatsHandler(statsService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			// First-run only; the service refuses once an admin exists.
			authGroup.POST("/bootstrap", authHandler.BootstrapAdmin)
		}

		// The registration handshake runs before the member has any
		// credentials, so these two routes stay public.
		registerGroup := apiV1.Group("/register")
		{
			registerGroup.GET("/:email", registrationHandler.Lookup)
			registerGroup.POST("", registrationHandler.Complete)
		}
	}

	admin := apiV1.Group("")
	admin.Use(authMiddleware, RoleMiddleware(domain.RoleAdmin))
	{
		admin.GET("/stats", statsHandler.GetStats)

		pendingGroup := admin.Group("/pending-users")
		{
			pendingGroup.POST("", userHandler.CreatePendingUser)
			pendingGroup.GET("", userHandler.ListPendingUsers)
			pendingGroup.POST("/:email/approve", userHandler.ApprovePendingUser)
			pendingGroup.DELETE("/:email", userHandler.DeletePendingUser)
		}

		userGroup := admin.Group("/users")
		{
			userGroup.GET("", userHandler.ListUsers)
			userGroup.PATCH("/:id/active", userHandler.SetUserActive)
			userGroup.PATCH("/:id/membership-end", userHandler.SetMembershipEnd)
			userGroup.DELETE("/:id", userHandler.DeleteUser)
		}

		exerciseGroup := admin.Group("/exercises")
		{
			exerciseGroup.POST("", exerciseHandler.CreateExercise)
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
			exerciseGroup.PUT("/:id", exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:id", exerciseHandler.DeleteExercise)
			exerciseGroup.POST("/:id/media", exerciseHandler.UploadMedia)
			exerciseGroup.GET("/:id/media-url", exerciseHandler.GetMediaURL)
		}

		routineGroup := admin.Group("/routines")
		{
			routineGroup.POST("", routineHandler.CreateRoutine)
			routineGroup.GET("", routineHandler.ListRoutines)
			routineGroup.GET("/:id", routineHandler.GetRoutine)
			routineGroup.PUT("/:id", routineHandler.UpdateRoutine)
			routineGroup.DELETE("/:id", routineHandler.DeleteRoutine)
		}

		sagaGroup := admin.Group("/sagas")
		{
			sagaGroup.GET("", registrationHandler.ListFailedSagas)
			sagaGroup.POST("/:id/reconcile", registrationHandler.ReconcileSaga)
		}
	}
}
