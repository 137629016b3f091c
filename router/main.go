package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/thats-my-college/config"
	"github.com/sahilchouksey/thats-my-college/handlers"
	admission_handlers "github.com/sahilchouksey/thats-my-college/handlers/admission"
	auth_handlers "github.com/sahilchouksey/thats-my-college/handlers/auth"
	callback_handlers "github.com/sahilchouksey/thats-my-college/handlers/callback"
	college_handlers "github.com/sahilchouksey/thats-my-college/handlers/college"
	course_handlers "github.com/sahilchouksey/thats-my-college/handlers/course"
	user_handlers "github.com/sahilchouksey/thats-my-college/handlers/users"
	"github.com/sahilchouksey/thats-my-college/model"
	"github.com/sahilchouksey/thats-my-college/services"
	"github.com/sahilchouksey/thats-my-college/utils/middleware"
	"go.uber.org/zap"
)

// Dependencies is everything the route table needs. BruteForce may be nil
// when Redis is not configured.
type Dependencies struct {
	Config     *config.Config
	Log        *zap.Logger
	DB         handlers.Pinger
	BruteForce *middleware.BruteForceProtection
	Services   *services.Set
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	log := deps.Log
	svc := deps.Services

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    deps.Config.AllowedOrigins,
		APIKeyHeader:      deps.Config.APIKeyHeader,
		RateLimitRequests: deps.Config.RateLimitRequests,
		RateLimitWindow:   deps.Config.RateLimitWindow,
	}, log)

	apiKey := middleware.NewAPIKeyGuard(deps.Config.APIKeyHeader, deps.Config.APIKey).Handler()
	authMW := middleware.NewAuthMiddleware(svc.Auth, log)
	token := authMW.Required()
	admin := authMW.RequireAdmin()
	superAdmin := authMW.RequireRoles(model.RoleSuperAdmin)
	checkLock := deps.BruteForce.CheckLock()

	healthHandler := handlers.NewHealthHandler(deps.DB, log)
	authHandler := auth_handlers.NewAuthHandler(svc.Auth, deps.BruteForce, log)
	userHandler := user_handlers.NewUserHandler(svc.Users, svc.Auth, authMW, log)
	collegeHandler := college_handlers.NewCollegeHandler(svc.Colleges, authMW, log)
	courseHandler := course_handlers.NewCourseHandler(svc.Courses, authMW, log)
	admissionHandler := admission_handlers.NewAdmissionHandler(svc.Admissions, authMW, log)
	callbackHandler := callback_handlers.NewCallbackHandler(svc.Callbacks, authMW, log)

	app.Get("/ping", healthHandler.CheckHealth)
	app.Get("/metrics", middleware.MetricsHandler())

	api := app.Group("/api")

	// Authentication
	authRoutes := api.Group("/auth")
	authRoutes.Post("/", apiKey, checkLock, authHandler.Login)
	authRoutes.Post("/logout", token, authHandler.Logout)

	api.Post("/admin/login", apiKey, checkLock, authHandler.AdminLogin)

	// Users
	users := api.Group("/users", apiKey)
	users.Post("/", userHandler.Signup)
	users.Post("/oauth-login", userHandler.OAuthLogin)
	users.Get("/", token, admin, userHandler.ListUsers)
	users.Get("/email/:email", token, admin, userHandler.GetUserByEmail)
	users.Patch("/role/update", token, superAdmin, userHandler.UpdateRole)
	users.Patch("/password/update", token, userHandler.UpdatePassword)
	users.Get("/:userId", token, userHandler.GetUser)
	users.Patch("/:userId", token, userHandler.UpdateUser)
	users.Delete("/:userId", token, admin, userHandler.DeleteUser)

	// Colleges are public to read
	colleges := api.Group("/college")
	colleges.Post("/", token, admin, collegeHandler.CreateCollege)
	colleges.Get("/", collegeHandler.ListColleges)
	colleges.Get("/:collegeId", collegeHandler.GetCollege)
	colleges.Patch("/:collegeId", token, admin, collegeHandler.UpdateCollege)
	colleges.Delete("/:collegeId", token, admin, collegeHandler.DeleteCollege)

	// Courses; literal segments go before /:courseId
	courses := api.Group("/courses", apiKey)
	courses.Post("/", token, admin, courseHandler.CreateCourse)
	courses.Get("/", courseHandler.ListCourses)
	courses.Get("/get-all/college-details", courseHandler.ListWithColleges)
	courses.Get("/college/:collegeId", courseHandler.GetCourseByCollege)
	courses.Patch("/college/:collegeId", token, admin, courseHandler.UpdateCourseByCollege)
	courses.Delete("/college/:collegeId", token, admin, courseHandler.DeleteCourseByCollege)
	courses.Get("/:courseId", courseHandler.GetCourse)
	courses.Patch("/:courseId", token, admin, courseHandler.UpdateCourse)
	courses.Delete("/:courseId", token, admin, courseHandler.DeleteCourse)

	// Admission applications
	admissions := api.Group("/admission-application", apiKey, token)
	admissions.Post("/", admissionHandler.CreateApplication)
	admissions.Get("/", admin, admissionHandler.ListApplications)
	admissions.Get("/user/:userId", admissionHandler.ListUserApplications)
	admissions.Patch("/update-status/:id", admin, admissionHandler.UpdateStatus)
	admissions.Get("/:id", admissionHandler.GetApplication)
	admissions.Patch("/:id", admissionHandler.UpdateApplication)
	admissions.Delete("/:id", admissionHandler.DeleteApplication)

	// Callback requests
	callbacks := api.Group("/callback-requests", token)
	callbacks.Post("/", callbackHandler.CreateCallback)
	callbacks.Get("/:userId", admin, callbackHandler.ListCallbacks)
	callbacks.Delete("/:userId", admin, callbackHandler.DeleteCallbacks)
}
