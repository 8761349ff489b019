package main

import (
	"context"
	"fmt"

	_ "github.com/franciscosanchezn/gin-users-console/docs" // Import generated docs
	"github.com/franciscosanchezn/gin-users-console/internal/config"
	"github.com/franciscosanchezn/gin-users-console/internal/console"
	"github.com/franciscosanchezn/gin-users-console/internal/controllers"
	"github.com/franciscosanchezn/gin-users-console/internal/middleware"
	"github.com/franciscosanchezn/gin-users-console/internal/services"
	"github.com/franciscosanchezn/gin-users-console/internal/views"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var (
	userService       services.UserService
	usersConsole      *console.Console
	consoleController controllers.ConsoleController
	configuration     *config.Config
)

// @title Users Console
// @version 1.0
// @description Operator console for a remote users REST resource
// @host localhost:8080
// @BasePath /
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration = loadConfig()
	applyLogLevel(configuration.LogLevel)

	// Initialize the users API client and the console components
	userService = services.NewUserService(services.UserServiceConfig{
		BaseURL:   configuration.APIBaseURL,
		HealthURL: configuration.APIHealthURL,
		Timeout:   configuration.APITimeout,
	})
	usersConsole = console.New(userService, console.Options{
		StatusClearAfter: configuration.StatusClearAfter,
		APIRoot:          configuration.APIRoot(),
	})
	consoleController = controllers.NewConsoleController(usersConsole, userService)

	// Initial load, the page still renders if the API is down
	if err := usersConsole.Start(context.Background()); err != nil {
		log.WithError(err).Warn("Initial users load failed")
	}

	// Initialize Gin router
	var router *gin.Engine = setupRouter()

	// Start the server
	log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
	checkPanicErr(router.Run(fmt.Sprintf("%v:%d", configuration.Host, configuration.Port)))
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetLevel(config.LevelForEnvironment(config.GetEnvWithDefault("APP_ENV", "development")))
	if config.GetEnvWithDefault("APP_ENV", "development") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
}

// applyLogLevel sets the level of every package logger.
// The configured level already falls back to the APP_ENV level when LOG_LEVEL is unset.
func applyLogLevel(level string) {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		log.WithField("log_level", level).Warn("Invalid LOG_LEVEL, keeping environment default")
		return
	}
	log.SetLevel(parsed)
	services.SetLogLevel(parsed)
	console.SetLogLevel(parsed)
	controllers.SetLogLevel(parsed)
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	log.Info("Loading configuration from environment variables")
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	log.Infof("Configuration loaded: %s", conf)
	return conf
}

// setupRouter initializes the Gin router and sets up the routes
// It returns the configured router
func setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(log.StandardLogger()))

	tmpl, err := views.Templates()
	checkPanicErr(err)
	router.SetHTMLTemplate(tmpl)

	setupRoutes(router)

	return router
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine) {
	controllers.RegisterRoutes(router, consoleController)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
