package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"masterdata-service/internal/audit"
	"masterdata-service/internal/clients"
	"masterdata-service/internal/config"
	"masterdata-service/internal/handlers"
	"masterdata-service/internal/middleware"
	"masterdata-service/internal/pictures"
	"masterdata-service/internal/repository"
	"masterdata-service/internal/services"
)

// @title Master Data API
// @version 1.0.0
// @description Master data backend for the invoicing platform: reference
// @description tables, bulk imports, company and user management.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.basic BasicAuth

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using system environment variables")
	}

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)

	cfg := config.Load()

	db, err := config.InitDB(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	picStore, err := pictures.NewStore(cfg.PictureDir)
	if err != nil {
		log.WithError(err).Fatal("Failed to prepare picture directory")
	}

	// Repositories
	lookupStore := repository.NewLookupStore(db)
	stateQueries := repository.NewStateQueries(db)
	itemQueries := repository.NewItemQueries(db)
	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)

	// Services
	auditLog := audit.NewLogger(db, log)
	engine := services.NewEngine(lookupStore, auditLog, log)
	refService := services.NewReferenceService(engine, lookupStore, stateQueries, itemQueries, auditLog, log)
	importer := services.NewImporter(engine, lookupStore, auditLog, log)

	refPolicy := services.RefPolicyFail
	if cfg.ImportSubstituteMissingRefs {
		refPolicy = services.RefPolicySubstituteZero
	}
	bulkTargets := services.BulkTargets(refPolicy, cfg.ImportMaxRows)

	notifier := clients.NewNotificationClient(cfg.NotificationServiceURL, log)
	userService := services.NewUserService(userRepo, auditLog, notifier, picStore, log)
	companyService := services.NewCompanyService(companyRepo, picStore, auditLog, log)

	// Handlers
	refHandler := handlers.NewReferenceHandler(refService, log)
	importHandler := handlers.NewImportHandler(importer, bulkTargets, log)
	companyHandler := handlers.NewCompanyHandler(companyService, log)
	userHandler := handlers.NewUserHandler(userService, log)
	healthHandler := handlers.NewHealthHandler(db)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.BasicAuth(cfg.AuthUser, cfg.AuthPassword))

	// Health check endpoints (no auth required)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	api := router.Group("/api")
	{
		// Reference tables
		api.POST("/SaveCountry", refHandler.SaveCountry)
		api.GET("/GetCountries", refHandler.GetCountries)
		api.GET("/countries/:id", refHandler.GetCountry)
		api.DELETE("/countries/:id", refHandler.DeleteCountry)

		api.POST("/SaveState", refHandler.SaveState)
		api.GET("/GetStates", refHandler.GetStates)
		api.GET("/GetStates/:countryid", refHandler.GetStatesByCountry)
		api.GET("/GetAllStates", refHandler.GetStates)
		api.GET("/states/:id", refHandler.GetState)
		api.DELETE("/states/:id", refHandler.DeleteState)

		api.POST("/SaveBaseCur", refHandler.SaveBaseCurrency)
		api.GET("/GetBaseCur", refHandler.GetBaseCurrencies)
		api.GET("/basecurrencies/:id", refHandler.GetBaseCurrency)
		api.DELETE("/basecurrencies/:id", refHandler.DeleteBaseCurrency)

		api.POST("/SaveCurrency", refHandler.SaveCurrency)
		api.GET("/GetCurrencies", refHandler.GetCurrencies)
		api.GET("/GetCurrencies/:compid", refHandler.GetCurrenciesByCompany)
		api.GET("/currencies/:id", refHandler.GetCurrency)
		api.DELETE("/currencies/:id", refHandler.DeleteCurrency)

		api.POST("/SaveHSNCode", refHandler.SaveHSNCode)
		api.GET("/GetHSNCodes", refHandler.GetHSNCodes)
		api.GET("/hsncodes/:id", refHandler.GetHSNCode)
		api.DELETE("/hsncodes/:id", refHandler.DeleteHSNCode)

		api.POST("/SaveBusType", refHandler.SaveBusinessType)
		api.GET("/GetBusTypes", refHandler.GetBusinessTypes)
		api.GET("/bustypes/:id", refHandler.GetBusinessType)
		api.DELETE("/bustypes/:id", refHandler.DeleteBusinessType)

		api.POST("/SaveIndType", refHandler.SaveIndustryType)
		api.GET("/GetIndTypes", refHandler.GetIndustryTypes)
		api.GET("/indtypes/:id", refHandler.GetIndustryType)
		api.DELETE("/indtypes/:id", refHandler.DeleteIndustryType)

		api.POST("/SaveLang", refHandler.SaveLanguage)
		api.GET("/GetLangs", refHandler.GetLanguages)
		api.GET("/languages/:id", refHandler.GetLanguage)
		api.DELETE("/languages/:id", refHandler.DeleteLanguage)

		api.POST("/SaveDateFormat", refHandler.SaveDateFormat)
		api.GET("/GetDateFormats", refHandler.GetDateFormats)
		api.GET("/dateformats/:id", refHandler.GetDateFormat)
		api.DELETE("/dateformats/:id", refHandler.DeleteDateFormat)

		api.POST("/SaveSalutation", refHandler.SaveSalutation)
		api.GET("/GetSalutations", refHandler.GetSalutations)
		api.GET("/salutations/:id", refHandler.GetSalutation)
		api.DELETE("/salutations/:id", refHandler.DeleteSalutation)

		api.POST("/SaveGSTTreat", refHandler.SaveGSTTreatment)
		api.GET("/GetGSTTreats", refHandler.GetGSTTreatments)
		api.GET("/gsttreatments/:id", refHandler.GetGSTTreatment)
		api.DELETE("/gsttreatments/:id", refHandler.DeleteGSTTreatment)

		api.POST("/SaveFiscalYear", refHandler.SaveFiscalYear)
		api.GET("/GetFiscalYears", refHandler.GetFiscalYears)
		api.GET("/fiscalyears/:id", refHandler.GetFiscalYear)
		api.DELETE("/fiscalyears/:id", refHandler.DeleteFiscalYear)

		api.POST("/SaveItem", refHandler.SaveItem)
		api.GET("/GetItemList", refHandler.GetItemList)
		api.GET("/GetItemDetails", refHandler.GetItemDetails)
		api.DELETE("/items/:id", refHandler.DeleteItem)

		// Bulk imports
		api.POST("/SaveBulkCountries", importHandler.SaveBulkCountries)
		api.POST("/SaveBulkStates", importHandler.SaveBulkStates)
		api.POST("/SaveBulkBaseCur", importHandler.SaveBulkBaseCur)
		api.POST("/SaveBulkHSNCode", importHandler.SaveBulkHSNCode)
		api.POST("/SaveBulkBusType", importHandler.SaveBulkBusType)
		api.POST("/SaveBulkIndType", importHandler.SaveBulkIndType)
		api.POST("/SaveBulkLang", importHandler.SaveBulkLang)
		api.POST("/SaveBulkGSTTreat", importHandler.SaveBulkGSTTreat)
		api.GET("/import/template/:entity", importHandler.Template)

		// Company
		api.POST("/SaveCompany", companyHandler.SaveCompany)
		api.PUT("/UpdComp", companyHandler.SaveCompany)
		api.GET("/GetCompanyDetails/:id", companyHandler.GetCompany)
		api.GET("/companies/:id", companyHandler.GetCompany)
		api.POST("/companies/:id/logo", companyHandler.SaveCompanyLogo)

		// Users
		api.POST("/SaveUser", userHandler.SaveUser)
		api.PUT("/UpdateUserDet", userHandler.SaveUser)
		api.POST("/CheckCred", userHandler.CheckCred)
		api.GET("/CheckCred/:userind/:password", userHandler.CheckCredPath)
		api.POST("/UpdatePassword", userHandler.UpdatePassword)
		api.POST("/SaveUserRole", userHandler.SaveUserRole)
		api.GET("/GetUserDet/:id", userHandler.GetUser)
		api.GET("/GetUserDetForHeader/:id", userHandler.GetUserHeader)
		api.GET("/users/:id", userHandler.GetUser)
		api.POST("/users/:id/picture", userHandler.SaveUserPicture)
		api.GET("/GetUserList/:compid", userHandler.GetUserList)
		api.GET("/GetUsers", userHandler.GetUsers)
		api.GET("/GetRoles", userHandler.GetRoles)
		api.POST("/SendOTP", userHandler.SendOTP)
		api.POST("/SendEmailOTP", userHandler.SendEmailOTP)
		api.POST("/SendMobileOTP", userHandler.SendMobileOTP)
		api.POST("/VerifyOTP", userHandler.VerifyOTP)
		api.POST("/VerifyOTP/:otpType/:userid/:otp", userHandler.VerifyOTPPath)
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.WithField("port", cfg.Port).Info("Master data service starting")
		if err := router.Run(":" + cfg.Port); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-quit
	log.Info("Master data service stopped")
}
