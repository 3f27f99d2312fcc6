package router

import (
	"time"

	"masha/api"
	"masha/config"
	_ "masha/docs"
	"masha/middleware"
	"masha/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter builds the gin engine with every route group wired.
func SetupRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	r.Use(CORSMiddleware())
	r.Use(middleware.TokenFromCookie())

	authHandler := api.NewAuthHandler(cfg)

	apiRoutes := r.Group("/api")
	{
		apiRoutes.POST("/login", middleware.LoginRateLimit(10, time.Minute), authHandler.Login)

		// Everything below requires a valid, unrevoked token.
		authorized := apiRoutes.Group("")
		authorized.Use(middleware.JWTAuth())
		admin := middleware.RequireAdmin()
		{
			authorized.POST("/logout", authHandler.Logout)
			authorized.GET("/user", authHandler.CurrentUser)

			marketHandler := api.NewMarketHandler()
			markets := authorized.Group("/markets")
			{
				markets.GET("", marketHandler.List)
				markets.GET("/lastuserupdate", marketHandler.LastUserUpdate)
				markets.GET("/byear", marketHandler.ByYear)
				markets.GET("/:id", marketHandler.Get)
				markets.POST("", admin, marketHandler.Store)
				markets.PUT("/updatemonth/:id", admin, marketHandler.UpdateMonth)
				markets.PUT("/:id", admin, marketHandler.Update)
				markets.DELETE("/massdelete", admin, marketHandler.MassDelete)
				markets.DELETE("/:id", admin, marketHandler.Delete)
			}

			missionHandler := api.NewMissionHandler()
			missions := authorized.Group("/missions")
			{
				missions.GET("", missionHandler.List)
				missions.GET("/lastuserupdate", missionHandler.LastUserUpdate)
				missions.GET("/byear", missionHandler.ByYear)
				missions.GET("/byyearandmonth", missionHandler.ByYearAndMonth)
				missions.GET("/:id", missionHandler.Get)
				missions.POST("", admin, missionHandler.Store)
				missions.PUT("/:id", admin, missionHandler.Update)
				missions.DELETE("/massdelete", admin, missionHandler.MassDelete)
				missions.DELETE("/:id", admin, missionHandler.Delete)
			}

			inhibitHandler := api.NewInhibitHandler()
			inhibits := authorized.Group("/inhibits")
			{
				inhibits.GET("", inhibitHandler.List)
				inhibits.GET("/lastuserupdate", inhibitHandler.LastUserUpdate)
				inhibits.GET("/byear", inhibitHandler.ByYear)
				inhibits.GET("/byyearandmonth", inhibitHandler.ByYearAndMonth)
				inhibits.GET("/:id", inhibitHandler.Get)
				inhibits.POST("", admin, inhibitHandler.Store)
				inhibits.PUT("/:id", admin, inhibitHandler.Update)
				inhibits.DELETE("/massdelete", admin, inhibitHandler.MassDelete)
				inhibits.DELETE("/:id", admin, inhibitHandler.Delete)
			}

			rekemHandler := api.NewRekemAdvancedHandler()
			rekem := authorized.Group("/rekemadvanced")
			{
				rekem.GET("", rekemHandler.List)
				rekem.GET("/lastuserupdate", rekemHandler.LastUserUpdate)
				rekem.GET("/byyearandmonth", rekemHandler.ByYearAndMonth)
				rekem.GET("/:id", rekemHandler.Get)
			}

			emailService := service.NewEmailService(&cfg.Email)
			userHandler := api.NewUserHandler(emailService)
			users := authorized.Group("/users")
			{
				users.GET("", userHandler.List)
				users.GET("/:search_string", userHandler.Search)
				users.POST("", admin, userHandler.Store)
				users.PUT("/:id", admin, userHandler.SetPermission)
				users.DELETE("/:id", admin, userHandler.Delete)
			}

			permissionHandler := api.NewPermissionHandler()
			permissions := authorized.Group("/permissions")
			{
				permissions.GET("", permissionHandler.List)
				permissions.POST("", admin, permissionHandler.Store)
			}

			exportHandler := api.NewExportHandler()
			authorized.GET("/export/excel", admin, exportHandler.Excel)
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware allows cross-origin calls from the web frontend.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
