package router

import (
	"time"

	"moneybook/api"
	"moneybook/config"
	"moneybook/database"
	_ "moneybook/docs"
	"moneybook/middleware"
	"moneybook/repository"
	"moneybook/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, log *logrus.Logger) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	// CORS 中间件
	r.Use(CORSMiddleware())

	store := repository.NewGormStore(database.DB)
	ledger := service.NewLedger(store, log)
	generator := service.NewGenerator(store, cfg.Recurring, log)

	// API v1 路由组，令牌由外部认证服务签发
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth())
	if cfg.Recurring.Enabled {
		// 每次请求前补齐当前用户到期的周期流水
		v1.Use(middleware.RecurringCatchUp(generator))
	}
	{
		accountHandler := api.NewAccountHandler()
		accounts := v1.Group("/accounts")
		{
			accounts.POST("", accountHandler.Create)
			accounts.GET("", accountHandler.List)
			accounts.GET("/:id", accountHandler.Get)
			accounts.PUT("/:id", accountHandler.Update)
			accounts.DELETE("/:id", accountHandler.Deactivate)
		}

		categoryHandler := api.NewCategoryHandler()
		categories := v1.Group("/categories")
		{
			categories.GET("", categoryHandler.List)
			categories.POST("", categoryHandler.Create)
			categories.PUT("/:id", categoryHandler.Update)
			categories.DELETE("/:id", categoryHandler.Delete)
		}

		tagHandler := api.NewTagHandler()
		tags := v1.Group("/tags")
		{
			tags.GET("", tagHandler.List)
			tags.POST("", tagHandler.Create)
			tags.DELETE("/:id", tagHandler.Delete)
		}

		// 流水，写操作都经过 Ledger
		transactionHandler := api.NewTransactionHandler(ledger)
		transactions := v1.Group("/transactions")
		{
			transactions.POST("", transactionHandler.Create)
			transactions.GET("", transactionHandler.List)
			transactions.POST("/bulk-delete", transactionHandler.BulkDelete)
			transactions.POST("/bulk-edit", transactionHandler.BulkEdit)
			transactions.GET("/:id", transactionHandler.Get)
			transactions.PUT("/:id", transactionHandler.Update)
			transactions.DELETE("/:id", transactionHandler.Delete)
		}
		v1.POST("/transfers", transactionHandler.Transfer)

		recurringHandler := api.NewRecurringHandler(service.NewRecurrings(store, log), generator)
		recurrings := v1.Group("/recurrings")
		{
			recurrings.POST("", recurringHandler.Create)
			recurrings.GET("", recurringHandler.List)
			recurrings.POST("/run", middleware.RateLimit(10, time.Minute), recurringHandler.Run)
			recurrings.GET("/:id", recurringHandler.Get)
			recurrings.PUT("/:id/active", recurringHandler.SetActive)
			recurrings.DELETE("/:id", recurringHandler.Delete)
		}

		templateHandler := api.NewTemplateHandler(service.NewTemplates(store))
		templates := v1.Group("/templates")
		{
			templates.POST("", templateHandler.Create)
			templates.GET("", templateHandler.List)
			templates.DELETE("/:id", templateHandler.Delete)
			templates.POST("/:id/use", templateHandler.Use)
		}

		debtHandler := api.NewDebtHandler(service.NewDebts(store, log))
		debts := v1.Group("/debts")
		{
			debts.POST("", debtHandler.Create)
			debts.GET("", debtHandler.List)
			debts.GET("/:id", debtHandler.Get)
			debts.PUT("/:id", debtHandler.Update)
			debts.DELETE("/:id", debtHandler.Delete)
			debts.POST("/:id/payments", debtHandler.Pay)
		}

		goalHandler := api.NewGoalHandler()
		goals := v1.Group("/goals")
		{
			goals.POST("", goalHandler.Create)
			goals.GET("", goalHandler.List)
			goals.PUT("/:id", goalHandler.Update)
			goals.DELETE("/:id", goalHandler.Delete)
			goals.POST("/:id/contribute", goalHandler.Contribute)
		}

		budgetHandler := api.NewBudgetHandler()
		budgets := v1.Group("/budgets")
		{
			budgets.POST("", budgetHandler.Create)
			budgets.GET("", budgetHandler.List)
			budgets.DELETE("/:id", budgetHandler.Delete)
		}

		plannedHandler := api.NewPlannedHandler()
		planned := v1.Group("/planned")
		{
			planned.POST("", plannedHandler.Create)
			planned.GET("", plannedHandler.List)
			planned.POST("/:id/complete", plannedHandler.Complete)
			planned.DELETE("/:id", plannedHandler.Delete)
		}

		reportHandler := api.NewReportHandler()
		reports := v1.Group("/reports")
		{
			reports.GET("/summary", reportHandler.Summary)
			reports.GET("/categories", reportHandler.ByCategory)
			reports.GET("/trend", reportHandler.Trend)
			reports.GET("/export", reportHandler.Export)
		}
	}

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, X-Request-ID, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, Content-Disposition")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
