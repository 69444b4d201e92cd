package handler

import (
	"github.com/grupoevolution/tiktokconteudos/internal/middleware"
	"github.com/grupoevolution/tiktokconteudos/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Services are the collaborators the HTTP surface needs.
type Services struct {
	Auth      *service.AuthService
	Team      *service.TeamService
	Catalog   *service.CatalogService
	Plans     *service.PlanService
	Publisher *service.Publisher
	Export    *service.ExportService
	Employee  *service.EmployeeService
	Backup    *service.BackupService
}

// NewRouter wires every API route onto a fresh engine.
func NewRouter(s Services, jwtSecret []byte) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{"X-New-Token", middleware.HeaderRequestID, "Content-Disposition"},
	}))

	authH := NewAuthHandler(s.Auth, jwtSecret)
	teamH := NewTeamHandler(s.Team)
	productH := NewProductHandler(s.Catalog)
	distH := NewDistributionHandler(s.Plans, s.Publisher, s.Export)
	publicH := NewPublicHandler(s.Employee)
	backupH := NewBackupHandler(s.Backup)

	r.POST("/api/auth/login", authH.Login)
	r.GET("/api/auth/verify", authH.Verify)

	pub := r.Group("/api/public/employee/:name")
	pub.GET("/today", publicH.Today)
	pub.POST("/download/:itemId", publicH.Download)
	pub.POST("/complete/:itemId", publicH.Complete)
	pub.GET("/history", publicH.History)

	api := r.Group("/api", middleware.JWTAuth(jwtSecret))

	team := api.Group("/team")
	team.GET("", teamH.List)
	team.POST("", teamH.Create)
	team.PUT("/all/products-per-day", teamH.SetAllQuotas)
	team.PUT("/:id", teamH.Update)
	team.DELETE("/:id", teamH.Delete)
	team.GET("/:id/stats", teamH.Stats)

	products := api.Group("/products")
	products.GET("", productH.List)
	products.POST("", productH.Create)
	products.GET("/stats", productH.Stats)
	products.PUT("/:id", productH.Update)
	products.POST("/:id/validate", productH.Validate)
	products.DELETE("/:id", productH.Delete)

	dist := api.Group("/distribution")
	dist.GET("", distH.List)
	dist.GET("/active", distH.Active)
	dist.POST("/generate", distH.Generate)
	dist.POST("/publish/:id", distH.Publish)
	dist.GET("/:id/export", distH.Export)

	backup := api.Group("/backup")
	backup.GET("/export", backupH.Export)
	backup.POST("/import", backupH.Import)

	return r
}
