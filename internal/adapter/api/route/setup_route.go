package route

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/rmcastle/fieldops/internal/adapter/api/controller"
	"github.com/rmcastle/fieldops/pkg/auth"
)

// Controllers bundles everything the router needs
type Controllers struct {
	NLU       *controller.NLUController
	Assistant *controller.AssistantController
	Auth      *controller.AuthController
}

// SetupRoutes registers every route on the router
func SetupRoutes(router *gin.Engine, ctls Controllers) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")

	v1.POST("/auth/login", ctls.Auth.Login)

	nlu := v1.Group("/nlu")
	{
		nlu.POST("/classify-intent", ctls.NLU.ClassifyIntent)
		nlu.POST("/extract-params", ctls.NLU.ExtractParams)
		nlu.POST("/parse-command", ctls.NLU.ParseCommand)
	}

	assistant := v1.Group("/assistant")
	assistant.Use(auth.JWTAuthMiddleware())
	{
		assistant.POST("/message", ctls.Assistant.ProcessMessage)
		assistant.GET("/history", ctls.Assistant.GetHistory)
		assistant.DELETE("/history", ctls.Assistant.DeleteHistory)
	}
}
