package v1

import (
	"net/http"

	"github.com/Negibkaya/Mias-sema/config"
	"github.com/Negibkaya/Mias-sema/internal/delivery/http/middleware"
	"github.com/Negibkaya/Mias-sema/internal/delivery/http/response"
	"github.com/Negibkaya/Mias-sema/internal/domain"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC    domain.AuthUsecase
	UserUC    domain.UserUsecase
	ProjectUC domain.ProjectUsecase
	MatchUC   domain.MatchUsecase
	Config    *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.CORSMiddleware())
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	NewAuthHandler(v1, deps.AuthUC)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Config.JWTSecret, deps.AuthUC))
	{
		NewUserHandler(v1, protected, deps.UserUC)
		NewProjectHandler(v1, protected, deps.ProjectUC)
		NewMatchHandler(protected, deps.MatchUC)
	}

	return r
}
