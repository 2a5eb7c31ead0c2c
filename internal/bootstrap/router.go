package bootstrap

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	billinghttp "github.com/tareas-api/proyectos-billing/internal/billing/http"
)

type RouterDeps struct {
	ServiceName  string
	Version      string
	AllowOrigins []string
	Handler      *billinghttp.Handler
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	if len(dep.AllowOrigins) > 0 {
		corsCfg.AllowOrigins = dep.AllowOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ok":      true,
			"service": dep.ServiceName,
			"version": dep.Version,
		})
	})

	api := r.Group("/api")
	billinghttp.Register(api, dep.Handler)

	return r
}
