package http

import "github.com/gin-gonic/gin"

// Register mounts the billing routes on a router group.
func Register(rg *gin.RouterGroup, h *Handler) {
	rg.GET("/proyectos", h.list)
	rg.POST("/proyectos", h.create)
	rg.PUT("/proyectos/:id", h.update)
	rg.DELETE("/proyectos/:id", h.delete)
	rg.POST("/proyectos/edit-gate", h.editGate)
}
