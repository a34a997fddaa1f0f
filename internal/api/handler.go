package api

import (
	"fitmarket/internal/data"
	"fitmarket/internal/domain"
	"fitmarket/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	db  *data.DB
	hub *Hub
	log *zap.Logger
}

func NewHandler(db *data.DB, hub *Hub, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{db: db, hub: hub, log: log}
}

func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.ContextUserID)
}

func currentRole(c *gin.Context) domain.UserRole {
	return domain.UserRole(c.GetString(middleware.ContextRole))
}

func isAdmin(c *gin.Context) bool {
	return currentRole(c) == domain.RoleAdmin
}
