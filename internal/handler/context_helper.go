package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/planlabs/planner-api/internal/middleware"
	"github.com/planlabs/planner-api/internal/models"
)

func currentClaims(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}
