package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	restaurantIDHeader = "X-Restaurant-ID"
	ctxRestaurantIDKey = "restaurant_id"
)

// RequireRestaurant resolves the tenant for the request. Every engine route is
// scoped to one restaurant; the ID arrives in the X-Restaurant-ID header.
func RequireRestaurant() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(restaurantIDHeader)
		if raw == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "X-Restaurant-ID header required",
			})
			c.Abort()
			return
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid restaurant ID format",
			})
			c.Abort()
			return
		}

		c.Set(ctxRestaurantIDKey, id)
		c.Next()
	}
}

func GetRestaurantID(c *gin.Context) (uuid.UUID, bool) {
	restaurantID, exists := c.Get(ctxRestaurantIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := restaurantID.(uuid.UUID)
	return id, ok
}
