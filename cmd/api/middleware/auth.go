package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/auth"
	"inkwell/dto"
)

const ctxKeyUserID = "user_id"

// RequireAuth verifies the Bearer token and stores the account id on the
// gin context. Requests without a valid token are rejected with 401.
func RequireAuth(jwt *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authenticate(c, jwt)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewAPIErrorResponse(http.StatusUnauthorized, "Authentication required"))
			return
		}
		c.Set(ctxKeyUserID, userID)
		c.Next()
	}
}

// OptionalAuth stores the account id when a valid token is present but
// never rejects the request. Used by routes whose response depends on who
// is asking, like an author's blog listing.
func OptionalAuth(jwt *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := authenticate(c, jwt); ok {
			c.Set(ctxKeyUserID, userID)
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, jwt *auth.JWTManager) (primitive.ObjectID, bool) {
	token, err := auth.ExtractBearerToken(c)
	if err != nil {
		return primitive.NilObjectID, false
	}
	sub, err := jwt.Parse(token)
	if err != nil {
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(sub)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return userID, true
}

// UserID returns the authenticated account id set by RequireAuth or
// OptionalAuth.
func UserID(c *gin.Context) (primitive.ObjectID, bool) {
	v, exists := c.Get(ctxKeyUserID)
	if !exists {
		return primitive.NilObjectID, false
	}
	id, ok := v.(primitive.ObjectID)
	return id, ok
}
