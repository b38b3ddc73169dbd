package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/quangdng/edumart/config"
	"github.com/quangdng/edumart/internal/dto"
	"github.com/rs/zerolog/log"
)

const (
	ContextUserIDKey = "userID"
	ContextRoleKey   = "userRole"
)

// Auth validates the bearer token and stores the resolved learner id in the
// request context. Token issuance is the auth provider's job; this service
// only verifies and extracts.
func Auth(cfg *config.Config) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing or malformed Authorization header"})
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(cfg.Auth.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			log.Warn().Err(err).Msg("Auth: token validation failed")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid or expired token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid token claims"})
			return
		}

		userID, err := subjectToUserID(claims)
		if err != nil {
			log.Warn().Err(err).Msg("Auth: cannot resolve user id from token subject")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid token subject"})
			return
		}

		ctx.Set(ContextUserIDKey, userID)
		if role, ok := claims["role"].(string); ok {
			ctx.Set(ContextRoleKey, role)
		}
		ctx.Next()
	}
}

// RequireAdmin rejects requests whose token does not carry the admin role.
func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.GetString(ContextRoleKey) != "admin" {
			ctx.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "Admin access required"})
			return
		}
		ctx.Next()
	}
}

// CurrentUserID returns the learner id the Auth middleware stored.
func CurrentUserID(ctx *gin.Context) uint {
	return ctx.GetUint(ContextUserIDKey)
}

func subjectToUserID(claims jwt.MapClaims) (uint, error) {
	switch sub := claims["sub"].(type) {
	case string:
		id, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("non-numeric subject %q", sub)
		}
		return uint(id), nil
	case float64:
		return uint(sub), nil
	default:
		return 0, fmt.Errorf("missing subject claim")
	}
}
