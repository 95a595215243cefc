package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"gigexecs-backend/internal/config"
	"gigexecs-backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	UserIDKey      = "user_id"
	AccessTokenKey = "access_token"
)

func unauthorized(c *gin.Context, err, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: err, Message: message})
}

// AuthMiddleware verifies the Supabase access token and stores the user id
// and raw token on the context.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "missing authorization header", "")
			return
		}

		scheme, tokenString, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			unauthorized(c, "invalid authorization header format", "")
			return
		}

		tokenString = strings.TrimSpace(tokenString)
		if tokenString == "" {
			unauthorized(c, "empty token", "")
			return
		}

		// Some clients URL-encode the token.
		if decoded, err := url.QueryUnescape(tokenString); err == nil {
			tokenString = decoded
		}

		if strings.Count(tokenString, ".") != 2 {
			unauthorized(c, "invalid token format", "JWT token must have 3 parts separated by dots")
			return
		}

		claims := jwt.MapClaims{}
		token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if cfg.SupabaseJWTSecret == "" {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.SupabaseJWTSecret), nil
		})
		if err != nil {
			unauthorized(c, "invalid token", tokenErrorMessage(err))
			return
		}
		if !token.Valid {
			unauthorized(c, "invalid token", "")
			return
		}

		sub, err := claims.GetSubject()
		if err != nil || sub == "" {
			unauthorized(c, "missing user id in token", "")
			return
		}
		if _, err := uuid.Parse(sub); err != nil {
			unauthorized(c, "invalid user id in token", "")
			return
		}

		c.Set(UserIDKey, sub)
		c.Set(AccessTokenKey, tokenString)
		c.Next()
	}
}

func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "token signature is invalid - check JWT secret"
	case errors.Is(err, jwt.ErrTokenExpired):
		return "token has expired"
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return "token is missing an expiry"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "token is malformed - ensure you're using a valid Supabase JWT token"
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return "token uses an unsupported signing method"
	default:
		return err.Error()
	}
}
