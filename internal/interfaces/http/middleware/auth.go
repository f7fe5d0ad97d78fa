package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/infrastructure/auth"
	"github.com/van-william/carbon-sub017/internal/infrastructure/logger"
	"github.com/van-william/carbon-sub017/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Auth context keys and headers
const (
	ClaimsKey       = "jwt_claims"
	CompanyIDKey    = "company_id"
	UserIDKey       = "user_id"
	AuthHeaderKey   = "Authorization"
	BearerPrefix    = "Bearer "
	HeaderCompanyID = "X-Company-ID"
	HeaderUserID    = "X-User-ID"
)

// AuthConfig configures the Auth middleware
type AuthConfig struct {
	// Validator checks bearer tokens. Nil switches to header mode, where the
	// company comes from X-Company-ID (local development only).
	Validator *auth.Validator
	// SkipPaths are paths that don't require a company
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require a company
	SkipPathPrefixes []string
	Logger           *zap.Logger
}

// DefaultAuthConfig returns the auth configuration used by the server
func DefaultAuthConfig(validator *auth.Validator) AuthConfig {
	return AuthConfig{
		Validator: validator,
		SkipPaths: []string{"/health", "/ready", "/metrics"},
		// webhooks authenticate with their own signature
		SkipPathPrefixes: []string{"/api/v1/webhooks/"},
	}
}

// Auth resolves the acting company and user of a request and stores them in
// the gin and request contexts
func Auth(cfg AuthConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, p := range cfg.SkipPaths {
			if path == p {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		var companyID, userID uuid.UUID
		if cfg.Validator != nil {
			claims, err := bearerClaims(c, cfg.Validator)
			if err != nil {
				log.Warn("JWT authentication failed", zap.Error(err), zap.String("path", path))
				abortUnauthorized(c, err)
				return
			}
			c.Set(ClaimsKey, claims)
			companyID, userID = claims.CompanyUUID(), claims.UserUUID()
		} else {
			var err error
			companyID, err = uuid.Parse(c.GetHeader(HeaderCompanyID))
			if err != nil || companyID == uuid.Nil {
				abortUnauthorized(c, auth.ErrMissingCompanyID)
				return
			}
			userID, _ = uuid.Parse(c.GetHeader(HeaderUserID))
		}

		c.Set(CompanyIDKey, companyID)
		c.Set(UserIDKey, userID)

		ctx := logger.WithCompanyID(c.Request.Context(), companyID.String())
		if userID != uuid.Nil {
			ctx = logger.WithUserID(ctx, userID.String())
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func bearerClaims(c *gin.Context, v *auth.Validator) (*auth.Claims, error) {
	header := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(header, BearerPrefix) {
		return nil, auth.ErrInvalidToken
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	if token == "" {
		return nil, auth.ErrInvalidToken
	}
	return v.Validate(token)
}

func abortUnauthorized(c *gin.Context, err error) {
	code := dto.ErrCodeUnauthorized
	message := "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidClaims), errors.Is(err, auth.ErrTokenNotYetValid):
		code, message = dto.ErrCodeTokenInvalid, "Invalid token"
	case errors.Is(err, auth.ErrMissingCompanyID):
		message = "Company is required"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(code, message, c.GetString(RequestIDKey)))
}

// GetClaims returns the validated token claims, nil in header mode
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetCompanyID returns the acting company or uuid.Nil
func GetCompanyID(c *gin.Context) uuid.UUID {
	return getUUID(c, CompanyIDKey)
}

// GetUserID returns the acting user or uuid.Nil
func GetUserID(c *gin.Context) uuid.UUID {
	return getUUID(c, UserIDKey)
}

func getUUID(c *gin.Context, key string) uuid.UUID {
	if v, ok := c.Get(key); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
