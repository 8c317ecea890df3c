package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	"github.com/guybracha/karinaCrm2/internal/crm"
	"github.com/guybracha/karinaCrm2/internal/models"
)

// Context keys set after a successful authentication.
const (
	UserIDKey       = "user_id"
	StaffProfileKey = "staff_profile"
)

// TokenVerifier abstracts Firebase ID-token verification so tests can
// substitute a fake.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// Auth verifies the Bearer ID token and then requires an active staff
// record. Authorization beyond the staff gate is enforced by the backend's
// own security rules.
func Auth(verifier TokenVerifier, svc *crm.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "missing authorization header"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid authorization header format"})
			return
		}

		token, err := verifier.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid or expired token"})
			return
		}

		profile, err := svc.AssertStaffAccess(c.Request.Context(), token.UID)
		if errors.Is(err, crm.ErrStaffAccessDenied) {
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{Error: crm.ErrStaffAccessDenied.Error()})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to check staff access"})
			return
		}

		c.Set(UserIDKey, token.UID)
		c.Set(StaffProfileKey, profile)
		c.Next()
	}
}
