package auth

import (
	"github.com/golang-jwt/jwt/v5"

	models "drive/internal/domain/models/drive"
)

// roleAuthenticated is the role claim carried by signed-in user tokens
const roleAuthenticated = "authenticated"

// Claims are the JWT claims issued by the identity provider
type Claims struct {
	jwt.RegisteredClaims
	Email       string      `json:"email,omitempty"`
	Role        string      `json:"role"`
	AppMetadata AppMetadata `json:"app_metadata"`
}

// AppMetadata holds provider-managed user attributes
type AppMetadata struct {
	// DriveRole is "admin" for operators that bypass per-item access checks
	DriveRole string `json:"drive_role,omitempty"`
}

// Actor converts verified claims into the caller of drive operations
func (c *Claims) Actor() models.Actor {
	actor := models.Actor{ID: c.Subject}
	if c.AppMetadata.DriveRole == models.RoleAdmin {
		actor.Role = models.RoleAdmin
	}
	return actor
}
