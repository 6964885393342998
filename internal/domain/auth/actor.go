package auth

import "github.com/gin-gonic/gin"

// Actor is the authenticated caller as established by the JWT middleware.
type Actor struct {
	UserID int64
	Role   UserRole
}

func (a Actor) IsAdmin() bool           { return a.Role == RoleAdmin }
func (a Actor) IsRestaurantOwner() bool { return a.Role == RoleRestaurantOwner }

// ActorFromContext reads the keys set by middleware.JWTAuth.
func ActorFromContext(c *gin.Context) (Actor, bool) {
	userID := c.GetInt64("user_id")
	role := UserRole(c.GetString("role"))
	if userID <= 0 || !role.Valid() {
		return Actor{}, false
	}
	return Actor{UserID: userID, Role: role}, true
}
