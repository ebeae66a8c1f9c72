package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxFirebaseUID = "firebase_uid"
	CtxDisplayName = "display_name"
)

// User is the authenticated caller as seen by the service layer.
type User struct {
	UID  string
	Name string
}

// UserFirebaseUID extracts the Firebase UID from the Gin context
// This is set by the auth middlewares
func UserFirebaseUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxFirebaseUID))
}

// CurrentUser extracts the authenticated caller from the Gin context.
// The second result is false when no identity was established.
func CurrentUser(c *gin.Context) (User, bool) {
	uid := UserFirebaseUID(c)
	if uid == "" {
		return User{}, false
	}
	return User{UID: uid, Name: strings.TrimSpace(c.GetString(CtxDisplayName))}, true
}
