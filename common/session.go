package common

import (
	"os"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const SessionUserKey = "user_id"

// CurrentUserID returns the session principal's identifier, if any.
// Only the identifier lives in the cookie; handlers load the full
// user record when they need more than attribution.
func CurrentUserID(c *gin.Context) (int, bool) {
	session := sessions.Default(c)
	v := session.Get(SessionUserKey)
	id, ok := v.(int)
	return id, ok
}

// AdminUserID returns the identifier of the single privileged account.
// Configurable through ADMIN_USER_ID, defaults to the first account.
func AdminUserID() int {
	v := os.Getenv("ADMIN_USER_ID")
	if v == "" {
		return 1
	}
	id, err := strconv.Atoi(v)
	if err != nil {
		return 1
	}
	return id
}

// Flash queues a one-time notice for the next rendered page.
func Flash(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.AddFlash(message)
	session.Save()
}

// TakeFlashes drains pending notices. Reading flashes marks them
// consumed, so the session must be saved afterwards.
func TakeFlashes(c *gin.Context) []string {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) > 0 {
		session.Save()
	}
	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			messages = append(messages, s)
		}
	}
	return messages
}
