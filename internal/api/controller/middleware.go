package controller

import (
	"ctchen222/Todo-List/internal/api/response"
	"ctchen222/Todo-List/internal/api/service"
	"ctchen222/Todo-List/internal/api/sessioncookie"
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
)

// RequireAuth lets a request through only with a live session. The resolved
// user is available to later handlers via response.CurrentUser.
func RequireAuth(userService service.UserService, sessionService service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := sessioncookie.Read(c.Request)
		if !ok {
			redirectToLogin(c)
			return
		}

		ctx := c.Request.Context()
		userID, err := sessionService.Resolve(ctx, token)
		if errors.Is(err, service.ErrSessionInvalid) {
			sessioncookie.Clear(c.Writer, response.CookieSecure(c))
			redirectToLogin(c)
			return
		}
		if err != nil {
			response.InternalError(c, err)
			return
		}

		user, err := userService.GetUser(ctx, userID)
		if err != nil {
			response.InternalError(c, err)
			return
		}
		if user == nil {
			slog.WarnContext(ctx, "Session refers to a missing user", "user.id", userID)
			sessioncookie.Clear(c.Writer, response.CookieSecure(c))
			redirectToLogin(c)
			return
		}

		response.SetUser(c, user)
		c.Next()
	}
}

func redirectToLogin(c *gin.Context) {
	c.Abort()
	response.Redirect(c, "/login")
}
