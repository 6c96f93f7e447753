package response

import (
	"ctchen222/Todo-List/internal/api/flash"
	"ctchen222/Todo-List/internal/api/models"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	userKey         = "response.user"
	cookieSecureKey = "response.cookieSecure"
)

// CookieOptions stores cookie attributes for later helpers in the chain.
func CookieOptions(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(cookieSecureKey, secure)
		c.Next()
	}
}

// CookieSecure reports whether cookies written for this request carry Secure.
func CookieSecure(c *gin.Context) bool {
	return c.GetBool(cookieSecureKey)
}

// SetUser records the authenticated user for handlers and templates.
func SetUser(c *gin.Context, user *models.User) {
	c.Set(userKey, user)
}

// CurrentUser returns the authenticated user, or nil on public routes.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// Page renders a named template. The current user and any pending flash
// notice are added to data under "User" and "Flash".
func Page(c *gin.Context, code int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["User"] = CurrentUser(c)
	if notice, ok := flash.ReadAndClear(c.Writer, c.Request, CookieSecure(c)); ok {
		data["Flash"] = notice
	}
	c.HTML(code, name, data)
}

// Redirect answers with 302 Found.
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// RedirectWithNotice queues notice for the next page and redirects.
func RedirectWithNotice(c *gin.Context, location string, notice flash.Notice) {
	flash.Write(c.Writer, notice, CookieSecure(c))
	Redirect(c, location)
}

// NotFound aborts with the 404 page.
func NotFound(c *gin.Context) {
	abortWithError(c, NewError(http.StatusNotFound, "The page you requested does not exist."))
}

// InternalError logs err and aborts with the 500 page.
func InternalError(c *gin.Context, err error) {
	slog.ErrorContext(c.Request.Context(), "Request failed",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"error", err,
	)
	_ = c.Error(err)
	abortWithError(c, NewError(http.StatusInternalServerError, "Something went wrong. Please try again."))
}

func abortWithError(c *gin.Context, e Error) {
	c.Abort()
	c.HTML(e.Code, "error.html", gin.H{
		"User":  CurrentUser(c),
		"Error": e,
	})
}
