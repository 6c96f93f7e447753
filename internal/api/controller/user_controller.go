package controller

import (
	"ctchen222/Todo-List/internal/api/flash"
	"ctchen222/Todo-List/internal/api/models"
	"ctchen222/Todo-List/internal/api/response"
	"ctchen222/Todo-List/internal/api/service"
	"ctchen222/Todo-List/internal/api/sessioncookie"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserController handles registration, login and logout.
type UserController struct {
	userService    service.UserService
	sessionService service.SessionService
}

// NewUserController creates a new UserController.
func NewUserController(userService service.UserService, sessionService service.SessionService) *UserController {
	return &UserController{
		userService:    userService,
		sessionService: sessionService,
	}
}

// RegisterPage shows the registration form.
func (uc *UserController) RegisterPage(c *gin.Context) {
	response.Page(c, http.StatusOK, "register.html", gin.H{"Title": "Register"})
}

// Register handles the registration form.
func (uc *UserController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		response.RedirectWithNotice(c, "/register", flash.Warning("Username and password are required."))
		return
	}

	_, err := uc.userService.Register(c.Request.Context(), &req)
	switch {
	case errors.Is(err, service.ErrDuplicateUsername):
		response.RedirectWithNotice(c, "/register", flash.Warning("Username already taken."))
		return
	case err != nil:
		response.InternalError(c, err)
		return
	}

	response.RedirectWithNotice(c, "/login", flash.Success("Account created! Please log in."))
}

// LoginPage shows the login form.
func (uc *UserController) LoginPage(c *gin.Context) {
	response.Page(c, http.StatusOK, "login.html", gin.H{"Title": "Login"})
}

// Login checks the credentials and starts a session.
func (uc *UserController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.RedirectWithNotice(c, "/login", flash.Warning("Invalid username or password."))
		return
	}

	ctx := c.Request.Context()
	user, err := uc.userService.Login(ctx, &req)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.RedirectWithNotice(c, "/login", flash.Warning("Invalid username or password."))
		return
	case err != nil:
		response.InternalError(c, err)
		return
	}

	token, err := uc.sessionService.Start(ctx, user.ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	sessioncookie.Write(c.Writer, token.Value, token.ExpiresAt, response.CookieSecure(c))
	response.RedirectWithNotice(c, "/", flash.Success(fmt.Sprintf("Welcome back, %s!", user.Username)))
}

// Logout ends the current session.
func (uc *UserController) Logout(c *gin.Context) {
	if token, ok := sessioncookie.Read(c.Request); ok {
		if err := uc.sessionService.End(c.Request.Context(), token); err != nil {
			response.InternalError(c, err)
			return
		}
	}

	sessioncookie.Clear(c.Writer, response.CookieSecure(c))
	response.RedirectWithNotice(c, "/login", flash.Info("You have been logged out."))
}
