package server

import (
	"ctchen222/Todo-List/internal/api/controller"
	"ctchen222/Todo-List/internal/api/response"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options configures the HTTP server.
type Options struct {
	CookieSecure bool
}

// Server owns the gin engine and its route table.
type Server struct {
	engine *gin.Engine
}

// NewServer builds the engine and registers every route. auth guards the
// todo routes and logout.
func NewServer(
	userController *controller.UserController,
	todoController *controller.TodoController,
	auth gin.HandlerFunc,
	opts Options,
) (*Server, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.SetHTMLTemplate(tmpl)
	engine.Use(
		gin.Recovery(),
		tracing(),
		requestLogger(),
		response.CookieOptions(opts.CookieSecure),
	)
	engine.NoRoute(response.NotFound)

	s := &Server{engine: engine}
	s.registerRoutes(userController, todoController, auth)
	return s, nil
}

func (s *Server) registerRoutes(uc *controller.UserController, tc *controller.TodoController, auth gin.HandlerFunc) {
	s.engine.GET("/register", uc.RegisterPage)
	s.engine.POST("/register", uc.Register)
	s.engine.GET("/login", uc.LoginPage)
	s.engine.POST("/login", uc.Login)

	protected := s.engine.Group("/", auth)
	protected.GET("/logout", uc.Logout)
	protected.GET("/", tc.Index)
	protected.POST("/add", tc.Add)
	protected.GET("/toggle/:id", tc.Toggle)
	protected.GET("/delete/:id", tc.Delete)
	protected.GET("/edit/:id", tc.EditPage)
	protected.POST("/edit/:id", tc.Edit)
}

// Engine exposes the handler for http.Server.
func (s *Server) Engine() http.Handler {
	return s.engine
}

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}
