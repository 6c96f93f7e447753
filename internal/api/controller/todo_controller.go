package controller

import (
	"ctchen222/Todo-List/internal/api/flash"
	"ctchen222/Todo-List/internal/api/models"
	"ctchen222/Todo-List/internal/api/response"
	"ctchen222/Todo-List/internal/api/service"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// TodoController handles the todo pages and actions of the logged-in user.
type TodoController struct {
	todoService service.TodoService
	now         func() time.Time
}

// NewTodoController creates a new TodoController.
func NewTodoController(todoService service.TodoService) *TodoController {
	return &TodoController{
		todoService: todoService,
		now:         time.Now,
	}
}

// Index lists the user's todos narrowed by the status, category and q query parameters.
func (tc *TodoController) Index(c *gin.Context) {
	var filter models.TodoFilter
	// Malformed query strings fall back to an unfiltered listing.
	_ = c.ShouldBindQuery(&filter)

	user := response.CurrentUser(c)
	list, err := tc.todoService.List(c.Request.Context(), user.ID, filter)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.Page(c, http.StatusOK, "index.html", gin.H{
		"Title":      "My Todos",
		"List":       list,
		"Categories": models.Categories,
		"Statuses":   []string{models.StatusAll, models.StatusActive, models.StatusCompleted},
		"Today":      models.DateOf(tc.now()),
	})
}

// Add creates a todo from the add form.
func (tc *TodoController) Add(c *gin.Context) {
	var form models.TodoForm
	if err := c.ShouldBind(&form); err != nil {
		response.Redirect(c, "/")
		return
	}

	user := response.CurrentUser(c)
	_, err := tc.todoService.Add(c.Request.Context(), user.ID, form)
	switch {
	case errors.Is(err, service.ErrValidationSkipped):
		response.Redirect(c, "/")
		return
	case err != nil:
		response.InternalError(c, err)
		return
	}

	response.RedirectWithNotice(c, "/", flash.Success("Task added!"))
}

// Toggle flips the done flag of a todo.
func (tc *TodoController) Toggle(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}

	user := response.CurrentUser(c)
	if _, err := tc.todoService.Toggle(c.Request.Context(), user.ID, id); err != nil {
		handleTodoError(c, err)
		return
	}

	response.Redirect(c, "/")
}

// Delete removes a todo.
func (tc *TodoController) Delete(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}

	user := response.CurrentUser(c)
	if err := tc.todoService.Delete(c.Request.Context(), user.ID, id); err != nil {
		handleTodoError(c, err)
		return
	}

	response.RedirectWithNotice(c, "/", flash.Warning("Task deleted."))
}

// EditPage shows the edit form for a todo.
func (tc *TodoController) EditPage(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}

	user := response.CurrentUser(c)
	todo, err := tc.todoService.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		handleTodoError(c, err)
		return
	}

	response.Page(c, http.StatusOK, "edit.html", gin.H{
		"Title":      "Edit Todo",
		"Todo":       todo,
		"Categories": models.Categories,
	})
}

// Edit applies the edit form. An empty task leaves the todo as it was.
func (tc *TodoController) Edit(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		return
	}

	var form models.TodoForm
	if err := c.ShouldBind(&form); err != nil {
		// An unreadable form is an empty edit; ownership is still checked.
		form = models.TodoForm{}
	}

	user := response.CurrentUser(c)
	_, err := tc.todoService.Edit(c.Request.Context(), user.ID, id, form)
	switch {
	case errors.Is(err, service.ErrValidationSkipped):
		response.Redirect(c, "/")
		return
	case err != nil:
		handleTodoError(c, err)
		return
	}

	response.RedirectWithNotice(c, "/", flash.Success("Task updated."))
}

// todoID parses the id path parameter. Anything but an integer is a 404.
func todoID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFound(c)
		return 0, false
	}
	return id, true
}

func handleTodoError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotFound) {
		response.NotFound(c)
		return
	}
	response.InternalError(c, err)
}
