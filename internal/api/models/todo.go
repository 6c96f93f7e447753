package models

// Categories is the fixed set offered by the todo forms. The store accepts any string.
var Categories = []string{"Pekerjaan", "Kuliah", "Pribadi", "Urgent", "Lainnya"}

const (
	StatusAll       = "all"
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Todo is a task owned by exactly one user.
type Todo struct {
	ID       int64   `db:"id"`
	Task     string  `db:"task"`
	Done     bool    `db:"done"`
	Deadline *Date   `db:"deadline"`
	Category *string `db:"category"`
	UserID   int64   `db:"user_id"`
}

// Overdue reports whether the todo is still open past its deadline.
func (t Todo) Overdue(today Date) bool {
	return !t.Done && t.Deadline != nil && t.Deadline.Before(today)
}

// CategoryName returns the category or an empty string.
func (t Todo) CategoryName() string {
	if t.Category == nil {
		return ""
	}
	return *t.Category
}

// TodoForm is the add/edit form. Deadline is raw user input.
type TodoForm struct {
	Task     string `form:"task"`
	Deadline string `form:"deadline"`
	Category string `form:"category"`
}

// TodoFilter narrows a todo listing. Query matches task text case-insensitively.
type TodoFilter struct {
	Status   string `form:"status"`
	Category string `form:"category"`
	Query    string `form:"q"`
}

// NormalizedStatus maps unrecognized statuses to StatusAll.
func (f TodoFilter) NormalizedStatus() string {
	switch f.Status {
	case StatusActive, StatusCompleted:
		return f.Status
	default:
		return StatusAll
	}
}

// TodoList is a filtered listing with the filter echoed back for the UI.
// Total counts every todo of the user, filtered or not.
type TodoList struct {
	Todos  []Todo
	Total  int
	Filter TodoFilter
}
