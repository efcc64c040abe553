package resource

import "context"

// Column is one table column.
type Column[T any] struct {
	Header string
	Width  int
	Cell   func(T) string
	// Export renders the cell for reports; Cell is used when nil.
	Export func(T) string
}

// Filter is a categorical filter. Values lists the choices besides "all".
type Filter[T any] struct {
	Name   string
	Values []string
	Value  func(T) string
}

// Stat is a summary figure shown above a listing.
type Stat struct {
	Label string
	Value string
}

// Action is a row operation such as approving documents. A Bulk action runs
// over every row it applies to.
type Action[T any] struct {
	Name    string
	Label   string
	Key     string
	Input   *Field
	Confirm bool
	Bulk    bool
	// Deletes gates the action on the delete permission instead of write.
	Deletes bool
	Applies func(T) bool
	Run     func(ctx context.Context, item T, input string) (string, error)
	// Check validates the input against the row before anything is sent.
	Check func(item T, input string) error
	// Done is the success text when the server sends none.
	Done string
}

// Config parameterizes a Controller for one entity.
type Config[T any] struct {
	Name     string
	Singular string
	Columns  []Column[T]
	ID       func(T) string
	// Searchable returns the fields the text query matches against.
	Searchable func(T) []string
	Filters    []Filter[T]
	Fields     []Field
	// Values pre-fills the edit dialog from a row.
	Values func(T) map[string]string
	Detail func(T) [][2]string
	Stats  func([]T) []Stat

	List   func(ctx context.Context) ([]T, error)
	Create func(ctx context.Context, f Form) (string, error)
	Update func(ctx context.Context, id string, f Form) (string, error)
	Delete func(ctx context.Context, id string) (string, error)

	Actions []Action[T]
}
