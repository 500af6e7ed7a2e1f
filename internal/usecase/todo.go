package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nonsignal007/notion-mcp/internal/adapter/outbound/notionapi"
	"github.com/nonsignal007/notion-mcp/internal/domain"
)

// Canonical todo property names. Every todo database managed by this
// use case carries this schema.
const (
	PropTask        = "Task"
	PropDescription = "Description"
	PropDueDate     = "Due Date"
	PropPriority    = "Priority"
	PropTags        = "Tags"
	PropStatus      = "Status"
)

var (
	todoPriorities = []string{"high", "medium", "low"}
	todoStatuses   = []string{"not started", "in progress", "completed"}
)

// TodoSchema is the property layout for a todo database.
func TodoSchema() domain.Schema {
	return domain.Schema{
		PropTask:        domain.TitleDef(),
		PropDescription: domain.RichTextDef(),
		PropDueDate:     domain.DateDef(),
		PropPriority:    domain.SelectDef(todoPriorities...),
		PropTags:        domain.MultiSelectDef(),
		PropStatus:      domain.SelectDef(todoStatuses...),
	}
}

// TodoUseCase manages todo items stored as pages in a Notion database.
type TodoUseCase struct {
	client        NotionClient
	databaseID    domain.ID
	defaultParent domain.ID
	logger        *slog.Logger
}

// NewTodoUseCase creates a TodoUseCase bound to one todo database.
// databaseID may be empty when the database is created later via
// EnsureDatabase.
func NewTodoUseCase(client NotionClient, databaseID domain.ID, logger *slog.Logger) *TodoUseCase {
	return &TodoUseCase{
		client:     client,
		databaseID: databaseID,
		logger:     logger.With("usecase", "Todo"),
	}
}

// DatabaseID returns the database this use case currently targets.
func (uc *TodoUseCase) DatabaseID() domain.ID { return uc.databaseID }

// SetDefaultParent sets the page under which EnsureDatabase creates the
// database when no parent is given explicitly.
func (uc *TodoUseCase) SetDefaultParent(id domain.ID) { uc.defaultParent = id }

// EnsureDatabase creates a todo database with the canonical schema under
// the given parent page and rebinds the use case to it. An empty parent
// falls back to the configured default parent page.
func (uc *TodoUseCase) EnsureDatabase(ctx context.Context, parentPageID domain.ID, title string) (*domain.Database, error) {
	if parentPageID == "" {
		parentPageID = uc.defaultParent
	}
	if parentPageID == "" {
		return nil, &domain.ValidationError{Field: "parent_page_id", Reason: "no parent page given and no default configured"}
	}
	if title == "" {
		title = "Todos"
	}
	db, err := uc.client.CreateDatabase(ctx, notionapi.CreateDatabaseRequest{
		ParentPageID: parentPageID,
		Title:        title,
		Schema:       TodoSchema(),
	})
	if err != nil {
		return nil, err
	}
	uc.databaseID = db.ID
	uc.logger.Info("Created todo database", slog.String("database_id", db.ID.String()), slog.String("title", title))
	return db, nil
}

// AddTodoRequest describes one new todo item. Task is the only required
// field.
type AddTodoRequest struct {
	Task        string
	Description string
	// DueDate is an ISO-8601 date or datetime string.
	DueDate  string
	Priority string
	Tags     []string
	Status   string
}

// Add creates a todo page. Priority and status default to "low" and
// "not started".
func (uc *TodoUseCase) Add(ctx context.Context, req AddTodoRequest) (*domain.Page, error) {
	if uc.databaseID == "" {
		return nil, &domain.ValidationError{Field: "database_id", Reason: "no todo database configured"}
	}
	if strings.TrimSpace(req.Task) == "" {
		return nil, &domain.ValidationError{Field: "task", Reason: "must not be empty"}
	}
	priority := req.Priority
	if priority == "" {
		priority = "low"
	}
	if err := oneOf("priority", priority, todoPriorities); err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = "not started"
	}
	if err := oneOf("status", status, todoStatuses); err != nil {
		return nil, err
	}

	props := domain.Properties{
		PropTask:     domain.TitleValue(req.Task),
		PropPriority: domain.SelectValue(priority),
		PropStatus:   domain.SelectValue(status),
	}
	if req.Description != "" {
		props[PropDescription] = domain.RichTextValue(req.Description)
	}
	if len(req.Tags) > 0 {
		props[PropTags] = domain.MultiSelectValue(req.Tags...)
	}
	if req.DueDate != "" {
		due, err := parseDueDate(req.DueDate)
		if err != nil {
			return nil, err
		}
		props[PropDueDate] = domain.DateValueOf(due)
	}

	page, err := uc.client.CreatePage(ctx, notionapi.CreatePageRequest{
		Parent:     notionapi.ParentRef{DatabaseID: uc.databaseID},
		Properties: props,
	})
	if err != nil {
		return nil, err
	}
	uc.logger.Info("Added todo", slog.String("page_id", page.ID.String()), slog.String("task", req.Task))
	return page, nil
}

// SearchTodosRequest narrows a todo listing. All fields are optional; a
// zero request lists everything ordered by due date.
type SearchTodosRequest struct {
	// Query is matched against the task title, or against Property when
	// one is named.
	Query    string
	Property string
	Status   string
	Priority string
	// DueBefore is an ISO-8601 date; matches todos due strictly before it.
	DueBefore string
}

// Search lists matching todos ordered by due date ascending.
func (uc *TodoUseCase) Search(ctx context.Context, req SearchTodosRequest) ([]*domain.Page, error) {
	if uc.databaseID == "" {
		return nil, &domain.ValidationError{Field: "database_id", Reason: "no todo database configured"}
	}
	var parts []domain.Filter
	if req.Query != "" {
		parts = append(parts, domain.SearchFilter(req.Query, req.Property))
	}
	if req.Status != "" {
		if err := oneOf("status", req.Status, todoStatuses); err != nil {
			return nil, err
		}
		parts = append(parts, domain.SelectEquals(PropStatus, req.Status))
	}
	if req.Priority != "" {
		if err := oneOf("priority", req.Priority, todoPriorities); err != nil {
			return nil, err
		}
		parts = append(parts, domain.SelectEquals(PropPriority, req.Priority))
	}
	if req.DueBefore != "" {
		if _, err := parseDueDate(req.DueBefore); err != nil {
			return nil, err
		}
		parts = append(parts, domain.DateCondition(PropDueDate, "before", req.DueBefore))
	}

	q := notionapi.Query{Sorts: []domain.Sort{{Property: PropDueDate, Direction: domain.Ascending}}}
	switch len(parts) {
	case 0:
	case 1:
		q.Filter = parts[0]
	default:
		q.Filter = domain.And(parts...)
	}

	pages, err := uc.client.QueryDatabaseAll(ctx, uc.databaseID, q)
	if err != nil {
		return nil, err
	}
	uc.logger.Debug("Searched todos", slog.Int("matches", len(pages)))
	return pages, nil
}

// Complete marks a todo as completed.
func (uc *TodoUseCase) Complete(ctx context.Context, pageID domain.ID) (*domain.Page, error) {
	return uc.client.UpdatePage(ctx, pageID, domain.Properties{
		PropStatus: domain.SelectValue("completed"),
	}, nil)
}

func oneOf(field, value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return &domain.ValidationError{
		Field:  field,
		Reason: fmt.Sprintf("must be one of %s", strings.Join(allowed, ", ")),
	}
}

func parseDueDate(s string) (domain.DateValue, error) {
	due, err := domain.ParseDateValue(s)
	if err != nil {
		return domain.DateValue{}, &domain.ValidationError{
			Field:  "due_date",
			Reason: fmt.Sprintf("%q is not an ISO-8601 date or datetime", s),
		}
	}
	return due, nil
}
