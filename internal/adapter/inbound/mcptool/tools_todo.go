package mcptool

import (
	"context"

	"github.com/nonsignal007/notion-mcp/internal/domain"
	"github.com/nonsignal007/notion-mcp/internal/usecase"
)

func (s *Server) todoSpecs() []toolSpec {
	return []toolSpec{
		{
			name:        "create_todo_database",
			description: "Create a todo database with the standard Task, Description, Due Date, Priority, Tags, and Status columns.",
			schema: objectSchema(map[string]any{
				"parent_page_id": strProp("Page that will contain the database. Defaults to the configured parent page."),
				"title":          strProp("Database title. Defaults to Todos."),
			}, nil),
			handle: s.handleCreateTodoDatabase,
		},
		{
			name:        "add_todo",
			description: "Add a todo item to the configured todo database.",
			schema: objectSchema(map[string]any{
				"task":        strProp("What needs doing."),
				"description": strProp("Longer details."),
				"due_date":    strProp("ISO-8601 date or datetime."),
				"priority":    enumProp("Priority. Defaults to low.", "high", "medium", "low"),
				"tags":        strArrayProp("Free-form tags."),
				"status":      enumProp("Initial status. Defaults to not started.", "not started", "in progress", "completed"),
			}, []string{"task"}),
			handle: s.handleAddTodo,
		},
		{
			name:        "search_todos",
			description: "List todos ordered by due date, optionally filtered by text, status, priority, or due date.",
			schema: objectSchema(map[string]any{
				"query":      strProp("Text matched against the task title, or against property when named."),
				"property":   strProp("Property to match query against instead of the title."),
				"status":     enumProp("Exact status.", "not started", "in progress", "completed"),
				"priority":   enumProp("Exact priority.", "high", "medium", "low"),
				"due_before": strProp("ISO-8601 date; only todos due strictly before it."),
			}, nil),
			handle: s.handleSearchTodos,
		},
		{
			name:        "complete_todo",
			description: "Mark a todo as completed.",
			schema: objectSchema(map[string]any{
				"page_id": strProp("Todo page to complete."),
			}, []string{"page_id"}),
			handle: s.handleCompleteTodo,
		},
	}
}

func (s *Server) handleCreateTodoDatabase(ctx context.Context, args map[string]any) (any, error) {
	var parentID domain.ID
	if argString(args, "parent_page_id") != "" {
		var err error
		parentID, err = argID(args, "parent_page_id")
		if err != nil {
			return nil, err
		}
	}
	db, err := s.todos.EnsureDatabase(ctx, parentID, argString(args, "title"))
	if err != nil {
		return nil, err
	}
	return databaseSummary(db), nil
}

func (s *Server) handleAddTodo(ctx context.Context, args map[string]any) (any, error) {
	page, err := s.todos.Add(ctx, usecase.AddTodoRequest{
		Task:        argString(args, "task"),
		Description: argString(args, "description"),
		DueDate:     argString(args, "due_date"),
		Priority:    argString(args, "priority"),
		Tags:        argStrings(args, "tags"),
		Status:      argString(args, "status"),
	})
	if err != nil {
		return nil, err
	}
	return pageSummary(page), nil
}

func (s *Server) handleSearchTodos(ctx context.Context, args map[string]any) (any, error) {
	pages, err := s.todos.Search(ctx, usecase.SearchTodosRequest{
		Query:     argString(args, "query"),
		Property:  argString(args, "property"),
		Status:    argString(args, "status"),
		Priority:  argString(args, "priority"),
		DueBefore: argString(args, "due_before"),
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"todos": pageList(pages), "count": len(pages)}, nil
}

func (s *Server) handleCompleteTodo(ctx context.Context, args map[string]any) (any, error) {
	id, err := argID(args, "page_id")
	if err != nil {
		return nil, err
	}
	page, err := s.todos.Complete(ctx, id)
	if err != nil {
		return nil, err
	}
	return pageSummary(page), nil
}
