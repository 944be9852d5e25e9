package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"server/internal/domain"
	"server/internal/policy"
)

type todoDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

func toTodoDTO(t domain.Todo) todoDTO {
	return todoDTO{
		ID:        t.ID,
		UserID:    t.UserID,
		Title:     t.Title,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
	}
}

func toTodoDTOs(todos []domain.Todo) []todoDTO {
	out := make([]todoDTO, 0, len(todos))
	for _, t := range todos {
		out = append(out, toTodoDTO(t))
	}
	return out
}

type createTodoRequest struct {
	Title string `json:"title"`
}

type updateTodoRequest struct {
	Completed bool `json:"completed"`
}

// TodosList returns the caller's todos, newest first.
func (a *App) TodosList(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, r, http.StatusUnauthorized, codeUnauthenticated)
		return
	}
	todos, err := a.Todos.ListByUser(r.Context(), userID)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, toTodoDTOs(todos))
}

// TodosCreate creates a todo for the caller, subject to the free-tier cap.
// The policy decision runs against a fresh count for the friendly denial; the
// repository re-checks the cap atomically, so a lost race still comes back as
// quota_exceeded instead of an over-cap insert.
func (a *App) TodosCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, r, http.StatusUnauthorized, codeUnauthenticated)
		return
	}
	var req createTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, r, http.StatusBadRequest, codeBadRequest)
		return
	}
	if err := domain.ValidateTitle(req.Title); err != nil {
		a.domainError(w, r, err)
		return
	}

	user, err := a.Users.Ensure(r.Context(), userID)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	count, err := a.Todos.CountByUser(r.Context(), userID)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	if decision := policy.CanCreateTodo(user.IsSubscribed, count); !decision.Allowed {
		a.domainError(w, r, decision.Err())
		return
	}

	todo := &domain.Todo{
		ID:     uuid.NewString(),
		UserID: userID,
		Title:  strings.TrimSpace(req.Title),
	}
	created, err := a.Todos.Create(r.Context(), todo, policy.FreeTierTodoLimit)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, toTodoDTO(*created))
}

// TodosUpdate toggles completion on a todo the caller owns. Admins may update
// any todo through this route as well; the role claim is only resolved when
// ownership alone does not decide.
func (a *App) TodosUpdate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, r, http.StatusUnauthorized, codeUnauthenticated)
		return
	}
	var req updateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, r, http.StatusBadRequest, codeBadRequest)
		return
	}
	todoID := chi.URLParam(r, "id")

	todo, err := a.Todos.GetByID(r.Context(), todoID)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	if err := a.authorizeOn(r, userID, todo.UserID, policy.ActionUpdate); err != nil {
		a.domainError(w, r, err)
		return
	}

	updated, err := a.Todos.SetCompleted(r.Context(), todoID, req.Completed)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, toTodoDTO(*updated))
}

// TodosDelete removes a todo the caller owns (or any todo, for an admin).
func (a *App) TodosDelete(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, r, http.StatusUnauthorized, codeUnauthenticated)
		return
	}
	todoID := chi.URLParam(r, "id")

	todo, err := a.Todos.GetByID(r.Context(), todoID)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	if err := a.authorizeOn(r, userID, todo.UserID, policy.ActionDelete); err != nil {
		a.domainError(w, r, err)
		return
	}

	if err := a.Todos.Delete(r.Context(), todoID); err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "todo deleted"})
}

// authorizeOn applies the ownership-or-admin rule for a single resource. The
// role claim lookup is skipped while the actor owns the resource, keeping the
// identity provider off the hot path.
func (a *App) authorizeOn(r *http.Request, actorID, ownerID string, action policy.Action) error {
	role := domain.RoleMember
	if actorID != ownerID {
		resolved, err := a.Roles.RoleOf(r.Context(), actorID)
		if err != nil {
			return err
		}
		role = resolved
	}
	return policy.Authorize(role, actorID, ownerID, action).Err()
}
