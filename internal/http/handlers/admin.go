package handlers

import (
	"encoding/json"
	"net/http"

	"server/internal/domain"
	"server/internal/policy"
)

type adminUpdateRequest struct {
	ID        string `json:"id"`
	Completed bool   `json:"completed"`
}

type adminDeleteRequest struct {
	ID string `json:"id"`
}

// AdminTodosList returns every user's todos, newest first. Admin only.
func (a *App) AdminTodosList(w http.ResponseWriter, r *http.Request) {
	if err := a.authorizeAdmin(r, policy.ActionReadAll); err != nil {
		a.domainError(w, r, err)
		return
	}
	todos, err := a.Todos.ListAll(r.Context())
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, toTodoDTOs(todos))
}

// AdminTodosUpdate toggles completion on any user's todo. Admin only.
func (a *App) AdminTodosUpdate(w http.ResponseWriter, r *http.Request) {
	if err := a.authorizeAdmin(r, policy.ActionUpdate); err != nil {
		a.domainError(w, r, err)
		return
	}
	var req adminUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		a.error(w, r, http.StatusBadRequest, codeBadRequest)
		return
	}
	updated, err := a.Todos.SetCompleted(r.Context(), req.ID, req.Completed)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, toTodoDTO(*updated))
}

// AdminTodosDelete removes any user's todo. Admin only.
func (a *App) AdminTodosDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.authorizeAdmin(r, policy.ActionDelete); err != nil {
		a.domainError(w, r, err)
		return
	}
	var req adminDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		a.error(w, r, http.StatusBadRequest, codeBadRequest)
		return
	}
	if err := a.Todos.Delete(r.Context(), req.ID); err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "todo deleted"})
}

// authorizeAdmin resolves the caller's role claim and applies the admin-only
// policy check before any persistence runs.
func (a *App) authorizeAdmin(r *http.Request, action policy.Action) error {
	userID := a.currentUserID(r)
	if userID == "" {
		return domain.ErrUnauthenticated
	}
	role, err := a.Roles.RoleOf(r.Context(), userID)
	if err != nil {
		return err
	}
	return policy.Authorize(role, userID, "", action).Err()
}
