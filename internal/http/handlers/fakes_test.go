package handlers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/http/handlers"
	"server/internal/http/httpapi"
	"server/internal/middleware"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Ensure(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	now := time.Now()
	u := &domain.User{ID: id, CreatedAt: now, UpdatedAt: now}
	f.users[id] = u
	clone := *u
	return &clone, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserRepo) SetSubscription(_ context.Context, id string, subscribed bool, ends *time.Time) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.IsSubscribed = subscribed
	u.SubscriptionEnds = ends
	u.UpdatedAt = time.Now()
	clone := *u
	return &clone, nil
}

func (f *fakeUserRepo) seed(u domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := u
	f.users[u.ID] = &clone
}

type fakeTodoRepo struct {
	mu    sync.Mutex
	users *fakeUserRepo
	todos map[string]domain.Todo
}

func newFakeTodoRepo(users *fakeUserRepo) *fakeTodoRepo {
	return &fakeTodoRepo{users: users, todos: make(map[string]domain.Todo)}
}

func (f *fakeTodoRepo) Create(ctx context.Context, todo *domain.Todo, freeLimit int) (*domain.Todo, error) {
	owner, err := f.users.GetByID(ctx, todo.UserID)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if owner.OnFreeTier() {
		count := 0
		for _, t := range f.todos {
			if t.UserID == todo.UserID {
				count++
			}
		}
		if count >= freeLimit {
			return nil, domain.ErrQuotaExceeded
		}
	}
	created := *todo
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now()
	}
	f.todos[created.ID] = created
	clone := created
	return &clone, nil
}

func (f *fakeTodoRepo) GetByID(_ context.Context, id string) (*domain.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.todos[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := t
	return &clone, nil
}

func (f *fakeTodoRepo) ListByUser(_ context.Context, userID string) ([]domain.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Todo
	for _, t := range f.todos {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (f *fakeTodoRepo) ListAll(context.Context) ([]domain.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Todo, 0, len(f.todos))
	for _, t := range f.todos {
		out = append(out, t)
	}
	sortNewestFirst(out)
	return out, nil
}

func (f *fakeTodoRepo) CountByUser(_ context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, t := range f.todos {
		if t.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeTodoRepo) SetCompleted(_ context.Context, id string, completed bool) (*domain.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.todos[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	t.Completed = completed
	f.todos[id] = t
	clone := t
	return &clone, nil
}

func (f *fakeTodoRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.todos[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.todos, id)
	return nil
}

func (f *fakeTodoRepo) seed(t domain.Todo) domain.Todo {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	f.todos[t.ID] = t
	return t
}

func sortNewestFirst(todos []domain.Todo) {
	sort.Slice(todos, func(i, j int) bool {
		if !todos[i].CreatedAt.Equal(todos[j].CreatedAt) {
			return todos[i].CreatedAt.After(todos[j].CreatedAt)
		}
		return todos[i].ID > todos[j].ID
	})
}

type fakeRoleResolver struct {
	roles map[string]domain.Role
	err   error
}

func (f *fakeRoleResolver) RoleOf(_ context.Context, userID string) (domain.Role, error) {
	if f.err != nil {
		return "", f.err
	}
	if role, ok := f.roles[userID]; ok {
		return role, nil
	}
	return domain.RoleMember, nil
}

const testSecret = "test-secret"

type testEnv struct {
	app    *handlers.App
	router http.Handler
	users  *fakeUserRepo
	todos  *fakeTodoRepo
	roles  *fakeRoleResolver
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	users := newFakeUserRepo()
	todos := newFakeTodoRepo(users)
	roles := &fakeRoleResolver{roles: make(map[string]domain.Role)}
	app := &handlers.App{
		Logger:             zerolog.Nop(),
		Users:              users,
		Todos:              todos,
		Roles:              roles,
		JWTSecret:          testSecret,
		WebhookSecret:      "hook-secret",
		SessionTTL:         time.Hour,
		SubscriptionPeriod: 30 * 24 * time.Hour,
	}
	router := httpapi.NewRouter(app, zerolog.Nop(), httpapi.Options{
		JWTSecret:       testSecret,
		DefaultLocale:   "en",
		RateLimitPerMin: 10000,
	})
	return &testEnv{app: app, router: router, users: users, todos: todos, roles: roles}
}

func (e *testEnv) do(t *testing.T, method, path, asUser, body string) *httptest.ResponseRecorder {
	t.Helper()
	return e.doWithLocale(t, method, path, asUser, body, "")
}

func (e *testEnv) doWithLocale(t *testing.T, method, path, asUser, body, locale string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if asUser != "" {
		token, err := middleware.SignSessionToken(testSecret, asUser, time.Hour)
		if err != nil {
			t.Fatalf("sign token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if locale != "" {
		req.Header.Set("X-Locale", locale)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}
