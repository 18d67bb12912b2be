package auth

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"

	"cafehub/internals/models"
)

const currUserKey = "curr_user"

type ctxKey int

const userCtxKey ctxKey = 0

// UserStore is the lookup the session manager needs to turn a stored
// id back into a user.
type UserStore interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// Manager keeps the authenticated user id in a signed session cookie
// and resolves it once per request.
type Manager struct {
	store *sessions.CookieStore
	users UserStore
	name  string
}

func NewManager(secretKey, cookieName string, users UserStore) *Manager {
	store := sessions.NewCookieStore([]byte(secretKey))
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode
	return &Manager{store: store, users: users, name: cookieName}
}

// Login stores the user's id in the session.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, user *models.User) error {
	session, _ := m.store.Get(r, m.name)
	session.Values[currUserKey] = user.ID
	return session.Save(r, w)
}

// Logout removes the stored id, returning the session to anonymous.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, m.name)
	delete(session.Values, currUserKey)
	return session.Save(r, w)
}

// Flash queues a one-shot message for the next rendered page.
func (m *Manager) Flash(w http.ResponseWriter, r *http.Request, message string) error {
	session, _ := m.store.Get(r, m.name)
	session.AddFlash(message)
	return session.Save(r, w)
}

// Flashes drains and returns any queued messages.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []string {
	session, _ := m.store.Get(r, m.name)
	raw := session.Flashes()
	if len(raw) > 0 {
		// Reading flashes consumes them; persist the drained session.
		session.Save(r, w)
	}
	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			messages = append(messages, s)
		}
	}
	return messages
}

// Middleware resolves the session's user id against the store and
// threads the user through the request context. A stale or missing id
// leaves the request anonymous.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, _ := m.store.Get(r, m.name)
		if id, ok := session.Values[currUserKey].(int); ok {
			if user, err := m.users.GetByID(r.Context(), id); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), userCtxKey, user))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentUser returns the user resolved by Middleware, or nil for an
// anonymous request.
func CurrentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userCtxKey).(*models.User)
	return user
}

// RequireLogin redirects anonymous requests to the login page.
func (m *Manager) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentUser(r) == nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
