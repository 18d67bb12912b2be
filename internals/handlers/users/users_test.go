package users_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafehub/internals/auth"
	"cafehub/internals/handlers"
	"cafehub/internals/models"
	"cafehub/internals/storage"
)

func newTestApp(t *testing.T) (*mux.Router, *sql.DB) {
	t.Helper()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, storage.Migrate(db))
	t.Cleanup(func() { db.Close() })

	sm := auth.NewManager("test-secret", "cafehub_session", storage.NewUserRepository(db))
	return handlers.NewRouter(db, sm), db
}

func do(t *testing.T, router *mux.Router, method, path string, body map[string]string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// sessionCookies keeps only the last Set-Cookie per name; a handler
// that saves the session twice in one request sends two headers and
// the later one wins.
func sessionCookies(res *http.Response) []*http.Cookie {
	byName := map[string]*http.Cookie{}
	var names []string
	for _, c := range res.Cookies() {
		if _, seen := byName[c.Name]; !seen {
			names = append(names, c.Name)
		}
		byName[c.Name] = c
	}
	cookies := make([]*http.Cookie, 0, len(names))
	for _, name := range names {
		cookies = append(cookies, byName[name])
	}
	return cookies
}

func createUser(t *testing.T, db *sql.DB) *models.User {
	t.Helper()
	hashed, err := auth.HashPassword("secret")
	require.NoError(t, err)
	user := &models.User{
		Username:       "test",
		Email:          "test@test.com",
		FirstName:      "Testy",
		LastName:       "MacTest",
		Description:    "Test Description.",
		ImageURL:       models.DefaultUserImage,
		HashedPassword: hashed,
	}
	require.NoError(t, storage.NewUserRepository(db).Create(context.Background(), user))
	return user
}

func login(t *testing.T, router *mux.Router) []*http.Cookie {
	t.Helper()
	rec := do(t, router, "POST", "/login", map[string]string{
		"username": "test",
		"password": "secret",
	}, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	return sessionCookies(rec.Result())
}

var signupData = map[string]string{
	"username":    "new-username",
	"first_name":  "new-fn",
	"last_name":   "new-ln",
	"description": "new-description",
	"password":    "secret",
	"email":       "new-email@test.com",
	"image_url":   "http://new-image.com",
}

func TestSignupCreatesUserAndLogsIn(t *testing.T) {
	router, db := newTestApp(t)

	rec := do(t, router, "POST", "/signup", signupData, nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/cafes", rec.Header().Get("Location"))

	user, err := storage.NewUserRepository(db).GetByUsername(context.Background(), "new-username")
	require.NoError(t, err)
	assert.Equal(t, "$2a$", user.HashedPassword[:4])

	// The response cookie carries an authenticated session.
	cookies := sessionCookies(rec.Result())
	profile := do(t, router, "GET", "/profile", nil, cookies)
	assert.Equal(t, http.StatusOK, profile.Code)
	assert.Contains(t, profile.Body.String(), "new-username")
	assert.Contains(t, profile.Body.String(), "new-fn new-ln")
}

func TestSignupDuplicateUsername(t *testing.T) {
	router, db := newTestApp(t)
	createUser(t, db)

	data := map[string]string{}
	for k, v := range signupData {
		data[k] = v
	}
	data["username"] = "test"

	rec := do(t, router, "POST", "/signup", data, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Username already taken")
	assert.Empty(t, rec.Result().Cookies())

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSignupValidation(t *testing.T) {
	router, _ := newTestApp(t)

	rec := do(t, router, "POST", "/signup", map[string]string{
		"username":   "new-username",
		"first_name": "new-fn",
		"last_name":  "new-ln",
		"password":   "abc",
		"email":      "not-an-email",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "password")
	assert.Contains(t, rec.Body.String(), "Invalid email address.")
}

func TestLogin(t *testing.T) {
	router, db := newTestApp(t)
	createUser(t, db)

	rec := do(t, router, "GET", "/login", nil, nil)
	assert.Contains(t, rec.Body.String(), "Welcome Back!")

	rec = do(t, router, "POST", "/login", map[string]string{
		"username": "test",
		"password": "WRONG",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials.")

	rec = do(t, router, "POST", "/login", map[string]string{
		"username": "test",
		"password": "secret",
	}, nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/cafes", rec.Header().Get("Location"))

	// The greeting flash shows on the next page view.
	list := do(t, router, "GET", "/cafes", nil, sessionCookies(rec.Result()))
	assert.Equal(t, http.StatusOK, list.Code)
	assert.Contains(t, list.Body.String(), "Hello, test!")
}

func TestLoginUnknownUser(t *testing.T) {
	router, _ := newTestApp(t)

	rec := do(t, router, "POST", "/login", map[string]string{
		"username": "no-such-user",
		"password": "secret",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials.")
}

func TestLogout(t *testing.T) {
	router, db := newTestApp(t)
	createUser(t, db)
	cookies := login(t, router)

	rec := do(t, router, "POST", "/logout", nil, cookies)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	loggedOut := sessionCookies(rec.Result())
	home := do(t, router, "GET", "/", nil, loggedOut)
	assert.Contains(t, home.Body.String(), "You have successfully logged out.")

	profile := do(t, router, "GET", "/profile", nil, loggedOut)
	assert.Equal(t, http.StatusFound, profile.Code)
	assert.Equal(t, "/login", profile.Header().Get("Location"))
}

func TestAnonymousProfileRedirectsToLogin(t *testing.T) {
	router, _ := newTestApp(t)

	for _, path := range []string{"/profile", "/profile/edit"} {
		rec := do(t, router, "GET", path, nil, nil)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	}
}

func TestProfileEdit(t *testing.T) {
	router, db := newTestApp(t)
	user := createUser(t, db)
	cookies := login(t, router)

	rec := do(t, router, "POST", "/profile/edit", map[string]string{
		"first_name":  "new-fn",
		"last_name":   "new-ln",
		"description": "new-description",
		"email":       "new-email@test.com",
		"image_url":   "",
	}, cookies)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/profile", rec.Header().Get("Location"))

	got, err := storage.NewUserRepository(db).GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-fn", got.FirstName)
	assert.Equal(t, "new-email@test.com", got.Email)
	// Blank image_url falls back to the default picture.
	assert.Equal(t, models.DefaultUserImage, got.ImageURL)
}

func TestProfileEditValidation(t *testing.T) {
	router, db := newTestApp(t)
	createUser(t, db)
	cookies := login(t, router)

	rec := do(t, router, "POST", "/profile/edit", map[string]string{
		"first_name": "new-fn",
		"email":      "new-email@test.com",
	}, cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "last_name")
}
