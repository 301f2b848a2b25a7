package handler

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"testing/fstest"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/blog-go/internal/auth"
	"github.com/olegiv/blog-go/internal/middleware"
	"github.com/olegiv/blog-go/internal/render"
	"github.com/olegiv/blog-go/internal/session"
	"github.com/olegiv/blog-go/internal/store"
	"github.com/olegiv/blog-go/internal/testutil"
)

// testTemplatesFS covers every page the handlers render, with just enough
// markup to prove the view models are wired through.
var testTemplatesFS = fstest.MapFS{
	"layouts/base.html": &fstest.MapFile{
		Data: []byte(`{{define "base"}}{{template "flash" .}}{{template "content" .}}{{end}}`),
	},
	"partials/flash.html": &fstest.MapFile{
		Data: []byte(`{{define "flash"}}{{if .Flash}}[{{.FlashType}}] {{.Flash}}{{end}}{{end}}`),
	},
	"public/index.html": &fstest.MapFile{
		Data: []byte(`{{define "content"}}page {{.Data.PageNum}}{{range .Data.Posts}} <h2>{{.Title}}</h2>{{end}}{{if .Data.LastPage}} LAST{{end}}{{end}}`),
	},
	"public/post_detail.html": &fstest.MapFile{
		Data: []byte(`{{define "content"}}<h1>{{.Data.Post.Title}}</h1>{{range .Data.Comments}}<p>{{.Comment}}</p>{{end}}{{end}}`),
	},
	"public/all_posts.html": &fstest.MapFile{
		Data: []byte(`{{define "content"}}{{range .Data.Posts}}<h2>{{.Title}}</h2>{{end}}{{end}}`),
	},
	"public/search.html": &fstest.MapFile{
		Data: []byte(`{{define "content"}}results for {{.Data.KeyWord}}:{{range .Data.Posts}} {{.Title}}{{end}}{{end}}`),
	},
	"public/about.html":   &fstest.MapFile{Data: []byte(`{{define "content"}}about{{end}}`)},
	"public/contact.html": &fstest.MapFile{Data: []byte(`{{define "content"}}contact{{end}}`)},
	"public/404.html":     &fstest.MapFile{Data: []byte(`{{define "content"}}not found{{end}}`)},
	"admin/login.html": &fstest.MapFile{
		Data: []byte(`{{define "content"}}login{{with .Data}} error={{.Error}}{{end}}{{end}}`),
	},
	"admin/register.html": &fstest.MapFile{
		Data: []byte(`{{define "content"}}register{{with .Data}} error={{.Error}}{{end}}{{end}}`),
	},
	"admin/dashboard.html": &fstest.MapFile{
		Data: []byte(`{{define "content"}}{{.Data.Username}} comments={{.Data.TodayComments}} messages={{.Data.GuestMessages}}{{end}}`),
	},
	"admin/write_post.html": &fstest.MapFile{
		Data: []byte(`{{define "content"}}write{{with .Data}} error={{.Error}}{{end}}{{end}}`),
	},
	"admin/modify_post.html": &fstest.MapFile{
		Data: []byte(`{{define "content"}}edit {{.Data.Post.Title}}{{with .Data}} error={{.Error}}{{end}}{{end}}`),
	},
	"admin/reset_password.html": &fstest.MapFile{
		Data: []byte(`{{define "content"}}reset{{with .Data}} error={{.Error}}{{end}}{{end}}`),
	},
	"admin/all_posts.html": &fstest.MapFile{
		Data: []byte(`{{define "content"}}{{.Data.Username}}:{{range .Data.Posts}} {{.Title}}{{end}}{{end}}`),
	},
	"admin/today_comments.html": &fstest.MapFile{
		Data: []byte(`{{define "content"}}{{range .Data}}<h3>{{.Title}}</h3>{{range .Comments}}<p>{{.Comment}}</p>{{end}}{{end}}{{end}}`),
	},
	"admin/guest_messages.html": &fstest.MapFile{
		Data: []byte(`{{define "content"}}{{range .Data}}<p>{{.TouristName}}: {{.Message}}</p>{{end}}{{end}}`),
	},
	"admin/self_info.html": &fstest.MapFile{
		Data: []byte(`{{define "content"}}{{.Data.Username}} {{.Data.Email}} pw={{.Data.Password}}{{end}}`),
	},
}

// testEnv bundles everything a handler test needs.
type testEnv struct {
	db       *sql.DB
	queries  *store.Queries
	renderer *render.Renderer
	visitor  *scs.SessionManager
	identity *scs.SessionManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	visitor := session.NewVisitor(db, true)
	identity := session.NewIdentity(db, true)

	renderer, err := render.New(render.Config{
		TemplatesFS:    testTemplatesFS,
		SessionManager: visitor,
		IsDev:          true,
	})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	return &testEnv{
		db:       db,
		queries:  store.New(db),
		renderer: renderer,
		visitor:  visitor,
		identity: identity,
	}
}

// createTestUser inserts a user with a real argon2id hash for password.
func createTestUser(t *testing.T, env *testEnv, username, email, password string) store.User {
	t.Helper()

	hashed, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	u, err := env.queries.CreateUser(t.Context(), store.CreateUserParams{
		Username:   username,
		Email:      email,
		Password:   hashed,
		FirstName:  "Test",
		LastName:   "User",
		IsStaff:    true,
		DateJoined: time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

// createTestPost inserts a post for the given author.
func createTestPost(t *testing.T, env *testEnv, title, status string, userID int64) store.Post {
	t.Helper()

	p, err := env.queries.CreatePost(t.Context(), store.CreatePostParams{
		Title:  title,
		Slug:   title,
		Body:   "body of " + title,
		Status: status,
		UserID: userID,
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	return p
}

// requestWithURLParams adds chi URL parameters to a request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// requestWithSessions loads fresh visitor and identity session data into the
// request context, mirroring the LoadAndSave middleware pair in production.
func requestWithSessions(t *testing.T, env *testEnv, r *http.Request) *http.Request {
	t.Helper()

	ctx, err := env.visitor.Load(r.Context(), "")
	if err != nil {
		t.Fatalf("loading visitor session: %v", err)
	}
	ctx, err = env.identity.Load(ctx, "")
	if err != nil {
		t.Fatalf("loading identity session: %v", err)
	}
	return r.WithContext(ctx)
}

// requestAsUser additionally injects the identity context the gate would set.
func requestAsUser(t *testing.T, env *testEnv, r *http.Request, u store.User) *http.Request {
	t.Helper()

	r = requestWithSessions(t, env, r)
	if err := session.Remember(r.Context(), env.identity, u.ID, u.Username); err != nil {
		t.Fatalf("Remember: %v", err)
	}
	ctx := context.WithValue(r.Context(), middleware.ContextKeyUsername, u.Username)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserID, u.ID)
	return r.WithContext(ctx)
}

// assertStatus checks if the response status code matches the expected value.
func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d; want %d", got, want)
	}
}
