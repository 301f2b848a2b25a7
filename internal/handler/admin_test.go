// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/olegiv/blog-go/internal/middleware"
	"github.com/olegiv/blog-go/internal/store"
)

func TestAdminRoot_RedirectsToLogin(t *testing.T) {
	env := newTestEnv(t)
	h := NewAdminHandler(env.db, env.renderer)

	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	rec := httptest.NewRecorder()
	h.Root(rec, req)

	assertStatus(t, rec.Code, http.StatusSeeOther)
	if loc := rec.Header().Get("Location"); loc != redirectLogin {
		t.Errorf("Location = %q; want %q", loc, redirectLogin)
	}
}

func TestDashboard_GateBlocksAnonymous(t *testing.T) {
	env := newTestEnv(t)
	h := NewAdminHandler(env.db, env.renderer)

	gated := middleware.RequireIdentity(env.identity)(http.HandlerFunc(h.Dashboard))

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard/", nil)
	rec := httptest.NewRecorder()
	env.identity.LoadAndSave(gated).ServeHTTP(rec, req)

	assertStatus(t, rec.Code, http.StatusSeeOther)
	if loc := rec.Header().Get("Location"); loc != redirectLogin {
		t.Errorf("Location = %q; want %q", loc, redirectLogin)
	}
}

func TestDashboard_Counts(t *testing.T) {
	env := newTestEnv(t)
	h := NewAdminHandler(env.db, env.renderer)

	user := createTestUser(t, env, "alice", "alice@example.com", "secret-password")
	post := createTestPost(t, env, "counted", store.PostStatusPublish, user.ID)
	for range 2 {
		if err := env.queries.CreateComment(t.Context(), store.CreateCommentParams{
			Username: "bob", Email: "b@example.com", Comment: "hi", PostID: post.ID,
		}); err != nil {
			t.Fatalf("CreateComment: %v", err)
		}
	}
	if err := env.queries.CreateContact(t.Context(), store.CreateContactParams{
		TouristName: "wanderer", Email: "w@example.com", Message: "hello",
	}); err != nil {
		t.Fatalf("CreateContact: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard/", nil)
	req = requestAsUser(t, env, req, user)
	rec := httptest.NewRecorder()
	h.Dashboard(rec, req)

	assertStatus(t, rec.Code, http.StatusOK)
	body := rec.Body.String()
	if !strings.Contains(body, "alice") {
		t.Error("dashboard missing username")
	}
	if !strings.Contains(body, "comments=2") {
		t.Errorf("dashboard comment count wrong: %q", body)
	}
	if !strings.Contains(body, "messages=1") {
		t.Errorf("dashboard message count wrong: %q", body)
	}
}

func TestSubmitPost(t *testing.T) {
	env := newTestEnv(t)
	h := NewAdminHandler(env.db, env.renderer)

	user := createTestUser(t, env, "alice", "alice@example.com", "secret-password")

	req := postForm(t, env, "/admin/write_post/", url.Values{
		"title":  {"My First Post"},
		"slug":   {""},
		"body":   {"some content"},
		"status": {store.PostStatusPublish},
	})
	req = requestAsUser(t, env, req, user)
	rec := httptest.NewRecorder()
	h.SubmitPost(rec, req)

	assertStatus(t, rec.Code, http.StatusSeeOther)

	post, err := env.queries.GetPostByTitle(t.Context(), "My First Post")
	if err != nil {
		t.Fatalf("GetPostByTitle: %v", err)
	}
	if post.Slug != "my-first-post" {
		t.Errorf("blank slug not derived from title: %q", post.Slug)
	}
	if post.UserID != user.ID {
		t.Errorf("post owner = %d; want %d", post.UserID, user.ID)
	}
}

func TestSubmitPost_DuplicateTitle(t *testing.T) {
	env := newTestEnv(t)
	h := NewAdminHandler(env.db, env.renderer)

	user := createTestUser(t, env, "alice", "alice@example.com", "secret-password")
	createTestPost(t, env, "taken", store.PostStatusPublish, user.ID)

	req := postForm(t, env, "/admin/write_post/", url.Values{
		"title":  {"taken"},
		"slug":   {"taken-2"},
		"body":   {"other content"},
		"status": {store.PostStatusDraft},
	})
	req = requestAsUser(t, env, req, user)
	rec := httptest.NewRecorder()
	h.SubmitPost(rec, req)

	assertStatus(t, rec.Code, http.StatusConflict)
	if !strings.Contains(rec.Body.String(), "already exists") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestEditPostForm(t *testing.T) {
	env := newTestEnv(t)
	h := NewAdminHandler(env.db, env.renderer)

	user := createTestUser(t, env, "alice", "alice@example.com", "secret-password")
	createTestPost(t, env, "editable", store.PostStatusDraft, user.ID)

	req := requestWithURLParams(httptest.NewRequest(http.MethodGet, "/admin/editable/", nil),
		map[string]string{"title": "editable"})
	req = requestAsUser(t, env, req, user)
	rec := httptest.NewRecorder()
	h.EditPostForm(rec, req)

	assertStatus(t, rec.Code, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "edit editable") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestSavePost(t *testing.T) {
	env := newTestEnv(t)
	h := NewAdminHandler(env.db, env.renderer)

	user := createTestUser(t, env, "alice", "alice@example.com", "secret-password")
	createTestPost(t, env, "old name", store.PostStatusDraft, user.ID)

	req := postForm(t, env, "/admin/old%20name/", url.Values{
		"title":  {"new name"},
		"slug":   {""},
		"body":   {"rewritten"},
		"status": {store.PostStatusPublish},
	})
	req = requestWithURLParams(req, map[string]string{"title": "old name"})
	req = requestAsUser(t, env, req, user)
	rec := httptest.NewRecorder()
	h.SavePost(rec, req)

	assertStatus(t, rec.Code, http.StatusSeeOther)

	post, err := env.queries.GetPostByTitle(t.Context(), "new name")
	if err != nil {
		t.Fatalf("GetPostByTitle: %v", err)
	}
	if post.Body != "rewritten" || post.Status != store.PostStatusPublish {
		t.Errorf("post = %+v", post)
	}
	if post.Slug != "new-name" {
		t.Errorf("blank slug not derived from new title: %q", post.Slug)
	}
}

func TestAuthorPosts(t *testing.T) {
	env := newTestEnv(t)
	h := NewAdminHandler(env.db, env.renderer)

	alice := createTestUser(t, env, "alice", "alice@example.com", "secret-password")
	bob := createTestUser(t, env, "bob", "bob@example.com", "secret-password")
	createTestPost(t, env, "by alice", store.PostStatusDraft, alice.ID)
	createTestPost(t, env, "by bob", store.PostStatusPublish, bob.ID)

	req := httptest.NewRequest(http.MethodGet, "/admin/all_posts/", nil)
	req = requestAsUser(t, env, req, alice)
	rec := httptest.NewRecorder()
	h.AuthorPosts(rec, req)

	assertStatus(t, rec.Code, http.StatusOK)
	body := rec.Body.String()
	if !strings.Contains(body, "by alice") {
		t.Error("author's own post missing")
	}
	if strings.Contains(body, "by bob") {
		t.Error("other author's post listed")
	}
}

func TestTodayComments_GroupedByPost(t *testing.T) {
	env := newTestEnv(t)
	h := NewAdminHandler(env.db, env.renderer)

	user := createTestUser(t, env, "alice", "alice@example.com", "secret-password")
	p1 := createTestPost(t, env, "first post", store.PostStatusPublish, user.ID)
	p2 := createTestPost(t, env, "second post", store.PostStatusPublish, user.ID)

	for _, c := range []struct {
		post    store.Post
		comment string
	}{
		{p1, "on first"},
		{p2, "on second"},
		{p1, "again on first"},
	} {
		if err := env.queries.CreateComment(t.Context(), store.CreateCommentParams{
			Username: "bob", Email: "b@example.com", Comment: c.comment, PostID: c.post.ID,
		}); err != nil {
			t.Fatalf("CreateComment: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/today_comments/", nil)
	req = requestAsUser(t, env, req, user)
	rec := httptest.NewRecorder()
	h.TodayComments(rec, req)

	assertStatus(t, rec.Code, http.StatusOK)
	body := rec.Body.String()
	for _, want := range []string{"<h3>first post</h3>", "<h3>second post</h3>", "on first", "on second", "again on first"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q: %q", want, body)
		}
	}
	// both comments of the first post sit under a single heading
	if got := strings.Count(body, "<h3>first post</h3>"); got != 1 {
		t.Errorf("first post heading appears %d times; want 1", got)
	}
}

func TestGuestMessages(t *testing.T) {
	env := newTestEnv(t)
	h := NewAdminHandler(env.db, env.renderer)

	user := createTestUser(t, env, "alice", "alice@example.com", "secret-password")
	if err := env.queries.CreateContact(t.Context(), store.CreateContactParams{
		TouristName: "wanderer", Email: "w@example.com", Message: "nice blog",
	}); err != nil {
		t.Fatalf("CreateContact: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/all_guests_messages/", nil)
	req = requestAsUser(t, env, req, user)
	rec := httptest.NewRecorder()
	h.GuestMessages(rec, req)

	assertStatus(t, rec.Code, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "wanderer: nice blog") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestAboutSelf_HidesPassword(t *testing.T) {
	env := newTestEnv(t)
	h := NewAdminHandler(env.db, env.renderer)

	user := createTestUser(t, env, "alice", "alice@example.com", "secret-password")

	req := httptest.NewRequest(http.MethodGet, "/admin/about_self/", nil)
	req = requestAsUser(t, env, req, user)
	rec := httptest.NewRecorder()
	h.AboutSelf(rec, req)

	assertStatus(t, rec.Code, http.StatusOK)
	body := rec.Body.String()
	if !strings.Contains(body, "alice@example.com") {
		t.Errorf("body = %q", body)
	}
	if !strings.Contains(body, "pw=") || strings.Contains(body, "argon2id") {
		t.Error("stored hash leaked into the template")
	}
}
