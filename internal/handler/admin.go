// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/blog-go/internal/middleware"
	"github.com/olegiv/blog-go/internal/render"
	"github.com/olegiv/blog-go/internal/store"
	"github.com/olegiv/blog-go/internal/util"
)

// AdminHandler handles the gated admin routes.
type AdminHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *sql.DB, renderer *render.Renderer) *AdminHandler {
	return &AdminHandler{
		queries:  store.New(db),
		renderer: renderer,
	}
}

// Root redirects the bare /admin/ path to the login page.
func (h *AdminHandler) Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, redirectLogin, http.StatusSeeOther)
}

// dashboardData is the view model for the dashboard page.
type dashboardData struct {
	Username      string
	TodayComments int
	GuestMessages int
}

// Dashboard shows today's activity. The counts are independent conveniences;
// if one of the queries fails the dashboard still renders with that count
// at zero.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := dashboardData{Username: middleware.Username(r)}

	if comments, err := h.queries.ListTodayComments(r.Context()); err != nil {
		slog.Error("counting today's comments", "error", err)
	} else {
		data.TodayComments = len(comments)
	}

	if contacts, err := h.queries.ListContacts(r.Context()); err != nil {
		slog.Error("counting guest messages", "error", err)
	} else {
		data.GuestMessages = len(contacts)
	}

	renderPage(w, r, h.renderer, "admin/dashboard", render.TemplateData{
		Title: "Dashboard",
		Data:  data,
	})
}

// postFormData is the view model for the write and edit forms.
type postFormData struct {
	Error string
	Post  store.Post
	Edit  bool
}

// WritePostForm renders the new post form.
func (h *AdminHandler) WritePostForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, "admin/write_post", render.TemplateData{
		Title: "Write post",
		Data:  postFormData{},
	})
}

// SubmitPost creates a new post owned by the logged-in admin. A blank slug
// is derived from the title.
func (h *AdminHandler) SubmitPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	title := r.FormValue("title")
	slug := r.FormValue("slug")
	if slug == "" {
		slug = util.Slugify(title)
	}

	_, err := h.queries.CreatePost(r.Context(), store.CreatePostParams{
		Title:  title,
		Slug:   slug,
		Body:   r.FormValue("body"),
		Status: r.FormValue("status"),
		UserID: middleware.UserID(r),
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			renderStatus(w, r, h.renderer, http.StatusConflict, "admin/write_post", render.TemplateData{
				Title: "Write post",
				Data: postFormData{
					Error: "A post with this title already exists",
					Post:  store.Post{Title: title, Slug: slug, Body: r.FormValue("body"), Status: r.FormValue("status")},
				},
			})
			return
		}
		logAndInternalError(w, "creating post", "title", title, "error", err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectDashboard, "Post created")
}

// EditPostForm renders the edit form prefilled with an existing post.
func (h *AdminHandler) EditPostForm(w http.ResponseWriter, r *http.Request) {
	title := editTitle(r)

	post, err := h.queries.GetPostByTitle(r.Context(), title)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		logAndInternalError(w, "loading post", "title", title, "error", err)
		return
	}

	renderPage(w, r, h.renderer, "admin/modify_post", render.TemplateData{
		Title: "Edit post",
		Data:  postFormData{Post: post, Edit: true},
	})
}

// SavePost updates a post addressed by its pre-edit title.
func (h *AdminHandler) SavePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	oldTitle := editTitle(r)
	title := r.FormValue("title")
	slug := r.FormValue("slug")
	if slug == "" {
		slug = util.Slugify(title)
	}

	err := h.queries.UpdatePostByTitle(r.Context(), store.UpdatePostParams{
		OldTitle: oldTitle,
		Title:    title,
		Slug:     slug,
		Body:     r.FormValue("body"),
		Status:   r.FormValue("status"),
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.NotFound(w, r)
		return
	case errors.Is(err, store.ErrConflict):
		renderStatus(w, r, h.renderer, http.StatusConflict, "admin/modify_post", render.TemplateData{
			Title: "Edit post",
			Data: postFormData{
				Error: "A post with this title already exists",
				Post:  store.Post{Title: oldTitle, Slug: slug, Body: r.FormValue("body"), Status: r.FormValue("status")},
				Edit:  true,
			},
		})
		return
	case err != nil:
		logAndInternalError(w, "updating post", "title", oldTitle, "error", err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectDashboard, "Post updated")
}

// authorPostsData is the view model for the author's post listing.
type authorPostsData struct {
	Username string
	Posts    []store.Post
}

// AuthorPosts lists every post written by the logged-in admin, drafts
// included.
func (h *AdminHandler) AuthorPosts(w http.ResponseWriter, r *http.Request) {
	username := middleware.Username(r)

	posts, err := h.queries.ListPostsByAuthor(r.Context(), username)
	if err != nil {
		logAndInternalError(w, "listing author posts", "username", username, "error", err)
		return
	}

	renderPage(w, r, h.renderer, "admin/all_posts", render.TemplateData{
		Title: "My posts",
		Data:  authorPostsData{Username: username, Posts: posts},
	})
}

// PostComments groups one post's share of today's comments.
type PostComments struct {
	Title    string
	Comments []store.Comment
}

// TodayComments shows today's comments grouped under the title of the post
// they belong to.
func (h *AdminHandler) TodayComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.queries.ListTodayComments(r.Context())
	if err != nil {
		logAndInternalError(w, "listing today's comments", "error", err)
		return
	}

	groups, err := h.groupByPost(r, comments)
	if err != nil {
		logAndInternalError(w, "loading commented posts", "error", err)
		return
	}

	renderPage(w, r, h.renderer, "admin/today_comments", render.TemplateData{
		Title: "Today's comments",
		Data:  groups,
	})
}

// groupByPost resolves the post titles for a batch of comments and groups
// the comments under them, preserving post order.
func (h *AdminHandler) groupByPost(r *http.Request, comments []store.Comment) ([]PostComments, error) {
	var ids []int64
	seen := make(map[int64]bool)
	for _, c := range comments {
		if !seen[c.PostID] {
			seen[c.PostID] = true
			ids = append(ids, c.PostID)
		}
	}

	posts, err := h.queries.ListPostsByIDs(r.Context(), ids)
	if err != nil {
		return nil, err
	}

	groups := make([]PostComments, 0, len(posts))
	for _, p := range posts {
		g := PostComments{Title: p.Title}
		for _, c := range comments {
			if c.PostID == p.ID {
				g.Comments = append(g.Comments, c)
			}
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// GuestMessages lists every message left through the contact form.
func (h *AdminHandler) GuestMessages(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.queries.ListContacts(r.Context())
	if err != nil {
		logAndInternalError(w, "listing guest messages", "error", err)
		return
	}

	renderPage(w, r, h.renderer, "admin/guest_messages", render.TemplateData{
		Title: "Guest messages",
		Data:  contacts,
	})
}

// AboutSelf shows the logged-in admin's own account details. The stored
// hash never reaches the template.
func (h *AdminHandler) AboutSelf(w http.ResponseWriter, r *http.Request) {
	username := middleware.Username(r)

	user, err := h.queries.GetUserByNameOrEmail(r.Context(), username)
	if err != nil {
		logAndInternalError(w, "loading account", "username", username, "error", err)
		return
	}
	user.Password = ""

	renderPage(w, r, h.renderer, "admin/self_info", render.TemplateData{
		Title: "My account",
		Data:  user,
	})
}

// editTitle extracts and decodes the {title} route parameter.
func editTitle(r *http.Request) string {
	title := chi.URLParam(r, "title")
	if decoded, err := url.PathUnescape(title); err == nil {
		title = decoded
	}
	return title
}
