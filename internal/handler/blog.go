// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler implements the HTTP handlers for the public blog and the
// admin area.
package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/blog-go/internal/render"
	"github.com/olegiv/blog-go/internal/session"
	"github.com/olegiv/blog-go/internal/store"
)

// BlogHandler handles the public-facing routes.
type BlogHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	visitor  *scs.SessionManager
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(db *sql.DB, renderer *render.Renderer, visitor *scs.SessionManager) *BlogHandler {
	return &BlogHandler{
		queries:  store.New(db),
		renderer: renderer,
		visitor:  visitor,
	}
}

// postListData is the view model for paginated post listings.
type postListData struct {
	Posts    []store.Post
	PageNum  int
	LastPage bool
}

// Index renders the first page of published posts.
func (h *BlogHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderListing(w, r, 1)
}

// Page renders the n-th page of published posts. The page number is the
// only input; nothing about the current position is kept server-side.
func (h *BlogHandler) Page(w http.ResponseWriter, r *http.Request) {
	num, err := strconv.Atoi(chi.URLParam(r, "num"))
	if err != nil || num < 1 {
		h.NotFound(w, r)
		return
	}
	h.renderListing(w, r, num)
}

func (h *BlogHandler) renderListing(w http.ResponseWriter, r *http.Request, pageNum int) {
	posts, err := h.queries.ListPosts(r.Context(), store.PostFilterPublished)
	if err != nil {
		logAndInternalError(w, "listing posts", "error", err)
		return
	}

	page := paginate(len(posts), pageNum, postsPerPage)
	renderPage(w, r, h.renderer, "public/index", render.TemplateData{
		Title: "Blog",
		Data: postListData{
			Posts:    posts[page.Start:page.End],
			PageNum:  pageNum,
			LastPage: page.LastPage,
		},
	})
}

// postDetailData is the view model for a single post page.
type postDetailData struct {
	Post     store.Post
	Comments []store.Comment
}

// PostDetail renders a single post with its comments and records the post
// id in the visitor session so follow-up comments and likes know their target.
func (h *BlogHandler) PostDetail(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "title")
	if decoded, err := url.PathUnescape(title); err == nil {
		title = decoded
	}

	post, err := h.queries.GetPostByTitle(r.Context(), title)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.NotFound(w, r)
			return
		}
		logAndInternalError(w, "loading post", "title", title, "error", err)
		return
	}

	session.SetArticleID(r.Context(), h.visitor, post.ID)

	comments, err := h.queries.ListCommentsByPost(r.Context(), post.ID)
	if err != nil {
		// The post is still worth showing without its comments.
		slog.Error("loading comments", "post_id", post.ID, "error", err)
		comments = nil
	}

	renderPage(w, r, h.renderer, "public/post_detail", render.TemplateData{
		Title: post.Title,
		Data:  postDetailData{Post: post, Comments: comments},
	})
}

// Year renders the published posts of a single year.
func (h *BlogHandler) Year(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		h.NotFound(w, r)
		return
	}

	posts, err := h.queries.ListPostsByYear(r.Context(), year)
	if err != nil {
		logAndInternalError(w, "listing posts by year", "year", year, "error", err)
		return
	}

	renderPage(w, r, h.renderer, "public/all_posts", render.TemplateData{
		Title: strconv.Itoa(year),
		Data:  postListData{Posts: posts, PageNum: 1, LastPage: true},
	})
}

// AllPosts renders every published post.
func (h *BlogHandler) AllPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.queries.ListPosts(r.Context(), store.PostFilterPublished)
	if err != nil {
		logAndInternalError(w, "listing posts", "error", err)
		return
	}

	renderPage(w, r, h.renderer, "public/all_posts", render.TemplateData{
		Title: "All posts",
		Data:  postListData{Posts: posts, PageNum: 1, LastPage: true},
	})
}

// searchData is the view model for search results.
type searchData struct {
	KeyWord string
	Posts   []store.Post
}

// Search matches the submitted keyword case-insensitively against the
// bodies of published posts. An empty result set is a normal outcome, and a
// keyword that fails to compile as a regular expression is matched literally.
func (h *BlogHandler) Search(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	keyword := r.FormValue("key_word")

	posts, err := h.queries.ListPosts(r.Context(), store.PostFilterPublished)
	if err != nil {
		logAndInternalError(w, "listing posts", "error", err)
		return
	}

	re, err := regexp.Compile("(?i)" + keyword)
	if err != nil {
		re = regexp.MustCompile("(?i)" + regexp.QuoteMeta(keyword))
	}

	var matches []store.Post
	for _, p := range posts {
		if re.MatchString(p.Body) {
			matches = append(matches, p)
		}
	}

	renderPage(w, r, h.renderer, "public/search", render.TemplateData{
		Title: "Search",
		Data:  searchData{KeyWord: keyword, Posts: matches},
	})
}

// About renders the static about page.
func (h *BlogHandler) About(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, "public/about", render.TemplateData{Title: "About"})
}

// Contact renders the contact form page.
func (h *BlogHandler) Contact(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, "public/contact", render.TemplateData{Title: "Contact"})
}

// NotFound renders the 404 page.
func (h *BlogHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	renderStatus(w, r, h.renderer, http.StatusNotFound, "public/404", render.TemplateData{
		Title: "Not found",
	})
}

// commentRequest is the AJAX payload for AddComment.
type commentRequest struct {
	Comment  string `json:"comment"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AddComment stores a comment for the post recorded in the visitor session.
// Without a viewed post in the session the request is rejected.
func (h *BlogHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONBool(w, http.StatusBadRequest, false)
		return
	}

	postID := session.ArticleID(r.Context(), h.visitor)
	if postID == 0 {
		writeJSONBool(w, http.StatusBadRequest, false)
		return
	}

	err := h.queries.CreateComment(r.Context(), store.CreateCommentParams{
		Username: req.Username,
		Email:    req.Email,
		Comment:  req.Comment,
		PostID:   postID,
	})
	if err != nil {
		slog.Error("creating comment", "post_id", postID, "error", err)
		writeJSONBool(w, http.StatusInternalServerError, false)
		return
	}

	writeJSONBool(w, http.StatusOK, true)
}

// contactRequest is the AJAX payload for AddContact.
type contactRequest struct {
	TouristName string `json:"tourist_name"`
	Email       string `json:"email"`
	Message     string `json:"message"`
}

// AddContact stores a guest message. No session state is required.
func (h *BlogHandler) AddContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONBool(w, http.StatusBadRequest, false)
		return
	}

	err := h.queries.CreateContact(r.Context(), store.CreateContactParams{
		TouristName: req.TouristName,
		Email:       req.Email,
		Message:     req.Message,
	})
	if err != nil {
		slog.Error("creating contact", "error", err)
		writeJSONBool(w, http.StatusInternalServerError, false)
		return
	}

	writeJSONBool(w, http.StatusOK, true)
}

// likesRequest is the AJAX payload for Likes.
type likesRequest struct {
	LikesCount int64 `json:"likes_count"`
}

// Likes overwrites the like counter of the post recorded in the visitor
// session with the submitted value. The client owns the count.
func (h *BlogHandler) Likes(w http.ResponseWriter, r *http.Request) {
	var req likesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONBool(w, http.StatusBadRequest, false)
		return
	}

	postID := session.ArticleID(r.Context(), h.visitor)
	if postID == 0 {
		writeJSONBool(w, http.StatusBadRequest, false)
		return
	}

	if err := h.queries.UpdatePostLikes(r.Context(), req.LikesCount, postID); err != nil {
		slog.Error("updating likes", "post_id", postID, "error", err)
		writeJSONBool(w, http.StatusInternalServerError, false)
		return
	}

	writeJSONBool(w, http.StatusOK, true)
}
