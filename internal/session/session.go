// Package session configures the two cookie-backed stores: the visitor
// session (currently viewed article, flash messages) and the admin identity
// (authenticated username), which is path-scoped to /admin.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Cookie lifetimes. The visitor session is short-lived; the admin identity
// lasts a full hour from issuance.
const (
	VisitorLifetime  = 30 * time.Minute
	IdentityLifetime = 60 * time.Minute
)

// Keys stored in the visitor session.
const (
	KeyArticleID = "article_id"
)

// Keys stored in the admin identity.
const (
	KeyUsername = "username"
	KeyUserID   = "uid"
)

// NewVisitor creates the session manager for public visitors.
func NewVisitor(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)
	sm.Lifetime = VisitorLifetime
	sm.Cookie.Name = "blog_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev
	return sm
}

// NewIdentity creates the session manager carrying the authenticated admin
// username. The cookie is scoped to /admin so it is never sent with public
// requests.
func NewIdentity(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)
	sm.Lifetime = IdentityLifetime
	sm.Cookie.Name = "blog_identity"
	sm.Cookie.Path = "/admin"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev
	return sm
}

// Remember records a successful authentication. The token is renewed first to
// prevent session fixation.
func Remember(ctx context.Context, identity *scs.SessionManager, uid int64, username string) error {
	if err := identity.RenewToken(ctx); err != nil {
		return err
	}
	identity.Put(ctx, KeyUserID, uid)
	identity.Put(ctx, KeyUsername, username)
	return nil
}

// Forget clears the identity, forcing the next admin request to log in again.
func Forget(ctx context.Context, identity *scs.SessionManager) error {
	return identity.Destroy(ctx)
}

// CurrentUsername returns the authenticated username, or "" when absent.
func CurrentUsername(ctx context.Context, identity *scs.SessionManager) string {
	return identity.GetString(ctx, KeyUsername)
}

// CurrentUID returns the authenticated user id, or 0 when absent.
func CurrentUID(ctx context.Context, identity *scs.SessionManager) int64 {
	return identity.GetInt64(ctx, KeyUserID)
}

// ArticleID returns the post id of the article the visitor is viewing, or 0.
func ArticleID(ctx context.Context, visitor *scs.SessionManager) int64 {
	return visitor.GetInt64(ctx, KeyArticleID)
}

// SetArticleID records the post the visitor is viewing so that a later
// comment or like can be attributed to it.
func SetArticleID(ctx context.Context, visitor *scs.SessionManager, postID int64) {
	visitor.Put(ctx, KeyArticleID, postID)
}
