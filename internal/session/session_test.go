package session

import (
	"net/http"
	"testing"

	"github.com/olegiv/blog-go/internal/testutil"
)

func TestNewVisitor(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	sm := NewVisitor(db, true)
	if sm.Lifetime != VisitorLifetime {
		t.Errorf("Lifetime = %v; want %v", sm.Lifetime, VisitorLifetime)
	}
	if sm.Cookie.Name != "blog_session" {
		t.Errorf("Cookie.Name = %q", sm.Cookie.Name)
	}
	if sm.Cookie.Path == "/admin" {
		t.Error("visitor cookie must not be admin-scoped")
	}
	if sm.Cookie.Secure {
		t.Error("dev mode should not force secure cookies")
	}
}

func TestNewIdentity(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	sm := NewIdentity(db, false)
	if sm.Lifetime != IdentityLifetime {
		t.Errorf("Lifetime = %v; want %v", sm.Lifetime, IdentityLifetime)
	}
	if sm.Cookie.Path != "/admin" {
		t.Errorf("Cookie.Path = %q; want /admin", sm.Cookie.Path)
	}
	if !sm.Cookie.HttpOnly {
		t.Error("identity cookie must be HttpOnly")
	}
	if !sm.Cookie.Secure {
		t.Error("production identity cookie must be Secure")
	}
	if sm.Cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v; want Lax", sm.Cookie.SameSite)
	}
}

func TestRememberForget(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	sm := NewIdentity(db, true)
	ctx, err := sm.Load(t.Context(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := CurrentUsername(ctx, sm); got != "" {
		t.Errorf("CurrentUsername before login = %q; want empty", got)
	}

	if err := Remember(ctx, sm, 7, "alice"); err != nil {
		t.Fatalf("Remember: %v", err)
	}
	if got := CurrentUsername(ctx, sm); got != "alice" {
		t.Errorf("CurrentUsername = %q; want alice", got)
	}
	if got := CurrentUID(ctx, sm); got != 7 {
		t.Errorf("CurrentUID = %d; want 7", got)
	}

	if err := Forget(ctx, sm); err != nil {
		t.Fatalf("Forget: %v", err)
	}
	if got := CurrentUsername(ctx, sm); got != "" {
		t.Errorf("CurrentUsername after Forget = %q; want empty", got)
	}
}

func TestArticleID(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	sm := NewVisitor(db, true)
	ctx, err := sm.Load(t.Context(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := ArticleID(ctx, sm); got != 0 {
		t.Errorf("ArticleID before viewing = %d; want 0", got)
	}
	SetArticleID(ctx, sm, 42)
	if got := ArticleID(ctx, sm); got != 42 {
		t.Errorf("ArticleID = %d; want 42", got)
	}
}
