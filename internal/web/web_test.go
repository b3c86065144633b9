package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/RaviGowdaS/InventoryManagement/internal/db"
	"github.com/RaviGowdaS/InventoryManagement/internal/items"
	"github.com/RaviGowdaS/InventoryManagement/internal/model"
	"github.com/RaviGowdaS/InventoryManagement/internal/store"
)

const testJWTSecret = "test-secret"

type testSite struct {
	handler http.Handler
	items   *items.Service
}

func setupTestSite(t *testing.T) *testSite {
	t.Helper()
	database := db.NewTestDB(t)

	handler, err := NewRouter(database, testJWTSecret, Options{})
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	ctx := context.Background()
	store.CreateUser(ctx, database, "Alice", "alice@example.com", string(hash), model.RoleUser)
	store.CreateUser(ctx, database, "Bob", "bob@example.com", string(hash), model.RoleUser)

	return &testSite{handler: handler, items: items.New(database)}
}

func (s *testSite) do(method, target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testSite) login(t *testing.T, email string) *http.Cookie {
	t.Helper()
	rec := s.do("POST", "/login", url.Values{"email": {email}, "password": {"password123"}}, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login: expected 303, got %d", rec.Code)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == tokenCookie && c.Value != "" {
			return c
		}
	}
	t.Fatal("login did not set a token cookie")
	return nil
}

func TestDashboardRequiresLogin(t *testing.T) {
	s := setupTestSite(t)

	rec := s.do("GET", "/", nil, nil)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Errorf("expected redirect to /login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = s.do("GET", "/", nil, &http.Cookie{Name: tokenCookie, Value: "bogus"})
	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected redirect for invalid cookie, got %d", rec.Code)
	}
}

func TestLoginFailureRendersError(t *testing.T) {
	s := setupTestSite(t)

	rec := s.do("POST", "/login", url.Values{"email": {"alice@example.com"}, "password": {"nope"}}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid email or password.") {
		t.Error("expected error banner in login page")
	}
}

func TestRegisterLogsIn(t *testing.T) {
	s := setupTestSite(t)

	rec := s.do("POST", "/register", url.Values{
		"name": {"Carol"}, "email": {"carol@example.com"},
		"password": {"password123"}, "confirm": {"password123"},
	}, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}

	rec = s.do("POST", "/register", url.Values{
		"name": {"Carol"}, "email": {"carol@example.com"},
		"password": {"password123"}, "confirm": {"password123"},
	}, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate email, got %d", rec.Code)
	}

	rec = s.do("POST", "/register", url.Values{
		"name": {"Dan"}, "email": {"dan@example.com"},
		"password": {"password123"}, "confirm": {"different1"},
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for mismatched passwords, got %d", rec.Code)
	}
}

func TestCreateAndListItems(t *testing.T) {
	s := setupTestSite(t)
	cookie := s.login(t, "alice@example.com")

	rec := s.do("POST", "/items", url.Values{
		"title": {"Widget"}, "category": {"Tools"}, "price": {"9.99"}, "stock": {"3"},
		"description": {"A very useful widget"}, "return_search": {"wid"},
	}, cookie)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/?search=wid" {
		t.Errorf("expected redirect back to filtered dashboard, got %q", loc)
	}

	rec = s.do("GET", "/?search=wid", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Widget", "Tools", "$9.99", "$29.97", "/items/"} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}

	rec = s.do("GET", "/?tab=charts", nil, cookie)
	if !strings.Contains(rec.Body.String(), "Stock Levels") {
		t.Error("expected charts tab to render")
	}
}

func TestCreateValidationError(t *testing.T) {
	s := setupTestSite(t)
	cookie := s.login(t, "alice@example.com")

	rec := s.do("POST", "/items", url.Values{"title": {"Widget"}, "category": {"Tools"}, "price": {"-1"}}, cookie)
	loc := rec.Header().Get("Location")
	if !strings.Contains(loc, "error=") {
		t.Fatalf("expected error in redirect, got %q", loc)
	}

	rec = s.do("GET", loc, nil, cookie)
	if !strings.Contains(rec.Body.String(), "Price must not be negative") {
		t.Error("expected validation message in banner")
	}
}

func TestEditAndDeleteOwnership(t *testing.T) {
	s := setupTestSite(t)
	alice := s.login(t, "alice@example.com")
	bob := s.login(t, "bob@example.com")

	s.do("POST", "/items", url.Values{"title": {"Widget"}, "category": {"Tools"}, "price": {"1"}}, alice)
	page, _ := s.items.List(context.Background(), model.DefaultItemFilter())
	if len(page.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(page.Items))
	}
	id := page.Items[0].ID

	if rec := s.do("GET", "/items/"+id+"/edit", nil, bob); rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-owner edit page, got %d", rec.Code)
	}
	if rec := s.do("GET", "/items/"+id+"/edit", nil, alice); rec.Code != http.StatusOK {
		t.Errorf("expected 200 for owner edit page, got %d", rec.Code)
	}

	rec := s.do("POST", "/items/"+id+"/delete", url.Values{}, bob)
	if !strings.Contains(rec.Header().Get("Location"), "Access+denied") {
		t.Errorf("expected access denied redirect, got %q", rec.Header().Get("Location"))
	}

	s.do("POST", "/items/"+id, url.Values{
		"title": {"Gadget"}, "category": {"Tools"}, "price": {"2"}, "stock": {"4"}, "isActive": {"false"},
	}, alice)
	item, err := s.items.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if item.Title != "Gadget" || item.Stock != 4 || item.IsActive {
		t.Errorf("unexpected item after update: %+v", item)
	}

	s.do("POST", "/items/"+id+"/delete", url.Values{}, alice)
	if _, err := s.items.Get(context.Background(), id); err != items.ErrNotFound {
		t.Errorf("expected item deleted, got %v", err)
	}
}

func TestLogoutRevokesCookie(t *testing.T) {
	s := setupTestSite(t)
	cookie := s.login(t, "alice@example.com")

	rec := s.do("POST", "/logout", nil, cookie)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}

	rec = s.do("GET", "/", nil, cookie)
	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected revoked cookie to be rejected, got %d", rec.Code)
	}
}

func TestDashboardURL(t *testing.T) {
	tests := []struct {
		tab  string
		f    model.ItemFilter
		page int
		want string
	}{
		{"items", model.ItemFilter{Limit: 10}, 1, "/"},
		{"charts", model.ItemFilter{Limit: 10}, 1, "/?tab=charts"},
		{"items", model.ItemFilter{Limit: 25, Category: "Tools & Parts"}, 2, "/?category=Tools+%26+Parts&limit=25&page=2"},
	}

	for _, tt := range tests {
		if got := dashboardURL(tt.tab, tt.f, tt.page, ""); got != tt.want {
			t.Errorf("dashboardURL() = %q, want %q", got, tt.want)
		}
	}
}
