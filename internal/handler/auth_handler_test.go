package handler_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/ezopovv/WEBDEV-Light-Blog-with-users/internal/db"
	"github.com/ezopovv/WEBDEV-Light-Blog-with-users/internal/router"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testAdminID = 1

var ginOnce sync.Once

func setupHandlerTestDB(t *testing.T) func() {
	t.Helper()

	ginOnce.Do(func() {
		gin.SetMode(gin.TestMode)
	})

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.User{}, &db.Post{}, &db.Comment{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	db.DB = gdb

	return func() {
		sqlDB, err := db.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func seedUser(t *testing.T, name, email, password string) *db.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := db.User{Name: name, Email: email, Password: string(hashed)}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}
	return &user
}

func postForm(r http.Handler, path string, values url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func getPath(r http.Handler, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// loginAs 通过登录接口换取会话 Cookie
func loginAs(t *testing.T, r http.Handler, email, password string) []*http.Cookie {
	t.Helper()
	w := postForm(r, "/login", url.Values{"email": {email}, "password": {password}}, nil)
	if w.Code != http.StatusFound {
		t.Fatalf("login as %s failed with status %d", email, w.Code)
	}
	return w.Result().Cookies()
}

func TestRegisterCreatesUserAndRedirects(t *testing.T) {
	cleanup := setupHandlerTestDB(t)
	defer cleanup()

	r := router.SetupRouter("test-secret", testAdminID)
	w := postForm(r, "/register", url.Values{
		"name":     {"Alice"},
		"email":    {"alice@example.com"},
		"password": {"pw1"},
	}, nil)

	if w.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", w.Code)
	}
	if location := w.Header().Get("Location"); location != "/" {
		t.Fatalf("expected redirect to /, got %q", location)
	}

	var user db.User
	if err := db.DB.Where("email = ?", "alice@example.com").First(&user).Error; err != nil {
		t.Fatalf("expected user row: %v", err)
	}
	if user.Password == "pw1" {
		t.Fatal("raw password must not be stored")
	}
}

func TestRegisterDuplicateEmailRedirectsToLogin(t *testing.T) {
	cleanup := setupHandlerTestDB(t)
	defer cleanup()

	seedUser(t, "Alice", "alice@example.com", "pw1")

	r := router.SetupRouter("test-secret", testAdminID)
	w := postForm(r, "/register", url.Values{
		"name":     {"Impostor"},
		"email":    {"alice@example.com"},
		"password": {"pw2"},
	}, nil)

	if w.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", w.Code)
	}
	if location := w.Header().Get("Location"); location != "/login" {
		t.Fatalf("expected redirect to /login, got %q", location)
	}

	var count int64
	db.DB.Model(&db.User{}).Where("email = ?", "alice@example.com").Count(&count)
	if count != 1 {
		t.Fatalf("duplicate registration must not add a row, got %d", count)
	}
}

func TestRegisterValidationErrorsRerenderForm(t *testing.T) {
	cleanup := setupHandlerTestDB(t)
	defer cleanup()

	r := router.SetupRouter("test-secret", testAdminID)
	w := postForm(r, "/register", url.Values{
		"name":     {"Alice"},
		"email":    {"not-an-email"},
		"password": {"pw1"},
	}, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Enter a valid email address.") {
		t.Fatal("expected inline email error on the form")
	}

	var count int64
	db.DB.Model(&db.User{}).Count(&count)
	if count != 0 {
		t.Fatalf("validation failure must not commit, got %d rows", count)
	}
}

func TestLoginJourney(t *testing.T) {
	cleanup := setupHandlerTestDB(t)
	defer cleanup()

	r := router.SetupRouter("test-secret", testAdminID)

	// register("A","a@x.com","pw1")
	if w := postForm(r, "/register", url.Values{
		"name":     {"A"},
		"email":    {"a@x.com"},
		"password": {"pw1"},
	}, nil); w.Code != http.StatusFound {
		t.Fatalf("registration failed with status %d", w.Code)
	}

	// 注册后并未自动登录
	if w := getPath(r, "/logout", nil); w.Header().Get("Location") != "/login" {
		t.Fatalf("expected anonymous logout to redirect to /login, got %q", w.Header().Get("Location"))
	}

	// login succeeds
	cookies := loginAs(t, r, "a@x.com", "pw1")

	// logout tears the session down
	w := getPath(r, "/logout", cookies)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Fatalf("expected logout redirect to /, got %d %q", w.Code, w.Header().Get("Location"))
	}

	// wrong password keeps the session anonymous and surfaces the notice
	w = postForm(r, "/login", url.Values{"email": {"a@x.com"}, "password": {"wrong"}}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Incorrect password. Please try again.") {
		t.Fatal("expected incorrect-password notice")
	}

	// with the failed-login cookies the caller is still anonymous
	w = getPath(r, "/new-post", w.Result().Cookies())
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 for anonymous caller, got %d", w.Code)
	}
}

func TestLoginUnknownEmailShowsNotice(t *testing.T) {
	cleanup := setupHandlerTestDB(t)
	defer cleanup()

	r := router.SetupRouter("test-secret", testAdminID)
	w := postForm(r, "/login", url.Values{"email": {"ghost@example.com"}, "password": {"pw"}}, nil)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Email does not exist. Please try again.") {
		t.Fatal("expected unknown-email notice")
	}
}
