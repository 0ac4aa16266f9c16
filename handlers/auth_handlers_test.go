package handlers

import (
	"net/http"
	"testing"

	"donsflow/api-gateway/internal/magiclink"
	"donsflow/api-gateway/middleware"
	"donsflow/api-gateway/models"
	"donsflow/api-gateway/utils"
)

func authHandler(auth *fakeAuth, users *fakeUsers) *ApplicationHandler {
	return NewApplicationHandler(&fakeAI{}, &fakeCaptions{}, auth, &fakeVideos{}, users, quietLogger(), "test-key", false)
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	return nil
}

func TestLoginSendsMagicLink(t *testing.T) {
	auth := &fakeAuth{}
	h := authHandler(auth, &fakeUsers{})
	app := newTestApp(h, nil)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/auth/login", map[string]string{"email": "dev@example.com"}))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestLoginRejectsBadEmail(t *testing.T) {
	h := authHandler(&fakeAuth{}, &fakeUsers{})
	app := newTestApp(h, nil)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/auth/login", map[string]string{"email": "not-an-email"}))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAuthenticateCreatesUserAndSetsCookie(t *testing.T) {
	auth := &fakeAuth{email: "new@example.com"}
	users := &fakeUsers{}
	h := authHandler(auth, users)
	app := newTestApp(h, nil)

	resp, err := app.Test(jsonRequest(t, "GET", "/api/auth/auth?token=abc&stytch_token_type=magic_links", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	cookie := sessionCookie(resp)
	if cookie == nil {
		t.Fatal("session cookie was not set")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie is not HttpOnly")
	}
	if cookie.SameSite != http.SameSiteStrictMode {
		t.Errorf("session cookie SameSite = %v, want strict", cookie.SameSite)
	}

	email, ok := utils.DecodeToken(cookie.Value, "test-key")
	if !ok || email != "new@example.com" {
		t.Errorf("cookie decodes to (%q, %v), want new@example.com", email, ok)
	}

	if _, ok := users.byEmail["new@example.com"]; !ok {
		t.Error("user was not created on first authentication")
	}
}

func TestAuthenticateExistingUser(t *testing.T) {
	user := &models.User{Email: "dev@example.com", UserVideos: []models.UserVideo{}}
	users := &fakeUsers{byEmail: map[string]*models.User{user.Email: user}}
	h := authHandler(&fakeAuth{email: user.Email}, users)
	app := newTestApp(h, nil)

	resp, err := app.Test(jsonRequest(t, "GET", "/api/auth/auth?token=abc&stytch_token_type=magic_links", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if len(users.byEmail) != 1 {
		t.Errorf("a duplicate user was created")
	}
}

func TestAuthenticateRejectsWrongTokenType(t *testing.T) {
	h := authHandler(&fakeAuth{email: "dev@example.com"}, &fakeUsers{})
	app := newTestApp(h, nil)

	resp, err := app.Test(jsonRequest(t, "GET", "/api/auth/auth?token=abc&stytch_token_type=oauth", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAuthenticateExpiredLink(t *testing.T) {
	h := authHandler(&fakeAuth{authErr: magiclink.ErrAuthFailed}, &fakeUsers{})
	app := newTestApp(h, nil)

	resp, err := app.Test(jsonRequest(t, "GET", "/api/auth/auth?token=stale&stytch_token_type=magic_links", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestStatusWithoutSession(t *testing.T) {
	h := authHandler(&fakeAuth{}, &fakeUsers{})
	app := newTestApp(h, nil)

	resp, err := app.Test(jsonRequest(t, "GET", "/api/auth/status", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Data struct {
			Authenticated bool `json:"authenticated"`
		} `json:"data"`
	}
	decodeBody(t, resp, &body)
	if body.Data.Authenticated {
		t.Error("reported authenticated without a session")
	}
}

func TestStatusWithSession(t *testing.T) {
	h := authHandler(&fakeAuth{}, &fakeUsers{})
	app := newTestApp(h, nil)

	token, err := utils.CreateToken("dev@example.com", "test-key")
	if err != nil {
		t.Fatalf("creating token: %v", err)
	}

	req := jsonRequest(t, "GET", "/api/auth/status", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	var body struct {
		Data struct {
			Authenticated bool   `json:"authenticated"`
			Email         string `json:"email"`
		} `json:"data"`
	}
	decodeBody(t, resp, &body)
	if !body.Data.Authenticated || body.Data.Email != "dev@example.com" {
		t.Errorf("status = %+v, want authenticated dev@example.com", body.Data)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	h := authHandler(&fakeAuth{}, &fakeUsers{})
	app := newTestApp(h, nil)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/auth/logout", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	cookie := sessionCookie(resp)
	if cookie == nil {
		t.Fatal("logout did not touch the session cookie")
	}
	if cookie.Value != "" {
		t.Errorf("cookie value = %q, want empty", cookie.Value)
	}
}
