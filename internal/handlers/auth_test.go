package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"tgm_calc/internal/service"
)

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func responseCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// flashesIn decodes the flash cookie set on the response.
func flashesIn(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	c := responseCookie(w, flashCookie)
	if c == nil || c.Value == "" {
		return nil
	}
	b, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		t.Fatalf("decode flash cookie: %v", err)
	}
	var msgs []string
	if err := json.Unmarshal(b, &msgs); err != nil {
		t.Fatalf("unmarshal flash cookie: %v", err)
	}
	return msgs
}

func TestAuthHandlers_SignUpAndSignIn(t *testing.T) {
	auth := &mockAuth{signUpID: 42, genTokenToken: "tok123", parseID: 1}
	s := &service.Service{Authorization: auth}
	r := newTestRouter(s)

	// sign-up success
	body := bytes.NewBufferString(`{"username":"u","password":"p"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/sign-up", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("sign-up status=%d, body=%s", w.Code, w.Body.String())
	}
	var m map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if int(m["id"].(float64)) != 42 {
		t.Fatalf("expected id=42, got %v", m["id"])
	}

	// sign-in success
	body = bytes.NewBufferString(`{"username":"u","password":"p"}`)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/sign-in", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("sign-in status=%d, body=%s", w.Code, w.Body.String())
	}
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m["token"] != "tok123" {
		t.Fatalf("expected token tok123, got %v", m["token"])
	}

	// sign-in invalid body → 400
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/sign-in", bytes.NewBufferString(`{"username":1}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", w.Code)
	}
}

func TestSignUp_DuplicateUsernameIs400(t *testing.T) {
	auth := &mockAuth{signUpErr: service.ErrUserExists}
	r := newTestRouter(&service.Service{Authorization: auth})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/sign-up", bytes.NewBufferString(`{"username":"u","password":"p"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Please use a different username.") {
		t.Fatalf("body=%s", w.Body.String())
	}
}

func TestSignUp_PasswordTooLongIs400(t *testing.T) {
	auth := &mockAuth{signUpErr: service.ErrPasswordTooLong}
	r := newTestRouter(&service.Service{Authorization: auth})

	body, _ := json.Marshal(map[string]string{"username": "u", "password": strings.Repeat("p", 73)})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/sign-up", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "at most 72 bytes") {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestRegisterForm(t *testing.T) {
	cases := []struct {
		name      string
		form      url.Values
		signUpErr error
		wantCode  int
		wantText  string
		wantCall  bool
	}{
		{
			name:     "success redirects to login with flash",
			form:     url.Values{"username": {"alice"}, "password": {"pw"}, "password2": {"pw"}},
			wantCode: http.StatusFound,
			wantCall: true,
		},
		{
			name:     "passwords must match",
			form:     url.Values{"username": {"alice"}, "password": {"pw"}, "password2": {"other"}},
			wantCode: http.StatusOK,
			wantText: "Passwords must match.",
		},
		{
			name:     "username required",
			form:     url.Values{"password": {"pw"}, "password2": {"pw"}},
			wantCode: http.StatusOK,
			wantText: "Username is required.",
		},
		{
			name:      "taken username",
			form:      url.Values{"username": {"alice"}, "password": {"pw"}, "password2": {"pw"}},
			signUpErr: service.ErrUserExists,
			wantCode:  http.StatusOK,
			wantText:  "Please use a different username.",
			wantCall:  true,
		},
		{
			name:      "password too long",
			form:      url.Values{"username": {"alice"}, "password": {strings.Repeat("p", 73)}, "password2": {strings.Repeat("p", 73)}},
			signUpErr: service.ErrPasswordTooLong,
			wantCode:  http.StatusOK,
			wantText:  "Password must be at most 72 bytes long.",
			wantCall:  true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &mockAuth{signUpID: 7, signUpErr: tc.signUpErr}
			r := newTestRouter(&service.Service{Authorization: auth})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, postForm("/auth/register", tc.form))

			if w.Code != tc.wantCode {
				t.Fatalf("status=%d, want %d; body=%s", w.Code, tc.wantCode, w.Body.String())
			}
			if tc.wantText != "" && !strings.Contains(w.Body.String(), tc.wantText) {
				t.Fatalf("body missing %q: %s", tc.wantText, w.Body.String())
			}
			if called := auth.lastSignUpUsername != ""; called != tc.wantCall {
				t.Fatalf("SignUp called=%v, want %v", called, tc.wantCall)
			}
			if tc.wantCode == http.StatusFound {
				if loc := w.Header().Get("Location"); loc != "/auth/login" {
					t.Fatalf("Location=%q", loc)
				}
				got := flashesIn(t, w)
				if len(got) != 1 || got[0] != "Congratulations, you are now a registered user!" {
					t.Fatalf("flashes=%v", got)
				}
			}
		})
	}
}

func TestLoginForm_SetsCookieAndRedirectsToNext(t *testing.T) {
	auth := &mockAuth{genTokenToken: "tok123"}
	r := newTestRouter(&service.Service{Authorization: auth})

	w := httptest.NewRecorder()
	form := url.Values{"username": {"alice"}, "password": {"pw"}}
	r.ServeHTTP(w, postForm("/auth/login?next=%2Fprofile", form))

	if w.Code != http.StatusFound {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/profile" {
		t.Fatalf("Location=%q, want /profile", loc)
	}
	c := responseCookie(w, tokenCookie)
	if c == nil || c.Value != "tok123" || !c.HttpOnly {
		t.Fatalf("token cookie=%+v", c)
	}
	if auth.lastGenUsername != "alice" || auth.lastGenPassword != "pw" {
		t.Fatalf("GenerateToken got %q/%q", auth.lastGenUsername, auth.lastGenPassword)
	}
}

func TestLoginForm_InvalidCredentials(t *testing.T) {
	auth := &mockAuth{genTokenErr: service.ErrInvalidPassword}
	r := newTestRouter(&service.Service{Authorization: auth})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, postForm("/auth/login", url.Values{"username": {"alice"}, "password": {"bad"}}))

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid username or password.") {
		t.Fatalf("body=%s", w.Body.String())
	}
	if c := responseCookie(w, tokenCookie); c != nil {
		t.Fatalf("unexpected token cookie %+v", c)
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	auth := &mockAuth{parseID: 3}
	r := newTestRouter(&service.Service{Authorization: auth})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, withSession(httptest.NewRequest(http.MethodGet, "/auth/logout", nil)))

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Fatalf("status=%d Location=%q", w.Code, w.Header().Get("Location"))
	}
	c := responseCookie(w, tokenCookie)
	if c == nil || c.MaxAge >= 0 {
		t.Fatalf("expected expired token cookie, got %+v", c)
	}
}
