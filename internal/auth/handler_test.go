package auth_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	"github.com/frahmantamala/feedback-collector/internal"
	"github.com/frahmantamala/feedback-collector/internal/auth"
	"github.com/frahmantamala/feedback-collector/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookie {
			return c
		}
	}
	return nil
}

var _ = Describe("Auth Handler", func() {
	var (
		gate      *auth.Gate
		handler   *auth.Handler
		protected http.Handler
		seen      string
	)

	BeforeEach(func() {
		views, err := transport.NewViews()
		Expect(err).NotTo(HaveOccurred())

		hash, err := auth.HashPassword("s3cret", bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())

		gate = auth.NewGate(auth.NewBcryptVerifier(map[string]string{"admin": hash}), auth.NewMemoryStore(), time.Hour, nil, quietLogger())
		handler = auth.NewHandler(transport.NewBaseHandler(quietLogger(), views), gate, auth.NewTokenCodec("0123456789abcdef0123456789abcdef"), false)

		seen = ""
		protected = handler.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = internal.UsernameFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))
	})

	login := func(username, password string) *httptest.ResponseRecorder {
		form := url.Values{"username": {username}, "password": {password}}
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		handler.Login(rec, req)
		return rec
	}

	It("should redirect to the dashboard and set the session cookie on success", func() {
		rec := login("admin", "s3cret")
		Expect(rec.Code).To(Equal(http.StatusSeeOther))
		Expect(rec.Header().Get("Location")).To(Equal("/dashboard"))

		cookie := sessionCookie(rec)
		Expect(cookie).NotTo(BeNil())
		Expect(cookie.HttpOnly).To(BeTrue())

		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(cookie)
		page := httptest.NewRecorder()
		protected.ServeHTTP(page, req)
		Expect(page.Code).To(Equal(http.StatusOK))
		Expect(seen).To(Equal("admin"))
	})

	It("should re-render the form with an error on bad credentials", func() {
		rec := login("admin", "nope")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(sessionCookie(rec)).To(BeNil())
		Expect(rec.Body.String()).To(ContainSubstring("帳號或密碼錯誤"))
		Expect(rec.Body.String()).To(ContainSubstring(`value="admin"`))
	})

	It("should send anonymous page requests to the login form", func() {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusSeeOther))
		Expect(rec.Header().Get("Location")).To(Equal("/login"))
		Expect(seen).To(BeEmpty())
	})

	It("should answer anonymous API requests with 401 JSON", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(rec.Body.String()).To(ContainSubstring("SESSION_REQUIRED"))
	})

	It("should treat a tampered cookie as no session", func() {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "forged.token.value"})
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusSeeOther))
	})

	It("should end the session on logout", func() {
		cookie := sessionCookie(login("admin", "s3cret"))

		req := httptest.NewRequest(http.MethodGet, "/logout", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		handler.Logout(rec, req)
		Expect(rec.Code).To(Equal(http.StatusSeeOther))
		Expect(rec.Header().Get("Location")).To(Equal("/login"))
		Expect(sessionCookie(rec).MaxAge).To(BeNumerically("<", 0))

		// the old cookie no longer opens the dashboard
		req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(cookie)
		page := httptest.NewRecorder()
		protected.ServeHTTP(page, req)
		Expect(page.Code).To(Equal(http.StatusSeeOther))
	})

	It("should skip the login form when already signed in", func() {
		cookie := sessionCookie(login("admin", "s3cret"))

		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		handler.LoginPage(rec, req)
		Expect(rec.Code).To(Equal(http.StatusSeeOther))
		Expect(rec.Header().Get("Location")).To(Equal("/dashboard"))

		rec = httptest.NewRecorder()
		handler.LoginPage(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
	})
})
