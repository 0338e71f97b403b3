package server

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"lguportal/portal/internal/config"
	"lguportal/portal/internal/handlers"
	"lguportal/portal/internal/service/servicetest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestServerWiring(t *testing.T) {
	cfg := &config.AppConfig{
		Environment: "test",
		HTTP:        config.HTTPConfig{Host: "127.0.0.1", Port: 0},
		Storage:     config.StorageConfig{MaxUploadBytes: 1 << 20},
		Security: config.SecurityConfig{
			SessionSecret:      "session-secret-0123456789",
			RegistrationSecret: "registration-secret-0123456789",
			SessionTTL:         time.Hour,
			RegistrationTTL:    time.Minute,
			LoginRate:          1,
			LoginBurst:         1,
		},
	}
	hs := handlers.NewHandlerSet(zerolog.Nop(), cfg, handlers.Dependencies{
		Users:     servicetest.NewUserStore(),
		Sessions:  servicetest.NewSessionStore(),
		Pending:   servicetest.NewPendingStore(),
		Documents: servicetest.NewDocumentStore("uploads/ids"),
	})

	srv, err := NewHTTPServer(cfg, zerolog.Nop(), hs)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Header().Get("X-Request-Id"))
	require.Contains(t, w.Body.String(), "LGU Staff Portal")

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/staff/dashboard", nil))
	require.Equal(t, http.StatusSeeOther, w.Code)
}

var csrfPattern = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

var baseURL = &url.URL{Scheme: "http", Host: "example.com"}

// browser drives the in-process handler and keeps cookies between requests.
type browser struct {
	t       *testing.T
	handler http.Handler
	jar     *cookiejar.Jar
	csrf    string
}

func newBrowser(t *testing.T, handler http.Handler) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, handler: handler, jar: jar}
}

func (b *browser) do(req *http.Request) (int, string) {
	b.t.Helper()
	for _, ck := range b.jar.Cookies(baseURL) {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	b.handler.ServeHTTP(w, req)
	resp := w.Result()
	b.jar.SetCookies(baseURL, resp.Cookies())

	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	if m := csrfPattern.FindSubmatch(body); m != nil {
		b.csrf = string(m[1])
	}
	return resp.StatusCode, string(body)
}

func (b *browser) registerStep1(email, password string) (int, string) {
	form := url.Values{
		"csrf_token":      {b.csrf},
		"submit_register": {"1"},
		"email":           {email},
		"password":        {password},
	}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) registerStep2(fields map[string]string, fileName string, file []byte) (int, string) {
	b.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(b.t, w.WriteField("csrf_token", b.csrf))
	require.NoError(b.t, w.WriteField("submit_additional", "1"))
	for k, v := range fields {
		require.NoError(b.t, w.WriteField(k, v))
	}
	part, err := w.CreateFormFile("id_file", fileName)
	require.NoError(b.t, err)
	_, err = part.Write(file)
	require.NoError(b.t, err)
	require.NoError(b.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/login", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return b.do(req)
}

func oversizedPDF(size int) []byte {
	doc := make([]byte, size)
	copy(doc, "%PDF-1.4\n")
	return doc
}

func newUploadServer(t *testing.T, maxBodyBytes int64) (*HTTPServer, *servicetest.UserStore) {
	t.Helper()
	cfg := &config.AppConfig{
		Environment: "test",
		HTTP:        config.HTTPConfig{MaxBodyBytes: maxBodyBytes},
		Storage:     config.StorageConfig{MaxUploadBytes: 1 << 20},
		Security: config.SecurityConfig{
			SessionSecret:      "session-secret-0123456789",
			RegistrationSecret: "registration-secret-0123456789",
			SessionTTL:         time.Hour,
			RegistrationTTL:    time.Minute,
			LoginRate:          100,
			LoginBurst:         100,
		},
	}
	users := servicetest.NewUserStore()
	hs := handlers.NewHandlerSet(zerolog.Nop(), cfg, handlers.Dependencies{
		Users:     users,
		Sessions:  servicetest.NewSessionStore(),
		Pending:   servicetest.NewPendingStore(),
		Documents: servicetest.NewDocumentStore("uploads/ids"),
	})
	srv, err := NewHTTPServer(cfg, zerolog.Nop(), hs)
	require.NoError(t, err)
	return srv, users
}

func TestOversizedDocumentStillCreatesAccount(t *testing.T) {
	srv, users := newUploadServer(t, 0)
	b := newBrowser(t, srv.Handler())

	status, _ := b.do(httptest.NewRequest(http.MethodGet, "/login", nil))
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, b.csrf)

	status, _ = b.registerStep1("a@b.com", "secret1")
	require.Equal(t, http.StatusOK, status)

	status, body := b.registerStep2(map[string]string{
		"first_name": "Jane",
		"last_name":  "Doe",
		"role":       "staff",
	}, "national-id.pdf", oversizedPDF(3<<20))
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, body, "Account created successfully! You can now login.")
	require.Contains(t, body, "Your ID document could not be saved")

	created := users.Users()
	require.Len(t, created, 1)
	require.Equal(t, "a@b.com", created[0].Email)
	require.Nil(t, created[0].IDDocumentPath)
}

func TestRequestOverBodyCapIsRejectedAsTooLarge(t *testing.T) {
	srv, users := newUploadServer(t, 2<<20)
	b := newBrowser(t, srv.Handler())

	b.do(httptest.NewRequest(http.MethodGet, "/login", nil))
	status, _ := b.registerStep1("a@b.com", "secret1")
	require.Equal(t, http.StatusOK, status)

	status, body := b.registerStep2(map[string]string{
		"first_name": "Jane",
		"last_name":  "Doe",
		"role":       "staff",
	}, "national-id.pdf", oversizedPDF(3<<20))
	require.Equal(t, http.StatusRequestEntityTooLarge, status)
	require.Contains(t, body, "document is too large")
	require.NotContains(t, body, "security token")
	require.Empty(t, users.Users())
}
