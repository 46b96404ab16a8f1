package handlers_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"jamaahmart/internal/config"
	"jamaahmart/internal/http/handlers"
	applog "jamaahmart/internal/log"
	"jamaahmart/internal/repos"
)

type testApp struct {
	app  *fiber.App
	db   *sqlx.DB
	deps *handlers.Deps
}

func friendlyErrors(c *fiber.Ctx, err error) error {
	applog.Error(c, "server.error", err, nil)
	if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
		"Message": "Something went wrong. Please try again.",
	}); rerr != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
	}
	return nil
}

// newTestApp mounts the real routes on an in-memory database. CSRF is left
// out unless passed in extra; auth_test.go covers it.
func newTestApp(t *testing.T, extra ...fiber.Handler) *testApp {
	t.Helper()
	return buildTestApp(t, true, extra...)
}

// buildTestApp is newTestApp with fiber's Immutable setting exposed, so
// tests can check that nothing relies on it.
func buildTestApp(t *testing.T, immutable bool, extra ...fiber.Handler) *testApp {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	deps := handlers.NewDeps(db, config.Config{ImageWorkers: 1}, nil)
	app := fiber.New(fiber.Config{
		Views:        handlers.NewViews("../../web/templates"),
		Immutable:    immutable,
		BodyLimit:    16 << 20,
		ErrorHandler: friendlyErrors,
	})
	app.Use(requestid.New())
	app.Use(handlers.AttachUser(deps.Auth))
	for _, h := range extra {
		app.Use(h)
	}
	handlers.Mount(app, deps)
	return &testApp{app: app, db: db, deps: deps}
}

// login binds sid to a seeded user without going through the form.
func (a *testApp) login(t *testing.T, sid, userID string) {
	t.Helper()
	require.NoError(t, a.deps.Auth.Users.BindSession(context.Background(), sid, userID))
}

func (a *testApp) do(t *testing.T, req *http.Request, sid string) *http.Response {
	t.Helper()
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := a.app.Test(req, 10_000)
	require.NoError(t, err)
	return resp
}

func (a *testApp) get(t *testing.T, path, sid string) *http.Response {
	return a.do(t, httptest.NewRequest(http.MethodGet, path, nil), sid)
}

func (a *testApp) postForm(t *testing.T, path, sid string, form url.Values) *http.Response {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(t, req, sid)
}

// postProof submits the order form with a file part declared as image/jpeg.
func (a *testApp) postProof(t *testing.T, sid string, proof []byte, notes string) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if proof != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="proof"; filename="transfer.jpg"`)
		h.Set("Content-Type", "image/jpeg")
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(proof)
		require.NoError(t, err)
	}
	require.NoError(t, mw.WriteField("notes", notes))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/orders", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return a.do(t, req, sid)
}

func (a *testApp) orderCount(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, a.db.Get(&n, `SELECT COUNT(*) FROM orders`))
	return n
}

func jpegProof(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 320, 240))
	for y := 0; y < 240; y++ {
		for x := 0; x < 320; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func cookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}
