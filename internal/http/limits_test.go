package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jamaahmart/internal/http/handlers"
)

func TestAvailabilityRateLimit(t *testing.T) {
	a := newTestApp(t)
	logs := observeLogs(t)

	for i := 0; i < 15; i++ {
		resp := a.get(t, "/api/v1/availability?itemId=ihram-001", "")
		require.Equal(t, http.StatusOK, resp.StatusCode, "request %d", i)
	}
	resp := a.get(t, "/api/v1/availability?itemId=ihram-001", "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, 1, logs.FilterMessage("rate.availability.hit").Len())
}

func TestSearchRateLimit(t *testing.T) {
	a := newTestApp(t)
	for i := 0; i < 20; i++ {
		require.NotEqual(t, http.StatusTooManyRequests, a.get(t, "/marketplace/search?q=kurma", "").StatusCode, "request %d", i)
	}
	assert.Equal(t, http.StatusTooManyRequests, a.get(t, "/marketplace/search?q=kurma", "").StatusCode)
}

func TestInputValidation(t *testing.T) {
	a := newTestApp(t)

	assert.Equal(t, http.StatusBadRequest, a.get(t, "/marketplace/search?q=%3Cscript%3E", "").StatusCode)
	assert.Equal(t, http.StatusBadRequest, a.get(t, "/api/v1/availability", "").StatusCode)
	assert.Equal(t, http.StatusBadRequest, a.postForm(t, "/cart/add", "sid-x", url.Values{"itemId": {"../etc/passwd"}}).StatusCode)

	a.login(t, "sid-budi", "u-budi")
	resp := a.postForm(t, "/me/flags", "sid-budi", url.Values{"flag": {"Bad Flag!"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnknownRouteRendersNotFound(t *testing.T) {
	a := newTestApp(t)
	resp := a.get(t, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Page not found")
}

func TestErrorHandlerFriendlyMessage(t *testing.T) {
	app := fiber.New(fiber.Config{
		Views:        handlers.NewViews("../../web/templates"),
		ErrorHandler: friendlyErrors,
	})
	app.Use(requestid.New())
	app.Get("/err", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "db timeout: secret trace")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/err", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "Something went wrong")
	assert.NotContains(t, body, "db timeout")
	assert.NotContains(t, body, "secret")
}

func TestRupiah(t *testing.T) {
	cases := map[int64]string{
		0:        "Rp 0",
		45000:    "Rp 45.000",
		350000:   "Rp 350.000",
		12500000: "Rp 12.500.000",
	}
	for in, want := range cases {
		assert.Equal(t, want, handlers.Rupiah(in))
	}
}
