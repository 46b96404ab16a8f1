package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"jamaahmart/internal/cache"
	"jamaahmart/internal/config"
	"jamaahmart/internal/http/handlers"
	applog "jamaahmart/internal/log"
	"jamaahmart/internal/repos"
	"jamaahmart/internal/services"
)

func main() {
	cfg := config.Load()
	zl := applog.Setup(cfg)
	defer func() { _ = zl.Sync() }()

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		zl.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	// Catalog cache is optional; without Redis every read hits sqlite
	var catalogCache cache.CatalogCache = cache.Noop{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			zl.Warn("redis unreachable, catalog cache disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
			_ = rdb.Close()
		} else {
			catalogCache = cache.NewRedisCache(rdb, cfg.CatalogCacheTTL)
			defer rdb.Close()
		}
		cancel()
	}

	deps := handlers.NewDeps(db, cfg, catalogCache)

	sched, err := services.NewScheduler(deps.Sessions, deps.Auth.Users, cfg.SessionIdle, cfg.SessionSweepEvery)
	if err != nil {
		zl.Fatal("init jobs", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	engine := handlers.NewViews(cfg.TemplatesDir)
	engine.Reload(cfg.LogMode != "production")

	app := fiber.New(fiber.Config{
		Views: engine,
		// sids, params and form values outlive the request in the session store and logs
		Immutable: true,
		// oversize proofs must reach the handler so they get a proper 400
		BodyLimit: cfg.BodyLimitMB << 20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			// Avoid leaking internals; best-effort render
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New(helmet.Config{
		// receipts show the proof inline as a data: URL
		ContentSecurityPolicy: "default-src 'self'; img-src 'self' data:",
	}))
	app.Use(handlers.AttachUser(deps.Auth))
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(string(c.Request().URI().Path()), "/healthz")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		ContextKey:     "csrf",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	handlers.Mount(app, deps)

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		zl.Info("shutting down")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	addr := fmt.Sprintf(":%s", cfg.Port)
	zl.Info("listening", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		zl.Error("server stopped", zap.Error(err))
	}
}
