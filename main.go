package main

import (
	"context"
	"errors"
	"net"
	"time"
	_ "time/tzdata"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"studiofit_backend/internals/configs"
	database "studiofit_backend/internals/databases"
	"studiofit_backend/internals/features/finance/payments/provider"
	"studiofit_backend/internals/features/media"
	"studiofit_backend/internals/features/notifications/mailer"
	notifyScheduler "studiofit_backend/internals/features/notifications/scheduler"
	authScheduler "studiofit_backend/internals/features/users/auth/scheduler"
	"studiofit_backend/internals/middlewares"
	"studiofit_backend/internals/middlewares/access"
	"studiofit_backend/internals/middlewares/logger"
	routes "studiofit_backend/internals/route"
)

func main() {
	configs.LoadEnv()

	fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Provide(
			configs.Load,
			configs.NewLogger,
			newDB,
			newAccessTable,
			newLimiterStorage,
			newMailer,
			newStore,
			newCheckout,
			newDeps,
			routes.NewServices,
			newApp,
			newCron,
		),
		fx.Invoke(func(*fiber.App, *cron.Cron) {}),
	).Run()
}

func newDB(lc fx.Lifecycle, cfg *configs.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := database.Open(cfg, log)
	if err != nil {
		return nil, err
	}
	if cfg.DB.Migrate {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := database.Migrate(ctx, db, log); err != nil {
			return nil, err
		}
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			database.WarmUp(db, log)
			return nil
		},
		OnStop: func(context.Context) error {
			return database.Close(db)
		},
	})
	return db, nil
}

func newAccessTable(cfg *configs.Config, log *zap.Logger) (*access.Table, error) {
	if cfg.AccessTable != "" {
		log.Info("loading access table", zap.String("path", cfg.AccessTable))
		return access.Load(cfg.AccessTable)
	}
	return access.Default()
}

// newLimiterStorage yields a nil interface (in-memory limiter) when Redis is not configured.
func newLimiterStorage(lc fx.Lifecycle, cfg *configs.Config, log *zap.Logger) fiber.Storage {
	rs := middlewares.NewRedisStorage(cfg.Redis)
	if rs == nil {
		log.Info("rate limiter using in-memory storage")
		return nil
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rs.Ping(ctx); err != nil {
				log.Warn("redis ping failed", zap.Error(err))
			}
			return nil
		},
		OnStop: func(context.Context) error { return rs.Close() },
	})
	return rs
}

func newMailer(cfg *configs.Config, log *zap.Logger) mailer.Mailer {
	return mailer.New(cfg.Resend.APIKey, cfg.Resend.From, log)
}

func newStore(cfg *configs.Config) (media.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return media.NewStore(ctx, cfg.Storage)
}

// newCheckout prefers Stripe, then Midtrans.
func newCheckout(cfg *configs.Config, log *zap.Logger) provider.Checkout {
	switch {
	case cfg.Stripe.Enabled():
		log.Info("checkout provider", zap.String("provider", provider.Stripe))
		return provider.NewStripeCheckout(cfg.Stripe.SecretKey)
	case cfg.Midtrans.Enabled():
		log.Info("checkout provider", zap.String("provider", provider.Midtrans))
		return provider.NewMidtransCheckout(cfg.Midtrans.ServerKey, cfg.Midtrans.Production)
	}
	log.Warn("no payment provider configured, checkout disabled")
	return provider.Disabled{}
}

type depsParams struct {
	fx.In

	DB       *gorm.DB
	Config   *configs.Config
	Log      *zap.Logger
	Access   *access.Table
	Limiter  fiber.Storage
	Mailer   mailer.Mailer
	Store    media.Store
	Checkout provider.Checkout
}

func newDeps(p depsParams) routes.Deps {
	return routes.Deps{
		DB:       p.DB,
		Config:   p.Config,
		Log:      p.Log,
		Access:   p.Access,
		Limiter:  p.Limiter,
		Mailer:   p.Mailer,
		Store:    p.Store,
		Checkout: p.Checkout,
	}
}

func newApp(lc fx.Lifecycle, cfg *configs.Config, log *zap.Logger, d routes.Deps, s *routes.Services) *fiber.App {
	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ErrorHandler:            middlewares.ErrorHandler(log),
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
		ReadTimeout:             cfg.HTTP.ReadTimeout,
		WriteTimeout:            cfg.HTTP.WriteTimeout,
		IdleTimeout:             cfg.HTTP.IdleTimeout,
	})

	app.Use(middlewares.RecoveryMiddleware(log))
	app.Use(logger.RequestLogger(log.Named("http"), 5*time.Second))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(middlewares.CorsMiddleware(cfg.HTTP.AllowOrigins))
	app.Use(middlewares.GlobalRateLimiter(d.Limiter))

	routes.SetupRoutes(app, d, s)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", "0.0.0.0:"+cfg.HTTP.Port)
			if err != nil {
				return err
			}
			log.Info("listening", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := app.Listener(ln); err != nil && !errors.Is(err, net.ErrClosed) {
					log.Error("server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
	return app
}

func newCron(lc fx.Lifecycle, cfg *configs.Config, log *zap.Logger, s *routes.Services) (*cron.Cron, error) {
	l := log.Named("cron")
	c := cron.New(cron.WithLogger(notifyScheduler.CronLogger(l)))
	if _, err := authScheduler.RegisterTokenCleanup(c, cfg.Cron.CleanupSpec, s.Auth, l); err != nil {
		return nil, err
	}
	if _, err := notifyScheduler.RegisterClassReminders(c, cfg.Cron.ReminderSpec, s.Reminders, l); err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			c.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			select {
			case <-c.Stop().Done():
			case <-ctx.Done():
			}
			return nil
		},
	})
	return c, nil
}
