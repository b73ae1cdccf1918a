package routes

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/contactbook/contactbook/internal/auth"
	"github.com/contactbook/contactbook/internal/config"
	"github.com/contactbook/contactbook/internal/contact"
	"github.com/contactbook/contactbook/internal/identity"
	"github.com/contactbook/contactbook/internal/metrics"
	"github.com/contactbook/contactbook/internal/middleware"
	"github.com/contactbook/contactbook/internal/password"
)

const (
	corsAllowMethods = "GET, POST, PUT, DELETE, PATCH, OPTIONS"
	corsAllowHeaders = "Origin, X-Requested-With, Content, Accept, Content-Type, Authorization"
)

// Deps aggregates shared dependencies required to wire routes. Only the
// backend selected by Cfg.StoreDriver needs to be set; Cache and Registry are optional.
type Deps struct {
	Cfg      config.Config
	DB       *pgxpool.Pool
	Mongo    *mongo.Database
	Cache    *redis.Client
	Logger   *slog.Logger
	Registry *prometheus.Registry
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if d.Logger == nil {
		return fmt.Errorf("logger is required")
	}

	users, contacts, err := buildStores(context.Background(), d)
	if err != nil {
		return err
	}

	issuer, err := auth.NewTokenIssuer([]byte(d.Cfg.JWTSecret), d.Cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("token issuer: %w", err)
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(cors.New(cors.Config{
		AllowOrigins: d.Cfg.CORSAllowOrigins,
		AllowMethods: corsAllowMethods,
		AllowHeaders: corsAllowHeaders,
	}))
	if d.Cfg.LogFormat == "text" {
		// Plain text access log for local runs: [HH:MM:SS] 200 -  145ms METHOD /path
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}
	app.Use(middleware.Audit(d.Logger))

	var recorder identity.Recorder
	if d.Cfg.MetricsEnabled && d.Registry != nil {
		collector := metrics.NewCollector(d.Registry)
		recorder = collector
		app.Use(middleware.Metrics(collector))
		app.Get("/metrics", metrics.Handler(d.Registry))
	}

	RegisterHealthRoutes(app, d)

	identitySvc := identity.NewService(users, password.NewHasher(), issuer)
	contactSvc := contact.NewService(contacts, d.Logger)

	// Public routes
	RegisterAuthRoutes(app, identity.NewHandler(identitySvc, recorder))

	// Protected routes
	guards := []fiber.Handler{middleware.JWTAuth(issuer)}
	if d.Cache != nil {
		guards = append(guards, middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}
	RegisterContactRoutes(app, contact.NewHandler(contactSvc), guards...)

	d.Logger.Info("routes configured",
		slog.String("store", d.Cfg.StoreDriver),
		slog.Bool("idempotency", d.Cache != nil),
		slog.Bool("metrics", recorder != nil),
	)
	return nil
}

func buildStores(ctx context.Context, d Deps) (identity.Repository, contact.Repository, error) {
	switch d.Cfg.StoreDriver {
	case config.StorePostgres:
		if d.DB == nil {
			return nil, nil, fmt.Errorf("postgres store selected but no pool configured")
		}
		return identity.NewPostgresRepository(d.DB), contact.NewPostgresRepository(d.DB), nil
	case config.StoreMongo:
		if d.Mongo == nil {
			return nil, nil, fmt.Errorf("mongo store selected but no database configured")
		}
		users, err := identity.NewMongoRepository(ctx, d.Mongo)
		if err != nil {
			return nil, nil, err
		}
		contacts, err := contact.NewMongoRepository(ctx, d.Mongo)
		if err != nil {
			return nil, nil, err
		}
		return users, contacts, nil
	case config.StoreMemory, "":
		d.Logger.Warn("using in-memory stores; data is lost on restart")
		return identity.NewMemoryRepository(), contact.NewMemoryRepository(), nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", d.Cfg.StoreDriver)
	}
}
