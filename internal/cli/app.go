package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/insureadmin/admin-console/internal/api/handler"
	"github.com/insureadmin/admin-console/internal/core/ports"
	"github.com/insureadmin/admin-console/internal/core/service"
	"github.com/insureadmin/admin-console/internal/infrastructure/adminapi"
	mongorepo "github.com/insureadmin/admin-console/internal/infrastructure/db/mongo"
	redisstore "github.com/insureadmin/admin-console/internal/infrastructure/db/redis"
	"github.com/insureadmin/admin-console/internal/infrastructure/queue"
	"github.com/insureadmin/admin-console/internal/infrastructure/storage"
	"github.com/insureadmin/admin-console/internal/pkg/config"
)

const auditWorkers = 4

// App is the wired console: one operator session and the services acting
// for it.
type App struct {
	Config       *config.Config
	Log          zerolog.Logger
	Location     *time.Location
	Session      *service.SessionManager
	Guard        *service.SessionGuard
	Auth         *service.AuthService
	Agents       *service.AgentService
	Transactions *service.TransactionService
	Checks       map[string]handler.Check

	closers []func(context.Context)
}

// NewApp connects the configured backends and wires the services. notifier
// receives the session-expired notice raised by the 401 interceptor.
func NewApp(ctx context.Context, cfg *config.Config, notifier ports.Notifier, log zerolog.Logger) (*App, error) {
	if cfg.API.BaseURL == "" {
		return nil, errors.New("ADMIN_API_BASE_URL is not set")
	}
	app := &App{
		Config:   cfg,
		Log:      log,
		Location: time.Local,
		Checks:   make(map[string]handler.Check),
	}

	var rdb *goredis.Client
	if cfg.Redis.Addr != "" {
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		rdb = client
		app.onClose(func(context.Context) { _ = client.Close() })
		app.Checks["redis"] = redisstore.Probe(client)
	}

	var mdb *gomongo.Database
	if cfg.Session.Backend == config.BackendMongo || cfg.AuditEnabled {
		client, db, err := mongorepo.Connect(ctx, mongorepo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			app.Close(ctx)
			return nil, err
		}
		if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
			log.Warn().Err(err).Msg("mongo indexes not ensured")
		}
		mdb = db
		app.onClose(func(ctx context.Context) { _ = client.Disconnect(ctx) })
		app.Checks["mongodb"] = mongorepo.Probe(client)
	}

	var medium ports.Medium
	switch cfg.Session.Backend {
	case config.BackendFile:
		medium = storage.NewFileMedium(cfg.Session.File)
	case config.BackendMemory:
		medium = storage.NewMemoryMedium()
	case config.BackendRedis:
		medium = redisstore.NewSessionMedium(rdb)
	case config.BackendMongo:
		medium = mongorepo.NewSessionMedium(mdb)
	case config.BackendNone:
		// Nothing persists; every command starts signed out.
	}

	cipher, err := storage.NewCipher(cfg.Storage.Cipher, cfg.Storage.Secret, cfg.Storage.AgeWorkFactor)
	if err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("storage cipher: %w", err)
	}
	if cipher == nil && medium != nil {
		log.Warn().Msg("ADMIN_STORAGE_SECRET is not set; the session is stored unencrypted")
	}
	store := storage.NewStore(medium, cipher, log.With().Str("component", "storage").Logger())

	app.Session = service.NewSessionManager(ctx, store, cfg.Session.Key, log.With().Str("component", "session").Logger())
	app.Guard = service.NewSessionGuard(app.Session, notifier, log)

	api, err := adminapi.New(adminapi.Options{
		BaseURL:     cfg.API.BaseURL,
		Timeout:     cfg.API.Timeout,
		RateLimit:   cfg.API.RateLimit,
		Tokens:      app.Session,
		Invalidator: app.Guard,
		Log:         log,
	})
	if err != nil {
		app.Close(ctx)
		return nil, err
	}

	var mutationGuard ports.MutationGuard = service.NewLocalMutationGuard()
	if rdb != nil {
		mutationGuard = redisstore.NewMutationGuard(rdb)
	}

	var audit ports.AuditSink
	if cfg.AuditEnabled {
		dispatcher := queue.NewAuditDispatcher(auditWorkers, mongorepo.NewAuditRepository(mdb), log)
		dispatcher.Start(context.WithoutCancel(ctx))
		app.onClose(func(context.Context) { dispatcher.Close() })
		audit = dispatcher
	}

	app.Auth = service.NewAuthService(api, app.Session, log)
	app.Agents = service.NewAgentService(api, app.Session, mutationGuard, audit, log)
	app.Transactions = service.NewTransactionService(api, app.Session, app.Location, log)
	return app, nil
}

func (a *App) onClose(fn func(context.Context)) {
	a.closers = append(a.closers, fn)
}

// Close releases backends in reverse order of acquisition. The audit
// dispatcher drains before the Mongo client goes away.
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i](ctx)
	}
	a.closers = nil
}
