package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"surveyflow/internal/cache"
	"surveyflow/internal/catalog"
	"surveyflow/internal/config"
	"surveyflow/internal/metrics"
	"surveyflow/internal/repository"
	"surveyflow/internal/service"
	"surveyflow/internal/transport/rest"
	"surveyflow/internal/transport/ws"
)

// evictionInterval is how often idle sessions are dropped from memory
const evictionInterval = time.Minute

// App holds the wired server dependencies
type App struct {
	Config *config.Config

	CatalogRepo  repository.CatalogRepo
	ProgressRepo repository.ProgressRepo
	SessionCache cache.SessionCache
	BoardCache   cache.ProgressBoardCache

	AuthService    *service.AuthService
	CatalogService *service.CatalogService
	SessionService *service.SessionService

	Hub      *ws.Hub
	Registry *prometheus.Registry

	closers []func()
}

// New connects the configured backends and wires the services
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	a := &App{Config: cfg}
	ok := false
	defer func() {
		if !ok {
			a.Close()
		}
	}()

	defaultIdx, err := loadDefaultCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	if err := a.connectPersistence(ctx); err != nil {
		return nil, err
	}
	if err := a.connectRedis(ctx); err != nil {
		return nil, err
	}

	reg, m := metrics.NewRegistry()
	a.Registry = reg

	a.Hub = ws.NewHub()
	a.closers = append(a.closers, a.Hub.Close)
	log.Println("WebSocket hub started")

	a.AuthService = service.NewAuthService(cfg)
	a.CatalogService = service.NewCatalogService(a.CatalogRepo, defaultIdx)
	a.SessionService = service.NewSessionService(
		a.CatalogService,
		a.AuthService,
		a.ProgressRepo,
		cfg.PersistenceBackend,
		a.SessionCache,
		a.BoardCache,
		m,
	)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	a.SessionService.SetBroadcaster(a.Hub)

	evictCtx, stopEviction := context.WithCancel(context.Background())
	go a.SessionService.RunEviction(evictCtx, cfg.SessionTTL, evictionInterval)
	a.closers = append(a.closers, stopEviction)

	ok = true
	return a, nil
}

// Router builds the HTTP handler
func (a *App) Router() http.Handler {
	return rest.NewRouter(&rest.Container{
		AuthService:    a.AuthService,
		CatalogService: a.CatalogService,
		SessionService: a.SessionService,
		WSHub:          a.Hub,
		Registry:       a.Registry,
		CORS:           a.Config.CORS,
	})
}

// Close releases connections in reverse order of creation
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func loadDefaultCatalog(path string) (*catalog.Index, error) {
	if path == "" {
		return catalog.New(catalog.Sample())
	}
	idx, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", path, err)
	}
	log.Printf("Loaded default catalog from %s", path)
	return idx, nil
}

func (a *App) connectPersistence(ctx context.Context) error {
	cfg := a.Config
	switch cfg.PersistenceBackend {
	case config.BackendMongo:
		db, err := connectMongo(ctx, cfg, &a.closers)
		if err != nil {
			return err
		}
		a.CatalogRepo = repository.NewCatalogRepo(db)
		a.ProgressRepo = repository.NewProgressRepo(db)

	case config.BackendSQLite:
		repo, err := repository.NewSQLiteProgressRepo(cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("failed to open sqlite %s: %w", cfg.SQLitePath, err)
		}
		a.closers = append(a.closers, func() { repo.Close() })
		a.CatalogRepo = repository.NewMemoryCatalogRepo()
		a.ProgressRepo = repo
		log.Printf("Progress stored in SQLite at %s; host catalogs kept in memory", cfg.SQLitePath)

	case config.BackendMemory:
		a.CatalogRepo = repository.NewMemoryCatalogRepo()
		a.ProgressRepo = repository.NewMemoryProgressRepo(cfg.PersistDelay)
		log.Printf("Progress kept in memory (simulated latency %s)", cfg.PersistDelay)
	}
	return nil
}

func connectMongo(ctx context.Context, cfg *config.Config, closers *[]func()) (*mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	*closers = append(*closers, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client.Disconnect(ctx)
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	log.Println("Connected to MongoDB")

	return client.Database(cfg.MongoDB), nil
}

// connectRedis wires the session and progress board caches. The memory
// backend runs without Redis when it is unreachable.
func (a *App) connectRedis(ctx context.Context) error {
	rdb := redis.NewClient(&redis.Options{
		Addr: a.Config.RedisAddr,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := rdb.Ping(pingCtx).Result(); err != nil {
		rdb.Close()
		if a.Config.PersistenceBackend == config.BackendMemory {
			log.Printf("Warning: Redis unreachable (%v), running without session cache", err)
			return nil
		}
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	a.closers = append(a.closers, func() { rdb.Close() })
	log.Println("Connected to Redis")

	a.SessionCache = cache.NewSessionCache(rdb, a.Config.SessionTTL)
	a.BoardCache = cache.NewProgressBoardCache(rdb)
	return nil
}
