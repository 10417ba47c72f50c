package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Hiro-mackay/pdfops/internal/domain/repository"
	"github.com/Hiro-mackay/pdfops/internal/domain/service"
	"github.com/Hiro-mackay/pdfops/internal/infrastructure/cache"
	"github.com/Hiro-mackay/pdfops/internal/infrastructure/database"
	"github.com/Hiro-mackay/pdfops/internal/infrastructure/geo"
	"github.com/Hiro-mackay/pdfops/internal/infrastructure/history"
	"github.com/Hiro-mackay/pdfops/internal/infrastructure/pdf"
	infraRepo "github.com/Hiro-mackay/pdfops/internal/infrastructure/repository"
	"github.com/Hiro-mackay/pdfops/internal/infrastructure/sqlite"
	"github.com/Hiro-mackay/pdfops/internal/infrastructure/storage"
	"github.com/Hiro-mackay/pdfops/pkg/config"
	"github.com/Hiro-mackay/pdfops/pkg/jwt"
)

// Container はアプリケーションの依存関係を保持するDIコンテナです
type Container struct {
	// Infrastructure
	PgClient    *database.PostgresClient
	SQLiteDB    *sqlite.DB
	RedisClient *cache.RedisClient
	MinIOClient *storage.MinIOClient
	TxManager   repository.TransactionManager

	// Services
	JWTService   *jwt.JWTService
	Revoker      service.TokenRevoker // Redis未設定時は nil
	RateLimiter  *cache.RateLimiter   // Redis未設定時は nil
	GeoResolver  service.GeoResolver
	Archive      service.ArchiveStorage // アーカイブ無効時は nil
	PDFProcessor service.PDFProcessor

	// Repositories
	UserRepo    repository.UserRepository
	HistoryRepo repository.OperationHistoryRepository

	// Tracker は操作の記録先です。非同期の場合は AsyncTracker と同じものです
	Tracker      service.HistoryTracker
	AsyncTracker *history.AsyncTracker

	// UseCases
	Auth    *AuthUseCases
	History *HistoryUseCases
	PDF     *PDFUseCases

	config *config.Config
}

// NewContainer は新しいContainerを作成します
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	return NewContainerWithOptions(ctx, cfg, Options{})
}

// NewContainerWithOptions はオプションを指定してContainerを作成します
func NewContainerWithOptions(ctx context.Context, cfg *config.Config, opts Options) (*Container, error) {
	c := &Container{
		config: cfg,
	}

	if err := c.initDatabase(ctx, opts); err != nil {
		return nil, err
	}

	if err := c.initRedis(ctx, opts); err != nil {
		c.Close()
		return nil, err
	}

	jwtConfig := jwt.Config{
		SecretKey:          cfg.JWT.SecretKey,
		Issuer:             cfg.JWT.Issuer,
		Audience:           cfg.JWT.Audience,
		AccessTokenExpiry:  cfg.JWT.AccessTokenExpiry,
		RefreshTokenExpiry: cfg.JWT.RefreshTokenExpiry,
	}
	if err := jwtConfig.Validate(); err != nil {
		c.Close()
		return nil, fmt.Errorf("invalid jwt config: %w", err)
	}
	c.JWTService = jwt.NewJWTService(jwtConfig)

	c.initGeoResolver(opts)

	if err := c.initArchive(ctx, opts); err != nil {
		c.Close()
		return nil, err
	}

	if opts.PDFProcessor != nil {
		c.PDFProcessor = opts.PDFProcessor
	} else {
		c.PDFProcessor = pdf.NewProcessor()
	}

	return c, nil
}

func (c *Container) initDatabase(ctx context.Context, opts Options) error {
	switch {
	case opts.SQLiteDB != nil:
		c.useSQLite(opts.SQLiteDB)
	case opts.PostgresPool != nil:
		c.usePostgres(database.NewPostgresClientFromPool(opts.PostgresPool))
	case c.config.Database.Driver == "sqlite":
		slog.Info("opening SQLite database...", "path", c.config.Database.SQLitePath)
		db, err := sqlite.Open(ctx, c.config.Database.SQLitePath)
		if err != nil {
			return fmt.Errorf("failed to open SQLite: %w", err)
		}
		c.useSQLite(db)
		slog.Info("opened SQLite database")
	default:
		slog.Info("connecting to PostgreSQL...")
		pgClient, err := database.NewPostgresClient(ctx, c.config.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		c.usePostgres(pgClient)
		slog.Info("connected to PostgreSQL")
	}
	return nil
}

func (c *Container) useSQLite(db *sqlite.DB) {
	tx := sqlite.NewTxManager(db)
	c.SQLiteDB = db
	c.TxManager = tx
	c.UserRepo = sqlite.NewUserRepository(tx)
	c.HistoryRepo = sqlite.NewOperationHistoryRepository(tx)
}

func (c *Container) usePostgres(pgClient *database.PostgresClient) {
	tx := database.NewTxManager(pgClient.Pool())
	c.PgClient = pgClient
	c.TxManager = tx
	c.UserRepo = infraRepo.NewUserRepository(tx)
	c.HistoryRepo = infraRepo.NewOperationHistoryRepository(tx)
}

// initRedis はRedisを接続します
// URLが空の場合、レート制限とトークン失効は無効になります
func (c *Container) initRedis(ctx context.Context, opts Options) error {
	var client *redis.Client
	switch {
	case opts.RedisClient != nil:
		client = opts.RedisClient
	case c.config.Redis.URL == "":
		slog.Warn("redis is not configured; rate limiting and token revocation are disabled")
		return nil
	default:
		slog.Info("connecting to Redis...")
		redisConfig := cache.DefaultConfig()
		redisConfig.URL = c.config.Redis.URL
		redisClient, err := cache.NewRedisClient(ctx, redisConfig)
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.RedisClient = redisClient
		client = redisClient.Client()
		slog.Info("connected to Redis")
	}

	c.Revoker = cache.NewJWTBlacklist(client)
	c.RateLimiter = cache.NewRateLimiter(client)
	if c.RedisClient == nil {
		c.RedisClient = cache.NewRedisClientFromClient(client)
	}
	return nil
}

func (c *Container) initGeoResolver(opts Options) {
	if opts.GeoResolver != nil {
		c.GeoResolver = opts.GeoResolver
		return
	}
	if !c.config.Geo.Enabled {
		c.GeoResolver = geo.NopResolver{}
		return
	}

	var resolver service.GeoResolver = geo.NewIPAPIResolver(c.config.Geo.BaseURL, c.config.Geo.Timeout)
	if c.RedisClient != nil && c.config.Geo.CacheTTL > 0 {
		resolver = geo.NewCachedResolver(resolver,
			cache.NewCache(c.RedisClient.Client(), cache.NamespaceGeo, c.config.Geo.CacheTTL),
			c.config.Geo.CacheTTL)
	}
	c.GeoResolver = resolver
}

// initArchive はアーカイブ用のオブジェクトストレージを初期化します
func (c *Container) initArchive(ctx context.Context, opts Options) error {
	if opts.Archive != nil {
		c.Archive = opts.Archive
		return nil
	}
	if !c.config.History.ArchiveEnabled {
		return nil
	}
	if !c.config.StorageEnabled() {
		return fmt.Errorf("history.archive_enabled requires storage.endpoint, storage.access_key and storage.secret_key")
	}

	slog.Info("connecting to MinIO...")
	minioClient, err := storage.NewMinIOClient(storage.Config{
		Endpoint:        c.config.Storage.Endpoint,
		AccessKeyID:     c.config.Storage.AccessKey,
		SecretAccessKey: c.config.Storage.SecretKey,
		BucketName:      c.config.Storage.Bucket,
		UseSSL:          c.config.Storage.UseSSL,
		Region:          c.config.Storage.Region,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize MinIO client: %w", err)
	}
	if err := minioClient.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("failed to ensure MinIO bucket: %w", err)
	}
	c.MinIOClient = minioClient
	c.Archive = storage.NewArchiveStore(minioClient)
	slog.Info("connected to MinIO", "endpoint", c.config.Storage.Endpoint, "bucket", minioClient.BucketName())
	return nil
}

// InitUseCases は全てのUseCaseを初期化します
func (c *Container) InitUseCases() {
	c.History = NewHistoryUseCases(c)
	c.initTracker()
	c.Auth = NewAuthUseCases(c)
	c.PDF = NewPDFUseCases(c)
}

// initTracker は操作の記録方式を決定します
func (c *Container) initTracker() {
	if !c.config.History.AsyncTracking {
		c.Tracker = c.History.Track
		return
	}
	c.AsyncTracker = history.NewAsyncTracker(c.History.Track, c.config.History.BufferSize)
	c.Tracker = c.AsyncTracker
}

// Config は設定を返します
func (c *Container) Config() *config.Config {
	return c.config
}

// Shutdown は未処理の記録を書き出します
func (c *Container) Shutdown(ctx context.Context) error {
	if c.AsyncTracker == nil {
		return nil
	}
	return c.AsyncTracker.Shutdown(ctx)
}

// Close はリソースをクリーンアップします
func (c *Container) Close() error {
	var errs []error

	if c.PgClient != nil {
		c.PgClient.Close()
	}

	if c.SQLiteDB != nil {
		if err := c.SQLiteDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close SQLite: %w", err))
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}
	return nil
}

// Options はContainer作成時のオプションを定義します
type Options struct {
	PostgresPool *pgxpool.Pool
	SQLiteDB     *sqlite.DB
	RedisClient  *redis.Client
	GeoResolver  service.GeoResolver
	Archive      service.ArchiveStorage
	PDFProcessor service.PDFProcessor
}
