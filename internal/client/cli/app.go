package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/depositkeeper/internal/client/blobstore"
	"github.com/dmitrijs2005/depositkeeper/internal/client/client"
	"github.com/dmitrijs2005/depositkeeper/internal/client/config"
	"github.com/dmitrijs2005/depositkeeper/internal/client/metrics"
	"github.com/dmitrijs2005/depositkeeper/internal/client/models"
	"github.com/dmitrijs2005/depositkeeper/internal/client/services"
	"github.com/dmitrijs2005/depositkeeper/internal/client/storage"
	"github.com/dmitrijs2005/depositkeeper/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Services is everything the commands use.
type Services struct {
	Auth        services.AuthService
	Properties  services.PropertyService
	Drafts      services.DraftCache
	Walkthrough services.WalkthroughService
	Photos      services.PhotoService
	Assembler   services.ReportAssembler
	Reports     services.ReportService
}

type App struct {
	config   *config.Config
	logger   logging.Logger
	svc      Services
	gatherer prometheus.Gatherer
	reader   *bufio.Reader
	out      io.Writer
	closers  []func() error

	mu         sync.Mutex
	Mode       Mode
	screen     string
	propertyID models.ID
	roomID     models.ID
}

// NewApp opens the local cache, picks the photo store and wires the
// gateway and services.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	db, err := storage.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open local cache %s: %w", cfg.DatabasePath, err)
	}
	repos := storage.NewRepositories(db)

	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	gm, err := metrics.NewGatewayMetrics(reg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	creds := client.NewCredentials("")
	api := client.NewHTTPClient(cfg.BaseURL(), creds,
		client.WithPublicTimeout(cfg.PublicRequestTimeout),
		client.WithMetrics(gm),
		client.WithLogger(logger),
	)

	a := &App{
		config:   cfg,
		logger:   logger,
		gatherer: reg,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		closers:  []func() error{db.Close},
	}

	auth := services.NewAuthService(api, creds, repos.Metadata, a, logger)
	api.SetUnauthorizedHandler(auth.HandleUnauthorized)

	drafts := services.NewDraftCache(api, repos.Rooms, repos, blobs, logger)
	photos := services.NewPhotoService(api, repos.Photos, blobs, logger)
	a.svc = Services{
		Auth:        auth,
		Properties:  services.NewPropertyService(api, logger),
		Drafts:      drafts,
		Walkthrough: services.NewWalkthroughService(drafts, api, repos.Metadata, a, logger),
		Photos:      photos,
		Assembler:   services.NewReportAssembler(api, api, photos, repos.Metadata, a, logger, cfg.Origin()),
		Reports:     services.NewReportService(api, api, logger),
	}
	return a, nil
}

func newBlobStore(ctx context.Context, cfg *config.Config) (blobstore.Store, error) {
	switch cfg.PhotoStore {
	case "s3":
		return blobstore.NewS3Store(ctx, blobstore.S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	case "", "local":
		return blobstore.NewLocalStore(cfg.PhotoDir)
	default:
		return nil, fmt.Errorf("unknown photo store %q", cfg.PhotoStore)
	}
}

// Close releases the local cache.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Navigate records the screen the workflow moved to and tells the user.
func (a *App) Navigate(_ context.Context, path string) {
	a.mu.Lock()
	a.screen = path
	a.mu.Unlock()
	fmt.Fprintf(a.out, "→ %s\n", path)
}

func (a *App) Screen() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.screen
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.Mode != mode
	a.Mode = mode
	a.mu.Unlock()
	if changed {
		a.logger.Info(ctx, "connectivity changed", "mode", string(mode))
	}
}

func (a *App) mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Mode
}

func (a *App) isLoggedIn() bool {
	return a.svc.Auth != nil && a.svc.Auth.IsAuthenticated()
}

// Run restores a saved session and blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.Close(); err != nil {
			a.logger.Warn(ctx, "close failed", "error", err)
		}
	}()

	if a.svc.Auth.CheckAuth(ctx) {
		fmt.Fprintf(a.out, "Welcome back, %s\n", a.svc.Auth.User().Name)
	}
	a.Root(ctx)
}

// StartOnlineStatusWatcher pings the backend every interval until ctx ends.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.svc.Auth.Ping(pctx)
	cancel()
	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}
