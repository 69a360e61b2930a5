package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/studyhub/internal/catalog"
	"github.com/ziadkadry99/studyhub/internal/config"
	"github.com/ziadkadry99/studyhub/internal/db"
	"github.com/ziadkadry99/studyhub/internal/events"
	"github.com/ziadkadry99/studyhub/internal/progress"
	"github.com/ziadkadry99/studyhub/internal/render"
	"github.com/ziadkadry99/studyhub/internal/search"
	"github.com/ziadkadry99/studyhub/internal/server"
	"github.com/ziadkadry99/studyhub/internal/session"
	"github.com/ziadkadry99/studyhub/internal/share"
	"github.com/ziadkadry99/studyhub/internal/userdata"
	"github.com/ziadkadry99/studyhub/internal/web"
)

var servePort int

const pruneInterval = time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the resource browser",
	Long: `Starts the StudyHub web server. The spreadsheet is loaded in the
background; pages show a loading state until it arrives and an error panel
if it fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		database, err := db.OpenDir(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		repo := catalog.NewRepository()
		hub := events.NewHub(logger)
		defer hub.Close()

		var replayer *share.Replayer
		sessions := session.NewManager([]byte(cfg.SessionKey), repo,
			session.WithIdleTimeout(cfg.SessionIdle()),
			session.WithSecureCookie(isHTTPS(cfg.PublicBaseURL())),
			session.WithLogger(logger),
			session.OnEvict(func(visitor string) { replayer.Forget(visitor) }))
		replayer = share.NewReplayer(repo, sessions.Navigator,
			share.WithConfig(cfg.Replay),
			share.WithPublisher(hub),
			share.WithLogger(logger))
		defer replayer.Close()

		renderer, err := render.New(cfg.Features, logger)
		if err != nil {
			return err
		}

		var index *search.Index
		if cfg.Search.Enabled {
			embedder, err := search.NewEmbedder(cfg.Search)
			if err != nil {
				return fmt.Errorf("creating embedder: %w", err)
			}
			index = search.NewIndex(embedder, logger)
		}

		go loadInBackground(ctx, cfg, repo, index, logger)
		go sessions.Run(ctx, pruneInterval)

		srv := server.New(server.Config{
			Port:     cfg.Port,
			AllowAll: cfg.AllowAllOrigins,
			Ready:    readiness(repo),
		}, logger)

		web.New(web.Deps{
			Catalog:          repo,
			Sessions:         sessions,
			Store:            userdata.NewStore(database),
			Renderer:         renderer,
			Replayer:         replayer,
			Hub:              hub,
			Index:            index,
			Logger:           logger,
			BaseURL:          cfg.PublicBaseURL(),
			Features:         cfg.Features,
			AllowedLinkHosts: cfg.AllowedLinkHosts,
		}).RegisterRoutes(srv.Router())

		go func() {
			<-ctx.Done()
			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "studyhub %s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", database.Path())
		fmt.Fprintf(os.Stderr, "  Sheet: %s\n", cfg.SheetID)

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

// loadInBackground fetches the sheets once and marks the repository ready
// either way, then indexes the resources for search.
func loadInBackground(ctx context.Context, cfg *config.Config, repo *catalog.Repository, index *search.Index, logger *zap.Logger) {
	tables, err := fetchCatalog(ctx, cfg, logger, progress.NewReporter())
	if err != nil {
		logger.Error("loading catalog", zap.Error(err))
		repo.Fail(err)
		return
	}
	repo.Set(tables)

	c := tables.Counts()
	logger.Info("catalog loaded",
		zap.Int("courses", c.Courses),
		zap.Int("branches", c.Branches),
		zap.Int("semesters", c.Semesters),
		zap.Int("subjects", c.Subjects),
		zap.Int("resources", c.Resources))

	if index != nil {
		if err := index.Build(ctx, tables); err != nil {
			logger.Error("building search index", zap.Error(err))
		}
	}
}

func readiness(repo *catalog.Repository) func() error {
	return func() error {
		select {
		case <-repo.Ready():
			return repo.Err()
		default:
			return catalog.ErrNotReady
		}
	}
}

func isHTTPS(u string) bool {
	return strings.HasPrefix(strings.ToLower(u), "https://")
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
