package main

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Thamsanqa-bit/penden-storefront/internal/api"
	"github.com/Thamsanqa-bit/penden-storefront/internal/auth"
	"github.com/Thamsanqa-bit/penden-storefront/internal/cart"
	"github.com/Thamsanqa-bit/penden-storefront/internal/catalog"
	"github.com/Thamsanqa-bit/penden-storefront/internal/config"
	"github.com/Thamsanqa-bit/penden-storefront/internal/session"
	"github.com/Thamsanqa-bit/penden-storefront/internal/store"
	"github.com/Thamsanqa-bit/penden-storefront/internal/tui"
)

var (
	verbose bool
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "PenDen storefront - terminal client for the PenDen store",
	Long: `Terminal client for the PenDen e-commerce backend.

Browse the catalog, manage your cart, and check out from the command line.
Run without arguments to start the interactive shop UI.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The TUI owns the terminal, keep its logger quiet.
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		if cmd.CalledAs() == "storefront" {
			logger = zap.NewNop()
			return nil
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		return tui.Run(app.cart, app.catalog, app.gate, app.api, logger)
	},
}

// app wires the client stack: store -> session -> api -> managers.
type app struct {
	cfg     *config.Config
	store   store.Store
	session *session.Session
	api     *api.Client
	cart    *cart.Manager
	catalog *catalog.Browser
	gate    *auth.Gate
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	st, err := buildStore(cfg)
	if err != nil {
		return nil, err
	}
	sess := session.New(st)

	client, err := api.New(cfg.APIBaseURL,
		api.WithTokenSource(sess),
		api.WithLogger(logger),
		api.WithUnauthorizedHook(func(ctx context.Context) {
			// Expired or revoked token: forget it, the user must sign in again.
			_ = sess.Clear(ctx)
		}),
	)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		store:   st,
		session: sess,
		api:     client,
		cart:    cart.NewManager(client, st, logger),
		catalog: catalog.NewBrowser(client, st, cfg.PageSize, logger),
		gate:    auth.NewGate(client, sess, logger),
	}, nil
}

func buildStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreKind {
	case config.StoreMemory:
		return store.NewMemoryStore(), nil
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return store.NewRedisStore(client, "penden"), nil
	default:
		path := cfg.StoreFile
		if path == "" {
			var err error
			path, err = store.DefaultFilePath()
			if err != nil {
				return nil, err
			}
		}
		return store.NewFileStore(path), nil
	}
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
