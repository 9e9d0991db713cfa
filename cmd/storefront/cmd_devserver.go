package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Thamsanqa-bit/penden-storefront/internal/config"
	"github.com/Thamsanqa-bit/penden-storefront/internal/devstub"
)

var devserverCmd = &cobra.Command{
	Use:   "devserver",
	Short: "Run the in-memory stub backend for local development",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		stub := devstub.NewServer(logger)
		srv := &http.Server{
			Addr:         ":" + cfg.DevstubPort,
			Handler:      stub.Handler(),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		go func() {
			logger.Info("devserver starting", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("server error", zap.Error(err))
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.Info("shutting down devserver")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}

func init() {
	rootCmd.AddCommand(devserverCmd)
}
