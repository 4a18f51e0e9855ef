/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sleeplog/apiserver/internal/db"
	"github.com/sleeplog/apiserver/internal/mq"
	"github.com/sleeplog/apiserver/internal/services"
	"github.com/sleeplog/apiserver/internal/sleep"
	"github.com/sleeplog/apiserver/internal/storage"
	"github.com/sleeplog/apiserver/internal/store"
	"github.com/sleeplog/apiserver/internal/worker"
)

// workerCmd represents the worker command
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Generates queued sleep record exports",
	Long: `Consumes export requests from the configured message broker and
writes the generated documents to object storage. Usage:

	sleeplog worker
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		broker, err := mq.Open(ctx, cfg.MQ)
		if err != nil {
			return fmt.Errorf("open broker: %w", err)
		}
		if broker == nil {
			return errors.New("MQ_BACKEND is required for the worker")
		}
		defer func() { _ = broker.Close() }()

		objects, err := storage.Open(ctx, cfg.Storage)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		if objects == nil {
			return errors.New("STORAGE_BACKEND is required for the worker")
		}
		exportStore := storage.NewStorage(objects)
		defer func() { _ = exportStore.Close() }()
		if err := exportStore.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("ensure bucket: %w", err)
		}

		dbConn, err := db.Open(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer func() { _ = dbConn.Close() }()

		exports := services.NewExportService(
			store.NewSleepRecordRepository(dbConn),
			nil,
			exportStore,
			cfg.MQ.ExportChannel,
			sleep.DefaultCatalog(),
			logger,
		)

		w := worker.NewExportWorker(mq.New(broker), exports, cfg.MQ.ExportChannel, logger)
		if err := w.Run(ctx); err != nil {
			logger.Error("worker stopped", zap.Error(err))
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
