// Command corpcodes maintains the company lookup table: it downloads the
// OpenDART corpCode.xml archive and imports it into the SQLite database the
// server reads.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/username/dartviewer/backend/src/config"
	"github.com/username/dartviewer/backend/src/logger"
)

var rootCmd = &cobra.Command{
	Use:   "corpcodes",
	Short: "Download and import OpenDART corporation codes",
	Long: `corpcodes keeps the company lookup table in sync with OpenDART.

Every import is a full replace: the table afterwards holds exactly the
entries of the imported file.`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error); defaults to LOG_LEVEL")

	rootCmd.AddCommand(downloadCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(syncCmd())
	rootCmd.AddCommand(statusCmd())
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down...")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	config.LoadConfig()
	level, _ := cmd.Flags().GetString("log-level")
	if level == "" {
		level = config.Cfg.LogLevel
	}
	if _, ok := logger.ParseLevel(level); !ok {
		return fmt.Errorf("unknown log level %q", level)
	}
	logger.InitLogger(level)
	return nil
}
