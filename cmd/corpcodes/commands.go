package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/username/dartviewer/backend/src/config"
	"github.com/username/dartviewer/backend/src/database"
	"github.com/username/dartviewer/backend/src/parsers/corpcode"
	"github.com/username/dartviewer/backend/src/services"
)

func downloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download corpCode.zip from OpenDART",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir := corpCodeDir(cmd)
			if err := requireAPIKey(); err != nil {
				return err
			}
			svc := services.NewImportService(nil, newDartClient(), corpcode.NewParser(), nil)
			path, err := svc.DownloadCorpCodes(cmd.Context(), dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
			return nil
		},
	}
	cmd.Flags().String("dir", "", "directory the archive is written to; defaults to CORP_CODE_DIR")
	return cmd
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Replace the company table with a corp code file (zip, XML or JSON)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := corpCodeDir(cmd)
			path := filepath.Join(dir, services.CorpCodeArchiveName)
			if len(args) == 1 {
				path = args[0]
			}
			return withDB(func(db *sql.DB) error {
				return runImport(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), db, path)
			})
		},
	}
	cmd.Flags().String("dir", "", "directory holding corpCode.zip when no file is given; defaults to CORP_CODE_DIR")
	return cmd
}

func syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Download the latest archive and import it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir := corpCodeDir(cmd)
			if err := requireAPIKey(); err != nil {
				return err
			}
			return withDB(func(db *sql.DB) error {
				svc := services.NewImportService(db, newDartClient(), corpcode.NewParser(), nil)
				path, err := svc.DownloadCorpCodes(cmd.Context(), dir)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
				return runImport(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), db, path)
			})
		},
	}
	cmd.Flags().String("dir", "", "directory the archive is written to; defaults to CORP_CODE_DIR")
	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show how many companies are loaded and when they were imported",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(func(db *sql.DB) error {
				svc := services.NewCompanyService(db, nil, nil, 0)
				status, err := svc.Status(cmd.Context())
				if err != nil {
					return err
				}
				printStatus(cmd.OutOrStdout(), status)
				return nil
			})
		},
	}
}

func runImport(ctx context.Context, out, progressOut io.Writer, db *sql.DB, path string) error {
	svc := services.NewImportService(db, nil, corpcode.NewParser(), nil)

	var bar *progressbar.ProgressBar
	result, err := svc.ImportFile(ctx, path,
		func(total int) {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(progressOut),
				progressbar.OptionShowCount(),
				progressbar.OptionShowElapsedTimeOnFinish(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Importing companies..."),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(progressOut)
				}),
			)
		},
		func(done int) {
			if bar != nil {
				_ = bar.Set(done)
			}
		},
	)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Imported %s companies (%s listed) from %s in %s\n",
		humanize.Comma(int64(result.Companies)), humanize.Comma(int64(result.Listed)),
		result.Source, result.Duration.Round(time.Millisecond))
	return nil
}

func printStatus(w io.Writer, status *services.LookupStatus) {
	fmt.Fprintf(w, "Companies: %s\n", humanize.Comma(int64(status.Companies)))
	if status.LastImportAt == nil {
		fmt.Fprintln(w, "Last import: never (run `corpcodes sync`)")
		return
	}
	fmt.Fprintf(w, "Last import: %s (%s) from %s\n",
		status.LastImportAt.Local().Format("2006-01-02 15:04:05"),
		humanize.Time(*status.LastImportAt), status.LastSource)
}

func withDB(fn func(db *sql.DB) error) error {
	db, err := database.Open(config.Cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	return fn(db)
}

func newDartClient() services.DartClient {
	return services.NewDartClient(config.Cfg.DartBaseURL, config.Cfg.DartAPIKey, config.Cfg.DartTimeout)
}

func requireAPIKey() error {
	if config.Cfg.DartAPIKey == "" {
		return errors.New("OPEN_DART_API_KEY is not set")
	}
	return nil
}

func corpCodeDir(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		return dir
	}
	return config.Cfg.CorpCodeDir
}
