package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/renderdragon/backend/internal/logger"
	"github.com/renderdragon/backend/internal/repositories"
	"github.com/renderdragon/backend/internal/services"
	"github.com/spf13/cobra"
)

// importer writes a catalog document to the database
type importer interface {
	Import(ctx context.Context, raw json.RawMessage, replace bool) (*services.ImportReport, error)
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "import a catalog JSON document into the resources table",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := cmd.Flags().GetString("file")
		if err != nil {
			return err
		}
		replace, err := cmd.Flags().GetBool("replace")
		if err != nil {
			return err
		}

		_, db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		svc := services.NewCatalogService(repositories.NewResourceRepository(db, logger.Logger), logger.Logger)
		return runImport(cmd.Context(), svc, file, replace, cmd.OutOrStdout())
	},
}

func init() {
	importCmd.Flags().StringP("file", "f", "", "catalog JSON document to import")
	importCmd.MarkFlagRequired("file")
	importCmd.Flags().Bool("replace", false, "delete every stored resource before importing")
	rootCmd.AddCommand(importCmd)
}

func runImport(ctx context.Context, svc importer, file string, replace bool, w io.Writer) error {
	data, err := os.ReadFile(filepath.Clean(file))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}
	if !json.Valid(data) {
		return fmt.Errorf("%s is not valid JSON", file)
	}
	fmt.Fprintf(w, "read %s from %s\n", humanize.Bytes(uint64(len(data))), file)

	report, err := svc.Import(ctx, data, replace)
	if err != nil {
		return err
	}

	if replace {
		fmt.Fprintf(w, "deleted %s existing resources\n", humanize.Comma(report.Deleted))
	}
	fmt.Fprintf(w, "parsed %s, inserted %s, skipped %s, failed %s (%d batches)\n",
		humanize.Comma(int64(report.Parsed)),
		humanize.Comma(int64(report.Inserted)),
		humanize.Comma(int64(report.Skipped)),
		humanize.Comma(int64(report.Failed)),
		report.Batches,
	)
	if report.Failed > 0 {
		return fmt.Errorf("%d resources failed to import", report.Failed)
	}
	return nil
}
