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
	"github.com/renderdragon/backend/internal/models"
	"github.com/renderdragon/backend/internal/repositories"
	"github.com/renderdragon/backend/internal/services"
	"github.com/spf13/cobra"
)

// exporter reads the catalog out of the database
type exporter interface {
	Export(ctx context.Context) (*models.ExportDocument, error)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "export the resources table as a grouped JSON document",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}

		_, db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		svc := services.NewCatalogService(repositories.NewResourceRepository(db, logger.Logger), logger.Logger)
		return runExport(cmd.Context(), svc, out, cmd.OutOrStdout())
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "resources.json", "file to write the catalog to")
	rootCmd.AddCommand(exportCmd)
}

func runExport(ctx context.Context, svc exporter, out string, w io.Writer) error {
	doc, err := svc.Export(ctx)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := os.WriteFile(filepath.Clean(out), data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	total := 0
	for _, items := range doc.Categories {
		total += len(items)
	}
	fmt.Fprintf(w, "exported %s resources in %d categories to %s (%s)\n",
		humanize.Comma(int64(total)), len(doc.Categories), out, humanize.Bytes(uint64(len(data))))
	return nil
}
