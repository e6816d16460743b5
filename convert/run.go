package convert

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"sdx/config"
	"sdx/docx"
	"sdx/media"
	"sdx/shelf"
	"sdx/snippet"
	"sdx/store"
)

// Run renders one shelf according to the configuration and publishes the
// finished document, returning its download link.
func Run(ctx context.Context, cfg *config.Config, sh *shelf.Shelf, rpt *config.Report, log *zap.Logger) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var template []byte
	if cfg.Document.TemplatePath != "" {
		data, err := os.ReadFile(cfg.Document.TemplatePath)
		if err != nil {
			return "", fmt.Errorf("unable to read style template %q: %w", cfg.Document.TemplatePath, err)
		}
		template = data
	}

	var snippets snippet.Resolver
	if cfg.Snippets.DatabasePath != "" {
		db, err := snippet.OpenSQLite(cfg.Snippets.DatabasePath)
		if err != nil {
			return "", fmt.Errorf("unable to open snippets: %w", err)
		}
		defer db.Close()
		snippets = db
	}

	opts := Options{
		Template:      template,
		FontName:      cfg.Document.Fonts.Name,
		FontSize:      cfg.Document.Fonts.Size,
		TextColor:     cfg.Document.Fonts.TextColor,
		HeadingColor:  cfg.Document.Fonts.HeadingColor,
		MaxImageWidth: docx.Cm(cfg.Document.Images.MaxWidthCm),
		JPEGQuality:   cfg.Document.Images.JPEGQuality,
		FixZip:        cfg.Document.FixZip,
		NoBorders:     cfg.Document.Images.Border == config.BorderModeNone,
		ForceBorders:  cfg.Document.Images.Border == config.BorderModeAlways,
	}

	fetcher := media.NewHTTPFetcher(time.Duration(cfg.Document.Images.FetchTimeoutSec) * time.Second)
	exporter, err := NewExporter(fetcher, snippets, opts, log)
	if err != nil {
		return "", err
	}

	log.Info("Render starting", zap.String("shelf", sh.ID), zap.Int("books", len(sh.Books)))
	defer func(start time.Time) {
		log.Info("Render completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	data, err := exporter.Render(ctx, sh)
	if err != nil {
		return "", fmt.Errorf("unable to render shelf %q: %w", sh.ID, err)
	}
	rpt.StoreData(config.CleanFileName(sh.Name)+".docx", data)

	st, err := store.NewFSStore(cfg.Store.Directory, string(cfg.Store.SigningKey), log)
	if err != nil {
		return "", err
	}
	return store.Upload(ctx, st, sh.ID, sh.RequestUserID, sh.Name, data, log)
}
