package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	hrdocs "github.com/lvillar/hrdocs"
	"github.com/lvillar/hrdocs/internal/config"
	"github.com/lvillar/hrdocs/internal/logging"
	"github.com/lvillar/hrdocs/pageops"
	"github.com/lvillar/hrdocs/photo"
	"github.com/lvillar/hrdocs/report"
	"github.com/lvillar/hrdocs/reports"
	"github.com/lvillar/hrdocs/store/sqlstore"
)

// app holds the collaborators shared by the subcommands.
type app struct {
	cfg    config.Config
	log    *zap.Logger
	store  *sqlstore.Store
	engine *report.Engine
}

func loadConfig(cmd *cobra.Command, g *globalFlags) (config.Config, error) {
	return config.Load(config.New(g.configPath), cmd.Flags(), g.configPath != "")
}

// thaiCapable reports whether the configured body font can print Thai.
func thaiCapable(cfg config.Config) (hrdocs.FontFiles, bool) {
	ff, ok := cfg.Fonts.FontFiles()
	if !ok {
		return ff, false
	}
	if _, err := os.Stat(ff.Regular); err != nil {
		return ff, false
	}
	return ff, true
}

// newApp connects the store and builds the engine described by cfg.
func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	log, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	st, err := sqlstore.Open(ctx, cfg.Database.Driver, cfg.Database.DSN, sqlstore.WithLogger(log))
	if err != nil {
		return nil, err
	}

	router := photo.Router{HTTP: photo.NewHTTPFetcher(cfg.Photos.Timeout)}
	if cfg.Photos.S3.Region != "" || cfg.Photos.S3.Endpoint != "" {
		var opts []photo.S3Option
		if cfg.Photos.S3.Endpoint != "" {
			opts = append(opts, photo.WithEndpoint(cfg.Photos.S3.Endpoint))
		}
		s3, err := photo.LoadS3Fetcher(ctx, cfg.Photos.S3.Region, opts...)
		if err != nil {
			st.Close()
			return nil, err
		}
		router.S3 = s3
	}
	photos := photo.NewNormalizer(router,
		photo.WithLogger(log),
		photo.WithConcurrency(cfg.Photos.Concurrency),
	)

	font, thai := thaiCapable(cfg)
	reg, err := reports.Registry(reports.Deps{
		Store:    st,
		Photos:   photos,
		Log:      log,
		Thai:     thai,
		PhotoDPI: cfg.Photos.DPI,
	})
	if err != nil {
		st.Close()
		return nil, err
	}

	docOpts := []hrdocs.Option{hrdocs.WithCompression(cfg.PDF.Compress)}
	if thai {
		docOpts = append(docOpts, hrdocs.WithUTF8Font(font))
	}
	engineOpts := []report.Option{
		report.WithLogger(log),
		report.WithDocumentOptions(docOpts...),
	}
	if cfg.Letterhead != "" {
		lh, err := pageops.LoadLetterhead(cfg.Letterhead)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("letterhead: %w", err)
		}
		engineOpts = append(engineOpts, report.WithDecorator(lh.WithPage(cfg.LetterheadPage)))
	}
	if cfg.Watermark != "" {
		engineOpts = append(engineOpts, report.WithDecorator(pageops.TextWatermark{Text: cfg.Watermark}))
	}

	return &app{
		cfg:    cfg,
		log:    log,
		store:  st,
		engine: report.NewEngine(reg, engineOpts...),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("closing store", zap.Error(err))
	}
	_ = a.log.Sync()
}

func startApp(cmd *cobra.Command, g *globalFlags) (*app, error) {
	cfg, err := loadConfig(cmd, g)
	if err != nil {
		return nil, err
	}
	return newApp(cmd.Context(), cfg)
}
