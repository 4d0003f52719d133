package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/genricoloni/ampresence/internal/config"
	"github.com/genricoloni/ampresence/internal/processor"
	"github.com/genricoloni/ampresence/internal/tags"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type options struct {
	musicDir string
	outDir   string
	size     int
	verbose  bool
}

func parseFlags(args []string) (options, error) {
	var opts options

	fs := pflag.NewFlagSet("assetgen", pflag.ContinueOnError)
	fs.StringVarP(&opts.musicDir, "music-dir", "m", "", "music library to scan (required)")
	fs.StringVarP(&opts.outDir, "out", "o", "", "output directory (default: the ampresence config directory)")
	fs.IntVarP(&opts.size, "size", "s", processor.DefaultCoverSize, "edge of the generated square covers in pixels")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "log every file")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.musicDir == "" {
		return options{}, fmt.Errorf("--music-dir is required")
	}
	if opts.outDir == "" {
		dir, err := config.DefaultDir()
		if err != nil {
			return options{}, err
		}
		opts.outDir = dir
	}
	return opts, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := newLogger(opts.verbose)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger, opts); err != nil {
		logger.Error("Asset generation failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *zap.Logger, opts options) error {
	logger.Info("Scanning music library", zap.String("dir", opts.musicDir))

	albums, err := collectAlbums(ctx, logger, tags.NewReader(logger), opts.musicDir)
	if err != nil {
		return err
	}

	assets, exceptions := planAssets(albums)
	logger.Info("Library scanned",
		zap.Int("albums", len(albums)),
		zap.Int("withCover", len(assets)),
		zap.Int("sharedNames", len(exceptions)))

	return writeAssets(ctx, logger, processor.NewCoverProcessor(logger, opts.size), opts.outDir, assets, exceptions)
}
