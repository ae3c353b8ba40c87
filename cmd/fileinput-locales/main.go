// Command fileinput-locales serves and exports the bootstrap-fileinput
// translation bundles.
//
// Usage:
//
//	fileinput-locales [serve]
//	fileinput-locales validate [-strict] [-dir path]
//	fileinput-locales export -code uk [-format js|json] [-raw] [-o file] [-dir path]
//	fileinput-locales list [-dir path]
//
// Settings are read from the environment, see internal/config.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"text/tabwriter"

	"github.com/dmitrymomot/fileinput-locales/internal/config"
	"github.com/dmitrymomot/fileinput-locales/locales"
	"github.com/dmitrymomot/fileinput-locales/middlewares"
	"github.com/dmitrymomot/fileinput-locales/pkg/cache"
	"github.com/dmitrymomot/fileinput-locales/pkg/locale"
	"github.com/dmitrymomot/fileinput-locales/pkg/logger"
	"github.com/dmitrymomot/fileinput-locales/pkg/redis"
	"github.com/dmitrymomot/fileinput-locales/server"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	cmd := "serve"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "serve":
		return serve(ctx, cfg, args)
	case "validate":
		return validate(cfg, args, stdout)
	case "export":
		return export(cfg, args, stdout)
	case "list":
		return list(cfg, args, stdout)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// newRegistry registers the embedded bundles, then the bundles found in dir.
// Aliases follow their targets unless dir defines the alias itself.
func newRegistry(log *slog.Logger, dir string) (*locale.Registry, error) {
	overrides, err := loadDir(dir)
	if err != nil {
		return nil, err
	}

	reg, err := locale.NewRegistry(
		locale.WithLogger(log),
		locales.WithEmbedded(),
		locales.WithOverrides(overrides),
	)
	if err != nil {
		return nil, fmt.Errorf("load locales: %w", err)
	}
	return reg, nil
}

// loadDir reads the YAML and JSON bundles in dir. A JSON file wins over a
// YAML file for the same code.
func loadDir(dir string) (map[string]*locale.Bundle, error) {
	if dir == "" {
		return nil, nil
	}
	fsys := os.DirFS(dir)

	bundles, err := locale.LoadYAML(fsys)
	if err != nil {
		return nil, fmt.Errorf("load locales: %w", err)
	}
	fromJSON, err := locale.LoadJSON(fsys)
	if err != nil {
		return nil, fmt.Errorf("load locales: %w", err)
	}
	maps.Copy(bundles, fromJSON)
	return bundles, nil
}

func serve(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", cfg.Address, "listen address")
	dir := fs.String("dir", cfg.LocalesDir, "directory with extra {code}.yaml or {code}.json bundles")
	strict := fs.Bool("strict", cfg.StrictSchema, "refuse to start when a bundle has schema issues")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log := logger.New(cfg.Log,
		middlewares.RequestIDExtractor(),
		middlewares.LocaleExtractor(),
	)

	reg, err := newRegistry(log, *dir)
	if err != nil {
		return err
	}
	if err := reg.Validate(); err != nil {
		if *strict {
			return err
		}
		var verr *locale.ValidationError
		if errors.As(err, &verr) {
			log.Warn("locales have schema issues", slog.Int("issues", len(verr.Issues)))
		}
	}

	opts := []server.Option{
		server.WithLogger(log),
		server.WithAddress(*addr),
		server.WithDefaultLocale(cfg.DefaultLocale),
		server.WithAliases(locales.Aliases),
		server.WithShutdownTimeout(cfg.ShutdownTimeout),
	}

	if cfg.Redis.Enabled() {
		client, err := redis.Open(ctx, cfg.Redis, redis.WithLogger(log))
		if err != nil {
			return err
		}
		opts = append(opts,
			server.WithCache(cache.NewRedis(client, cache.WithRedisDefaultTTL(cfg.CacheTTL)), cfg.CacheTTL),
			server.WithReadinessCheck("redis", redis.Healthcheck(client)),
			server.WithShutdownHook(redis.Shutdown(client)),
		)
	} else {
		store := cache.NewMemory(
			cache.WithDefaultTTL(cfg.CacheTTL),
			cache.WithMaxBytes(cfg.CacheMaxBytes),
		)
		opts = append(opts,
			server.WithCache(store, cfg.CacheTTL),
			server.WithShutdownHook(func(context.Context) error { return store.Close() }),
		)
	}

	return server.New(reg, opts...).Run(ctx)
}

func validate(cfg config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	dir := fs.String("dir", cfg.LocalesDir, "directory with extra bundles")
	strict := fs.Bool("strict", cfg.StrictSchema, "exit with an error when any issue is found")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reg, err := newRegistry(logger.NewNope(), *dir)
	if err != nil {
		return err
	}

	err = reg.Validate()
	var verr *locale.ValidationError
	if !errors.As(err, &verr) {
		fmt.Fprintf(stdout, "%d locales, no issues\n", reg.Len())
		return err
	}
	for _, is := range verr.Issues {
		fmt.Fprintln(stdout, is.String())
	}
	fmt.Fprintf(stdout, "%d locales, %d issues\n", reg.Len(), len(verr.Issues))
	if *strict {
		return fmt.Errorf("validation failed with %d issues", len(verr.Issues))
	}
	return nil
}

func export(cfg config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	dir := fs.String("dir", cfg.LocalesDir, "directory with extra bundles")
	code := fs.String("code", "", "locale code to export")
	format := fs.String("format", "js", "output format: js or json")
	raw := fs.Bool("raw", false, "export the bundle as registered, without default fallbacks")
	out := fs.String("o", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *code == "" {
		return errors.New("export: -code is required")
	}
	if *format != "js" && *format != "json" {
		return fmt.Errorf("export: unknown format %q", *format)
	}

	reg, err := newRegistry(logger.NewNope(), *dir)
	if err != nil {
		return err
	}

	b, ok := reg.Lookup(*code)
	if !ok {
		return fmt.Errorf("%w: %q", locale.ErrNotFound, *code)
	}
	if !*raw {
		if b, err = reg.Resolve(*code, cfg.DefaultLocale); err != nil {
			return err
		}
	}

	if *out == "" {
		return writeBundle(stdout, *format, *code, b, reg.Schema())
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	if err := writeBundle(f, *format, *code, b, reg.Schema()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeBundle(w io.Writer, format, code string, b *locale.Bundle, schema *locale.Schema) error {
	if format == "js" {
		return locale.WriteScript(w, code, locale.DisplayName(code, locales.Aliases), b, schema)
	}
	data, err := locale.EncodeJSON(b, schema)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func list(cfg config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	dir := fs.String("dir", cfg.LocalesDir, "directory with extra bundles")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reg, err := newRegistry(logger.NewNope(), *dir)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tALIAS OF\tISSUES")
	for _, code := range reg.Codes() {
		b, _ := reg.Lookup(code)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n",
			code,
			locale.DisplayName(code, locales.Aliases),
			locales.AliasOf(code),
			len(locale.Validate(code, b, reg.Schema())),
		)
	}
	return tw.Flush()
}
