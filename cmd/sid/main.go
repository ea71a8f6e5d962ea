// Command sid converts scripture text into OSIS XML and SWORD modules.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/FocuswithJustin/sid/core/booknames"
	sterrors "github.com/FocuswithJustin/sid/core/errors"
	"github.com/FocuswithJustin/sid/core/ir"
	"github.com/FocuswithJustin/sid/core/osis"
	"github.com/FocuswithJustin/sid/core/ref"
	"github.com/FocuswithJustin/sid/core/sqlite"
	sidxml "github.com/FocuswithJustin/sid/core/xml"
	"github.com/FocuswithJustin/sid/internal/archive"
	"github.com/FocuswithJustin/sid/internal/config"
	"github.com/FocuswithJustin/sid/internal/logging"
	"github.com/FocuswithJustin/sid/internal/metrics"
	"github.com/FocuswithJustin/sid/internal/module"
	"github.com/FocuswithJustin/sid/internal/source"
	"github.com/FocuswithJustin/sid/internal/watch"
)

const version = "0.1.0"

// stdout receives command results. Logs go to stderr.
var stdout io.Writer = os.Stdout

// CLI defines the command-line interface for sid.
type CLI struct {
	// Global flags
	Config    string `name:"config" short:"c" help:"Module configuration file (YAML)" type:"path" default:"sid.yaml"`
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" help:"Log format (text, json)"`

	Build      BuildCmd      `cmd:"" help:"Build a SWORD module from a source file"`
	OSIS       OSISCmd       `cmd:"" name:"osis" help:"Write the OSIS XML for a source file"`
	Validate   ValidateCmd   `cmd:"" help:"Validate source files or OSIS documents"`
	Resolve    ResolveCmd    `cmd:"" help:"Resolve a book name or reference to OSIS or USFM"`
	Condense   CondenseCmd   `cmd:"" help:"Condense a reference range"`
	Verify     VerifyCmd     `cmd:"" help:"Check a packaged module against its manifest"`
	Books      BooksCmd      `cmd:"" help:"List the canonical books"`
	InitConfig InitConfigCmd `cmd:"" name:"init-config" help:"Write a default configuration file"`
	Version    VersionCmd    `cmd:"" help:"Print version information"`
}

// ModuleFlags override the module section of the configuration.
type ModuleFlags struct {
	Name        string `help:"Module name (e.g. KJV)"`
	LongName    string `name:"long-name" help:"Human-readable module title"`
	Language    string `help:"Language tag (e.g. en)"`
	Description string `help:"Module description"`
	Author      string `help:"Text source, written as TextSource"`
}

func (f ModuleFlags) apply(cfg *config.Config) {
	cfg.Merge(&config.Config{Module: config.ModuleConfig{
		Name:        f.Name,
		LongName:    f.LongName,
		Language:    f.Language,
		Description: f.Description,
		Author:      f.Author,
	}})
}

// BuildCmd builds a packaged SWORD module.
type BuildCmd struct {
	Input       string `arg:"" help:"Source file (.json, .db, .sqlite)" type:"existingfile"`
	ModuleFlags `embed:""`

	Archive     string `help:"Archive format (zip, tar.xz)"`
	OutputDir   string `name:"output-dir" short:"o" help:"Directory for the packaged module" type:"path"`
	BuildDir    string `name:"build-dir" help:"Scratch directory" type:"path"`
	Osis2Mod    string `name:"osis2mod" help:"osis2mod binary"`
	KeepBuild   bool   `name:"keep-build" help:"Keep the build directory"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus textfile metrics here" type:"path"`
	Watch       bool   `help:"Rebuild whenever the source file changes"`
	JSON        bool   `name:"json" help:"Print the build result as JSON"`
}

func (c *BuildCmd) Run(ctx context.Context, cfg *config.Config) error {
	c.ModuleFlags.apply(cfg)
	cfg.Merge(&config.Config{Build: config.BuildConfig{
		Osis2Mod:    c.Osis2Mod,
		OutputDir:   c.OutputDir,
		BuildDir:    c.BuildDir,
		Archive:     c.Archive,
		KeepBuild:   c.KeepBuild,
		MetricsFile: c.MetricsFile,
	}})

	var collector *metrics.Collector
	if cfg.Build.MetricsFile != "" {
		collector = metrics.New()
	}
	build := func(ctx context.Context) error {
		return c.build(ctx, *cfg, collector)
	}

	err := build(ctx)
	if !c.Watch {
		return err
	}
	if err != nil {
		logging.ErrorContext(ctx, "build_failed", "input", c.Input, "error", err.Error())
	}

	w, err := watch.New(c.Input, cfg.Build.WatchDebounce)
	if err != nil {
		return err
	}
	defer w.Close()
	return w.Run(ctx, build)
}

// build runs one build on its own copy of cfg. A module name taken from the
// source does not carry over to the next watch rebuild.
func (c *BuildCmd) build(ctx context.Context, cfg config.Config, collector *metrics.Collector) error {
	corpus, err := source.Load(ctx, c.Input)
	if err != nil {
		return err
	}
	if cfg.Module.Name == "" {
		cfg.Module.Name = corpus.Work.ID
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	b := module.NewBuilder(&cfg)
	if collector != nil {
		b.Observer = collector
	}
	res, err := b.Build(ctx, corpus)
	if collector != nil {
		if err == nil {
			if fi, serr := os.Stat(res.ArchivePath); serr == nil {
				collector.ObserveBuild(res.Module, cfg.Build.Archive, res.Chapters, res.Verses, fi.Size())
			}
		}
		if werr := collector.WriteFile(cfg.Build.MetricsFile); werr != nil {
			logging.WarnContext(ctx, "metrics_write_failed", "path", cfg.Build.MetricsFile, "error", werr.Error())
		}
	}
	if err != nil {
		return err
	}

	if c.JSON {
		return writeJSON(res)
	}
	fmt.Fprintf(stdout, "Module %s (%d chapters, %d verses)\n", res.Module, res.Chapters, res.Verses)
	fmt.Fprintf(stdout, "  -> Module was created at '%s'\n", res.ArchivePath)
	fmt.Fprintf(stdout, "  -> Manifest: %s\n", res.ManifestPath)
	if res.BuildDir != "" {
		fmt.Fprintf(stdout, "  -> Build directory kept at '%s'\n", res.BuildDir)
	}
	return nil
}

// OSISCmd writes OSIS XML without compiling it.
type OSISCmd struct {
	Input       string `arg:"" help:"Source file (.json, .db, .sqlite)" type:"existingfile"`
	ModuleFlags `embed:""`

	Out string `short:"o" help:"Output file (default: stdout)" type:"path"`
}

func (c *OSISCmd) Run(ctx context.Context, cfg *config.Config) error {
	c.ModuleFlags.apply(cfg)

	corpus, err := source.Load(ctx, c.Input)
	if err != nil {
		return err
	}
	meta := module.MetadataFrom(cfg.Module, corpus.Work)

	text, err := osis.Serialize(corpus.Documents, meta.Work())
	if err != nil {
		return err
	}
	if c.Out == "" {
		_, err = io.WriteString(stdout, text)
		return err
	}
	if err := osis.WriteFile(c.Out, text); err != nil {
		return err
	}
	logging.Info("osis_written", "path", c.Out, "chapters", len(corpus.Documents))
	return nil
}

// ValidateCmd checks source corpora and OSIS XML files.
type ValidateCmd struct {
	Inputs []string `arg:"" name:"input" help:"Source files, OSIS XML files or glob patterns (** matches directories)"`
	Count  string   `help:"XPath expression to count in XML files"`
}

func (c *ValidateCmd) Run(ctx context.Context) error {
	paths, err := expandInputs(c.Inputs)
	if err != nil {
		return err
	}

	var errs []error
	for _, path := range paths {
		if err := c.validate(ctx, path, len(paths) > 1); err != nil {
			errs = append(errs, err)
		}
	}
	if len(paths) > 1 && len(errs) > 0 {
		fmt.Fprintf(stdout, "%d of %d inputs failed validation\n", len(errs), len(paths))
	}
	return sterrors.Join(errs...)
}

func (c *ValidateCmd) validate(ctx context.Context, path string, many bool) error {
	if strings.EqualFold(filepath.Ext(path), ".xml") {
		return c.validateXML(path, many)
	}

	corpus, err := source.Load(ctx, path)
	if err != nil {
		return err
	}
	errs := ir.ValidateCorpus(corpus)
	for _, e := range errs {
		fmt.Fprintf(stdout, "  %v\n", e)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s: %d problems found", path, len(errs))
	}
	fmt.Fprintf(stdout, "%s: ok (%d chapters, %d verses)\n", path, len(corpus.Documents), corpus.VerseCount())
	return nil
}

func (c *ValidateCmd) validateXML(path string, many bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := sidxml.Check(data); err != nil {
		fmt.Fprintf(stdout, "  %v\n", err)
		return fmt.Errorf("%s: not well-formed", path)
	}

	if c.Count == "" {
		fmt.Fprintf(stdout, "%s: well-formed\n", path)
		return nil
	}
	doc, err := sidxml.Parse(data)
	if err != nil {
		return err
	}
	n, err := doc.Count(c.Count)
	if err != nil {
		return err
	}
	if many {
		fmt.Fprintf(stdout, "%s: %d\n", path, n)
	} else {
		fmt.Fprintf(stdout, "%d\n", n)
	}
	return nil
}

// expandInputs expands glob patterns, including "**", into file paths.
// Plain paths pass through and must exist. Duplicates are dropped.
func expandInputs(patterns []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		matches := []string{pattern}
		if strings.ContainsAny(pattern, "*?[{") {
			var err error
			matches, err = doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no files match %q", pattern)
			}
		} else if _, err := os.Stat(pattern); err != nil {
			return nil, sterrors.NewIO("stat", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	return paths, nil
}

// ResolveCmd resolves a book name or reference.
type ResolveCmd struct {
	Name string `arg:"" help:"Book name or reference (e.g. \"1 Samuel 3:5-3:9\")"`
	USFM bool   `name:"usfm" help:"Resolve to USFM codes instead of OSIS"`
}

func (c *ResolveCmd) Run() error {
	scheme := booknames.SchemeOSIS
	if c.USFM {
		scheme = booknames.SchemeUSFM
	}
	out, err := booknames.Resolve(c.Name, scheme)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, out)
	return nil
}

// CondenseCmd condenses a reference range.
type CondenseCmd struct {
	Ref string `arg:"" help:"Reference range (e.g. \"Genesis 3:5-Genesis 3:9\")"`
}

func (c *CondenseCmd) Run() error {
	fmt.Fprintln(stdout, ref.Condense(c.Ref))
	return nil
}

// VerifyCmd checks a packaged module archive.
type VerifyCmd struct {
	Archive  string `arg:"" help:"Module archive (.zip, .tar.xz)" type:"existingfile"`
	Manifest string `help:"Manifest file (default: <name>.manifest.json beside the archive)" type:"path"`
	List     bool   `help:"List the archive entries"`
}

func (c *VerifyCmd) Run() error {
	format, err := archive.FormatOf(c.Archive)
	if err != nil {
		return err
	}
	manifestPath := c.Manifest
	if manifestPath == "" {
		manifestPath = strings.TrimSuffix(c.Archive, archive.Ext(format)) + ".manifest.json"
	}
	m, err := module.ReadManifest(manifestPath)
	if err != nil {
		return err
	}
	if err := module.Verify(c.Archive, m); err != nil {
		return err
	}
	conf, err := module.ArchiveConf(c.Archive, m.Module)
	if err != nil {
		return err
	}

	if c.List {
		names, err := archive.List(c.Archive)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(stdout, name)
		}
	}
	fmt.Fprintf(stdout, "OK: %s (%d files)\n", filepath.Base(c.Archive), len(m.Files))
	fmt.Fprintf(stdout, "  -> %s: %s [%s, %s]\n", conf.ModuleName, conf.Description, conf.Lang, conf.DataPath)
	return nil
}

// BooksCmd lists the canonical book table.
type BooksCmd struct {
	JSON bool `name:"json" help:"Print as JSON"`
}

func (c *BooksCmd) Run() error {
	books := booknames.All()
	if c.JSON {
		return writeJSON(books)
	}
	for _, b := range books {
		fmt.Fprintf(stdout, "%2d  %-16s %-5s %-4s %3d  %s\n", b.Order, b.Name, b.OSIS, b.USFM, b.Chapters, b.Testament)
	}
	return nil
}

// InitConfigCmd writes a default configuration file.
type InitConfigCmd struct {
	Path  string `arg:"" optional:"" help:"Configuration file to write" type:"path" default:"sid.yaml"`
	Name  string `help:"Module name"`
	Force bool   `help:"Overwrite an existing file"`
}

func (c *InitConfigCmd) Run() error {
	if _, err := os.Stat(c.Path); err == nil && !c.Force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", c.Path)
	}
	cfg := config.DefaultConfig()
	cfg.Module.Name = c.Name
	if err := cfg.SaveToFile(c.Path); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote %s\n", c.Path)
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	d := sqlite.CurrentDriver()
	fmt.Fprintf(stdout, "sid version %s\n", version)
	fmt.Fprintf(stdout, "sqlite driver: %s (%s)\n", d.Package, d.Type)
	return nil
}

// Helper functions

func writeJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// loadConfig reads the configuration file and applies the logging flags.
func loadConfig(cli *CLI) (*config.Config, error) {
	cfg, err := config.LoadWithFallback(cli.Config)
	if err != nil {
		return nil, err
	}
	cfg.Merge(&config.Config{Logging: config.LoggingConfig{Level: cli.LogLevel, Format: cli.LogFormat}})

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.Logging.Format)
	if err != nil {
		return nil, err
	}
	logging.InitLogger(level, format)
	return cfg, nil
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("sid"),
		kong.Description("Scripture text to OSIS XML and SWORD modules"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	}, options...)
	return kong.New(cli, options...)
}

func main() {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	cfg, err := loadConfig(&cli)
	kctx.FatalIfErrorf(err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kctx.BindTo(ctx, (*context.Context)(nil))
	err = kctx.Run(cfg)
	if err != nil {
		logging.Error("command_failed", "command", kctx.Command(), "error", err.Error())
	}
	kctx.FatalIfErrorf(err)
}
