package module

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/FocuswithJustin/sid/core/errors"
	"github.com/FocuswithJustin/sid/core/ir"
	"github.com/FocuswithJustin/sid/core/osis"
	sidxml "github.com/FocuswithJustin/sid/core/xml"
	"github.com/FocuswithJustin/sid/internal/archive"
	"github.com/FocuswithJustin/sid/internal/config"
	"github.com/FocuswithJustin/sid/internal/fileutil"
	"github.com/FocuswithJustin/sid/internal/logging"
)

// Result describes a finished build.
type Result struct {
	RunID        string    `json:"run_id"`
	Module       string    `json:"module"`
	ArchivePath  string    `json:"archive_path"`
	ManifestPath string    `json:"manifest_path"`
	BuildDir     string    `json:"build_dir,omitempty"`
	Chapters     int       `json:"chapters"`
	Verses       int       `json:"verses"`
	Manifest     *Manifest `json:"manifest"`
}

// StageObserver is told about every finished build stage.
type StageObserver interface {
	ObserveStage(module, stage string, d time.Duration, err error)
}

// Builder runs the module build pipeline.
type Builder struct {
	Config   *config.Config
	Compiler *Compiler
	Observer StageObserver // optional
}

// NewBuilder creates a Builder from validated configuration.
func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{
		Config:   cfg,
		Compiler: NewCompiler(cfg.Build.Osis2Mod, cfg.Build.Timeout),
	}
}

// layout holds the paths of one build.
type layout struct {
	root      string
	osisPath  string
	moduleDir string
	modsDir   string
	xmlDir    string
}

func newLayout(buildDir, name string) layout {
	return layout{
		root:      buildDir,
		osisPath:  filepath.Join(buildDir, name+".osis.xml"),
		moduleDir: filepath.Join(buildDir, "modules", "texts", "ztext", strings.ToLower(name)),
		modsDir:   filepath.Join(buildDir, "mods.d"),
		xmlDir:    filepath.Join(buildDir, "xml"),
	}
}

// Build turns corpus into a packaged SWORD module: validate documents,
// serialize OSIS, check well-formedness, compile, write the .conf, package
// and clean up. The build directory is removed on success unless
// Build.KeepBuild is set; a failed build leaves it for inspection.
func (b *Builder) Build(ctx context.Context, corpus *ir.Corpus) (*Result, error) {
	ctx = logging.StartRun(ctx)
	cfg := b.Config

	meta := MetadataFrom(cfg.Module, corpus.Work)
	if meta.Name == "" {
		return nil, errors.NewValidation("module.name", "no module name configured or found in the source")
	}
	work := meta.Work()
	lay := newLayout(cfg.Build.BuildDir, meta.Name)

	logging.InfoContext(ctx, "build_started", "module", meta.Name,
		"chapters", len(corpus.Documents), "verses", corpus.VerseCount())

	var text, sourceHash string
	var manifest *Manifest
	archivePath := filepath.Join(cfg.Build.OutputDir, meta.Name+archive.Ext(cfg.Build.Archive))
	manifestPath := filepath.Join(cfg.Build.OutputDir, meta.Name+".manifest.json")

	stages := []struct {
		name string
		fn   func() error
	}{
		{"validate_documents", func() error {
			if err := errors.Join(ir.ValidateCorpus(&ir.Corpus{Work: work, Documents: corpus.Documents})...); err != nil {
				return err
			}
			var err error
			sourceHash, err = ir.HashCorpus(corpus)
			return err
		}},
		{"prepare", func() error { return prepare(lay) }},
		{"serialize", func() error {
			var err error
			text, err = osis.Serialize(corpus.Documents, work)
			return err
		}},
		{"check_xml", func() error { return checkOSIS(text, osis.VerseElements(corpus.Documents)) }},
		{"write_osis", func() error {
			if err := osis.WriteFile(lay.osisPath, text); err != nil {
				return err
			}
			return fileutil.CopyFile(lay.osisPath, filepath.Join(lay.xmlDir, meta.Name+".xml"))
		}},
		{"compile", func() error {
			_, err := b.Compiler.Compile(ctx, lay.moduleDir, lay.osisPath)
			return err
		}},
		{"conf", func() error {
			conf := NewConf(meta).Render()
			return fileutil.WriteAtomic(filepath.Join(lay.modsDir, meta.Name+".conf"), []byte(conf), 0644)
		}},
		{"package", func() error {
			// The OSIS working copy stays out of the archive; xml/ holds it.
			var err error
			manifest, err = Package(lay.root, archivePath, cfg.Build.Archive, meta.Name)
			if err != nil {
				return err
			}
			manifest.Source = sourceHash
			return writeManifest(manifestPath, manifest)
		}},
	}

	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		err := logging.TrackStage(ctx, s.name, s.fn, "module", meta.Name)
		if b.Observer != nil {
			b.Observer.ObserveStage(meta.Name, s.name, time.Since(start), err)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
	}

	result := &Result{
		RunID:        logging.GetRunID(ctx),
		Module:       meta.Name,
		ArchivePath:  archivePath,
		ManifestPath: manifestPath,
		Chapters:     len(corpus.Documents),
		Verses:       osis.VerseElements(corpus.Documents),
		Manifest:     manifest,
	}

	if cfg.Build.KeepBuild {
		result.BuildDir = lay.root
	} else if err := os.RemoveAll(lay.root); err != nil {
		logging.WarnContext(ctx, "build_cleanup_failed", "dir", lay.root, "error", err.Error())
	}

	logging.InfoContext(ctx, "build_finished", "module", meta.Name, "archive", archivePath)
	return result, nil
}

// prepare recreates the build directory with an empty install tree.
func prepare(lay layout) error {
	if err := os.RemoveAll(lay.root); err != nil {
		return errors.NewIO("remove", lay.root, err)
	}
	for _, dir := range []string{lay.moduleDir, lay.modsDir, lay.xmlDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.NewIO("create", dir, err)
		}
	}
	return nil
}

// verseQuery matches OSIS verse elements in any namespace.
const verseQuery = "count(//*[local-name()='verse'])"

// checkOSIS rejects OSIS text that does not parse as XML or whose verse
// elements do not match the corpus verse count.
func checkOSIS(text string, verses int) error {
	if err := sidxml.Check([]byte(text)); err != nil {
		return errors.NewParse("XML", "", err.Error())
	}
	doc, err := sidxml.Parse([]byte(text))
	if err != nil {
		return errors.NewParse("XML", "", err.Error())
	}
	n, err := doc.Count(verseQuery)
	if err != nil {
		return err
	}
	if n != verses {
		return errors.NewValidation("osis", fmt.Sprintf("document has %d verses, corpus has %d", n, verses))
	}
	return nil
}

func writeManifest(path string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return fileutil.WriteAtomic(path, append(data, '\n'), 0644)
}
