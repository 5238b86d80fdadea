package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/partboard/partboard/pkg/cache"
	"github.com/partboard/partboard/pkg/errors"
	"github.com/partboard/partboard/pkg/model"
	"github.com/partboard/partboard/pkg/render"
	"github.com/partboard/partboard/pkg/store"
	"github.com/partboard/partboard/pkg/template"
)

// appName is the application name used for cache directories.
const appName = "partboard"

const (
	viewScene = "scene" // arranged parts at oracle positions
	viewGraph = "graph" // Graphviz node-link overview

	formatSVG = "svg"
	formatPDF = "pdf"
	formatPNG = "png"
	formatDOT = "dot" // graph view only: raw Graphviz source
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file path (or base path for multiple formats)
	view     string   // "scene" or "graph"
	formats  []string // output formats: svg, pdf, png
	detailed bool     // include keys and status in graph view labels
	tmplID   string   // template override (defaults to the document's)
	noCache  bool     // bypass the artifact cache
	pngScale float64  // png resolution multiplier
}

// newRenderCmd creates the render command for generating board artifacts.
func newRenderCmd() *cobra.Command {
	var formatsStr string
	opts := renderOpts{view: viewScene, pngScale: 2.0}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a board document to SVG, PDF, or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateRenderOpts(&opts); err != nil {
				return err
			}
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&opts.view, "view", opts.view, "view: scene (default), graph")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), pdf, png, dot (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show keys and status in graph view labels")
	cmd.Flags().StringVar(&opts.tmplID, "template", "", "template id override")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")
	cmd.Flags().Float64Var(&opts.pngScale, "png-scale", opts.pngScale, "png resolution multiplier")

	return cmd
}

func parseFormats(s string) []string {
	if s == "" {
		return []string{formatSVG}
	}
	return strings.Split(s, ",")
}

func validateRenderOpts(opts *renderOpts) error {
	if opts.view != viewScene && opts.view != viewGraph {
		return errors.New(errors.ErrCodeInvalidInput, "unknown view %q", opts.view)
	}
	for _, f := range opts.formats {
		switch f {
		case formatSVG, formatPDF, formatPNG:
		case formatDOT:
			if opts.view != viewGraph {
				return errors.New(errors.ErrCodeInvalidInput, "dot output requires --view graph")
			}
		default:
			return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", f)
		}
	}
	return nil
}

func runRender(ctx context.Context, path string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	doc, err := loadDocument(path)
	if err != nil {
		return err
	}
	d, err := openDiagram(doc, opts.tmplID, logger)
	if err != nil {
		return err
	}
	doc.Template = d.TemplateID()

	artifacts, err := newArtifactCache(opts.noCache)
	if err != nil {
		return err
	}
	defer artifacts.Close()

	p := newProgress(logger)
	for _, format := range opts.formats {
		data, err := renderArtifact(ctx, d, doc, format, opts, artifacts)
		if err != nil {
			return err
		}
		out := outputPath(path, opts.output, format, len(opts.formats) > 1)
		if err := os.WriteFile(out, data, 0644); err != nil {
			return err
		}
		printSuccess("wrote %s", out)
	}
	p.done(fmt.Sprintf("Rendered %d parts", len(d.NodeParts())))
	return nil
}

// renderArtifact produces one output format, consulting the artifact
// cache first. The cache key covers the document content, template,
// view, and format, so edits invalidate naturally.
func renderArtifact(ctx context.Context, d *template.Diagram, doc *store.Document, format string, opts *renderOpts, artifacts cache.Cache) ([]byte, error) {
	logger := loggerFromContext(ctx)

	kind := opts.view + ":" + format
	if opts.detailed {
		kind += ":detailed"
	}
	key := cache.ArtifactKey(doc.Fingerprint(), doc.Template, kind)
	if data, hit, err := artifacts.Get(ctx, key); err == nil && hit {
		logger.Debug("artifact cache hit", "kind", kind)
		return data, nil
	}

	var svg []byte
	var err error
	if opts.view == viewGraph {
		dot := render.ToDOT(d.Model(), render.Options{Detailed: opts.detailed})
		if format == formatDOT {
			return []byte(dot), nil
		}
		svg, err = render.RenderSVG(dot)
		if err != nil {
			return nil, err
		}
	} else {
		svg = render.SceneSVG(d)
	}

	var data []byte
	switch format {
	case formatPDF:
		data, err = render.ToPDF(svg)
	case formatPNG:
		data, err = render.ToPNG(svg, opts.pngScale)
	default:
		data = svg
	}
	if err != nil {
		return nil, err
	}

	if err := artifacts.Set(ctx, key, data, 24*time.Hour); err != nil {
		logger.Warn("cache artifact", "err", err)
	}
	return data, nil
}

// openDiagram restores a document into a fresh model and builds its
// diagram. An empty template id falls back to the document's, then to
// the card template.
func openDiagram(doc *store.Document, tmplID string, logger *log.Logger) (*template.Diagram, error) {
	m := model.New()
	m.SetLogger(logger)
	if err := doc.Restore(m); err != nil {
		return nil, err
	}

	registry := template.BuiltinRegistry()
	if tmplID == "" {
		tmplID = doc.Template
	}
	if tmplID == "" {
		tmplID = template.TemplateCard
	}
	if _, ok := registry.Get(tmplID); !ok {
		return nil, errors.New(errors.ErrCodeUnknownTemplate, "unknown template %q", tmplID)
	}
	return template.New(m, registry, tmplID, template.WithLogger(logger)), nil
}

// newArtifactCache opens the file cache under the XDG cache directory,
// falling back to a null cache when disabled or unavailable.
func newArtifactCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/partboard/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// outputPath derives the output file name. With multiple formats the
// extension is appended per format; otherwise an explicit -o wins.
func outputPath(input, output, format string, multi bool) string {
	if output != "" && !multi {
		return output
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if output != "" {
		base = strings.TrimSuffix(output, filepath.Ext(output))
	}
	return base + "." + format
}
