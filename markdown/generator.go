// Package markdown renders an ontology as a tree of markdown documents, one
// per interface, placed along each interface's longest ancestor chain.
//
// A run has three phases:
//  1. Plan computes every document path up front and rejects collisions
//  2. Render builds every document in memory, concurrently
//  3. Write puts the documents on disk, concurrently
//
// Nothing is written unless every document rendered, so a failed run never
// leaves a half-updated tree whose cross-links point at stale documents.
package markdown

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/RealEstateCore/DTDL2MD/errors"
	"github.com/RealEstateCore/DTDL2MD/logger"
	"github.com/RealEstateCore/DTDL2MD/ontology"
	"github.com/RealEstateCore/DTDL2MD/progress"
)

// IndexFile is the name of the optional root index document.
const IndexFile = "README.md"

// DefaultWorkers is used when Options.Workers is not positive.
const DefaultWorkers = 4

// Options control a generation run.
type Options struct {
	// Workers bounds concurrent rendering and writing
	Workers int
	// MaxDepth bounds ancestor chain recursion (see ontology.NewHierarchy)
	MaxDepth int
	// Clean removes the output directory before writing
	Clean bool
	// Inputs are the local model paths of the run. Clean refuses to remove
	// a directory that holds any of them.
	Inputs []string
	// Index writes README.md listing every interface as a nested tree
	Index bool
	// Emitter receives progress events; nil discards them
	Emitter progress.Emitter
}

// Document is one rendered output file.
type Document struct {
	// Interface is nil for the index document
	Interface *ontology.Interface
	// Path is slash-separated and relative to the output root
	Path    string
	Content []byte
}

// Result summarizes a successful run.
type Result struct {
	RunID     string         `json:"run_id"`
	Output    string         `json:"output"`
	Documents int            `json:"documents"`
	Counts    map[string]int `json:"counts"`
	Duration  time.Duration  `json:"duration"`
}

// Generator renders one ontology. Build a new Generator per run.
type Generator struct {
	ont      *ontology.Ontology
	hier     *ontology.Hierarchy
	renderer *Renderer
	opts     Options
	log      *zap.SugaredLogger
	runID    string
}

// NewGenerator returns a generator for ont. A nil log uses the global logger.
func NewGenerator(ont *ontology.Ontology, opts Options, log *zap.SugaredLogger) *Generator {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Emitter == nil {
		opts.Emitter = progress.NopEmitter{}
	}
	if log == nil {
		log = logger.ComponentLogger("generate")
	}
	runID := uuid.NewString()
	hier := ontology.NewHierarchy(ont, opts.MaxDepth)
	return &Generator{
		ont:      ont,
		hier:     hier,
		renderer: NewRenderer(ont, hier),
		opts:     opts,
		log:      log.With(logger.FieldRunID, runID),
		runID:    runID,
	}
}

// RunID identifies this run in logs and results.
func (g *Generator) RunID() string {
	return g.runID
}

// Hierarchy exposes the placement resolver used by the run.
func (g *Generator) Hierarchy() *ontology.Hierarchy {
	return g.hier
}

// Plan computes the path of every document without rendering.
// Two interfaces placed on the same path fail with errors.ErrPlacement.
// Paths are compared case-insensitively so the tree also fits on
// case-insensitive file systems.
func (g *Generator) Plan() ([]Document, error) {
	docs := make([]Document, 0, len(g.ont.Interfaces())+1)
	owners := make(map[string]*ontology.Interface, len(g.ont.Interfaces()))

	for _, iface := range g.ont.Interfaces() {
		docPath, err := g.hier.DocPath(iface)
		if err != nil {
			return nil, errors.Wrap(err, "plan")
		}
		key := strings.ToLower(docPath)
		if other, taken := owners[key]; taken {
			return nil, errors.NewPlacementError(iface.ID().String(),
				"document path %s already used by %s", docPath, other.ID())
		}
		if g.opts.Index && key == strings.ToLower(IndexFile) {
			return nil, errors.NewPlacementError(iface.ID().String(),
				"document path %s collides with the index", docPath)
		}
		owners[key] = iface
		docs = append(docs, Document{Interface: iface, Path: docPath})
	}

	if g.opts.Index {
		docs = append(docs, Document{Path: IndexFile})
	}
	g.log.Debugw("planned documents", logger.FieldCount, len(docs))
	return docs, nil
}

// Render plans and renders every document. Any failure aborts the run.
func (g *Generator) Render(ctx context.Context) ([]Document, error) {
	docs, err := g.Plan()
	if err != nil {
		return nil, err
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.Workers)
	for i := range docs {
		i := i
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if docs[i].Interface == nil {
				content, err := g.renderIndex()
				if err != nil {
					return errors.Wrap(err, "render index")
				}
				docs[i].Content = []byte(content)
				return nil
			}
			content, err := g.renderer.Render(docs[i].Interface)
			if err != nil {
				return err
			}
			docs[i].Content = []byte(content)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Write stores docs under dir, creating directories as needed.
func (g *Generator) Write(ctx context.Context, dir string, docs []Document) error {
	if g.opts.Clean {
		if err := cleanDir(dir, g.opts.Inputs); err != nil {
			return err
		}
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.Workers)
	for _, doc := range docs {
		doc := doc
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			target := filepath.Join(dir, filepath.FromSlash(doc.Path))
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return errors.Wrapf(err, "create directory for %s", doc.Path)
			}
			if err := os.WriteFile(target, doc.Content, 0o644); err != nil {
				return errors.Wrapf(err, "write %s", doc.Path)
			}
			g.log.Debugw("wrote document", logger.FieldPath, doc.Path)
			return nil
		})
	}
	return eg.Wait()
}

// cleanDir removes dir unless it is a volume root or holds the working
// directory or one of the inputs.
func cleanDir(dir string, inputs []string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return errors.Wrapf(err, "resolve %s", dir)
	}
	const hint = "choose a dedicated output directory such as docs"
	if abs == filepath.VolumeName(abs)+string(filepath.Separator) {
		return errors.WithHint(errors.Newf("refusing to clean %s", abs), hint)
	}
	if wd, err := os.Getwd(); err == nil && within(abs, wd) {
		return errors.WithHint(errors.Newf("refusing to clean %s: it holds the working directory", abs), hint)
	}
	for _, in := range inputs {
		inAbs, err := filepath.Abs(in)
		if err != nil {
			return errors.Wrapf(err, "resolve %s", in)
		}
		if within(abs, inAbs) {
			return errors.WithHint(errors.Newf("refusing to clean %s: it holds model input %s", abs, inAbs), hint)
		}
	}
	if err := os.RemoveAll(abs); err != nil {
		return errors.Wrapf(err, "clean %s", abs)
	}
	return nil
}

// within reports whether p is dir or lies below it.
func within(dir, p string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Run renders the ontology and writes it under dir.
func (g *Generator) Run(ctx context.Context, dir string) (*Result, error) {
	start := time.Now()
	emit := g.opts.Emitter

	emit.EmitStage("render", "rendering documents")
	docs, err := g.Render(ctx)
	if err != nil {
		emit.EmitError("render", err)
		return nil, err
	}

	emit.EmitStage("write", "writing to "+dir)
	if err := g.Write(ctx, dir, docs); err != nil {
		emit.EmitError("write", err)
		return nil, err
	}

	result := &Result{
		RunID:     g.runID,
		Output:    dir,
		Documents: len(docs),
		Counts:    CountContents(g.ont),
		Duration:  time.Since(start),
	}
	emit.EmitProgress(result.Documents, map[string]interface{}{"type": "documents"})
	g.log.Infow("generation complete",
		logger.FieldCount, result.Documents,
		logger.FieldOutput, dir,
		logger.FieldDurationMS, result.Duration.Milliseconds())
	return result, nil
}

// CountContents returns the number of declared members per content kind.
func CountContents(ont *ontology.Ontology) map[string]int {
	counts := make(map[string]int, len(ontology.ContentKinds)+1)
	counts["interfaces"] = len(ont.Interfaces())
	for _, kind := range ontology.ContentKinds {
		key := strings.ToLower(kind.Plural())
		counts[key] = 0
		for _, iface := range ont.Interfaces() {
			counts[key] += len(ontology.Direct(iface, kind))
		}
	}
	return counts
}

// renderIndex lists every interface under its placement parent.
func (g *Generator) renderIndex() (string, error) {
	placed := make(map[*ontology.Interface][]*ontology.Interface)
	var roots []*ontology.Interface
	for _, iface := range g.ont.Interfaces() {
		chain, err := g.hier.AncestorChain(iface)
		if err != nil {
			return "", err
		}
		if len(chain) == 0 {
			roots = append(roots, iface)
			continue
		}
		parent := chain[len(chain)-1]
		placed[parent] = append(placed[parent], iface)
	}

	var b strings.Builder
	b.WriteString("# Ontology\n\n")
	var walk func(level int, ifaces []*ontology.Interface) error
	walk = func(level int, ifaces []*ontology.Interface) error {
		for _, iface := range ifaces {
			docPath, err := g.hier.DocPath(iface)
			if err != nil {
				return err
			}
			b.WriteString(strings.Repeat("  ", level))
			b.WriteString("- " + link(iface.Name(), IndexFile, docPath) + "\n")
			if err := walk(level+1, placed[iface]); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(0, roots); err != nil {
		return "", err
	}
	return b.String(), nil
}
