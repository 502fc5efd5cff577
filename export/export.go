// Package export renders a document into a named PDF artifact. It picks the
// backend, binds the backend's font metrics into the page configuration, runs
// the layout and derives the download filename.
package export

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/careinsight/recordpdf/backend"
	"github.com/careinsight/recordpdf/document"
	"github.com/careinsight/recordpdf/layout"
	"github.com/careinsight/recordpdf/observability"
	"github.com/careinsight/recordpdf/redact"
)

const (
	DefaultProduct  = "CareInsight"
	DefaultCategory = "Summary"
	DefaultFallback = "report"
	ContentTypePDF  = "application/pdf"
	producer        = "recordpdf"
)

// Options configures an Exporter. Zero values take the defaults.
type Options struct {
	Backend string
	// Layout is the page configuration; a zero PageWidth selects
	// layout.DefaultConfig. Its Fonts are replaced by the backend's.
	Layout   layout.Config
	Product  string
	Category string
	Fallback string
	Author   string
	Compress bool
	// Redact, when set, rewrites personal identifiers in the document before
	// layout.
	Redact *redact.Redactor
	Clock  func() time.Time
	Logger observability.Logger
}

// Exporter renders documents. It holds only immutable options, so one value
// may serve concurrent calls; each Render builds its own backend and cursor.
type Exporter struct {
	opts Options
	log  observability.Logger
}

// New returns an Exporter with defaults filled in.
func New(opts Options) *Exporter {
	if opts.Backend == "" {
		opts.Backend = backend.NameNative
	}
	if opts.Layout.PageWidth == 0 {
		opts.Layout = layout.DefaultConfig()
	}
	if opts.Product == "" {
		opts.Product = DefaultProduct
	}
	if opts.Category == "" {
		opts.Category = DefaultCategory
	}
	if opts.Fallback == "" {
		opts.Fallback = DefaultFallback
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	log := observability.OrNop(opts.Logger).With(observability.String(observability.KeyBackend, opts.Backend))
	return &Exporter{opts: opts, log: log}
}

// Render lays out doc and returns the finished artifact. Configuration
// problems are KindValidation errors; backend failures are KindRender and are
// not retried.
func (e *Exporter) Render(doc document.Document) (*Artifact, error) {
	start := e.opts.Clock()
	doc = doc.Normalize()

	var redacted redact.Report
	if e.opts.Redact != nil {
		doc, redacted = e.opts.Redact.Document(doc)
		if n := redacted.Total(); n > 0 {
			e.log.Info("personal identifiers redacted",
				observability.Int(observability.KeyRedactions, n),
				observability.String("labels", strings.Join(redacted.Labels(), ",")))
		}
	}

	be, err := backend.New(e.opts.Backend)
	if err != nil {
		return nil, NewError(KindValidation, "select backend", err)
	}
	cfg := e.opts.Layout
	cfg.Fonts = be.Fonts()
	if err := cfg.Validate(); err != nil {
		return nil, NewError(KindValidation, "page configuration", err)
	}

	e.log.Debug("render started",
		observability.String("title", doc.Title),
		observability.Int("sections", len(doc.Sections)),
		observability.Int("points", doc.PointCount()))

	res, err := layout.Render(doc, cfg, be)
	if err != nil {
		if errors.Is(err, layout.ErrInvalidGeometry) || errors.Is(err, layout.ErrMissingFonts) {
			return nil, NewError(KindValidation, "page configuration", err)
		}
		e.log.Error("layout failed", observability.Error("error", err))
		return nil, NewError(KindRender, "layout", err)
	}
	if res.Overflows > 0 {
		e.log.Warn("words wider than the text column were not broken",
			observability.Int(observability.KeyOverflows, res.Overflows))
	}
	substituted := be.Substituted()
	if substituted > 0 {
		e.log.Warn("characters without a glyph were drawn as replacements",
			observability.Int(observability.KeySubstituted, substituted))
	}

	data, err := be.Bytes(backend.Meta{
		Title:     doc.Title,
		Subject:   doc.SubjectID,
		Author:    e.opts.Author,
		Creator:   e.opts.Product,
		Producer:  producer,
		CreatedAt: start,
		Compress:  e.opts.Compress,
	})
	if err != nil {
		e.log.Error("backend output failed", observability.Error("error", err))
		return nil, NewError(KindRender, fmt.Sprintf("%s backend", be.Name()), err)
	}

	subject := doc.SubjectID
	if redacted.Subject {
		subject = ""
	}
	art := &Artifact{
		Name:        Filename(e.opts.Product, e.opts.Category, subject, e.opts.Fallback, start, "pdf"),
		ContentType: ContentTypePDF,
		Data:        data,
		Pages:       res.Pages,
		Lines:       res.Lines,
		Overflows:   res.Overflows,
		Substituted: substituted,
		Redactions:  redacted.Total(),
		CreatedAt:   start,
	}
	e.log.Info("render finished",
		observability.String(observability.KeyFilename, art.Name),
		observability.Int(observability.KeyPages, art.Pages),
		observability.Int(observability.KeyLines, art.Lines),
		observability.Int(observability.KeyBytes, len(art.Data)),
		observability.Int64(observability.KeyDuration, e.opts.Clock().Sub(start).Milliseconds()))
	return art, nil
}
