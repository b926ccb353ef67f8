// Package render writes classified units as an HTML document, one container
// per documentation block.
package render

import (
	"embed"
	"fmt"
	"html"
	"html/template"
	"io"

	"github.com/mvp-joe/docgen/internal/classify"
	"github.com/rs/zerolog"
)

// Assets holds the default stylesheet and script the document refers to.
//
//go:embed assets
var Assets embed.FS

// Document configures the framing around the rendered blocks.
type Document struct {
	Title      string
	Stylesheet string
	Script     string
}

// DefaultDocument matches the files shipped in Assets.
func DefaultDocument() Document {
	return Document{
		Title:      "ccROJ",
		Stylesheet: "style.css",
		Script:     "head.js",
	}
}

var head = template.Must(template.New("head").Parse(`<html>
<head>
   <title>{{.Title}}</title>
{{- if .Stylesheet}}
   <link rel='stylesheet' href='{{.Stylesheet}}'>
{{- end}}
{{- if .Script}}
   <script src='{{.Script}}'></script>
{{- end}}
</head>
<body>
<br><br>
<div class="file">
<span class="key">@files</span>:<br>
{{range .Files}}{{.}} <br>
{{end}}</div>
`))

const tail = "<br>\n</body>\n</html>\n"

// Stats counts what a renderer wrote.
type Stats struct {
	Blocks    int // containers written
	Structs   int // containers closed by a struct terminator
	Discarded int // blocks dropped because they never reached a declaration
	Lines     int // annotated lines written
}

type block struct {
	open  classify.Unit
	units []classify.Unit
}

// dropReason describes why an unfinished block never got a container. Only
// a struct signature leaves a block open past its declaration.
func (b *block) dropReason() string {
	for _, u := range b.units {
		if u.Kind == classify.KindSignature {
			return "struct not terminated"
		}
	}
	return "no declaration after comment"
}

// Renderer buffers the units of the current block and writes the block's
// container once the unit closing it arrives. A block that is abandoned
// before then (a new marker, or the end of input) is dropped, so every
// container written is complete.
type Renderer struct {
	w       io.Writer
	doc     Document
	logger  zerolog.Logger
	pending *block
	stats   Stats
	err     error
}

// New creates a renderer writing to w.
func New(w io.Writer, doc Document, logger zerolog.Logger) *Renderer {
	return &Renderer{w: w, doc: doc, logger: logger}
}

// Begin writes the document head and the manifest of input files.
func (r *Renderer) Begin(files []string) error {
	if r.err != nil {
		return r.err
	}
	data := struct {
		Document
		Files []string
	}{r.doc, files}
	if err := head.Execute(r.w, data); err != nil {
		r.err = fmt.Errorf("write head: %w", err)
	}
	return r.err
}

// Add consumes the next unit from the classifier.
func (r *Renderer) Add(u classify.Unit) error {
	if r.err != nil {
		return r.err
	}

	if u.Kind == classify.KindOpen {
		r.discard()
		r.pending = &block{open: u}
		return nil
	}

	if r.pending == nil {
		r.logger.Debug().
			Str("file", u.Pos.File).
			Int("line", u.Pos.Line).
			Stringer("kind", u.Kind).
			Msg("unit outside any block")
		return nil
	}

	r.pending.units = append(r.pending.units, u)
	if u.Closes {
		r.flush()
	}
	return r.err
}

// Finish drops any unfinished block and writes the document tail.
func (r *Renderer) Finish() error {
	if r.err != nil {
		return r.err
	}
	r.discard()
	r.printf("%s", tail)
	return r.err
}

// Stats returns the counts so far.
func (r *Renderer) Stats() Stats {
	return r.stats
}

func (r *Renderer) flush() {
	b := r.pending
	r.pending = nil

	r.printf("<br><div class='%s'>\n", html.EscapeString(b.open.BlockType))
	for _, u := range b.units {
		if !u.Printable() {
			continue
		}
		r.printf("%s<br>\n", u.Line.HTML())
		r.stats.Lines++
	}
	r.printf("</div>\n")

	r.stats.Blocks++
	if b.units[len(b.units)-1].Kind == classify.KindStructEnd {
		r.stats.Structs++
	}
}

func (r *Renderer) discard() {
	b := r.pending
	if b == nil {
		return
	}
	r.pending = nil
	r.stats.Discarded++
	r.logger.Warn().
		Str("file", b.open.Pos.File).
		Int("line", b.open.Pos.Line).
		Str("type", b.open.BlockType).
		Str("reason", b.dropReason()).
		Msg("documentation block dropped")
}

func (r *Renderer) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	if _, err := fmt.Fprintf(r.w, format, args...); err != nil {
		r.err = fmt.Errorf("write document: %w", err)
	}
}
