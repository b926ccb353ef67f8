package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/mvp-joe/docgen/internal/classify"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Renderer:
// - Begin writes title, stylesheet, script and the file manifest
// - Begin omits the stylesheet and script when not configured
// - A complete block is written inside one container of its type
// - Marker and "*/" lines are not printed
// - A struct block stays open until its terminator
// - A block abandoned for a new marker is dropped and logged
// - A block still open at Finish is dropped and logged
// - A struct forward declaration does not swallow the blocks after it
// - A struct abandoned for a new marker is dropped and the new block kept
// - Finish writes the tail
// - Write errors stick and are returned

func renderText(t *testing.T, text string) (string, Stats, string) {
	t.Helper()

	var out, logs bytes.Buffer
	r := New(&out, DefaultDocument(), zerolog.New(&logs))
	c := classify.New(classify.Options{})

	require.NoError(t, r.Begin([]string{"a.hh"}))
	for i, line := range strings.Split(text, "\n") {
		if u, ok := c.Next(line, classify.Position{File: "a.hh", Line: i + 1}); ok {
			require.NoError(t, r.Add(u))
		}
	}
	require.NoError(t, r.Finish())
	return out.String(), r.Stats(), logs.String()
}

func TestRenderer_Head(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := New(&out, DefaultDocument(), zerolog.Nop())
	require.NoError(t, r.Begin([]string{"roj-misc.hh", "roj-misc.cc"}))

	got := out.String()
	assert.True(t, strings.HasPrefix(got, "<html>\n<head>\n   <title>ccROJ</title>\n"))
	assert.Contains(t, got, "<link rel='stylesheet' href='style.css'>")
	assert.Contains(t, got, "<script src='head.js'></script>")
	assert.Contains(t, got, "<div class=\"file\">\n<span class=\"key\">@files</span>:<br>\nroj-misc.hh <br>\nroj-misc.cc <br>\n</div>\n")
}

func TestRenderer_HeadWithoutAssets(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := New(&out, Document{Title: "lib & tools"}, zerolog.Nop())
	require.NoError(t, r.Begin(nil))

	got := out.String()
	assert.Contains(t, got, "<title>lib &amp; tools</title>\n</head>")
	assert.NotContains(t, got, "stylesheet")
	assert.NotContains(t, got, "<script")
}

func TestRenderer_CompleteBlock(t *testing.T) {
	t.Parallel()

	got, stats, _ := renderText(t, `/*
 * @type: api
 * Adds two integers.
 */
int add(int a_x, int a_y);`)

	want := "<br><div class='api'>\n" +
		"Adds two integers.<br>\n" +
		"<span class='key'>@sign</span>: <span class='bold'>int <span class='func'>add</span>(int " +
		"<span class='arg'>a_x</span>, int <span class='arg'>a_y</span>)</span><br>\n" +
		"</div>\n"
	assert.Contains(t, got, want)
	assert.NotContains(t, got, "@type")
	assert.NotContains(t, got, "*/")
	assert.True(t, strings.HasSuffix(got, tail))
	assert.Equal(t, Stats{Blocks: 1, Lines: 2}, stats)
}

func TestRenderer_StructBlock(t *testing.T) {
	t.Parallel()

	got, stats, _ := renderText(t, `/*
 * @type: model
 */
struct Point {
    int m_x;
    int m_y;
};`)

	want := "<br><div class='model'>\n" +
		"<span class='key'>@sign</span>: <span class='bold'><span class='key'>struct</span> Point</span><br>\n" +
		"<span class='bold'>    int <span class='arg'><span class='field'>m_x</span></span></span><br>\n" +
		"<span class='bold'>    int <span class='arg'><span class='field'>m_y</span></span></span><br>\n" +
		"</div>\n"
	assert.Contains(t, got, want)
	assert.NotContains(t, got, "};")
	assert.Equal(t, Stats{Blocks: 1, Structs: 1, Lines: 3}, stats)
}

func TestRenderer_AbandonedBlock(t *testing.T) {
	t.Parallel()

	got, stats, logs := renderText(t, `/**
 * @type: lost
 */

int lost(void);

/**
 * @type: kept
 */
int kept(void);`)

	assert.NotContains(t, got, "lost")
	assert.Contains(t, got, "<div class='kept'>")
	assert.Equal(t, 1, stats.Blocks)
	assert.Equal(t, 1, stats.Discarded)
	assert.Contains(t, logs, "documentation block dropped")
	assert.Contains(t, logs, `"type":"lost"`)
	assert.Contains(t, logs, `"reason":"no declaration after comment"`)
}

func TestRenderer_UnterminatedStruct(t *testing.T) {
	t.Parallel()

	got, stats, logs := renderText(t, `/**
 * @type: struct
 */
struct open{
  int m_x;`)

	assert.NotContains(t, got, "<div class='struct'>")
	assert.Equal(t, Stats{Discarded: 1}, stats)
	assert.Contains(t, logs, `"reason":"struct not terminated"`)
}

func TestRenderer_StructForwardDeclaration(t *testing.T) {
	t.Parallel()

	got, stats, _ := renderText(t, `/**
 * @type: struct
 */
struct fwd;
/**
 * @type: api
 */
int add(int a_x, int a_y);
class foo{ int m_v; };`)

	assert.Contains(t, got, "<br><div class='struct'>\n"+
		"<span class='key'>@sign</span>: <span class='bold'><span class='key'>struct</span> fwd</span><br>\n"+
		"</div>\n")
	assert.Contains(t, got, "<div class='api'>")
	assert.NotContains(t, got, "foo")
	assert.Equal(t, Stats{Blocks: 2, Lines: 2}, stats)
}

func TestRenderer_MarkerAbandonsStruct(t *testing.T) {
	t.Parallel()

	got, stats, logs := renderText(t, `/**
 * @type: struct
 */
struct cfg{
  double m_rate;
/**
 * @type: api
 */
int add(int a_x, int a_y);`)

	assert.NotContains(t, got, "<div class='struct'>")
	assert.NotContains(t, got, "m_rate")
	assert.Contains(t, got, "<div class='api'>")
	assert.Equal(t, Stats{Blocks: 1, Discarded: 1, Lines: 1}, stats)
	assert.Contains(t, logs, `"reason":"struct not terminated"`)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRenderer_WriteErrorSticks(t *testing.T) {
	t.Parallel()

	r := New(failingWriter{}, DefaultDocument(), zerolog.Nop())

	err := r.Begin([]string{"a.hh"})
	require.Error(t, err)
	assert.ErrorIs(t, r.Add(classify.Unit{Kind: classify.KindOpen}), err)
	assert.ErrorIs(t, r.Finish(), err)
}
