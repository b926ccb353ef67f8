package generator

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mvp-joe/docgen/internal/classify"
	"github.com/mvp-joe/docgen/internal/render"
	"github.com/mvp-joe/docgen/internal/source"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Generator:
// - A documented function produces one container with description and signature
// - Private blocks produce no container
// - A struct block contains its fields and is closed by "};"
// - Container count equals the number of completed markers across files
// - A private block followed by a public one only emits the public one
// - Files are listed in the manifest in argument order
// - A missing input fails the run and writes nothing
// - Cancelled contexts stop the run
// - Progress callbacks fire per file
// - A realistic header renders every public block and drops the orphaned one

const header = `#pragma once

/**
 * @type: api
 * Adds two integers.
 * @param a_x first
 */
int add(int a_x, int a_y);

/**
 * @type: private
 * Internal helper.
 */
int helper(int a_v);

/**
 * @type: model
 */
struct Point {
    int m_x;
    int m_y;
};
`

const impl = `#include "point.hh"

/**
 * @type: api
 */
int add(int a_x, int a_y)
{
    return a_x + a_y;
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func defaultOptions() Options {
	return Options{
		Document: render.DefaultDocument(),
		Source: source.Options{
			Include: []string{"**/*.hh", "**/*.cc"},
		},
	}
}

func generate(t *testing.T, opts Options, paths ...string) (string, *Stats) {
	t.Helper()
	var out bytes.Buffer
	stats, err := New(opts, nil).Generate(context.Background(), paths, &out)
	require.NoError(t, err)
	return out.String(), stats
}

func TestGenerate_DocumentedFunction(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "add.hh", `/**
 * @type: api
 * Adds two integers.
 */
int add(int a_x, int a_y);
`)

	got, stats := generate(t, defaultOptions(), path)

	assert.Equal(t, 1, strings.Count(got, "<div class='api'>"))
	assert.Contains(t, got, "Adds two integers.<br>\n")
	assert.Contains(t, got, "<span class='func'>add</span>")
	assert.Equal(t, 1, stats.Blocks)
	assert.Equal(t, 1, stats.Files)
	assert.Equal(t, 5, stats.SourceLines)
	assert.Equal(t, 2, stats.Lines)
}

func TestGenerate_PrivateBlockProducesNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "p.hh", `/**
 * @type: private
 * Hidden.
 */
int hidden(void);
`)

	got, stats := generate(t, defaultOptions(), path)

	assert.NotContains(t, got, "Hidden")
	assert.NotContains(t, got, "hidden")
	assert.NotContains(t, got, "<div class='private")
	assert.Equal(t, 0, stats.Blocks)
	assert.Equal(t, 1, stats.Private)
}

func TestGenerate_StructBlock(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "point.hh", header)

	got, stats := generate(t, defaultOptions(), path)

	assert.Contains(t, got, "<div class='model'>")
	assert.Contains(t, got, "<span class='field'>m_x</span>")
	assert.Contains(t, got, "<span class='field'>m_y</span>")
	assert.NotContains(t, got, "};")
	assert.Equal(t, 1, stats.Structs)
}

func TestGenerate_ContainerCountMatchesMarkers(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	hh := writeFile(t, dir, "point.hh", header)
	cc := writeFile(t, dir, "point.cc", impl)

	got, stats := generate(t, defaultOptions(), hh, cc)

	// api (hh), model, api (cc); the private marker is skipped
	assert.Equal(t, 3, strings.Count(got, "<br><div class='"))
	assert.Equal(t, strings.Count(got, "<div class='"), strings.Count(got, "</div>")-1)
	assert.Equal(t, 3, stats.Blocks)
	assert.Equal(t, 1, stats.Private)
	assert.Equal(t, 0, stats.Discarded)
	assert.NotContains(t, got, "Internal helper")
}

func TestGenerate_PrivateThenPublic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "mixed.hh", `/**
 * @type: private
 * Secret.
 */
int secret(void);
/**
 * @type: api
 * Visible.
 */
int visible(void);
`)

	got, stats := generate(t, defaultOptions(), path)

	assert.NotContains(t, got, "Secret")
	assert.Contains(t, got, "<div class='api'>\nVisible.<br>\n")
	assert.Equal(t, 1, stats.Blocks)
}

func TestGenerate_ManifestInArgumentOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	b := writeFile(t, dir, "b.hh", "")
	a := writeFile(t, dir, "a.hh", "")

	got, _ := generate(t, defaultOptions(), b, a)

	assert.Less(t, strings.Index(got, b+" <br>"), strings.Index(got, a+" <br>"))
	assert.True(t, strings.HasPrefix(got, "<html>\n"))
	assert.True(t, strings.HasSuffix(got, "</html>\n"))
}

func TestGenerate_DirectoryInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "point.hh", header)
	writeFile(t, dir, "notes.txt", "/**\n * @type: api\n */\nint nope(void);\n")

	got, stats := generate(t, defaultOptions(), dir)

	assert.Equal(t, 1, stats.Files)
	assert.NotContains(t, got, "nope")
}

func TestGenerate_KeepSeparators(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "sep.hh", `/**
 * @type: api
 *
 * After separator.
 */
int f(void);
`)

	got, _ := generate(t, defaultOptions(), path)
	assert.NotContains(t, got, "After separator")

	opts := defaultOptions()
	opts.Classifier = classify.Options{KeepBlockOnBareAsterisk: true}
	got, _ = generate(t, opts, path)
	assert.Contains(t, got, "After separator.<br>")
}

func TestGenerate_MissingInputWritesNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := writeFile(t, dir, "ok.hh", header)

	var out bytes.Buffer
	_, err := New(defaultOptions(), nil).Generate(context.Background(), []string{good, filepath.Join(dir, "gone.hh")}, &out)

	require.Error(t, err)
	assert.ErrorIs(t, err, source.ErrOpen)
	assert.Zero(t, out.Len())
}

func TestGenerate_CancelledContext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "point.hh", header)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, err := New(defaultOptions(), nil).Generate(ctx, []string{path}, &out)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, out.Len())
}

func TestGenerate_LogsDroppedBlocks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "lost.hh", "/**\n * @type: lost\n */\n\nint lost(void);\n")

	var logs bytes.Buffer
	ctx := zerolog.New(&logs).WithContext(context.Background())

	var out bytes.Buffer
	stats, err := New(defaultOptions(), nil).Generate(ctx, []string{path}, &out)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Discarded)
	assert.Contains(t, logs.String(), "documentation block dropped")
	assert.Contains(t, logs.String(), "document generated")
}

type recordingReporter struct {
	discovered int
	started    int
	processed  []string
	completed  *Stats
}

func (r *recordingReporter) OnDiscoveryComplete(files int)        { r.discovered = files }
func (r *recordingReporter) OnFileProcessingStart(totalFiles int) { r.started = totalFiles }
func (r *recordingReporter) OnFileProcessed(fileName string)      { r.processed = append(r.processed, fileName) }
func (r *recordingReporter) OnComplete(stats *Stats)              { r.completed = stats }

func TestGenerate_ReportsProgress(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	hh := writeFile(t, dir, "point.hh", header)
	cc := writeFile(t, dir, "point.cc", impl)

	rep := &recordingReporter{}
	var out bytes.Buffer
	stats, err := New(defaultOptions(), rep).Generate(context.Background(), []string{hh, cc}, &out)
	require.NoError(t, err)

	assert.Equal(t, 2, rep.discovered)
	assert.Equal(t, 2, rep.started)
	assert.Equal(t, []string{hh, cc}, rep.processed)
	assert.Same(t, stats, rep.completed)
}

func TestGenerate_HeaderFixture(t *testing.T) {
	t.Parallel()

	got, stats := generate(t, defaultOptions(), filepath.Join("testdata", "window.hh"))

	assert.Equal(t, 1, strings.Count(got, "<div class='macro'>"))
	assert.Equal(t, 1, strings.Count(got, "<div class='struct'>"))
	assert.Equal(t, 2, strings.Count(got, "<div class='method'>"))
	assert.NotContains(t, got, "<div class='class'>")
	assert.NotContains(t, got, "Blackman-Harris")

	assert.Contains(t, got, "<span class='key'>@param</span>")
	assert.Contains(t, got, "<span class='func'>calc_gain</span>")
	assert.Contains(t, got, "<span class='range'>window_generator</span>")
	assert.Contains(t, got, "<span class='func'>~window_generator</span>")
	assert.Contains(t, got, "<span class='field'>m_length</span>")
	assert.Contains(t, got, "<span class='arg'>a_begin</span>")

	assert.Equal(t, 4, stats.Blocks)
	assert.Equal(t, 1, stats.Structs)
	assert.Equal(t, 1, stats.Private)
	assert.Equal(t, 1, stats.Discarded)
}
