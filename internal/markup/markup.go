// Package markup turns documentation and declaration lines into typed spans
// and renders those spans as HTML fragments.
package markup

import (
	"html"
	"strings"
)

// Kind classifies a span of rendered text.
type Kind int

const (
	Plain   Kind = iota
	Keyword      // @word tags, struct, #define
	Func         // identifier called or declared with (...)
	Range        // identifier qualifying a scope (name::)
	Arg          // a_ arguments and struct field names
	Field        // m_ members
)

// Class returns the CSS class used for the kind, or "" for plain text.
func (k Kind) Class() string {
	switch k {
	case Keyword:
		return "key"
	case Func:
		return "func"
	case Range:
		return "range"
	case Arg:
		return "arg"
	case Field:
		return "field"
	default:
		return ""
	}
}

func (k Kind) String() string {
	if k == Plain {
		return "plain"
	}
	return k.Class()
}

// Span is a run of text with a single classification. Inner, when not Plain,
// nests a second classification inside the first (a struct field name that is
// also an m_ member renders as arg wrapping field).
type Span struct {
	Kind  Kind
	Inner Kind
	Text  string
}

// Line is one annotated output record.
type Line struct {
	// Label is prefixed as a key span followed by ": " when set.
	Label string
	Bold  bool
	Spans []Span
}

// SignLabel labels declaration lines.
const SignLabel = "@sign"

// Text returns the line without markup.
func (l Line) Text() string {
	var b strings.Builder
	for _, s := range l.Spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Find returns the spans of the given kind, outer or inner.
func (l Line) Find(k Kind) []Span {
	var out []Span
	for _, s := range l.Spans {
		if s.Kind == k || (k != Plain && s.Inner == k) {
			out = append(out, s)
		}
	}
	return out
}

// HTML renders the line. Text is escaped; markup is not.
func (l Line) HTML() string {
	var b strings.Builder
	if l.Label != "" {
		writeSpan(&b, Keyword, html.EscapeString(l.Label))
		b.WriteString(": ")
	}
	if l.Bold {
		b.WriteString("<span class='bold'>")
	}
	for _, s := range l.Spans {
		text := html.EscapeString(s.Text)
		if s.Inner != Plain {
			var inner strings.Builder
			writeSpan(&inner, s.Inner, text)
			text = inner.String()
		}
		writeSpan(&b, s.Kind, text)
	}
	if l.Bold {
		b.WriteString("</span>")
	}
	return b.String()
}

func writeSpan(b *strings.Builder, k Kind, inner string) {
	if k == Plain {
		b.WriteString(inner)
		return
	}
	b.WriteString("<span class='")
	b.WriteString(k.Class())
	b.WriteString("'>")
	b.WriteString(inner)
	b.WriteString("</span>")
}
