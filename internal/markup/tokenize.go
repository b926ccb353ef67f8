package markup

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokSpace
	tokPunct
)

type token struct {
	kind tokenKind
	text string
}

// lex splits s into identifier runs, whitespace runs and single punctuation
// characters. Identifiers are ASCII letters, digits and underscores.
func lex(s string) []token {
	var toks []token
	for i := 0; i < len(s); {
		j := i + 1
		switch c := s[i]; {
		case isIdentByte(c):
			for j < len(s) && isIdentByte(s[j]) {
				j++
			}
			toks = append(toks, token{tokIdent, s[i:j]})
		case c == ' ' || c == '\t' || c == '\v' || c == '\f':
			for j < len(s) && (s[j] == ' ' || s[j] == '\t' || s[j] == '\v' || s[j] == '\f') {
				j++
			}
			toks = append(toks, token{tokSpace, s[i:j]})
		default:
			_, size := utf8.DecodeRuneInString(s[i:])
			j = i + size
			toks = append(toks, token{tokPunct, s[i:j]})
		}
		i = j
	}
	return toks
}

func isIdentByte(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func (t token) is(kind tokenKind, text string) bool {
	return t.kind == kind && t.text == text
}

func nextNonSpace(toks []token, i int) int {
	for j := i + 1; j < len(toks); j++ {
		if toks[j].kind != tokSpace {
			return j
		}
	}
	return -1
}

func prevNonSpace(toks []token, i int) int {
	for j := i - 1; j >= 0; j-- {
		if toks[j].kind != tokSpace {
			return j
		}
	}
	return -1
}

// callFollows reports whether the token at i is followed by "(".
func callFollows(toks []token, i int) bool {
	j := nextNonSpace(toks, i)
	return j >= 0 && toks[j].is(tokPunct, "(")
}

// scopeFollows reports whether the token at i is followed by "::".
func scopeFollows(toks []token, i int) bool {
	j := nextNonSpace(toks, i)
	return j >= 0 && j+1 < len(toks) && toks[j].is(tokPunct, ":") && toks[j+1].is(tokPunct, ":")
}

// scopePrecedes reports whether the token at i comes right after "::".
func scopePrecedes(toks []token, i int) bool {
	j := prevNonSpace(toks, i)
	return j >= 1 && toks[j].is(tokPunct, ":") && toks[j-1].is(tokPunct, ":")
}

// memberKind classifies the a_/m_ naming convention.
func memberKind(ident string) Kind {
	switch {
	case strings.HasPrefix(ident, "a_"):
		return Arg
	case strings.HasPrefix(ident, "m_"):
		return Field
	default:
		return Plain
	}
}

type spanBuilder struct {
	spans []Span
}

func (b *spanBuilder) add(k Kind, text string) {
	b.addSpan(Span{Kind: k, Text: text})
}

func (b *spanBuilder) addSpan(s Span) {
	if s.Text == "" {
		return
	}
	if n := len(b.spans); n > 0 && s.Kind == Plain && s.Inner == Plain {
		if last := &b.spans[n-1]; last.Kind == Plain && last.Inner == Plain {
			last.Text += s.Text
			return
		}
	}
	b.spans = append(b.spans, s)
}

func trimSpaceRight(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// trimTerminator removes trailing whitespace around one of the given
// terminator characters.
func trimTerminator(s, terminators string) string {
	s = trimSpaceRight(s)
	if s != "" && strings.ContainsRune(terminators, rune(s[len(s)-1])) {
		s = trimSpaceRight(s[:len(s)-1])
	}
	return s
}

// Signature annotates a declaration line: a trailing "{" or ";" is dropped,
// struct and #define become keywords, called names become functions and
// scope qualifiers become ranges.
func Signature(s string) Line {
	toks := lex(trimTerminator(s, "{;"))

	var b spanBuilder
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch t.kind {
		case tokIdent:
			b.add(signatureIdentKind(toks, i), t.text)
		case tokPunct:
			next := i + 1
			if t.text == "#" && next < len(toks) && toks[next].is(tokIdent, "define") {
				b.add(Keyword, "#define")
				i = next
				continue
			}
			// destructor: name :: ~name(
			if t.text == "~" && next < len(toks) && toks[next].kind == tokIdent &&
				scopePrecedes(toks, i) && callFollows(toks, next) {
				b.add(Func, "~"+toks[next].text)
				i = next
				continue
			}
			b.add(Plain, t.text)
		default:
			b.add(Plain, t.text)
		}
	}
	return Line{Label: SignLabel, Bold: true, Spans: b.spans}
}

func signatureIdentKind(toks []token, i int) Kind {
	switch {
	case toks[i].text == "struct":
		return Keyword
	case callFollows(toks, i):
		return Func
	case scopeFollows(toks, i):
		return Range
	default:
		return memberKind(toks[i].text)
	}
}

// Body annotates a comment body line: the leading "*" is dropped and @word
// tags become keywords.
func Body(s string) Line {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	s = strings.TrimPrefix(s, "*")
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	toks := lex(s)

	var b spanBuilder
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch {
		case t.is(tokPunct, "@") && i+1 < len(toks) && toks[i+1].kind == tokIdent:
			word := toks[i+1].text
			n := 0
			for n < len(word) && 'a' <= word[n] && word[n] <= 'z' {
				n++
			}
			if n == 0 {
				b.add(Plain, t.text)
				continue
			}
			b.add(Keyword, "@"+word[:n])
			b.add(Plain, word[n:])
			i++
		case t.kind == tokIdent:
			b.add(memberKind(t.text), t.text)
		default:
			b.add(Plain, t.text)
		}
	}
	return Line{Spans: b.spans}
}

// Member annotates a struct member line: the trailing ";" is dropped and the
// declared name becomes an argument.
func Member(s string) Line {
	toks := lex(trimTerminator(s, ";"))

	name := len(toks) - 1
	if name < 0 || toks[name].kind != tokIdent {
		name = -1
	}

	var b spanBuilder
	for i, t := range toks {
		switch {
		case i == name:
			inner := memberKind(t.text)
			if inner == Arg {
				inner = Plain
			}
			b.addSpan(Span{Kind: Arg, Inner: inner, Text: t.text})
		case t.kind == tokIdent:
			b.add(memberKind(t.text), t.text)
		default:
			b.add(Plain, t.text)
		}
	}
	return Line{Bold: true, Spans: b.spans}
}
