// Package classify implements the line classifier: a small state machine that
// walks raw source lines and picks out documentation blocks, the declaration
// each block describes and, for structs, the member lines that follow.
//
// A documentation block looks like
//
//	/**
//	 * @type: method
//	 * @brief: Does something.
//	 */
//	void thing :: do_something (int a_arg){
//
// The marker line opens the block, comment lines form its body and the first
// non-comment line is its signature. A signature starting with "struct"
// keeps the block open until the closing "};", unless it is a forward
// declaration ending in ";".
package classify

import (
	"regexp"
	"strings"

	"github.com/mvp-joe/docgen/internal/markup"
)

// State is the classifier's position relative to a documentation block.
type State int

const (
	// Idle is outside any block.
	Idle State = iota
	// InBlock is inside the comment body of an open block.
	InBlock
	// Signature is the single step after a non-struct signature line.
	Signature
	// InStruct is inside the member list of a struct signature.
	InStruct
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case InBlock:
		return "block"
	case Signature:
		return "sign"
	case InStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// Kind identifies the role of an emitted unit.
type Kind int

const (
	// KindOpen is the @type marker line that opens a block.
	KindOpen Kind = iota + 1
	// KindBody is a comment body line.
	KindBody
	// KindEndComment is the "*/" line ending the comment.
	KindEndComment
	// KindSignature is the declaration following the comment.
	KindSignature
	// KindField is a struct member line.
	KindField
	// KindStructEnd is the "};" line ending a struct.
	KindStructEnd
)

func (k Kind) String() string {
	switch k {
	case KindOpen:
		return "open"
	case KindBody:
		return "body"
	case KindEndComment:
		return "end-comment"
	case KindSignature:
		return "signature"
	case KindField:
		return "field"
	case KindStructEnd:
		return "struct-end"
	default:
		return "unknown"
	}
}

// PrivateType is the marker label that hides a block.
const PrivateType = "private"

// Position locates a raw line in its input file.
type Position struct {
	File string
	Line int
}

// Unit is one classified line that belongs to a documentation block.
type Unit struct {
	Kind      Kind
	BlockType string
	Line      markup.Line
	Pos       Position
	// Closes is set on the unit that completes its block: a non-struct
	// signature or the end of a struct.
	Closes bool
}

// Printable reports whether the unit carries text for the document.
// Marker and terminator lines only drive container boundaries.
func (u Unit) Printable() bool {
	switch u.Kind {
	case KindBody, KindSignature, KindField:
		return true
	default:
		return false
	}
}

// Options tune classification.
type Options struct {
	// KeepBlockOnBareAsterisk skips lines holding only "*" without resetting
	// the block. By default they reset it like a blank line does.
	KeepBlockOnBareAsterisk bool
}

var (
	blankLine     = regexp.MustCompile(`^\s*$`)
	bareAsterisk  = regexp.MustCompile(`^\s*\*\s*$`)
	commentLine   = regexp.MustCompile(`^\s*\*`)
	endComment    = regexp.MustCompile(`^\s*\*/`)
	typeMarker    = regexp.MustCompile(`^\s*\*\s*@type:\s*(.*)$`)
	structOpener  = regexp.MustCompile(`^\s*struct\b`)
	structCloser  = regexp.MustCompile(`^\s*};`)
	lineBreakings = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")
)

// Classifier consumes raw lines one at a time. It is not safe for concurrent
// use; a run owns exactly one.
type Classifier struct {
	opts      Options
	state     State
	blockType string
	private   int
}

// New returns a classifier in the Idle state.
func New(opts Options) *Classifier {
	return &Classifier{opts: opts}
}

// State returns the state after the last classified line.
func (c *Classifier) State() State {
	return c.state
}

// Private returns the number of private markers seen so far.
func (c *Classifier) Private() int {
	return c.private
}

// Next classifies raw and returns the unit it produced, if any. Lines outside
// documentation blocks produce nothing.
func (c *Classifier) Next(raw string, pos Position) (Unit, bool) {
	line := lineBreakings.Replace(raw)

	if blankLine.MatchString(line) {
		c.reset()
		return Unit{}, false
	}
	if bareAsterisk.MatchString(line) {
		if !c.opts.KeepBlockOnBareAsterisk {
			c.reset()
		}
		return Unit{}, false
	}

	unit := Unit{BlockType: c.blockType, Pos: pos}

	label, isMarker := markerLabel(line)
	private := isMarker && strings.HasPrefix(label, PrivateType)
	opens := isMarker && !private

	// Member lines are consumed verbatim until the terminator. Only a public
	// marker abandons the struct; it opens the next block below.
	if c.state == InStruct && !opens {
		if structCloser.MatchString(line) {
			c.state = Idle
			unit.Kind = KindStructEnd
			unit.Closes = true
			return unit, true
		}
		unit.Kind = KindField
		unit.Line = markup.Member(line)
		return unit, true
	}

	if private {
		c.private++
	}
	if opens {
		c.state = InBlock
		c.blockType = label
		unit.Kind = KindOpen
		unit.BlockType = label
		return unit, true
	}

	if c.state != InBlock {
		// Idle, or the pulse after a signature has passed.
		c.state = Idle
		return Unit{}, false
	}

	if commentLine.MatchString(line) {
		if endComment.MatchString(line) {
			unit.Kind = KindEndComment
			return unit, true
		}
		unit.Kind = KindBody
		unit.Line = markup.Body(line)
		return unit, true
	}

	unit.Kind = KindSignature
	unit.Line = markup.Signature(line)
	if structOpener.MatchString(line) && !strings.HasSuffix(strings.TrimSpace(line), ";") {
		c.state = InStruct
		return unit, true
	}
	c.state = Signature
	unit.Closes = true
	return unit, true
}

func markerLabel(line string) (string, bool) {
	m := typeMarker.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// reset is the hard block boundary. An open struct survives it: only its
// own terminator ends it.
func (c *Classifier) reset() {
	if c.state != InStruct {
		c.state = Idle
	}
}
