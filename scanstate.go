package wsv

import "fmt"

// scanState is a state of the line scanner.
type scanState int

const (
	stateWhitespace scanState = iota // Before a value: skip and record whitespace.
	stateLineFeed                    // At a line feed: close the line.
	stateEOF                         // At the end of input: close the last line.
	stateComment                     // At '#': the rest of the line is a comment.
	stateString                      // At '"': a quoted value.
	stateValue                       // Any other character: a bare value.
)

// String returns a human-readable name of the state.
func (s scanState) String() string {
	switch s {
	case stateWhitespace:
		return "Whitespace"
	case stateLineFeed:
		return "LineFeed"
	case stateEOF:
		return "EOF"
	case stateComment:
		return "Comment"
	case stateString:
		return "String"
	case stateValue:
		return "Value"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}
