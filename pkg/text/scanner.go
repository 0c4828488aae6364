package text

import (
	"regexp"
)

// scanMode tracks what kind of lexical region the scanner is inside
type scanMode int

const (
	modeCode scanMode = iota
	modeSingleQuote
	modeDoubleQuote
	modeTemplate
	modeLineComment
	modeBlockComment
)

// frame is one entry of the lexer's mode stack. braces is only
// meaningful for modeCode frames: it counts open braces within that
// frame, so `${ ... }` template expressions nest without disturbing
// the enclosing function's depth.
type frame struct {
	mode   scanMode
	braces int
}

// lexer tracks lexical context (strings, template literals, comments)
// and brace depth across a byte stream.
type lexer struct {
	stack []frame
}

func newLexer() *lexer {
	return &lexer{stack: []frame{{mode: modeCode}}}
}

// inCode reports whether the lexer currently sits in plain code,
// outside strings, template literals and comments.
func (l *lexer) inCode() bool {
	return l.stack[len(l.stack)-1].mode == modeCode
}

// bodyClosed reports whether every brace opened at the root has closed
func (l *lexer) bodyClosed() bool {
	return len(l.stack) == 1 && l.stack[0].braces == 0
}

// next consumes the byte at src[i], updates lexical state, and returns
// the index of the next unconsumed byte.
func (l *lexer) next(src []byte, i int) int {
	top := &l.stack[len(l.stack)-1]
	c := src[i]

	switch top.mode {
	case modeCode:
		switch c {
		case '{':
			top.braces++
		case '}':
			top.braces--
			if top.braces == 0 && len(l.stack) > 1 {
				// closes a `${` template expression
				l.stack = l.stack[:len(l.stack)-1]
			}
		case '\'':
			l.stack = append(l.stack, frame{mode: modeSingleQuote})
		case '"':
			l.stack = append(l.stack, frame{mode: modeDoubleQuote})
		case '`':
			l.stack = append(l.stack, frame{mode: modeTemplate})
		case '/':
			if i+1 < len(src) {
				switch src[i+1] {
				case '/':
					l.stack = append(l.stack, frame{mode: modeLineComment})
					return i + 2
				case '*':
					l.stack = append(l.stack, frame{mode: modeBlockComment})
					return i + 2
				}
			}
		}

	case modeSingleQuote, modeDoubleQuote:
		switch c {
		case '\\':
			return i + 2 // skip escaped byte
		case '\'':
			if top.mode == modeSingleQuote {
				l.stack = l.stack[:len(l.stack)-1]
			}
		case '"':
			if top.mode == modeDoubleQuote {
				l.stack = l.stack[:len(l.stack)-1]
			}
		case '\n':
			// unterminated string, resync at end of line
			l.stack = l.stack[:len(l.stack)-1]
		}

	case modeTemplate:
		switch c {
		case '\\':
			return i + 2
		case '`':
			l.stack = l.stack[:len(l.stack)-1]
		case '$':
			if i+1 < len(src) && src[i+1] == '{' {
				l.stack = append(l.stack, frame{mode: modeCode, braces: 1})
				return i + 2
			}
		}

	case modeLineComment:
		if c == '\n' {
			l.stack = l.stack[:len(l.stack)-1]
		}

	case modeBlockComment:
		if c == '*' && i+1 < len(src) && src[i+1] == '/' {
			l.stack = l.stack[:len(l.stack)-1]
			return i + 2
		}
	}

	return i + 1
}

// functionHeader matches the start of a (possibly async) function
// declaration for the given name, up to and including the opening
// parenthesis of the parameter list.
func functionHeader(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?:async\s+)?function\s+` + regexp.QuoteMeta(name) + `\s*\(`)
}

// locateFunction returns the byte range [start, end) of the first
// definition of the named function in src: the header through the
// matching closing brace of the body. Header candidates inside
// strings, template literals or comments are skipped, and brace depth
// is counted exactly through the same lexical regions, so a `}` in a
// string or comment never perturbs the count. Returns ok == false
// when no complete definition is found.
func locateFunction(src []byte, name string) (start, end int, ok bool) {
	header := functionHeader(name)

	offset := 0
	for {
		loc := header.FindIndex(src[offset:])
		if loc == nil {
			return 0, 0, false
		}
		start = offset + loc[0]
		parenOpen := offset + loc[1] - 1

		if !inCodeContext(src, start) {
			offset = offset + loc[1]
			continue
		}

		bodyOpen, found := skipParams(src, parenOpen)
		if !found {
			offset = offset + loc[1]
			continue
		}

		end, found = scanBody(src, bodyOpen)
		if !found {
			offset = offset + loc[1]
			continue
		}
		return start, end, true
	}
}

// inCodeContext reports whether the byte at pos is plain code rather
// than part of a string, template literal or comment.
func inCodeContext(src []byte, pos int) bool {
	lex := newLexer()
	for i := 0; i < pos; {
		i = lex.next(src, i)
	}
	return lex.inCode()
}

// skipParams scans the parameter list starting at the opening paren
// and returns the index of the `{` that opens the function body.
// Parentheses inside string literals or comments (default parameter
// values, trailing comments) are ignored.
func skipParams(src []byte, parenOpen int) (bodyOpen int, ok bool) {
	lex := newLexer()
	depth := 0
	i := parenOpen
	for i < len(src) {
		if lex.inCode() {
			switch src[i] {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					// Body must follow, allowing only whitespace between
					for j := i + 1; j < len(src); j++ {
						c := src[j]
						if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
							continue
						}
						if c == '{' {
							return j, true
						}
						return 0, false
					}
					return 0, false
				}
			}
		}
		i = lex.next(src, i)
	}
	return 0, false
}

// scanBody counts brace depth from the body's opening brace and
// returns the index just past the matching closing brace.
func scanBody(src []byte, bodyOpen int) (end int, ok bool) {
	lex := newLexer()
	i := bodyOpen
	for i < len(src) {
		i = lex.next(src, i)
		if lex.bodyClosed() {
			return i, true
		}
	}
	return 0, false
}
