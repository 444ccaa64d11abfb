// Copyright © 2024 The ELPS authors

// Package signature extracts the parameter list of a callable from its
// full source text.
//
// The scan is superficial: it removes comments and skips over string,
// template and regular expression literals so that definitions like
//
//	function foo(x = /hello\)/, [y] = ")\"".split("")) {}
//
// shorten to "function foo(x = /hello\)/, [y] = ")\"".split(""))".  A slash
// starts a regular expression only when the closest preceding
// non-whitespace character is an operator or punctuation mark, which can
// misfire on unusual code.
package signature

import (
	"regexp"
	"strings"
)

var (
	commentRegexp  = regexp.MustCompile(`//.*?\n|/\*.*?\*/`)
	prefixRegexp   = regexp.MustCompile(`^(async\s*)?(function\s*)?\*?\s*[\w\d]*\s*`)
	trailingRegexp = regexp.MustCompile(`(\s*=>)?\s*$`)
	spaceRegexp    = regexp.MustCompile(`\s+`)
)

// regexPreceders are the characters after which a slash opens a regular
// expression literal rather than dividing.
const regexPreceders = "=;,():+-*/<>|&%?~"

type scanState uint8

const (
	stateNormal scanState = iota
	stateDoubleQuote
	stateSingleQuote
	stateTemplate
	stateRegex
)

// Shorten returns the signature of the callable defined by source with its
// body removed.  Class definitions keep their header followed by an empty
// body.  Input that never closes its parameter list is returned whole.
func Shorten(source string) string {
	sig := commentRegexp.ReplaceAllString(source, "")
	body := sig[len(prefixRegexp.FindString(sig)):]
	if strings.HasPrefix(body, "=>") {
		body = body[2:]
	} else {
		body = skipParams(body)
	}
	n := len(sig) - len(body)
	if strings.HasPrefix(sig, "class ") {
		return spaceRegexp.ReplaceAllString(sig[:n]+" }", " ")
	}
	return trailingRegexp.ReplaceAllString(sig[:n], "")
}

// skipParams scans past the parenthesised parameter list at the start of s
// and returns what follows it (the body, with an arrow marker removed).  If
// the list never closes the body is empty.
func skipParams(s string) string {
	state := stateNormal
	parens := 0
	regexBrackets := 0
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch state {
		case stateNormal:
			switch c {
			case '(':
				parens++
			case ')':
				parens--
				if parens == 0 {
					body := strings.TrimLeft(s[i+1:], " \t\r\n\f\v")
					return strings.TrimPrefix(body, "=>")
				}
			case '"':
				state = stateDoubleQuote
			case '\'':
				state = stateSingleQuote
			case '`':
				state = stateTemplate
			case '/':
				if startsRegex(s[:i]) {
					state = stateRegex
					regexBrackets = 0
				}
			}
		case stateDoubleQuote, stateSingleQuote, stateTemplate:
			switch {
			case c == '\\':
				escaped = !escaped
			case escaped:
				escaped = false
			case c == closingQuote(state):
				state = stateNormal
			}
		case stateRegex:
			switch {
			case c == '\\':
				escaped = !escaped
			case escaped:
				escaped = false
			case c == '[' || c == '{' || c == '(':
				regexBrackets++
			case c == ']' || c == '}' || c == ')':
				regexBrackets--
			case c == '/' && regexBrackets == 0:
				state = stateNormal
			}
		}
	}
	return ""
}

func startsRegex(before string) bool {
	prev := strings.TrimRight(before, " \t\r\n\f\v")
	if prev == "" {
		return false
	}
	return strings.IndexByte(regexPreceders, prev[len(prev)-1]) >= 0
}

func closingQuote(state scanState) byte {
	switch state {
	case stateDoubleQuote:
		return '"'
	case stateSingleQuote:
		return '\''
	default:
		return '`'
	}
}
