// Copyright © 2024 The ELPS authors

package signature

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShorten(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"function", "function add(a, b) { return a + b }", "function add(a, b)"},
		{"anonymous function", "function (a) {\n  return a\n}", "function (a)"},
		{"async generator", "async function* gen(a) { yield a }", "async function* gen(a)"},
		{"arrow", "(a, b) => a + b", "(a, b)"},
		{"arrow block", "(a) => { return (a) }", "(a)"},
		{"bare arrow", "x => x * 2", "x"},
		{"no params", "function main() {\n  return 42\n}", "function main()"},
		{"method", "toString() { return \"(\" }", "toString()"},
		{"line comment", "function f(a, // first\n b) {}", "function f(a,  b)"},
		{"block comment", "function /* name */ g(/* none */) {}", "function  g()"},
		{"string paren", `function g(s = "(") { return s }`, `function g(s = "(")`},
		{"single quote paren", `function g(s = ')') {}`, `function g(s = ')')`},
		{"escaped quote", `function g(s = "\")") {}`, `function g(s = "\")")`},
		{"template paren", "function t(a = `)`) {}", "function t(a = `)`)"},
		{"regex paren", `function foo(x = /hello\)/, [y] = ")\"".split("")) {}`, `function foo(x = /hello\)/, [y] = ")\"".split(""))`},
		{"regex class", `function r(x = /[/]/) {}`, `function r(x = /[/]/)`},
		{"division", "function d(a = b / 2) {}", "function d(a = b / 2)"},
		{"class", "class Point {\n  constructor(x, y) {\n    this.x = x\n  }\n}", "class Point { constructor(x, y) }"},
		{"unterminated", "function broken(a, b", "function broken(a, b"},
		{"unterminated string", `function s(a = "oops) {}`, `function s(a = "oops) {}`},
		{"empty", "", ""},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, Shorten(test.source))
		})
	}
}

// A slash after a closing parenthesis is taken for a regular expression.
// The scan then never finds the end of the parameter list and the whole
// definition is shown.
func TestShortenRegexHeuristic(t *testing.T) {
	src := "function f(c = (d) / 3) { return c }"
	assert.Equal(t, src, Shorten(src))
}

func TestShortenPathological(t *testing.T) {
	src := "function deep(" + strings.Repeat("(", 10000) + strings.Repeat(")", 10000) + ") {}"
	assert.Equal(t, strings.TrimSuffix(src, " {}"), Shorten(src))

	src = "function slashes(" + strings.Repeat("/", 5000)
	assert.NotPanics(t, func() { Shorten(src) })
}
