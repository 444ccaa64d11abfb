// Copyright © 2024 The ELPS authors

// Package literal reads values for the console from text.
//
// Parse accepts Gleam literal syntax:
//
//	expr    := <term> | <list> | <tuple> | <custom>
//	term    := <string> | <float> | <int>
//	list    := '[' (<expr> (',' <expr>)* ','?)? ']'
//	tuple   := '#(' (<expr> (',' <expr>)* ','?)? ')'
//	custom  := <upname> ('(' (<arg> (',' <arg>)* ','?)? ')')?
//	arg     := <label> ':' <expr> | <expr>
//	int     := /-?[0-9][0-9_]*/ | /-?0[xob][0-9a-f_]+/
//	float   := /-?[0-9][0-9_]*\.[0-9_]*(e-?[0-9]+)?/
//	string  := '"' (<char> | '\' <escape>)* '"'
//
// The variants True, False and Nil denote the booleans and the unit value.
// Decode reads JSON and YAML documents.
package literal

import (
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/luthersystems/gleamconsole/value"
	"github.com/pkg/errors"
	parsec "github.com/prataprc/goparsec"
)

const (
	nodeInvalid nodeType = iota
	nodeTerm
	nodeList
	nodeTuple
	nodeLabelled
	nodeCustom
)

var nodeTypeStrings = []string{
	nodeInvalid:  "INVALID",
	nodeTerm:     "TERM",
	nodeList:     "LIST",
	nodeTuple:    "TUPLE",
	nodeLabelled: "LABELLED",
	nodeCustom:   "CUSTOM",
}

type nodeType uint

func (t nodeType) String() string {
	if int(t) >= len(nodeTypeStrings) {
		return "INVALID"
	}
	return nodeTypeStrings[t]
}

// parsed is a finished value inside the parse tree.
type parsed struct {
	v any
}

type labelled struct {
	label string
	v     any
}

// Parse reads every literal in text.  Values parsed before an error are
// returned along with it.
func Parse(text []byte) ([]any, error) {
	var vals []any
	s := parsec.NewScanner(text)
	parser := newParsecParser()
	root, s := parser(s)
	for root != nil {
		v, err := result(root)
		if err != nil {
			return vals, errors.Wrapf(err, "literal %d", len(vals)+1)
		}
		vals = append(vals, v)
		root, s = parser(s)
	}
	_, s = s.SkipWS()
	if !s.Endof() {
		b, _ := s.Match(`.{1,16}`)
		if len(b) > 15 {
			b = append(b[:15:15], []byte("...")...)
		}
		return vals, fmt.Errorf("%d: unexpected source text possibly starting: %s", s.GetCursor(), b)
	}
	return vals, nil
}

// ParseOne reads a single literal from text.
func ParseOne(text string) (any, error) {
	vals, err := Parse([]byte(text))
	if err != nil {
		return nil, err
	}
	if len(vals) != 1 {
		return nil, fmt.Errorf("expected one literal, found %d", len(vals))
	}
	return vals[0], nil
}

func newParsecParser() parsec.Parser {
	openB := parsec.Atom("[", "OPENB")
	closeB := parsec.Atom("]", "CLOSEB")
	openT := parsec.Atom("#(", "OPENT")
	openP := parsec.Atom("(", "OPENP")
	closeP := parsec.Atom(")", "CLOSEP")
	comma := parsec.Atom(",", "COMMA")
	colon := parsec.Atom(":", "COLON")
	str := parsec.Token(`"(?:[^"\\]|\\.)*"`, "STRING")
	float := parsec.Token(`-?[0-9][0-9_]*\.[0-9_]*(?:e-?[0-9]+)?`, "FLOAT")
	integer := parsec.Token(`-?(?:0[xX][0-9a-fA-F_]+|0[oO][0-7_]+|0[bB][01_]+|[0-9][0-9_]*)`, "INT")
	upname := parsec.Token(`[A-Z][A-Za-z0-9_]*`, "UPNAME")
	label := parsec.Token(`[a-z_][a-z0-9_]*`, "LABEL")

	term := parsec.OrdChoice(astNode(nodeTerm), str, float, integer)
	var expr parsec.Parser // forward declaration allows for recursive parsing
	items := parsec.Kleene(nil, &expr, comma)
	list := parsec.And(astNode(nodeList), openB, items, closeB)
	tuple := parsec.And(astNode(nodeTuple), openT, items, closeP)
	arg := parsec.OrdChoice(nil,
		parsec.And(astNode(nodeLabelled), label, colon, &expr),
		&expr,
	)
	args := parsec.Kleene(nil, arg, comma)
	ctor := parsec.And(astNode(nodeCustom), upname, openP, args, closeP)
	bare := parsec.And(astNode(nodeCustom), upname)
	expr = parsec.OrdChoice(nil, term, list, tuple, ctor, bare)
	return expr
}

func astNode(t nodeType) parsec.Nodify {
	return func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		return build(t, nodes)
	}
}

func build(typ nodeType, nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes, err := flatten(nodes)
	if err != nil {
		return err
	}
	switch typ {
	case nodeTerm:
		v, err := terminalValue(nodes[0].(*parsec.Terminal))
		if err != nil {
			return err
		}
		return &parsed{v}
	case nodeList:
		return &parsed{value.ListOf(values(nodes)...)}
	case nodeTuple:
		return &parsed{append(value.Tuple{}, values(nodes)...)}
	case nodeLabelled:
		return &labelled{
			label: nodes[0].(*parsec.Terminal).GetValue(),
			v:     nodes[2].(*parsed).v,
		}
	case nodeCustom:
		return custom(nodes)
	default:
		panic(fmt.Sprintf("unknown nodeType: %s (%d)", typ, typ))
	}
}

func custom(nodes []parsec.ParsecNode) parsec.ParsecNode {
	name := nodes[0].(*parsec.Terminal).GetValue()
	if len(nodes) == 1 {
		switch name {
		case "True":
			return &parsed{true}
		case "False":
			return &parsed{false}
		case "Nil":
			return &parsed{value.Nil}
		}
	}
	var fields []value.Field
	for _, n := range nodes[1:] {
		switch n := n.(type) {
		case *parsed:
			fields = append(fields, value.Field{Label: strconv.Itoa(len(fields)), Value: n.v})
		case *labelled:
			fields = append(fields, value.Field{Label: n.label, Value: n.v})
		}
	}
	return &parsed{value.NewCustom(name, fields...)}
}

// flatten splices nested node lists and stops at the first error.
func flatten(lis []parsec.ParsecNode) ([]parsec.ParsecNode, error) {
	var nodes []parsec.ParsecNode
	for _, n := range lis {
		switch node := n.(type) {
		case error:
			return nil, node
		case []parsec.ParsecNode:
			sub, err := flatten(node)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, sub...)
		default:
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

func values(nodes []parsec.ParsecNode) []any {
	var vals []any
	for _, n := range nodes {
		if p, ok := n.(*parsed); ok {
			vals = append(vals, p.v)
		}
	}
	return vals
}

func result(root parsec.ParsecNode) (any, error) {
	nodes, err := flatten([]parsec.ParsecNode{root})
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, errors.New("empty literal")
	}
	p, ok := nodes[0].(*parsed)
	if !ok {
		return nil, fmt.Errorf("unexpected %T", nodes[0])
	}
	return p.v, nil
}

func terminalValue(term *parsec.Terminal) (any, error) {
	switch term.GetName() {
	case "STRING":
		return unquote(term.GetValue())
	case "FLOAT":
		text := strings.ReplaceAll(term.GetValue(), "_", "")
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "bad float %s", term.GetValue())
		}
		return f, nil
	case "INT":
		return parseInt(term.GetValue())
	}
	return nil, fmt.Errorf("unexpected token %s", term.GetName())
}

var radixPrefix = regexp.MustCompile(`^-?0[xXoObB]`)

// parseInt reads a Gleam integer.  Integers too large for int64 become
// *big.Int values.
func parseInt(text string) (any, error) {
	digits := strings.ReplaceAll(text, "_", "")
	base := 10
	if radixPrefix.MatchString(digits) {
		base = 0
	}
	n, err := strconv.ParseInt(digits, base, 64)
	if err == nil {
		return n, nil
	}
	if !errors.Is(err, strconv.ErrRange) {
		return nil, errors.Wrapf(err, "bad int %s", text)
	}
	b, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, fmt.Errorf("bad int %s", text)
	}
	return b, nil
}

var unicodeEscape = regexp.MustCompile(`^u\{([0-9a-fA-F]{1,6})\}`)

// unquote decodes the escapes of a Gleam string literal.
func unquote(lit string) (string, error) {
	body := lit[1 : len(lit)-1]
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case '"', '\\':
			b.WriteByte(body[i])
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'f':
			b.WriteByte('\f')
		case 'u':
			m := unicodeEscape.FindStringSubmatch(body[i:])
			if m == nil {
				return "", fmt.Errorf("invalid unicode escape in %s", lit)
			}
			r, _ := strconv.ParseUint(m[1], 16, 32)
			b.WriteRune(rune(r))
			i += len(m[0]) - 1
		default:
			return "", fmt.Errorf("invalid escape \\%c in %s", body[i], lit)
		}
	}
	return b.String(), nil
}
