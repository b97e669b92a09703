// Package params parses the table-argument string historically accepted by
// the druid_json virtual table:
//
//	filename = "raw_result.json", metrics = "clicks,impressions,cost"
//
// Keys are unquoted; values may be bare (no spaces or commas) or quoted
// with single or double quotes, where a doubled quote inside a quoted value
// stands for the quote character itself.
package params

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Args holds the recognized table parameters.
type Args struct {
	Filename string
	Metrics  []string
}

type astArgs struct {
	Params []*astParam `parser:"@@ (',' @@)*"`
}

type astParam struct {
	Key   string `parser:"@Bare '='"`
	Value string `parser:"(@String | @Bare)"`
}

var (
	argLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "String", Pattern: `'(?:[^']|'')*'|"(?:[^"]|"")*"`},
		{Name: "Bare", Pattern: `[^,='"\s]+`},
		{Name: "Punct", Pattern: `[=,]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	argParser = participle.MustBuild[astArgs](
		participle.Lexer(argLexer),
		participle.Elide("Whitespace"),
	)
)

// dequote strips matching outer quotes and collapses doubled quote
// characters inside the value.
func dequote(s string) string {
	if len(s) < 2 {
		return s
	}
	q := s[0]
	if (q != '\'' && q != '"') || s[len(s)-1] != q {
		return s
	}
	inner := s[1 : len(s)-1]
	return strings.ReplaceAll(inner, string([]byte{q, q}), string(q))
}

// Parse parses a table-argument string. The filename parameter is
// mandatory; metrics is an optional comma-separated list of column names.
// Unknown or repeated parameters are errors.
func Parse(input string) (*Args, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("must specify filename=")
	}

	ast, err := argParser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	args := &Args{}
	seen := make(map[string]bool)
	for _, p := range ast.Params {
		if seen[p.Key] {
			return nil, fmt.Errorf("more than one '%s' parameter", p.Key)
		}
		seen[p.Key] = true
		value := dequote(p.Value)
		switch p.Key {
		case "filename":
			args.Filename = value
		case "metrics":
			for _, m := range strings.Split(value, ",") {
				m = strings.TrimSpace(m)
				if m != "" {
					args.Metrics = append(args.Metrics, m)
				}
			}
		default:
			return nil, fmt.Errorf("bad parameter: '%s'", p.Key)
		}
	}
	if args.Filename == "" {
		return nil, fmt.Errorf("must specify filename=")
	}
	return args, nil
}
