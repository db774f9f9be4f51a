package highlight

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/matzehuels/g6viz/pkg/errors"
)

// selectorList is the grammar root: items separated by commas or whitespace.
type selectorList struct {
	Items []*selectorItem `( @@ ","? )*`
}

type selectorItem struct {
	Pair  *pairExpr  `  "(" @@ ")"`
	Plain *plainExpr `| @@`
}

// pairExpr is an edge written as "(u,v)".
type pairExpr struct {
	U int `@Int ","`
	V int `@Int`
}

// plainExpr is a vertex "v" or an edge "u-v" / "u:v".
type plainExpr struct {
	U int  `@Int`
	V *int `( ( "-" | ":" ) @Int )?`
}

var selectorLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[-:(),]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var selectorParser = participle.MustBuild[selectorList](
	participle.Lexer(selectorLexer),
	participle.Elide("Whitespace"),
)

// ParseSelectors parses a highlight expression such as "0 3, 1-2 (4,5) 6:7".
// A bare integer selects a vertex; "u-v", "u:v" and "(u,v)" select edges.
// The empty expression yields no selectors.
func ParseSelectors(expr string) ([]Selector, error) {
	if err := errors.ValidateSelectorText(expr); err != nil {
		return nil, err
	}
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}
	list, err := selectorParser.ParseString("", expr)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSelector, err, "invalid highlight expression %q", expr)
	}

	out := make([]Selector, 0, len(list.Items))
	for _, it := range list.Items {
		switch {
		case it.Pair != nil:
			out = append(out, Edge(it.Pair.U, it.Pair.V))
		case it.Plain.V != nil:
			out = append(out, Edge(it.Plain.U, *it.Plain.V))
		default:
			out = append(out, Vertex(it.Plain.U))
		}
	}
	return out, nil
}
