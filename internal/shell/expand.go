// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"regexp"
	"strings"

	"github.com/vfsh/vfsh/internal/host"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"
)

// percentVar matches Windows-style %NAME% references.
var percentVar = regexp.MustCompile(`%([A-Za-z_][A-Za-z0-9_]*)%`)

// expander expands environment references against a host.
type expander struct {
	host   host.Host
	parser *syntax.Parser
	cfg    *expand.Config
}

func newExpander(h host.Host) *expander {
	return &expander{
		host:   h,
		parser: syntax.NewParser(),
		cfg: &expand.Config{
			Env: expand.FuncEnviron(func(name string) string {
				v, _ := h.LookupEnv(name)
				return v
			}),
		},
	}
}

// parse reads s as a here-document style word: quotes are literal, only
// parameter expansions are recognized.
func (e *expander) parse(s string) (*syntax.Word, error) {
	return e.parser.Document(strings.NewReader(s))
}

// arg expands $NAME and ${NAME} in a command argument. Unset variables expand
// to the empty string. Arguments that fail to parse or expand are returned
// unchanged.
func (e *expander) arg(s string) string {
	if !strings.Contains(s, "$") {
		return s
	}
	word, err := e.parse(s)
	if err != nil {
		return s
	}
	out, err := expand.Literal(e.cfg, word)
	if err != nil {
		return s
	}
	return out
}

// line expands a line beginning with a variable sigil. ok is false when the
// line references no variable or any referenced variable is unset.
func (e *expander) line(s string) (string, bool) {
	switch {
	case strings.HasPrefix(s, "$"):
		return e.dollar(s)
	case strings.HasPrefix(s, "%"):
		return e.percent(s)
	default:
		return "", false
	}
}

func (e *expander) dollar(s string) (string, bool) {
	word, err := e.parse(s)
	if err != nil {
		return "", false
	}

	var names []string
	simple := true
	syntax.Walk(word, func(node syntax.Node) bool {
		switch n := node.(type) {
		case *syntax.ParamExp:
			if n.Param != nil {
				names = append(names, n.Param.Value)
			}
		case *syntax.CmdSubst, *syntax.ArithmExp, *syntax.ProcSubst:
			simple = false
		}
		return true
	})
	if !simple || len(names) == 0 {
		return "", false
	}
	for _, name := range names {
		if _, ok := e.host.LookupEnv(name); !ok {
			return "", false
		}
	}

	out, err := expand.Literal(e.cfg, word)
	if err != nil {
		return "", false
	}
	return out, true
}

func (e *expander) percent(s string) (string, bool) {
	matches := percentVar.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return "", false
	}
	for _, m := range matches {
		if _, ok := e.host.LookupEnv(m[1]); !ok {
			return "", false
		}
	}
	return percentVar.ReplaceAllStringFunc(s, func(ref string) string {
		v, _ := e.host.LookupEnv(ref[1 : len(ref)-1])
		return v
	}), true
}
