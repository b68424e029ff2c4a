package evaluator

import (
	"fmt"
	"testing"

	"github.com/cwbudde/bindexpr/internal/filters"
	"github.com/gkampitakis/go-snaps/snaps"
)

func newUppercaseFilterRegistry() *filters.Registry {
	r := filters.New()
	r.Register("upper", func() filters.Func {
		return func(input any, args ...any) any {
			s, _ := input.(string)
			out := make([]byte, len(s))
			for i := 0; i < len(s); i++ {
				c := s[i]
				if c >= 'a' && c <= 'z' {
					c -= 32
				}
				out[i] = c
			}
			return string(out)
		}
	})
	return r
}

// TestEvalSnapshots pins a handful of representative compiled-expression
// behaviors against golden output, the way fixture_test.go snapshots
// DWScript fixture runs end to end.
func TestEvalSnapshots(t *testing.T) {
	cases := []struct {
		name   string
		source string
		scope  map[string]any
	}{
		{"arithmetic", "1 + 2 * 3", nil},
		{"member_chain", "user.profile.name", map[string]any{
			"user": map[string]any{"profile": map[string]any{"name": "ada"}},
		}},
		{"ternary", "age >= 18 ? 'adult' : 'minor'", map[string]any{"age": 21.0}},
		{"filter_pipeline", "greeting | upper", map[string]any{"greeting": "hi"}},
	}

	registry := newUppercaseFilterRegistry()
	for _, c := range cases {
		e, err := Compile(c.source, registry)
		if err != nil {
			t.Fatalf("%s: unexpected compile error: %v", c.name, err)
		}
		got, err := e.Eval(c.scope, nil)
		if err != nil {
			t.Fatalf("%s: unexpected eval error: %v", c.name, err)
		}
		snaps.MatchSnapshot(t, fmt.Sprintf("%s_result", c.name), got)
	}
}
