package router

import (
	"fmt"

	"github.com/tahamansoor/clawdia/core/handler"
)

// binding is the payload attached to a terminal trie node: the handler with
// its route-scoped middleware already composed in, plus the pattern it was
// registered under for introspection.
type binding[C handler.Context] struct {
	handler handler.HandlerFunc[C]
	pattern string
}

// node is a single level of the routing trie. Each node owns a map of
// static-segment children and at most one parameter child; a parameter
// child's label keeps its ":" marker. A binding is set iff some registered
// route terminates at this exact position.
type node[C handler.Context] struct {
	label   string
	static  map[string]*node[C]
	param   *node[C]
	binding *binding[C]
}

// addRoute inserts b at the trie position addressed by segments, creating
// intermediate nodes as needed. Re-registering the same position silently
// overwrites the previous binding (last write wins). Registering a parameter
// segment whose name differs from an existing parameter child at the same
// position panics with ErrParamConflict: the trie structurally supports one
// parameter edge per node, and silently aliasing the second name would lose
// it.
func (n *node[C]) addRoute(segments []string, b *binding[C]) {
	if len(segments) == 0 {
		n.binding = b
		return
	}

	head, rest := segments[0], segments[1:]

	if head[0] == paramMarker {
		if n.param == nil {
			n.param = &node[C]{label: head}
		} else if n.param.label != head {
			panic(fmt.Errorf("%w: %q vs %q in route %q",
				ErrParamConflict, n.param.label, head, b.pattern))
		}
		n.param.addRoute(rest, b)
		return
	}

	if n.static == nil {
		n.static = make(map[string]*node[C])
	}
	child, ok := n.static[head]
	if !ok {
		child = &node[C]{label: head}
		n.static[head] = child
	}
	child.addRoute(rest, b)
}

// match resolves segments against the subtree rooted at n, accumulating
// extracted parameter values. Static children are tried first; only if the
// whole static branch fails does the parameter edge at the same level get a
// chance. A failed deeper match does not retry parameter edges at ancestor
// levels beyond this static-then-parameter order per node.
//
// Parameter values are bound into a copy of params so a failed parameter
// branch leaves the caller's map untouched.
func (n *node[C]) match(segments []string, params map[string]string) (*binding[C], map[string]string) {
	if len(segments) == 0 {
		if n.binding == nil {
			return nil, nil
		}
		return n.binding, params
	}

	head, rest := segments[0], segments[1:]

	if child, ok := n.static[head]; ok {
		if b, p := child.match(rest, params); b != nil {
			return b, p
		}
	}

	if n.param != nil {
		bound := make(map[string]string, len(params)+1)
		for k, v := range params {
			bound[k] = v
		}
		bound[n.param.label[1:]] = head
		return n.param.match(rest, bound)
	}

	return nil, nil
}

// walk visits every terminal binding in the subtree in depth-first order.
func (n *node[C]) walk(fn func(b *binding[C])) {
	if n.binding != nil {
		fn(n.binding)
	}
	for _, child := range n.static {
		child.walk(fn)
	}
	if n.param != nil {
		n.param.walk(fn)
	}
}
