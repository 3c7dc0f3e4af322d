package dates

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// structuredDateKeys are the JSON-LD property names searched for a posting date.
var structuredDateKeys = map[string]struct{}{
	"datePosted":    {},
	"publishedDate": {},
	"createdDate":   {},
	"postingDate":   {},
	"date_posted":   {},
	"posted_date":   {},
	"dateCreated":   {},
	"created":       {},
	"published":     {},
	"datePublished": {},
	"dateModified":  {},
	"dateUpdated":   {},
	"lastModified":  {},
}

type nodeKind int

const (
	nodeScalar nodeKind = iota
	nodeString
	nodeObject
	nodeArray
)

// jsonNode is a JSON value that keeps object members in document order, which
// map[string]any cannot do. Order decides which date key is found first.
type jsonNode struct {
	kind     nodeKind
	str      string
	keys     []string // object member names, parallel to children
	children []*jsonNode
}

// decodeOrdered parses a single JSON document into a jsonNode tree without recursion.
func decodeOrdered(doc string) (*jsonNode, error) {
	dec := json.NewDecoder(strings.NewReader(doc))
	dec.UseNumber()

	type frame struct {
		node       *jsonNode
		pendingKey *string
	}
	var (
		stack []*frame
		root  *jsonNode
	)

	attach := func(n *jsonNode) error {
		if len(stack) == 0 {
			if root != nil {
				return fmt.Errorf("multiple top-level values")
			}
			root = n
			return nil
		}
		top := stack[len(stack)-1]
		if top.node.kind == nodeObject {
			if top.pendingKey == nil {
				return fmt.Errorf("object value without key")
			}
			top.node.keys = append(top.node.keys, *top.pendingKey)
			top.pendingKey = nil
		}
		top.node.children = append(top.node.children, n)
		return nil
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{', '[':
				kind := nodeObject
				if v == '[' {
					kind = nodeArray
				}
				n := &jsonNode{kind: kind}
				if err := attach(n); err != nil {
					return nil, err
				}
				stack = append(stack, &frame{node: n})
			case '}', ']':
				if len(stack) == 0 {
					return nil, fmt.Errorf("unbalanced %q", v)
				}
				stack = stack[:len(stack)-1]
			}
		case string:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.node.kind == nodeObject && top.pendingKey == nil {
					key := v
					top.pendingKey = &key
					continue
				}
			}
			if err := attach(&jsonNode{kind: nodeString, str: v}); err != nil {
				return nil, err
			}
		default:
			if err := attach(&jsonNode{kind: nodeScalar}); err != nil {
				return nil, err
			}
		}
	}

	if root == nil || len(stack) != 0 {
		return nil, fmt.Errorf("incomplete JSON document")
	}
	return root, nil
}

// findDateValue walks the tree depth-first (pre-order, members in document order) and
// returns the first string whose key is a known date property.
func findDateValue(root *jsonNode) (string, bool) {
	type entry struct {
		key  string
		node *jsonNode
	}
	work := []entry{{node: root}}

	for len(work) > 0 {
		e := work[len(work)-1]
		work = work[:len(work)-1]

		if e.node.kind == nodeString {
			if _, ok := structuredDateKeys[e.key]; ok {
				return e.node.str, true
			}
			continue
		}
		if e.node.kind != nodeObject && e.node.kind != nodeArray {
			continue
		}

		// Push in reverse so the first member is visited next.
		for i := len(e.node.children) - 1; i >= 0; i-- {
			key := ""
			if e.node.kind == nodeObject {
				key = e.node.keys[i]
			}
			work = append(work, entry{key: key, node: e.node.children[i]})
		}
	}
	return "", false
}
