package sql

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// Analysis is what the PostgreSQL parser reports about a statement list.
type Analysis struct {
	// Statements is the number of statements in the input.
	Statements int

	// ReadOnly is true when every statement is a SELECT without INTO or a
	// locking clause and no data-modifying statement is nested anywhere,
	// CTEs included.
	ReadOnly bool

	// Tables are the relations that do not resolve to a CTE in scope, in
	// order of first appearance and without duplicates. Unquoted names are
	// folded to lower case by the parser; schema qualifiers are dropped.
	Tables []string

	// CTEs are the names defined by WITH clauses, in order of definition.
	CTEs []string

	// Functions are the called function names, unqualified and lower-cased,
	// in order of first appearance and without duplicates.
	Functions []string
}

// writeNodes are parse tree nodes that modify data.
var writeNodes = map[string]bool{
	"InsertStmt": true,
	"UpdateStmt": true,
	"DeleteStmt": true,
	"MergeStmt":  true,
}

// Analyze parses sqlQuery with the PostgreSQL grammar and walks the tree.
func Analyze(sqlQuery string) (*Analysis, error) {
	tree, err := pg_query.ParseToJSON(sqlQuery)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	var parsed struct {
		Stmts []struct {
			Stmt map[string]any `json:"stmt"`
		} `json:"stmts"`
	}
	if err := json.Unmarshal([]byte(tree), &parsed); err != nil {
		return nil, fmt.Errorf("decode parse tree: %w", err)
	}

	w := &treeWalker{}
	readOnly := len(parsed.Stmts) > 0
	for _, stmt := range parsed.Stmts {
		if _, ok := stmt.Stmt["SelectStmt"]; !ok {
			readOnly = false
		}
		w.walk(stmt.Stmt, nil)
	}

	return &Analysis{
		Statements: len(parsed.Stmts),
		ReadOnly:   readOnly && !w.writes,
		Tables:     w.tables.names(),
		CTEs:       w.ctes,
		Functions:  w.functions.names(),
	}, nil
}

type namedPos struct {
	name string
	pos  float64
}

// located collects names with their byte offset in the source.
type located []namedPos

func (l *located) add(name string, pos float64) {
	*l = append(*l, namedPos{name: name, pos: pos})
}

func (l located) names() []string {
	sort.SliceStable(l, func(i, j int) bool { return l[i].pos < l[j].pos })
	var out []string
	seen := make(map[string]bool)
	for _, e := range l {
		if !seen[e.name] {
			seen[e.name] = true
			out = append(out, e.name)
		}
	}
	return out
}

type treeWalker struct {
	tables    located
	functions located
	ctes      []string
	writes    bool
}

// walk visits node with the set of CTE names visible at that point.
func (w *treeWalker) walk(node any, scope map[string]bool) {
	switch n := node.(type) {
	case []any:
		for _, item := range n {
			w.walk(item, scope)
		}
	case map[string]any:
		w.walkObject(n, scope)
	}
}

func (w *treeWalker) walkObject(n map[string]any, scope map[string]bool) {
	if rv, ok := n["RangeVar"].(map[string]any); ok {
		name, _ := rv["relname"].(string)
		schema, _ := rv["schemaname"].(string)
		if name != "" && (schema != "" || !scope[name]) {
			pos, _ := rv["location"].(float64)
			w.tables.add(name, pos)
		}
		return
	}

	if fc, ok := n["FuncCall"].(map[string]any); ok {
		if name := lastName(fc["funcname"]); name != "" {
			pos, _ := fc["location"].(float64)
			w.functions.add(strings.ToLower(name), pos)
		}
	}

	for key := range n {
		if writeNodes[key] {
			w.writes = true
		}
	}
	// set operation arms are bare SelectStmt bodies, so the clauses are
	// checked on every object
	if n["intoClause"] != nil || n["lockingClause"] != nil {
		w.writes = true
	}

	if with, ok := n["withClause"].(map[string]any); ok {
		scope = w.walkWith(with, scope)
	}
	for key, child := range n {
		if key == "withClause" {
			continue
		}
		w.walk(child, scope)
	}
}

// walkWith visits the CTE bodies and returns the scope seen by the statement
// that owns the WITH clause. A non-recursive CTE body sees only the CTEs
// defined before it.
func (w *treeWalker) walkWith(with map[string]any, outer map[string]bool) map[string]bool {
	scope := make(map[string]bool, len(outer))
	for name := range outer {
		scope[name] = true
	}

	recursive, _ := with["recursive"].(bool)
	ctes, _ := with["ctes"].([]any)

	var defs []map[string]any
	for _, item := range ctes {
		wrapper, _ := item.(map[string]any)
		cte, ok := wrapper["CommonTableExpr"].(map[string]any)
		if !ok {
			continue
		}
		name, _ := cte["ctename"].(string)
		if name == "" {
			continue
		}
		w.ctes = append(w.ctes, name)
		defs = append(defs, cte)
		if recursive {
			scope[name] = true
		}
	}

	for _, cte := range defs {
		name, _ := cte["ctename"].(string)
		visible := make(map[string]bool, len(scope))
		for n := range scope {
			visible[n] = true
		}
		w.walk(cte["ctequery"], visible)
		scope[name] = true
	}
	return scope
}

// lastName returns the final element of a qualified name list such as
// [{"String":{"sval":"pg_catalog"}},{"String":{"sval":"set_config"}}].
func lastName(list any) string {
	items, _ := list.([]any)
	if len(items) == 0 {
		return ""
	}
	wrapper, _ := items[len(items)-1].(map[string]any)
	str, _ := wrapper["String"].(map[string]any)
	if v, ok := str["sval"].(string); ok {
		return v
	}
	v, _ := str["str"].(string)
	return v
}
