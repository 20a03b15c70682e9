package services

import (
	"context"
	"strings"
	"sync"

	"github.com/bagucv/bagbot-engine/pkg/adapters/datasource"
	"github.com/bagucv/bagbot-engine/pkg/llm"
)

type fakeCatalog struct {
	tables     []datasource.Table
	columns    map[string][]datasource.Column
	tablesErr  error
	columnsErr error
}

func (f *fakeCatalog) ListTables(ctx context.Context) ([]datasource.Table, error) {
	if f.tablesErr != nil {
		return nil, f.tablesErr
	}
	return f.tables, nil
}

func (f *fakeCatalog) ListColumns(ctx context.Context, table string) ([]datasource.Column, error) {
	if f.columnsErr != nil {
		return nil, f.columnsErr
	}
	return f.columns[table], nil
}

func libraryCatalog() *fakeCatalog {
	cols := func(names ...string) []datasource.Column {
		out := make([]datasource.Column, len(names))
		for i, n := range names {
			out[i] = datasource.Column{Name: n, DataType: "text", OrdinalPosition: i + 1}
		}
		return out
	}
	return &fakeCatalog{
		tables: []datasource.Table{
			{Schema: "public", Name: "recursos_colec_docs"},
			{Schema: "public", Name: "recursos_libros"},
			{Schema: "public", Name: "recursos_tesis"},
		},
		columns: map[string][]datasource.Column{
			"recursos_libros":     cols("id", "titulo", "autor", "editorial", "anio"),
			"recursos_tesis":      cols("id", "titulo", "autor", "tutor"),
			"recursos_colec_docs": cols("id", "titulo", "coleccion"),
		},
	}
}

type fakeRunner struct {
	mu      sync.Mutex
	result  *datasource.QueryResult
	err     error
	queries []string
	maxRows []int
}

func (f *fakeRunner) Run(ctx context.Context, sqlQuery string, maxRows int) (*datasource.QueryResult, error) {
	f.mu.Lock()
	f.queries = append(f.queries, sqlQuery)
	f.maxRows = append(f.maxRows, maxRows)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.result == nil {
		return &datasource.QueryResult{Rows: []map[string]any{}}, nil
	}
	return f.result, nil
}

// scriptedLLM answers SQL generation prompts with sqlReply and every other
// prompt with answerReply.
func scriptedLLM(sqlReply string, sqlErr error, answerReply string, answerErr error) *llm.MockLLMClient {
	mock := llm.NewMockLLMClient()
	mock.CompleteFunc = func(ctx context.Context, messages []llm.Message, temperature float64) (string, error) {
		if isSQLPrompt(messages) {
			return sqlReply, sqlErr
		}
		return answerReply, answerErr
	}
	return mock
}

func isSQLPrompt(messages []llm.Message) bool {
	return len(messages) > 0 && strings.Contains(messages[0].Content, "<schema>")
}
