package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLExtractor_Extract(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  string
		found bool
	}{
		{
			name:  "strict json",
			raw:   `{"sql_query": "SELECT * FROM recursos_libros LIMIT 15"}`,
			want:  "SELECT * FROM recursos_libros LIMIT 15",
			found: true,
		},
		{
			name:  "json inside prose and fence",
			raw:   "Aquí está la consulta:\n```json\n{\"sql_query\": \"SELECT titulo FROM recursos_tesis\"}\n```",
			want:  "SELECT titulo FROM recursos_tesis",
			found: true,
		},
		{
			name:  "strict json with escaped newline",
			raw:   `{"sql_query": "SELECT *\nFROM recursos_libros"}`,
			want:  "SELECT * FROM recursos_libros",
			found: true,
		},
		{
			name:  "invalid json falls back to pattern",
			raw:   "{\"sql_query\": \"SELECT * FROM recursos_libros\nWHERE autor LIKE '%Lopez%'\",}",
			want:  "SELECT * FROM recursos_libros WHERE autor LIKE '%Lopez%'",
			found: true,
		},
		{
			name:  "pattern unescapes quotes",
			raw:   `respuesta: "sql_query": "SELECT \"titulo\" FROM recursos_libros WHERE autor = \'Lopez\'" fin`,
			want:  `SELECT "titulo" FROM recursos_libros WHERE autor = 'Lopez'`,
			found: true,
		},
		{
			name:  "pattern unescapes backslashes once",
			raw:   `nota: "sql_query": "SELECT * FROM recursos_libros WHERE ruta = 'a\\b' OR ruta = 'c\\n'" fin`,
			want:  `SELECT * FROM recursos_libros WHERE ruta = 'a\b' OR ruta = 'c\n'`,
			found: true,
		},
		{
			name:  "prose without json",
			raw:   "Lo siento, no puedo ayudarte con esa consulta.",
			found: false,
		},
		{
			name:  "empty value",
			raw:   `{"sql_query": "   "}`,
			found: false,
		},
		{
			name:  "empty reply",
			raw:   "",
			found: false,
		},
	}

	e := NewSQLExtractor(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := e.Extract(tt.raw)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got.RawText)
		})
	}
}

func TestSQLExtractor_Extract_RoundTrip(t *testing.T) {
	queries := []string{
		"SELECT * FROM recursos_libros WHERE UPPER(UNACCENT(autor)) LIKE UPPER(UNACCENT('%Lopez%')) LIMIT 15",
		"SELECT titulo, anio FROM recursos_tesis WHERE anio > 2010",
		`SELECT "titulo" FROM recursos_colec_docs`,
		`SELECT titulo FROM recursos_colec_docs WHERE ruta LIKE 'C:\temp\%'`,
	}

	escape := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	e := NewSQLExtractor(nil)
	for _, q := range queries {
		for _, raw := range []string{
			`{"sql_query": "` + escape.Replace(q) + `"}`,
			`{"sql_query": "` + escape.Replace(q) + `",}`,
		} {
			got, found := e.Extract(raw)
			require.True(t, found, raw)
			assert.Equal(t, q, got.RawText)
		}
	}
}
