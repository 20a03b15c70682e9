package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_Tables(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []string
	}{
		{
			name: "single table",
			sql:  "SELECT * FROM recursos_libros",
			want: []string{"recursos_libros"},
		},
		{
			name: "alias and join",
			sql:  "SELECT l.titulo FROM recursos_libros l JOIN recursos_tesis AS t ON l.autor = t.autor",
			want: []string{"recursos_libros", "recursos_tesis"},
		},
		{
			name: "left outer join",
			sql:  "SELECT * FROM recursos_libros LEFT OUTER JOIN recursos_tesis USING (autor)",
			want: []string{"recursos_libros", "recursos_tesis"},
		},
		{
			name: "comma list",
			sql:  "SELECT * FROM recursos_libros a, recursos_tesis b WHERE a.autor = b.autor",
			want: []string{"recursos_libros", "recursos_tesis"},
		},
		{
			name: "schema qualified and uppercase",
			sql:  "SELECT * FROM public.RECURSOS_LIBROS",
			want: []string{"recursos_libros"},
		},
		{
			name: "quoted name keeps case",
			sql:  `SELECT * FROM "Recursos"`,
			want: []string{"Recursos"},
		},
		{
			name: "extract from is not a table",
			sql:  "SELECT EXTRACT(YEAR FROM fecha) FROM recursos_publicaciones_seriadas",
			want: []string{"recursos_publicaciones_seriadas"},
		},
		{
			name: "substring and trim from",
			sql:  "SELECT SUBSTRING(titulo FROM 1 FOR 5), TRIM(BOTH ' ' FROM autor) FROM recursos_tesis",
			want: []string{"recursos_tesis"},
		},
		{
			name: "subquery in from",
			sql:  "SELECT * FROM (SELECT titulo FROM recursos_colec_docs) sub",
			want: []string{"recursos_colec_docs"},
		},
		{
			name: "subquery in where",
			sql:  "SELECT * FROM recursos_libros WHERE autor IN (SELECT autor FROM recursos_tesis)",
			want: []string{"recursos_libros", "recursos_tesis"},
		},
		{
			name: "union deduplicates",
			sql:  "SELECT titulo FROM recursos_libros UNION SELECT titulo FROM recursos_libros",
			want: []string{"recursos_libros"},
		},
		{
			name: "cte reference resolves",
			sql:  "WITH recientes AS (SELECT * FROM recursos_libros WHERE anio > 2020) SELECT * FROM recientes",
			want: []string{"recursos_libros"},
		},
		{
			name: "recursive cte references itself",
			sql:  "WITH RECURSIVE r AS (SELECT 1 UNION ALL SELECT 1 FROM r) SELECT * FROM r",
			want: nil,
		},
		{
			name: "set returning function",
			sql:  "SELECT * FROM generate_series(1, 3)",
			want: nil,
		},
		{
			name: "from inside literal",
			sql:  "SELECT 'from usuarios' FROM recursos_libros",
			want: []string{"recursos_libros"},
		},
		{
			name: "parenthesized join tree",
			sql:  "SELECT * FROM recursos_libros r, (recursos_tesis t JOIN pg_shadow s ON true)",
			want: []string{"recursos_libros", "recursos_tesis", "pg_shadow"},
		},
		{
			name: "comma after join condition",
			sql:  "SELECT * FROM recursos_libros a JOIN recursos_tesis b ON a.autor = b.autor, pg_shadow",
			want: []string{"recursos_libros", "recursos_tesis", "pg_shadow"},
		},
		{
			name: "comma after subquery",
			sql:  "SELECT * FROM (SELECT 1) x, pg_shadow",
			want: []string{"pg_shadow"},
		},
		{
			name: "backslash ends a standard literal",
			sql:  `SELECT titulo FROM recursos_libros WHERE autor = '\' UNION SELECT usename FROM pg_shadow --'`,
			want: []string{"recursos_libros", "pg_shadow"},
		},
		{
			name: "non recursive cte body sees the real table",
			sql:  "WITH pg_shadow AS (SELECT * FROM pg_shadow) SELECT * FROM pg_shadow",
			want: []string{"pg_shadow"},
		},
		{
			name: "cte out of scope",
			sql:  "SELECT * FROM (WITH s AS (SELECT * FROM recursos_libros) SELECT * FROM s) x, s",
			want: []string{"recursos_libros", "s"},
		},
		{
			name: "qualified name never resolves to a cte",
			sql:  "WITH pg_shadow AS (SELECT * FROM recursos_libros) SELECT * FROM pg_catalog.pg_shadow",
			want: []string{"recursos_libros", "pg_shadow"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Analyze(tt.sql)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.Tables)
		})
	}
}

func TestAnalyze_CTEs(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []string
	}{
		{"none", "SELECT * FROM recursos_libros", nil},
		{"single", "WITH a AS (SELECT 1) SELECT * FROM a", []string{"a"}},
		{"multiple with columns", "WITH a(x) AS (SELECT 1), b AS MATERIALIZED (SELECT 2) SELECT * FROM a, b", []string{"a", "b"}},
		{"recursive", "WITH RECURSIVE r AS (SELECT 1 UNION ALL SELECT 1 FROM r) SELECT * FROM r", []string{"r"}},
		{"nested", "SELECT * FROM (WITH inner_cte AS (SELECT 1) SELECT * FROM inner_cte) s", []string{"inner_cte"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Analyze(tt.sql)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.CTEs)
		})
	}
}

func TestAnalyze_ReadOnly(t *testing.T) {
	tests := []struct {
		name       string
		sql        string
		statements int
		readOnly   bool
	}{
		{"select", "SELECT * FROM recursos_libros", 1, true},
		{"read-only cte", "WITH t AS (SELECT * FROM recursos_libros) SELECT * FROM t", 1, true},
		{"values", "VALUES (1), (2)", 1, true},
		{"modifying cte", "WITH d AS (DELETE FROM recursos_libros RETURNING *) SELECT * FROM d", 1, false},
		{"select into", "SELECT * INTO copia FROM recursos_libros", 1, false},
		{"select for update", "SELECT * FROM recursos_libros FOR UPDATE", 1, false},
		{"locking in a union arm", "(SELECT * FROM recursos_libros FOR UPDATE) UNION SELECT * FROM recursos_tesis", 1, false},
		{"delete", "DELETE FROM recursos_libros", 1, false},
		{"explain", "EXPLAIN SELECT * FROM recursos_libros", 1, false},
		{"two selects", "SELECT 1; SELECT 2", 2, true},
		{"select then drop", "SELECT 1; DROP TABLE recursos_libros", 2, false},
		{
			"write hidden behind a backslash literal",
			`WITH d AS (SELECT 1 FROM recursos_libros WHERE titulo = '\'), e AS (DELETE FROM recursos_libros RETURNING 1) SELECT * FROM e --') SELECT * FROM recursos_libros`,
			1, false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Analyze(tt.sql)
			require.NoError(t, err)
			assert.Equal(t, tt.statements, a.Statements)
			assert.Equal(t, tt.readOnly, a.ReadOnly)
		})
	}
}

func TestAnalyze_Functions(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []string
	}{
		{"none", "SELECT titulo FROM recursos_libros", nil},
		{"aggregates and scalars", "SELECT count(*), LOWER(titulo) FROM recursos_libros", []string{"count", "lower"}},
		{"qualified", "SELECT pg_catalog.set_config('a', 'b', false) FROM recursos_libros", []string{"set_config"}},
		{"nested in argument", "SELECT upper(unaccent(autor)) FROM recursos_libros", []string{"upper", "unaccent"}},
		{"sql as text", "SELECT query_to_xml('select usename, passwd from pg_shadow', true, false, '') FROM recursos_libros", []string{"query_to_xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Analyze(tt.sql)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.Functions)
		})
	}
}

func TestAnalyze_SyntaxError(t *testing.T) {
	_, err := Analyze("SELEC * FROM recursos_libros")
	require.Error(t, err)
}

func TestIsForbiddenFunction(t *testing.T) {
	for _, name := range []string{"query_to_xml", "DBLINK", "dblink_exec", "pg_read_file", "pg_ls_dir", "lo_import", "set_config", "pg_sleep", "pg_advisory_lock", "nextval"} {
		assert.True(t, IsForbiddenFunction(name), name)
	}
	for _, name := range []string{"count", "lower", "upper", "unaccent", "coalesce", "extract", "generate_series"} {
		assert.False(t, IsForbiddenFunction(name), name)
	}
}
