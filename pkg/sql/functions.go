package sql

import "strings"

// forbiddenFunctions execute SQL passed as text or act outside the query itself.
var forbiddenFunctions = map[string]bool{
	"query_to_xml":               true,
	"query_to_xmlschema":         true,
	"query_to_xml_and_xmlschema": true,
	"cursor_to_xml":              true,
	"cursor_to_xmlschema":        true,
	"set_config":                 true,
	"current_setting":            true,
	"pg_sleep":                   true,
	"pg_sleep_for":               true,
	"pg_sleep_until":             true,
	"pg_terminate_backend":       true,
	"pg_cancel_backend":          true,
	"pg_reload_conf":             true,
	"pg_rotate_logfile":          true,
	"pg_stat_file":               true,
	"pg_notify":                  true,
	"pg_switch_wal":              true,
	"pg_create_restore_point":    true,
	"pg_export_snapshot":         true,
	"pg_logdir_ls":               true,
	"nextval":                    true,
	"setval":                     true,
}

// forbiddenPrefixes cover function families.
var forbiddenPrefixes = []string{
	"dblink",
	"table_to_xml",
	"schema_to_xml",
	"database_to_xml",
	"pg_read_",
	"pg_ls_",
	"pg_file_",
	"pg_advisory_",
	"pg_try_advisory_",
	"lo_",
}

// IsForbiddenFunction reports whether a generated query may not call name.
// name is unqualified; comparison is case-insensitive.
func IsForbiddenFunction(name string) bool {
	name = strings.ToLower(name)
	if forbiddenFunctions[name] {
		return true
	}
	for _, prefix := range forbiddenPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
