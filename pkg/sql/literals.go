package sql

// StringLiterals returns the contents of every string literal in the statement.
func StringLiterals(sqlQuery string) []string {
	var literals []string
	for _, tok := range Tokenize(sqlQuery) {
		if tok.Kind == TokenString {
			literals = append(literals, tok.Text)
		}
	}
	return literals
}
