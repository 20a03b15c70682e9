package sql

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenKind classifies a lexical token of a SQL statement.
type TokenKind int

const (
	TokenWord       TokenKind = iota // keyword or bare identifier
	TokenQuotedName                  // "double quoted" identifier
	TokenString                      // 'single quoted' or $$dollar quoted$$ literal
	TokenNumber
	TokenPunct // ( ) , . ; and any other single symbol
)

// Token is one lexical unit. For quoted names and strings Text holds the
// unquoted content.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
}

// Is reports whether the token is the given keyword, case-insensitively.
func (t Token) Is(keyword string) bool {
	return t.Kind == TokenWord && strings.EqualFold(t.Text, keyword)
}

// IsPunct reports whether the token is the given symbol.
func (t Token) IsPunct(symbol string) bool {
	return t.Kind == TokenPunct && t.Text == symbol
}

// Tokenize splits a SQL statement into tokens. Whitespace and comments are
// dropped. Unterminated literals and comments run to the end of the input.
func Tokenize(sqlQuery string) []Token {
	s := &scanner{src: sqlQuery}
	var tokens []Token
	for {
		tok, ok := s.next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

type scanner struct {
	src string
	pos int
}

func (s *scanner) peek(offset int) byte {
	if s.pos+offset >= len(s.src) {
		return 0
	}
	return s.src[s.pos+offset]
}

func (s *scanner) next() (Token, bool) {
	for s.pos < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		start := s.pos

		switch {
		case unicode.IsSpace(r):
			s.pos += size

		case r == '-' && s.peek(1) == '-':
			s.skipLineComment()

		case r == '/' && s.peek(1) == '*':
			s.skipBlockComment()

		case r == '\'':
			return Token{Kind: TokenString, Text: s.quoted('\'', false), Pos: start}, true

		case (r == 'E' || r == 'e') && s.peek(1) == '\'':
			// escape string constant
			s.pos++
			return Token{Kind: TokenString, Text: s.quoted('\'', true), Pos: start}, true

		case r == '"':
			return Token{Kind: TokenQuotedName, Text: s.quoted('"', false), Pos: start}, true

		case r == '$':
			if tag, ok := s.dollarTag(); ok {
				return Token{Kind: TokenString, Text: s.dollarQuoted(tag), Pos: start}, true
			}
			s.pos += size
			return Token{Kind: TokenPunct, Text: "$", Pos: start}, true

		case r == '_' || unicode.IsLetter(r):
			return Token{Kind: TokenWord, Text: s.word(), Pos: start}, true

		case r >= '0' && r <= '9':
			return Token{Kind: TokenNumber, Text: s.number(), Pos: start}, true

		default:
			s.pos += size
			return Token{Kind: TokenPunct, Text: string(r), Pos: start}, true
		}
	}
	return Token{}, false
}

func (s *scanner) skipLineComment() {
	end := strings.IndexByte(s.src[s.pos:], '\n')
	if end < 0 {
		s.pos = len(s.src)
		return
	}
	s.pos += end + 1
}

func (s *scanner) skipBlockComment() {
	end := strings.Index(s.src[s.pos+2:], "*/")
	if end < 0 {
		s.pos = len(s.src)
		return
	}
	s.pos += 2 + end + 2
}

// quoted consumes a literal delimited by quote. A doubled quote is an escaped
// quote. Backslash escapes the next byte only when backslash is true, which
// holds for E'...' constants; ordinary literals follow standard_conforming_strings.
func (s *scanner) quoted(quote byte, backslash bool) string {
	var b strings.Builder
	s.pos++ // opening quote
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case backslash && c == '\\' && s.pos+1 < len(s.src):
			b.WriteByte(s.src[s.pos+1])
			s.pos += 2
		case c == quote && s.peek(1) == quote:
			b.WriteByte(quote)
			s.pos += 2
		case c == quote:
			s.pos++
			return b.String()
		default:
			b.WriteByte(c)
			s.pos++
		}
	}
	return b.String()
}

// dollarTag recognizes $$ or $tag$ at the current position.
func (s *scanner) dollarTag() (string, bool) {
	rest := s.src[s.pos+1:]
	end := strings.IndexByte(rest, '$')
	if end < 0 {
		return "", false
	}
	tag := rest[:end]
	for i, r := range tag {
		if !(r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r))) {
			return "", false
		}
	}
	return "$" + tag + "$", true
}

func (s *scanner) dollarQuoted(tag string) string {
	s.pos += len(tag)
	end := strings.Index(s.src[s.pos:], tag)
	if end < 0 {
		body := s.src[s.pos:]
		s.pos = len(s.src)
		return body
	}
	body := s.src[s.pos : s.pos+end]
	s.pos += end + len(tag)
	return body
}

func (s *scanner) word() string {
	start := s.pos
	for s.pos < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		if r != '_' && r != '$' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		s.pos += size
	}
	return s.src[start:s.pos]
}

func (s *scanner) number() string {
	start := s.pos
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == 'e' || c == 'E' {
			s.pos++
			continue
		}
		break
	}
	return s.src[start:s.pos]
}
