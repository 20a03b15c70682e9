package services

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/bagucv/bagbot-engine/pkg/llm"
	"github.com/bagucv/bagbot-engine/pkg/models"
)

// sqlQueryPattern finds a quoted value after "sql_query": even when the
// surrounding reply is not valid JSON. The value may span lines and contain
// backslash-escaped characters.
var sqlQueryPattern = regexp.MustCompile(`(?s)"sql_query"\s*:\s*"((?:[^"\\]|\\.)*)"`)

var newlinePattern = regexp.MustCompile(`\r\n|\r|\n|\\r\\n|\\n`)

// patternUnescaper decodes the escapes of a value recovered by pattern in one
// left to right pass, so an escaped backslash never starts another escape.
// Newlines, raw or escaped, become single spaces.
var patternUnescaper = strings.NewReplacer(
	`\\`, `\`,
	`\"`, `"`,
	`\'`, `'`,
	`\r\n`, " ",
	`\n`, " ",
	`\r`, " ",
	"\r\n", " ",
	"\r", " ",
	"\n", " ",
)

type sqlReply struct {
	SQLQuery string `json:"sql_query"`
}

// SQLExtractor recovers the candidate SQL from a model reply.
type SQLExtractor struct {
	logger *zap.Logger
}

// NewSQLExtractor creates an extractor. If logger is nil, a no-op logger is used.
func NewSQLExtractor(logger *zap.Logger) *SQLExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLExtractor{logger: logger.Named("extractor")}
}

// Extract returns the sql_query value of raw. A strict JSON decode is tried
// first; when the reply is not JSON the value is recovered by pattern. Newlines
// inside the value collapse to single spaces. The bool is false when no
// non-empty value was found.
func (e *SQLExtractor) Extract(raw string) (models.SQLCandidate, bool) {
	if reply, err := llm.ParseJSONResponse[sqlReply](raw); err == nil {
		if text := collapseNewlines(reply.SQLQuery); text != "" {
			return models.SQLCandidate{RawText: text}, true
		}
	}

	match := sqlQueryPattern.FindStringSubmatch(raw)
	if match == nil {
		e.logger.Debug("No sql_query in reply", zap.Int("reply_length", len(raw)))
		return models.SQLCandidate{}, false
	}

	text := strings.TrimSpace(patternUnescaper.Replace(match[1]))
	if text == "" {
		return models.SQLCandidate{}, false
	}

	e.logger.Debug("Recovered sql_query by pattern")
	return models.SQLCandidate{RawText: text}, true
}

func collapseNewlines(s string) string {
	return strings.TrimSpace(newlinePattern.ReplaceAllString(s, " "))
}
