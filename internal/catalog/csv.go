package catalog

import (
	"errors"
	"strings"
)

// ErrMalformedInput reports a catalog block whose header row is missing or
// empty. It is the only fatal condition at this stage; bad individual rows
// degrade to defaults instead.
var ErrMalformedInput = errors.New("malformed catalog input: missing or empty header row")

// parseTable splits a delimited text block into a header and data rows.
// Rows that are entirely blank are skipped. Zero data rows is valid.
func parseTable(text string) ([]string, [][]string, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var header []string
	var rows [][]string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitLine(line)
		if header == nil {
			header = fields
			continue
		}
		rows = append(rows, fields)
	}

	if len(header) == 0 || (len(header) == 1 && strings.TrimSpace(header[0]) == "") {
		return nil, nil, ErrMalformedInput
	}
	return header, rows, nil
}

// splitLine splits one line on commas with minimal quote handling: a double
// quote toggles quoted mode and a comma inside quotes is literal. There is
// no doubled-quote escape, matching the quoting the source feed actually
// emits rather than RFC 4180. Quote characters are kept in the field and
// stripped later by cleanValue.
func splitLine(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			cur.WriteRune(r)
		case r == ',' && !inQuotes:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, cur.String())
	return fields
}

// cleanValue trims a raw field and strips one layer of surrounding double
// quotes if present. The strip is deliberately independent of splitLine so
// values that arrive pre-quoted through other input paths come out the same.
func cleanValue(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}
