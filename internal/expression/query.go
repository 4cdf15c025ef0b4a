package expression

import (
	"errors"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"trace-mapper/internal/ordered"
)

// subscriptPattern matches JSONPath subscripts: [0], ['name'] and ["name"].
var subscriptPattern = regexp.MustCompile(`\[\s*(\d+|'[^']*'|"[^"]*")\s*\]`)

// normalizePath turns a token body into a gjson path. JSONPath-style roots
// ("$", "$.a.b") and subscripts ("a[0]", "a['b']") are accepted; an empty
// path selects the whole event. Recursive descent has no gjson equivalent
// and is rejected.
func normalizePath(p string) (string, error) {
	p = strings.TrimSpace(p)
	p = strings.TrimPrefix(p, "$")

	if strings.Contains(p, "..") {
		return "", errors.New("recursive descent (..) is not supported")
	}

	p = subscriptPattern.ReplaceAllStringFunc(p, func(m string) string {
		inner := subscriptPattern.FindStringSubmatch(m)[1]
		if inner[0] == '\'' || inner[0] == '"' {
			return "." + escapeKey(inner[1:len(inner)-1])
		}

		return "." + inner
	})
	p = strings.TrimPrefix(p, ".")

	if p == "" {
		return "@this", nil
	}

	return p, nil
}

// escapeKey escapes the characters gjson treats as path syntax.
func escapeKey(k string) string {
	var b strings.Builder

	for _, r := range k {
		if strings.ContainsRune(`.*?|#@\`, r) {
			b.WriteByte('\\')
		}

		b.WriteRune(r)
	}

	return b.String()
}

// isMultiMatch reports whether a gjson path iterates an array and therefore
// produces a list of matches rather than a single value.
func isMultiMatch(p string) bool {
	return strings.Contains(p, "#.") || strings.Contains(p, ")#")
}

// query runs a normalized path against a JSON document. A path that matches
// once yields the matched value; a path that matches zero or several times
// yields the ordered list of matches. Matched values keep their JSON form:
// numbers are json.Number and objects are ordered.Object.
func query(source []byte, p string) any {
	res := gjson.GetBytes(source, p)

	var matches []any

	switch {
	case !res.Exists():
		matches = []any{}
	case isMultiMatch(p):
		for _, m := range res.Array() {
			matches = append(matches, value(m))
		}
	default:
		matches = []any{value(res)}
	}

	if len(matches) == 1 {
		return matches[0]
	}

	if matches == nil {
		matches = []any{}
	}

	return matches
}

// value decodes a match from its raw JSON text. Results without raw text
// (computed by modifiers) fall back to gjson's own conversion.
func value(res gjson.Result) any {
	if res.Raw == "" {
		return res.Value()
	}

	v, err := ordered.DecodeJSON([]byte(res.Raw))
	if err != nil {
		return res.Value()
	}

	return v
}
