package toolcall

import "strings"

// Tool arguments arrive as decoded JSON, so numbers are float64 and every
// lookup has to tolerate missing or mistyped values.

func argString(args map[string]interface{}, key string) (string, bool) {
	if args == nil {
		return "", false
	}
	v, ok := args[key].(string)
	return v, ok
}

func argStringOr(args map[string]interface{}, key, fallback string) string {
	if v, ok := argString(args, key); ok && v != "" {
		return v
	}
	return fallback
}

func argInt(args map[string]interface{}, key string, fallback int) int {
	if args == nil {
		return fallback
	}
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return fallback
}

func argBool(args map[string]interface{}, key string, fallback bool) bool {
	if args == nil {
		return fallback
	}
	if v, ok := args[key].(bool); ok {
		return v
	}
	return fallback
}

// queryHints qualify bare platform jargon so general-purpose engines land on
// the right ecosystem. Matched case-insensitively as substrings.
var queryHints = []struct {
	marker    string
	qualifier string
}{
	{"business rule", "servicenow"},
	{"script include", "servicenow"},
	{"client script", "servicenow"},
	{"ui policy", "servicenow"},
	{"glide record", "servicenow"},
	{"gliderecord", "servicenow"},
	{"catalog item", "servicenow"},
	{"flow designer", "servicenow"},
}

// solutionTerms mark troubleshooting queries that search better with an
// explicit "solution" qualifier.
var solutionTerms = []string{
	"error",
	"exception",
	"failed",
	"failing",
	"not working",
	"issue",
	"bug",
}

// rewriteQuery appends qualifier terms when the query matches a heuristic and
// does not already carry the qualifier. The original wording is never altered.
func rewriteQuery(query string) string {
	lower := strings.ToLower(query)
	out := query

	for _, hint := range queryHints {
		if strings.Contains(lower, hint.marker) && !strings.Contains(lower, hint.qualifier) {
			out += " " + hint.qualifier
			lower += " " + hint.qualifier
			break
		}
	}

	for _, term := range solutionTerms {
		if strings.Contains(lower, term) {
			if !strings.Contains(lower, "solution") {
				out += " solution"
			}
			break
		}
	}

	return out
}
