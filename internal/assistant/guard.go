package assistant

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	stringLiteral = regexp.MustCompile(`'(?:[^'\\]|\\.)*'|"(?:[^"\\]|\\.)*"`)
	writeClause   = regexp.MustCompile(`(?i)\b(CREATE|MERGE|DELETE|DETACH|SET|REMOVE|DROP|FOREACH|LOAD\s+CSV)\b|\bCALL\s+(dbms|db\.create|apoc\.(create|merge|refactor|periodic))`)
)

// rejectWrites fails for queries containing a write clause outside string literals.
func rejectWrites(cypher string) error {
	bare := stringLiteral.ReplaceAllString(cypher, "''")
	if m := writeClause.FindString(bare); m != "" {
		return fmt.Errorf("query contains write clause %q", strings.ToUpper(m))
	}
	return nil
}

// castNumeric wraps every var.field reference to a configured numeric field in
// toFloat(...). References already wrapped or inside string literals are left alone.
// Returns false when nothing changed.
func castNumeric(cypher string, fields []string) (string, bool) {
	if len(fields) == 0 {
		return cypher, false
	}
	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		quoted = append(quoted, regexp.QuoteMeta(f))
	}
	re := regexp.MustCompile(`(toFloat\(\s*)?\b([A-Za-z_][A-Za-z0-9_]*\.(?:` + strings.Join(quoted, "|") + `))\b`)

	changed := false
	rewrite := func(m string) string {
		if strings.HasPrefix(m, "toFloat(") {
			return m
		}
		changed = true
		return "toFloat(" + m + ")"
	}

	var sb strings.Builder
	last := 0
	for _, lit := range stringLiteral.FindAllStringIndex(cypher, -1) {
		sb.WriteString(re.ReplaceAllStringFunc(cypher[last:lit[0]], rewrite))
		sb.WriteString(cypher[lit[0]:lit[1]])
		last = lit[1]
	}
	sb.WriteString(re.ReplaceAllStringFunc(cypher[last:], rewrite))
	return sb.String(), changed
}
