/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package console

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// splitArgs splits a command line on whitespace. Double-quoted sections form
// one argument and may contain \" and \\ escapes.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inQuote bool
		escaped bool
		started bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && inQuote:
			escaped = true
		case r == '"':
			inQuote = !inQuote
			started = true
		case unicode.IsSpace(r) && !inQuote:
			if started {
				args = append(args, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote")
	}
	if started {
		args = append(args, cur.String())
	}
	return args, nil
}

var dotCall = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\.([a-z]+)\((.*)\)$`)

// rewriteDotCall turns `<Class>.<verb>(<args>)` into `<verb> <Class> <args>`.
// A trailing JSON object argument to update is returned separately.
func rewriteDotCall(line string) (verb string, args []string, object string, ok bool) {
	m := dotCall.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", nil, "", false
	}
	class, verb, inner := m[1], m[2], strings.TrimSpace(m[3])

	args = []string{class}
	if i := strings.Index(inner, "{"); i >= 0 && strings.HasSuffix(inner, "}") {
		object = inner[i:]
		inner = strings.TrimRight(strings.TrimSpace(inner[:i]), ",")
	}
	for _, part := range strings.Split(inner, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		args = append(args, strings.Trim(part, `"'`))
	}
	return verb, args, object, true
}
