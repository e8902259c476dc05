package core

import (
	"regexp"
	"strings"
)

// placeholder matches ${NAME} and ${prop:KEY}.
var placeholder = regexp.MustCompile(`\$\{(prop:)?([A-Za-z0-9_.\-]+)\}`)

const propPrefix = "prop:"

// Lookup resolves a placeholder name.
type Lookup func(name string) string

// Expand replaces ${NAME} with env(NAME) and ${prop:KEY} with prop(KEY).
// Anything else, including bare $NAME, is left for the shell.
func Expand(s string, env, prop Lookup) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return placeholder.ReplaceAllStringFunc(s, func(m string) string {
		name := m[2 : len(m)-1]
		if key, ok := strings.CutPrefix(name, propPrefix); ok {
			return prop(key)
		}
		return env(name)
	})
}
