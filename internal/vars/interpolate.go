package vars

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholder = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// Fallback supplies values for names the store does not hold, usually
// configuration properties.
type Fallback interface {
	Lookup(name string) (string, bool)
}

// UnresolvedVariableError reports a placeholder that matched neither the store nor the fallback
type UnresolvedVariableError struct {
	Name     string
	Template string
}

func (e *UnresolvedVariableError) Error() string {
	return fmt.Sprintf("unresolved variable {%s} in %q", e.Name, e.Template)
}

// Interpolator expands {name} placeholders. Store values take precedence over
// Fallback. A stored nil counts as absent.
type Interpolator struct {
	Store    *Store
	Fallback Fallback
}

// Interpolate returns template with every placeholder replaced by the string
// form of its value. Text that is not a placeholder is copied unchanged.
func (in *Interpolator) Interpolate(template string) (string, error) {
	matches := placeholder.FindAllStringSubmatchIndex(template, -1)
	if len(matches) == 0 {
		return template, nil
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		name := template[m[2]:m[3]]
		value, ok := in.resolve(name)
		if !ok {
			return "", &UnresolvedVariableError{Name: name, Template: template}
		}
		b.WriteString(template[last:m[0]])
		b.WriteString(value)
		last = m[1]
	}
	b.WriteString(template[last:])
	return b.String(), nil
}

func (in *Interpolator) resolve(name string) (string, bool) {
	if in.Store != nil {
		if v, ok := in.Store.Get(name); ok && v != nil {
			return fmt.Sprint(v), true
		}
	}
	if in.Fallback != nil {
		return in.Fallback.Lookup(name)
	}
	return "", false
}
