package page

import (
	"fmt"
	"strings"
)

// ConfigurationError reports a malformed page definition. It is never retried.
type ConfigurationError struct {
	Page   string
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("page %q: %s", e.Page, e.Reason)
	}
	return fmt.Sprintf("page %q: field %q: %s", e.Page, e.Field, e.Reason)
}

// NotReadyError names the elements that failed to appear in time
type NotReadyError struct {
	Page     string
	Elements []string
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("page %q not ready: %s did not appear", e.Page, strings.Join(e.Elements, ", "))
}

// UnknownElementError is returned when a scenario asks for a name the page does not declare
type UnknownElementError struct {
	Page string
	Name string
}

func (e *UnknownElementError) Error() string {
	return fmt.Sprintf("page %q has no element named %q", e.Page, e.Name)
}
