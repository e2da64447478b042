package inject

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Status is a diagnostic tool that returns a string describing the state of
// the client's registry: each type that is known about, whether it has a
// direct value, and the callback capable of producing it.
//
// Note that while everything that is returned is true, interface lookups
// that match a registered concrete type by assignability are not listed
// under the interface type.
func (c *Client) Status() string {
	lineVals := map[string]string{}
	var lineKeys []string

	for key, value := range c.typeDeps {
		keyString := fmt.Sprintf("%v", key)
		lineVals[keyString] = fmt.Sprintf("%v - direct value set (%T)", key, value)
		lineKeys = append(lineKeys, keyString)
	}

	for key, cb := range c.providers {
		keyString := fmt.Sprintf("%v", key)
		line := fmt.Sprintf("%v - callback: %s [%s]", key, formatCallbackDebug(cb.fn), cb.id)
		if _, ok := c.overrides[cb]; ok {
			line += " (overridden)"
		}
		if existing, ok := lineVals[keyString]; ok {
			lineVals[keyString] = existing + "; " + line
		} else {
			lineVals[keyString] = line
			lineKeys = append(lineKeys, keyString)
		}
	}

	sort.Strings(lineKeys)

	result := strings.Builder{}
	for _, lineKey := range lineKeys {
		if result.Len() > 0 {
			result.WriteString("\n")
		}
		result.WriteString(lineVals[lineKey])
	}

	return result.String()
}

// formatCallbackDebug simply returns a string representation of a callback
// function. This is used instead of the native `%#v` formatter to not
// return the raw address of the function as that's not important for this
// and simplifies testing.
func formatCallbackDebug(fn any) string {
	if fn == nil {
		return "-"
	}
	fnType := reflect.TypeOf(fn)
	if fnType.Kind() != reflect.Func {
		// We should never get here
		return "non-function!"
	}
	builder := strings.Builder{}
	builder.WriteString("(")
	for i := 0; i < fnType.NumIn(); i++ {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(fnType.In(i).String())
	}
	builder.WriteString(") ")
	for i := 0; i < fnType.NumOut(); i++ {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(fnType.Out(i).String())
	}
	return builder.String()
}
