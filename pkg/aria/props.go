package aria

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// PropertyType is the value type of an ARIA state or property.
type PropertyType string

const (
	TypeString    PropertyType = "string"
	TypeID        PropertyType = "id"
	TypeIDList    PropertyType = "idlist"
	TypeInteger   PropertyType = "integer"
	TypeNumber    PropertyType = "number"
	TypeBoolean   PropertyType = "boolean"
	TypeTristate  PropertyType = "tristate"
	TypeToken     PropertyType = "token"
	TypeTokenList PropertyType = "tokenlist"
)

// ErrInvalidValue is wrapped by every PropertyDefinition.Validate failure.
var ErrInvalidValue = errors.New("invalid ARIA property value")

// PropertyDefinition describes the value space of one ARIA state or property.
type PropertyDefinition struct {
	Name           string       `yaml:"name" json:"name"`
	Type           PropertyType `yaml:"type" json:"type"`
	Values         []string     `yaml:"values,omitempty" json:"values,omitempty"`
	AllowUndefined bool         `yaml:"allowUndefined,omitempty" json:"allow_undefined,omitempty"`
}

var props = sync.OnceValue(func() map[string]PropertyDefinition {
	list := decodeTable[[]PropertyDefinition]("aria_props.yaml")
	out := make(map[string]PropertyDefinition, len(list))
	for _, p := range list {
		out[p.Name] = p
	}
	return out
})

// LookupProp returns the definition of an ARIA state or property.
func LookupProp(name string) (PropertyDefinition, bool) {
	p, ok := props()[name]
	if !ok {
		return PropertyDefinition{}, false
	}
	p.Values = slices.Clone(p.Values)
	return p, true
}

// PropNames returns every known state and property name, sorted.
func PropNames() []string {
	names := make([]string, 0, len(props()))
	for name := range props() {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Validate checks an attribute value against the property's value type.
func (p PropertyDefinition) Validate(value string) error {
	v := strings.TrimSpace(value)
	if p.AllowUndefined && v == "undefined" {
		return nil
	}

	ok := true
	switch p.Type {
	case TypeBoolean:
		ok = v == "true" || v == "false"
	case TypeTristate:
		ok = v == "true" || v == "false" || v == "mixed"
	case TypeInteger:
		_, err := strconv.Atoi(v)
		ok = err == nil
	case TypeNumber:
		_, err := strconv.ParseFloat(v, 64)
		ok = err == nil
	case TypeToken:
		ok = slices.Contains(p.Values, v)
	case TypeTokenList:
		tokens := strings.Fields(v)
		ok = len(tokens) > 0
		for _, t := range tokens {
			if !slices.Contains(p.Values, t) {
				ok = false
				break
			}
		}
	case TypeID:
		ok = v != "" && !strings.ContainsAny(v, " \t\n\f\r")
	case TypeIDList:
		ok = v != ""
	}

	if !ok {
		return fmt.Errorf("%w: %s=%q is not a valid %s", ErrInvalidValue, p.Name, value, p.Type)
	}
	return nil
}
