package schema

// Params holds validated, typed parameter values for one call. Absent
// optional fields without defaults are genuinely absent: Has distinguishes
// "not specified" from a zero value.
type Params struct {
	values map[string]any
}

// Has reports whether a value is present for name.
func (p Params) Has(name string) bool {
	_, ok := p.values[name]
	return ok
}

// String returns the string value for name, or "" when absent.
func (p Params) String(name string) string {
	s, _ := p.values[name].(string)
	return s
}

// Bool returns the boolean value for name, or false when absent.
func (p Params) Bool(name string) bool {
	b, _ := p.values[name].(bool)
	return b
}

// Int returns the integer value for name, or 0 when absent.
func (p Params) Int(name string) int {
	n, _ := p.values[name].(int)
	return n
}

// StringList returns the string-list value for name, or nil when absent.
func (p Params) StringList(name string) []string {
	list, _ := p.values[name].([]string)
	return list
}
