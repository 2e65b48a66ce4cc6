package fragment

import "strings"

// List is delimited raw text, optionally reshaped by a transform script.
type List struct {
	name      Name
	raw       string
	separator string
	script    string
	value     string
	resolved  bool
}

// NewList returns a list fragment. An empty script means no transform, in
// which case the list is born resolved and its value is raw unchanged.
func NewList(name Name, raw, separator, script string) *List {
	l := &List{name: name, raw: raw, separator: separator, script: script}

	if script == "" {
		l.value, l.resolved = raw, true
	}

	return l
}

func (*List) fragment() {}

func (l *List) Name() Name     { return l.name }
func (l *List) Kind() Kind     { return KindList }
func (l *List) Resolved() bool { return l.resolved }

// Raw returns the undivided source text.
func (l *List) Raw() string { return l.raw }

// Separator returns the element delimiter.
func (l *List) Separator() string { return l.separator }

// Script returns the transform script, or "" if there is none.
func (l *List) Script() string { return l.script }

// Elements splits the raw text on the separator and drops empty elements.
// An empty separator yields the raw text as a single element.
func (l *List) Elements() []string {
	var parts []string
	if l.separator == "" {
		parts = []string{l.raw}
	} else {
		parts = strings.Split(l.raw, l.separator)
	}

	elems := make([]string, 0, len(parts))

	for _, p := range parts {
		if p != "" {
			elems = append(elems, p)
		}
	}

	return elems
}

func (l *List) String() string {
	if !l.resolved {
		return ""
	}

	return l.value
}

func (l *List) resolve(value string) {
	l.value, l.resolved = value, true
}
