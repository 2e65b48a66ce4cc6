package fragment

// Generator is a value computed by a script with no inputs.
type Generator struct {
	name     Name
	script   string
	value    string
	resolved bool
}

// NewGenerator returns an unresolved generator fragment.
func NewGenerator(name Name, script string) *Generator {
	return &Generator{name: name, script: script}
}

func (*Generator) fragment() {}

func (g *Generator) Name() Name     { return g.name }
func (g *Generator) Kind() Kind     { return KindGenerator }
func (g *Generator) Resolved() bool { return g.resolved }

// Script returns the generating script.
func (g *Generator) Script() string { return g.script }

func (g *Generator) String() string {
	if !g.resolved {
		return ""
	}

	return g.value
}

func (g *Generator) resolve(value string) {
	g.value, g.resolved = value, true
}
