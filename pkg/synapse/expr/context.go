package expr

// Context holds the variables an expression evaluates against. A Context is
// not safe for concurrent mutation; give each concurrent evaluation its own.
type Context struct {
	variables map[string]any
}

// NewContext creates an empty evaluation context
func NewContext() *Context {
	return &Context{
		variables: make(map[string]any),
	}
}

// SetVariable defines or replaces a variable and returns the context for chaining
func (c *Context) SetVariable(name string, value any) *Context {
	c.variables[name] = value
	return c
}

// Variable looks up a variable by name
func (c *Context) Variable(name string) (any, bool) {
	v, ok := c.variables[name]
	return v, ok
}

// VariableNames returns the names of all defined variables
func (c *Context) VariableNames() []string {
	names := make([]string, 0, len(c.variables))
	for name := range c.variables {
		names = append(names, name)
	}
	return names
}
