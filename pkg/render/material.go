package render

// Material binds a shader to the properties it reads from the constant
// buffer.
type Material struct {
	Shader     *Shader
	Properties map[string]any
}

// NewMaterial creates a material drawn with shader.
func NewMaterial(shader *Shader) *Material {
	return &Material{Shader: shader, Properties: map[string]any{}}
}

// SetProperty sets a named property and returns m for chaining.
func (m *Material) SetProperty(name string, value any) *Material {
	m.Properties[name] = value
	return m
}
