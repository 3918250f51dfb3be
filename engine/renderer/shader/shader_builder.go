package shader

import "github.com/cogentcore/webgpu/wgpu"

// ShaderBuilderOption is a functional option applied to a shader during construction via NewShader.
type ShaderBuilderOption func(*shader)

// WithIncludes registers WGSL snippets that the source can pull in by name.
// A later include with the same name replaces an earlier one.
//
// Parameters:
//   - includes: the named snippets
//
// Returns:
//   - ShaderBuilderOption: a function that registers the includes on a shader
func WithIncludes(includes ...Include) ShaderBuilderOption {
	return func(s *shader) {
		for _, inc := range includes {
			s.includes[inc.Name] = inc.Source
		}
	}
}

// WithVisibility overrides the stage visibility stamped on every reflected binding.
// The default is vertex | fragment.
//
// Parameters:
//   - visibility: the shader stages
//
// Returns:
//   - ShaderBuilderOption: a function that sets the visibility on a shader
func WithVisibility(visibility wgpu.ShaderStage) ShaderBuilderOption {
	return func(s *shader) {
		s.visibility = visibility
	}
}
