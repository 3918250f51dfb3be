package shader

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrMissingEntryPoint is returned when a shader module lacks a @vertex or @fragment function.
var ErrMissingEntryPoint = errors.New("shader: missing entry point")

// Include is a named WGSL snippet that shader sources pull in with an include directive.
type Include struct {
	// Name is the identifier referenced by the directive.
	Name string

	// Source is the WGSL text substituted in place of the directive.
	Source string
}

// shader is the implementation of the Shader interface.
type shader struct {
	key           string
	source        string
	vertexEntry   string
	fragmentEntry string
	groupLayouts  map[int]wgpu.BindGroupLayoutDescriptor
	bindingNames  map[int]map[int]string
	vertexLayouts []wgpu.VertexBufferLayout
	includes      map[string]string
	visibility    wgpu.ShaderStage
}

// Shader is a preprocessed WGSL module holding both the vertex and fragment stage, together with
// the resource layout reflected from its source.
type Shader interface {
	// Key retrieves the unique identifier of the shader.
	//
	// Returns:
	//   - string: the shader key
	Key() string

	// Source retrieves the WGSL source after include resolution.
	//
	// Returns:
	//   - string: the processed WGSL source
	Source() string

	// VertexEntryPoint retrieves the name of the @vertex function.
	//
	// Returns:
	//   - string: the entry point name
	VertexEntryPoint() string

	// FragmentEntryPoint retrieves the name of the @fragment function.
	//
	// Returns:
	//   - string: the entry point name
	FragmentEntryPoint() string

	// BindGroupLayoutDescriptor retrieves the reflected layout of a single bind group.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, entries sorted by binding
	//   - bool: false if the source declares nothing in that group
	BindGroupLayoutDescriptor(group int) (wgpu.BindGroupLayoutDescriptor, bool)

	// BindGroupLayoutDescriptors retrieves every reflected bind group layout keyed by group index.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: the descriptors
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// Groups lists the declared group indices in ascending order.
	//
	// Returns:
	//   - []int: the group indices
	Groups() []int

	// BindingName retrieves the WGSL variable name declared at a group and binding.
	//
	// Parameters:
	//   - group: the @group index
	//   - binding: the @binding index
	//
	// Returns:
	//   - string: the variable name, or an empty string if none is declared
	BindingName(group, binding int) string

	// Binding looks up the binding index of a named variable within a group.
	//
	// Parameters:
	//   - group: the @group index
	//   - name: the WGSL variable name
	//
	// Returns:
	//   - int: the binding index, or -1
	//   - bool: true if the variable was found
	Binding(group int, name string) (int, bool)

	// VertexLayouts retrieves the vertex buffer layouts reflected from the vertex input structs.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: one layout per vertex input struct, in source order
	VertexLayouts() []wgpu.VertexBufferLayout

	// Module builds the descriptor used to create the GPU shader module.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor carrying the processed source
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader preprocesses a WGSL module and reflects its bind groups, vertex inputs and entry points.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - source: the raw WGSL source, which may contain include directives
//   - options: variadic list of ShaderBuilderOption functions
//
// Returns:
//   - Shader: the parsed shader
//   - error: error if an include cannot be resolved or an entry point is missing
func NewShader(key, source string, options ...ShaderBuilderOption) (Shader, error) {
	s := &shader{
		key:        key,
		includes:   make(map[string]string),
		visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
	}
	for _, opt := range options {
		opt(s)
	}

	processed, err := resolveIncludes(source, s.includes)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}
	s.source = processed

	cleaned := stripComments(processed)
	s.vertexEntry = parseEntryPoint(cleaned, vertexEntryRegex)
	s.fragmentEntry = parseEntryPoint(cleaned, fragmentEntryRegex)
	if s.vertexEntry == "" {
		return nil, fmt.Errorf("shader %s: @vertex: %w", key, ErrMissingEntryPoint)
	}
	if s.fragmentEntry == "" {
		return nil, fmt.Errorf("shader %s: @fragment: %w", key, ErrMissingEntryPoint)
	}

	structs := parseStructBlocks(cleaned)
	s.vertexLayouts = reflectVertexLayouts(structs)
	s.groupLayouts, s.bindingNames = reflectBindGroups(cleaned, structs, s.visibility)
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) VertexEntryPoint() string {
	return s.vertexEntry
}

func (s *shader) FragmentEntryPoint() string {
	return s.fragmentEntry
}

func (s *shader) BindGroupLayoutDescriptor(group int) (wgpu.BindGroupLayoutDescriptor, bool) {
	desc, ok := s.groupLayouts[group]
	return desc, ok
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.groupLayouts
}

func (s *shader) Groups() []int {
	groups := make([]int, 0, len(s.groupLayouts))
	for g := range s.groupLayouts {
		groups = append(groups, g)
	}
	sort.Ints(groups)
	return groups
}

func (s *shader) BindingName(group, binding int) string {
	return s.bindingNames[group][binding]
}

func (s *shader) Binding(group int, name string) (int, bool) {
	for binding, n := range s.bindingNames[group] {
		if n == name {
			return binding, true
		}
	}
	return -1, false
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
}
