package bind_group_provider

import "github.com/google/uuid"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithUniqueLabel appends a short random suffix to the label so GPU debug tools can tell
// apart providers created from the same owner type.
//
// Returns:
//   - BindGroupProviderOption: a function that suffixes the provider label
func WithUniqueLabel() BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.label += "#" + uuid.NewString()[:8]
	}
}
