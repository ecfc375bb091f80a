package blob

import "strings"

// Resolver maps a stored blob path to a publicly addressable URL.
type Resolver interface {
	Resolve(path string) string
}

// ContainerResolver resolves paths against a single storage container's
// public base URL.
type ContainerResolver struct {
	baseURL string
}

// NewContainerResolver creates a resolver rooted at baseURL.
func NewContainerResolver(baseURL string) *ContainerResolver {
	return &ContainerResolver{baseURL: strings.TrimRight(baseURL, "/")}
}

func (r *ContainerResolver) Resolve(path string) string {
	if path == "" {
		return ""
	}
	return r.baseURL + "/" + strings.TrimLeft(path, "/")
}
