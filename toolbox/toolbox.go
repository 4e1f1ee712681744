// Package toolbox resolves the external programs tvault drives into an
// immutable registry, built once at startup.
package toolbox

import "os/exec"

// Logical tool names.
const (
	GPG      = "gpg"
	Oathtool = "oathtool"
	Zenity   = "zenity"
	Xclip    = "xclip"
	Xsel     = "xsel"
)

// Registry maps logical tool names to resolved executable paths. Tools not
// found on the system are simply absent.
type Registry struct {
	paths map[string]string
}

// Resolve looks up every given tool name on $PATH.
func Resolve(names ...string) Registry {
	paths := make(map[string]string)
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			paths[name] = path
		}
	}
	return Registry{paths: paths}
}

// Path returns the resolved path for a tool and whether it was found.
func (r Registry) Path(name string) (string, bool) {
	path, ok := r.paths[name]
	return path, ok
}

// Has reports whether the tool was found.
func (r Registry) Has(name string) bool {
	_, ok := r.paths[name]
	return ok
}
