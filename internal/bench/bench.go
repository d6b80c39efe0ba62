// Package bench defines the descriptors produced by benchmark discovery.
package bench

import "strings"

// Symbol is a source position that locates a benchmark declaration.
// Callers outside of discovery and navigation treat it as opaque.
type Symbol struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// Project is a Go module found in the workspace.
type Project struct {
	Name string `json:"name"` // module path from go.mod
	Dir  string `json:"dir"`  // absolute module root
}

// Descriptor identifies one discovered benchmark function.
type Descriptor struct {
	Project   string `json:"project"`   // owning module path
	Namespace string `json:"namespace"` // package import path
	Type      string `json:"type"`      // T in BenchmarkT_M, empty if absent
	Method    string `json:"method"`    // full function name, e.g. BenchmarkCodec_Decode
	Dir       string `json:"dir"`       // package directory
	Symbol    Symbol `json:"symbol"`
}

// Key is the identity of a descriptor across discovery runs. Descriptor
// values are recreated on every refresh, so selection is tracked by Key.
type Key struct {
	Project, Namespace, Type, Method string
}

// Key returns the descriptor's identity.
func (d Descriptor) Key() Key {
	return Key{Project: d.Project, Namespace: d.Namespace, Type: d.Type, Method: d.Method}
}

// String renders the key as "project namespace.Type.Method".
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(k.Project)
	b.WriteString(" ")
	b.WriteString(k.Namespace)
	if k.Type != "" {
		b.WriteString(".")
		b.WriteString(k.Type)
	}
	b.WriteString(".")
	b.WriteString(k.Method)
	return b.String()
}

// Set is the result of one discovery run. It is replaced wholesale on
// refresh and never patched.
type Set struct {
	Projects    []Project
	Descriptors []Descriptor
}

// Len returns the number of descriptors.
func (s Set) Len() int { return len(s.Descriptors) }

// Empty reports whether discovery produced no benchmarks.
func (s Set) Empty() bool { return len(s.Descriptors) == 0 }

// ProjectNamed returns the first project with exactly the given name.
func (s Set) ProjectNamed(name string) (Project, bool) {
	for _, p := range s.Projects {
		if p.Name == name {
			return p, true
		}
	}
	return Project{}, false
}

// TypeFromName extracts T from a benchmark named BenchmarkT_M. It returns
// "" when the name has no underscore-separated type part.
func TypeFromName(method string) string {
	rest := strings.TrimPrefix(method, "Benchmark")
	if rest == method {
		return ""
	}
	i := strings.Index(rest, "_")
	if i <= 0 {
		return ""
	}
	return rest[:i]
}
