// Package grouping maps benchmark descriptors to the key paths used to
// arrange them in a tree.
package grouping

import (
	"fmt"

	"github.com/mwiater/benchtree/internal/bench"
)

// None labels a group whose key could not be resolved.
const None = "(none)"

// Names of the built-in strategies.
const (
	ProjectClass          = "project-class"
	ProjectNamespaceClass = "project-namespace-class"
	NamespaceClass        = "namespace-class"
	Project               = "project"
	Flat                  = "flat"
)

// Default is the grouping selected when none is configured.
const Default = ProjectClass

// Strategy turns a descriptor into an ordered key path. The last key is the
// leaf label. Implementations must be pure and total.
type Strategy interface {
	Name() string
	Keys(d bench.Descriptor) []string
}

// UnknownGroupingError is returned by Resolve for unregistered names.
type UnknownGroupingError struct {
	Name string
}

func (e *UnknownGroupingError) Error() string {
	return fmt.Sprintf("unknown grouping %q", e.Name)
}

type field func(bench.Descriptor) string

func project(d bench.Descriptor) string   { return d.Project }
func namespace(d bench.Descriptor) string { return d.Namespace }
func class(d bench.Descriptor) string     { return d.Type }

type pathStrategy struct {
	name   string
	groups []field
}

func (s pathStrategy) Name() string { return s.name }

func (s pathStrategy) Keys(d bench.Descriptor) []string {
	keys := make([]string, 0, len(s.groups)+1)
	for _, g := range s.groups {
		keys = append(keys, orNone(g(d)))
	}
	return append(keys, orNone(d.Method))
}

func orNone(s string) string {
	if s == "" {
		return None
	}
	return s
}

// registry is ordered; Names reports strategies in this order.
var registry = []pathStrategy{
	{name: ProjectClass, groups: []field{project, class}},
	{name: ProjectNamespaceClass, groups: []field{project, namespace, class}},
	{name: NamespaceClass, groups: []field{namespace, class}},
	{name: Project, groups: []field{project}},
	{name: Flat},
}

// Resolve returns the strategy registered under name.
func Resolve(name string) (Strategy, error) {
	for _, s := range registry {
		if s.name == name {
			return s, nil
		}
	}
	return nil, &UnknownGroupingError{Name: name}
}

// MustResolve is Resolve for names known at compile time.
func MustResolve(name string) Strategy {
	s, err := Resolve(name)
	if err != nil {
		panic(err)
	}
	return s
}

// Names lists the registered strategy names in registry order.
func Names() []string {
	names := make([]string, len(registry))
	for i, s := range registry {
		names[i] = s.name
	}
	return names
}
