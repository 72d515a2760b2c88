package plugin

import (
	"errors"
	"fmt"
)

var ErrDuplicatePlugin = errors.New("plugin already registered")

// PackageID identifies a plugin package to the host registry.
type PackageID struct {
	Name    string `msgpack:"name"`
	Version string `msgpack:"version"`
	Source  string `msgpack:"source"`
}

func (id PackageID) String() string {
	return fmt.Sprintf("%s v%s (%s)", id.Name, id.Version, id.Source)
}

// GitSource formats a git source location pinned to tag.
func GitSource(repository, tag string) string {
	return "git+" + repository + "?tag=" + tag
}

// Instance is an instantiated plugin package.
type Instance interface {
	Suite() Suite
}

// Package is a plugin package the host can resolve and instantiate.
type Package interface {
	ID() PackageID
	Instantiate() (Instance, error)
}

// Repository holds the installed plugin packages. It is built once at process start
// by its owner and passed to the host; packages only own their own entry.
type Repository struct {
	byID  map[PackageID]Package
	order []PackageID
}

func NewRepository() *Repository {
	return &Repository{byID: make(map[PackageID]Package)}
}

// Add installs p; a package with the same id is rejected.
func (r *Repository) Add(p Package) error {
	id := p.ID()
	if _, ok := r.byID[id]; ok {
		return fmt.Errorf("%s: %w", id, ErrDuplicatePlugin)
	}
	r.byID[id] = p
	r.order = append(r.order, id)
	return nil
}

func (r *Repository) Get(id PackageID) (Package, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// IDs returns package ids in installation order.
func (r *Repository) IDs() []PackageID {
	return append([]PackageID(nil), r.order...)
}

// Suite instantiates every package and merges their suites.
func (r *Repository) Suite() (Suite, error) {
	var all Suite
	for _, id := range r.order {
		inst, err := r.byID[id].Instantiate()
		if err != nil {
			return Suite{}, fmt.Errorf("instantiate %s: %w", id, err)
		}
		all.Extend(inst.Suite())
	}
	return all, nil
}
