// Package config loads the YAML description of a guest rootfs (its real
// host directory plus the bindings overlaid on it) into the path
// package's runtime types.
package config

import (
	"fmt"
	"os"

	"github.com/pathtrace/goproot/path"
	"gopkg.in/yaml.v3"
)

// BindSpec is the YAML-serializable form of a single binding.
type BindSpec struct {
	Guest string `yaml:"guest"`
	Host  string `yaml:"host"`
}

// Root is the top-level shape of a bindings file.
type Root struct {
	Rootfs   string     `yaml:"rootfs"`
	Bindings []BindSpec `yaml:"bindings"`
}

// Load reads and validates a bindings file at path p.
func Load(p string) (*Root, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", p, err)
	}

	var root Root
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", p, err)
	}

	if err := root.validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", p, err)
	}

	return &root, nil
}

func (r *Root) validate() error {
	if r.Rootfs == "" {
		return fmt.Errorf("rootfs must not be empty")
	}
	for i, b := range r.Bindings {
		if b.Guest == "" || b.Host == "" {
			return fmt.Errorf("binding %d: guest and host must both be set", i)
		}
	}
	return nil
}

// BuildTable applies the configured bindings, in file order, to a fresh
// binding table -- so a duplicate guest prefix later in the file wins,
// exactly as the table's own documented insertion-order tie-break would
// have it for repeated programmatic inserts.
func (r *Root) BuildTable() *path.Table {
	tbl := path.NewTable()
	for _, b := range r.Bindings {
		tbl.Insert(path.Binding{GuestPath: b.Guest, HostPath: b.Host})
	}
	return tbl
}
