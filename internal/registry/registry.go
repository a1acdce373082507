// Package registry maintains the process-wide list of named projects
// at ~/.booger/projects.yaml (spec §6's "project add|list|add-all"),
// using the same yaml.v3 loader internal/config uses. The registry is
// read-through with no in-process caching: every List re-reads the
// file, matching spec §10's "no global mutable state" rule.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Project is one named entry in the registry.
type Project struct {
	Name string `yaml:"name"`
	Root string `yaml:"root"`
}

type file struct {
	Projects []Project `yaml:"projects"`
}

// Path returns the registry file's location, ~/.booger/projects.yaml.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".booger", "projects.yaml"), nil
}

// List returns every registered project, sorted by name. A registry
// file that doesn't exist yet is treated as an empty list, not an
// error.
func List() ([]Project, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return listAt(path)
}

func listAt(path string) ([]Project, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	sort.Slice(f.Projects, func(i, j int) bool { return f.Projects[i].Name < f.Projects[j].Name })
	return f.Projects, nil
}

// Add registers name -> root, overwriting any existing entry with the
// same name (re-running `project add` on a moved project corrects its
// root rather than creating a duplicate).
func Add(name, root string) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return addAt(path, name, root)
}

func addAt(path, name, root string) error {
	projects, err := listAt(path)
	if err != nil {
		return err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", root, err)
	}

	replaced := false
	for i, p := range projects {
		if p.Name == name {
			projects[i].Root = absRoot
			replaced = true
			break
		}
	}
	if !replaced {
		projects = append(projects, Project{Name: name, Root: absRoot})
	}

	return writeAt(path, projects)
}

func writeAt(path string, projects []Project) error {
	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
	b, err := yaml.Marshal(file{Projects: projects})
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create registry dir: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// AddAll registers every immediate subdirectory of parent that
// contains a .git directory, named after its basename, skipping any
// subdirectory whose root is already registered, under any name. It returns
// the projects it added.
func AddAll(parent string) ([]Project, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return addAllAt(path, parent)
}

func addAllAt(path, parent string) ([]Project, error) {
	entries, err := os.ReadDir(parent)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", parent, err)
	}

	existing, err := listAt(path)
	if err != nil {
		return nil, err
	}
	existingRoots := make(map[string]bool, len(existing))
	for _, p := range existing {
		existingRoots[p.Root] = true
	}

	var added []Project
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		candidate := filepath.Join(parent, e.Name())
		if _, err := os.Stat(filepath.Join(candidate, ".git")); err != nil {
			continue
		}
		absRoot, err := filepath.Abs(candidate)
		if err != nil {
			return added, fmt.Errorf("resolve %s: %w", candidate, err)
		}
		if existingRoots[absRoot] {
			continue
		}
		existing = append(existing, Project{Name: e.Name(), Root: absRoot})
		existingRoots[absRoot] = true
		added = append(added, Project{Name: e.Name(), Root: absRoot})
	}

	if len(added) == 0 {
		return nil, nil
	}
	return added, writeAt(path, existing)
}
