package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store holds configurations loaded from JSON/YAML documents of the form:
//
//	forms:
//	  users.edit:
//	    title: Edit user
//	    ajax: false
//	    onSuccess: users.saved
type Store struct {
	forms map[string]Config
}

var _ Configurator = (*Store)(nil)

type documentFile struct {
	Forms map[string]Config `json:"forms" yaml:"forms"`
}

// LoadFS walks fsys and parses every .json/.yaml/.yml file. A nil fsys yields
// an empty store.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{forms: make(map[string]Config)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(name string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isConfigFile(name) {
			return nil
		}

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("config: read %s: %w", name, err)
		}
		doc, err := parseDocument(data, name)
		if err != nil {
			return err
		}

		for key, cfg := range doc.Forms {
			id := strings.TrimSpace(key)
			if id == "" {
				return fmt.Errorf("config: file %s defines an empty form name", name)
			}
			if _, exists := store.forms[id]; exists {
				return fmt.Errorf("config: duplicate form %q (file %s)", id, name)
			}
			store.forms[id] = cfg
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewStore builds a store from in-memory configurations.
func NewStore(forms map[string]Config) *Store {
	store := &Store{forms: make(map[string]Config, len(forms))}
	for name, cfg := range forms {
		store.forms[strings.TrimSpace(name)] = cfg
	}
	return store
}

// Lookup implements Configurator.
func (s *Store) Lookup(name string) (Config, bool) {
	if s == nil {
		return Config{}, false
	}
	cfg, ok := s.forms[strings.TrimSpace(name)]
	return cfg, ok
}

// Names returns the configured form names sorted.
func (s *Store) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.forms))
	for name := range s.forms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Empty reports whether the store holds any configuration.
func (s *Store) Empty() bool {
	return s == nil || len(s.forms) == 0
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("config: file %s is empty", source)
	}
	if strings.EqualFold(path.Ext(source), ".json") {
		if err := json.Unmarshal(data, &doc); err != nil {
			return documentFile{}, fmt.Errorf("config: parse %s: %w", source, err)
		}
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("config: parse %s: %w", source, err)
	}
	return doc, nil
}

// isConfigFile matches fs.FS names, which always use forward slashes.
func isConfigFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
