package stremio

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var semverRE = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?$`)

// NewManifest validates m and returns a private copy of it.
func NewManifest(m Manifest) (*Manifest, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	c := m.Clone()
	return &c, nil
}

// Validate checks the manifest internal consistency.
func (m Manifest) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidManifest)
	}
	if m.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidManifest)
	}
	if !semverRE.MatchString(m.Version) {
		return fmt.Errorf("%w: version %q is not semver", ErrInvalidManifest, m.Version)
	}
	if len(m.Resources) == 0 {
		return fmt.Errorf("%w: no resources", ErrInvalidManifest)
	}
	for _, r := range m.Resources {
		if _, ok := resourceKinds[r]; !ok {
			return fmt.Errorf("%w: unknown resource %q", ErrInvalidManifest, r)
		}
	}
	if len(m.Types) == 0 {
		return fmt.Errorf("%w: no types", ErrInvalidManifest)
	}
	// An empty list would serialize as absent, which clients read as "every id".
	if m.IDPrefixes != nil && len(m.IDPrefixes) == 0 {
		return fmt.Errorf("%w: empty id prefixes, leave them unset to accept every id", ErrInvalidManifest)
	}

	catalogKeys := make(map[string]struct{}, len(m.Catalogs))
	for _, c := range m.Catalogs {
		if !slices.Contains(m.Types, c.Type) {
			return fmt.Errorf("%w: catalog %q has unsupported type %q", ErrInvalidManifest, c.ID, c.Type)
		}
		if c.ID == "" {
			return fmt.Errorf("%w: catalog of type %q has an empty id", ErrInvalidManifest, c.Type)
		}
		key := string(c.Type) + "/" + c.ID
		if _, ok := catalogKeys[key]; ok {
			return fmt.Errorf("%w: duplicated catalog %q", ErrInvalidManifest, key)
		}
		catalogKeys[key] = struct{}{}
		for _, e := range c.Extra {
			if e.Name == "" {
				return fmt.Errorf("%w: catalog %q has an unnamed extra", ErrInvalidManifest, c.ID)
			}
			if e.OptionsLimit < 0 {
				return fmt.Errorf("%w: catalog %q extra %q has a negative options limit", ErrInvalidManifest, c.ID, e.Name)
			}
		}
	}

	return nil
}

// IsIDSupported reports whether id starts with one of the manifest prefixes.
// Every id is supported when the prefixes are unset.
func (m *Manifest) IsIDSupported(id string) bool {
	if m.IDPrefixes == nil {
		return true
	}
	for _, prefix := range m.IDPrefixes {
		if strings.HasPrefix(id, prefix) {
			return true
		}
	}
	return false
}

// Catalog returns the catalog declared with the given type and id.
func (m *Manifest) Catalog(t ContentType, id string) (CatalogItem, bool) {
	for _, c := range m.Catalogs {
		if c.Type == t && c.ID == id {
			return c, true
		}
	}
	return CatalogItem{}, false
}

// ExtraItem returns the named extra property of the catalog.
func (c CatalogItem) ExtraItem(name string) (ExtraItem, bool) {
	for _, e := range c.Extra {
		if e.Name == name {
			return e, true
		}
	}
	return ExtraItem{}, false
}

// Clone returns a deep copy of m.
func (m Manifest) Clone() Manifest {
	c := m
	c.Types = slices.Clone(m.Types)
	c.IDPrefixes = slices.Clone(m.IDPrefixes)
	c.Resources = slices.Clone(m.Resources)
	if m.Catalogs != nil {
		c.Catalogs = make([]CatalogItem, len(m.Catalogs))
		for i, catalog := range m.Catalogs {
			c.Catalogs[i] = catalog
			if catalog.Extra != nil {
				c.Catalogs[i].Extra = make([]ExtraItem, len(catalog.Extra))
				for j, e := range catalog.Extra {
					e.Options = slices.Clone(e.Options)
					c.Catalogs[i].Extra[j] = e
				}
			}
		}
	}
	if m.BehaviorHints != nil {
		hints := *m.BehaviorHints
		c.BehaviorHints = &hints
	}
	return c
}
