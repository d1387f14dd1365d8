// Package seed holds the static university catalog bundled with the server.
package seed

import (
	_ "embed"
	"fmt"

	"github.com/agentcommand/tracker/internal/app/models"
	"gopkg.in/yaml.v3"
)

//go:embed universities.yaml
var universitiesYAML []byte

// Catalog is the read-only university lookup table
type Catalog struct {
	list []models.University
	byID map[string]int
}

// LoadCatalog parses the bundled catalog
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(universitiesYAML)
}

// ParseCatalog parses a YAML list of universities. Ids must be present and unique.
func ParseCatalog(data []byte) (*Catalog, error) {
	var list []models.University
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse university catalog: %w", err)
	}

	byID := make(map[string]int, len(list))
	for i := range list {
		u := &list[i]
		if u.ID == "" || u.Name == "" {
			return nil, fmt.Errorf("catalog entry %d: id and name are required", i)
		}
		if u.ID == models.CustomUniversityID {
			return nil, fmt.Errorf("catalog entry %d: id %q is reserved", i, u.ID)
		}
		if _, dup := byID[u.ID]; dup {
			return nil, fmt.Errorf("catalog entry %d: duplicate id %q", i, u.ID)
		}
		if u.Scholarships == nil {
			u.Scholarships = []models.Scholarship{}
		}
		byID[u.ID] = i
	}
	return &Catalog{list: list, byID: byID}, nil
}

// All returns copies of every entry in catalog order
func (c *Catalog) All() []models.University {
	out := make([]models.University, len(c.list))
	for i, u := range c.list {
		out[i] = copyUniversity(u)
	}
	return out
}

// Get looks up an entry by id
func (c *Catalog) Get(id string) (models.University, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.University{}, false
	}
	return copyUniversity(c.list[i]), true
}

// Len returns the number of catalog entries
func (c *Catalog) Len() int {
	return len(c.list)
}

func copyUniversity(u models.University) models.University {
	u.Scholarships = append([]models.Scholarship(nil), u.Scholarships...)
	if u.Scholarships == nil {
		u.Scholarships = []models.Scholarship{}
	}
	return u
}
