package catalog

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
)

// Catalog answers "does this city exist" against a fixed dictionary loaded
// once at startup. Lookups are case-insensitive exact matches; the set never
// mutates after Load.
type Catalog struct {
	names map[string]struct{}
}

type cityEntry struct {
	Name string `json:"name"`
}

type citiesFile struct {
	City []cityEntry `json:"city"`
}

// Load reads the city dictionary, a JSON document of the shape
// {"city": [{"name": "Москва"}, ...]}.
func Load(filePath string) (*Catalog, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading cities file %s: %w", filePath, err)
	}

	var parsed citiesFile
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parsing cities file %s: %w", filePath, err)
	}

	names := make(map[string]struct{}, len(parsed.City))
	for _, entry := range parsed.City {
		name := strings.ToLower(strings.TrimSpace(entry.Name))
		if name == "" {
			log.Println("Skipping empty city record")
			continue
		}
		names[name] = struct{}{}
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("cities file %s has no usable entries", filePath)
	}

	return &Catalog{names: names}, nil
}

// MustLoad is Load for process startup: a missing dictionary is fatal.
func MustLoad(filePath string) *Catalog {
	c, err := Load(filePath)
	if err != nil {
		log.Fatal("Unable to load city catalog: ", err)
	}
	log.Printf("[catalog] Loaded %d cities from %s", len(c.names), filePath)
	return c
}

// Exists reports whether name is in the dictionary, ignoring case and
// surrounding whitespace.
func (c *Catalog) Exists(name string) bool {
	_, ok := c.names[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

func (c *Catalog) Len() int {
	return len(c.names)
}
