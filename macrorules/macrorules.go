// Package macrorules holds the publisher macro requirement table: which URL
// parameters a given publisher expects to see populated in a tag, per platform.
// The table is immutable after load.
package macrorules

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// Table maps publisher id -> platform -> required parameter keys.
type Table struct {
	publishers map[string]map[string][]string
}

type rulesFile struct {
	Publishers map[string]map[string][]string `yaml:"publishers"`
}

// Required returns the required parameter keys for a publisher on a platform.
// The second return is false when no requirements are defined for the
// publisher at all.
func (t *Table) Required(pubID, platform string) ([]string, bool) {
	platforms, ok := t.publishers[pubID]
	if !ok {
		return nil, false
	}
	return platforms[strings.ToLower(platform)], true
}

// Publishers returns the number of publishers with defined requirements.
func (t *Table) Publishers() int {
	return len(t.publishers)
}

// New builds a table from a publisher map, normalizing platform keys to lower case.
func New(publishers map[string]map[string][]string) *Table {
	normalized := make(map[string]map[string][]string, len(publishers))
	for pub, platforms := range publishers {
		normalized[pub] = make(map[string][]string, len(platforms))
		for platform, keys := range platforms {
			normalized[pub][strings.ToLower(platform)] = append([]string(nil), keys...)
		}
	}
	return &Table{publishers: normalized}
}

// Load reads the rules file at path, or returns the compiled-in defaults when
// path is empty.
func Load(path string) (*Table, error) {
	if path == "" {
		return New(defaultPublishers), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read macro rules file %s: %v", path, err)
	}
	return Parse(data)
}

// Parse builds a table from YAML rules content.
func Parse(data []byte) (*Table, error) {
	var parsed rulesFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("malformed macro rules yaml: %v", err)
	}
	if len(parsed.Publishers) == 0 {
		return nil, fmt.Errorf("macro rules yaml defines no publishers")
	}
	return New(parsed.Publishers), nil
}

// defaultPublishers mirrors the requirement sets the QA team maintains for the
// exchanges currently trafficked. Publisher ids are the pubid values embedded
// in the tag URLs.
var defaultPublishers = map[string]map[string][]string{
	"164208": {
		"ctv": {"sec", "storeurl", "bundle", "ifa", "width", "height"},
		"aos": {"storeurl", "bundle", "ifa"},
		"ios": {"storeurl", "ifa"},
	},
	"156539": {
		"ctv": {"storeurl", "bundle", "ifa"},
		"aos": {"storeurl", "bundle"},
		"ios": {"storeurl"},
	},
	"159110": {
		"ctv": {"sec", "storeurl", "bundle"},
	},
}
