package backend

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Row is one line of the location sheet: a work scope available at a
// location code of a branch.
type Row struct {
	Branch       string `yaml:"cabang"`
	LocationCode string `yaml:"ulok"`
	WorkScope    string `yaml:"lingkup"`
}

// Catalog answers option queries over rows kept in sheet order.
type Catalog []Row

func (c Catalog) Branches() []string {
	return distinct(c, func(Row) bool { return true }, func(r Row) string { return r.Branch })
}

func (c Catalog) Locations(branch string) []string {
	return distinct(c, func(r Row) bool { return sameBranch(r.Branch, branch) },
		func(r Row) string { return r.LocationCode })
}

// WorkScopes returns the scopes of a location as they appear, repeats included.
func (c Catalog) WorkScopes(branch, locationCode string) []string {
	code := strings.TrimSpace(locationCode)
	out := make([]string, 0)
	for _, r := range c {
		if sameBranch(r.Branch, branch) && strings.TrimSpace(r.LocationCode) == code && r.WorkScope != "" {
			out = append(out, r.WorkScope)
		}
	}
	return out
}

func sameBranch(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func distinct(c Catalog, keep func(Row) bool, key func(Row) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range c {
		if !keep(r) {
			continue
		}
		k := key(r)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// CatalogFromRows reads branch, location code and work scope from the first
// three columns. Blank rows are skipped.
func CatalogFromRows(rows [][]string) Catalog {
	c := make(Catalog, 0, len(rows))
	for _, cols := range rows {
		r := Row{Branch: col(cols, 0), LocationCode: col(cols, 1), WorkScope: col(cols, 2)}
		if r.Branch == "" && r.LocationCode == "" && r.WorkScope == "" {
			continue
		}
		c = append(c, r)
	}
	return c
}

// CatalogFromValues is CatalogFromRows for untyped spreadsheet cells.
func CatalogFromValues(values [][]any) Catalog {
	rows := make([][]string, len(values))
	for i, vals := range values {
		rows[i] = make([]string, len(vals))
		for j, v := range vals {
			if v != nil {
				rows[i][j] = fmt.Sprint(v)
			}
		}
	}
	return CatalogFromRows(rows)
}

func col(cols []string, i int) string {
	if i < len(cols) {
		return strings.TrimSpace(cols[i])
	}
	return ""
}

// LoadCatalogFile reads a YAML list of {cabang, ulok, lingkup} rows.
func LoadCatalogFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	var rows []Row
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	return Catalog(rows), nil
}
