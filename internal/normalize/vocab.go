// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Vocabulary maps canonical names to their recognized surface forms.
// Supporting a new report family is a data change: add aliases here or ship
// a YAML file with the same shape and point --vocab at it.
type Vocabulary struct {
	Species  map[string][]string `yaml:"species"`
	Products map[string][]string `yaml:"products"`
	Units    map[string][]string `yaml:"units"`
	Regions  map[string][]string `yaml:"regions"`
}

// Default returns the built-in vocabulary, assembled from the species,
// product, and unit names used by the state bulletins the pipeline was
// built against. The region section is per-state; see RegionsForState.
func Default(state string) Vocabulary {
	return Vocabulary{
		Species: map[string][]string{
			"White Pine":   {"white pine", "eastern white pine", "ewp"},
			"Red Pine":     {"red pine", "norway pine"},
			"Pine":         {"pine", "southern yellow pine", "loblolly", "shortleaf", "slash pine"},
			"Spruce":       {"spruce", "spruce-fir", "red spruce"},
			"Fir":          {"fir", "balsam fir", "balsam"},
			"Hemlock":      {"hemlock"},
			"Cedar":        {"cedar", "white cedar", "red cedar"},
			"Red Oak":      {"red oak", "northern red oak"},
			"White Oak":    {"white oak"},
			"Oak":          {"oak", "mixed oak", "scarlet oak", "black oak", "chestnut oak"},
			"Sugar Maple":  {"sugar maple", "hard maple", "rock maple"},
			"Red Maple":    {"red maple", "soft maple"},
			"Yellow Birch": {"yellow birch"},
			"White Birch":  {"white birch", "paper birch"},
			"Beech":        {"beech"},
			"Ash":          {"ash", "white ash", "green ash"},
			"Yellow Poplar": {"yellow poplar", "tulip poplar", "tulipwood", "poplar"},
			"Black Cherry": {"black cherry", "cherry"},
			"Black Walnut": {"black walnut", "walnut"},
			"Hickory":      {"hickory"},
			"Basswood":     {"basswood"},
			"Aspen":        {"aspen", "popple", "bigtooth aspen", "quaking aspen"},
			"Sweetgum":     {"sweetgum", "sweet gum", "gum"},
			"Cypress":      {"cypress", "bald cypress"},
			"Hardwood":     {"hardwood", "mixed hardwood", "mixed hardwoods", "hardwoods"},
			"Softwood":     {"softwood", "mixed softwood", "softwoods"},
		},
		Products: map[string][]string{
			"Sawlogs":    {"sawlogs", "sawlog", "sawtimber", "saw timber", "saw logs", "logs"},
			"Pulpwood":   {"pulpwood", "pulp wood", "pulp"},
			"Veneer":     {"veneer", "veneer logs", "peelers"},
			"Chip-n-Saw": {"chip-n-saw", "chip n saw", "chip-saw", "cns"},
			"Ties":       {"ties", "tie logs", "tie"},
			"Pallet":     {"pallet", "pallet logs"},
			"Stave":      {"stave", "stave logs"},
			"Firewood":   {"firewood", "fuelwood", "fuel wood"},
			"Poles":      {"poles", "posts", "pole"},
			"Biomass":    {"biomass", "whole tree chips", "chips"},
		},
		Units: map[string][]string{
			"MBF":  {"mbf", "thousand board feet", "1000 bd ft", "per m"},
			"cord": {"cord", "cords"},
			"ton":  {"ton", "tons", "green ton"},
			"CCF":  {"ccf", "hundred cubic feet"},
		},
		Regions: RegionsForState(state),
	}
}

// RegionsForState returns the region vocabulary for a state family. There
// is no universal rule for region names across bulletins, so each family
// carries its own list; unknown states report statewide prices.
func RegionsForState(state string) map[string][]string {
	switch strings.ToUpper(strings.TrimSpace(state)) {
	case "TN":
		return map[string][]string{
			"East":   {"east", "east tennessee", "eastern"},
			"Middle": {"middle", "middle tennessee", "central"},
			"West":   {"west", "west tennessee", "western"},
		}
	case "KY":
		return map[string][]string{
			"Northeast": {"northeast", "region 1"},
			"Northwest": {"northwest", "region 2"},
			"Southeast": {"southeast", "region 3"},
			"Southwest": {"southwest", "region 4"},
		}
	case "NH":
		return map[string][]string{
			"North": {"north", "northern counties"},
			"South": {"south", "southern counties"},
		}
	default:
		return map[string][]string{}
	}
}

// Load reads a YAML vocabulary file. Sections present in the file replace
// the corresponding defaults; absent sections keep them.
func Load(path, state string) (Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("reading vocabulary %s: %w", path, err)
	}

	var loaded Vocabulary
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Vocabulary{}, fmt.Errorf("parsing vocabulary %s: %w", path, err)
	}

	vocab := Default(state)
	if len(loaded.Species) > 0 {
		vocab.Species = loaded.Species
	}
	if len(loaded.Products) > 0 {
		vocab.Products = loaded.Products
	}
	if len(loaded.Units) > 0 {
		vocab.Units = loaded.Units
	}
	if len(loaded.Regions) > 0 {
		vocab.Regions = loaded.Regions
	}
	return vocab, nil
}

// match holds one vocabulary hit within a row.
type match struct {
	canonical string
	cell      int
	aliasLen  int
}

// matchCells finds the best vocabulary hit across a row's cells:
// case-insensitive, word-boundary substring matching, longest alias wins so
// "white pine" beats "pine". Ties break on canonical name for determinism.
func matchCells(cells []string, vocab map[string][]string) (match, bool) {
	var best match
	found := false

	names := make([]string, 0, len(vocab))
	for name := range vocab {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, cell := range cells {
		lower := strings.ToLower(cell)
		for _, name := range names {
			for _, alias := range vocab[name] {
				if !containsToken(lower, alias) {
					continue
				}
				if !found || len(alias) > best.aliasLen {
					best = match{canonical: name, cell: i, aliasLen: len(alias)}
					found = true
				}
			}
		}
	}
	return best, found
}

// containsToken reports whether needle occurs in haystack bounded by
// non-alphanumeric characters, so "ton" matches "$/ton" but not
// "cottonwood". Both arguments are expected lowercase.
func containsToken(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	for from := 0; ; {
		idx := strings.Index(haystack[from:], needle)
		if idx < 0 {
			return false
		}
		idx += from
		before := idx == 0 || !isWordChar(haystack[idx-1])
		afterIdx := idx + len(needle)
		after := afterIdx == len(haystack) || !isWordChar(haystack[afterIdx])
		if before && after {
			return true
		}
		from = idx + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c >= 'A' && c <= 'Z'
}
