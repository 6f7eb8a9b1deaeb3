// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultVocabulary(t *testing.T) {
	v := Default("TN")

	if _, ok := v.Species["White Pine"]; !ok {
		t.Error("White Pine missing from default species")
	}
	if _, ok := v.Products["Sawlogs"]; !ok {
		t.Error("Sawlogs missing from default products")
	}
	if _, ok := v.Regions["East"]; !ok {
		t.Error("TN region vocabulary not selected")
	}
}

func TestRegionsForState(t *testing.T) {
	tests := []struct {
		state string
		want  string
	}{
		{"TN", "Middle"},
		{"tn", "Middle"},
		{" ky ", "Northeast"},
		{"NH", "North"},
	}
	for _, tt := range tests {
		regions := RegionsForState(tt.state)
		if _, ok := regions[tt.want]; !ok {
			t.Errorf("RegionsForState(%q) missing %q", tt.state, tt.want)
		}
	}

	if regions := RegionsForState("ZZ"); len(regions) != 0 {
		t.Errorf("unknown state got regions %v", regions)
	}
}

func TestLoadOverridesSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	doc := `species:
  Longleaf Pine:
    - longleaf
    - longleaf pine
units:
  MBF:
    - mbf
    - doyle
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	v, err := Load(path, "TN")
	if err != nil {
		t.Fatal(err)
	}

	// Listed sections replace the defaults wholesale.
	if len(v.Species) != 1 {
		t.Errorf("species not replaced: %d entries", len(v.Species))
	}
	if _, ok := v.Species["Longleaf Pine"]; !ok {
		t.Error("loaded species missing")
	}

	// Absent sections keep the defaults.
	if _, ok := v.Products["Sawlogs"]; !ok {
		t.Error("default products lost")
	}
	if _, ok := v.Regions["East"]; !ok {
		t.Error("default TN regions lost")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), "TN"); err == nil {
		t.Error("missing vocabulary file accepted")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	if err := os.WriteFile(path, []byte("species: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, "TN"); err == nil {
		t.Error("malformed vocabulary accepted")
	}
}
