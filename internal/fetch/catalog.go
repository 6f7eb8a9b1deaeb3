// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

// Bulletin is one known report document.
type Bulletin struct {
	// URL is the direct document link.
	URL string

	// Filename is the local name the document is saved under. It follows
	// the naming convention the period decoder understands where the
	// publisher's own name does not.
	Filename string
}

// Source is one state report family: a set of known bulletin URLs, plus an
// optional index page that is scraped for further PDF links. Catalog
// entries go stale as publishers reorganize their sites; fetch failures
// are warnings, and some hosts sit behind bot protection that rejects
// non-browser clients entirely.
type Source struct {
	// Name is the short identifier used by --source.
	Name string

	// IndexURL, when set, is an HTML page scanned for .pdf links.
	IndexURL string

	// Known lists bulletins with stable direct URLs.
	Known []Bulletin
}

// Sources is the built-in report catalog.
var Sources = []Source{
	{
		Name:     "tn",
		IndexURL: "https://www.tn.gov/agriculture/forests/forestry-resources/timber-prices.html",
	},
	{
		Name: "ny",
		Known: []Bulletin{
			{
				URL:      "https://dec.ny.gov/sites/default/files/2024-07/2024summerspr105.pdf",
				Filename: "ny_dec_2024_summer.pdf",
			},
			{
				URL:      "https://dec.ny.gov/sites/default/files/2024-02/2024winterspr104.pdf",
				Filename: "ny_dec_2024_winter.pdf",
			},
			{
				URL:      "https://dec.ny.gov/sites/default/files/2024-02/2023summerspr103.pdf",
				Filename: "ny_dec_2023_summer.pdf",
			},
			{
				URL:      "https://dec.ny.gov/sites/default/files/2024-02/2022summerspr101.pdf",
				Filename: "ny_dec_2022_summer.pdf",
			},
			{
				URL:      "https://dec.ny.gov/sites/default/files/2024-02/2021summerspr99.pdf",
				Filename: "ny_dec_2021_summer.pdf",
			},
		},
	},
}

// SourceNames lists the catalog source names in catalog order.
func SourceNames() []string {
	names := make([]string, 0, len(Sources))
	for _, s := range Sources {
		names = append(names, s.Name)
	}
	return names
}

// SourceByName returns the catalog entry for name, or false.
func SourceByName(name string) (Source, bool) {
	for _, s := range Sources {
		if s.Name == name {
			return s, true
		}
	}
	return Source{}, false
}
