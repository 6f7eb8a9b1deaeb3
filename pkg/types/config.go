// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// LocatorConfig holds settings for report discovery.
type LocatorConfig struct {
	// InputDir is the directory scanned for report documents.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// Extensions lists accepted file extensions (default: .pdf).
	Extensions []string `json:"extensions,omitempty" yaml:"extensions,omitempty"`
}

// ExtractionStrategy selects how tabular rows are pulled out of a document.
type ExtractionStrategy string

const (
	// StrategyAuto tries layout extraction and falls back to plain text.
	StrategyAuto ExtractionStrategy = "auto"
	// StrategyLayout clusters positioned text into rows and cells.
	StrategyLayout ExtractionStrategy = "layout"
	// StrategyText splits extracted plain text on whitespace runs.
	StrategyText ExtractionStrategy = "text"
	// StrategyPdftotext shells out to the pdftotext tool.
	StrategyPdftotext ExtractionStrategy = "pdftotext"
)

// ExtractionConfig holds settings for the table extractor.
type ExtractionConfig struct {
	// Strategy selects the extraction backend (default: auto).
	Strategy ExtractionStrategy `json:"strategy" yaml:"strategy"`

	// PdftotextPath is the pdftotext binary for the pdftotext strategy
	// (default: "pdftotext" on PATH).
	PdftotextPath string `json:"pdftotext_path,omitempty" yaml:"pdftotext_path,omitempty"`
}

// NormalizeConfig holds settings for row-to-record normalization.
type NormalizeConfig struct {
	// State is the two-letter state family the input reports belong to.
	// It selects the default region vocabulary and fills the state column.
	State string `json:"state,omitempty" yaml:"state,omitempty"`

	// VocabPath points at a YAML vocabulary overriding the built-in one.
	VocabPath string `json:"vocab_path,omitempty" yaml:"vocab_path,omitempty"`

	// AllowUnspecifiedProduct keeps rows whose product category cannot be
	// identified, labeling them "unspecified" instead of discarding them.
	AllowUnspecifiedProduct bool `json:"allow_unspecified_product" yaml:"allow_unspecified_product"`
}

// OutputConfig holds settings for the dataset writer.
type OutputConfig struct {
	// Path is the CSV file the dataset is written to.
	Path string `json:"path" yaml:"path"`
}

// StoreConfig holds settings for the SQLite price index.
type StoreConfig struct {
	// DBPath is the SQLite database file (default: stumpage.db).
	DBPath string `json:"db_path" yaml:"db_path"`
}

// FetchConfig holds settings for bulletin downloading.
type FetchConfig struct {
	// DestDir is the directory downloaded bulletins are written to.
	DestDir string `json:"dest_dir" yaml:"dest_dir"`

	// Delay is the pause between consecutive downloads (default 1s).
	Delay time.Duration `json:"delay" yaml:"delay"`

	// UserAgent is sent with every request.
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries bounds retry attempts on rate-limited responses.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level"`

	// Format is "console" or "json".
	Format string `json:"format" yaml:"format"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Locator    LocatorConfig    `json:"locator" yaml:"locator"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Normalize  NormalizeConfig  `json:"normalize" yaml:"normalize"`
	Output     OutputConfig     `json:"output" yaml:"output"`
	Store      StoreConfig      `json:"store" yaml:"store"`
	Fetch      FetchConfig      `json:"fetch" yaml:"fetch"`
	Log        LogConfig        `json:"log" yaml:"log"`
}
