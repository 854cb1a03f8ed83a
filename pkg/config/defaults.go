// Package config defines default input locations, table columns, and render styling.
package config

// Default input locations, relative to the working directory.
const (
	DefaultDTIPath     = "data/sample_dtis.csv"
	DefaultDDIPath     = "data/ddis.pkl"
	DefaultPrevDTIPath = "data/dtis.pkl"
	DefaultPrevCovPath = "data/prev_cov.csv"
	DefaultOutputDir   = "dtigraph-out"
)

// DefaultColumns returns the column names used by the DrugBank/UniProt exports.
func DefaultColumns() Columns {
	return Columns{
		Target:   "UniProtID",
		Drug:     "DrugBankID",
		Affinity: "pIC50",
		PrevCov:  "prev_cov",
	}
}

// DefaultPaths returns the default input and output locations.
func DefaultPaths() Paths {
	return Paths{
		DTI:     DefaultDTIPath,
		DDI:     DefaultDDIPath,
		PrevDTI: DefaultPrevDTIPath,
		PrevCov: DefaultPrevCovPath,
		Output:  DefaultOutputDir,
	}
}

// DefaultRenderConfig returns the canvas and label settings of the PNG renderer.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		SizeInches:  8,
		LabelOffset: 0.065,
		BoundsPad:   0.5,
		NodeRadius:  6,
	}
}
