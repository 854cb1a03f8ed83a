package config

// Columns names the header fields read from the delimited tables.
type Columns struct {
	// Target is the protein identifier column of the DTI table.
	Target string `mapstructure:"target"`
	// Drug is the drug identifier column of the DTI table.
	Drug string `mapstructure:"drug"`
	// Affinity is the numeric score column of the DTI table.
	Affinity string `mapstructure:"affinity"`
	// PrevCov is the single column of the previous-coronavirus target table.
	PrevCov string `mapstructure:"prev_cov"`
}

// Paths locates every input table and the output directory.
// Any entry may be a local path or an s3://bucket/key URI.
type Paths struct {
	DTI     string `mapstructure:"dti"`
	DDI     string `mapstructure:"ddi"`
	PrevDTI string `mapstructure:"pdti"`
	PrevCov string `mapstructure:"pcov"`
	Output  string `mapstructure:"out"`

	// IDToName and NameToID are optional drug alias tables.
	IDToName string `mapstructure:"id_to_name"`
	NameToID string `mapstructure:"name_to_id"`
}

// RenderConfig controls the PNG output.
type RenderConfig struct {
	// SizeInches is the width and height of the square canvas.
	SizeInches float64 `mapstructure:"size_inches"`
	// LabelOffset raises node labels above their markers, in layout units.
	LabelOffset float64 `mapstructure:"label_offset"`
	// BoundsPad widens the data range by this fraction on each axis.
	BoundsPad float64 `mapstructure:"bounds_pad"`
	// NodeRadius is the marker radius in points.
	NodeRadius float64 `mapstructure:"node_radius"`
}

// WithDefaults fills zero fields from DefaultColumns.
func (c Columns) WithDefaults() Columns {
	d := DefaultColumns()
	if c.Target == "" {
		c.Target = d.Target
	}
	if c.Drug == "" {
		c.Drug = d.Drug
	}
	if c.Affinity == "" {
		c.Affinity = d.Affinity
	}
	if c.PrevCov == "" {
		c.PrevCov = d.PrevCov
	}
	return c
}

// WithDefaults fills a non-positive canvas size or marker radius from
// DefaultRenderConfig. LabelOffset and BoundsPad are used as given, zero
// included; start from DefaultRenderConfig to get the stock values.
func (r RenderConfig) WithDefaults() RenderConfig {
	d := DefaultRenderConfig()
	if r.SizeInches <= 0 {
		r.SizeInches = d.SizeInches
	}
	if r.NodeRadius <= 0 {
		r.NodeRadius = d.NodeRadius
	}
	return r
}
