package config

import (
	"testing"
)

func TestDefaultColumns(t *testing.T) {
	cols := DefaultColumns()

	if cols.Target != "UniProtID" {
		t.Errorf("Expected Target UniProtID, got %s", cols.Target)
	}
	if cols.Drug != "DrugBankID" {
		t.Errorf("Expected Drug DrugBankID, got %s", cols.Drug)
	}
	if cols.Affinity != "pIC50" {
		t.Errorf("Expected Affinity pIC50, got %s", cols.Affinity)
	}
	if cols.PrevCov != "prev_cov" {
		t.Errorf("Expected PrevCov prev_cov, got %s", cols.PrevCov)
	}
}

func TestColumnsWithDefaults(t *testing.T) {
	cols := Columns{Drug: "compound"}.WithDefaults()

	if cols.Drug != "compound" {
		t.Errorf("Explicit column must survive, got %s", cols.Drug)
	}
	if cols.Target != "UniProtID" {
		t.Errorf("Expected default Target, got %s", cols.Target)
	}
}

func TestDefaultRenderConfig(t *testing.T) {
	cfg := DefaultRenderConfig().WithDefaults()

	if cfg.LabelOffset != 0.065 {
		t.Errorf("Expected LabelOffset 0.065, got %f", cfg.LabelOffset)
	}
	if cfg.BoundsPad != 0.5 {
		t.Errorf("Expected BoundsPad 0.5, got %f", cfg.BoundsPad)
	}
	if cfg.SizeInches != 8 {
		t.Errorf("Expected an 8 inch canvas, got %f", cfg.SizeInches)
	}
}

func TestRenderConfigWithDefaultsKeepsZeroPadding(t *testing.T) {
	cfg := RenderConfig{LabelOffset: 0, BoundsPad: 0}.WithDefaults()

	if cfg.BoundsPad != 0 {
		t.Errorf("Explicit zero BoundsPad must survive, got %f", cfg.BoundsPad)
	}
	if cfg.LabelOffset != 0 {
		t.Errorf("Explicit zero LabelOffset must survive, got %f", cfg.LabelOffset)
	}
	if cfg.SizeInches != 8 || cfg.NodeRadius != 6 {
		t.Errorf("Expected default canvas and radius, got %f and %f", cfg.SizeInches, cfg.NodeRadius)
	}
}
