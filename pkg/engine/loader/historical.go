package loader

// HistoricalEdge links a previously studied target to a similar drug.
// Weight is always 1.
type HistoricalEdge struct {
	Target string  `json:"target"`
	Drug   string  `json:"drug"`
	Weight float64 `json:"weight"`
}

// HistoricalOptions tunes ResolveHistorical.
type HistoricalOptions struct {
	// Unfiltered emits every historical target, not only reference ones.
	Unfiltered bool
}

// ResolveHistorical walks the similar drugs of sims and emits an edge for
// each historical target that is in reference. The returned target list
// follows edge order and keeps duplicates.
func ResolveHistorical(sims []Similarity, table TargetTable, reference []string, opts HistoricalOptions, tr *Translation) ([]HistoricalEdge, []string) {
	ref := make(map[string]bool, len(reference))
	for _, t := range reference {
		ref[t] = true
	}

	edges := []HistoricalEdge{}
	targets := []string{}
	for _, s := range sims {
		id := s.Similar
		if tr.TranslatesDrugs() {
			id = tr.DrugID(id)
		}
		for _, t := range table[id] {
			if !opts.Unfiltered && !ref[t] {
				continue
			}
			edges = append(edges, HistoricalEdge{Target: t, Drug: tr.DrugName(id), Weight: 1})
			targets = append(targets, t)
		}
	}
	return edges, targets
}
