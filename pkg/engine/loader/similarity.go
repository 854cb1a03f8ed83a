package loader

// Similarity is a weighted edge between the focal drug and a similar drug.
type Similarity struct {
	Drug    string  `json:"drug"`
	Similar string  `json:"similar"`
	Score   float64 `json:"score"`
}

// Similarities looks up drugID in table. An absent id yields two empty
// slices. Display names are applied after the lookup since the table is keyed
// by canonical id.
func Similarities(table SimilarityTable, drugID string, tr *Translation) ([]Similarity, []string) {
	stored, ok := table[drugID]
	if !ok {
		return []Similarity{}, []string{}
	}

	focal := tr.DrugName(drugID)
	edges := make([]Similarity, 0, len(stored))
	drugs := make([]string, 0, len(stored))
	for _, s := range stored {
		name := tr.DrugName(s.Drug)
		drugs = append(drugs, name)
		edges = append(edges, Similarity{Drug: focal, Similar: name, Score: Round4(s.Score)})
	}
	return edges, drugs
}
