package graph

// UnionFind is a disjoint-set forest over dense node IDs.
type UnionFind struct {
	parent []int
	rank   []int
}

// NewUnionFind initializes n singleton sets.
func NewUnionFind(n int) *UnionFind {
	parent := make([]int, n)
	rank := make([]int, n)
	for i := 0; i < n; i++ {
		parent[i] = i
	}
	return &UnionFind{parent: parent, rank: rank}
}

// Find returns the set representative of i, or -1 if i is out of range.
func (uf *UnionFind) Find(i int) int {
	if i < 0 || i >= len(uf.parent) {
		return -1
	}
	if uf.parent[i] != i {
		uf.parent[i] = uf.Find(uf.parent[i])
	}
	return uf.parent[i]
}

// Union merges the sets holding i and j.
func (uf *UnionFind) Union(i, j int) {
	rootI := uf.Find(i)
	rootJ := uf.Find(j)

	if rootI == -1 || rootJ == -1 || rootI == rootJ {
		return
	}

	// Union by rank
	if uf.rank[rootI] < uf.rank[rootJ] {
		uf.parent[rootI] = rootJ
	} else if uf.rank[rootI] > uf.rank[rootJ] {
		uf.parent[rootJ] = rootI
	} else {
		uf.parent[rootJ] = rootI
		uf.rank[rootI]++
	}
}
