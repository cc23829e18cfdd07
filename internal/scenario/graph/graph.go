// Package graph implements Component B: the spaces graph, all-pairs
// shortest paths with a persistent CSV cache, and an unweighted BFS
// variant that returns its paths as a separate table.
package graph

import (
	"bufio"
	"container/heap"
	"fmt"
	"os"
	"strconv"
	"strings"

	"smartspec-scenariogen/internal/scenario/errs"
	"smartspec-scenariogen/internal/scenario/model"
)

// SpacesGraph holds adjacency (directed edges following each space's
// neighbor list), 3-D coordinates for Manhattan-distance edge weights,
// and a memoized (src,dst) -> path table.
type SpacesGraph struct {
	neighbors map[model.SpaceID][]model.SpaceID
	coords    map[model.SpaceID]model.Coordinates
	cache     map[model.SrcDest][]model.SpaceID
	built     bool
}

func New() *SpacesGraph {
	return &SpacesGraph{
		neighbors: make(map[model.SpaceID][]model.SpaceID),
		coords:    make(map[model.SpaceID]model.Coordinates),
		cache:     make(map[model.SrcDest][]model.SpaceID),
	}
}

// AddNode registers a space vertex with its coordinates and directed
// edges to its neighbor list (as given by the space's own data).
func (g *SpacesGraph) AddNode(id model.SpaceID, coords model.Coordinates, neighbors []model.SpaceID) {
	g.coords[id] = coords
	g.neighbors[id] = append([]model.SpaceID(nil), neighbors...)
}

func (g *SpacesGraph) edgeWeight(u, v model.SpaceID) int {
	return model.ManhattanDistance(g.coords[u], g.coords[v])
}

// IsBuilt reports whether BuildAllPairs or a successful LoadCache has
// already populated the path cache.
func (g *SpacesGraph) IsBuilt() bool { return g.built }

// BuildAllPairs runs Manhattan-weighted Dijkstra from every vertex and
// memoizes the resulting shortest paths. Unreachable (s,t) pairs are
// recorded as the single-element path [t].
func (g *SpacesGraph) BuildAllPairs() {
	for src := range g.neighbors {
		paths := g.dijkstraFrom(src)
		for dst, path := range paths {
			g.cache[model.SrcDest{Src: src, Dst: dst}] = path
		}
	}
	g.built = true
}

type pqItem struct {
	node model.SpaceID
	dist int
}

type priorityQueue []pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(pqItem)) }
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// dijkstraFrom computes true Manhattan-weighted shortest paths from
// src to every reachable vertex. The original's Graph.hpp computes
// unweighted hop-count paths in both its dijkstra() and bfs() methods,
// never consulting SpacesLoader::dist() for edge weights; spec.md is
// explicit that edge cost is Manhattan distance, so this is the
// weighted implementation spec.md calls for (see SPEC_FULL.md §4).
func (g *SpacesGraph) dijkstraFrom(src model.SpaceID) map[model.SpaceID][]model.SpaceID {
	dist := map[model.SpaceID]int{src: 0}
	prev := map[model.SpaceID]model.SpaceID{}
	visited := map[model.SpaceID]bool{}

	pq := &priorityQueue{{node: src, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(pqItem)
		if visited[cur.node] {
			continue
		}
		visited[cur.node] = true

		for _, nb := range g.neighbors[cur.node] {
			w := g.edgeWeight(cur.node, nb)
			nd := dist[cur.node] + w
			if d, ok := dist[nb]; !ok || nd < d {
				dist[nb] = nd
				prev[nb] = cur.node
				heap.Push(pq, pqItem{node: nb, dist: nd})
			}
		}
	}

	paths := make(map[model.SpaceID][]model.SpaceID, len(dist))
	for node := range dist {
		paths[node] = reconstruct(prev, src, node)
	}
	return paths
}

func reconstruct(prev map[model.SpaceID]model.SpaceID, src, dst model.SpaceID) []model.SpaceID {
	if src == dst {
		return []model.SpaceID{src}
	}
	var rev []model.SpaceID
	cur := dst
	for cur != src {
		rev = append(rev, cur)
		p, ok := prev[cur]
		if !ok {
			return []model.SpaceID{dst} // unreachable, by convention
		}
		cur = p
	}
	rev = append(rev, src)
	// reverse
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

// AllPairsBFS computes unweighted hop-count shortest paths and returns
// them as a new table. It does not populate the cache ShortestPath
// reads and does not mark the graph as built; nothing in this module
// selects it as a cache-build mode.
func (g *SpacesGraph) AllPairsBFS() map[model.SrcDest][]model.SpaceID {
	out := make(map[model.SrcDest][]model.SpaceID)
	for src := range g.neighbors {
		prev := map[model.SpaceID]model.SpaceID{}
		visited := map[model.SpaceID]bool{src: true}
		queue := []model.SpaceID{src}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, nb := range g.neighbors[cur] {
				if visited[nb] {
					continue
				}
				visited[nb] = true
				prev[nb] = cur
				queue = append(queue, nb)
			}
		}
		for node := range visited {
			out[model.SrcDest{Src: src, Dst: node}] = reconstruct(prev, src, node)
		}
	}
	return out
}

// ShortestPath returns the memoized path for (s,t). It fails with an
// InvariantError if BuildAllPairs/LoadCache has not run yet.
func (g *SpacesGraph) ShortestPath(s, t model.SpaceID) ([]model.SpaceID, error) {
	if !g.built {
		return nil, errs.InvariantError("shortest path requested before cache built")
	}
	if path, ok := g.cache[model.SrcDest{Src: s, Dst: t}]; ok {
		return path, nil
	}
	return []model.SpaceID{t}, nil
}

// LoadCache parses the persistent path-cache CSV format
// "src,dst,p0;p1;...;pn", one line per pair.
func (g *SpacesGraph) LoadCache(fname string) error {
	f, err := os.Open(fname)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errs.IOError(err, "opening spaces path cache %q", fname)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ",", 3)
		if len(parts) != 3 {
			return errs.IOError(nil, "malformed path cache line %q", line)
		}
		src, err1 := strconv.Atoi(parts[0])
		dst, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			return errs.IOError(nil, "malformed path cache ids in line %q", line)
		}
		var path []model.SpaceID
		for _, p := range strings.Split(parts[2], ";") {
			if p == "" {
				continue
			}
			v, err := strconv.Atoi(p)
			if err != nil {
				return errs.IOError(err, "malformed path cache hop in line %q", line)
			}
			path = append(path, v)
		}
		g.cache[model.SrcDest{Src: src, Dst: dst}] = path
	}
	if err := scanner.Err(); err != nil {
		return errs.IOError(err, "reading spaces path cache %q", fname)
	}
	g.built = true
	return nil
}

// WriteCache rewrites the whole cache file; called once the graph has
// finished building (on close), overwriting any prior cache.
func (g *SpacesGraph) WriteCache(fname string) error {
	f, err := os.Create(fname)
	if err != nil {
		return errs.IOError(err, "writing spaces path cache %q", fname)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()

	for sd, path := range g.cache {
		hops := make([]string, len(path))
		for i, h := range path {
			hops[i] = strconv.Itoa(h)
		}
		fmt.Fprintf(w, "%d,%d,%s\n", sd.Src, sd.Dst, strings.Join(hops, ";"))
	}
	return nil
}
