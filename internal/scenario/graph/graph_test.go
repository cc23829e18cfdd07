package graph_test

import (
	"os"
	"path/filepath"
	"testing"

	"smartspec-scenariogen/internal/scenario/graph"
	"smartspec-scenariogen/internal/scenario/model"
)

func line() *graph.SpacesGraph {
	g := graph.New()
	g.AddNode(0, model.Coordinates{0, 0, 0}, []model.SpaceID{1})
	g.AddNode(1, model.Coordinates{1, 0, 0}, []model.SpaceID{0, 2})
	g.AddNode(2, model.Coordinates{2, 0, 0}, []model.SpaceID{1, 3})
	g.AddNode(3, model.Coordinates{3, 0, 0}, []model.SpaceID{2})
	return g
}

func TestShortestPathFailsBeforeBuild(t *testing.T) {
	g := line()
	if _, err := g.ShortestPath(0, 3); err == nil {
		t.Fatal("expected an error before BuildAllPairs")
	}
}

func TestShortestPathRouting(t *testing.T) {
	g := line()
	g.BuildAllPairs()
	path, err := g.ShortestPath(0, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []model.SpaceID{0, 1, 2, 3}
	if len(path) != len(want) {
		t.Fatalf("path = %v, want %v", path, want)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Fatalf("path = %v, want %v", path, want)
		}
	}
}

func TestUnreachableReturnsDestOnly(t *testing.T) {
	g := graph.New()
	g.AddNode(0, model.Coordinates{0, 0, 0}, nil)
	g.AddNode(5, model.Coordinates{5, 0, 0}, nil)
	g.BuildAllPairs()
	path, err := g.ShortestPath(0, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(path) != 1 || path[0] != 5 {
		t.Fatalf("expected [5] for unreachable pair, got %v", path)
	}
}

func TestCacheRoundTrip(t *testing.T) {
	g := line()
	g.BuildAllPairs()

	dir := t.TempDir()
	cachePath := filepath.Join(dir, "spaces-cache.csv")
	if err := g.WriteCache(cachePath); err != nil {
		t.Fatal(err)
	}

	g2 := graph.New()
	if err := g2.LoadCache(cachePath); err != nil {
		t.Fatal(err)
	}
	path, err := g2.ShortestPath(0, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(path) != 4 || path[0] != 0 || path[3] != 3 {
		t.Fatalf("round-tripped path wrong: %v", path)
	}
}

func TestLoadCacheMissingFileIsNotBuilt(t *testing.T) {
	g := graph.New()
	if err := g.LoadCache(filepath.Join(os.TempDir(), "does-not-exist-smartspec.csv")); err != nil {
		t.Fatal(err)
	}
	if _, err := g.ShortestPath(0, 1); err == nil {
		t.Fatal("expected shortest path to still fail: cache file was absent, not loaded")
	}
}
