package geometry

import (
	"math"
	"time"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/log"
)

var logger = log.New("bvh")

// Axes narrower than this are not considered for splitting
const minSplitExtent = 1e-6

// BVHConfig controls how the hierarchy is built
type BVHConfig struct {
	LeafSize   int // Nodes with this many triangles or fewer become leaves
	MaxDepth   int // Nodes at this depth become leaves regardless of size
	SplitSteps int // Number of equal steps each axis is divided into when searching for a split
}

// DefaultBVHConfig returns the build parameters used for every scene
func DefaultBVHConfig() BVHConfig {
	return BVHConfig{
		LeafSize:   2,
		MaxDepth:   16,
		SplitSteps: 16,
	}
}

// PrimitiveRef identifies one triangle of one mesh
type PrimitiveRef struct {
	Mesh     int
	Triangle int
}

// BVHNode is a node of the hierarchy. Children are indices into the node
// array; leaves have Left == Right == -1 and own Refs[First:First+Count].
type BVHNode struct {
	Box   core.AABB
	Left  int
	Right int
	First int
	Count int
	Depth int
}

// IsLeaf reports whether the node stores primitives directly
func (n BVHNode) IsLeaf() bool {
	return n.Left < 0
}

// BVH is a bounding volume hierarchy over the triangles of a set of meshes.
// Nodes live in one array with the root at index 0. It is read-only after
// NewBVH returns and safe for concurrent queries.
type BVH struct {
	meshes    []Mesh
	config    BVHConfig
	nodes     []BVHNode
	refs      []PrimitiveRef
	buildTime time.Duration
}

// buildItem caches the bounds of a primitive during construction
type buildItem struct {
	ref      PrimitiveRef
	box      core.AABB
	centroid core.Vec3
}

// NewBVH builds the hierarchy over every triangle of meshes. The meshes slice
// is retained and must not be modified while the BVH is in use.
func NewBVH(meshes []Mesh, config BVHConfig) *BVH {
	start := time.Now()

	var items []buildItem
	for mi := range meshes {
		for ti := range meshes[mi].Triangles {
			box := meshes[mi].TriangleBounds(ti)
			items = append(items, buildItem{
				ref:      PrimitiveRef{Mesh: mi, Triangle: ti},
				box:      box,
				centroid: box.Center(),
			})
		}
	}

	bvh := &BVH{
		meshes: meshes,
		config: config,
		refs:   make([]PrimitiveRef, 0, len(items)),
	}
	if len(items) > 0 {
		bvh.build(items, 0)
	}
	bvh.buildTime = time.Since(start)

	logger.Debugf("built BVH over %d triangles: %d nodes in %v", len(items), len(bvh.nodes), bvh.buildTime)
	return bvh
}

// build creates the node for items at the given depth and returns its index
func (b *BVH) build(items []buildItem, depth int) int {
	box := core.EmptyAABB()
	for _, item := range items {
		box = box.Union(item.box)
	}

	index := len(b.nodes)
	b.nodes = append(b.nodes, BVHNode{Box: box, Left: -1, Right: -1, Depth: depth})

	if len(items) <= b.config.LeafSize || depth >= b.config.MaxDepth {
		b.makeLeaf(index, items)
		return index
	}

	axis, position, ok := b.findSplit(items, box)
	if !ok {
		b.makeLeaf(index, items)
		return index
	}

	left, right := partition(items, axis, position)
	leftIndex := b.build(left, depth+1)
	rightIndex := b.build(right, depth+1)

	b.nodes[index].Left = leftIndex
	b.nodes[index].Right = rightIndex
	return index
}

func (b *BVH) makeLeaf(index int, items []buildItem) {
	b.nodes[index].First = len(b.refs)
	b.nodes[index].Count = len(items)
	for _, item := range items {
		b.refs = append(b.refs, item.ref)
	}
}

// findSplit evaluates SplitSteps-1 evenly spaced candidate planes strictly
// inside each axis range, scanning X, Y, Z in order. The first candidate with
// the lowest surface area cost wins.
func (b *BVH) findSplit(items []buildItem, box core.AABB) (int, float64, bool) {
	parentArea := box.SurfaceArea()
	bestAxis := -1
	bestPosition := 0.0
	bestCost := math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		lo := box.Min.Axis(axis)
		extent := box.Max.Axis(axis) - lo
		if extent < minSplitExtent {
			continue
		}
		step := extent / float64(b.config.SplitSteps)

		for k := 1; k < b.config.SplitSteps; k++ {
			position := lo + step*float64(k)

			leftBox, rightBox := core.EmptyAABB(), core.EmptyAABB()
			leftCount, rightCount := 0, 0
			for _, item := range items {
				if item.centroid.Axis(axis) < position {
					leftBox = leftBox.Union(item.box)
					leftCount++
				} else {
					rightBox = rightBox.Union(item.box)
					rightCount++
				}
			}
			if leftCount == 0 || rightCount == 0 {
				continue
			}

			cost := float64(leftCount)*areaRatio(leftBox, parentArea) +
				float64(rightCount)*areaRatio(rightBox, parentArea)
			if cost < bestCost {
				bestCost = cost
				bestAxis = axis
				bestPosition = position
			}
		}
	}

	return bestAxis, bestPosition, bestAxis >= 0
}

// areaRatio is SA(box)/parentArea, or 0 for a flat parent
func areaRatio(box core.AABB, parentArea float64) float64 {
	if parentArea <= 0 {
		return 0
	}
	return box.SurfaceArea() / parentArea
}

// partition splits items by centroid, keeping input order on both sides
func partition(items []buildItem, axis int, position float64) ([]buildItem, []buildItem) {
	var left, right []buildItem
	for _, item := range items {
		if item.centroid.Axis(axis) < position {
			left = append(left, item)
		} else {
			right = append(right, item)
		}
	}
	return left, right
}

// Intersect finds the closest triangle hit along the ray. On success it
// commits the distance to ray.T and fills hit with the face normal, the mesh
// material and the mesh index.
func (b *BVH) Intersect(ray *core.Ray, hit *HitInfo) bool {
	if len(b.nodes) == 0 {
		return false
	}
	return b.intersectNode(0, ray, hit)
}

func (b *BVH) intersectNode(index int, ray *core.Ray, hit *HitInfo) bool {
	node := &b.nodes[index]

	// The box test uses a fresh distance so that an origin inside the box
	// and hits recorded elsewhere do not prune the subtree
	probe := ray.Reset()
	if !IntersectBox(node.Box, &probe) {
		return false
	}

	if node.IsLeaf() {
		hitAnything := false
		for _, ref := range b.refs[node.First : node.First+node.Count] {
			mesh := &b.meshes[ref.Mesh]
			v0, v1, v2 := mesh.Triangle(ref.Triangle)
			if IntersectTriangle(v0, v1, v2, ray, hit) {
				hit.Material = mesh.Material
				hit.MeshIndex = ref.Mesh
				hitAnything = true
			}
		}
		return hitAnything
	}

	// Child boxes may overlap, so both subtrees are always visited
	hitLeft := b.intersectNode(node.Left, ray, hit)
	hitRight := b.intersectNode(node.Right, ray, hit)
	return hitLeft || hitRight
}

// Bounds returns the box around every triangle, or the empty box
func (b *BVH) Bounds() core.AABB {
	if len(b.nodes) == 0 {
		return core.EmptyAABB()
	}
	return b.nodes[0].Box
}

// Nodes returns the node array. Callers must not modify it.
func (b *BVH) Nodes() []BVHNode {
	return b.nodes
}

// Refs returns the primitive references indexed by leaves. Callers must not
// modify it.
func (b *BVH) Refs() []PrimitiveRef {
	return b.refs
}

// Config returns the parameters the hierarchy was built with
func (b *BVH) Config() BVHConfig {
	return b.config
}

// Levels returns the number of levels in the tree, 0 for an empty tree
func (b *BVH) Levels() int {
	levels := 0
	for _, node := range b.nodes {
		levels = max(levels, node.Depth+1)
	}
	return levels
}

// BoxesAtLevel returns the boxes of every node at the given depth, in build
// order. The root is level 0.
func (b *BVH) BoxesAtLevel(level int) []core.AABB {
	var boxes []core.AABB
	for _, node := range b.nodes {
		if node.Depth == level {
			boxes = append(boxes, node.Box)
		}
	}
	return boxes
}

// BVHStats summarizes the shape of a hierarchy
type BVHStats struct {
	Nodes            int
	Leaves           int
	Primitives       int
	MaxDepth         int
	MaxLeafSize      int
	AverageLeafSize  float64
	AverageLeafDepth float64
	BuildTime        time.Duration
}

// Stats walks the node array and returns summary statistics
func (b *BVH) Stats() BVHStats {
	stats := BVHStats{
		Nodes:      len(b.nodes),
		Primitives: len(b.refs),
		BuildTime:  b.buildTime,
	}

	depthSum := 0
	for _, node := range b.nodes {
		stats.MaxDepth = max(stats.MaxDepth, node.Depth)
		if node.IsLeaf() {
			stats.Leaves++
			depthSum += node.Depth
			stats.MaxLeafSize = max(stats.MaxLeafSize, node.Count)
		}
	}

	if stats.Leaves > 0 {
		stats.AverageLeafSize = float64(stats.Primitives) / float64(stats.Leaves)
		stats.AverageLeafDepth = float64(depthSum) / float64(stats.Leaves)
	}
	return stats
}
