// Package transform implements the local/world transform hierarchy.
//
// Nodes live in an arena and refer to their parent by index. A node is
// always added after its parent, so walking the arena in index order
// visits every parent before its children and a single pass is enough to
// bring all world matrices up to date.
package transform

import (
	"errors"
	"fmt"

	"github.com/Faultbox/airbrush/pkg/math"
)

// ErrUnknownNode is returned when a node id does not exist in the tree.
var ErrUnknownNode = errors.New("unknown transform node")

// Transform is a local scale/rotation/translation triple.
type Transform struct {
	Scale       math.Vec3
	Rotation    math.Quat
	Translation math.Vec3
}

// Identity returns the transform that changes nothing.
func Identity() Transform {
	return Transform{
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
		Rotation: math.QuatIdentity(),
	}
}

// Matrix returns translation * rotation * scale.
func (t Transform) Matrix() math.Mat4 {
	return math.Compose(t.Scale, t.Rotation, t.Translation)
}

// NodeID addresses a node in a Tree.
type NodeID int

// NoParent marks a root node.
const NoParent NodeID = -1

type node struct {
	parent NodeID
	local  Transform
	world  math.Mat4
	dirty  bool
}

// Tree is an arena of transform nodes.
type Tree struct {
	nodes []node
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{}
}

// Add appends a node under parent (or NoParent) and returns its id.
// New nodes start dirty.
func (t *Tree) Add(parent NodeID, local Transform) (NodeID, error) {
	if parent != NoParent && !t.valid(parent) {
		return NoParent, fmt.Errorf("%w: parent %d", ErrUnknownNode, parent)
	}
	t.nodes = append(t.nodes, node{
		parent: parent,
		local:  local,
		world:  math.Identity(),
		dirty:  true,
	})
	return NodeID(len(t.nodes) - 1), nil
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Parent returns the parent of id.
func (t *Tree) Parent(id NodeID) NodeID {
	return t.nodes[id].parent
}

// Local returns the local transform of id.
func (t *Tree) Local(id NodeID) Transform {
	return t.nodes[id].local
}

// SetLocal replaces the local transform and marks the node dirty.
func (t *Tree) SetLocal(id NodeID, local Transform) {
	t.nodes[id].local = local
	t.nodes[id].dirty = true
}

// Rotate pre-multiplies the node's rotation by q and marks it dirty.
func (t *Tree) Rotate(id NodeID, q math.Quat) {
	n := &t.nodes[id]
	n.local.Rotation = q.Mul(n.local.Rotation).Normalize()
	n.dirty = true
}

// MarkDirty flags id for recomputation on the next Update.
func (t *Tree) MarkDirty(id NodeID) {
	t.nodes[id].dirty = true
}

// Dirty reports whether id has a pending local change.
func (t *Tree) Dirty(id NodeID) bool {
	return t.nodes[id].dirty
}

// World returns the world matrix computed by the last Update.
func (t *Tree) World(id NodeID) math.Mat4 {
	return t.nodes[id].world
}

// Update is the per-tick invalidation pass. It recomputes the world matrix
// of every node that is dirty or has a recomputed ancestor, clears the
// dirty flags and returns exactly the recomputed ids in index order.
func (t *Tree) Update() []NodeID {
	var changed []NodeID
	recomputed := make([]bool, len(t.nodes))

	for i := range t.nodes {
		n := &t.nodes[i]
		parentChanged := n.parent != NoParent && recomputed[n.parent]
		if !n.dirty && !parentChanged {
			continue
		}

		local := n.local.Matrix()
		if n.parent == NoParent {
			n.world = local
		} else {
			n.world = t.nodes[n.parent].world.Mul(local)
		}
		n.dirty = false
		recomputed[i] = true
		changed = append(changed, NodeID(i))
	}
	return changed
}

func (t *Tree) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}
