package transform

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/airbrush/pkg/math"
)

func translated(x, y, z float32) Transform {
	tr := Identity()
	tr.Translation = math.Vec3{X: x, Y: y, Z: z}
	return tr
}

func TestUpdateComposesParentAndChild(t *testing.T) {
	tree := NewTree()
	root, err := tree.Add(NoParent, translated(1, 0, 0))
	require.NoError(t, err)
	child, err := tree.Add(root, translated(0, 2, 0))
	require.NoError(t, err)

	changed := tree.Update()
	assert.Equal(t, []NodeID{root, child}, changed)

	p := tree.World(child).TransformPoint(math.Vec3{})
	assert.Equal(t, math.Vec3{X: 1, Y: 2}, p)
}

func TestUpdateCleanTreeReportsNothing(t *testing.T) {
	tree := NewTree()
	root, _ := tree.Add(NoParent, Identity())
	_, _ = tree.Add(root, Identity())
	tree.Update()

	assert.Empty(t, tree.Update())
}

func TestParentDirtyPropagatesToCleanChild(t *testing.T) {
	tree := NewTree()
	root, _ := tree.Add(NoParent, Identity())
	child, _ := tree.Add(root, translated(0, 0, 0.5))
	sibling, _ := tree.Add(NoParent, Identity())
	tree.Update()

	tree.SetLocal(root, translated(3, 0, 0))
	assert.False(t, tree.Dirty(child))

	changed := tree.Update()
	assert.Equal(t, []NodeID{root, child}, changed)
	assert.NotContains(t, changed, sibling)

	p := tree.World(child).TransformPoint(math.Vec3{})
	assert.InDelta(t, 3, p.X, 1e-6)
	assert.InDelta(t, 0.5, p.Z, 1e-6)
}

func TestChildDirtyLeavesParentAlone(t *testing.T) {
	tree := NewTree()
	root, _ := tree.Add(NoParent, Identity())
	child, _ := tree.Add(root, Identity())
	tree.Update()

	tree.MarkDirty(child)
	assert.Equal(t, []NodeID{child}, tree.Update())
}

func TestRotate(t *testing.T) {
	tree := NewTree()
	root, _ := tree.Add(NoParent, Identity())
	child, _ := tree.Add(root, translated(0, 0, 0.5))
	tree.Update()

	tree.Rotate(root, math.QuatFromAxisAngle(math.Vec3{Y: 1}, math32.Pi/2))
	tree.Update()

	// Front face centre swings from +Z to +X
	p := tree.World(child).TransformPoint(math.Vec3{})
	assert.InDelta(t, 0.5, p.X, 1e-5)
	assert.InDelta(t, 0, p.Z, 1e-5)
}

func TestAddUnknownParent(t *testing.T) {
	tree := NewTree()
	_, err := tree.Add(NodeID(3), Identity())
	assert.True(t, errors.Is(err, ErrUnknownNode))
}
