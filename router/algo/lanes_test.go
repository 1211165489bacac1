package algo_test

import (
	"testing"

	"github.com/mdeck-tools/routing/router/algo"
	"github.com/stretchr/testify/assert"
)

func TestSpiralLanes(t *testing.T) {
	// 自中心向外盘旋，正车道在前
	assert.Equal(t, []algo.Lane{0}, algo.SpiralLanes(1))
	assert.Equal(t, []algo.Lane{0, 1}, algo.SpiralLanes(2))
	assert.Equal(t, []algo.Lane{0, 1, -1}, algo.SpiralLanes(3))
	assert.Equal(t, []algo.Lane{0, 1, -1, 2, -2}, algo.SpiralLanes(5))
	assert.Nil(t, algo.SpiralLanes(0))
}

func TestLaneOccupancy(t *testing.T) {
	occ := algo.NewLaneOccupancy()
	seg := algo.NewSegmentId(algo.FromInt(1, 1), algo.FromGrid(1.5, 1))

	assert.True(t, occ.IsAvailable(seg, 0))
	lane, ok := occ.FirstAvailable(seg, 3)
	assert.True(t, ok)
	assert.Equal(t, algo.Lane(0), lane)

	occ.Claim(seg, 0)
	assert.False(t, occ.IsAvailable(seg, 0))
	assert.True(t, occ.IsAvailable(seg, 1))
	assert.Equal(t, 1, occ.ClaimedCount(seg))

	// 重复占用幂等
	occ.Claim(seg, 0)
	assert.Equal(t, 1, occ.ClaimedCount(seg))

	lane, ok = occ.FirstAvailable(seg, 3)
	assert.True(t, ok)
	assert.Equal(t, algo.Lane(1), lane)
	assert.Equal(t, []algo.Lane{1, -1}, occ.AvailableLanes(seg, 3))

	// 容量耗尽
	occ.Claim(seg, 1)
	occ.Claim(seg, -1)
	_, ok = occ.FirstAvailable(seg, 3)
	assert.False(t, ok)
	assert.Empty(t, occ.AvailableLanes(seg, 3))
}

func TestClaimRoute(t *testing.T) {
	occ := algo.NewLaneOccupancy()
	a := algo.FromInt(1, 1)
	j := a.Step(algo.EAST)
	b := j.Step(algo.EAST)
	route := &algo.Route{Waypoints: []algo.Waypoint{
		{Coord: a, Lane: 1},
		{Coord: j, Lane: 1},
		{Coord: b, Lane: 0},
	}}

	occ.ClaimRoute(route)

	// 每段占用的是前一个路径点的车道
	assert.False(t, occ.IsAvailable(algo.NewSegmentId(a, j), 1))
	assert.False(t, occ.IsAvailable(algo.NewSegmentId(j, b), 1))
	assert.True(t, occ.IsAvailable(algo.NewSegmentId(a, j), 0))
}

func TestComputeComplexity(t *testing.T) {
	// 直行：无转弯无变道
	straight := []algo.Waypoint{
		{Coord: algo.FromInt(1, 1), Lane: 0},
		{Coord: algo.FromGrid(1.5, 1), Lane: 0},
		{Coord: algo.FromInt(2, 1), Lane: 0},
	}
	c := algo.ComputeComplexity(straight)
	assert.Equal(t, 1.0, c.Length)
	assert.Equal(t, int32(0), c.Turns)
	assert.Equal(t, int32(0), c.LaneChanges)
	assert.Equal(t, 1.0, c.Total())

	// 拐弯：与转弯同时发生的变道不计
	corner := []algo.Waypoint{
		{Coord: algo.FromInt(1, 1), Lane: 0},
		{Coord: algo.FromGrid(1.5, 1), Lane: 1},
		{Coord: algo.FromGrid(1.5, 2), Lane: 0},
		{Coord: algo.FromInt(2, 2), Lane: 0},
	}
	c = algo.ComputeComplexity(corner)
	assert.Equal(t, 2.0, c.Length)
	assert.Equal(t, int32(2), c.Turns)
	assert.Equal(t, int32(0), c.LaneChanges)

	// 直行途中变道
	laneShift := []algo.Waypoint{
		{Coord: algo.FromInt(1, 1), Lane: 0},
		{Coord: algo.FromGrid(1.5, 1), Lane: 1},
		{Coord: algo.FromInt(2, 1), Lane: 1},
		{Coord: algo.FromGrid(2.5, 1), Lane: 1},
		{Coord: algo.FromInt(3, 1), Lane: 0},
	}
	c = algo.ComputeComplexity(laneShift)
	assert.Equal(t, 2.0, c.Length)
	assert.Equal(t, int32(0), c.Turns)
	assert.Equal(t, int32(1), c.LaneChanges)

	// 单点路由复杂度为零
	c = algo.ComputeComplexity([]algo.Waypoint{{Coord: algo.FromInt(1, 1)}})
	assert.Equal(t, 0.0, c.Total())
}
