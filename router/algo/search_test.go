package algo_test

import (
	"testing"

	"github.com/mdeck-tools/routing/router/algo"
	"github.com/stretchr/testify/assert"
)

func route(t *testing.T, g *algo.RoutingGraph, occ *algo.LaneOccupancy, from, to algo.GridCoord) *algo.Route {
	t.Helper()
	r := algo.FindBestRoute(g, occ, from, to)
	assert.NotNil(t, r)
	return r
}

// 相邻两个路径点必须恰好相距一步
func assertAdjacent(t *testing.T, r *algo.Route) {
	t.Helper()
	for i := 1; i < len(r.Waypoints); i++ {
		assert.Equal(t, int32(1),
			r.Waypoints[i-1].Coord.ManhattanTo(r.Waypoints[i].Coord))
	}
}

func TestFindBestRouteAdjacentCells(t *testing.T) {
	a, b := algo.FromInt(1, 1), algo.FromInt(2, 1)
	g := algo.NewRoutingGraph([]algo.GridCoord{a, b}, 3, 3)
	occ := algo.NewLaneOccupancy()

	r := route(t, g, occ, a, b)
	assert.Equal(t, 1.0, r.Complexity.Length)
	assert.Equal(t, int32(0), r.Complexity.Turns)
	assert.Equal(t, int32(0), r.Complexity.LaneChanges)
	assert.Equal(t, algo.Lane(0), r.Waypoints[0].Lane)
	assert.Equal(t, a, r.Waypoints[0].Coord)
	assert.Equal(t, b, r.Waypoints[len(r.Waypoints)-1].Coord)
	assertAdjacent(t, r)
}

func TestFindBestRouteThroughEmptyCell(t *testing.T) {
	// 中间(2,1)无结点，直线穿过空单元格
	a, b := algo.FromInt(1, 1), algo.FromInt(3, 1)
	g := algo.NewRoutingGraph([]algo.GridCoord{a, b}, 3, 3)
	occ := algo.NewLaneOccupancy()

	r := route(t, g, occ, a, b)
	assert.Equal(t, 2.0, r.Complexity.Length)
	assert.Equal(t, int32(0), r.Complexity.Turns)
	assertAdjacent(t, r)
}

func TestFindBestRouteAroundObstacle(t *testing.T) {
	// (2,1)被占用，必须绕行
	a, c, b := algo.FromInt(1, 1), algo.FromInt(2, 1), algo.FromInt(3, 1)
	g := algo.NewRoutingGraph([]algo.GridCoord{a, c, b}, 3, 3)
	occ := algo.NewLaneOccupancy()

	r := route(t, g, occ, a, b)
	assert.Greater(t, r.Complexity.Length, 2.0)
	assert.GreaterOrEqual(t, r.Complexity.Turns, int32(2))
	assertAdjacent(t, r)
	// 路径不得经过障碍中心
	for _, wp := range r.Waypoints {
		assert.NotEqual(t, c, wp.Coord)
	}
}

func TestFindBestRouteLaneFill(t *testing.T) {
	// 同一对结点连续路由三次，车道按0, 1, -1依次占用
	a, b := algo.FromInt(1, 1), algo.FromInt(2, 1)
	g := algo.NewRoutingGraph([]algo.GridCoord{a, b}, 3, 3)
	occ := algo.NewLaneOccupancy()

	expected := []algo.Lane{0, 1, -1}
	for _, want := range expected {
		r := route(t, g, occ, a, b)
		assert.Equal(t, want, r.Waypoints[0].Lane)
		occ.ClaimRoute(r)
	}
}

func TestFindBestRouteLaneExclusivity(t *testing.T) {
	a, b := algo.FromInt(1, 1), algo.FromInt(2, 1)
	g := algo.NewRoutingGraph([]algo.GridCoord{a, b}, 3, 3)
	occ := algo.NewLaneOccupancy()

	type claim struct {
		seg  algo.SegmentId
		lane algo.Lane
	}
	seen := make(map[claim]int)
	for i := 0; i < 3; i++ {
		r := route(t, g, occ, a, b)
		for j := 0; j+1 < len(r.Waypoints); j++ {
			key := claim{
				seg:  algo.NewSegmentId(r.Waypoints[j].Coord, r.Waypoints[j+1].Coord),
				lane: r.Waypoints[j].Lane,
			}
			// 同批次内任何路段上的车道不得被两条路由共用
			_, dup := seen[key]
			assert.False(t, dup)
			seen[key] = i
		}
		occ.ClaimRoute(r)
	}
}

func TestFindBestRouteCenterPreference(t *testing.T) {
	// 无竞争时全程走中心车道
	a, b := algo.FromInt(1, 1), algo.FromInt(3, 2)
	g := algo.NewRoutingGraph([]algo.GridCoord{a, b, algo.FromInt(2, 1)}, 3, 3)
	occ := algo.NewLaneOccupancy()

	r := route(t, g, occ, a, b)
	for _, wp := range r.Waypoints {
		assert.Equal(t, algo.Lane(0), wp.Lane)
	}
}

func TestFindBestRouteTrivial(t *testing.T) {
	a := algo.FromInt(1, 1)
	g := algo.NewRoutingGraph([]algo.GridCoord{a}, 3, 3)
	occ := algo.NewLaneOccupancy()

	r := algo.FindBestRoute(g, occ, a, a)
	assert.NotNil(t, r)
	assert.Len(t, r.Waypoints, 1)
	assert.Equal(t, 0.0, r.Complexity.Total())
}

func TestFindBestRouteUnreachable(t *testing.T) {
	a, b := algo.FromInt(1, 1), algo.FromInt(2, 1)

	// 容量为零时没有任何路段可用
	g := algo.NewRoutingGraph([]algo.GridCoord{a, b}, 0, 0)
	occ := algo.NewLaneOccupancy()
	assert.Nil(t, algo.FindBestRoute(g, occ, a, b))

	// 容量耗尽后同样不可达
	g = algo.NewRoutingGraph([]algo.GridCoord{a, b}, 1, 1)
	occ = algo.NewLaneOccupancy()
	r := route(t, g, occ, a, b)
	occ.ClaimRoute(r)
	for i := 0; i < 8; i++ {
		next := algo.FindBestRoute(g, occ, a, b)
		if next == nil {
			return
		}
		occ.ClaimRoute(next)
	}
	t.Fatal("expected lane capacity to run out")
}

func TestFindBestRouteNegativeCoords(t *testing.T) {
	a, b := algo.FromInt(-2, -1), algo.FromInt(0, 0)
	g := algo.NewRoutingGraph([]algo.GridCoord{a, b}, 3, 3)
	occ := algo.NewLaneOccupancy()

	r := route(t, g, occ, a, b)
	assertAdjacent(t, r)
	assert.Equal(t, a, r.Waypoints[0].Coord)
	assert.Equal(t, b, r.Waypoints[len(r.Waypoints)-1].Coord)
}

func TestFindBestRouteDeterminism(t *testing.T) {
	// 对称网格下数值代价大量并列，重复路由必须逐字节一致
	cells := []algo.GridCoord{
		algo.FromInt(1, 1), algo.FromInt(3, 1),
		algo.FromInt(1, 3), algo.FromInt(3, 3),
		algo.FromInt(2, 2),
	}
	pairs := [][2]algo.GridCoord{
		{algo.FromInt(1, 1), algo.FromInt(3, 3)},
		{algo.FromInt(3, 1), algo.FromInt(1, 3)},
		{algo.FromInt(1, 1), algo.FromInt(3, 1)},
	}

	var baseline []string
	for iter := 0; iter < 50; iter++ {
		g := algo.NewRoutingGraph(cells, 3, 3)
		occ := algo.NewLaneOccupancy()
		var got []string
		for _, p := range pairs {
			r := route(t, g, occ, p[0], p[1])
			occ.ClaimRoute(r)
			got = append(got, algo.RouteToString(r))
		}
		if iter == 0 {
			baseline = got
			continue
		}
		assert.Equal(t, baseline, got)
	}
}
