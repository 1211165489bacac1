package algo

// 记录每条路段上已被占用的车道
// 同一次路由调用内由orchestrator独占持有并在边与边之间修改，
// 单条边的四路并发搜索只读
type LaneOccupancy struct {
	claimed map[SegmentId]map[Lane]struct{}
}

func NewLaneOccupancy() *LaneOccupancy {
	return &LaneOccupancy{claimed: make(map[SegmentId]map[Lane]struct{})}
}

// 指定路段上的车道是否仍可用
func (o *LaneOccupancy) IsAvailable(seg SegmentId, lane Lane) bool {
	lanes, ok := o.claimed[seg]
	if !ok {
		return true
	}
	_, taken := lanes[lane]
	return !taken
}

// 占用指定路段上的车道，重复占用为幂等操作
func (o *LaneOccupancy) Claim(seg SegmentId, lane Lane) {
	lanes, ok := o.claimed[seg]
	if !ok {
		lanes = make(map[Lane]struct{})
		o.claimed[seg] = lanes
	}
	lanes[lane] = struct{}{}
}

// 占用一条路由所用的全部车道：
// 对每对相邻路径点，在两点之间的路段上占用前一个路径点的车道
func (o *LaneOccupancy) ClaimRoute(route *Route) {
	for i := 0; i+1 < len(route.Waypoints); i++ {
		seg := NewSegmentId(route.Waypoints[i].Coord, route.Waypoints[i+1].Coord)
		o.Claim(seg, route.Waypoints[i].Lane)
	}
}

// 指定路段上第一个可用车道（自中心向外）
func (o *LaneOccupancy) FirstAvailable(seg SegmentId, capacity Lane) (Lane, bool) {
	for _, lane := range SpiralLanes(capacity) {
		if o.IsAvailable(seg, lane) {
			return lane, true
		}
	}
	return 0, false
}

// 指定路段上全部可用车道，按偏好定序（中心优先，向外盘旋）
// 这一顺序是路由偏向道路视觉中心的唯一机制
func (o *LaneOccupancy) AvailableLanes(seg SegmentId, capacity Lane) []Lane {
	all := SpiralLanes(capacity)
	available := make([]Lane, 0, len(all))
	for _, lane := range all {
		if o.IsAvailable(seg, lane) {
			available = append(available, lane)
		}
	}
	return available
}

// 指定路段上已占用的车道数
func (o *LaneOccupancy) ClaimedCount(seg SegmentId) int {
	return len(o.claimed[seg])
}

// 车道编号的盘旋序：0, 1, -1, 2, -2, ...，共capacity个
func SpiralLanes(capacity Lane) []Lane {
	if capacity <= 0 {
		return nil
	}
	lanes := make([]Lane, 0, capacity)
	lanes = append(lanes, 0)
	for offset := Lane(1); Lane(len(lanes)) < capacity; offset++ {
		lanes = append(lanes, offset)
		if Lane(len(lanes)) < capacity {
			lanes = append(lanes, -offset)
		}
	}
	return lanes
}

// 由路径点序列重新计算复杂度（用于反序列化得到的路由）
func ComputeComplexity(waypoints []Waypoint) RouteComplexity {
	var complexity RouteComplexity
	for i := 1; i < len(waypoints); i++ {
		prev, curr := waypoints[i-1], waypoints[i]
		complexity.Length += float64(prev.Coord.ManhattanTo(curr.Coord)) / 2

		if i < 2 {
			continue
		}
		prevPrev := waypoints[i-2]
		prevDir, ok1 := segmentDirection(prevPrev.Coord, prev.Coord)
		currDir, ok2 := segmentDirection(prev.Coord, curr.Coord)
		if !ok1 || !ok2 {
			continue
		}
		isTurn := prevDir.IsTurn(currDir)
		if isTurn {
			complexity.Turns++
		}
		// 路径点i-1处的变道：比较其前后两段路段的车道；与转弯同时发生的不计
		if prevPrev.Lane != prev.Lane && !isTurn {
			complexity.LaneChanges++
		}
	}
	return complexity
}

// a到b的行进方向，非轴对齐移动返回false
func segmentDirection(a, b GridCoord) (Direction, bool) {
	dc, dr := b.Col2-a.Col2, b.Row2-a.Row2
	switch {
	case dc > 0 && dr == 0:
		return EAST, true
	case dc < 0 && dr == 0:
		return WEST, true
	case dr > 0 && dc == 0:
		return SOUTH, true
	case dr < 0 && dc == 0:
		return NORTH, true
	default:
		return 0, false
	}
}
