package algo

import (
	"container/heap"
	"sync"

	"github.com/samber/lo"
)

// 搜索状态键：仅当位置、车道、抵达方向都相同时两个状态才等价
// （抵达方向影响后续转弯判定，车道影响后续变道代价）
type stateKey struct {
	coord   GridCoord
	lane    Lane
	lastDir Direction
}

// A*搜索状态
type searchState struct {
	coord   GridCoord
	lane    Lane
	lastDir Direction
	// 已累积代价 = 长度 + 转弯 + 变道
	gCost float64
	// 复杂度分量，随搜索累积，不做事后重算
	length      float64
	turns       int32
	laneChanges int32
}

func (s *searchState) key() stateKey {
	return stateKey{coord: s.coord, lane: s.lane, lastDir: s.lastDir}
}

// 启发函数：到目标的曼哈顿距离（实际格点单位）
// 每步实际移动恰为0.5单位且代价不小于0.5，可采纳且一致
func heuristic(from, to GridCoord) float64 {
	return float64(from.ManhattanTo(to)) / 2
}

// 沿单一初始方向的A*搜索
//
// 先从起点中心沿initialDir走一步到相邻junction（首段车道从可用车道中枚举），
// 随后在路由图上展开，抵达目标中心即终止。找不到通路返回nil
func astarSingleDirection(
	g *RoutingGraph,
	occupancy *LaneOccupancy,
	source, target GridCoord,
	initialDir Direction,
) *Route {
	firstJunction := source.Step(initialDir)
	if !g.Contains(firstJunction) {
		return nil
	}

	firstSeg := NewSegmentId(source, firstJunction)
	firstLanes := occupancy.AvailableLanes(firstSeg, g.Capacity(firstSeg))
	if len(firstLanes) == 0 {
		return nil
	}

	open := make(PriorityQueue, 0)
	bestG := make(map[stateKey]float64)
	cameFrom := make(map[stateKey]stateKey)

	// 以首个junction处的各可用车道为种子
	for _, lane := range firstLanes {
		state := &searchState{
			coord:   firstJunction,
			lane:    lane,
			lastDir: initialDir,
			gCost:   STEP_LENGTH,
			length:  STEP_LENGTH,
		}
		bestG[state.key()] = state.gCost
		heap.Push(&open, &Item{
			FCost: state.gCost + heuristic(firstJunction, target),
			GCost: state.gCost,
			Coord: firstJunction,
			Lane:  lane,
			Dir:   initialDir,
			state: state,
		})
	}

	for open.Len() > 0 {
		current := heap.Pop(&open).(*Item).state
		currentKey := current.key()

		// 已有更优路径抵达该状态，跳过过期堆元素
		if best, ok := bestG[currentKey]; ok && current.gCost > best {
			continue
		}

		if current.coord == target {
			return reconstructRoute(cameFrom, currentKey, source, current)
		}

		for _, nb := range g.Neighbors(current.coord) {
			// 禁止原地掉头
			if nb.Dir == current.lastDir.Opposite() {
				continue
			}
			// 不得穿过被占用的单元格中心（起终点除外）
			if nb.Coord.IsCellCenter() && g.IsOccupied(nb.Coord) &&
				nb.Coord != source && nb.Coord != target {
				continue
			}
			// 当前位置本身是被占用的中心（非起终点）时不得向外扩展，
			// 否则路径可以借障碍内部"穿行"
			if current.coord.IsCellCenter() && g.IsOccupied(current.coord) &&
				current.coord != source && current.coord != target {
				continue
			}

			available := occupancy.AvailableLanes(nb.Seg, g.Capacity(nb.Seg))
			if len(available) == 0 {
				continue
			}

			isTurn := current.lastDir.IsTurn(nb.Dir)
			for _, nextLane := range available {
				laneChanged := nextLane != current.lane
				cost := STEP_LENGTH
				if isTurn {
					cost += TURN_COST
				} else if laneChanged {
					// 与转弯同时发生的变道免费
					cost += LANE_CHANGE_COST
				}

				newG := current.gCost + cost
				newKey := stateKey{coord: nb.Coord, lane: nextLane, lastDir: nb.Dir}
				if best, ok := bestG[newKey]; ok && newG >= best {
					continue
				}
				bestG[newKey] = newG
				cameFrom[newKey] = currentKey

				next := &searchState{
					coord:       nb.Coord,
					lane:        nextLane,
					lastDir:     nb.Dir,
					gCost:       newG,
					length:      current.length + STEP_LENGTH,
					turns:       current.turns,
					laneChanges: current.laneChanges,
				}
				if isTurn {
					next.turns++
				} else if laneChanged {
					next.laneChanges++
				}
				heap.Push(&open, &Item{
					FCost: newG + heuristic(nb.Coord, target),
					GCost: newG,
					Coord: nb.Coord,
					Lane:  nextLane,
					Dir:   nb.Dir,
					state: next,
				})
			}
		}
	}
	return nil
}

// 沿cameFrom回溯重建路由
func reconstructRoute(
	cameFrom map[stateKey]stateKey,
	finalKey stateKey,
	source GridCoord,
	finalState *searchState,
) *Route {
	pathKeys := []stateKey{finalKey}
	for {
		parent, ok := cameFrom[pathKeys[len(pathKeys)-1]]
		if !ok {
			break
		}
		pathKeys = append(pathKeys, parent)
	}
	pathKeys = lo.Reverse(pathKeys)

	// 起点中心在前，车道取首段所用车道
	waypoints := make([]Waypoint, 0, len(pathKeys)+1)
	waypoints = append(waypoints, Waypoint{Coord: source, Lane: pathKeys[0].lane})
	for i, key := range pathKeys {
		var lane Lane
		if i+1 < len(pathKeys) {
			// 路径点的车道指其后一段路段，即下一个状态的车道
			lane = pathKeys[i+1].lane
		}
		waypoints = append(waypoints, Waypoint{Coord: key.coord, Lane: lane})
	}

	return &Route{
		Waypoints: waypoints,
		Complexity: RouteComplexity{
			Length:      finalState.length,
			Turns:       finalState.turns,
			LaneChanges: finalState.laneChanges,
		},
	}
}

// 求起点到终点的最优路由
//
// 四个初始方向各跑一次独立A*搜索并发执行：它们只读同一份图和占用快照，
// 不写任何共享状态。结果按固定方向序归并，先比复杂度，
// 复杂度完全相同时再按路径点序列字典序裁决，与完成顺序无关
func FindBestRoute(
	g *RoutingGraph,
	occupancy *LaneOccupancy,
	source, target GridCoord,
) *Route {
	// 起终点重合时返回平凡路由，不做搜索
	if source == target {
		return &Route{Waypoints: []Waypoint{{Coord: source, Lane: 0}}}
	}

	t := g.mu.RLock()
	defer g.mu.RUnlock(t)

	var results [len(DIRECTIONS)]*Route
	var wg sync.WaitGroup
	wg.Add(len(DIRECTIONS))
	for i, dir := range DIRECTIONS {
		go func(i int, dir Direction) {
			defer wg.Done()
			results[i] = astarSingleDirection(g, occupancy, source, target, dir)
		}(i, dir)
	}
	wg.Wait()

	var best *Route
	for _, route := range results {
		if route == nil {
			continue
		}
		if best == nil {
			best = route
			continue
		}
		switch c := route.Complexity.Cmp(best.Complexity); {
		case c < 0:
			best = route
		case c == 0 && compareWaypoints(route.Waypoints, best.Waypoints) < 0:
			best = route
		}
	}
	return best
}

// 路径点序列的字典序比较（坐标、车道逐点比较，前缀相同时短者在前）
func compareWaypoints(a, b []Waypoint) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := a[i].Coord.Cmp(b[i].Coord); c != 0 {
			return c
		}
		if a[i].Lane != b[i].Lane {
			if a[i].Lane < b[i].Lane {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
