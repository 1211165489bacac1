package router

import (
	"fmt"

	"github.com/mdeck-tools/routing/router/algo"
	"github.com/samber/lo"
)

type Router struct {
	config RoutingConfig

	// 结点名 -> 单元格中心，重名时后者覆盖前者
	positions map[string]algo.GridCoord
	graph     *algo.RoutingGraph
}

func New(nodes []DiagramNode, config RoutingConfig) *Router {
	positions := make(map[string]algo.GridCoord, len(nodes))
	for _, node := range nodes {
		positions[node.Name] = algo.FromInt(node.Col, node.Row)
	}

	cells := lo.Map(nodes, func(node DiagramNode, _ int) algo.GridCoord {
		return algo.FromInt(node.Col, node.Row)
	})
	r := &Router{
		config:    config,
		positions: positions,
		graph:     algo.NewRoutingGraph(cells, config.HLaneCapacity, config.VLaneCapacity),
	}
	log.Debugf("router built: %d nodes, %d graph positions", len(nodes), r.graph.NodeCount())
	return r
}

func (r *Router) HasNode(name string) bool {
	_, ok := r.positions[name]
	return ok
}

// 路由单条边
//
// 搜索以occupancy当前状态为只读快照，成功与否都不修改occupancy，
// 占用由调用方决定（RouteAllEdges在成功后立即占用）
func (r *Router) RouteEdge(edge DiagramEdge, occupancy *algo.LaneOccupancy) (result RouteResult) {
	result = RouteResult{Edge: edge}

	// panic recover
	defer func() {
		if e := recover(); e != nil {
			result.Route = nil
			result.Message = fmt.Sprintf(
				"panic: RouteEdge %v with input source=%s, target=%s", e, edge.Source, edge.Target)
			log.Errorln(result.Message)
		}
	}()

	// 先查起点名，再查终点名
	source, ok := r.positions[edge.Source]
	if !ok {
		result.Message = fmt.Sprintf("Unknown source node '%s'", edge.Source)
		return
	}
	target, ok := r.positions[edge.Target]
	if !ok {
		result.Message = fmt.Sprintf("Unknown target node '%s'", edge.Target)
		return
	}

	route := algo.FindBestRoute(r.graph, occupancy, source, target)
	if route == nil {
		result.Message = fmt.Sprintf(
			"Could not find route from '%s' to '%s'", edge.Source, edge.Target)
		return
	}
	result.Route = route
	return
}

// 按输入顺序路由全部边
//
// 边的顺序有意义：先到的边先占用偏好车道，改变输入顺序会改变输出。
// 单条边失败只记录结果，不影响后续边的处理，失败的边不占用任何车道
func (r *Router) RouteAllEdges(edges []DiagramEdge) []RouteResult {
	occupancy := algo.NewLaneOccupancy()
	results := make([]RouteResult, 0, len(edges))
	for _, edge := range edges {
		result := r.RouteEdge(edge, occupancy)
		if result.OK() {
			occupancy.ClaimRoute(result.Route)
		} else {
			log.Debugf("edge %s -> %s not routed: %s", edge.Source, edge.Target, result.Message)
		}
		results = append(results, result)
	}
	return results
}

// 一次性路由整个图
func RouteDiagram(diagram *Diagram, config RoutingConfig) []RouteResult {
	return New(diagram.Nodes, config).RouteAllEdges(diagram.Edges)
}
