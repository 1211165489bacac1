package router

import (
	"github.com/mdeck-tools/routing/router/algo"
)

// 图中的一个结点，占据一个整数格点单元格
type DiagramNode struct {
	Name string `json:"name" bson:"name" validate:"required"`
	Col  int32  `json:"col" bson:"col"`
	Row  int32  `json:"row" bson:"row"`
}

// 结点间的一条连线，按名字引用两端
type DiagramEdge struct {
	Source string `json:"source" bson:"source" validate:"required"`
	Target string `json:"target" bson:"target" validate:"required"`
	Label  string `json:"label,omitempty" bson:"label,omitempty"`
}

// 完整的待路由图
type Diagram struct {
	Nodes []DiagramNode `json:"nodes" bson:"nodes" validate:"required,dive"`
	Edges []DiagramEdge `json:"edges" bson:"edges" validate:"dive"`
}

// 路由配置：水平/竖直路段的车道容量，0表示该朝向不可通行
type RoutingConfig struct {
	HLaneCapacity algo.Lane `json:"h_lane_capacity" bson:"h_lane_capacity" validate:"min=0"`
	VLaneCapacity algo.Lane `json:"v_lane_capacity" bson:"v_lane_capacity" validate:"min=0"`
}

func DefaultRoutingConfig() RoutingConfig {
	return RoutingConfig{HLaneCapacity: 3, VLaneCapacity: 3}
}

// 单条边的路由结果，成功时Route非空，失败时Message描述原因
type RouteResult struct {
	Edge    DiagramEdge `json:"edge"`
	Route   *algo.Route `json:"route,omitempty"`
	Message string      `json:"message,omitempty"`
}

func (r *RouteResult) OK() bool {
	return r.Route != nil
}
