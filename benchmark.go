package main

import (
	"flag"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mdeck-tools/routing/router"
	"github.com/sirupsen/logrus"
)

var (
	benchmarkCount = flag.Int("benchmark.count", 100, "the random diagram count for benchmark")
	benchmarkGrid  = flag.Int("benchmark.grid", 10, "the grid side length for benchmark diagrams")
	benchmarkNodes = flag.Int("benchmark.nodes", 20, "the node count per benchmark diagram")
	benchmarkEdges = flag.Int("benchmark.edges", 40, "the edge count per benchmark diagram")
	benchmarkSeed  = flag.Int64("benchmark.seed", 0, "the seed for benchmark")
	benchmarkCPU   = flag.Int("benchmark.cpu", 1, "the cpu count for benchmark")
)

// 生成随机图：在grid*grid的格点中随机放置结点，随机连边
func randomDiagram(e *rand.Rand) *router.Diagram {
	grid := *benchmarkGrid
	nodeCount := *benchmarkNodes
	if max := grid * grid; nodeCount > max {
		nodeCount = max
	}

	cells := e.Perm(grid * grid)[:nodeCount]
	nodes := make([]router.DiagramNode, nodeCount)
	for i, cell := range cells {
		nodes[i] = router.DiagramNode{
			Name: fmt.Sprintf("N%d", i),
			Col:  int32(cell % grid),
			Row:  int32(cell / grid),
		}
	}
	edges := make([]router.DiagramEdge, *benchmarkEdges)
	for i := range edges {
		edges[i] = router.DiagramEdge{
			Source: nodes[e.Intn(nodeCount)].Name,
			Target: nodes[e.Intn(nodeCount)].Name,
		}
	}
	return &router.Diagram{Nodes: nodes, Edges: edges}
}

func runBenchmark(config router.RoutingConfig) {
	log.Logger.SetLevel(logrus.WarnLevel)
	// 设置随机种子
	e := rand.New(rand.NewSource(*benchmarkSeed))
	// 随机生成benchmarkCount个图，每个图整体路由一次
	diagrams := make([]*router.Diagram, *benchmarkCount)
	for i := range diagrams {
		diagrams[i] = randomDiagram(e)
	}

	// 开始benchmark
	start := time.Now()
	var wg sync.WaitGroup
	var routed, failed atomic.Int64
	count := func(results []router.RouteResult) {
		for _, res := range results {
			if res.OK() {
				routed.Add(1)
			} else {
				failed.Add(1)
			}
		}
	}
	if *benchmarkCPU == 1 {
		for _, diagram := range diagrams {
			count(router.RouteDiagram(diagram, config))
		}
	} else {
		// 设置cpu数量
		runtime.GOMAXPROCS(*benchmarkCPU)
		wg.Add(len(diagrams))
		for _, diagram := range diagrams {
			go func(diagram *router.Diagram) {
				defer wg.Done()
				count(router.RouteDiagram(diagram, config))
			}(diagram)
		}
		wg.Wait()
	}
	timeCost := time.Since(start) * time.Duration(*benchmarkCPU)
	log.Error(
		"benchmark finished", "\n",
		"diagrams:", *benchmarkCount, "\n",
		"time:", timeCost, "\n",
		"avg:", timeCost/time.Duration(*benchmarkCount), "\n",
		"routed edges:", routed.Load(), "\n",
		"failed edges:", failed.Load(), "\n",
	)
}
