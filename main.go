package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/joho/godotenv"
	"github.com/mdeck-tools/routing/router"
	"github.com/mdeck-tools/routing/router/algo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var (
	// 配置信息
	mongoURI       = flag.String("mongo_uri", "", "mongo db uri (fallback: MONGO_URI env)")
	diagramPathStr = flag.String("diagram", "", "route the diagram once and print results [format: {fspath} or {db}.{col}]")
	listenAddr     = flag.String("listen", "localhost:52101", "HTTP listening address")
	logLevel       = flag.String("log-level", "info", "log level [debug, info, warn, error, fatal, panic]")
	hLanes         = flag.Int("h-lanes", 3, "lane capacity of horizontal road segments")
	vLanes         = flag.Int("v-lanes", 3, "lane capacity of vertical road segments")

	// 性能测试
	benchmark = flag.Bool("benchmark", false, "benchmark mode")
	pprofAddr = flag.String("pprof", "localhost:52102", "pprof listening address")

	LOG_LEVELS = map[string]logrus.Level{
		"debug": logrus.DebugLevel,
		"info":  logrus.InfoLevel,
		"warn":  logrus.WarnLevel,
		"error": logrus.ErrorLevel,
		"fatal": logrus.FatalLevel,
		"panic": logrus.PanicLevel,
	}
)

// 一次性路由：加载图，整体路由一遍，把每条边的结果打印到stdout
func routeOnce(config router.RoutingConfig) {
	diagramPath, err := NewPath(*diagramPathStr)
	if err != nil {
		logrus.Fatalf("invalid diagram path: %s", err)
	}
	diagram, err := LoadDiagram(context.Background(), *mongoURI, diagramPath)
	if err != nil {
		logrus.Fatalf("failed to load diagram: %s", err)
	}
	for _, res := range router.RouteDiagram(diagram, config) {
		if res.OK() {
			fmt.Printf("%s -> %s: %s\n",
				res.Edge.Source, res.Edge.Target, algo.RouteToString(res.Route))
		} else {
			fmt.Printf("%s -> %s: %s\n", res.Edge.Source, res.Edge.Target, res.Message)
		}
	}
}

func main() {
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	if err := godotenv.Load(); err == nil {
		log.Debug("loaded .env")
	}
	flag.Parse()
	if level, ok := LOG_LEVELS[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		logrus.Fatalf("invalid log level: %s", *logLevel)
	}
	if *mongoURI == "" {
		*mongoURI = os.Getenv("MONGO_URI")
	}

	config := router.RoutingConfig{
		HLaneCapacity: algo.Lane(*hLanes),
		VLaneCapacity: algo.Lane(*vLanes),
	}

	if *pprofAddr != "" {
		// 启动pprof
		startHTTPDebugger(*pprofAddr)
	}

	if *benchmark {
		// 性能测试
		runBenchmark(config)
		return
	}

	if *diagramPathStr != "" {
		// 一次性路由后退出
		routeOnce(config)
		return
	}

	// 启动路由服务
	reg := prometheus.NewRegistry()
	server := NewRoutingServer(config, NewMetrics(reg))
	s := &http.Server{
		Addr:    *listenAddr,
		Handler: newHTTPHandler(server, reg),
	}

	// 优雅退出
	// 创建监听退出chan
	signalCh := make(chan os.Signal, 1)
	//监听指定信号 ctrl+c kill
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signalCh
		log.Info("stopping...")
		go func() {
			<-signalCh
			os.Exit(1) // 强制结束
		}()
		// 退出HTTP server
		s.Close()
		// 退出路由服务
		server.Close()
		os.Exit(0)
	}()

	// 启动HTTP server
	log.Infof("server listening at %v", s.Addr)
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("failed to serve: %v", err)
	}
	time.Sleep(1 * time.Second) // 延迟等待"优雅退出"
	log.Info("routing closes")
}
