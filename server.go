package main

import (
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/google/uuid"
	"github.com/mdeck-tools/routing/router"
	"github.com/mdeck-tools/routing/router/algo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RoutingServer struct {
	config  router.RoutingConfig
	metrics *Metrics

	validate *validator.Validate
	trans    ut.Translator

	// 接口开启true或关闭false
	ok bool
	// 条件变量
	cond *sync.Cond
}

func NewRoutingServer(config router.RoutingConfig, metrics *Metrics) *RoutingServer {
	validate := validator.New()
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	return &RoutingServer{
		config:   config,
		metrics:  metrics,
		validate: validate,
		trans:    trans,
		ok:       true, cond: sync.NewCond(&sync.Mutex{})}
}

// RouteRequest model info
type RouteRequest struct {
	Nodes  []router.DiagramNode  `json:"nodes" validate:"required,min=1,dive"`
	Edges  []router.DiagramEdge  `json:"edges" validate:"dive"`
	Config *router.RoutingConfig `json:"config,omitempty"`
}

func (s *RouteRequest) Bind(r *http.Request) error {
	if len(s.Nodes) == 0 {
		return errors.New("invalid request")
	}
	return nil
}

// EdgeRouteResult model info
type EdgeRouteResult struct {
	Edge       router.DiagramEdge    `json:"edge"`
	Route      string                `json:"route,omitempty"`
	Complexity *algo.RouteComplexity `json:"complexity,omitempty"`
	Message    string                `json:"message,omitempty"`
}

// RouteResponse model info
type RouteResponse struct {
	Results []EdgeRouteResult `json:"results"`
}

func RenderRouteResponse(results []router.RouteResult) *RouteResponse {
	resp := &RouteResponse{Results: make([]EdgeRouteResult, 0, len(results))}
	for _, res := range results {
		out := EdgeRouteResult{Edge: res.Edge, Message: res.Message}
		if res.OK() {
			out.Route = algo.RouteToString(res.Route)
			complexity := res.Route.Complexity
			out.Complexity = &complexity
		}
		resp.Results = append(resp.Results, out)
	}
	return resp
}

func (s *RoutingServer) RouteDiagram(w http.ResponseWriter, r *http.Request) {
	// 暂停-恢复机制
	s.cond.L.Lock()
	for !s.ok {
		// 暂停中
		s.cond.Wait()
	}
	s.cond.L.Unlock()

	data := &RouteRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if err := s.validate.Struct(*data); err != nil {
		render.Render(w, r, ErrValidation(err, translateError(err, s.trans)))
		return
	}

	config := s.config
	if data.Config != nil {
		config = *data.Config
	}
	log.Debugf("routing %d edges over %d nodes", len(data.Edges), len(data.Nodes))
	results := router.RouteDiagram(&router.Diagram{
		Nodes: data.Nodes,
		Edges: data.Edges,
	}, config)

	if s.metrics != nil {
		for _, res := range results {
			if res.OK() {
				s.metrics.routedEdges.Inc()
			} else {
				s.metrics.failedEdges.Inc()
			}
		}
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, RenderRouteResponse(results))
}

func (s *RoutingServer) Health(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// 暂停路由服务
func (s *RoutingServer) Suspend() {
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	s.ok = false
}

// 恢复路由服务
func (s *RoutingServer) Resume() {
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	s.ok = true
	s.cond.Broadcast()
}

// 关闭路由服务
func (s *RoutingServer) Close() {}

// 给每个请求打上uuid，便于日志追踪
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)
		next.ServeHTTP(w, r)
	})
}

func newHTTPHandler(s *RoutingServer, reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	if s.metrics != nil {
		r.Use(PromHTTPMiddleware(s.metrics)) // prometheus http middleware
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/route", s.RouteDiagram)
		r.Get("/health", s.Health)
		r.Post("/suspend", func(w http.ResponseWriter, r *http.Request) {
			s.Suspend()
			render.NoContent(w, r)
		})
		r.Post("/resume", func(w http.ResponseWriter, r *http.Request) {
			s.Resume()
			render.NoContent(w, r)
		})
	})
	return r
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

// ErrResponse model info
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText    string   `json:"status"`          // user-level status message
	AppCode       int64    `json:"code,omitempty"`  // application-specific error code
	ErrorText     string   `json:"error,omitempty"` // application-level error message, for debugging
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	validatorErrs := err.(validator.ValidationErrors)
	for _, e := range validatorErrs {
		translatedErr := errors.New(e.Translate(trans))
		errs = append(errs, translatedErr)
	}
	return errs
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := []string{}
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
		ErrValidation:  vv,
	}
}
