package router

import (
	"log"
	"net/http"
	"strings"
	"time"
)

// --- ANSI color codes ---
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

type HandlerFunc func(http.ResponseWriter, *http.Request)

type route struct {
	method  string
	pattern string // may contain "*" segments
	handler HandlerFunc
}

// Router is a minimal net/http router with wildcard segments and
// per-request logging. Routes are matched in registration order, so
// more specific patterns must be registered first.
type Router struct {
	mux    *http.ServeMux
	routes []route
}

func New() *Router {
	r := &Router{mux: http.NewServeMux()}

	r.mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		handler, pathKnown := r.match(req.Method, req.URL.Path)
		switch {
		case handler != nil:
			handler(lrw, req)
		case pathKnown:
			http.Error(lrw, "Method Not Allowed", http.StatusMethodNotAllowed)
		default:
			http.Error(lrw, "Not Found", http.StatusNotFound)
		}

		duration := time.Since(start)
		log.Printf("%s[%s]%s %s%s%s %s %s%d%s %s(%v)%s",
			colorCyan, start.Format("2006-01-02 15:04:05"), colorReset,
			methodColor(req.Method), req.Method, colorReset,
			req.URL.Path,
			statusColor(lrw.statusCode), lrw.statusCode, colorReset,
			colorBlue, duration, colorReset,
		)
	})

	return r
}

// match finds the first registered route for the method and path. The
// second return reports whether any route matched the path at all, so
// the caller can distinguish 404 from 405.
func (r *Router) match(method, path string) (HandlerFunc, bool) {
	pathKnown := false
	for _, rt := range r.routes {
		if !matchPattern(path, rt.pattern) {
			continue
		}
		pathKnown = true
		if rt.method == method {
			return rt.handler, true
		}
	}
	return nil, pathKnown
}

// matchPattern checks a request path against a pattern where "*" matches
// one segment, or any number of trailing segments when it is last.
func matchPattern(requestPath, pattern string) bool {
	reqSegs := strings.Split(strings.Trim(requestPath, "/"), "/")
	patSegs := strings.Split(strings.Trim(pattern, "/"), "/")

	trailingWildcard := len(patSegs) > 0 && patSegs[len(patSegs)-1] == "*"
	if trailingWildcard {
		if len(reqSegs) < len(patSegs)-1 {
			return false
		}
	} else if len(reqSegs) != len(patSegs) {
		return false
	}

	for i, seg := range patSegs {
		if seg == "*" {
			continue
		}
		if i >= len(reqSegs) || reqSegs[i] != seg {
			return false
		}
	}
	return true
}

func (r *Router) register(method, pattern string, handler HandlerFunc) {
	r.routes = append(r.routes, route{method: method, pattern: pattern, handler: handler})
}

func (r *Router) GET(pattern string, handler HandlerFunc) {
	r.register(http.MethodGet, pattern, handler)
}

func (r *Router) POST(pattern string, handler HandlerFunc) {
	r.register(http.MethodPost, pattern, handler)
}

// Start runs the HTTP server; it blocks until the listener fails.
func (r *Router) Start(addr string) {
	log.Printf("🚀 Server started on %shttp://localhost%s%s", colorGreen, addr, colorReset)
	log.Fatal(http.ListenAndServe(addr, r.mux))
}

// Handler exposes the underlying mux, mainly for tests.
func (r *Router) Handler() http.Handler {
	return r.mux
}

// --- Logging response writer to capture status codes ---
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// --- Color helpers ---
func statusColor(code int) string {
	switch {
	case code >= 200 && code < 300:
		return colorGreen
	case code >= 300 && code < 400:
		return colorCyan
	case code >= 400 && code < 500:
		return colorYellow
	default:
		return colorRed
	}
}

func methodColor(method string) string {
	switch method {
	case http.MethodGet:
		return colorGreen
	case http.MethodPost:
		return colorBlue
	default:
		return colorCyan
	}
}
