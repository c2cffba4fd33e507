package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/coder/websocket"
	"github.com/marben/mandel"
	"github.com/marben/mandel/imgfile"
	"github.com/marben/mandel/render"
	"github.com/marben/mandel/stream"
)

var (
	errTooLarge = errors.New("image too large")
	errMissing  = errors.New("missing parameter")
)

type server struct {
	cfg  config
	jobs *jobTracker
}

func newServer(cfg config) *server {
	return &server{cfg: cfg, jobs: &jobTracker{}}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /render", s.handleRender)
	mux.HandleFunc("GET /regions", s.handleRegions)
	mux.HandleFunc("/ws", s.handleWebsocket)
	return mux
}

// check applies the server limits on top of the render preconditions.
func (s *server) check(p render.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Bounds.Pixels() > s.cfg.maxPixels {
		return fmt.Errorf("%w: %v exceeds %d pixels", errTooLarge, p.Bounds, s.cfg.maxPixels)
	}
	return nil
}

// queryParams reads a render from the query string:
//
//	size=WxH (ul=RE,IM&lr=RE,IM | region=NAME) [limit=N] [workers=N] [format=png|bmp|tiff]
func (s *server) queryParams(q url.Values) (render.Params, imgfile.Format, error) {
	p := render.Params{Limit: s.cfg.limit, Workers: s.cfg.workers}

	if !q.Has("size") {
		return p, "", fmt.Errorf("%w: size", errMissing)
	}
	b, err := mandel.ParseBounds(q.Get("size"))
	if err != nil {
		return p, "", err
	}
	p.Bounds = b

	if name := q.Get("region"); name != "" {
		v, ok := mandel.LookupRegion(name)
		if !ok {
			return p, "", fmt.Errorf("unknown region %q", name)
		}
		p.Viewport = v
	} else {
		if !q.Has("ul") || !q.Has("lr") {
			return p, "", fmt.Errorf("%w: ul and lr, or region", errMissing)
		}
		v, err := mandel.ParseViewport(q.Get("ul"), q.Get("lr"))
		if err != nil {
			return p, "", err
		}
		p.Viewport = v
	}

	if q.Has("limit") {
		n, err := strconv.ParseUint(q.Get("limit"), 10, 32)
		if err != nil {
			return p, "", fmt.Errorf("limit: %w", err)
		}
		p.Limit = uint32(n)
	}
	if q.Has("workers") {
		n, err := strconv.Atoi(q.Get("workers"))
		if err != nil {
			return p, "", fmt.Errorf("workers: %w", err)
		}
		p.Workers = min(n, s.cfg.workers)
	}

	f := imgfile.PNG
	if name := q.Get("format"); name != "" {
		if f, err = imgfile.ParseFormat(name); err != nil {
			return p, "", err
		}
	}
	return p, f, s.check(p)
}

// requestParams converts a websocket request, filling in server defaults
// for zero Limit and Workers.
func (s *server) requestParams(req mandel.RenderRequest) (render.Params, error) {
	p := render.Params{
		Bounds:   req.Bounds(),
		Viewport: req.Viewport(),
		Limit:    req.Limit,
		Workers:  req.Workers,
	}
	if p.Limit == 0 {
		p.Limit = s.cfg.limit
	}
	if p.Workers <= 0 || p.Workers > s.cfg.workers {
		p.Workers = s.cfg.workers
	}
	return p, s.check(p)
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	p, f, err := s.queryParams(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	job := s.jobs.start(p)
	pix, err := render.RenderContext(r.Context(), p, render.WithBandDone(job.bandFinished))
	job.end(err)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := imgfile.Encode(&buf, f, pix, p.Bounds); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("job %d: write response: %v", job.id, err)
	}
}

// regionJSON is one entry of the /regions listing.
type regionJSON struct {
	Name       string     `json:"name"`
	UpperLeft  [2]float64 `json:"upper_left"`
	LowerRight [2]float64 `json:"lower_right"`
}

func (s *server) handleRegions(w http.ResponseWriter, r *http.Request) {
	names := mandel.RegionNames()
	out := make([]regionJSON, 0, len(names))
	for _, name := range names {
		req := mandel.NewRenderRequest(mandel.Bounds{}, mandel.Regions[name])
		out = append(out, regionJSON{Name: name, UpperLeft: req.UpperLeft, LowerRight: req.LowerRight})
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		log.Printf("regions: %v", err)
	}
}

// handleWebsocket serves one streamed render per connection.
func (s *server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.cfg.origins,
	})
	if err != nil {
		log.Println(err)
		return
	}
	defer c.CloseNow()

	ctx := r.Context()
	req, err := stream.ReadRequest(ctx, c)
	if err != nil {
		log.Printf("ws %s: %v", r.RemoteAddr, err)
		return
	}
	p, err := s.requestParams(req)
	if err != nil {
		log.Printf("ws %s: rejected: %v", r.RemoteAddr, err)
		_ = stream.WriteStatus(ctx, c, mandel.Status{Error: err.Error()})
		c.Close(websocket.StatusPolicyViolation, "invalid render request")
		return
	}

	job := s.jobs.start(p)
	err = stream.Serve(ctx, c, p, render.WithBandDone(job.bandFinished))
	job.end(err)
	if err != nil {
		c.Close(websocket.StatusInternalError, "render failed")
		return
	}
	c.Close(websocket.StatusNormalClosure, "")
}
