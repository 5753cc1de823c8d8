// Package monitoring turns a simulator into a web server so a presentation
// layer can configure it, feed it accesses, and read back results.
package monitoring

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"

	"github.com/sarchlab/cachesim/geometry"
	"github.com/sarchlab/cachesim/hierarchy"
	"github.com/sarchlab/cachesim/workload"
)

// A Server exposes one simulator over HTTP. Handlers serialize on a lock;
// the simulator itself is single-threaded.
type Server struct {
	portNumber int

	lock sync.Mutex
	sim  *hierarchy.Simulator
}

// NewServer creates a server around a configured simulator.
func NewServer(sim *hierarchy.Simulator) *Server {
	return &Server{sim: sim}
}

// WithPortNumber sets the port number of the server.
func (s *Server) WithPortNumber(portNumber int) *Server {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the simulation server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	s.portNumber = portNumber

	return s
}

// StartServer starts serving the API and returns the port it listens on.
func (s *Server) StartServer() int {
	r := s.router()

	actualPort := ":0"
	if s.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(s.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	port := listener.Addr().(*net.TCPAddr).Port
	fmt.Fprintf(os.Stderr,
		"Serving cache simulation on http://localhost:%d\n", port)

	go func() {
		err = http.Serve(listener, r)
		dieOnErr(err)
	}()

	return port
}

func (s *Server) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/configure", s.configure).Methods("POST")
	r.HandleFunc("/api/access", s.access).Methods("POST")
	r.HandleFunc("/api/workload", s.runWorkload).Methods("POST")
	r.HandleFunc("/api/reset", s.reset).Methods("POST")
	r.HandleFunc("/api/metrics", s.metrics)
	r.HandleFunc("/api/levels", s.listLevels)
	r.HandleFunc("/api/decode/{address}", s.decode)
	r.HandleFunc("/api/resource", s.listResources)

	return r
}

func (s *Server) configure(w http.ResponseWriter, r *http.Request) {
	var cfg hierarchy.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.sim.Configure(cfg); err != nil {
		httpError(w, http.StatusUnprocessableEntity, err)
		return
	}

	writeJSON(w, map[string]string{"status": "configured"})
}

type accessReq struct {
	Address uint64 `json:"address"`
	Kind    string `json:"kind"`
}

func (s *Server) access(w http.ResponseWriter, r *http.Request) {
	var req accessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}

	kind := workload.Read
	if req.Kind == "Write" {
		kind = workload.Write
	}

	s.lock.Lock()
	result := s.sim.Access(req.Address, kind)
	s.lock.Unlock()

	writeJSON(w, result)
}

type workloadReq struct {
	Type      string   `json:"type"`
	Base      uint64   `json:"base"`
	WordSize  uint64   `json:"wordSize"`
	Stride    uint64   `json:"stride"`
	Span      uint64   `json:"span"`
	WriteProb float64  `json:"writeProb"`
	Seed      int64    `json:"seed"`
	Addresses []uint64 `json:"addresses"`
	Count     int      `json:"count"`
}

func (s *Server) runWorkload(w http.ResponseWriter, r *http.Request) {
	var req workloadReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}

	gen, err := makeGenerator(req)
	if err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}

	s.lock.Lock()
	results := s.sim.RunWorkload(gen, req.Count)
	snapshot := s.sim.Snapshot()
	s.lock.Unlock()

	writeJSON(w, map[string]any{
		"results": results,
		"metrics": snapshot,
	})
}

func makeGenerator(req workloadReq) (workload.Generator, error) {
	switch req.Type {
	case "sequential":
		wordSize := req.WordSize
		if wordSize == 0 {
			wordSize = 4
		}

		return workload.Sequential(req.Base, wordSize, req.Count), nil
	case "strided":
		return workload.Strided(req.Base, req.Stride, req.Count), nil
	case "random":
		span := req.Span
		if span == 0 {
			span = 1 << 20
		}

		return workload.Random(
			req.Base, span, req.WriteProb, req.Count, req.Seed), nil
	case "hotset":
		return workload.HotSet(req.Addresses, req.Count), nil
	default:
		return nil, fmt.Errorf("unknown workload type %q", req.Type)
	}
}

func (s *Server) reset(w http.ResponseWriter, _ *http.Request) {
	s.lock.Lock()
	s.sim.Reset()
	s.lock.Unlock()

	writeJSON(w, map[string]string{"status": "reset"})
}

func (s *Server) metrics(w http.ResponseWriter, _ *http.Request) {
	s.lock.Lock()
	snapshot := s.sim.Snapshot()
	s.lock.Unlock()

	writeJSON(w, snapshot)
}

type levelRsp struct {
	Name          string `json:"name"`
	TotalBytes    uint64 `json:"totalBytes"`
	BlockSize     uint64 `json:"blockSize"`
	Associativity uint64 `json:"associativity"`
	NumSets       uint64 `json:"numSets"`
	OffsetBits    int    `json:"offsetBits"`
	SetIndexBits  int    `json:"setIndexBits"`
	TagBits       int    `json:"tagBits"`
	LatencyCycles uint32 `json:"latencyCycles"`
}

func (s *Server) listLevels(w http.ResponseWriter, _ *http.Request) {
	s.lock.Lock()
	defer s.lock.Unlock()

	rsp := []levelRsp{}
	for _, l := range s.sim.Levels() {
		g := l.Geometry()
		rsp = append(rsp, levelRsp{
			Name:          l.Name(),
			TotalBytes:    g.TotalBytes,
			BlockSize:     g.BlockSize,
			Associativity: g.Associativity,
			NumSets:       g.NumSets,
			OffsetBits:    g.OffsetBits,
			SetIndexBits:  g.SetIndexBits,
			TagBits:       g.TagBits,
			LatencyCycles: l.Latency(),
		})
	}

	writeJSON(w, rsp)
}

type decodeRsp struct {
	Address  uint64          `json:"address"`
	Fields   geometry.Fields `json:"fields"`
	BlockAdr uint64          `json:"blockAddress"`
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	addr, err := strconv.ParseUint(vars["address"], 0, 64)
	if err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	rsp := decodeRsp{
		Address: addr,
		Fields:  s.sim.DecodeAddress(addr),
	}

	if levels := s.sim.Levels(); len(levels) > 0 {
		rsp.BlockAdr = levels[0].Geometry().BlockAddress(addr)
	}

	writeJSON(w, rsp)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpuPercent"`
	MemorySize uint64  `json:"memorySize"`
}

func (s *Server) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	proc, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memorySize, err := proc.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	err := json.NewEncoder(w).Encode(v)
	dieOnErr(err)
}

func httpError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	encodeErr := json.NewEncoder(w).Encode(map[string]string{
		"error": err.Error(),
	})
	dieOnErr(encodeErr)
}

func dieOnErr(err error) {
	if err != nil {
		panic(err)
	}
}
