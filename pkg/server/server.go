package server

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/fuzzdict/fuzzdict/pkg/config"
	"github.com/fuzzdict/fuzzdict/pkg/dict"
	"github.com/fuzzdict/fuzzdict/pkg/resolve"
)

// envelope carries every field any request type can have, so one decode
// is enough to dispatch: frames with an action are admin requests,
// frames with a path are lookups.
type envelope struct {
	ID        string `msgpack:"id"`
	Path      string `msgpack:"p"`
	Threshold *int   `msgpack:"t"`
	Exact     bool   `msgpack:"x"`
	Action    string `msgpack:"action"`
	NewThresh *int   `msgpack:"threshold"`
	Enabled   *bool  `msgpack:"enabled"`
}

// Server handles the IPC for fuzzy path lookups
type Server struct {
	dict       *dict.Dict
	cfg        *config.Config
	configPath string
	dec        *msgpack.Decoder
	enc        *msgpack.Encoder
}

// NewServer creates a new lookup server using stdin/stdout for IPC
func NewServer(d *dict.Dict, cfg *config.Config, configPath string) *Server {
	return NewServerIO(d, cfg, configPath, os.Stdin, os.Stdout)
}

// NewServerIO creates a server over explicit reader/writer pairs.
func NewServerIO(d *dict.Dict, cfg *config.Config, configPath string, r io.Reader, w io.Writer) *Server {
	return &Server{
		dict:       d,
		cfg:        cfg,
		configPath: configPath,
		dec:        msgpack.NewDecoder(r),
		enc:        msgpack.NewEncoder(w),
	}
}

// Start begins listening for IPC requests
func (s *Server) Start() error {
	log.Debug("Starting Server.")

	// Signal that the server is ready
	s.send(map[string]string{"status": "ready"})

	for {
		var env envelope
		if err := s.dec.Decode(&env); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			s.sendError("", "Invalid msgpack request", 400)
			return err
		}
		s.handleRequest(env)
	}
}

// handleRequest dispatches a decoded frame
func (s *Server) handleRequest(env envelope) {
	switch {
	case env.Action != "":
		s.handleAdmin(env)
	case env.Path != "":
		s.handleLookup(env)
	default:
		s.sendError(env.ID, "Request has neither path nor action", 400)
	}
}

// handleLookup processes a lookup request. It validates the path length,
// clamps the threshold override, runs the exact or fuzzy lookup, and sends
// the matched path and value with timing info.
func (s *Server) handleLookup(env envelope) {
	if len(env.Path) > s.cfg.Server.MaxPathLen {
		s.sendError(env.ID, fmt.Sprintf("Path exceeds maximum length of %d characters", s.cfg.Server.MaxPathLen), 400)
		log.Debug("Path too long in request")
		return
	}

	threshold := s.dict.Threshold()
	if env.Threshold != nil {
		threshold = *env.Threshold
		if threshold < 0 {
			threshold = 0
		}
		if threshold > 100 {
			threshold = 100
		}
	}

	start := time.Now()
	var matched string
	var value any
	var err error
	if env.Exact {
		value, err = s.dict.Get(env.Path)
		matched = env.Path
	} else {
		matched, err = s.dict.ResolvePathWith(env.Path, threshold)
		if err == nil {
			value, err = s.dict.Tree().Get(matched)
		}
	}
	elapsed := time.Since(start)

	if err != nil {
		switch {
		case resolve.IsInvalidQuery(err):
			s.sendError(env.ID, err.Error(), 400)
		case resolve.IsNotFound(err):
			s.sendError(env.ID, err.Error(), 404)
		default:
			log.Errorf("Lookup failed: %v", err)
			s.sendError(env.ID, "Internal server error", 500)
		}
		return
	}

	s.send(LookupResponse{
		ID:          env.ID,
		Path:        env.Path,
		MatchedPath: matched,
		Value:       value,
		TimeTaken:   elapsed.Microseconds(),
	})
}

// handleAdmin processes resolver management requests
func (s *Server) handleAdmin(env envelope) {
	switch env.Action {
	case "health":
		s.send(AdminResponse{ID: env.ID, Status: "ok"})
	case "tree_info":
		tree := s.dict.Tree()
		s.send(AdminResponse{
			ID:     env.ID,
			Status: "ok",
			Info: &TreeInfo{
				Paths:       len(tree.Paths()),
				TopKeys:     tree.Len(),
				Depth:       tree.Depth(),
				Fingerprint: fmt.Sprintf("%016x", tree.Fingerprint()),
			},
		})
	case "get_config":
		s.send(AdminResponse{
			ID:        env.ID,
			Status:    "ok",
			Threshold: s.dict.Threshold(),
			Fuzzy:     s.dict.FuzzyEnabled(),
			Algorithm: s.dict.Algorithm(),
		})
	case "set_threshold":
		if env.NewThresh == nil {
			s.sendError(env.ID, "set_threshold requires a threshold", 400)
			return
		}
		s.dict.SetThreshold(*env.NewThresh)
		s.persistConfig()
		s.send(AdminResponse{ID: env.ID, Status: "ok", Threshold: s.dict.Threshold()})
	case "set_fuzzy":
		if env.Enabled == nil {
			s.sendError(env.ID, "set_fuzzy requires enabled", 400)
			return
		}
		s.dict.SetFuzzyEnabled(*env.Enabled)
		s.persistConfig()
		s.send(AdminResponse{ID: env.ID, Status: "ok", Fuzzy: s.dict.FuzzyEnabled()})
	default:
		s.sendError(env.ID, fmt.Sprintf("Unknown action: %s", env.Action), 400)
	}
}

// persistConfig writes runtime changes back to the config file, if any.
func (s *Server) persistConfig() {
	if s.configPath == "" {
		return
	}
	threshold := s.dict.Threshold()
	enabled := s.dict.FuzzyEnabled()
	if err := s.cfg.Update(s.configPath, &threshold, &enabled, nil); err != nil {
		log.Warnf("Failed to persist config to %s: %v", s.configPath, err)
	}
}

// send encodes a response frame onto the writer.
func (s *Server) send(response any) {
	if err := s.enc.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{
		ID:     id,
		Error:  message,
		Status: code,
	})
}
