// Package rpcserver implements the node's HTTP surface: the three
// endpoints of §6 (POST /submit, GET /nonce/:account, GET /state), wired
// on top of the teacher's own httprouter dependency. It holds no business
// logic beyond decoding/encoding and the status-code mapping of §7 — every
// state-touching call is forwarded to the node's external API, which
// itself serializes onto the single node-loop goroutine.
package rpcserver

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/tos-network/gtos-lite/codec"
	"github.com/tos-network/gtos-lite/log"
	"github.com/tos-network/gtos-lite/mempool"
	"github.com/tos-network/gtos-lite/node"
	"github.com/tos-network/gtos-lite/types"
)

// Backend is the subset of *node.Node the server needs. Kept as an
// interface so handler tests can substitute a fake.
type Backend interface {
	SubmitExtrinsic(ext types.UncheckedExtrinsic) error
	PendingNonce(account types.AccountId) types.Nonce
	State() node.Snapshot
}

// Server wraps an httprouter.Router bound to a Backend.
type Server struct {
	backend Backend
	router  *httprouter.Router
	log     log.Logger
}

// New constructs a Server with its routes registered. Call ListenAndServe
// (or use Handler directly with an arbitrary net/http server) to serve it.
func New(backend Backend) *Server {
	s := &Server{backend: backend, router: httprouter.New(), log: log.New("module", "rpcserver")}
	s.router.POST("/submit", s.handleSubmit)
	s.router.GET("/nonce/:account", s.handleNonce)
	s.router.GET("/state", s.handleState)
	return s
}

// Handler returns the http.Handler to mount on an *http.Server.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves the RPC surface on addr, blocking until it returns
// an error (including on graceful shutdown via the caller closing the
// listener elsewhere).
func (s *Server) ListenAndServe(addr string) error {
	s.log.Info("rpc server listening", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

// handleSubmit implements POST /submit: body is the canonical encoding of
// an UncheckedExtrinsic. 400 on decode failure, 503 on MempoolFull.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	var ext types.UncheckedExtrinsic
	if err := codec.Decode(body, &ext); err != nil {
		http.Error(w, "malformed extrinsic: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.backend.SubmitExtrinsic(ext); err != nil {
		if errors.Is(err, mempool.ErrMempoolFull) {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleNonce implements GET /nonce/:account: the hex-encoded account id
// in the path is looked up and the pending nonce returned as the JSON
// object {"nonce": n}.
func (s *Server) handleNonce(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	raw, err := hex.DecodeString(ps.ByName("account"))
	if err != nil {
		http.Error(w, "malformed account: "+err.Error(), http.StatusBadRequest)
		return
	}
	account, ok := types.AccountIdFromBytes(raw)
	if !ok {
		http.Error(w, "account must be 32 bytes hex-encoded", http.StatusBadRequest)
		return
	}

	nonce := s.backend.PendingNonce(account)
	writeJSON(w, map[string]uint32{"nonce": uint32(nonce)})
}

// handleState implements GET /state: a human-readable snapshot of block
// number, dev-account nonces/balances, and claims.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, s.backend.State())
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write json response", "err", err)
	}
}
