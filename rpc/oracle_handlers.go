package rpc

import (
	"net/http"
)

type oracleFulfillParams struct {
	Sequence uint64 `json:"sequence"`
	// RandomValue is a decimal integer; its lowest set bit decides the flip
	// count.
	RandomValue string `json:"randomValue"`
}

func (s *Server) handleOraclePending(w http.ResponseWriter, req *RPCRequest) {
	writeResult(w, req.ID, map[string][]uint64{"pending": s.node.PendingRandomness()})
}

func (s *Server) handleOracleFulfill(w http.ResponseWriter, req *RPCRequest) {
	var params oracleFulfillParams
	if !decodeParams(w, req, &params) {
		return
	}
	randomValue, err := parseAmount(params.RandomValue)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	if err := s.node.FulfillRandomness(params.Sequence, randomValue); err != nil {
		writeServerError(w, req, err)
		return
	}
	writeResult(w, req.ID, map[string]bool{"fulfilled": true})
}

func (s *Server) handleEventsRecent(w http.ResponseWriter, req *RPCRequest) {
	writeResult(w, req.ID, s.node.Events().Recent())
}
