package rpc

import (
	"net/http"
)

type stakeCallerParams struct {
	Caller string `json:"caller"`
	Amount string `json:"amount,omitempty"`
	To     string `json:"to,omitempty"`
}

type stakeAddrParams struct {
	Address string `json:"address"`
}

type stakeQueueEntryResult struct {
	Amount   string `json:"amount"`
	Maturity uint64 `json:"maturity"`
}

type stakeQueueResult struct {
	Entries []stakeQueueEntryResult `json:"entries"`
	Cursor  uint64                  `json:"cursor"`
}

func (s *Server) handleStakeStake(w http.ResponseWriter, req *RPCRequest) {
	var params stakeCallerParams
	if !decodeParams(w, req, &params) {
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	amount, err := parseAmount(params.Amount)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	if err := s.node.StakeDeposit(caller, amount); err != nil {
		writeServerError(w, req, err)
		return
	}
	shares, err := s.node.StakeSharesOf(caller)
	if err != nil {
		writeServerError(w, req, err)
		return
	}
	writeResult(w, req.ID, map[string]string{"shares": shares.String()})
}

func (s *Server) handleStakeRequestUnstake(w http.ResponseWriter, req *RPCRequest) {
	var params stakeCallerParams
	if !decodeParams(w, req, &params) {
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	amount, err := parseAmount(params.Amount)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	if err := s.node.StakeRequestUnstake(caller, amount); err != nil {
		writeServerError(w, req, err)
		return
	}
	queue, err := s.node.StakeQueue(caller)
	if err != nil {
		writeServerError(w, req, err)
		return
	}
	maturity := uint64(0)
	if queue != nil && len(queue.Entries) > 0 {
		maturity = queue.Entries[len(queue.Entries)-1].Maturity
	}
	writeResult(w, req.ID, map[string]uint64{"maturity": maturity})
}

func (s *Server) handleStakeWithdraw(w http.ResponseWriter, req *RPCRequest) {
	var params stakeCallerParams
	if !decodeParams(w, req, &params) {
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	paid, err := s.node.StakeWithdrawMatured(caller)
	if err != nil {
		writeServerError(w, req, err)
		return
	}
	writeResult(w, req.ID, map[string]string{"withdrawn": paid.String()})
}

func (s *Server) handleStakeClaimRewards(w http.ResponseWriter, req *RPCRequest) {
	var params stakeCallerParams
	if !decodeParams(w, req, &params) {
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	to := caller
	if params.To != "" {
		if to, err = parseAddress(params.To); err != nil {
			writeInvalidParams(w, req, err)
			return
		}
	}
	paid, err := s.node.StakeClaimRewards(caller, to)
	if err != nil {
		writeServerError(w, req, err)
		return
	}
	writeResult(w, req.ID, map[string]string{"claimed": paid.String()})
}

func (s *Server) handleStakePendingRewards(w http.ResponseWriter, req *RPCRequest) {
	var params stakeAddrParams
	if !decodeParams(w, req, &params) {
		return
	}
	addr, err := parseAddress(params.Address)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	pending, err := s.node.StakePendingRewards(addr)
	if err != nil {
		writeServerError(w, req, err)
		return
	}
	writeResult(w, req.ID, map[string]string{"pending": pending.String()})
}

func (s *Server) handleStakeSharesOf(w http.ResponseWriter, req *RPCRequest) {
	var params stakeAddrParams
	if !decodeParams(w, req, &params) {
		return
	}
	addr, err := parseAddress(params.Address)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	shares, err := s.node.StakeSharesOf(addr)
	if err != nil {
		writeServerError(w, req, err)
		return
	}
	writeResult(w, req.ID, map[string]string{"shares": shares.String()})
}

func (s *Server) handleStakeTotalShares(w http.ResponseWriter, req *RPCRequest) {
	total, err := s.node.StakeTotalShares()
	if err != nil {
		writeServerError(w, req, err)
		return
	}
	writeResult(w, req.ID, map[string]string{"totalShares": total.String()})
}

func (s *Server) handleStakeQueue(w http.ResponseWriter, req *RPCRequest) {
	var params stakeAddrParams
	if !decodeParams(w, req, &params) {
		return
	}
	addr, err := parseAddress(params.Address)
	if err != nil {
		writeInvalidParams(w, req, err)
		return
	}
	queue, err := s.node.StakeQueue(addr)
	if err != nil {
		writeServerError(w, req, err)
		return
	}
	result := stakeQueueResult{Entries: []stakeQueueEntryResult{}}
	if queue != nil {
		result.Cursor = queue.Cursor
		for _, entry := range queue.Entries {
			result.Entries = append(result.Entries, stakeQueueEntryResult{
				Amount:   entry.Amount.String(),
				Maturity: entry.Maturity,
			})
		}
	}
	writeResult(w, req.ID, result)
}
