package core

import (
	"fmt"
	"math/big"
	"sync"

	"flipnet/core/events"
	"flipnet/core/state"
	"flipnet/core/types"
	"flipnet/native/common"
	"flipnet/native/exclusion"
	"flipnet/native/oracle"
	"flipnet/native/stake"
	"flipnet/native/token"
	"flipnet/native/wager"
	"flipnet/storage"
)

// GenesisAccount seeds balances at first boot.
type GenesisAccount struct {
	Address [20]byte
	FLP     *big.Int
	SFLP    *big.Int
	ZFLP    *big.Int
}

// Config carries the wiring parameters for a node.
type Config struct {
	// Owner is the administrative key for parameter updates and denylist
	// management.
	Owner [20]byte
	// WagerParams are the launch parameters stored on first boot.
	WagerParams *wager.Params
	// OracleFeePerGas prices the in-process randomness service.
	OracleFeePerGas *big.Int
	// BonusTreasury is minted to the house at first boot and funds ZFLP
	// win bonuses until exhausted.
	BonusTreasury *big.Int
	// Genesis balances minted at first boot.
	Genesis []GenesisAccount
	// PausedModules lists module names refused at the engine guard.
	PausedModules []string
}

type pauseSet map[string]bool

func (p pauseSet) IsPaused(module string) bool { return p[module] }

// Node owns the state database and the module engines and serialises every
// mutating call. Engines are single-writer by construction; the node mutex is
// the only concurrency boundary.
type Node struct {
	mu sync.Mutex

	db         storage.Database
	state      *state.Manager
	bus        *events.Bus
	ledger     *token.Ledger
	stake      *stake.Engine
	wager      *wager.Engine
	oracle     *oracle.MemoryOracle
	exclusions *exclusion.Registry
	owner      [20]byte
}

// NewNode wires the engines over the database and applies genesis state on
// first boot.
func NewNode(db storage.Database, cfg Config) (*Node, error) {
	if db == nil {
		return nil, fmt.Errorf("core: nil database")
	}
	params := cfg.WagerParams.Clone()
	if params.Provider == ([20]byte{}) {
		return nil, fmt.Errorf("core: wager provider not configured")
	}

	n := &Node{
		db:    db,
		state: state.NewManager(db),
		bus:   events.NewBus(),
		owner: cfg.Owner,
	}
	pauses := pauseSet{}
	for _, module := range cfg.PausedModules {
		pauses[module] = true
	}

	n.ledger = token.NewLedger()
	n.ledger.SetState(n.state)

	n.exclusions = exclusion.NewRegistry()
	n.exclusions.SetState(n.state)

	n.oracle = oracle.NewMemoryOracle(params.Provider, cfg.OracleFeePerGas)

	n.stake = stake.NewEngine()
	n.stake.SetState(n.state)
	n.stake.SetLedger(n.ledger)
	n.stake.SetEmitter(n.bus)
	n.stake.SetPauses(pauses)

	n.wager = wager.NewEngine()
	n.wager.SetState(n.state)
	n.wager.SetLedger(n.ledger)
	n.wager.SetOracle(n.oracle)
	n.wager.SetStaking(n.stake)
	n.wager.SetRewardSink(n.stake)
	n.wager.SetExclusions(n.exclusions)
	n.wager.SetEmitter(n.bus)
	n.wager.SetPauses(pauses)
	n.wager.SetOwner(cfg.Owner)
	n.oracle.SetConsumer(n.wager)

	if err := n.applyGenesis(cfg); err != nil {
		return nil, err
	}
	if err := n.wager.Bootstrap(params); err != nil {
		return nil, err
	}
	return n, nil
}

// applyGenesis mints the configured balances exactly once: it is a no-op when
// any FLP supply already exists.
func (n *Node) applyGenesis(cfg Config) error {
	supply, err := n.ledger.TotalSupply(token.SymbolFLP)
	if err != nil {
		return err
	}
	if supply.Sign() > 0 {
		return nil
	}
	if cfg.BonusTreasury != nil && cfg.BonusTreasury.Sign() > 0 {
		if err := n.ledger.Mint(wager.HouseAddress(), token.SymbolZFLP, cfg.BonusTreasury); err != nil {
			return fmt.Errorf("core: mint bonus treasury: %w", err)
		}
	}
	for _, acct := range cfg.Genesis {
		for _, alloc := range []struct {
			symbol string
			amount *big.Int
		}{
			{token.SymbolFLP, acct.FLP},
			{token.SymbolSFLP, acct.SFLP},
			{token.SymbolZFLP, acct.ZFLP},
		} {
			if alloc.amount == nil || alloc.amount.Sign() == 0 {
				continue
			}
			if err := n.ledger.Mint(acct.Address, alloc.symbol, alloc.amount); err != nil {
				return fmt.Errorf("core: mint genesis %s: %w", alloc.symbol, err)
			}
		}
	}
	return nil
}

// Events exposes the node's event bus.
func (n *Node) Events() *events.Bus { return n.bus }

// --- staking ---

// StakeDeposit pulls SFLP from the caller into the vault. The caller must
// have approved the vault address beforehand (Approve or Permit).
func (n *Node) StakeDeposit(caller [20]byte, amount *big.Int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stake.Stake(caller, amount)
}

// StakeRequestUnstake burns shares and queues the principal for withdrawal.
func (n *Node) StakeRequestUnstake(caller [20]byte, amount *big.Int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stake.RequestUnstake(caller, amount)
}

// StakeWithdrawMatured pays out matured queue entries.
func (n *Node) StakeWithdrawMatured(caller [20]byte) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stake.WithdrawMatured(caller)
}

// StakeClaimRewards pays accrued FLP rewards to the recipient.
func (n *Node) StakeClaimRewards(caller, to [20]byte) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stake.ClaimRewards(caller, to)
}

// StakePendingRewards projects the caller's claimable rewards.
func (n *Node) StakePendingRewards(addr [20]byte) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stake.PendingRewards(addr)
}

// StakeSharesOf returns the address's share balance.
func (n *Node) StakeSharesOf(addr [20]byte) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stake.SharesOf(addr)
}

// StakeTotalShares returns the global share supply.
func (n *Node) StakeTotalShares() (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stake.TotalShares()
}

// StakeQueue returns the caller's withdrawal queue.
func (n *Node) StakeQueue(addr [20]byte) (*stake.WithdrawalQueue, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.StakeQueue(addr)
}

// --- wager ---

// WagerQuote returns the live commitment and oracle fee.
func (n *Node) WagerQuote() ([32]byte, *big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.wager.QuoteCommitment()
}

// WagerPlace funds and registers a bet.
func (n *Node) WagerPlace(caller [20]byte, amount *big.Int, tag [32]byte, commitment [32]byte, payment *big.Int) (wager.BetKey, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.wager.PlaceBet(caller, amount, tag, commitment, payment)
}

// WagerCancel refunds an expired pending bet. A zero allowance runs with an
// unlimited budget.
func (n *Node) WagerCancel(key wager.BetKey, allowance uint64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.wager.Cancel(key, common.NewBudget(allowance))
}

// WagerClaim pays the caller's fallback balance to the recipient.
func (n *Node) WagerClaim(caller, to [20]byte) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.wager.Claim(caller, to)
}

// WagerBet returns the stored bet record.
func (n *Node) WagerBet(key wager.BetKey) (*wager.Bet, bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.wager.BetOf(key)
}

// WagerEpoch returns the bonus halving epoch.
func (n *Node) WagerEpoch() (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.wager.Epoch()
}

// WagerReservation returns the outstanding payout liability.
func (n *Node) WagerReservation() (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.wager.Reservation()
}

// WagerFallbackBalance returns the address's pull-claimable credit.
func (n *Node) WagerFallbackBalance(addr [20]byte) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.wager.FallbackBalanceOf(addr)
}

// WagerParams returns the live engine parameters.
func (n *Node) WagerParams() (*wager.Params, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.wager.Params()
}

// WithWagerAdmin runs an owner-gated engine mutation under the node lock.
func (n *Node) WithWagerAdmin(fn func(e *wager.Engine) error) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return fn(n.wager)
}

// --- randomness ---

// FulfillRandomness delivers a random value for the pending oracle sequence.
func (n *Node) FulfillRandomness(sequence uint64, randomValue *big.Int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.oracle.Fulfill(sequence, randomValue)
}

// PendingRandomness lists oracle sequences awaiting fulfilment.
func (n *Node) PendingRandomness() []uint64 {
	return n.oracle.PendingSequences()
}

// --- token ---

// TokenBalance returns the address's balance for the symbol.
func (n *Node) TokenBalance(addr [20]byte, symbol string) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ledger.BalanceOf(addr, symbol)
}

// TokenSupply returns the total supply for the symbol.
func (n *Node) TokenSupply(symbol string) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ledger.TotalSupply(symbol)
}

// TokenTransfer moves tokens between accounts.
func (n *Node) TokenTransfer(from, to [20]byte, symbol string, amount *big.Int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ledger.Transfer(from, to, symbol, amount)
}

// TokenApprove grants the spender an allowance over the owner's balance.
func (n *Node) TokenApprove(owner, spender [20]byte, symbol string, amount *big.Int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ledger.Approve(owner, spender, symbol, amount)
}

// TokenAllowance returns the live owner-to-spender allowance.
func (n *Node) TokenAllowance(owner, spender [20]byte, symbol string) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ledger.Allowance(owner, spender, symbol)
}

// TokenPermit applies a signed off-chain approval.
func (n *Node) TokenPermit(owner, spender [20]byte, symbol string, value *big.Int, deadline uint64, now uint64, sig []byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ledger.Permit(owner, spender, symbol, value, deadline, now, sig)
}

// TokenSetDenylisted flips the block flag for the address. Owner only.
func (n *Node) TokenSetDenylisted(caller, addr [20]byte, blocked bool) error {
	if caller != n.owner {
		return wager.ErrUnauthorized
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ledger.SetDenylisted(addr, blocked)
}

// --- exclusion ---

// SetSelfExclusion records a wagering lockout for the caller.
func (n *Node) SetSelfExclusion(caller [20]byte, until uint64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.exclusions.SetSelfExclusion(caller, until)
}

// ExclusionDeadline returns the caller's recorded lockout deadline.
func (n *Node) ExclusionDeadline(addr [20]byte) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.ExclusionDeadline(addr)
}

// GetAccount returns the full account record.
func (n *Node) GetAccount(addr [20]byte) (*types.Account, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.GetAccount(addr[:])
}
