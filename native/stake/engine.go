package stake

import (
	"math/big"
	"time"

	"flipnet/core/events"
	"flipnet/native/common"
	"flipnet/native/token"
)

// PauseModule is the pause-view key guarding stake mutations.
const PauseModule = "stake"

// engineState describes the minimal functionality the stake engine needs from
// the surrounding state implementation.
type engineState interface {
	StakeGlobal() (*Global, error)
	SetStakeGlobal(g *Global) error
	StakePosition(addr [20]byte) (*Position, error)
	SetStakePosition(addr [20]byte, pos *Position) error
	StakeQueue(addr [20]byte) (*WithdrawalQueue, error)
	SetStakeQueue(addr [20]byte, q *WithdrawalQueue) error
}

// TokenLedger is the balance backend the engine moves principal and rewards
// through.
type TokenLedger interface {
	Transfer(from, to [20]byte, symbol string, amount *big.Int) error
	TransferFrom(spender, owner, to [20]byte, symbol string, amount *big.Int) error
	BalanceOf(addr [20]byte, symbol string) (*big.Int, error)
	TotalSupply(symbol string) (*big.Int, error)
}

// Engine wires the staking business logic with external state, the token
// ledger and event emitters.
type Engine struct {
	state   engineState
	ledger  TokenLedger
	emitter events.Emitter
	pauses  common.PauseView
	guard   common.CallGuard
	nowFn   func() int64
}

// NewEngine creates a stake engine with a no-op emitter. Callers can override
// the emitter via SetEmitter.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetLedger configures the token ledger used for principal and reward moves.
func (e *Engine) SetLedger(ledger TokenLedger) { e.ledger = ledger }

// SetPauses configures the pause view consulted before mutations.
func (e *Engine) SetPauses(p common.PauseView) { e.pauses = p }

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetNowFunc overrides the time source used by the engine. Primarily intended
// for tests to provide deterministic timestamps.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

func (e *Engine) emit(evt events.Event) {
	if e == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(evt)
}

func (e *Engine) now() uint64 {
	ts := e.nowFn()
	if ts < 0 {
		return 0
	}
	return uint64(ts)
}

func (e *Engine) ready() error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if e.ledger == nil {
		return ErrNilLedger
	}
	return common.Guard(e.pauses, PauseModule)
}

func (e *Engine) vaultNativeBalance() (*big.Int, error) {
	return e.ledger.BalanceOf(VaultAddress(), token.SymbolFLP)
}

// refreshGlobal folds any native currency received since the last refresh into
// the reward-per-share accumulator. It must run before any share mutation so
// accrual is computed at pre-mutation weight. The caller persists the result.
func (e *Engine) refreshGlobal(g *Global) error {
	balance, err := e.vaultNativeBalance()
	if err != nil {
		return err
	}
	delta := new(big.Int).Sub(balance, g.LastAccountedBalance)
	if delta.Sign() <= 0 || g.TotalShares.Sign() == 0 {
		return nil
	}
	scaled := new(big.Int).Mul(delta, rewardScale)
	scaled.Quo(scaled, g.TotalShares)
	g.RewardPerShare = new(big.Int).Add(g.RewardPerShare, scaled)
	g.LastAccountedBalance = balance
	e.emit(events.StakeRewardNotified{
		Amount:         delta,
		RewardPerShare: new(big.Int).Set(g.RewardPerShare),
	})
	return nil
}

// settle moves the account's earned-but-unsettled reward into Accrued and
// resynchronises the checkpoint against the current accumulator.
func settle(g *Global, pos *Position) {
	earned := new(big.Int).Mul(pos.Shares, g.RewardPerShare)
	earned.Quo(earned, rewardScale)
	pending := new(big.Int).Sub(earned, pos.RewardDebt)
	if pending.Sign() > 0 {
		pos.Accrued = new(big.Int).Add(pos.Accrued, pending)
	}
	pos.RewardDebt = earned
}

func checkpoint(g *Global, pos *Position) {
	earned := new(big.Int).Mul(pos.Shares, g.RewardPerShare)
	earned.Quo(earned, rewardScale)
	pos.RewardDebt = earned
}

// Stake pulls amount SFLP from the caller into the vault and mints an equal
// number of non-transferable shares. The caller must have approved the vault
// address as spender beforehand.
func (e *Engine) Stake(caller [20]byte, amount *big.Int) error {
	if err := e.ready(); err != nil {
		return err
	}
	release, err := e.guard.Enter()
	if err != nil {
		return err
	}
	defer release()
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	g, err := e.state.StakeGlobal()
	if err != nil {
		return err
	}
	g = g.EnsureDefaults()
	pos, err := e.state.StakePosition(caller)
	if err != nil {
		return err
	}
	pos = pos.EnsureDefaults()
	if err := e.refreshGlobal(g); err != nil {
		return err
	}
	settle(g, pos)
	// Ledger failures (insufficient balance, allowance, denylist) propagate
	// before any state write so the call stays atomic.
	if err := e.ledger.TransferFrom(VaultAddress(), caller, VaultAddress(), token.SymbolSFLP, amount); err != nil {
		return err
	}
	pos.Shares = new(big.Int).Add(pos.Shares, amount)
	g.TotalShares = new(big.Int).Add(g.TotalShares, amount)
	checkpoint(g, pos)
	if err := e.state.SetStakeGlobal(g); err != nil {
		return err
	}
	if err := e.state.SetStakePosition(caller, pos); err != nil {
		return err
	}
	e.emit(events.StakeDeposited{
		Account:     caller,
		Amount:      new(big.Int).Set(amount),
		NewShares:   new(big.Int).Set(pos.Shares),
		TotalShares: new(big.Int).Set(g.TotalShares),
	})
	return nil
}

// RequestUnstake burns shares immediately and queues the principal for
// withdrawal after the unstake delay. The principal stays in the vault until
// WithdrawMatured collects it.
func (e *Engine) RequestUnstake(caller [20]byte, amount *big.Int) error {
	if err := e.ready(); err != nil {
		return err
	}
	release, err := e.guard.Enter()
	if err != nil {
		return err
	}
	defer release()
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	g, err := e.state.StakeGlobal()
	if err != nil {
		return err
	}
	g = g.EnsureDefaults()
	pos, err := e.state.StakePosition(caller)
	if err != nil {
		return err
	}
	pos = pos.EnsureDefaults()
	if pos.Shares.Cmp(amount) < 0 {
		return ErrInsufficientShares
	}
	if err := e.refreshGlobal(g); err != nil {
		return err
	}
	settle(g, pos)
	pos.Shares = new(big.Int).Sub(pos.Shares, amount)
	g.TotalShares = new(big.Int).Sub(g.TotalShares, amount)
	checkpoint(g, pos)
	queue, err := e.state.StakeQueue(caller)
	if err != nil {
		return err
	}
	if queue == nil {
		queue = &WithdrawalQueue{}
	}
	maturity := e.now() + UnstakeDelaySeconds
	queue.Entries = append(queue.Entries, WithdrawalEntry{Amount: new(big.Int).Set(amount), Maturity: maturity})
	if err := e.state.SetStakeGlobal(g); err != nil {
		return err
	}
	if err := e.state.SetStakePosition(caller, pos); err != nil {
		return err
	}
	if err := e.state.SetStakeQueue(caller, queue); err != nil {
		return err
	}
	e.emit(events.StakeUnstakeRequested{
		Account:  caller,
		Amount:   new(big.Int).Set(amount),
		Maturity: int64(maturity),
	})
	return nil
}

// WithdrawMatured pays out queued principal whose maturity has passed,
// scanning at most WithdrawScanLimit entries from the cursor. Callers drain
// deeper queues with repeat invocations.
func (e *Engine) WithdrawMatured(caller [20]byte) (*big.Int, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	release, err := e.guard.Enter()
	if err != nil {
		return nil, err
	}
	defer release()
	queue, err := e.state.StakeQueue(caller)
	if err != nil {
		return nil, err
	}
	if queue == nil {
		queue = &WithdrawalQueue{}
	}
	now := e.now()
	total := big.NewInt(0)
	cursor := queue.Cursor
	scanned := 0
	for cursor < uint64(len(queue.Entries)) && scanned < WithdrawScanLimit {
		entry := queue.Entries[cursor]
		if entry.Maturity > now {
			break
		}
		total.Add(total, entry.Amount)
		cursor++
		scanned++
	}
	if total.Sign() == 0 {
		return nil, ErrNothingClaimable
	}
	if err := e.ledger.Transfer(VaultAddress(), caller, token.SymbolSFLP, total); err != nil {
		return nil, err
	}
	consumed := cursor - queue.Cursor
	queue.Cursor = cursor
	if err := e.state.SetStakeQueue(caller, queue); err != nil {
		return nil, err
	}
	e.emit(events.StakeWithdrawn{
		Account: caller,
		Amount:  new(big.Int).Set(total),
		Entries: consumed,
	})
	return total, nil
}

// ClaimRewards settles and pays out the caller's accrued native currency
// rewards to the provided recipient. A zero accrual returns zero without a
// transfer or event.
func (e *Engine) ClaimRewards(caller, to [20]byte) (*big.Int, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	release, err := e.guard.Enter()
	if err != nil {
		return nil, err
	}
	defer release()
	g, err := e.state.StakeGlobal()
	if err != nil {
		return nil, err
	}
	g = g.EnsureDefaults()
	pos, err := e.state.StakePosition(caller)
	if err != nil {
		return nil, err
	}
	pos = pos.EnsureDefaults()
	if err := e.refreshGlobal(g); err != nil {
		return nil, err
	}
	settle(g, pos)
	amount := new(big.Int).Set(pos.Accrued)
	if amount.Sign() == 0 {
		if err := e.state.SetStakeGlobal(g); err != nil {
			return nil, err
		}
		if err := e.state.SetStakePosition(caller, pos); err != nil {
			return nil, err
		}
		return big.NewInt(0), nil
	}
	if err := e.ledger.Transfer(VaultAddress(), to, token.SymbolFLP, amount); err != nil {
		return nil, err
	}
	pos.Accrued = big.NewInt(0)
	checkpoint(g, pos)
	// The payout reduced the vault balance; resynchronise so the next refresh
	// does not misread the outflow as a missing deposit.
	g.LastAccountedBalance = new(big.Int).Sub(g.LastAccountedBalance, amount)
	if g.LastAccountedBalance.Sign() < 0 {
		g.LastAccountedBalance = big.NewInt(0)
	}
	if err := e.state.SetStakeGlobal(g); err != nil {
		return nil, err
	}
	if err := e.state.SetStakePosition(caller, pos); err != nil {
		return nil, err
	}
	e.emit(events.StakeRewardsClaimed{Account: caller, To: to, Amount: new(big.Int).Set(amount)})
	return amount, nil
}

// NotifyReward moves a native currency reward from the payer into the vault
// and folds it into the accumulator. Zero-value deposits are ignored.
func (e *Engine) NotifyReward(from [20]byte, amount *big.Int) error {
	if err := e.ready(); err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil
	}
	if err := e.ledger.Transfer(from, VaultAddress(), token.SymbolFLP, amount); err != nil {
		return err
	}
	g, err := e.state.StakeGlobal()
	if err != nil {
		return err
	}
	g = g.EnsureDefaults()
	if err := e.refreshGlobal(g); err != nil {
		return err
	}
	return e.state.SetStakeGlobal(g)
}

// PendingRewards projects the accumulator as if refreshed now and returns the
// account's claimable amount without mutating state.
func (e *Engine) PendingRewards(addr [20]byte) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if e.ledger == nil {
		return nil, ErrNilLedger
	}
	g, err := e.state.StakeGlobal()
	if err != nil {
		return nil, err
	}
	g = g.EnsureDefaults()
	pos, err := e.state.StakePosition(addr)
	if err != nil {
		return nil, err
	}
	pos = pos.EnsureDefaults()
	rps := new(big.Int).Set(g.RewardPerShare)
	balance, err := e.vaultNativeBalance()
	if err != nil {
		return nil, err
	}
	delta := new(big.Int).Sub(balance, g.LastAccountedBalance)
	if delta.Sign() > 0 && g.TotalShares.Sign() > 0 {
		scaled := new(big.Int).Mul(delta, rewardScale)
		scaled.Quo(scaled, g.TotalShares)
		rps.Add(rps, scaled)
	}
	earned := new(big.Int).Mul(pos.Shares, rps)
	earned.Quo(earned, rewardScale)
	pending := new(big.Int).Sub(earned, pos.RewardDebt)
	if pending.Sign() < 0 {
		pending = big.NewInt(0)
	}
	return pending.Add(pending, pos.Accrued), nil
}

// SharesOf returns the account's current share balance.
func (e *Engine) SharesOf(addr [20]byte) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	pos, err := e.state.StakePosition(addr)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(pos.EnsureDefaults().Shares), nil
}

// TotalShares returns the global share supply.
func (e *Engine) TotalShares() (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	g, err := e.state.StakeGlobal()
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(g.EnsureDefaults().TotalShares), nil
}

// TransferShares always fails: shares are a capability-restricted ledger with
// mint and burn as the only mutations.
func (e *Engine) TransferShares(from, to [20]byte, amount *big.Int) error {
	return ErrSharesNotTransferable
}
