package wager

import (
	"math/big"
	"time"

	"flipnet/core/events"
	"flipnet/native/common"
	"flipnet/native/oracle"
	"flipnet/native/token"
)

// PauseModule is the pause-view key guarding wager mutations.
const PauseModule = "wager"

// CancelBudgetFloor is the minimum execution budget a cancellation must carry
// before the refund transfer is attempted. Refusing short budgets prevents a
// caller from starving the refund into the fallback path to grief the
// recipient's accounting.
const CancelBudgetFloor uint64 = 40_000

// engineState describes the minimal functionality the wager engine needs from
// the surrounding state implementation.
type engineState interface {
	WagerBet(key BetKey) (*Bet, bool, error)
	PutWagerBet(key BetKey, bet *Bet) error
	WagerParams() (*Params, error)
	SetWagerParams(p *Params) error
	WagerEpoch() (uint64, error)
	SetWagerEpoch(epoch uint64) error
	WagerReservation() (*big.Int, error)
	SetWagerReservation(amount *big.Int) error
	WagerDailyBonusUsed(addr [20]byte, day string) (*big.Int, error)
	SetWagerDailyBonusUsed(addr [20]byte, day string, amount *big.Int) error
	WagerFallbackBalance(addr [20]byte) (*big.Int, error)
	SetWagerFallbackBalance(addr [20]byte, amount *big.Int) error
}

// TokenLedger is the balance backend wagers, payouts and bonuses move through.
type TokenLedger interface {
	Transfer(from, to [20]byte, symbol string, amount *big.Int) error
	BalanceOf(addr [20]byte, symbol string) (*big.Int, error)
	Denylisted(addr [20]byte) (bool, error)
}

// StakingView exposes the staking pool facts the engine snapshots at bet
// placement: the global share supply (bootstrap precondition) and the player's
// shares (daily bonus allowance base).
type StakingView interface {
	TotalShares() (*big.Int, error)
	SharesOf(addr [20]byte) (*big.Int, error)
}

// RewardSink receives swept house surplus. The stake engine implements it by
// folding the deposit into its reward accumulator.
type RewardSink interface {
	NotifyReward(from [20]byte, amount *big.Int) error
}

// ExclusionView reports voluntary self-exclusion deadlines.
type ExclusionView interface {
	Excluded(addr [20]byte, now uint64) (bool, error)
}

// Engine implements the randomized coin-flip wager lifecycle: placement,
// asynchronous randomness settlement, timeout cancellation, fallback claims
// and the dividend sweep into the staking pool.
type Engine struct {
	state      engineState
	ledger     TokenLedger
	oracle     oracle.Service
	staking    StakingView
	rewards    RewardSink
	exclusions ExclusionView
	emitter    events.Emitter
	pauses     common.PauseView
	guard      common.CallGuard
	owner      [20]byte
	nowFn      func() int64
}

// NewEngine creates a wager engine with a no-op emitter.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetLedger configures the token ledger.
func (e *Engine) SetLedger(ledger TokenLedger) { e.ledger = ledger }

// SetOracle configures the randomness service.
func (e *Engine) SetOracle(svc oracle.Service) { e.oracle = svc }

// SetStaking configures the staking pool view.
func (e *Engine) SetStaking(view StakingView) { e.staking = view }

// SetRewardSink configures the dividend sweep recipient.
func (e *Engine) SetRewardSink(sink RewardSink) { e.rewards = sink }

// SetExclusions configures the self-exclusion registry view. A nil view
// disables the check.
func (e *Engine) SetExclusions(view ExclusionView) { e.exclusions = view }

// SetPauses configures the pause view consulted before mutations.
func (e *Engine) SetPauses(p common.PauseView) { e.pauses = p }

// SetOwner configures the administrative owner.
func (e *Engine) SetOwner(owner [20]byte) { e.owner = owner }

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
	if e.oracle == nil {
		return ErrNilOracle
	}
	return common.Guard(e.pauses, PauseModule)
}

func cloneBigInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

// Bootstrap stores the launch parameters if none are persisted yet. The
// initial bonus reserve is captured from the live ZFLP treasury when the
// provided value is zero.
func (e *Engine) Bootstrap(p *Params) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	existing, err := e.state.WagerParams()
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	p = p.Clone()
	if p.InitialBonusReserve.Sign() == 0 && e.ledger != nil {
		treasury, err := e.ledger.BalanceOf(HouseAddress(), token.SymbolZFLP)
		if err != nil {
			return err
		}
		p.InitialBonusReserve = treasury
	}
	return e.state.SetWagerParams(p)
}

func (e *Engine) params() (*Params, error) {
	p, err := e.state.WagerParams()
	if err != nil {
		return nil, err
	}
	return p.EnsureDefaults(), nil
}

func (e *Engine) houseBalance() (*big.Int, error) {
	return e.ledger.BalanceOf(HouseAddress(), token.SymbolFLP)
}

func (e *Engine) bonusTreasury() (*big.Int, error) {
	return e.ledger.BalanceOf(HouseAddress(), token.SymbolZFLP)
}

// QuoteCommitment returns the commitment a caller must submit alongside their
// payment, plus the oracle fee priced for the live parameters.
func (e *Engine) QuoteCommitment() ([32]byte, *big.Int, error) {
	if err := e.ready(); err != nil {
		return [32]byte{}, nil, err
	}
	p, err := e.params()
	if err != nil {
		return [32]byte{}, nil, err
	}
	fee, err := e.oracle.QuoteFee(p.Provider, p.CallbackGasLimit)
	if err != nil {
		return [32]byte{}, nil, err
	}
	return p.Commitment(), fee, nil
}

// PlaceBet validates and funds a wager, requests randomness and stores the
// pending record. The payment must cover stake, house fee and oracle fee; any
// excess is refunded immediately.
func (e *Engine) PlaceBet(caller [20]byte, amount *big.Int, tag [32]byte, commitment [32]byte, payment *big.Int) (BetKey, error) {
	var key BetKey
	if err := e.ready(); err != nil {
		return key, err
	}
	release, err := e.guard.Enter()
	if err != nil {
		return key, err
	}
	defer release()
	now := e.now()
	if e.exclusions != nil {
		excluded, err := e.exclusions.Excluded(caller, now)
		if err != nil {
			return key, err
		}
		if excluded {
			return key, ErrExcluded
		}
	}
	p, err := e.params()
	if err != nil {
		return key, err
	}
	if commitment != p.Commitment() {
		return key, ErrInvalidCommitment
	}
	if e.staking == nil {
		return key, ErrNotInitialized
	}
	totalShares, err := e.staking.TotalShares()
	if err != nil {
		return key, err
	}
	if totalShares.Sign() == 0 {
		return key, ErrNotInitialized
	}
	amount = cloneBigInt(amount)
	if amount.Sign() <= 0 || amount.Cmp(p.MinBet) < 0 {
		return key, ErrBetOutOfRange
	}
	if p.MaxBet.Sign() > 0 && amount.Cmp(p.MaxBet) > 0 {
		return key, ErrBetOutOfRange
	}
	oracleFee, err := e.oracle.QuoteFee(p.Provider, p.CallbackGasLimit)
	if err != nil {
		return key, err
	}
	houseFee := new(big.Int).Mul(amount, new(big.Int).SetUint64(p.FeeRateBps))
	houseFee.Quo(houseFee, big.NewInt(feeRateDenominator))
	required := new(big.Int).Add(amount, houseFee)
	required.Add(required, oracleFee)
	payment = cloneBigInt(payment)
	if payment.Cmp(required) < 0 {
		return key, ErrInvalidValue
	}
	// Validate the payer up front: the ledger moves below must not fail after
	// the oracle request has been issued.
	callerBalance, err := e.ledger.BalanceOf(caller, token.SymbolFLP)
	if err != nil {
		return key, err
	}
	if callerBalance.Cmp(payment) < 0 {
		return key, token.ErrInsufficientBalance
	}
	if blocked, err := e.ledger.Denylisted(caller); err != nil {
		return key, err
	} else if blocked {
		return key, token.ErrDenylisted
	}

	reservation, err := e.state.WagerReservation()
	if err != nil {
		return key, err
	}
	liability := new(big.Int).Lsh(amount, 1)
	newReservation := new(big.Int).Add(reservation, liability)
	houseBal, err := e.houseBalance()
	if err != nil {
		return key, err
	}
	// Liquidity is judged with the incoming payment already counted, matching
	// the balance the house holds at the moment the reservation takes effect.
	prospective := new(big.Int).Add(houseBal, required)
	needed := new(big.Int).Add(newReservation, oracleFee)
	if prospective.Cmp(needed) < 0 {
		return key, ErrInsufficientLiquidity
	}

	sequence, err := e.oracle.Request(p.Provider, p.CallbackGasLimit, oracleFee)
	if err != nil {
		return key, err
	}
	key = NewBetKey(p.Provider, sequence)
	if _, exists, err := e.state.WagerBet(key); err != nil {
		return key, err
	} else if exists {
		// The packing guarantees uniqueness per provider+sequence; a clash
		// means the oracle replayed a sequence number.
		return key, ErrUnknownBet
	}

	// Pull the full declared payment, then return the excess. Refunding more
	// than was collected would pay the caller out of house funds.
	if err := e.ledger.Transfer(caller, HouseAddress(), token.SymbolFLP, payment); err != nil {
		return key, err
	}
	excess := new(big.Int).Sub(payment, required)
	if excess.Sign() > 0 {
		if err := e.ledger.Transfer(HouseAddress(), caller, token.SymbolFLP, excess); err != nil {
			return key, err
		}
	}
	if oracleFee.Sign() > 0 {
		if err := e.ledger.Transfer(HouseAddress(), p.Provider, token.SymbolFLP, oracleFee); err != nil {
			return key, err
		}
	}

	snapshot, err := e.staking.SharesOf(caller)
	if err != nil {
		return key, err
	}
	bet := &Bet{
		Player:        caller,
		Expiry:        now + p.TimeoutSeconds,
		Result:        ResultPending,
		Amount:        amount,
		Tag:           tag,
		StakeSnapshot: snapshot,
	}
	if err := e.state.PutWagerBet(key, bet); err != nil {
		return key, err
	}
	if err := e.state.SetWagerReservation(newReservation); err != nil {
		return key, err
	}
	if err := e.sweepDividends(p); err != nil {
		return key, err
	}
	e.emit(events.WagerPlaced{
		Key:      key,
		Player:   caller,
		Amount:   new(big.Int).Set(amount),
		Tag:      tag,
		Expiry:   int64(bet.Expiry),
		Sequence: sequence,
	})
	return key, nil
}

// RandomnessCallback settles a pending bet with the delivered random value.
// It satisfies the oracle.Consumer interface; only the configured provider
// identity is accepted.
func (e *Engine) RandomnessCallback(sequence uint64, provider [20]byte, randomValue *big.Int) error {
	if err := e.ready(); err != nil {
		return err
	}
	release, err := e.guard.Enter()
	if err != nil {
		return err
	}
	defer release()
	p, err := e.params()
	if err != nil {
		return err
	}
	if provider != p.Provider {
		return ErrUnexpectedProvider
	}
	key := NewBetKey(provider, sequence)
	bet, exists, err := e.state.WagerBet(key)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUnknownBet
	}
	if !bet.Pending() {
		return ErrBetNotPending
	}
	now := e.now()
	if bet.Expiry <= now {
		// Expired bets stay pending and remain cancellable; the randomness
		// arrived too late to settle.
		return ErrBetExpired
	}

	flips := uint64(0)
	if randomValue != nil && randomValue.Sign() != 0 {
		flips = uint64(common.LowestSetBit(randomValue))
	}

	reservation, err := e.state.WagerReservation()
	if err != nil {
		return err
	}
	liability := new(big.Int).Lsh(bet.Amount, 1)
	reservation = new(big.Int).Sub(reservation, liability)
	if reservation.Sign() < 0 {
		reservation = big.NewInt(0)
	}
	if err := e.state.SetWagerReservation(reservation); err != nil {
		return err
	}

	if flips == 0 {
		bet.Result = ResultLost
		if err := e.state.PutWagerBet(key, bet); err != nil {
			return err
		}
		e.emit(events.WagerSettled{
			Key:    key,
			Player: bet.Player,
			Flips:  0,
			Payout: big.NewInt(0),
			Bonus:  big.NewInt(0),
		})
		return nil
	}

	houseBal, err := e.houseBalance()
	if err != nil {
		return err
	}
	payout := new(big.Int).Lsh(bet.Amount, 1)
	if payout.Cmp(houseBal) > 0 {
		payout = houseBal
	}

	bonus, err := e.settleBonus(bet, flips, now)
	if err != nil {
		return err
	}

	epoch, err := e.advanceEpoch(p)
	if err != nil {
		return err
	}

	bet.Result = flips + 1
	if err := e.state.PutWagerBet(key, bet); err != nil {
		return err
	}
	if err := e.payOrFallback(bet.Player, payout); err != nil {
		return err
	}
	e.emit(events.WagerSettled{
		Key:    key,
		Player: bet.Player,
		Flips:  flips,
		Payout: payout,
		Bonus:  bonus,
		Epoch:  epoch,
	})
	return nil
}

// settleBonus computes and pays the ZFLP reward for a winning bet. The base
// component halves with the epoch; the loyalty multiplier is metered against
// the stake snapshot taken at placement time.
func (e *Engine) settleBonus(bet *Bet, flips uint64, now uint64) (*big.Int, error) {
	zero := big.NewInt(0)
	epoch, err := e.state.WagerEpoch()
	if err != nil {
		return nil, err
	}
	base := new(big.Int).Mul(bet.Amount, new(big.Int).SetUint64(flips-1))
	base.Rsh(base, uint(epoch))
	if base.Sign() == 0 {
		return zero, nil
	}
	total := new(big.Int).Set(base)
	day := time.Unix(int64(now), 0).UTC().Format("2006-01-02")
	used, err := e.state.WagerDailyBonusUsed(bet.Player, day)
	if err != nil {
		return nil, err
	}
	capacity := new(big.Int).Quo(cloneBigInt(bet.StakeSnapshot), big.NewInt(10))
	remaining := new(big.Int).Sub(capacity, used)
	if remaining.Sign() > 0 {
		multiplier := new(big.Int).Mul(base, big.NewInt(3))
		if multiplier.Cmp(remaining) > 0 {
			multiplier = remaining
		}
		if err := e.state.SetWagerDailyBonusUsed(bet.Player, day, new(big.Int).Add(used, multiplier)); err != nil {
			return nil, err
		}
		total.Add(total, multiplier)
	}
	treasury, err := e.bonusTreasury()
	if err != nil {
		return nil, err
	}
	if total.Cmp(treasury) > 0 {
		total = new(big.Int).Set(treasury)
	}
	if total.Sign() == 0 {
		return zero, nil
	}
	if err := e.ledger.Transfer(HouseAddress(), bet.Player, token.SymbolZFLP, total); err != nil {
		// Bonus delivery is best-effort: a gated recipient must not block
		// settlement of the native payout.
		e.emit(events.WagerTransferFailed{Recipient: bet.Player, Amount: total, Reason: "bonus: " + err.Error()})
		return zero, nil
	}
	return total, nil
}

// advanceEpoch walks the halving schedule against the remaining ZFLP treasury
// and commits the epoch if it moved forward. The epoch never decreases.
func (e *Engine) advanceEpoch(p *Params) (uint64, error) {
	epoch, err := e.state.WagerEpoch()
	if err != nil {
		return 0, err
	}
	treasury, err := e.bonusTreasury()
	if err != nil {
		return 0, err
	}
	candidate := epoch
	for {
		threshold := new(big.Int).Rsh(p.InitialBonusReserve, uint(candidate)+1)
		if threshold.Sign() == 0 || treasury.Cmp(threshold) > 0 {
			break
		}
		candidate++
	}
	if candidate > epoch {
		if err := e.state.SetWagerEpoch(candidate); err != nil {
			return 0, err
		}
		e.emit(events.WagerEpochAdvanced{Previous: epoch, Epoch: candidate, Treasury: treasury})
		return candidate, nil
	}
	return epoch, nil
}

// Cancel refunds a pending bet whose expiry has passed. Callable by anyone;
// the refund always goes to the player and forfeits the fees. The call fails
// outright when the remaining execution budget is below the refund floor.
func (e *Engine) Cancel(key BetKey, budget *common.Budget) error {
	if err := e.ready(); err != nil {
		return err
	}
	release, err := e.guard.Enter()
	if err != nil {
		return err
	}
	defer release()
	bet, exists, err := e.state.WagerBet(key)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUnknownBet
	}
	if !bet.Pending() {
		return ErrBetNotPending
	}
	if bet.Expiry > e.now() {
		return ErrBetNotExpired
	}
	if err := budget.Require(CancelBudgetFloor); err != nil {
		return err
	}
	reservation, err := e.state.WagerReservation()
	if err != nil {
		return err
	}
	liability := new(big.Int).Lsh(bet.Amount, 1)
	reservation = new(big.Int).Sub(reservation, liability)
	if reservation.Sign() < 0 {
		reservation = big.NewInt(0)
	}
	if err := e.state.SetWagerReservation(reservation); err != nil {
		return err
	}
	bet.Result = ResultCancelled
	if err := e.state.PutWagerBet(key, bet); err != nil {
		return err
	}
	if err := e.payOrFallback(bet.Player, bet.Amount); err != nil {
		return err
	}
	e.emit(events.WagerCancelled{Key: key, Player: bet.Player, Amount: cloneBigInt(bet.Amount)})
	return nil
}

// Claim pays the caller's fallback-claimable balance to the provided
// recipient. A zero balance is a no-op.
func (e *Engine) Claim(caller, to [20]byte) (*big.Int, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	release, err := e.guard.Enter()
	if err != nil {
		return nil, err
	}
	defer release()
	balance, err := e.state.WagerFallbackBalance(caller)
	if err != nil {
		return nil, err
	}
	if balance.Sign() == 0 {
		return big.NewInt(0), nil
	}
	if err := e.ledger.Transfer(HouseAddress(), to, token.SymbolFLP, balance); err != nil {
		return nil, err
	}
	if err := e.state.SetWagerFallbackBalance(caller, big.NewInt(0)); err != nil {
		return nil, err
	}
	reservation, err := e.state.WagerReservation()
	if err != nil {
		return nil, err
	}
	reservation = new(big.Int).Sub(reservation, balance)
	if reservation.Sign() < 0 {
		reservation = big.NewInt(0)
	}
	if err := e.state.SetWagerReservation(reservation); err != nil {
		return nil, err
	}
	e.emit(events.WagerClaimed{Account: caller, To: to, Amount: balance})
	return balance, nil
}

// payOrFallback attempts a direct native payment from the house; on failure it
// credits the recipient's pull-claimable balance and keeps the amount counted
// as an outstanding liability.
func (e *Engine) payOrFallback(to [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	if err := e.ledger.Transfer(HouseAddress(), to, token.SymbolFLP, amount); err == nil {
		return nil
	} else {
		fallback, ferr := e.state.WagerFallbackBalance(to)
		if ferr != nil {
			return ferr
		}
		if serr := e.state.SetWagerFallbackBalance(to, new(big.Int).Add(fallback, amount)); serr != nil {
			return serr
		}
		reservation, ferr := e.state.WagerReservation()
		if ferr != nil {
			return ferr
		}
		if serr := e.state.SetWagerReservation(new(big.Int).Add(reservation, amount)); serr != nil {
			return serr
		}
		e.emit(events.WagerTransferFailed{Recipient: to, Amount: cloneBigInt(amount), Reason: err.Error()})
	}
	return nil
}

// sweepDividends transfers house surplus above the configured threshold and
// the live payout reservation into the staking pool. Funds already promised
// to bettors are never swept.
func (e *Engine) sweepDividends(p *Params) error {
	if e.rewards == nil {
		return nil
	}
	reservation, err := e.state.WagerReservation()
	if err != nil {
		return err
	}
	floor := new(big.Int).Set(p.DividendThreshold)
	if reservation.Cmp(floor) > 0 {
		floor = new(big.Int).Set(reservation)
	}
	houseBal, err := e.houseBalance()
	if err != nil {
		return err
	}
	if houseBal.Cmp(floor) <= 0 {
		return nil
	}
	excess := new(big.Int).Sub(houseBal, floor)
	if err := e.rewards.NotifyReward(HouseAddress(), excess); err != nil {
		return err
	}
	e.emit(events.WagerDividendPaid{Amount: excess})
	return nil
}

// --- read-only queries ---

// BetOf returns the stored record for the key.
func (e *Engine) BetOf(key BetKey) (*Bet, bool, error) {
	if e == nil || e.state == nil {
		return nil, false, ErrNilState
	}
	bet, exists, err := e.state.WagerBet(key)
	if err != nil || !exists {
		return nil, false, err
	}
	return bet.Clone(), true, nil
}

// Epoch returns the current halving epoch.
func (e *Engine) Epoch() (uint64, error) {
	if e == nil || e.state == nil {
		return 0, ErrNilState
	}
	return e.state.WagerEpoch()
}

// Reservation returns the live maximum pending payout.
func (e *Engine) Reservation() (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	return e.state.WagerReservation()
}

// FallbackBalanceOf returns the pull-claimable balance for the address.
func (e *Engine) FallbackBalanceOf(addr [20]byte) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	return e.state.WagerFallbackBalance(addr)
}

// DailyBonusUsed returns the bonus capacity consumed by the address for the
// given day key.
func (e *Engine) DailyBonusUsed(addr [20]byte, day string) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	return e.state.WagerDailyBonusUsed(addr, day)
}

// Params returns a copy of the live parameters.
func (e *Engine) Params() (*Params, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	return e.params()
}
