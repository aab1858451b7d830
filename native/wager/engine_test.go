package wager

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"flipnet/core/events"
	"flipnet/native/common"
	"flipnet/native/oracle"
	"flipnet/native/token"
)

type memState struct {
	bets        map[BetKey]*Bet
	params      *Params
	epoch       uint64
	reservation *big.Int
	bonusUsed   map[string]*big.Int
	fallbacks   map[[20]byte]*big.Int
}

func newMemState() *memState {
	return &memState{
		bets:        make(map[BetKey]*Bet),
		reservation: big.NewInt(0),
		bonusUsed:   make(map[string]*big.Int),
		fallbacks:   make(map[[20]byte]*big.Int),
	}
}

func (m *memState) WagerBet(key BetKey) (*Bet, bool, error) {
	bet, ok := m.bets[key]
	if !ok {
		return nil, false, nil
	}
	return bet.Clone(), true, nil
}

func (m *memState) PutWagerBet(key BetKey, bet *Bet) error {
	m.bets[key] = bet.Clone()
	return nil
}

func (m *memState) WagerParams() (*Params, error) {
	if m.params == nil {
		return nil, nil
	}
	return m.params.Clone(), nil
}

func (m *memState) SetWagerParams(p *Params) error {
	m.params = p.Clone()
	return nil
}

func (m *memState) WagerEpoch() (uint64, error) { return m.epoch, nil }

func (m *memState) SetWagerEpoch(epoch uint64) error {
	m.epoch = epoch
	return nil
}

func (m *memState) WagerReservation() (*big.Int, error) {
	return new(big.Int).Set(m.reservation), nil
}

func (m *memState) SetWagerReservation(amount *big.Int) error {
	m.reservation = new(big.Int).Set(amount)
	return nil
}

func bonusKey(addr [20]byte, day string) string { return string(addr[:]) + "|" + day }

func (m *memState) WagerDailyBonusUsed(addr [20]byte, day string) (*big.Int, error) {
	if used, ok := m.bonusUsed[bonusKey(addr, day)]; ok {
		return new(big.Int).Set(used), nil
	}
	return big.NewInt(0), nil
}

func (m *memState) SetWagerDailyBonusUsed(addr [20]byte, day string, amount *big.Int) error {
	m.bonusUsed[bonusKey(addr, day)] = new(big.Int).Set(amount)
	return nil
}

func (m *memState) WagerFallbackBalance(addr [20]byte) (*big.Int, error) {
	if bal, ok := m.fallbacks[addr]; ok {
		return new(big.Int).Set(bal), nil
	}
	return big.NewInt(0), nil
}

func (m *memState) SetWagerFallbackBalance(addr [20]byte, amount *big.Int) error {
	m.fallbacks[addr] = new(big.Int).Set(amount)
	return nil
}

type memLedger struct {
	balances map[[20]byte]map[string]*big.Int
	denied   map[[20]byte]bool
}

func newMemLedger() *memLedger {
	return &memLedger{
		balances: make(map[[20]byte]map[string]*big.Int),
		denied:   make(map[[20]byte]bool),
	}
}

func (l *memLedger) credit(addr [20]byte, symbol string, amount *big.Int) {
	if l.balances[addr] == nil {
		l.balances[addr] = make(map[string]*big.Int)
	}
	bal := l.balances[addr][symbol]
	if bal == nil {
		bal = big.NewInt(0)
	}
	l.balances[addr][symbol] = new(big.Int).Add(bal, amount)
}

func (l *memLedger) BalanceOf(addr [20]byte, symbol string) (*big.Int, error) {
	if bal, ok := l.balances[addr][symbol]; ok {
		return new(big.Int).Set(bal), nil
	}
	return big.NewInt(0), nil
}

func (l *memLedger) Denylisted(addr [20]byte) (bool, error) { return l.denied[addr], nil }

func (l *memLedger) Transfer(from, to [20]byte, symbol string, amount *big.Int) error {
	if l.denied[from] || l.denied[to] {
		return token.ErrDenylisted
	}
	bal, _ := l.BalanceOf(from, symbol)
	if bal.Cmp(amount) < 0 {
		return token.ErrInsufficientBalance
	}
	l.balances[from][symbol] = new(big.Int).Sub(bal, amount)
	l.credit(to, symbol, amount)
	return nil
}

type memStaking struct {
	total  *big.Int
	shares map[[20]byte]*big.Int
}

func (s *memStaking) TotalShares() (*big.Int, error) { return new(big.Int).Set(s.total), nil }

func (s *memStaking) SharesOf(addr [20]byte) (*big.Int, error) {
	if v, ok := s.shares[addr]; ok {
		return new(big.Int).Set(v), nil
	}
	return big.NewInt(0), nil
}

type memSink struct {
	ledger   *memLedger
	received *big.Int
}

func (s *memSink) NotifyReward(from [20]byte, amount *big.Int) error {
	var drain [20]byte
	drain[19] = 0xEE
	if err := s.ledger.Transfer(from, drain, token.SymbolFLP, amount); err != nil {
		return err
	}
	s.received = new(big.Int).Add(s.received, amount)
	return nil
}

type memEmitter struct {
	events []events.Event
}

func (m *memEmitter) Emit(evt events.Event) { m.events = append(m.events, evt) }

func (m *memEmitter) byType(eventType string) []events.Event {
	var out []events.Event
	for _, evt := range m.events {
		if evt.EventType() == eventType {
			out = append(out, evt)
		}
	}
	return out
}

type wagerEnv struct {
	engine  *Engine
	state   *memState
	ledger  *memLedger
	oracle  *oracle.MemoryOracle
	staking *memStaking
	sink    *memSink
	emitter *memEmitter
	now     int64
	player  [20]byte
	owner   [20]byte
}

func (env *wagerEnv) setNow(ts int64) {
	env.now = ts
	env.engine.SetNowFunc(func() int64 { return env.now })
}

func (env *wagerEnv) commitment(t *testing.T) [32]byte {
	t.Helper()
	p, err := env.state.WagerParams()
	require.NoError(t, err)
	return p.Commitment()
}

var testProvider = func() [20]byte {
	var addr [20]byte
	addr[19] = 0x77
	return addr
}()

func newWagerEnv(t *testing.T) *wagerEnv {
	t.Helper()
	env := &wagerEnv{
		state:   newMemState(),
		ledger:  newMemLedger(),
		staking: &memStaking{total: big.NewInt(1_000), shares: make(map[[20]byte]*big.Int)},
		emitter: &memEmitter{},
		now:     1_700_000_000,
	}
	env.player[19] = 0x01
	env.owner[19] = 0xAA
	env.sink = &memSink{ledger: env.ledger, received: big.NewInt(0)}
	env.oracle = oracle.NewMemoryOracle(testProvider, big.NewInt(2))

	env.ledger.credit(env.player, token.SymbolFLP, big.NewInt(100_000))
	env.ledger.credit(HouseAddress(), token.SymbolFLP, big.NewInt(10_000))
	env.ledger.credit(HouseAddress(), token.SymbolZFLP, big.NewInt(1_000_000))
	env.staking.shares[env.player] = big.NewInt(2_000)

	env.engine = NewEngine()
	env.engine.SetState(env.state)
	env.engine.SetLedger(env.ledger)
	env.engine.SetOracle(env.oracle)
	env.engine.SetStaking(env.staking)
	env.engine.SetRewardSink(env.sink)
	env.engine.SetEmitter(env.emitter)
	env.engine.SetOwner(env.owner)
	env.setNow(env.now)
	env.oracle.SetConsumer(env.engine)

	params := &Params{
		FeeRateBps:          500,
		MinBet:              big.NewInt(10),
		MaxBet:              big.NewInt(1_000),
		DividendThreshold:   big.NewInt(1_000_000_000),
		Provider:            testProvider,
		CallbackGasLimit:    100,
		TimeoutSeconds:      3_600,
		InitialBonusReserve: big.NewInt(1_000_000),
	}
	require.NoError(t, env.engine.Bootstrap(params))
	return env
}

// place funds a bet of the given amount with an exact payment and returns its
// key and sequence.
func (env *wagerEnv) place(t *testing.T, amount int64) (BetKey, uint64) {
	t.Helper()
	fee, err := env.oracle.QuoteFee(testProvider, 100)
	require.NoError(t, err)
	houseFee := amount * 500 / 10_000
	payment := new(big.Int).Add(big.NewInt(amount+houseFee), fee)
	key, err := env.engine.PlaceBet(env.player, big.NewInt(amount), [32]byte{}, env.commitment(t), payment)
	require.NoError(t, err)
	return key, key.Sequence()
}

func TestPlaceBetMovesFundsAndReserves(t *testing.T) {
	env := newWagerEnv(t)
	houseBefore, _ := env.ledger.BalanceOf(HouseAddress(), token.SymbolFLP)
	playerBefore, _ := env.ledger.BalanceOf(env.player, token.SymbolFLP)

	// Overpay by 37 to exercise the refund.
	payment := big.NewInt(100 + 5 + 200 + 37)
	key, err := env.engine.PlaceBet(env.player, big.NewInt(100), [32]byte{0x42}, env.commitment(t), payment)
	require.NoError(t, err)
	require.Equal(t, testProvider, key.Provider())
	require.Equal(t, uint64(1), key.Sequence())

	houseAfter, _ := env.ledger.BalanceOf(HouseAddress(), token.SymbolFLP)
	playerAfter, _ := env.ledger.BalanceOf(env.player, token.SymbolFLP)
	providerBal, _ := env.ledger.BalanceOf(testProvider, token.SymbolFLP)
	require.Equal(t, int64(105), new(big.Int).Sub(houseAfter, houseBefore).Int64())
	require.Equal(t, int64(-305), new(big.Int).Sub(playerAfter, playerBefore).Int64())
	require.Equal(t, int64(200), providerBal.Int64())

	reservation, err := env.engine.Reservation()
	require.NoError(t, err)
	require.Equal(t, int64(200), reservation.Int64())

	bet, exists, err := env.engine.BetOf(key)
	require.NoError(t, err)
	require.True(t, exists)
	require.True(t, bet.Pending())
	require.Equal(t, env.player, bet.Player)
	require.Equal(t, uint64(env.now)+3_600, bet.Expiry)
	require.Equal(t, int64(100), bet.Amount.Int64())
	require.Equal(t, int64(2_000), bet.StakeSnapshot.Int64())
	require.Len(t, env.emitter.byType(events.TypeWagerPlaced), 1)
}

func TestPlaceBetRefundNeverExceedsCollected(t *testing.T) {
	env := newWagerEnv(t)
	houseBefore, _ := env.ledger.BalanceOf(HouseAddress(), token.SymbolFLP)
	playerBefore, _ := env.ledger.BalanceOf(env.player, token.SymbolFLP)

	// Declare the player's entire balance as payment. Only the required
	// portion may stick; the rest flows back from funds the player actually
	// paid, never out of pre-existing house liquidity.
	_, err := env.engine.PlaceBet(env.player, big.NewInt(100), [32]byte{}, env.commitment(t), new(big.Int).Set(playerBefore))
	require.NoError(t, err)

	houseAfter, _ := env.ledger.BalanceOf(HouseAddress(), token.SymbolFLP)
	playerAfter, _ := env.ledger.BalanceOf(env.player, token.SymbolFLP)
	require.Equal(t, int64(105), new(big.Int).Sub(houseAfter, houseBefore).Int64())
	require.Equal(t, int64(-305), new(big.Int).Sub(playerAfter, playerBefore).Int64())
}

func TestPlaceBetValidation(t *testing.T) {
	env := newWagerEnv(t)
	commit := env.commitment(t)
	payment := big.NewInt(10_000)

	_, err := env.engine.PlaceBet(env.player, big.NewInt(100), [32]byte{}, [32]byte{0x01}, payment)
	require.ErrorIs(t, err, ErrInvalidCommitment)

	_, err = env.engine.PlaceBet(env.player, big.NewInt(5), [32]byte{}, commit, payment)
	require.ErrorIs(t, err, ErrBetOutOfRange)
	_, err = env.engine.PlaceBet(env.player, big.NewInt(1_001), [32]byte{}, commit, payment)
	require.ErrorIs(t, err, ErrBetOutOfRange)

	// Required payment for 100 is 100 + 5 fee + 200 oracle fee.
	_, err = env.engine.PlaceBet(env.player, big.NewInt(100), [32]byte{}, commit, big.NewInt(304))
	require.ErrorIs(t, err, ErrInvalidValue)

	env.staking.total = big.NewInt(0)
	_, err = env.engine.PlaceBet(env.player, big.NewInt(100), [32]byte{}, commit, payment)
	require.ErrorIs(t, err, ErrNotInitialized)
	env.staking.total = big.NewInt(1_000)

	require.NoError(t, env.state.SetWagerReservation(big.NewInt(50_000)))
	_, err = env.engine.PlaceBet(env.player, big.NewInt(100), [32]byte{}, commit, payment)
	require.ErrorIs(t, err, ErrInsufficientLiquidity)
}

func TestPlaceBetRespectsExclusion(t *testing.T) {
	env := newWagerEnv(t)
	deadline := uint64(env.now) + 86_400
	env.engine.SetExclusions(exclusionStub{addr: env.player, until: deadline})
	_, err := env.engine.PlaceBet(env.player, big.NewInt(100), [32]byte{}, env.commitment(t), big.NewInt(305))
	require.ErrorIs(t, err, ErrExcluded)

	env.setNow(int64(deadline) + 1)
	_, err = env.engine.PlaceBet(env.player, big.NewInt(100), [32]byte{}, env.commitment(t), big.NewInt(305))
	require.NoError(t, err)
}

type exclusionStub struct {
	addr  [20]byte
	until uint64
}

func (s exclusionStub) Excluded(addr [20]byte, now uint64) (bool, error) {
	return addr == s.addr && now < s.until, nil
}

func TestSettleLossOnOddValue(t *testing.T) {
	env := newWagerEnv(t)
	key, seq := env.place(t, 100)
	playerBefore, _ := env.ledger.BalanceOf(env.player, token.SymbolFLP)

	require.NoError(t, env.oracle.Fulfill(seq, big.NewInt(13)))

	bet, _, err := env.engine.BetOf(key)
	require.NoError(t, err)
	require.Equal(t, ResultLost, bet.Result)
	require.False(t, bet.Won())
	playerAfter, _ := env.ledger.BalanceOf(env.player, token.SymbolFLP)
	require.Zero(t, playerBefore.Cmp(playerAfter))
	reservation, _ := env.engine.Reservation()
	require.Zero(t, reservation.Sign())
}

func TestSettleWinPaysDoubleAndBonus(t *testing.T) {
	env := newWagerEnv(t)
	key, seq := env.place(t, 100)
	playerBefore, _ := env.ledger.BalanceOf(env.player, token.SymbolFLP)

	// 0b1000: three trailing zero bits, three flips won.
	require.NoError(t, env.oracle.Fulfill(seq, big.NewInt(8)))

	bet, _, err := env.engine.BetOf(key)
	require.NoError(t, err)
	require.True(t, bet.Won())
	require.Equal(t, uint64(3), bet.DecodeFlips())

	playerAfter, _ := env.ledger.BalanceOf(env.player, token.SymbolFLP)
	require.Equal(t, int64(200), new(big.Int).Sub(playerAfter, playerBefore).Int64())

	// Base bonus 100*(3-1) = 200 at epoch zero. Snapshot 2000 shares grants a
	// 200 daily multiplier allowance, fully consumed here.
	bonusBal, _ := env.ledger.BalanceOf(env.player, token.SymbolZFLP)
	require.Equal(t, int64(400), bonusBal.Int64())
	day := "2023-11-14" // unix 1_700_000_000 UTC
	used, err := env.engine.DailyBonusUsed(env.player, day)
	require.NoError(t, err)
	require.Equal(t, int64(200), used.Int64())

	reservation, _ := env.engine.Reservation()
	require.Zero(t, reservation.Sign())
	require.Len(t, env.emitter.byType(events.TypeWagerSettled), 1)
}

func TestDailyBonusAllowanceExhausts(t *testing.T) {
	env := newWagerEnv(t)
	_, seq := env.place(t, 100)
	require.NoError(t, env.oracle.Fulfill(seq, big.NewInt(8)))
	firstBonus, _ := env.ledger.BalanceOf(env.player, token.SymbolZFLP)
	require.Equal(t, int64(400), firstBonus.Int64())

	// Allowance is spent; the second win the same day earns base only.
	_, seq = env.place(t, 100)
	require.NoError(t, env.oracle.Fulfill(seq, big.NewInt(8)))
	secondBonus, _ := env.ledger.BalanceOf(env.player, token.SymbolZFLP)
	require.Equal(t, int64(600), secondBonus.Int64())

	// A new UTC day resets the meter.
	env.setNow(env.now + 86_400)
	_, seq = env.place(t, 100)
	require.NoError(t, env.oracle.Fulfill(seq, big.NewInt(8)))
	thirdBonus, _ := env.ledger.BalanceOf(env.player, token.SymbolZFLP)
	require.Equal(t, int64(1_000), thirdBonus.Int64())
}

func TestSettleAdvancesEpochAndHalvesBonus(t *testing.T) {
	env := newWagerEnv(t)
	// Shrink the treasury under half the initial reserve.
	var burn [20]byte
	burn[19] = 0xFF
	require.NoError(t, env.ledger.Transfer(HouseAddress(), burn, token.SymbolZFLP, big.NewInt(600_000)))

	_, seq := env.place(t, 100)
	require.NoError(t, env.oracle.Fulfill(seq, big.NewInt(8)))

	epoch, err := env.engine.Epoch()
	require.NoError(t, err)
	require.Equal(t, uint64(1), epoch)
	require.Len(t, env.emitter.byType(events.TypeWagerEpochAdvanced), 1)

	// The next win pays a halved base: 100*(3-1) >> 1 = 100. The daily
	// multiplier allowance was spent by the first win, so base only.
	before, _ := env.ledger.BalanceOf(env.player, token.SymbolZFLP)
	_, seq = env.place(t, 100)
	require.NoError(t, env.oracle.Fulfill(seq, big.NewInt(8)))
	after, _ := env.ledger.BalanceOf(env.player, token.SymbolZFLP)
	require.Equal(t, int64(100), new(big.Int).Sub(after, before).Int64())
}

func TestCallbackGuards(t *testing.T) {
	env := newWagerEnv(t)
	_, seq := env.place(t, 100)

	err := env.engine.RandomnessCallback(seq, [20]byte{0x09}, big.NewInt(8))
	require.ErrorIs(t, err, ErrUnexpectedProvider)
	err = env.engine.RandomnessCallback(seq+5, testProvider, big.NewInt(8))
	require.ErrorIs(t, err, ErrUnknownBet)

	require.NoError(t, env.oracle.Fulfill(seq, big.NewInt(8)))
	err = env.engine.RandomnessCallback(seq, testProvider, big.NewInt(8))
	require.ErrorIs(t, err, ErrBetNotPending)
}

func TestExpiredCallbackLeavesBetCancellable(t *testing.T) {
	env := newWagerEnv(t)
	key, seq := env.place(t, 100)
	placed := env.now

	// Expiry boundary: a callback at exactly the expiry instant is late.
	env.setNow(placed + 3_600)
	err := env.engine.RandomnessCallback(seq, testProvider, big.NewInt(8))
	require.ErrorIs(t, err, ErrBetExpired)
	bet, _, err := env.engine.BetOf(key)
	require.NoError(t, err)
	require.True(t, bet.Pending())

	playerBefore, _ := env.ledger.BalanceOf(env.player, token.SymbolFLP)
	require.NoError(t, env.engine.Cancel(key, common.NewBudget(0)))
	playerAfter, _ := env.ledger.BalanceOf(env.player, token.SymbolFLP)
	// The stake comes back; house and oracle fees are forfeit.
	require.Equal(t, int64(100), new(big.Int).Sub(playerAfter, playerBefore).Int64())
	bet, _, _ = env.engine.BetOf(key)
	require.Equal(t, ResultCancelled, bet.Result)
	reservation, _ := env.engine.Reservation()
	require.Zero(t, reservation.Sign())
}

func TestCancelGuards(t *testing.T) {
	env := newWagerEnv(t)
	key, _ := env.place(t, 100)

	err := env.engine.Cancel(key, common.NewBudget(0))
	require.ErrorIs(t, err, ErrBetNotExpired)

	env.setNow(env.now + 3_600)
	err = env.engine.Cancel(key, common.NewBudget(CancelBudgetFloor-1))
	require.ErrorIs(t, err, common.ErrBudgetExhausted)
	bet, _, _ := env.engine.BetOf(key)
	require.True(t, bet.Pending())

	require.NoError(t, env.engine.Cancel(key, common.NewBudget(CancelBudgetFloor)))
	err = env.engine.Cancel(key, common.NewBudget(0))
	require.ErrorIs(t, err, ErrBetNotPending)
}

func TestFallbackCreditAndClaim(t *testing.T) {
	env := newWagerEnv(t)
	key, seq := env.place(t, 100)
	_ = key

	// A gated winner cannot receive the push payout; it parks as a claim.
	env.ledger.denied[env.player] = true
	require.NoError(t, env.oracle.Fulfill(seq, big.NewInt(8)))

	claimable, err := env.engine.FallbackBalanceOf(env.player)
	require.NoError(t, err)
	require.Equal(t, int64(200), claimable.Int64())
	reservation, _ := env.engine.Reservation()
	require.Equal(t, int64(200), reservation.Int64())
	// Two degraded pushes: the native payout and the ZFLP bonus.
	require.Len(t, env.emitter.byType(events.TypeWagerTransferFailed), 2)

	// Claiming to an ungated recipient drains the credit.
	var alt [20]byte
	alt[19] = 0x02
	paid, err := env.engine.Claim(env.player, alt)
	require.NoError(t, err)
	require.Equal(t, int64(200), paid.Int64())
	altBal, _ := env.ledger.BalanceOf(alt, token.SymbolFLP)
	require.Equal(t, int64(200), altBal.Int64())
	reservation, _ = env.engine.Reservation()
	require.Zero(t, reservation.Sign())

	// A second claim is a zero no-op.
	paid, err = env.engine.Claim(env.player, alt)
	require.NoError(t, err)
	require.Zero(t, paid.Sign())
}

func TestDividendSweepRespectsReservation(t *testing.T) {
	env := newWagerEnv(t)
	require.NoError(t, env.engine.UpdateDividendThreshold(env.owner, big.NewInt(5_000)))

	// House holds 10_000 before the bet; the placement adds 105 and reserves
	// 200, so everything above max(5_000, 200) is swept.
	env.place(t, 100)
	require.Equal(t, int64(5_105), env.sink.received.Int64())
	houseBal, _ := env.ledger.BalanceOf(HouseAddress(), token.SymbolFLP)
	require.Equal(t, int64(5_000), houseBal.Int64())
	require.Len(t, env.emitter.byType(events.TypeWagerDividendPaid), 1)
}

func TestCommitmentTracksParamChanges(t *testing.T) {
	env := newWagerEnv(t)
	stale := env.commitment(t)
	require.NoError(t, env.engine.UpdateFeeRate(env.owner, 700))

	_, err := env.engine.PlaceBet(env.player, big.NewInt(100), [32]byte{}, stale, big.NewInt(10_000))
	require.ErrorIs(t, err, ErrInvalidCommitment)

	fresh, fee, err := env.engine.QuoteCommitment()
	require.NoError(t, err)
	require.Equal(t, int64(200), fee.Int64())
	_, err = env.engine.PlaceBet(env.player, big.NewInt(100), [32]byte{}, fresh, big.NewInt(10_000))
	require.NoError(t, err)
}

func TestAdminGates(t *testing.T) {
	env := newWagerEnv(t)
	require.ErrorIs(t, env.engine.UpdateFeeRate(env.player, 100), ErrUnauthorized)
	require.ErrorIs(t, env.engine.UpdateFeeRate(env.owner, 10_001), ErrInvalidParam)
	require.ErrorIs(t, env.engine.UpdateBetLimits(env.owner, big.NewInt(0), big.NewInt(10)), ErrInvalidParam)
	require.ErrorIs(t, env.engine.UpdateBetLimits(env.owner, big.NewInt(100), big.NewInt(50)), ErrInvalidParam)
	require.ErrorIs(t, env.engine.UpdateProvider(env.owner, [20]byte{}), ErrInvalidParam)
	require.ErrorIs(t, env.engine.UpdateTimeout(env.owner, 0), ErrInvalidParam)
	require.ErrorIs(t, env.engine.UpdateCallbackGasLimit(env.owner, 0), ErrInvalidParam)

	require.NoError(t, env.engine.UpdateBetLimits(env.owner, big.NewInt(50), big.NewInt(0)))
	p, err := env.engine.Params()
	require.NoError(t, err)
	require.Equal(t, int64(50), p.MinBet.Int64())
	require.Zero(t, p.MaxBet.Sign())
	require.Len(t, env.emitter.byType(events.TypeWagerParamUpdated), 1)
}

func TestPausedEngineRejectsMutations(t *testing.T) {
	env := newWagerEnv(t)
	env.engine.SetPauses(pausedView{})
	_, err := env.engine.PlaceBet(env.player, big.NewInt(100), [32]byte{}, env.commitment(t), big.NewInt(305))
	require.ErrorIs(t, err, common.ErrModulePaused)
	err = env.engine.Cancel(BetKey{}, common.NewBudget(0))
	require.ErrorIs(t, err, common.ErrModulePaused)
}

type pausedView struct{}

func (pausedView) IsPaused(module string) bool { return true }
