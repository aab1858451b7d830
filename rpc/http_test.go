package rpc

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"flipnet/core"
	"flipnet/crypto"
	"flipnet/native/stake"
	"flipnet/native/wager"
	"flipnet/storage"
)

const testAuthToken = "test-token"

func bech(addr [20]byte) string {
	return crypto.MustNewAddress(crypto.FLPPrefix, addr[:]).String()
}

func newTestServer(t *testing.T) (*httptest.Server, [20]byte, [20]byte) {
	t.Helper()
	var owner, provider, player [20]byte
	owner[19] = 0xAA
	provider[19] = 0x77
	player[19] = 0x01
	node, err := core.NewNode(storage.NewMemDB(), core.Config{
		Owner: owner,
		WagerParams: &wager.Params{
			FeeRateBps:        500,
			MinBet:            big.NewInt(10),
			DividendThreshold: big.NewInt(1_000_000),
			Provider:          provider,
			CallbackGasLimit:  100,
			TimeoutSeconds:    3_600,
		},
		OracleFeePerGas: big.NewInt(0),
		BonusTreasury:   big.NewInt(1_000_000),
		Genesis: []core.GenesisAccount{
			{Address: player, FLP: big.NewInt(100_000), SFLP: big.NewInt(10_000)},
			{Address: wager.HouseAddress(), FLP: big.NewInt(10_000)},
		},
	})
	require.NoError(t, err)
	server := NewServer(node, testAuthToken, slog.Default())
	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)
	return ts, player, owner
}

type testResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

func call(t *testing.T, ts *httptest.Server, authToken, method string, params interface{}) testResponse {
	t.Helper()
	payload := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
	}
	if params != nil {
		payload["params"] = []interface{}{params}
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, ts.URL, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var decoded testResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return decoded
}

func result(t *testing.T, resp testResponse) map[string]interface{} {
	t.Helper()
	require.Nil(t, resp.Error, "unexpected RPC error: %+v", resp.Error)
	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(resp.Result, &out))
	return out
}

func TestUnknownMethod(t *testing.T) {
	ts, _, _ := newTestServer(t)
	resp := call(t, ts, "", "bogus_method", nil)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeMethodNotFound, resp.Error.Code)
}

func TestMutatingCallsRequireAuth(t *testing.T) {
	ts, player, _ := newTestServer(t)
	params := map[string]string{"caller": bech(player), "amount": "100"}

	resp := call(t, ts, "", "stake_stake", params)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeUnauthorized, resp.Error.Code)

	resp = call(t, ts, "wrong-token", "stake_stake", params)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeUnauthorized, resp.Error.Code)
}

func TestQueriesSkipAuth(t *testing.T) {
	ts, player, _ := newTestServer(t)
	resp := call(t, ts, "", "token_balance", map[string]string{
		"address": bech(player), "symbol": "FLP",
	})
	require.Equal(t, "100000", result(t, resp)["balance"])
}

func TestFullWagerFlowOverRPC(t *testing.T) {
	ts, player, _ := newTestServer(t)

	resp := call(t, ts, testAuthToken, "token_approve", map[string]string{
		"owner":   bech(player),
		"spender": bech(stake.VaultAddress()),
		"symbol":  "SFLP",
		"amount":  "1000",
	})
	result(t, resp)

	resp = call(t, ts, testAuthToken, "stake_stake", map[string]string{
		"caller": bech(player), "amount": "1000",
	})
	require.Equal(t, "1000", result(t, resp)["shares"])

	resp = call(t, ts, "", "wager_quote", nil)
	quote := result(t, resp)
	commitment := quote["commitment"].(string)
	require.Equal(t, "0", quote["oracleFee"])

	resp = call(t, ts, testAuthToken, "wager_place", map[string]string{
		"caller":     bech(player),
		"amount":     "100",
		"payment":    "105",
		"commitment": commitment,
	})
	placed := result(t, resp)
	key := placed["key"].(string)
	sequence := uint64(placed["sequence"].(float64))

	resp = call(t, ts, "", "oracle_pending", nil)
	pending := result(t, resp)["pending"].([]interface{})
	require.Len(t, pending, 1)

	resp = call(t, ts, testAuthToken, "oracle_fulfill", map[string]interface{}{
		"sequence":    sequence,
		"randomValue": "8",
	})
	result(t, resp)

	resp = call(t, ts, "", "wager_get", map[string]string{"key": key})
	bet := result(t, resp)
	require.Equal(t, "won", bet["status"])
	require.Equal(t, float64(3), bet["flips"])

	resp = call(t, ts, "", "token_balance", map[string]string{
		"address": bech(player), "symbol": "ZFLP",
	})
	require.Equal(t, "300", result(t, resp)["balance"])

	resp = call(t, ts, "", "events_recent", nil)
	require.Nil(t, resp.Error)
	var events []map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Result, &events))
	require.NotEmpty(t, events)
}

func TestWagerPlaceRejectsStaleCommitment(t *testing.T) {
	ts, player, owner := newTestServer(t)

	resp := call(t, ts, testAuthToken, "token_approve", map[string]string{
		"owner":   bech(player),
		"spender": bech(stake.VaultAddress()),
		"symbol":  "SFLP",
		"amount":  "1000",
	})
	result(t, resp)
	resp = call(t, ts, testAuthToken, "stake_stake", map[string]string{
		"caller": bech(player), "amount": "1000",
	})
	result(t, resp)

	resp = call(t, ts, "", "wager_quote", nil)
	stale := result(t, resp)["commitment"].(string)

	fee := uint64(700)
	resp = call(t, ts, testAuthToken, "wager_updateParams", map[string]interface{}{
		"caller":     bech(owner),
		"feeRateBps": fee,
	})
	result(t, resp)

	resp = call(t, ts, testAuthToken, "wager_place", map[string]string{
		"caller":     bech(player),
		"amount":     "100",
		"payment":    "200",
		"commitment": stale,
	})
	require.NotNil(t, resp.Error)
	require.Equal(t, codeServerError, resp.Error.Code)
}
