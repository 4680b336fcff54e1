// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestvault/nest/api"
	"github.com/nestvault/nest/api/admin"
	"github.com/nestvault/nest/api/stakes"
	"github.com/nestvault/nest/lvldb"
	"github.com/nestvault/nest/nest"
	"github.com/nestvault/nest/state"
	"github.com/nestvault/nest/storage"
	"github.com/nestvault/nest/vault"
	"github.com/nestvault/nest/vault/custody"
)

var (
	vaultAddr = nest.BytesToAddress([]byte("test-vault"))
	operator  = nest.BytesToAddress([]byte("operator"))
	alice     = nest.BytesToAddress([]byte("alice"))
)

func newTestServer(t *testing.T) *httptest.Server {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st := state.New(db)

	collection := custody.NewCollection(storage.NewContext(nest.BytesToAddress([]byte("test-collection")), st))
	token := custody.NewToken(storage.NewContext(nest.BytesToAddress([]byte("test-token")), st))
	admins := custody.NewAdmins(storage.NewContext(vaultAddr, st))

	require.NoError(t, admins.Grant(operator))
	require.NoError(t, token.Mint(alice, big.NewInt(1_000_000)))
	require.NoError(t, token.Mint(vaultAddr, big.NewInt(1_000_000)))
	require.NoError(t, collection.Mint(alice, 1))

	v := vault.New(vaultAddr, st, collection, token, admins)
	collection.RegisterReceiver(vaultAddr, v)
	require.NoError(t, v.Initialize(vault.Config{
		RewardPerBlock: 100,
		EarlyExitTax:   50,
		StakeLimit:     10,
		CarryAmount:    10,
		StakingHours:   1,
		UnbondingHours: 1,
	}, 10_000))
	require.NoError(t, st.Commit())

	handler := api.New(v, st, nest.NewFixedClock(0, 10_000), api.Options{})
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url string, body any) int {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer res.Body.Close()
	_, err = io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode
}

func get(t *testing.T, url string) (int, []byte) {
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	payload, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, payload
}

func TestRouterMountsComponents(t *testing.T) {
	ts := newTestServer(t)

	code, _ := get(t, ts.URL+"/stakes/config")
	assert.Equal(t, http.StatusOK, code)

	code = post(t, ts.URL+"/admin/stake-limit", &admin.ParamRequest{Caller: operator, Value: 5})
	assert.Equal(t, http.StatusOK, code)

	code = post(t, ts.URL+"/stakes", &stakes.StakeRequest{Caller: alice, AssetID: 1})
	assert.Equal(t, http.StatusOK, code)
}

// Staking traffic, admin parameter changes, and reads all hit the same state
// journal; the router must serialize them no matter which component they
// enter through.
func TestConcurrentRequestsAreSerialized(t *testing.T) {
	ts := newTestServer(t)

	const rounds = 50
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			post(t, ts.URL+"/stakes", &stakes.StakeRequest{Caller: alice, AssetID: 1})
			post(t, ts.URL+"/stakes/1/withdraw", &stakes.ExitRequest{Caller: alice, Force: true})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			post(t, ts.URL+"/admin/stake-limit", &admin.ParamRequest{Caller: operator, Value: uint64(5 + i%2)})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			get(t, ts.URL+"/stakes")
			get(t, ts.URL+"/stakes/config")
		}
	}()
	wg.Wait()

	// the journal survived intact and the counters still make sense
	code, body := get(t, ts.URL+"/stakes")
	require.Equal(t, http.StatusOK, code)
	var stats stakes.Stats
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.LessOrEqual(t, stats.Total, uint64(1))
	assert.LessOrEqual(t, stats.Active, stats.Total)

	code, body = get(t, ts.URL+"/stakes/config")
	require.Equal(t, http.StatusOK, code)
	var cfg stakes.Config
	require.NoError(t, json.Unmarshal(body, &cfg))
	assert.Contains(t, []uint64{5, 6}, cfg.StakeLimit)

	code, _ = get(t, fmt.Sprintf("%s/stakes/owners/%s", ts.URL, alice))
	assert.Equal(t, http.StatusOK, code)
}
