// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestvault/nest/api/admin"
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
	stranger  = nest.BytesToAddress([]byte("stranger"))
)

func newTestServer(t *testing.T) (*httptest.Server, *vault.Vault) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st := state.New(db)

	collection := custody.NewCollection(storage.NewContext(nest.BytesToAddress([]byte("test-collection")), st))
	token := custody.NewToken(storage.NewContext(nest.BytesToAddress([]byte("test-token")), st))
	admins := custody.NewAdmins(storage.NewContext(vaultAddr, st))
	require.NoError(t, admins.Grant(operator))

	v := vault.New(vaultAddr, st, collection, token, admins)
	require.NoError(t, st.Commit())

	clock := nest.NewFixedClock(0, 10_000)
	router := mux.NewRouter()
	admin.New(v, st, clock, new(sync.RWMutex)).Mount(router, "/admin")

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts, v
}

func httpPost(t *testing.T, url string, body any) int {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer res.Body.Close()
	_, err = io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode
}

func TestInitialize(t *testing.T) {
	ts, v := newTestServer(t)

	req := &admin.InitializeRequest{
		Caller: operator,
		Config: vault.Config{
			RewardPerBlock: 100,
			StakeLimit:     10,
			StakingHours:   2,
			UnbondingHours: 1,
		},
	}
	code := httpPost(t, ts.URL+"/admin/initialize", req)
	require.Equal(t, http.StatusOK, code)

	end, err := v.StakingEndTime()
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000+2*3600), end)

	// a second initialize is rejected
	code = httpPost(t, ts.URL+"/admin/initialize", req)
	assert.Equal(t, http.StatusConflict, code)
}

func TestParamEndpointsRequireAuthorization(t *testing.T) {
	ts, v := newTestServer(t)

	code := httpPost(t, ts.URL+"/admin/stake-limit", &admin.ParamRequest{Caller: stranger, Value: 5})
	assert.Equal(t, http.StatusForbidden, code)

	code = httpPost(t, ts.URL+"/admin/stake-limit", &admin.ParamRequest{Caller: operator, Value: 5})
	require.Equal(t, http.StatusOK, code)

	limit, err := v.StakeLimit()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), limit)
}

func TestPauseUnpause(t *testing.T) {
	ts, v := newTestServer(t)

	code := httpPost(t, ts.URL+"/admin/pause", &admin.CallerRequest{Caller: operator})
	require.Equal(t, http.StatusOK, code)
	paused, err := v.Paused()
	require.NoError(t, err)
	assert.True(t, paused)

	code = httpPost(t, ts.URL+"/admin/unpause", &admin.CallerRequest{Caller: operator})
	require.Equal(t, http.StatusOK, code)
	paused, err = v.Paused()
	require.NoError(t, err)
	assert.False(t, paused)

	code = httpPost(t, ts.URL+"/admin/pause", &admin.CallerRequest{Caller: stranger})
	assert.Equal(t, http.StatusForbidden, code)
}

func TestStakingEndDerivedFromNow(t *testing.T) {
	ts, v := newTestServer(t)

	code := httpPost(t, ts.URL+"/admin/staking-end", &admin.ParamRequest{Caller: operator, Value: 600})
	require.Equal(t, http.StatusOK, code)

	end, err := v.StakingEndTime()
	require.NoError(t, err)
	assert.Equal(t, uint64(10_600), end)
}
