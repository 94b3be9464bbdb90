// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package hmda

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loanCSV = "lei,loan_amount,state_code\n" +
	"LEI1,105000,CA\n" +
	"LEI2,255000,CA\n" +
	"LEI3,95000,CA\n"

// newLoanServer serves loanCSV on /view/csv and counts requests.
func newLoanServer(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/view/csv" {
			http.NotFound(w, r)
			return
		}
		hits.Add(1)
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(loanCSV))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(WithBaseURL(baseURL), WithCacheDir(t.TempDir()))
	require.NoError(t, err)
	return c
}

func TestNewClient_EnsuresCacheDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	c, err := NewClient(WithCacheDir(dir))
	require.NoError(t, err)

	info, err := os.Stat(c.CacheDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Idempotent on an existing directory.
	_, err = NewClient(WithCacheDir(dir))
	assert.NoError(t, err)
}

func TestLoanData_FetchAndCache(t *testing.T) {
	var hits atomic.Int64
	srv := newLoanServer(t, &hits)
	c := newTestClient(t, srv.URL)

	q := LoanQuery{Year: 2023, States: []string{"CA"}}

	first, err := c.LoanData(context.Background(), q, true)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Len())
	assert.Equal(t, int64(1), hits.Load())

	// The entry lands at the clear-text key.
	entry := filepath.Join(c.CacheDir(), "hmda_2023_states_CA.csv")
	_, err = os.Stat(entry)
	require.NoError(t, err)

	// Second identical call: zero new upstream requests, equal table.
	second, err := c.LoanData(context.Background(), q, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), hits.Load())
	assert.True(t, first.Equal(second))
}

func TestLoanData_CacheDisabled(t *testing.T) {
	var hits atomic.Int64
	srv := newLoanServer(t, &hits)
	c := newTestClient(t, srv.URL)

	q := LoanQuery{Year: 2023, States: []string{"CA"}}

	_, err := c.LoanData(context.Background(), q, false)
	require.NoError(t, err)
	_, err = c.LoanData(context.Background(), q, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), hits.Load())

	// No entry is written when caching is off.
	entries, err := os.ReadDir(c.CacheDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoanData_PermutedStatesAreDistinctEntries(t *testing.T) {
	var hits atomic.Int64
	srv := newLoanServer(t, &hits)
	c := newTestClient(t, srv.URL)

	_, err := c.LoanData(context.Background(), LoanQuery{Year: 2023, States: []string{"CA", "NY"}}, true)
	require.NoError(t, err)
	_, err = c.LoanData(context.Background(), LoanQuery{Year: 2023, States: []string{"NY", "CA"}}, true)
	require.NoError(t, err)

	assert.Equal(t, int64(2), hits.Load())
	_, err = os.Stat(filepath.Join(c.CacheDir(), "hmda_2023_states_CA_NY.csv"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(c.CacheDir(), "hmda_2023_states_NY_CA.csv"))
	assert.NoError(t, err)
}

func TestLoanData_RequestFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("internal error"))
	}))
	t.Cleanup(srv.Close)
	c := newTestClient(t, srv.URL)

	_, err := c.LoanData(context.Background(), LoanQuery{Year: 2023, States: []string{"CA"}}, true)
	require.Error(t, err)

	var reqErr *RequestFailedError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "internal error")

	// No cache entry is written on failure.
	entries, err := os.ReadDir(c.CacheDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoanData_NoTransientFileRemains(t *testing.T) {
	var hits atomic.Int64
	srv := newLoanServer(t, &hits)
	c := newTestClient(t, srv.URL)

	_, err := c.LoanData(context.Background(), LoanQuery{Year: 2023, States: []string{"CA"}}, true)
	require.NoError(t, err)

	entries, err := os.ReadDir(c.CacheDir())
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), "hmda-download-"), "leftover download file %s", e.Name())
		assert.False(t, strings.Contains(e.Name(), ".tmp-"), "leftover staging file %s", e.Name())
	}
}

func TestLoanData_MalformedCSV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("lei,amount\n\"broken,1\n"))
	}))
	t.Cleanup(srv.Close)
	c := newTestClient(t, srv.URL)

	_, err := c.LoanData(context.Background(), LoanQuery{Year: 2023}, true)
	assert.Error(t, err)

	// The transient file is removed even on the parse-failure path.
	entries, readErr := os.ReadDir(c.CacheDir())
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestLoanData_FiltersForwardedNotCached(t *testing.T) {
	var gotPurposes atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPurposes.Store(r.URL.Query().Get("loan_purposes"))
		_, _ = w.Write([]byte(loanCSV))
	}))
	t.Cleanup(srv.Close)
	c := newTestClient(t, srv.URL)

	fs := FilterSet{}
	require.NoError(t, fs.Set("loan_purposes", "1", "2"))

	_, err := c.LoanData(context.Background(), LoanQuery{Year: 2023, States: []string{"CA"}, Filters: fs}, true)
	require.NoError(t, err)
	assert.Equal(t, "1,2", gotPurposes.Load())

	// Same key with or without filters, so the filtered result was cached
	// under the geography key.
	_, err = os.Stat(filepath.Join(c.CacheDir(), "hmda_2023_states_CA.csv"))
	assert.NoError(t, err)
}

func TestLoanData_ConcurrentSameKeyCoalesces(t *testing.T) {
	var hits atomic.Int64
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(loanCSV))
	}))
	t.Cleanup(slow.Close)
	c := newTestClient(t, slow.URL)

	q := LoanQuery{Year: 2023, States: []string{"CA"}}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.LoanData(context.Background(), q, true)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), hits.Load())
}

func TestLoanData_YearRequired(t *testing.T) {
	c := newTestClient(t, "http://localhost:0")
	_, err := c.LoanData(context.Background(), LoanQuery{States: []string{"CA"}}, true)
	assert.ErrorIs(t, err, ErrYearRequired)
}
