package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sternrassler/vehicle-catalog/internal/testutil"
	"github.com/Sternrassler/vehicle-catalog/pkg/config"
	"github.com/Sternrassler/vehicle-catalog/pkg/loader"
)

func webhookConfig(url string) *config.Config {
	return &config.Config{
		CacheTTL:        30 * time.Minute,
		Loader:          config.LoaderWebhook,
		UpstreamURL:     url,
		UpstreamTimeout: time.Second,
		BankMarkers:     []string{"BANK"},
		CORSOrigins:     []string{"*"},
	}
}

func TestSetup_Webhook(t *testing.T) {
	mock := testutil.NewMockUpstream()
	defer mock.Close()
	mock.SetResponse("/booking", testutil.NewRowsResponse(testutil.FixtureRowsJSON))

	a, err := setup(context.Background(), webhookConfig(mock.URL()+"/booking"))
	require.NoError(t, err)
	defer a.close()

	resp, err := a.server.App().Test(httptest.NewRequest(http.MethodGet, "/pricing?vehicle_id=M1", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env struct {
		Status string `json:"status"`
		Data   struct {
			TotalPrice int64 `json:"total_price"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &env))
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, int64(152000), env.Data.TotalPrice)
	assert.Equal(t, 1, mock.RequestCount("/booking"))
}

func TestSetup_InvalidSchedule(t *testing.T) {
	cfg := webhookConfig("http://127.0.0.1:1/booking")
	cfg.RefreshSchedule = "every now and then"

	_, err := setup(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REFRESH_SCHEDULE")
}

func TestSetup_Schedule(t *testing.T) {
	cfg := webhookConfig("http://127.0.0.1:1/booking")
	cfg.RefreshSchedule = "@every 1h"

	a, err := setup(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, a.cron)
	assert.Len(t, a.cron.Entries(), 1)
	a.close()
}

func TestSetup_UnreachableRedisDisablesMirror(t *testing.T) {
	cfg := webhookConfig("http://127.0.0.1:1/booking")
	cfg.RedisURL = "127.0.0.1:1"

	a, err := setup(context.Background(), cfg)
	require.NoError(t, err)
	assert.Empty(t, a.closers, "no redis client kept open")
	a.close()
}

func TestBuildLoader(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.Config
		want    any
		wantErr bool
	}{
		{"webhook", webhookConfig("http://upstream/booking"), &loader.Webhook{}, false},
		{"xlsx", &config.Config{Loader: config.LoaderWorkbook, XLSXPath: "catalog.xlsx", BankMarkers: []string{"BANK"}}, &loader.Workbook{}, false},
		{"unknown", &config.Config{Loader: "csv"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildLoader(tt.cfg, &app{})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, got)
		})
	}
}

func TestRedisOptions(t *testing.T) {
	tests := []struct {
		raw      string
		wantAddr string
		wantDB   int
		wantErr  bool
	}{
		{"localhost:6379", "localhost:6379", 0, false},
		{"redis://cache.internal:6380/2", "cache.internal:6380", 2, false},
		{"redis://[::1", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			opts, err := redisOptions(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("redisOptions(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if opts.Addr != tt.wantAddr || opts.DB != tt.wantDB {
				t.Errorf("redisOptions(%q) = %s/%d, want %s/%d", tt.raw, opts.Addr, opts.DB, tt.wantAddr, tt.wantDB)
			}
		})
	}
}
