// Copyright 2021 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package debugapi_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lodenet/lode/pkg/debugapi"
	"github.com/lodenet/lode/pkg/loadfee"
	"github.com/lodenet/lode/pkg/loadfee/mock"
	"github.com/lodenet/lode/pkg/logging"
)

func newTestServer(t *testing.T, tracker *mock.Service, baseFee uint64) *httptest.Server {
	t.Helper()

	s := debugapi.New(tracker, baseFee, logging.New(io.Discard, 0), nil)
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return ts
}

func request(t *testing.T, ts *httptest.Server, path string, v interface{}) int {
	t.Helper()

	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatal(err)
		}
	}
	return resp.StatusCode
}

func TestLoadFeeEndpoint(t *testing.T) {
	tracker := mock.NewService(mock.WithLocalLevel(512))
	ts := newTestServer(t, tracker, 10)

	var got loadfee.FeeInfo
	if code := request(t, ts, "/loadfee", &got); code != http.StatusOK {
		t.Fatalf("got status %d, want %d", code, http.StatusOK)
	}

	want := loadfee.FeeInfo{BaseFee: 10, LoadFee: 20}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fee snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFeeFieldNames(t *testing.T) {
	tracker := mock.NewService(mock.WithLocalLevel(512))
	ts := newTestServer(t, tracker, 10)

	resp, err := http.Get(ts.URL + "/loadfee")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	// the field names are a wire contract with existing consumers
	if want := `{"base_fee":10,"load_fee":20}` + "\n"; string(body) != want {
		t.Errorf("got body %q, want %q", string(body), want)
	}
}

func TestLoadEndpoint(t *testing.T) {
	tracker := mock.NewService(
		mock.WithLocalLevel(320),
		mock.WithRemoteLevel(400),
		mock.WithClusterLevel(500),
	)
	ts := newTestServer(t, tracker, 10)

	var got struct {
		LocalLevel    uint32 `json:"local_level"`
		RemoteLevel   uint32 `json:"remote_level"`
		ClusterLevel  uint32 `json:"cluster_level"`
		LoadBase      uint32 `json:"load_base"`
		LoadFactor    uint32 `json:"load_factor"`
		LoadedLocal   bool   `json:"loaded_local"`
		LoadedCluster bool   `json:"loaded_cluster"`
	}
	if code := request(t, ts, "/load", &got); code != http.StatusOK {
		t.Fatalf("got status %d, want %d", code, http.StatusOK)
	}

	if got.LocalLevel != 320 || got.RemoteLevel != 400 || got.ClusterLevel != 500 {
		t.Errorf("unexpected levels %d/%d/%d", got.LocalLevel, got.RemoteLevel, got.ClusterLevel)
	}
	if got.LoadBase != loadfee.Reference {
		t.Errorf("got load base %d, want %d", got.LoadBase, loadfee.Reference)
	}
	if got.LoadFactor != 500 {
		t.Errorf("got load factor %d, want %d", got.LoadFactor, 500)
	}
	if !got.LoadedLocal || !got.LoadedCluster {
		t.Errorf("expected loaded flags to be set, got %v/%v", got.LoadedLocal, got.LoadedCluster)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, mock.NewService(), 10)

	var got struct {
		Status string `json:"status"`
	}
	if code := request(t, ts, "/health", &got); code != http.StatusOK {
		t.Fatalf("got status %d, want %d", code, http.StatusOK)
	}
	if got.Status != "ok" {
		t.Errorf("got status %q, want %q", got.Status, "ok")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, mock.NewService(), 10)

	resp, err := http.Post(ts.URL+"/loadfee", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("got status %d, want %d", resp.StatusCode, http.StatusMethodNotAllowed)
	}
}
