// Copyright 2021 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsonhttp_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lodenet/lode/pkg/jsonhttp"
)

func TestRespond(t *testing.T) {
	w := httptest.NewRecorder()

	jsonhttp.Respond(w, http.StatusOK, map[string]uint64{"value": 42})

	if s := w.Code; s != http.StatusOK {
		t.Errorf("got status %d, want %d", s, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != jsonhttp.DefaultContentTypeHeader {
		t.Errorf("got content type %q, want %q", ct, jsonhttp.DefaultContentTypeHeader)
	}
	if b := w.Body.String(); b != `{"value":42}`+"\n" {
		t.Errorf("got body %q, want %q", b, `{"value":42}`+"\n")
	}
}

func TestRespondDefaultStatusResponse(t *testing.T) {
	w := httptest.NewRecorder()

	jsonhttp.NotFound(w, nil)

	if s := w.Code; s != http.StatusNotFound {
		t.Errorf("got status %d, want %d", s, http.StatusNotFound)
	}
	if b := w.Body.String(); b != `{"message":"Not Found","code":404}`+"\n" {
		t.Errorf("got body %q, want %q", b, `{"message":"Not Found","code":404}`+"\n")
	}
}

func TestMethodHandler(t *testing.T) {
	h := jsonhttp.MethodHandler{
		"GET": http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			jsonhttp.OK(w, nil)
		}),
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if s := w.Code; s != http.StatusOK {
		t.Errorf("got status %d, want %d", s, http.StatusOK)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
	if s := w.Code; s != http.StatusMethodNotAllowed {
		t.Errorf("got status %d, want %d", s, http.StatusMethodNotAllowed)
	}
}
