// Copyright 2021 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package overlay_test

import (
	"encoding/json"
	"testing"

	"github.com/lodenet/lode/pkg/overlay"
)

func TestAddress(t *testing.T) {
	a, err := overlay.ParseHexAddress("35a26b7bb6455cbabe7a0e05aafbd0b8b26feac843e3b9a649468d0ea37a12b2")
	if err != nil {
		t.Fatal(err)
	}
	if a.IsZero() {
		t.Error("address should not be zero")
	}

	b := overlay.MustParseHexAddress("35a26b7bb6455cbabe7a0e05aafbd0b8b26feac843e3b9a649468d0ea37a12b2")
	if !a.Equal(b) {
		t.Errorf("addresses %v and %v are not equal", a, b)
	}

	if _, err := overlay.ParseHexAddress("gg"); err == nil {
		t.Error("expected error parsing invalid hex")
	}
}

func TestAddressJSON(t *testing.T) {
	a := overlay.MustParseHexAddress("9ee7add7")

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"9ee7add7"` {
		t.Errorf("got json %s, want %s", string(data), `"9ee7add7"`)
	}

	var b overlay.Address
	if err := json.Unmarshal(data, &b); err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Errorf("address from json %v is not equal to %v", b, a)
	}
}
