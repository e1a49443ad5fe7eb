// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package catalog

import (
	_ "embed"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dong-li-awx/revdroid/analysis/program"
	"github.com/google/go-cmp/cmp"
)

//go:embed testdata/mappings.txt
var mappings string

func mustSig(t *testing.T, s string) program.Signature {
	t.Helper()
	sig, err := program.ParseSignature(s)
	if err != nil {
		t.Fatal(err)
	}
	return sig
}

func TestParseMergesPermissions(t *testing.T) {
	c, err := Parse("mappings.txt", strings.NewReader(mappings), nil)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	if c.Len() != 6 {
		t.Errorf("expected 6 sensitive methods, got %d", c.Len())
	}

	open, ok := c.Lookup(mustSig(t, "<android.hardware.Camera: android.hardware.Camera open()>"))
	if !ok {
		t.Fatalf("Camera.open() should be in the catalog")
	}
	want := []string{"android.permission.ACCESS_FINE_LOCATION", "android.permission.CAMERA"}
	if diff := cmp.Diff(want, open.Permissions); diff != "" {
		t.Errorf("permissions of Camera.open() (-want +got):\n%s", diff)
	}
	if !open.Requires("android.permission.CAMERA") || open.Requires("android.permission.SEND_SMS") {
		t.Errorf("Requires is wrong for Camera.open()")
	}

	loc, ok := c.Lookup(mustSig(t,
		"<android.location.LocationManager: android.location.Location getLastKnownLocation(java.lang.String)>"))
	if !ok || len(loc.Permissions) != 2 {
		t.Errorf("getLastKnownLocation should require both location permissions, got %v", loc)
	}

	wantPerms := []string{
		"android.permission.ACCESS_COARSE_LOCATION",
		"android.permission.ACCESS_FINE_LOCATION",
		"android.permission.CAMERA",
		"android.permission.SEND_SMS",
	}
	if diff := cmp.Diff(wantPerms, c.Permissions()); diff != "" {
		t.Errorf("catalog permissions (-want +got):\n%s", diff)
	}
}

func TestLookupIsExact(t *testing.T) {
	c, err := Parse("mappings.txt", strings.NewReader(mappings), nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{
		// different parameter list
		"<android.hardware.Camera: android.hardware.Camera open(long)>",
		// different return type
		"<android.hardware.Camera: void open()>",
		// different class
		"<android.hardware.camera2.Camera: android.hardware.Camera open()>",
		// same parameters, one less
		"<android.location.LocationManager: void requestLocationUpdates(java.lang.String,long,float)>",
	} {
		if m, ok := c.Lookup(mustSig(t, s)); ok {
			t.Errorf("%s should not match %s", s, m.Sig)
		}
	}
	if _, ok := c.Lookup(mustSig(t, "<android.hardware.Camera: android.hardware.Camera open(int)>")); !ok {
		t.Errorf("Camera.open(int) should be in the catalog")
	}
}

func TestParsePermissionFilter(t *testing.T) {
	c, err := Parse("mappings.txt", strings.NewReader(mappings), []string{"android.permission.CAMERA"})
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 2 {
		t.Errorf("expected the 2 camera methods, got %d", c.Len())
	}
	open, ok := c.Lookup(mustSig(t, "<android.hardware.Camera: android.hardware.Camera open()>"))
	if !ok {
		t.Fatalf("Camera.open() should be in the catalog")
	}
	if diff := cmp.Diff([]string{"android.permission.CAMERA"}, open.Permissions); diff != "" {
		t.Errorf("filtered permissions (-want +got):\n%s", diff)
	}
}

func TestParseConsecutiveSections(t *testing.T) {
	// the first section of a filtered permission must not swallow the header of the next one
	c, err := Parse("inline", strings.NewReader(mappings),
		[]string{"android.permission.SEND_SMS", "android.permission.ACCESS_FINE_LOCATION"})
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 5 {
		t.Errorf("expected 5 methods, got %d: %v", c.Len(), c.Methods())
	}
}

func TestMethodsSorted(t *testing.T) {
	c := New()
	c.Add(mustSig(t, "<b.B: void g()>"), "p2")
	c.Add(mustSig(t, "<a.A: void f()>"), "p1")
	c.Add(mustSig(t, "<b.B: void g()>"), "p1")
	c.Add(mustSig(t, "<b.B: void g()>"), "p2")
	methods := c.Methods()
	if len(methods) != 2 {
		t.Fatalf("expected 2 methods, got %d", len(methods))
	}
	if methods[0].String() != "<a.A: void f()> p1" || methods[1].String() != "<b.B: void g()> p1 p2" {
		t.Errorf("unexpected methods %v", methods)
	}
}

func TestLoad(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "mappings.txt"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 6 {
		t.Errorf("expected 6 methods, got %d", c.Len())
	}
	if _, err := Load(filepath.Join("testdata", "missing.txt"), nil); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "malformed.txt"), nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "malformed.txt:3:") {
		t.Errorf("error should give the position, got %q", err)
	}
	_, err = Parse("inline", strings.NewReader("Permission:\n"), nil)
	if err == nil {
		t.Errorf("expected an error for an empty permission")
	}
}
