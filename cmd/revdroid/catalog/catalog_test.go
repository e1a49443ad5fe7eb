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
	"bytes"
	"strings"
	"testing"

	"github.com/dong-li-awx/revdroid/analysis/catalog"
	"github.com/dong-li-awx/revdroid/internal/formatutil"
)

const mappings = `Permission:android.permission.CAMERA
2 Callers:
<android.hardware.Camera: android.hardware.Camera open()> ()
<android.hardware.Camera: void reconnect()> ()
Permission:android.permission.VIBRATE
1 Callers:
<android.os.Vibrator: void vibrate(long)> ()
`

func TestPrint(t *testing.T) {
	formatutil.ColorsEnabled = false
	cat, err := catalog.Parse("mappings", strings.NewReader(mappings), nil)
	if err != nil {
		t.Fatalf("could not parse catalog: %v", err)
	}
	var buf bytes.Buffer
	if err := Print(&buf, cat); err != nil {
		t.Fatal(err)
	}
	want := `android.permission.CAMERA
  <android.hardware.Camera: android.hardware.Camera open()>
  <android.hardware.Camera: void reconnect()>
android.permission.VIBRATE
  <android.os.Vibrator: void vibrate(long)>
3 sensitive methods, 2 permissions
`
	if got := buf.String(); got != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}
