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

/*
Package program contains the whole-program model analyzed by the misuse detection: methods, statements, call edges,
exception handler ranges, the exception type hierarchy and per-statement dominators.

The model is an arena: methods and statements live in slices and refer to each other through MethodID and StmtID
handles. An Arena is created with a Builder, either directly (see the Go front-end in analysis/gofrontend) or by
decoding a model file with LoadFile:

	permissions: [android.permission.CAMERA]
	entry-points: ["<com.example.Main: void main()>"]
	hierarchy:
	  java.lang.SecurityException: [java.lang.RuntimeException]
	methods:
	  - signature: "<com.example.Main: void main()>"
	    body:
	      - invoke: "<android.hardware.Camera: android.hardware.Camera open()>"
	        line: 12
	      - {}
	    traps:
	      - {begin: 0, end: 1, type: java.lang.SecurityException}

Once built, an Arena is never modified.
*/
package program
