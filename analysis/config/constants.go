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

package config

const (
	// Version is the version of the revdroid tools
	Version = "v0.3.1"

	// DefaultFailureType is the exception raised by the Android framework when a permission is missing
	DefaultFailureType = "java.lang.SecurityException"

	// DefaultCallgraphAnalysis is the call graph algorithm used by the Go front-end when none is specified
	DefaultCallgraphAnalysis = "vta"
)

// DefaultProactiveChecks are the Android methods that check whether a permission has been granted. They are
// declared by several unrelated types (Context, ContextCompat, PermissionChecker, ...), which is why guards are
// matched by name.
var DefaultProactiveChecks = []string{
	"checkPermission",
	"checkSelfPermission",
	"checkCallingPermission",
	"checkCallingOrSelfPermission",
	"checkUriPermission",
	"checkCallingUriPermission",
	"checkCallingOrSelfUriPermission",
}

// DefaultLibraryPrefixes are the prefixes of the classes of the Android platform and the common libraries bundled
// with applications.
var DefaultLibraryPrefixes = []string{
	"android.",
	"androidx.",
	"com.android.",
	"com.google.android.",
	"dalvik.",
	"java.",
	"javax.",
	"junit.",
	"kotlin.",
	"org.apache.",
	"org.json.",
	"org.w3c.",
	"org.xml.",
	"sun.",
}
