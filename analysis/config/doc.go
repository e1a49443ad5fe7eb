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
Package config provides a simple way to manage configuration files.

Use [Load](filename) to load a configuration from a specific filename.

Use [SetGlobalConfig](filename) to set filename as the global config, and then [LoadGlobal]() to load the global config.

A config file should be in yaml, json or toml format (toml is selected by the .toml extension). The top-level fields
can be any of the fields defined in the Config struct type.
For example, a valid config file is as follows:

	catalog: mappings/api-permissions.txt
	permissions:
	  - android.permission.CAMERA
	  - android.permission.ACCESS_FINE_LOCATION
	failure-type: java.lang.SecurityException
	proactive-checks:
	  - checkSelfPermission
	options:
	  log-level: 4
	  branch-local-history: true

# Library code

Sensitive calls are only reported when they are made from application code. A method is library code when its
declaring class starts with one of the library-prefixes (the Android platform, the Java runtime and common bundled
libraries by default). The Go front-end uses pkg-filter instead: functions in packages that do not match the filter
are library code.
*/
package config
