// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Package config loads optional rule files for workerpatch.

	            +-------------+
	            |   Config    |
	            |   (Rules)   |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+-----+ +----+----+ +-----+-----+
	|   YAML    | |  JSON   | |    HCL    |
	|  Parser   | | Parser  | |  Parser   |
	+-----------+ +---------+ +-----------+

A rule file adds replacements that run after the built-in worker loading
rules, and can turn on strict mode:

	strict: true
	rules:
	  - name: locate-file
	    old: "locateFile(path)"
	    new: "locateFile(path, prefix)"
	  - name: drop-node-check
	    pattern: 'ENVIRONMENT_IS_NODE\s*=\s*[^;]+;'
	    new: "ENVIRONMENT_IS_NODE = false;"
	    file: "*-threaded-simd.js"

The HCL form uses labelled rule blocks and can reference the built-in
replacement texts through the builtin object:

	rule "guard-again" {
	  old = "if(_scriptDir2)"
	  new = builtin.script_dir_guard
	}
*/
package config
