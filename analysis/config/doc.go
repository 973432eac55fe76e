// Copyright the atomizer authors. All Rights Reserved.
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

// Package config manages the configuration of an atomizer run and the
// leveled loggers the analyses print diagnostics through.
//
// Use [Load](filename) to load a configuration from a specific filename. A
// config file is in yaml format; the top-level fields can be any of the
// fields defined in the [Options] struct. For example:
//
//	output: rewritten.go
//	name: counter
//	seed: 42
//	qualifier: "/*atomic*/"
//	log-level: 4
//
// Every field can be overridden from the command line; see cmd/atomizer.
package config
