/*
Copyright 2026 The faster-outlines-go Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package logging defines the klog verbosity levels shared across the
// module, so every package logs at a consistent granularity.
package logging

import "k8s.io/klog/v2"

const (
	// DEBUG is used for failures that are handled locally but worth
	// diagnosing (a recovered worker panic, a failed broadcast publish).
	DEBUG klog.Level = 2
	// TRACE is used for per-state detail that is only useful when
	// debugging an index build itself (state expanded, row published).
	TRACE klog.Level = 4
)
