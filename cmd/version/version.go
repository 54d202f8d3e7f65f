// Copyright 2025 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Set at build time with -ldflags "-X github.com/gorse-io/coenroll/cmd/version.Version=...".
var (
	Version   = "unknown-version"
	GitCommit = "unknown-commit"
	BuildTime = "unknown-buildtime"
)

// BuildInfo describes the binary, one tab separated field per line.
func BuildInfo() string {
	var builder strings.Builder
	for _, field := range [][2]string{
		{"Version", Version},
		{"Go version", runtime.Version()},
		{"Git commit", GitCommit},
		{"Built", BuildTime},
		{"OS/Arch", runtime.GOOS + "/" + runtime.GOARCH},
	} {
		fmt.Fprintf(&builder, "%s:\t%s\n", field[0], field[1])
	}
	return builder.String()
}
