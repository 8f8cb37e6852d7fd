// Copyright 2025 The Concilia Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/jcodagnone/concilia/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
