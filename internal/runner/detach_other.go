// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

//go:build !unix

package runner

import "os/exec"

func detach(*exec.Cmd) {}
