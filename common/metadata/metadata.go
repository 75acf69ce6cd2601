/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package metadata

// Variables set at build time with -ldflags "-X ..."
var (
	Version   = "latest"
	CommitSHA = "development build"
)

// ProgramName is reported by the version command and endpoint.
const ProgramName = "aesutil"
