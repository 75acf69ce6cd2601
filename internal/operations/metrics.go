/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package operations

import "github.com/hyperledger/fabric-blockcipher/common/metrics"

var versionGaugeOpts = metrics.GaugeOpts{
	Namespace:    "blockcipher",
	Name:         "version",
	Help:         "The active version of aesutil.",
	LabelNames:   []string{"version"},
	StatsdFormat: "%{#fqname}",
}
