// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectKind(t *testing.T) {
	tests := []struct {
		path     string
		expected FileKind
	}{
		{"Pets.ts", KindModule},
		{"nested/Store.ts", KindModule},
		{"data-contracts.ts", KindDataContracts},
		{"http-client.ts", KindHTTPClient},
		{"schema.ts", KindSchema},
		{"api/schema.ts", KindSchema},
		{"types.d.ts", KindOther},
		{"README.md", KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectKind(tt.path))
		})
	}
}
