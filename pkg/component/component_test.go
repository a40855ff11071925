/*
Copyright © 2025 iIT Distribution
SPDX-License-Identifier: Apache-2.0
*/

package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Component
		wantErr bool
	}{
		{name: "sensor key", input: "sensor", want: Sensor},
		{name: "sensor mixed case", input: "Sensor", want: Sensor},
		{name: "admission controller key", input: "admission-controller", want: AdmissionController},
		{name: "kac alias", input: "kac", want: AdmissionController},
		{name: "runtime analyzer key", input: "runtime-analyzer", want: RuntimeAnalyzer},
		{name: "iar alias", input: "IAR", want: RuntimeAnalyzer},
		{name: "unknown", input: "firewall", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAllOrderIsStable(t *testing.T) {
	all := All()
	require.Len(t, all, 3)
	assert.Equal(t, Sensor, all[0])
	assert.Equal(t, AdmissionController, all[1])
	assert.Equal(t, RuntimeAnalyzer, all[2])
}

func TestImagePath(t *testing.T) {
	assert.Equal(t, "falcon-sensor/eu-1/release/falcon-sensor", Sensor.ImagePath("eu-1"))
	assert.Equal(t, "falcon-kac/us-1/release/falcon-kac", AdmissionController.ImagePath("us-1"))
	assert.Equal(t, "falcon-imageanalyzer/us-2/release/falcon-imageanalyzer", RuntimeAnalyzer.ImagePath("us-2"))
}

func TestKeysCoverAllComponents(t *testing.T) {
	keys := Keys()
	require.Len(t, keys, 3)
	for _, k := range keys {
		_, err := Parse(k)
		assert.NoError(t, err, "key %q must round-trip", k)
	}
}

func TestOperationCommand(t *testing.T) {
	op := Operation{Argv: []string{"helm", "uninstall", "falcon-sensor", "-n", "falcon-system"}}
	assert.Equal(t, "helm uninstall falcon-sensor -n falcon-system", op.Command())
}
