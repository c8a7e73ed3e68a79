package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvroute/rrfile"
)

// run executes the root command with args and returns what it printed.
// Flag values persist between runs, so callers pass every flag they rely on.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()

	return out.String(), err
}

func TestGridAndRouteE2E(t *testing.T) {
	dir := t.TempDir()
	design := filepath.Join(dir, "fabric.rr")
	routes := filepath.Join(dir, "fabric.route")

	_, err := run(t, "grid", "--nx", "3", "--ny", "3", "--width", "6", "--nets", "ring", "-o", design)
	require.NoError(t, err)
	d, err := rrfile.Load(design)
	require.NoError(t, err)
	require.Equal(t, 9, d.Netlist.Len())

	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
	}{
		{
			name:        "routability driven",
			args:        []string{"route", "--predictor", "safe", "--max-iterations", "50", "--routes", routes, design},
			wantContain: []string{"Overused RR Nodes", "Successfully routed after"},
		},
		{
			name: "timing driven with profile",
			args: []string{"route", "--timing", "--profile", "--predictor", "safe", "--routes", "", design},
			wantContain: []string{
				"Successfully routed",
				"Critical path delay:",
				"Latest driver arrival: net",
				"nets rerouted",
				"heap pushes",
			},
		},
		{
			name:        "incremental reroute of every net",
			args:        []string{"route", "--min-incremental-fanout", "1", "--routes", "", design},
			wantContain: []string{"Successfully routed after"},
		},
		{
			name:    "negative incremental fanout",
			args:    []string{"route", "--min-incremental-fanout", "-1", design},
			wantErr: true,
		},
		{
			name:    "unknown predictor",
			args:    []string{"route", "--predictor", "sometimes", design},
			wantErr: true,
		},
		{
			name:    "bad iteration cap",
			args:    []string{"route", "--predictor", "safe", "--max-iterations", "0", design},
			wantErr: true,
		},
		{
			name:    "missing design",
			args:    []string{"route", "--max-iterations", "50", filepath.Join(dir, "nope.rr")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.wantContain {
				assert.Contains(t, out, want)
			}
		})
	}

	data, err := os.ReadFile(routes)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Routing:")
	assert.Contains(t, string(data), `Net 0 (b1_1)`)
}

func TestGridE2E(t *testing.T) {
	out, err := run(t, "grid", "--nx", "2", "--ny", "2", "--width", "2", "--nets", "none", "-o", "")
	require.NoError(t, err)
	assert.Contains(t, out, "grid 2 2")
	assert.NotContains(t, out, "net ")

	_, err = run(t, "grid", "--nets", "mesh", "-o", "")
	require.Error(t, err)
}
