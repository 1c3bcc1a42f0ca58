package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const descriptorTable = `
"CCOc1ccccc1":
  molecular_weight: 320.4
  logp: 2.9
  qed: 0.78
  tpsa: 75.1
  rotatable_bonds: 5
"CCN(CC)CCNC":
  molecular_weight: 301.2
  logp: 2.1
  qed: 0.71
  tpsa: 60.3
  rotatable_bonds: 6
"CCCCCCCCCCCCCCCCCCCC":
  molecular_weight: 812.0
  logp: 7.4
  qed: 0.12
  tpsa: 190.0
  rotatable_bonds: 18
"CC(=O)Oc1ccccc1C(=O)O":
  molecular_weight: 180.16
  logp: 1.31
  qed: 0.55
  tpsa: 63.6
  rotatable_bonds: 3
`

const projectConfig = `generators:
  - name: alpha
    engine: mock
    options:
      text: |
        1. CCOc1ccccc1
        2. CCN(CC)CCNC
        3. CCCCCCCCCCCCCCCCCCCC
  - name: beta
    engine: mock
    options:
      delay: 50ms
      text: |
        CCCCCCCCCCCCCCCCCCCC
        CCOc1ccccc1
  - name: broken
    engine: mock
    options:
      error: quota exhausted
  - name: chatty
    engine: mock
    options:
      text: please provide more details about the target
descriptors:
  engine: table
  table: descriptors.yaml
defaults:
  target: EGFR
  workers: 2
`

// writeProject creates a project directory with a config and a descriptor
// table and returns the config path.
func writeProject(t *testing.T, config string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "descriptors.yaml"), []byte(descriptorTable), 0o644))
	path := filepath.Join(dir, ".lingnexus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(config), 0o644))
	return path
}

// runCLI runs the root command with args and returns stdout, stderr and
// the command error.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
