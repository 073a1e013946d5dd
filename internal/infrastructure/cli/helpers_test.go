package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCLI executes the root command against root and returns its stdout.
// Package-level flag values are reset first since cobra keeps them between
// executions.
func runCLI(t *testing.T, root string, stdin io.Reader, args ...string) (string, error) {
	t.Helper()

	projectPath, dataFile, slipDir, slipFormat, verbose = "", "", "", "", false
	addGenerateID, deleteYes, listJSON, statsJSON, configForce = false, false, false, false, false
	updateName, updateRate, updateHours = "", "", ""
	auditEmployee = ""

	if stdin == nil {
		stdin = strings.NewReader("")
	}
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetIn(stdin)
	RootCmd.SetArgs(append([]string{"-C", root}, args...))
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetIn(nil)
		RootCmd.SetArgs(nil)
	})

	err := RootCmd.Execute()
	return out.String(), err
}

func writePayroll(t *testing.T, root, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(root, "payroll.txt"), []byte(contents), 0o600); err != nil {
		t.Fatalf("write payroll: %v", err)
	}
}

func readPayroll(t *testing.T, root string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, "payroll.txt"))
	if err != nil {
		t.Fatalf("read payroll: %v", err)
	}
	return string(data)
}
