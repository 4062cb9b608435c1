package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/xuri/excelize/v2"
)

// createTestFile creates a simple xlsx file for testing
func createTestFile(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "accounts.xlsx")

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			t.Fatal(err)
		}
	}()

	sheet := "Sheet1"

	// Add headers
	headers := []string{"Id", "Name", "City"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			t.Fatal(err)
		}
	}

	// Add data
	data := [][]any{
		{1, "Alice", "New York"},
		{2, "Bob", "Boston"},
		{3, "Charlie", "Chicago"},
	}

	for rowIdx, row := range data {
		for colIdx, val := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				t.Fatal(err)
			}
		}
	}

	if err := f.SaveAs(testFile); err != nil {
		t.Fatal(err)
	}

	return testFile
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// resetFlags restores every flag to its default so runs do not leak state
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Value.Type() == "stringSlice" {
			return
		}
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// runCmd executes the root command and returns what it printed to stdout
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.Execute()
	return stdout.String(), err
}

func TestEnvCommand(t *testing.T) {
	t.Setenv(URLEnv, "")

	tests := []struct {
		name      string
		args      []string
		envURL    string
		domainURL string
		community bool
		builder   bool
	}{
		{
			name:      "lightning url argument",
			args:      []string{"env", "https://acme.lightning.force.com/lightning/page/home"},
			domainURL: "https://acme",
		},
		{
			name:      "site url flag",
			args:      []string{"env", "--url", "https://acme.my.site.com/partners/s/orders"},
			domainURL: "https://acme.my.site.com/partners/s/",
			community: true,
		},
		{
			name:      "url from environment",
			args:      []string{"env"},
			envURL:    "https://acme--c.vf.force.com/apex/grid",
			domainURL: "https://acme",
		},
		{
			name:      "flow runtime page",
			args:      []string{"env", "https://acme.my.site.com/flow/runtime/s/x"},
			domainURL: "acme.my.site.com",
			builder:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(URLEnv, tt.envURL)

			out, err := runCmd(t, tt.args...)
			if err != nil {
				t.Fatalf("env command failed: %v", err)
			}

			var got struct {
				DomainURL        string `json:"domainUrl"`
				IsCommunitySite  bool   `json:"isCommunitySite"`
				IsBuilderContext bool   `json:"isBuilderContext"`
			}
			if err := json.Unmarshal([]byte(out), &got); err != nil {
				t.Fatalf("invalid JSON %q: %v", out, err)
			}
			if got.DomainURL != tt.domainURL || got.IsCommunitySite != tt.community || got.IsBuilderContext != tt.builder {
				t.Errorf("env = %+v, want %s/%v/%v", got, tt.domainURL, tt.community, tt.builder)
			}
		})
	}

	if _, err := runCmd(t, "env", "://bad"); err == nil {
		t.Error("expected error for malformed URL")
	}
}

func TestConstantsCommand(t *testing.T) {
	t.Setenv(URLEnv, "")

	out, err := runCmd(t, "constants", "https://acme.lightning.force.com/", "-f", "csv")
	if err != nil {
		t.Fatalf("constants command failed: %v", err)
	}
	for _, want := range []string{"MAXROWCOUNT,2000\n", "MYDOMAIN,https://acme\n", "VERSION_NUMBER,4.3.3\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTypeCommand(t *testing.T) {
	out, err := runCmd(t, "type", "currency", "phone")
	if err != nil {
		t.Fatalf("type command failed: %v", err)
	}
	var got []columnType
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 2 || got[0].InputType != "number" || got[0].Format == nil || *got[0].Format != "currency" {
		t.Errorf("currency = %+v", got[0])
	}
	if got[1].InputType != "tel" || got[1].Format != nil {
		t.Errorf("phone = %+v", got[1])
	}

	out, err = runCmd(t, "type", "percent", "unknown", "-f", "csv")
	if err != nil {
		t.Fatalf("type command failed: %v", err)
	}
	want := "type,inputType,format\npercent,number,percent\nunknown,richtext,\n"
	if out != want {
		t.Errorf("csv = %q, want %q", out, want)
	}
}

func TestTextCommands(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "column value", args: []string{"column", "label:Account Name"}, want: "\"Account Name\"\n"},
		{name: "column without colon", args: []string{"column", "plain"}, want: "\"plain\"\n"},
		{name: "clean", args: []string{"clean", "a, b : c"}, want: "\"a,b:c\"\n"},
		{name: "time", args: []string{"time", "2024-01-01T09:05:03.007Z"}, want: "\"09:05:03.007Z\"\n"},
		{name: "time with offset", args: []string{"time", "2024-01-01T09:05:03.007Z", "--offset", "2880000"}, want: "\"08:05:03.007Z\"\n"},
		{name: "time from epoch", args: []string{"time", "0", "-f", "tsv"}, want: "00:00:00.000Z\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCmd(t, tt.args...)
			if err != nil {
				t.Fatalf("%v failed: %v", tt.args, err)
			}
			if out != tt.want {
				t.Errorf("%v = %q, want %q", tt.args, out, tt.want)
			}
		})
	}

	if _, err := runCmd(t, "time", "yesterday"); err == nil {
		t.Error("expected error for invalid date-time")
	}
	if _, err := runCmd(t, "time", "2024-01-01", "--tz", "Nowhere/City"); err == nil {
		t.Error("expected error for unknown timezone")
	}
}

func TestRowsFindCommand(t *testing.T) {
	xlsxFile := createTestFile(t)
	jsonFile := writeFile(t, t.TempDir(), "accounts.json", `[{"Id": 1, "Name": "Acme"}, {"Id": 2, "Name": "Globex"}]`)

	tests := []struct {
		name      string
		args      []string
		wantIndex int
	}{
		{name: "xlsx string key", args: []string{"rows", "find", xlsxFile, "--id", "2"}, wantIndex: 1},
		{name: "xlsx missing key", args: []string{"rows", "find", xlsxFile, "--id", "9"}, wantIndex: -1},
		{name: "xlsx other column", args: []string{"rows", "find", xlsxFile, "--key", "Name", "--id", "Charlie"}, wantIndex: 2},
		{name: "json number key", args: []string{"rows", "find", jsonFile, "--id", "2", "--id-type", "number"}, wantIndex: 1},
		{name: "json strict equality", args: []string{"rows", "find", jsonFile, "--id", "2"}, wantIndex: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCmd(t, tt.args...)
			if err != nil {
				t.Fatalf("rows find failed: %v", err)
			}
			var got findResult
			if err := json.Unmarshal([]byte(out), &got); err != nil {
				t.Fatalf("invalid JSON %q: %v", out, err)
			}
			if got.Index != tt.wantIndex {
				t.Errorf("index = %d, want %d", got.Index, tt.wantIndex)
			}
		})
	}

	if _, err := runCmd(t, "rows", "find", jsonFile, "--id", "x", "--id-type", "number"); err == nil {
		t.Error("expected error for non-numeric id")
	}
	if _, err := runCmd(t, "rows", "find", filepath.Join(t.TempDir(), "rows.txt"), "--id", "1"); err == nil {
		t.Error("expected error for unsupported file type")
	}
}

func TestRowsRemoveCommand(t *testing.T) {
	xlsxFile := createTestFile(t)

	out, err := runCmd(t, "rows", "remove", xlsxFile, "--id", "1")
	if err != nil {
		t.Fatalf("rows remove failed: %v", err)
	}
	var rows []map[string]any
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if len(rows) != 2 || rows[0]["Name"] != "Bob" {
		t.Errorf("rows = %v", rows)
	}

	out, err = runCmd(t, "rows", "remove", xlsxFile, "--id", "3", "-f", "csv")
	if err != nil {
		t.Fatalf("rows remove failed: %v", err)
	}
	want := "Id,Name,City\n1,Alice,New York\n2,Bob,Boston\n"
	if out != want {
		t.Errorf("csv = %q, want %q", out, want)
	}
}

func TestRowsRemoveToFile(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "accounts.yaml", "- Id: a\n  Name: Acme\n- Id: b\n  Name: Globex\n")
	dst := filepath.Join(dir, "out.json")

	out, err := runCmd(t, "rows", "remove", src, "--id", "a", "-o", dst)
	if err != nil {
		t.Fatalf("rows remove failed: %v", err)
	}
	var result rowsResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if result.Rows != 1 || !result.Changed || result.File != dst {
		t.Errorf("result = %+v", result)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Globex") || strings.Contains(string(data), "Acme") {
		t.Errorf("written rows = %s", data)
	}

	if _, err := runCmd(t, "rows", "remove", src, "--id", "b", "-o", dst); err == nil {
		t.Error("expected error when output exists without --overwrite")
	}
	if _, err := runCmd(t, "rows", "remove", src, "--id", "b", "-o", dst, "--overwrite"); err != nil {
		t.Errorf("overwrite failed: %v", err)
	}
}

func TestRowsReplaceCommand(t *testing.T) {
	dir := t.TempDir()
	original := writeFile(t, dir, "accounts.json", `[{"Id": "a", "Name": "Acme"}, {"Id": "b", "Name": "Globex"}]`)
	updated := writeFile(t, dir, "updated.yaml", "- Id: b\n  Name: Globex Corp\n  Phone: \"555\"\n")

	out, err := runCmd(t, "rows", "replace", original, "--id", "b", "--updated", updated)
	if err != nil {
		t.Fatalf("rows replace failed: %v", err)
	}
	var rows []map[string]any
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if len(rows) != 2 || rows[1]["Name"] != "Globex Corp" || rows[1]["Phone"] != "555" {
		t.Errorf("rows = %v", rows)
	}
	if rows[0]["Name"] != "Acme" {
		t.Errorf("untouched row changed: %v", rows[0])
	}

	out, err = runCmd(t, "rows", "replace", original, "--id", "a", "--updated", updated)
	if err != nil {
		t.Fatalf("rows replace failed: %v", err)
	}
	if !strings.Contains(out, `"Globex"`) {
		t.Errorf("id missing from updated rows should keep original rows, got %s", out)
	}

	if _, err := runCmd(t, "rows", "replace", original, "--id", "a"); err == nil {
		t.Error("expected error without --updated")
	}
}

func TestRowsCommandWithBasepath(t *testing.T) {
	testFile := createTestFile(t)
	dir := filepath.Dir(testFile)
	base := filepath.Base(testFile)

	out, err := runCmd(t, "--basepath", dir, "rows", "find", base, "--id", "3")
	if err != nil {
		t.Fatalf("rows find with --basepath failed: %v", err)
	}
	if !strings.Contains(out, `"index": 2`) {
		t.Errorf("output = %s", out)
	}
}

func TestRowsCommandWithBasepathEnv(t *testing.T) {
	testFile := createTestFile(t)
	t.Setenv(BasepathEnv, filepath.Dir(testFile))

	out, err := runCmd(t, "rows", "find", filepath.Base(testFile), "--id", "1")
	if err != nil {
		t.Fatalf("rows find with %s failed: %v", BasepathEnv, err)
	}
	if !strings.Contains(out, `"index": 0`) {
		t.Errorf("output = %s", out)
	}
}
