package cli_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/calvinalkan/ringbuf/cmd/ringbuf/internal/cli"
)

func Test_Config_Defaults_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("config")
	cli.AssertContains(t, stdout, `"capacity": 1048576`)
	cli.AssertContains(t, stdout, `"alignment": 8`)
}

func Test_Config_From_Project_File_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	writeFile(t, filepath.Join(c.Dir, ".ringbufrc.json"), `{"capacity": 4096}`)

	stdout := c.MustRun("config")
	cli.AssertContains(t, stdout, `"capacity": 4096`)
}

func Test_Config_From_Project_File_With_Comments_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	writeFile(t, filepath.Join(c.Dir, ".ringbufrc.json"), `{
		// bumped for the load test fixture
		"capacity": 8192,
	}`)

	stdout := c.MustRun("config")
	cli.AssertContains(t, stdout, `"capacity": 8192`)
}

func Test_Config_Explicit_Config_Flag_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	writeFile(t, filepath.Join(c.Dir, "custom.json"), `{"capacity": 2048}`)

	stdout := c.MustRun("-c", "custom.json", "config")
	cli.AssertContains(t, stdout, `"capacity": 2048`)
}

func Test_Config_Explicit_Config_Not_Found_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("-c", "nonexistent.json", "config")
	cli.AssertContains(t, stderr, "config file not found")
}

func Test_Config_Invalid_JSON_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	writeFile(t, filepath.Join(c.Dir, ".ringbufrc.json"), `{invalid json}`)

	stderr := c.MustFail("config")
	cli.AssertContains(t, stderr, "invalid")
}

func Test_Config_Zero_Capacity_Rejected_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	writeFile(t, filepath.Join(c.Dir, ".ringbufrc.json"), `{"capacity": 0}`)

	stderr := c.MustFail("config")
	cli.AssertContains(t, stderr, "capacity must be positive")
}

func Test_Config_Non_Power_Of_Two_Alignment_Rejected_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	writeFile(t, filepath.Join(c.Dir, ".ringbufrc.json"), `{"alignment": 3}`)

	stderr := c.MustFail("config")
	cli.AssertContains(t, stderr, "power of two")
}

func Test_Config_Precedence_Project_Overrides_Global_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	xdgDir := t.TempDir()

	writeFile(t, filepath.Join(xdgDir, "ringbuf", "config.json"), `{"capacity": 1000, "alignment": 16}`)
	writeFile(t, filepath.Join(c.Dir, ".ringbufrc.json"), `{"capacity": 2000}`)

	c.Env["XDG_CONFIG_HOME"] = xdgDir
	stdout := c.MustRun("config")

	cli.AssertContains(t, stdout, `"capacity": 2000`)
	cli.AssertContains(t, stdout, `"alignment": 16`)
}

func Test_Config_Global_Config_Missing_Is_Not_Error_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	xdgDir := t.TempDir()

	c.Env["XDG_CONFIG_HOME"] = xdgDir
	stdout := c.MustRun("config")

	cli.AssertContains(t, stdout, `"capacity": 1048576`)
}

func Test_Unknown_Command_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("not-a-command")
	cli.AssertContains(t, stderr, "unknown command")
	cli.AssertContains(t, stderr, "not-a-command")
}

func Test_Help_Dash_H_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("-h")
	cli.AssertContains(t, stdout, "ringbuf - create, inspect, and drive file-backed ring buffers")
}

func Test_C_Flag_Changes_Work_Dir_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	subdir := filepath.Join(c.Dir, "subdir")

	if err := os.MkdirAll(subdir, 0o750); err != nil {
		t.Fatal(err)
	}

	writeFile(t, filepath.Join(subdir, ".ringbufrc.json"), `{"capacity": 9999}`)

	stdout, stderr, exitCode := c.Run("-C", subdir, "config")
	if got, want := exitCode, 0; got != want {
		t.Errorf("exitCode=%d, want=%d; stderr=%s", got, want, stderr)
	}

	cli.AssertContains(t, stdout, `"capacity": 9999`)
}

func Test_New_And_Inspect_Round_Trip_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	path := filepath.Join(c.Dir, "cache.rb")

	c.MustRun("new", "--capacity=4096", path)

	stdout := c.MustRun("inspect", path)
	cli.AssertContains(t, stdout, fmt.Sprintf("path:            %s", path))
	cli.AssertContains(t, stdout, "live records:    0")
}

func Test_New_Refuses_Existing_File_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	path := filepath.Join(c.Dir, "cache.rb")

	c.MustRun("new", "--capacity=4096", path)
	stderr := c.MustFail("new", "--capacity=4096", path)
	cli.AssertContains(t, stderr, "already exists")
}

func Test_Dump_Copies_Raw_Bytes_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	path := filepath.Join(c.Dir, "cache.rb")
	dest := filepath.Join(c.Dir, "cache.bak")

	c.MustRun("new", "--capacity=4096", path)
	c.MustRun("dump", path, dest)

	original, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading original: %v", err)
	}

	copied, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading dump: %v", err)
	}

	if len(original) != len(copied) {
		t.Fatalf("dump length=%d, want=%d", len(copied), len(original))
	}
}

// Helper to write a file (creates directories as needed).
func writeFile(t *testing.T, path, content string) {
	t.Helper()

	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("failed to create dir %s: %v", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
