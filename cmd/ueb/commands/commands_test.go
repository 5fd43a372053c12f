package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/ueb/internal/errors"
	"github.com/thoreinstein/ueb/internal/project"
)

// resetFlags restores every flag of c and its children to its default, so
// rootCmd can be executed more than once.
func resetFlags(c *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		if sv, ok := fl.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = fl.Value.Set(fl.DefValue)
		}
		fl.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, child := range c.Commands() {
		resetFlags(child)
	}
}

// execute runs ueb with args against an isolated config file and returns
// stdout and the error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("version: 1\n"), 0o600))
	return executeWithConfig(t, cfgFile, args...)
}

func executeWithConfig(t *testing.T, cfgFile string, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--config", cfgFile}, args...))

	err := Execute()
	t.Logf("stderr: %s", stderr.String())
	return stdout.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// newProject creates <parent>/<name> with a descriptor, two content files
// and an Intermediate folder.
func newProject(t *testing.T, parent, name string) string {
	t.Helper()
	dir := filepath.Join(parent, name)
	writeFile(t, filepath.Join(dir, name+".uproject"), "{}")
	writeFile(t, filepath.Join(dir, "Content", "Hero.uasset"), "hero")
	writeFile(t, filepath.Join(dir, "Intermediate", "Build", "cache.bin"), "0123456789")
	return dir
}

func decodeStats(t *testing.T, out string) map[string]any {
	t.Helper()
	var stats map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &stats), out)
	return stats
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "ueb version dev")
	assert.Contains(t, out, "platform:")
}

func TestBackupCommand(t *testing.T) {
	src := newProject(t, t.TempDir(), "Shooter")
	target := t.TempDir()

	out, err := execute(t, "backup", "--json", "--sizes", src, target)
	require.NoError(t, err)

	stats := decodeStats(t, out)
	assert.EqualValues(t, 2, stats["copied"])
	assert.EqualValues(t, 1, stats["excluded"])
	sizes := stats["sizes"].(map[string]any)
	assert.EqualValues(t, 10, sizes["avoided_bytes"])

	assert.FileExists(t, filepath.Join(target, "Shooter", "Content", "Hero.uasset"))
	assert.NoDirExists(t, filepath.Join(target, "Shooter", "Intermediate"))

	// Second run has nothing to do.
	out, err = execute(t, "backup", "--json", src, target)
	require.NoError(t, err)
	stats = decodeStats(t, out)
	assert.EqualValues(t, 0, stats["copied"])
	assert.EqualValues(t, 2, stats["skipped"])
	assert.NotContains(t, stats, "sizes")
}

func TestBackupCommand_DryRunAndReport(t *testing.T) {
	src := newProject(t, t.TempDir(), "Shooter")
	target := t.TempDir()
	reportPath := filepath.Join(t.TempDir(), "last-run.json")

	out, err := execute(t, "backup", "--dry-run", "--report", reportPath, src, target)
	require.NoError(t, err)
	assert.Contains(t, out, "Dry run finished")
	assert.NoDirExists(t, filepath.Join(target, "Shooter"))

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	stats := decodeStats(t, string(data))
	assert.Equal(t, true, stats["dry_run"])
	assert.EqualValues(t, 2, stats["copied"])
}

func TestBackupCommand_Flags(t *testing.T) {
	src := newProject(t, t.TempDir(), "Shooter")
	writeFile(t, filepath.Join(src, "Saved", "Autosaves", "Map.umap"), "auto")
	writeFile(t, filepath.Join(src, "Content", "Movies", "Intro.mp4"), "movie")
	target := t.TempDir()

	out, err := execute(t, "backup", "--json", "--include-saved", "-x", "/Content/Movies/", src, target)
	require.NoError(t, err)

	stats := decodeStats(t, out)
	assert.EqualValues(t, 3, stats["copied"])
	assert.FileExists(t, filepath.Join(target, "Shooter", "Saved", "Autosaves", "Map.umap"))
	assert.NoFileExists(t, filepath.Join(target, "Shooter", "Content", "Movies", "Intro.mp4"))
}

func TestBackupCommand_ConfigFile(t *testing.T) {
	src := newProject(t, t.TempDir(), "Shooter")
	writeFile(t, filepath.Join(src, "Content", "Art.psd"), "layers")
	target := t.TempDir()

	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, cfgFile, "version: 1\nexcludes:\n  - \"*.psd\"\n")

	out, err := executeWithConfig(t, cfgFile, "backup", "--json", src, target)
	require.NoError(t, err)
	stats := decodeStats(t, out)
	assert.EqualValues(t, 2, stats["copied"])
	assert.NoFileExists(t, filepath.Join(target, "Shooter", "Content", "Art.psd"))
}

func TestBackupCommand_Errors(t *testing.T) {
	tmp := t.TempDir()
	src := newProject(t, tmp, "Shooter")

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  error
	}{
		{"missing source", []string{"backup", filepath.Join(tmp, "nope"), t.TempDir()}, errors.ExitUser, errors.ErrSourceNotFound},
		{"target inside source", []string{"backup", src, filepath.Join(src, "Backups")}, errors.ExitUser, errors.ErrDestinationInsideSource},
		{"bad exclude", []string{"backup", "-x", "[", src, t.TempDir()}, errors.ExitUser, errors.ErrInvalidPattern},
		{"wrong arg count", []string{"backup", src}, errors.ExitUser, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.ExitCode(err))
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "error %v is not %v", err, tt.wantErr)
			}
		})
	}
}

func TestBackupCommand_Select(t *testing.T) {
	orig := pickProject
	t.Cleanup(func() { pickProject = orig })

	t.Run("single project is used directly", func(t *testing.T) {
		root := t.TempDir()
		newProject(t, root, "Solo")
		target := t.TempDir()

		pickProject = func([]project.Project) (project.Project, error) {
			t.Fatal("picker should not open for one project")
			return project.Project{}, nil
		}

		_, err := execute(t, "backup", "--select", "--json", root, target)
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(target, "Solo", "Solo.uproject"))
	})

	t.Run("picker chooses among several", func(t *testing.T) {
		root := t.TempDir()
		newProject(t, root, "Alpha")
		newProject(t, root, "Beta")
		target := t.TempDir()

		var offered []string
		pickProject = func(list []project.Project) (project.Project, error) {
			for _, p := range list {
				offered = append(offered, p.Name)
			}
			return list[1], nil
		}

		_, err := execute(t, "backup", "--select", "--json", root, target)
		require.NoError(t, err)
		assert.Equal(t, []string{"Alpha", "Beta"}, offered)
		assert.DirExists(t, filepath.Join(target, "Beta"))
		assert.NoDirExists(t, filepath.Join(target, "Alpha"))
	})

	t.Run("no projects", func(t *testing.T) {
		_, err := execute(t, "backup", "--select", t.TempDir(), t.TempDir())
		require.Error(t, err)
		assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
	})
}

func TestRulesCommand(t *testing.T) {
	src := newProject(t, t.TempDir(), "Shooter")
	writeFile(t, filepath.Join(src, ".backupignore"), "# local\nContent/Movies/\n")

	t.Run("list", func(t *testing.T) {
		out, err := execute(t, "rules", src)
		require.NoError(t, err)
		assert.Contains(t, out, "Content/Movies/")
		assert.Contains(t, out, ".backupignore:2")
		assert.Contains(t, out, "DerivedDataCache")
	})

	t.Run("classify", func(t *testing.T) {
		out, err := execute(t, "rules", "--format", "json", src, "Intermediate/Build/cache.bin", "Content/Hero.uasset", "Saved/")
		require.NoError(t, err)

		var decoded struct {
			Paths []struct {
				Path     string `json:"path"`
				Action   string `json:"action"`
				Priority bool   `json:"priority"`
			} `json:"paths"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		require.Len(t, decoded.Paths, 3)
		assert.Equal(t, "exclude", decoded.Paths[0].Action)
		assert.Equal(t, "include", decoded.Paths[1].Action)
		assert.True(t, decoded.Paths[1].Priority)
		assert.Equal(t, "exclude", decoded.Paths[2].Action)
	})

	t.Run("flag switches rule off", func(t *testing.T) {
		out, err := execute(t, "rules", "--include-saved", "--format", "json", src, "Saved/")
		require.NoError(t, err)
		assert.Contains(t, out, `"action": "include"`)
	})

	t.Run("yaml without source", func(t *testing.T) {
		out, err := execute(t, "rules", "--format", "yaml")
		require.NoError(t, err)
		assert.Contains(t, out, "rules:")
		assert.Contains(t, out, "pattern: Intermediate")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := execute(t, "rules", "--format", "xml")
		require.Error(t, err)
		assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
	})
}

func TestProjectsCommand(t *testing.T) {
	root := t.TempDir()
	newProject(t, root, "Alpha")
	newProject(t, filepath.Join(root, "Games"), "Beta")

	out, err := execute(t, "projects", "--json", root)
	require.NoError(t, err)

	var list []project.Project
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Alpha", list[0].Name)
	assert.Equal(t, "Beta", list[1].Name)

	out, err = execute(t, "projects", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No projects found")
}

func TestConfigErrors(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, bad, "version: 0\n")

	_, err := executeWithConfig(t, bad, "rules")
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))

	// version still works with a broken config
	out, err := executeWithConfig(t, bad, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "ueb version")
}

func TestConfigCommand(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, cfgFile, "version: 1\nsize_summary: true\n")

	out, err := executeWithConfig(t, cfgFile, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "# "+cfgFile)
	assert.Contains(t, out, "size_summary: true")
	assert.Contains(t, out, "mtime_tolerance: 1s")
}

func TestSetupLogging_QuietAndVerbose(t *testing.T) {
	_, err := execute(t, "-q", "-v", "version")
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, errors.NewUserError(errors.New("boom"), "try again"))
	assert.Contains(t, buf.String(), "boom")
	assert.Contains(t, buf.String(), "try again")
}

func TestGenDocCommand(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "gen-doc", "--dir", dir)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "ueb_backup.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `title: "ueb backup"`)
	assert.Contains(t, string(data), "--dry-run")

	manDir := t.TempDir()
	_, err = execute(t, "gen-doc", "--format", "man", "--dir", manDir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(manDir, "ueb-backup.1"))
}

func TestDoctorCommand(t *testing.T) {
	t.Run("healthy project", func(t *testing.T) {
		src := newProject(t, t.TempDir(), "Shooter")

		out, err := execute(t, "doctor", "--all", src, t.TempDir())
		require.NoError(t, err, out)
		assert.Contains(t, out, "[source] source: Shooter.uproject")
		assert.Contains(t, out, "dry-run")
		assert.Contains(t, out, "0 errors")
	})

	t.Run("bad ignore file", func(t *testing.T) {
		src := newProject(t, t.TempDir(), "Shooter")
		writeFile(t, filepath.Join(src, ".backupignore"), "ok/\n[\n")

		out, err := execute(t, "doctor", src)
		require.Error(t, err)
		assert.Equal(t, errors.ExitSystem, errors.ExitCode(err))
		assert.Contains(t, out, ".backupignore:2: [")
	})

	t.Run("parent folder warns", func(t *testing.T) {
		root := t.TempDir()
		newProject(t, root, "Shooter")

		out, err := execute(t, "doctor", "--json", root)
		require.Error(t, err)
		assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
		assert.Contains(t, out, `"status": "warning"`)
	})

	t.Run("broken config is reported, not fatal", func(t *testing.T) {
		src := newProject(t, t.TempDir(), "Shooter")
		bad := filepath.Join(t.TempDir(), "config.yaml")
		writeFile(t, bad, "version: 0\n")

		out, err := executeWithConfig(t, bad, "doctor", src)
		require.Error(t, err)
		assert.Equal(t, errors.ExitSystem, errors.ExitCode(err))
		assert.Contains(t, out, "[config] config-file")
	})
}

func TestConfigEditCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as the editor")
	}
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	writeFile(t, cfgFile, "version: 0\n")

	script := filepath.Join(dir, "fix-config")
	writeFile(t, script, "#!/bin/sh\nprintf 'version: 1\\n' > \"$1\"\n")
	require.NoError(t, os.Chmod(script, 0o755))
	t.Setenv("UEB_EDITOR", script)

	_, err := executeWithConfig(t, cfgFile, "config", "edit")
	require.NoError(t, err)

	data, err := os.ReadFile(cfgFile)
	require.NoError(t, err)
	assert.Equal(t, "version: 1\n", string(data))
}
