package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	v := New()
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, ".py", cfg.Extension)
	assert.Equal(t, "test_", cfg.TestPrefix)
	assert.Equal(t, "lines", cfg.Extractor)
	assert.Equal(t, "text", cfg.Format)
	assert.ErrorIs(t, cfg.Validate(), ErrMissingFolders)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("AUDIT_ROOT", "/work/project")
	v := New()
	v.Set(KeyModuleFolder, "$AUDIT_ROOT/src")
	v.Set(KeyTestsFolder, "${AUDIT_ROOT}/tests")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "/work/project/src", cfg.ModuleFolder)
	assert.Equal(t, "/work/project/tests", cfg.TestsFolder)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_KeepsUnsetVariables(t *testing.T) {
	t.Setenv("AUDIT_ROOT", "/work/project")
	v := New()
	v.Set(KeyModuleFolder, "$TESTGAP_UNSET_ROOT/src")
	v.Set(KeyTestsFolder, "${TESTGAP_UNSET_ROOT}/tests")
	v.Set(KeyHistory, "$AUDIT_ROOT/$TESTGAP_UNSET_DB")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "$TESTGAP_UNSET_ROOT/src", cfg.ModuleFolder)
	assert.Equal(t, "${TESTGAP_UNSET_ROOT}/tests", cfg.TestsFolder)
	assert.Equal(t, "/work/project/$TESTGAP_UNSET_DB", cfg.History)
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("AUDIT_ROOT", "/work")
	t.Setenv("AUDIT_EMPTY", "")
	tests := []struct {
		in   string
		want string
	}{
		{"$AUDIT_ROOT/src", "/work/src"},
		{"${AUDIT_ROOT}/src", "/work/src"},
		{"$AUDIT_EMPTY/src", "/src"},
		{"$TESTGAP_UNSET_ROOT/src", "$TESTGAP_UNSET_ROOT/src"},
		{"plain/path", "plain/path"},
		{"cost$", "cost$"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExpandEnv(tt.in), tt.in)
	}
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("TESTGAP_MODULE_FOLDER", "/env/src")
	t.Setenv("TESTGAP_TESTS_FOLDER", "/env/tests")
	t.Setenv("TESTGAP_EXTRACTOR", "treesitter")

	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, "/env/src", cfg.ModuleFolder)
	assert.Equal(t, "/env/tests", cfg.TestsFolder)
	assert.Equal(t, "treesitter", cfg.Extractor)
}

func TestBindFlags_FlagBeatsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "audit.yaml")
	require.NoError(t, os.WriteFile(file, []byte("module_folder: from-file\ntests_folder: tests-from-file\ntest_prefix: spec_\n"), 0o644))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String(KeyModuleFolder, "", "")
	fs.String(KeyTestsFolder, "", "")
	fs.String(KeyTestPrefix, "test_", "")
	require.NoError(t, fs.Parse([]string{"--module_folder=from-flag"}))

	v := New()
	require.NoError(t, BindFlags(v, fs))
	used, err := ReadFile(v, file)
	require.NoError(t, err)
	assert.Equal(t, file, used)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.ModuleFolder)
	assert.Equal(t, "tests-from-file", cfg.TestsFolder)
	assert.Equal(t, "spec_", cfg.TestPrefix)
}

func TestReadFile_ExplicitMissing(t *testing.T) {
	_, err := ReadFile(New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "config: read")
}

func TestValidate_Extension(t *testing.T) {
	cfg := &Config{ModuleFolder: "src", TestsFolder: "tests", Extension: "py"}
	assert.ErrorContains(t, cfg.Validate(), `invalid extension "py"`)
}
