package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInputs(t *testing.T) (dir string, args []string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	dir = t.TempDir()
	files := map[string]string{
		"sample_dtis.csv": "UniProtID,DrugBankID,pIC50\nT1,D1,5.12345\nT2,D1,3.0\n",
		"ddis.json":       `{"D1": [["D2", 0.9123456]]}`,
		"dtis.yaml":       "D2: [T3]\n",
		"prev_cov.csv":    "prev_cov\nT3\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir, []string{
		"--dti", filepath.Join(dir, "sample_dtis.csv"),
		"--ddi", filepath.Join(dir, "ddis.json"),
		"--pdti", filepath.Join(dir, "dtis.yaml"),
		"--pcov", filepath.Join(dir, "prev_cov.csv"),
		"--out", filepath.Join(dir, "out"),
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRender(t *testing.T) {
	dir, flags := writeInputs(t)

	out, err := execute(t, append([]string{"render"}, flags...)...)
	require.NoError(t, err)

	assert.Contains(t, out, "2, # of drugs: 1")
	assert.Contains(t, out, "(D1, D2, 0.9123)")
	assert.Contains(t, out, "(T3, D2, 1)")
	_, err = os.Stat(filepath.Join(dir, "out", "dti_graph_D1.png"))
	assert.NoError(t, err)
}

func TestRender_MissingDrug(t *testing.T) {
	dir, flags := writeInputs(t)

	out, err := execute(t, append([]string{"render", "--drug", "D404"}, flags...)...)
	require.NoError(t, err, "a missing drug is not a failure")
	assert.Contains(t, out, "D404 is not in the DTI table")

	_, err = os.Stat(filepath.Join(dir, "out"))
	assert.True(t, os.IsNotExist(err))
}

func TestRender_MissingInput(t *testing.T) {
	_, flags := writeInputs(t)
	flags = append(flags, "--ddi", filepath.Join(t.TempDir(), "nope.pkl"))

	_, err := execute(t, append([]string{"render"}, flags...)...)
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	dir, flags := writeInputs(t)

	_, err := execute(t, append([]string{"export", "--format", "csv"}, flags...)...)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out", "dti_graph_D1.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "source,target,kind,weight\n"))
}

func TestExport_DefaultFormatIsDOT(t *testing.T) {
	dir, flags := writeInputs(t)

	_, err := execute(t, append([]string{"export"}, flags...)...)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "out", "dti_graph_D1.dot"))
	assert.NoError(t, err)
}

func TestExport_UnknownFormat(t *testing.T) {
	_, flags := writeInputs(t)

	_, err := execute(t, append([]string{"export", "--format", "graphml"}, flags...)...)
	assert.Error(t, err)
}

func TestConfigFileAndEnv(t *testing.T) {
	dir, flags := writeInputs(t)
	cfgPath := filepath.Join(dir, "dtigraph.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("drug: D404\n"), 0644))

	out, err := execute(t, append([]string{"render", "--config", cfgPath}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "D404 is not in the DTI table")

	t.Setenv("DTIGRAPH_DRUG", "D1")
	out, err = execute(t, append([]string{"render", "--config", cfgPath}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "(D1, D2, 0.9123)")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "dtigraph dev\n", out)
}

func TestHelp(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "render")
	assert.Contains(t, out, "export")
}
