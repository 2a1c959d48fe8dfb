package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/gopanel/internal/logging"
	"github.com/alexiusacademia/gopanel/internal/store"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func panelArgs(path, name string) []string {
	return []string{"--store", path, "calc", "-n", name,
		"--pr", "3000", "--ps", "3000", "--pt", "3000", "-d", "50", "-v", "380"}
}

func TestCommandWorkflow(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "qd.xlsx")

	require.NoError(t, run(t, panelArgs(path, "A")...))
	require.NoError(t, run(t, panelArgs(path, "B")...))

	st := store.NewXLSX(path, logging.Discard())
	records, err := st.List()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "QD-1", records[0].ID)
	assert.Equal(t, "QD-2", records[1].ID)
	assert.Equal(t, "1x6", records[0].Phase)

	require.NoError(t, run(t, "--store", path, "list"))
	require.NoError(t, run(t, "--store", path, "summary"))

	xlsxOut := filepath.Join(t.TempDir(), "out", "export.xlsx")
	require.NoError(t, run(t, "--store", path, "export", "-o", xlsxOut))
	_, err = os.Stat(xlsxOut)
	require.NoError(t, err)

	pngOut := filepath.Join(t.TempDir(), "drop.png")
	require.NoError(t, run(t, "--store", path, "chart", "--kind", "drop", "-o", pngOut))
	_, err = os.Stat(pngOut)
	require.NoError(t, err)

	noExt := filepath.Join(t.TempDir(), "power")
	require.NoError(t, run(t, "--store", path, "chart", "--kind", "power", "-o", noExt))
	_, err = os.Stat(noExt + ".png")
	require.NoError(t, err)

	require.NoError(t, run(t, "--store", path, "delete", "A"))
	assert.Error(t, run(t, "--store", path, "delete", "A"))

	records, err = st.List()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "B", records[0].Name)
}

func TestCalcRejectsInvalidInput(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "qd.xlsx")

	args := panelArgs(path, "BAD")
	args = append(args, "--fp", "0.85")
	assert.Error(t, run(t, args...))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "nothing is written for rejected input")
}
