package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"data/folkestone.json": `[{"Code Produit": 1234, "Libellé produit": "Beurre doux", "Marque": "Président", "Prix": "10,00"}]`,
		"data/vendome.json":    `[{"Code Produit": "1234", "Libellé produit": "Beurre doux", "Marque": "Président", "Prix": "12,50"}]`,
		"config.yaml": `
sources:
  - id: folkestone
    name: Folkestone
    location: data/folkestone.json
  - id: vendome
    name: Vendôme
    location: data/vendome.json
storage:
  backend: file
  path: ` + filepath.Join(dir, "state.json") + `
export:
  output_dir: ` + filepath.Join(dir, "exports") + `
log:
  level: error
`,
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--env", filepath.Join(dir, ".env"),
		"--data-dir", dir,
	}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_OrderFlow(t *testing.T) {
	dir := writeWorkspace(t)

	out, err := run(t, dir, "search", "beurre", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "2 résultat(s)")

	out, err = run(t, dir, "add", "1234", "vendome")
	require.NoError(t, err)
	assert.Contains(t, out, "Article ajouté à la commande")

	out, err = run(t, dir, "add", "1234", "vendome")
	require.NoError(t, err)
	assert.Contains(t, out, `Cet article de "Vendôme" est déjà dans la commande.`)

	_, err = run(t, dir, "qty", "1234", "vendome", "2")
	require.NoError(t, err)

	out, err = run(t, dir, "cart")
	require.NoError(t, err)
	assert.Contains(t, out, "1 article(s), 2 unité(s)")
	assert.Contains(t, out, "25,00\u00a0€")

	out, err = run(t, dir, "compare", "1234")
	require.NoError(t, err)
	assert.Contains(t, out, "Folkestone")
	assert.Contains(t, out, "Vendôme")

	out, err = run(t, dir, "export", "--format", "both")
	require.NoError(t, err)
	assert.Contains(t, out, "Export CSV téléchargé")
	assert.Contains(t, out, "Export Excel téléchargé")
	exports, err := os.ReadDir(filepath.Join(dir, "exports"))
	require.NoError(t, err)
	assert.Len(t, exports, 2)

	_, err = run(t, dir, "reset")
	require.NoError(t, err)
	out, err = run(t, dir, "cart")
	require.NoError(t, err)
	assert.Contains(t, out, "Aucun article")
}

func TestCLI_SourcesAndColumns(t *testing.T) {
	dir := writeWorkspace(t)

	out, err := run(t, dir, "--sources", "vendome", "sources")
	require.NoError(t, err)
	assert.Contains(t, out, "1 produit\n")
	assert.Contains(t, out, "rechercher dans : Vendôme")

	out, err = run(t, dir, "columns", "--show", "Code Produit", "--hide", "Marque")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{"[x] Code Produit", "[x] Libellé produit", "[ ] Marque", "[x] Prix"}, lines)

	_, err = run(t, dir, "columns", "--show", "Origine")
	assert.Error(t, err)
}

func TestCLI_LoadFailure(t *testing.T) {
	dir := writeWorkspace(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "data", "vendome.json")))

	_, err := run(t, dir, "cart")

	assert.Error(t, err)
}
