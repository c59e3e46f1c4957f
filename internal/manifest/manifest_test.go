package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_LoadBytes_resolvesRelativePaths(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	data := []byte(`
		name = "widget"
		files = ["a.til", "sub/b.til"]
		output = "build"
	`)

	p, err := LoadBytes(data, "/project")
	require.NoError(err)

	assert.Equal("widget", p.Name)
	assert.Equal([]string{
		filepath.Join("/project", "a.til"),
		filepath.Join("/project", "sub", "b.til"),
	}, p.Sources)
	assert.Equal(filepath.Join("/project", "build"), p.OutputDir)
}

func Test_LoadBytes_absolutePathsPassThrough(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	data := []byte(`
		name = "widget"
		files = ["/abs/a.til"]
		output = "/abs/out"
	`)

	p, err := LoadBytes(data, "/project")
	require.NoError(err)

	assert.Equal([]string{"/abs/a.til"}, p.Sources)
	assert.Equal("/abs/out", p.OutputDir)
}

func Test_LoadBytes_defaultsOutputDirToBaseDir(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	data := []byte(`
		name = "widget"
		files = ["a.til"]
	`)

	p, err := LoadBytes(data, "/project")
	require.NoError(err)
	assert.Equal("/project", p.OutputDir)
}

func Test_LoadBytes_noFiles_returnsErrNoSourceFiles(t *testing.T) {
	assert := assert.New(t)

	data := []byte(`name = "widget"`)
	_, err := LoadBytes(data, "/project")
	assert.ErrorIs(err, ErrNoSourceFiles)
}

func Test_LoadBytes_malformedToml_returnsError(t *testing.T) {
	assert := assert.New(t)

	_, err := LoadBytes([]byte("not = valid = toml"), "/project")
	assert.Error(err)
}

func Test_Load_readsManifestFromDisk(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "til.toml")
	require.NoError(os.WriteFile(manifestPath, []byte(`
		name = "widget"
		files = ["a.til"]
	`), 0o644))

	p, err := Load(manifestPath)
	require.NoError(err)
	assert.Equal("widget", p.Name)
	assert.Equal([]string{filepath.Join(dir, "a.til")}, p.Sources)
}

func Test_ReadSources_readsEveryListedFileInOrder(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	dir := t.TempDir()
	aPath := filepath.Join(dir, "a.til")
	bPath := filepath.Join(dir, "b.til")
	require.NoError(os.WriteFile(aPath, []byte("namespace a {}"), 0o644))
	require.NoError(os.WriteFile(bPath, []byte("namespace b {}"), 0o644))

	p := Project{Name: "widget", Sources: []string{aPath, bPath}}
	files, err := ReadSources(p)
	require.NoError(err)

	require.Len(files, 2)
	assert.Equal(aPath, files[0].Path)
	assert.Equal("namespace a {}", files[0].Text)
	assert.Equal(bPath, files[1].Path)
	assert.Equal("namespace b {}", files[1].Text)
}

func Test_ReadSources_missingFile_returnsError(t *testing.T) {
	assert := assert.New(t)

	p := Project{Sources: []string{"/does/not/exist.til"}}
	_, err := ReadSources(p)
	assert.Error(err)
}
