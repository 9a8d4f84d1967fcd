package filestore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/jmdict-compounds/internal/config"
	"github.com/heartmarshall/jmdict-compounds/internal/domain"
)

func sampleTable() domain.CompoundTable {
	return domain.CompoundTable{
		"日本語": {Reading: "にほんご", Meaning: []string{"Japanese language"}, JLPT: []string{"N5", "N5", "N5"}},
		"新平民": {
			Reading: "しんへいみん",
			Meaning: []string{"name given to the lowest rank of the Japanese caste system after its abolition\u200b"},
			JLPT:    []string{"N4", "not listed in JLPT"},
		},
		"雲白肉": {Reading: "うんぱいろう", Meaning: []string{"dish of spicy boiled pork <&>"}, JLPT: []string{}},
	}
}

func TestNew_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, err := New(config.OutputConfig{Path: "out.xml", Format: "xml"})
	require.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestWriter_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, format := range []string{FormatJSON, FormatYAML} {
		t.Run(format, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "compound_dict."+format)
			w, err := New(config.OutputConfig{Path: path, Format: format})
			require.NoError(t, err)

			want := sampleTable()
			require.NoError(t, w.Export(context.Background(), want))

			got, err := Load(path, format)
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWriter_JSONEncoding(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "compound_dict.json")
	w, err := New(config.OutputConfig{Path: path, Format: FormatJSON})
	require.NoError(t, err)
	require.NoError(t, w.Export(context.Background(), sampleTable()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)

	assert.Contains(t, out, `"日本語":{"reading":"にほんご"`)
	assert.Contains(t, out, `"jlpt":[]`)
	assert.Contains(t, out, `<&>`)
	assert.NotContains(t, out, "null")
}

func TestWriter_ReplacesExistingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "compound_dict.json")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 4096)), 0o644))
	require.NoError(t, os.Chmod(path, 0o640))

	w, err := New(config.OutputConfig{Path: path, Format: FormatJSON})
	require.NoError(t, err)

	table := domain.CompoundTable{"東京": {Reading: "とうきょう", Meaning: []string{"Tokyo"}, JLPT: []string{"N4", "N4"}}}
	require.NoError(t, w.Export(context.Background(), table))

	got, err := Load(path, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, table, got)

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), fi.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestWriter_NewFilePermissions(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "compound_dict.yaml")
	w, err := New(config.OutputConfig{Path: path, Format: FormatYAML})
	require.NoError(t, err)
	require.NoError(t, w.Export(context.Background(), sampleTable()))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), fi.Mode().Perm())
}

func TestWriter_MissingDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "compound_dict.json")
	w, err := New(config.OutputConfig{Path: path, Format: FormatJSON})
	require.NoError(t, err)

	err = w.Export(context.Background(), sampleTable())
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestWriter_CanceledContext(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "compound_dict.json")
	w, err := New(config.OutputConfig{Path: path, Format: FormatJSON})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, w.Export(ctx, sampleTable()), context.Canceled)
	_, statErr := os.Stat(path)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "compound_dict.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	_, err := Load(path, "toml")
	require.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}
