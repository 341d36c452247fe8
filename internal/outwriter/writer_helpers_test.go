package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{"precision 2", 2, 12.3456, "12.35"},
		{"precision 0", 0, 12.5001, "13"},
		{"precision 4", 4, 0.00123456, "0.0012"},
		{"negative value", 1, -3.06, "-3.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fmtFloat, intFmt := createFormatters(tt.precision)
			assert.Equal(t, tt.expected, fmtFloat(tt.value))
			assert.Equal(t, "%d", intFmt)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSON(&buf, []SectionOutput{{Index: 0, Title: "baseline", Rows: []RowOutput{}}})
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "baseline", decoded[0]["title"])
	assert.Contains(t, buf.String(), "\n  {\n    \"index\": 0", "output should be indented by two spaces")
}

func TestWriteJSONError(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSON(&buf, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	err := writeYAML(&buf, map[string]any{"title": "baseline", "rows": 2})
	require.NoError(t, err)
	assert.Equal(t, "rows: 2\ntitle: baseline\n", buf.String())

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "baseline", decoded["title"])
}

func TestWriteCSVWithHeader(t *testing.T) {
	tests := []struct {
		name     string
		header   []string
		rows     [][]string
		expected string
	}{
		{
			name:     "rows",
			header:   []string{"name", "requests"},
			rows:     [][]string{{"baseline", "1000"}, {"proxy", "990"}},
			expected: "name,requests\nbaseline,1000\nproxy,990\n",
		},
		{
			name:     "header only",
			header:   []string{"section_index", "section_title"},
			expected: "section_index,section_title\n",
		},
		{
			name:     "quoted title",
			header:   []string{"section_title"},
			rows:     [][]string{{"run 1, warm"}},
			expected: "section_title\n\"run 1, warm\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := writeCSVWithHeader(&buf, tt.header, func(w *csv.Writer) error {
				for _, row := range tt.rows {
					if err := w.Write(row); err != nil {
						return err
					}
				}
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestWriteCSVWithHeaderError(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"col"}, func(*csv.Writer) error {
		return assert.AnError
	})
	assert.Equal(t, assert.AnError, err)
}

func TestWriteWithFile(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		called := false
		err := writeWithFile("", func(io.Writer) error {
			called = true
			return nil
		}, "Wrote table")
		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sections.txt")
		err := writeWithFile(path, func(w io.Writer) error {
			_, err := io.WriteString(w, "== baseline (2 rows)\n")
			return err
		}, "Wrote table")
		require.NoError(t, err)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "== baseline (2 rows)\n", string(content))
	})

	t.Run("writer error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sections.txt")
		err := writeWithFile(path, func(io.Writer) error { return assert.AnError }, "Wrote table")
		assert.Equal(t, assert.AnError, err)
	})

	t.Run("invalid path", func(t *testing.T) {
		err := writeWithFile("/nonexistent/dir/sections.txt", func(io.Writer) error { return nil }, "Wrote table")
		assert.Error(t, err)
	})
}
