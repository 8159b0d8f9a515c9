package topics

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layout.md":            {Data: []byte("# Layout\n\nbin lib original_executable")},
		"option-output-dir.md": {Data: []byte("Output dir help")},
		"notes.txt":            {Data: []byte("plain notes")},
		"ignored.json":         {Data: []byte("{}")},
		"nested/resolution.md": {Data: []byte("# Resolution")},
		"nested/deeper/README": {Data: []byte("no extension")},
	}
}

func TestLoad(t *testing.T) {
	t.Run("default_extensions", func(t *testing.T) {
		m, err := Load(testFS(), Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"layout", "notes", "option-output-dir", "resolution"}, m.ListTopics())

		topic, ok := m.GetTopic("layout")
		require.True(t, ok)
		assert.Equal(t, "layout.md", topic.FilePath)
		assert.Contains(t, topic.Content, "original_executable")
	})

	t.Run("custom_extensions", func(t *testing.T) {
		m, err := Load(testFS(), Options{Extensions: []string{".json"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"ignored"}, m.ListTopics())
	})
}

func TestGetTopic(t *testing.T) {
	m, err := Load(testFS(), Options{})
	require.NoError(t, err)

	tests := []struct {
		input  string
		want   string
		exists bool
	}{
		{"layout", "layout", true},
		{"option-output-dir", "option-output-dir", true},
		{"output-dir", "option-output-dir", true},
		{"--output-dir", "option-output-dir", true},
		{"-o", "", false},
		{"nonexistent", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			topic, ok := m.GetTopic(tt.input)
			assert.Equal(t, tt.exists, ok)
			if ok {
				assert.Equal(t, tt.want, topic.Name)
			}
		})
	}
}

func TestEmbeddedTopics(t *testing.T) {
	m, err := New(Options{})
	require.NoError(t, err)

	for _, name := range []string{"layout", "launcher", "resolution", "output-dir"} {
		topic, ok := m.GetTopic(name)
		require.True(t, ok, name)
		assert.NotEmpty(t, topic.Content)
	}
}

func TestPrintList(t *testing.T) {
	m, err := Load(testFS(), Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	m.PrintList(&buf, "exepack")
	out := buf.String()

	assert.Contains(t, out, "General topics:\n  layout\n  notes\n  resolution\n")
	assert.Contains(t, out, "Option topics:\n  --output-dir\n")
	assert.Contains(t, out, "Use 'exepack help <topic>'")

	empty, err := Load(fstest.MapFS{}, Options{})
	require.NoError(t, err)
	buf.Reset()
	empty.PrintList(&buf, "exepack")
	assert.Equal(t, "No help topics available.\n", buf.String())
}

type upperRenderer struct{ formats []string }

func (r *upperRenderer) Render(content string, format string) string {
	r.formats = append(r.formats, format)
	return "RENDERED:" + content
}

func TestInstall(t *testing.T) {
	renderer := &upperRenderer{}
	m, err := Load(testFS(), Options{Renderer: renderer})
	require.NoError(t, err)

	newRoot := func() (*cobra.Command, *bytes.Buffer) {
		root := &cobra.Command{Use: "exepack", Run: func(cmd *cobra.Command, args []string) {}}
		root.AddCommand(&cobra.Command{Use: "deps", Short: "Print dependencies", Run: func(cmd *cobra.Command, args []string) {}})
		m.Install(root)
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetErr(&out)
		return root, &out
	}

	t.Run("topic", func(t *testing.T) {
		root, out := newRoot()
		root.SetArgs([]string{"help", "layout"})
		require.NoError(t, root.Execute())
		assert.Equal(t, "RENDERED:# Layout\n\nbin lib original_executable", out.String())
		assert.Contains(t, renderer.formats, ".md")
	})

	t.Run("topic_list", func(t *testing.T) {
		root, out := newRoot()
		root.SetArgs([]string{"help", "topics"})
		require.NoError(t, root.Execute())
		assert.Contains(t, out.String(), "Available help topics:")
	})

	t.Run("command_help", func(t *testing.T) {
		root, out := newRoot()
		root.SetArgs([]string{"help", "deps"})
		require.NoError(t, root.Execute())
		assert.Contains(t, out.String(), "Print dependencies")
	})
}

func TestPlainRenderer(t *testing.T) {
	r := &PlainRenderer{}
	assert.Equal(t, "# raw", r.Render("# raw", ".md"))
}

func TestGlamourRenderer(t *testing.T) {
	r := &GlamourRenderer{Style: "notty", Width: 40}

	assert.Equal(t, "plain text", r.Render("plain text", ".txt"))

	out := r.Render("# Title\n\nSome **bold** words.", ".md")
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "bold")
}
