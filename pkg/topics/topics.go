// Package topics serves long-form help pages that are embedded in the
// binary and reachable through "help <topic>" and the topics command.
package topics

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

//go:embed docs/*.md
var Docs embed.FS

// Manager holds the topics found in a filesystem
type Manager struct {
	topics     map[string]*Topic
	extensions []string
	renderer   Renderer
}

// Topic is one help page
type Topic struct {
	Name     string
	FilePath string
	Content  string
}

// Options configures a Manager
type Options struct {
	// Extensions is the list of file extensions considered topics; [".txt", ".md"] when empty
	Extensions []string
	// Renderer formats topic content; PlainRenderer when nil
	Renderer Renderer
}

// New loads the topics shipped with the binary
func New(opts Options) (*Manager, error) {
	sub, err := fs.Sub(Docs, "docs")
	if err != nil {
		return nil, err
	}
	return Load(sub, opts)
}

// Load scans fsys for topic files
func Load(fsys fs.FS, opts Options) (*Manager, error) {
	m := &Manager{
		topics:     make(map[string]*Topic),
		extensions: opts.Extensions,
		renderer:   opts.Renderer,
	}
	if len(m.extensions) == 0 {
		m.extensions = []string{".txt", ".md"}
	}
	if m.renderer == nil {
		m.renderer = &PlainRenderer{}
	}

	if err := m.scan(fsys); err != nil {
		return nil, fmt.Errorf("failed to scan topics: %w", err)
	}
	return m, nil
}

func (m *Manager) scan(fsys fs.FS) error {
	return fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := path.Ext(p)
		if !m.supported(ext) {
			return nil
		}

		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}

		name := strings.TrimSuffix(path.Base(p), ext)
		m.topics[name] = &Topic{
			Name:     name,
			FilePath: p,
			Content:  string(content),
		}
		return nil
	})
}

func (m *Manager) supported(ext string) bool {
	for _, e := range m.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// GetTopic retrieves a topic by name. Flag-style names ("--output-dir")
// also match files prefixed with "option-".
func (m *Manager) GetTopic(name string) (*Topic, bool) {
	name = strings.TrimPrefix(name, "--")
	name = strings.TrimPrefix(name, "-")

	if topic, ok := m.topics[name]; ok {
		return topic, true
	}
	topic, ok := m.topics["option-"+name]
	return topic, ok
}

// ListTopics returns all topic names, sorted
func (m *Manager) ListTopics() []string {
	names := make([]string, 0, len(m.topics))
	for name := range m.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render returns the formatted content of a topic
func (m *Manager) Render(topic *Topic) string {
	return m.renderer.Render(topic.Content, path.Ext(topic.FilePath))
}

// PrintList writes the topic index for the given program name
func (m *Manager) PrintList(w io.Writer, program string) {
	names := m.ListTopics()
	if len(names) == 0 {
		fmt.Fprintln(w, "No help topics available.")
		return
	}

	var options, general []string
	for _, name := range names {
		if strings.HasPrefix(name, "option-") {
			options = append(options, strings.TrimPrefix(name, "option-"))
		} else {
			general = append(general, name)
		}
	}

	fmt.Fprintln(w, "Available help topics:")
	if len(general) > 0 {
		fmt.Fprintln(w, "\nGeneral topics:")
		for _, name := range general {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
	if len(options) > 0 {
		fmt.Fprintln(w, "\nOption topics:")
		for _, name := range options {
			fmt.Fprintf(w, "  --%s\n", name)
		}
	}
	fmt.Fprintf(w, "\nUse '%s help <topic>' to read about a specific topic.\n", program)
}

// Install replaces rootCmd's help command with one that also knows about
// topics, and makes "--help <topic>" show the topic
func (m *Manager) Install(rootCmd *cobra.Command) {
	originalHelp := rootCmd.HelpFunc()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: `Help provides help for any command or topic in the application.
Simply type ` + rootCmd.Name() + ` help [path to command or topic] for full details.

To see all available help topics:
  ` + rootCmd.Name() + ` help topics`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			completions := []string{"topics"}
			for _, c := range rootCmd.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			completions = append(completions, m.ListTopics()...)
			return completions, cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				originalHelp(rootCmd, []string{})
				return
			}
			if args[0] == "topics" {
				m.PrintList(cmd.OutOrStdout(), rootCmd.Name())
				return
			}
			if topic, ok := m.GetTopic(args[0]); ok {
				fmt.Fprint(cmd.OutOrStdout(), m.Render(topic))
				return
			}
			if target, _, err := rootCmd.Find(args); err == nil && target != nil {
				originalHelp(target, args)
				return
			}
			originalHelp(rootCmd, args)
		},
	}

	for _, c := range rootCmd.Commands() {
		if c.Name() == "help" {
			rootCmd.RemoveCommand(c)
			break
		}
	}
	rootCmd.SetHelpCommand(helpCmd)

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			if topic, ok := m.GetTopic(args[0]); ok {
				fmt.Fprint(cmd.OutOrStdout(), m.Render(topic))
				return
			}
		}
		originalHelp(cmd, args)
	})
}
