package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mhuels/dagview/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "dot", []string{"dot"}},
		{"multiple formats", "svg,dot,png", []string{"svg", "dot", "png"}},
		{"mermaid only", "mermaid", []string{"mermaid"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Errorf("parseFormats(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
				return
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		format string
		multi  bool
		want   string
	}{
		{"explicit output single format", "out.svg", "a AND b", "svg", false, "out.svg"},
		{"derived from file input", "", "circuit.bool", "svg", false, "circuit.svg"},
		{"inline expression falls back", "", "a AND b", "svg", false, "graph.svg"},
		{"base path multiple formats", "out", "circuit.bool", "png", true, "out.png"},
		{"derived multiple formats", "", "circuit.bool", "dot", true, "circuit.dot"},
		{"mermaid extension", "", "circuit.bool", "mermaid", false, "circuit.mmd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPath(tt.output, tt.input, tt.format, tt.multi)
			if got != tt.want {
				t.Errorf("outputPath(%q, %q, %q, %v) = %q, want %q",
					tt.output, tt.input, tt.format, tt.multi, got, tt.want)
			}
		})
	}
}

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"svg", "svg"},
		{"png", "png"},
		{"json", "json"},
		{"dot", "dot"},
		{"mermaid", "mmd"},
		{"svg-gv", "gv.svg"},
	}

	for _, tt := range tests {
		if got := extensionFor(tt.format); got != tt.want {
			t.Errorf("extensionFor(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestExpressionInput(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "circuit.bool")
	if err := os.WriteFile(file, []byte("a AND b\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("existing file", func(t *testing.T) {
		var opts pipeline.Options
		expressionInput(file, &opts)
		if opts.ExpressionFile != file {
			t.Errorf("ExpressionFile = %q, want %q", opts.ExpressionFile, file)
		}
		if opts.Expression != "" {
			t.Errorf("Expression = %q, want empty", opts.Expression)
		}
	})

	t.Run("inline expression", func(t *testing.T) {
		var opts pipeline.Options
		expressionInput("a AND b", &opts)
		if opts.Expression != "a AND b" {
			t.Errorf("Expression = %q, want the input", opts.Expression)
		}
		if opts.ExpressionFile != "" {
			t.Errorf("ExpressionFile = %q, want empty", opts.ExpressionFile)
		}
	})

	t.Run("directory is not a file", func(t *testing.T) {
		var opts pipeline.Options
		expressionInput(dir, &opts)
		if opts.Expression != dir {
			t.Errorf("Expression = %q, want the directory path as expression", opts.Expression)
		}
	})
}
