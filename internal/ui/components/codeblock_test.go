// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/morganforge/loom/internal/model"
	"github.com/morganforge/loom/internal/ui/styles"
)

func TestParseCodeBlocksReplacesFences(t *testing.T) {
	input := "Here is the function:\n```go\nfunc add(a, b int) int {\n\treturn a + b\n}\n```\nCall it with two ints."

	out := ParseCodeBlocks(input, 80)

	if strings.Contains(out, "```") {
		t.Error("fence markers survived parsing")
	}
	if !strings.Contains(out, "Here is the function:") {
		t.Error("prose before the block was dropped")
	}
	if !strings.Contains(out, "Call it with two ints.") {
		t.Error("prose after the block was dropped")
	}
	if !strings.Contains(out, "add") {
		t.Error("code content missing from rendered block")
	}
}

func TestParseCodeBlocksUnclosedFence(t *testing.T) {
	input := "Partial reply:\n```python\nprint(\"hi\")"

	out := ParseCodeBlocks(input, 80)

	if strings.Contains(out, "```") {
		t.Error("fence markers survived parsing")
	}
	if !strings.Contains(out, "print") {
		t.Error("unclosed block was not rendered")
	}
}

func TestParseCodeBlocksNoFences(t *testing.T) {
	input := "Just a plain answer with no code."
	if out := ParseCodeBlocks(input, 80); out != input {
		t.Errorf("plain text changed: %q", out)
	}
}

func TestCodeBlockRenderNumbersLines(t *testing.T) {
	cb := NewCodeBlock("go", "a := 1\nb := 2\nc := a + b")
	out := cb.Render()

	for _, want := range []string{"1", "2", "3"} {
		if !strings.Contains(out, want) {
			t.Errorf("line number %s missing", want)
		}
	}
	if !strings.Contains(out, "go") {
		t.Error("language badge missing")
	}
}

func TestAssistantBubbleHighlightsFencedCode(t *testing.T) {
	theme := styles.NewThemeWithMode("dark")
	theme.SetSize(120, 40)

	msg := model.NewMessage(model.RoleAssistant, "Try this:\n```go\nfmt.Println(\"ok\")\n```")
	bubble := NewMessageBubble(msg, theme)
	bubble.SetWidth(100)

	out := bubble.View()
	if strings.Contains(out, "```") {
		t.Error("fence markers survived assistant rendering")
	}
	if !strings.Contains(out, "Try this:") {
		t.Error("prose missing from assistant bubble")
	}
}
