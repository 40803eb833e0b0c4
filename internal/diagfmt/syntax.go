package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"mahdl/internal/source"
	"mahdl/internal/syntax"
)

func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs != nil {
		start, end := fs.Resolve(span)
		return start.String() + "-" + end.String()
	}
	return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
}

func nodeLabel(n *syntax.Node, fs *source.FileSet) string {
	if n.Kind == syntax.KindToken {
		return fmt.Sprintf("%s %q", n.Tok.Kind, n.Tok.Text)
	}
	return fmt.Sprintf("%s (%s)", n.Kind, formatSpan(n.Span, fs))
}

// FormatSyntaxPretty печатает дерево с отступами и соединителями,
// по строке на узел.
func FormatSyntaxPretty(w io.Writer, root *syntax.Node, fs *source.FileSet) error {
	if root == nil {
		_, err := fmt.Fprintln(w, "<no tree>")
		return err
	}
	if _, err := fmt.Fprintln(w, nodeLabel(root, fs)); err != nil {
		return err
	}
	return prettyChildren(w, root, fs, "")
}

func prettyChildren(w io.Writer, n *syntax.Node, fs *source.FileSet, prefix string) error {
	for i, c := range n.Children {
		if c == nil {
			continue
		}
		branch, next := "├─ ", "│  "
		if i == len(n.Children)-1 {
			branch, next = "└─ ", "   "
		}
		if _, err := fmt.Fprintf(w, "%s%s%s\n", prefix, branch, nodeLabel(c, fs)); err != nil {
			return err
		}
		if err := prettyChildren(w, c, fs, prefix+next); err != nil {
			return err
		}
	}
	return nil
}

type treeNode struct {
	label    string
	children []*treeNode
}

type treeBlock struct {
	lines []string
	width int
	root  int
}

// buildTreeNode keeps only nonterminals; token text is appended to the
// label of a node whose children are all tokens.
func buildTreeNode(n *syntax.Node) *treeNode {
	node := &treeNode{label: n.Kind.String()}
	var words []string
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		if c.Kind == syntax.KindToken {
			words = append(words, c.Tok.Text)
			continue
		}
		node.children = append(node.children, buildTreeNode(c))
	}
	if len(node.children) == 0 && len(words) > 0 {
		node.label = fmt.Sprintf("%s %s", node.label, strings.Join(words, " "))
	}
	return node
}

// FormatSyntaxTree рисует дерево нетерминалов ASCII-графикой сверху вниз.
func FormatSyntaxTree(w io.Writer, root *syntax.Node) error {
	if root == nil {
		_, err := fmt.Fprintln(w, "<no tree>")
		return err
	}
	block := renderTree(buildTreeNode(root))
	for _, line := range block.lines {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// renderTree converts a treeNode into a treeBlock containing an ASCII-art
// representation. root is the column of the node's vertical connector.
func renderTree(node *treeNode) treeBlock {
	label := node.label
	labelWidth := len(label)

	if len(node.children) == 0 {
		return treeBlock{
			lines: []string{label},
			width: labelWidth,
			root:  labelWidth / 2,
		}
	}

	childBlocks := make([]treeBlock, len(node.children))
	maxChildHeight := 0
	for i, child := range node.children {
		childBlocks[i] = renderTree(child)
		maxChildHeight = max(maxChildHeight, len(childBlocks[i].lines))
	}

	const spacing = 3

	positions := make([]int, len(childBlocks))
	totalWidth := 0
	for i, block := range childBlocks {
		positions[i] = totalWidth + block.root
		totalWidth += block.width
		if i != len(childBlocks)-1 {
			totalWidth += spacing
		}
	}

	childrenCenter := (positions[0] + positions[len(positions)-1]) / 2
	rootPos := labelWidth / 2
	shift := childrenCenter - rootPos

	childPrefix := 0
	if shift < 0 {
		childPrefix = -shift
		for i := range positions {
			positions[i] += childPrefix
		}
		totalWidth += childPrefix
		shift = 0
	} else {
		rootPos += shift
	}

	width := max(totalWidth, shift+labelWidth, rootPos+1)
	rootLine := strings.Repeat(" ", shift) + label
	rootLine += strings.Repeat(" ", width-len(rootLine))

	connector := []byte(strings.Repeat(" ", width))
	connector[rootPos] = '|'
	for _, pos := range positions {
		switch {
		case pos < rootPos:
			connector[pos] = '/'
		case pos > rootPos:
			connector[pos] = '\\'
		default:
			connector[pos] = '|'
		}
	}

	lines := make([]string, 0, 2+maxChildHeight)
	lines = append(lines, rootLine, string(connector))
	for row := range maxChildHeight {
		var sb strings.Builder
		sb.WriteString(strings.Repeat(" ", childPrefix))
		for i, block := range childBlocks {
			line := ""
			if row < len(block.lines) {
				line = block.lines[row]
			}
			sb.WriteString(line)
			sb.WriteString(strings.Repeat(" ", block.width-len(line)))
			if i != len(childBlocks)-1 {
				sb.WriteString(strings.Repeat(" ", spacing))
			}
		}
		rowStr := sb.String()
		rowStr += strings.Repeat(" ", max(width-len(rowStr), 0))
		lines = append(lines, rowStr)
	}

	return treeBlock{lines: lines, width: width, root: rootPos}
}

// SyntaxJSON is the JSON form of a syntax node.
type SyntaxJSON struct {
	Kind     string        `json:"kind"`
	Token    string        `json:"token,omitempty"`
	Text     string        `json:"text,omitempty"`
	Span     string        `json:"span"`
	Children []*SyntaxJSON `json:"children,omitempty"`
}

// BuildSyntaxJSON converts a tree to its JSON form.
func BuildSyntaxJSON(n *syntax.Node, fs *source.FileSet) *SyntaxJSON {
	if n == nil {
		return nil
	}
	out := &SyntaxJSON{Kind: n.Kind.String(), Span: formatSpan(n.Span, fs)}
	if n.Kind == syntax.KindToken {
		out.Token = n.Tok.Kind.String()
		out.Text = n.Tok.Text
		out.Span = formatSpan(n.Tok.Span, fs)
	}
	for _, c := range n.Children {
		if c != nil {
			out.Children = append(out.Children, BuildSyntaxJSON(c, fs))
		}
	}
	return out
}

// FormatSyntaxJSON выводит дерево в JSON формате.
func FormatSyntaxJSON(w io.Writer, root *syntax.Node, fs *source.FileSet) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildSyntaxJSON(root, fs))
}
