package scanner

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

type treeNode struct {
	name     string
	children map[string]*treeNode
}

func (n *treeNode) isDir() bool { return len(n.children) > 0 }

// RenderTree draws root-relative paths below root, directories first and
// then files, each level sorted case-insensitively.
func RenderTree(root string, paths []string) string {
	top := &treeNode{children: map[string]*treeNode{}}
	for _, p := range paths {
		node := top
		for _, part := range strings.Split(filepath.ToSlash(p), "/") {
			child, ok := node.children[part]
			if !ok {
				child = &treeNode{name: part, children: map[string]*treeNode{}}
				node.children[part] = child
			}
			node = child
		}
	}

	var b strings.Builder
	b.WriteString(root + "/\n")
	renderNode(&b, top, "")
	return b.String()
}

func renderNode(b *strings.Builder, node *treeNode, prefix string) {
	children := make([]*treeNode, 0, len(node.children))
	for _, c := range node.children {
		children = append(children, c)
	}
	sort.Slice(children, func(i, j int) bool {
		if children[i].isDir() != children[j].isDir() {
			return children[i].isDir()
		}
		li, lj := strings.ToLower(children[i].name), strings.ToLower(children[j].name)
		if li != lj {
			return li < lj
		}
		return children[i].name < children[j].name
	})

	for i, c := range children {
		connector := "├── "
		extension := "│   "
		if i == len(children)-1 {
			connector = "└── "
			extension = "    "
		}
		if c.isDir() {
			fmt.Fprintf(b, "%s%s%s/\n", prefix, connector, c.name)
			renderNode(b, c, prefix+extension)
			continue
		}
		fmt.Fprintf(b, "%s%s%s\n", prefix, connector, c.name)
	}
}
