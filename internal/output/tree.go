package output

import (
	"fmt"
	"strings"

	"boardkit.dev/boardkit/internal/definition"
	"boardkit.dev/boardkit/internal/workitem"
)

// treeNode is one rendered line and its children
type treeNode struct {
	record   workitem.Record
	planned  bool
	children []*treeNode
}

// RenderManifest draws the manifest as an Epic → Feature → Item tree.
// Each record hangs under the nearest preceding record of its parent type;
// records with no such parent are drawn at the top level.
func RenderManifest(m workitem.Manifest) string {
	var roots []*treeNode
	latest := map[workitem.Type]*treeNode{}

	for _, record := range m.Items {
		node := &treeNode{record: record}
		parentType, hasParent := record.Type.Parent()
		parent := latest[parentType]
		if hasParent && parent != nil {
			parent.children = append(parent.children, node)
		} else {
			roots = append(roots, node)
		}

		latest[record.Type] = node
		// A new node closes every open subtree below it
		for _, t := range workitem.Types {
			if t.Depth() > record.Type.Depth() {
				delete(latest, t)
			}
		}
	}
	return renderForest(roots)
}

// RenderDefinition draws what a run over def would create
func RenderDefinition(def definition.Hierarchy) string {
	var roots []*treeNode
	for _, epic := range def.Epics {
		epicNode := planned(workitem.Epic, epic.Title)
		for _, feature := range epic.Features {
			featureNode := planned(workitem.Feature, feature.Title)
			for _, item := range feature.Items {
				featureNode.children = append(featureNode.children, planned(workitem.ProductBacklogItem, item.Title))
			}
			epicNode.children = append(epicNode.children, featureNode)
		}
		roots = append(roots, epicNode)
	}
	return renderForest(roots)
}

func planned(t workitem.Type, title string) *treeNode {
	return &treeNode{record: workitem.Record{Type: t, Title: title}, planned: true}
}

func renderForest(roots []*treeNode) string {
	var sb strings.Builder
	for _, root := range roots {
		sb.WriteString(formatNode(root))
		sb.WriteString("\n")
		renderChildren(&sb, root.children, "")
	}
	return sb.String()
}

func renderChildren(sb *strings.Builder, children []*treeNode, prefix string) {
	for i, child := range children {
		last := i == len(children)-1
		connector, extension := "├── ", "│   "
		if last {
			connector, extension = "└── ", "    "
		}
		sb.WriteString(ColorDim(prefix + connector))
		sb.WriteString(formatNode(child))
		sb.WriteString("\n")
		renderChildren(sb, child.children, prefix+extension)
	}
}

func formatNode(n *treeNode) string {
	label := ColorType(n.record.Type, fmt.Sprintf("%s: %s", n.record.Type.Label(), n.record.Title))
	if n.planned {
		return label
	}
	if id, ok := n.record.ID.Get(); ok {
		return label + " " + ColorDim("#"+string(id))
	}
	return label + " " + ColorFailed("(not created)")
}
