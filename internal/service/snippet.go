package service

import (
	"strings"

	"pawforum/internal/models"
)

const snippetWindow = 50

// snippet обрезает текст до окна примерно в 50 рун с каждой стороны от
// первого совпадения, добавляя многоточия на обрезанных краях. Если
// совпадение нашлось не в тексте (а в заголовке или имени автора),
// возвращается начало текста.
func snippet(content, query string) string {
	runes := []rune(content)

	idx := strings.Index(strings.ToLower(content), strings.ToLower(query))
	if idx < 0 {
		if len(runes) <= 2*snippetWindow {
			return content
		}
		return string(runes[:2*snippetWindow]) + "..."
	}

	matchStart := len([]rune(content[:idx]))
	matchEnd := matchStart + len([]rune(query))

	start := matchStart - snippetWindow
	if start < 0 {
		start = 0
	}
	end := matchEnd + snippetWindow
	if end > len(runes) {
		end = len(runes)
	}

	out := string(runes[start:end])
	if start > 0 {
		out = "..." + out
	}
	if end < len(runes) {
		out = out + "..."
	}
	return out
}

type replyNode struct {
	reply    models.Reply
	children []*replyNode
}

func (n *replyNode) materialize() models.Reply {
	out := n.reply
	out.Children = nil
	for _, child := range n.children {
		out.Children = append(out.Children, child.materialize())
	}
	return out
}

// buildReplyTree собирает дерево из плоского списка, отсортированного по
// времени создания: родитель всегда встречается раньше ребёнка.
func buildReplyTree(flat []models.Reply) []models.Reply {
	nodes := make(map[int64]*replyNode, len(flat))
	roots := make([]*replyNode, 0)

	for i := range flat {
		node := &replyNode{reply: flat[i]}
		nodes[node.reply.ID] = node

		if node.reply.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[*node.reply.ParentID]; ok {
			parent.children = append(parent.children, node)
		} else {
			// Осиротевший ответ показываем как корневой, чтобы не терять.
			roots = append(roots, node)
		}
	}

	result := make([]models.Reply, 0, len(roots))
	for _, root := range roots {
		result = append(result, root.materialize())
	}
	return result
}
