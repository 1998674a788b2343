// Package present 负责把推荐结果展示给终端用户，以及交互式会话中的提问。
package present

import (
	"fmt"
	"io"
	"strings"

	"github.com/rushteam/pantryrec/core"
)

// Render 输出一条食谱：食材清单、编号步骤、ID、名称、菜系。
func Render(w io.Writer, r core.RankedResult) error {
	var b strings.Builder
	b.WriteString("Ingredients:\n")
	for _, ing := range r.Recipe.Ingredients {
		fmt.Fprintf(&b, "- %s\n", strings.TrimSpace(ing))
	}
	b.WriteString("\nRecipe:\n")
	for i, step := range r.Recipe.Steps {
		fmt.Fprintf(&b, "Step %d: %s\n", i+1, strings.TrimSpace(step))
	}
	fmt.Fprintf(&b, "\nRecipe ID: %s\n", r.Recipe.ID)
	fmt.Fprintf(&b, "Recipe Name: %s\n", r.Recipe.Name)
	fmt.Fprintf(&b, "Cuisine: %s\n", strings.Join(r.Recipe.CuisineTags, ", "))
	_, err := io.WriteString(w, b.String())
	return err
}

// Browse 按顺序询问每条结果，返回第一条被接受的结果。
// 全部被拒绝时返回 nil，不会回头重新推荐。
func Browse(ranked []core.RankedResult, ask func(core.RankedResult) (bool, error)) (*core.RankedResult, error) {
	for i := range ranked {
		ok, err := ask(ranked[i])
		if err != nil {
			return nil, err
		}
		if ok {
			return &ranked[i], nil
		}
	}
	return nil, nil
}
