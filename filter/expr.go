package filter

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/pantryrec/core"
)

// ExprFilter 使用 CEL (Common Expression Language) 表达式过滤食谱：表达式为 true 的食谱被移除。
// 表达式在构造时编译一次，Program 线程安全，可在多个请求间共享。
//
// 可用变量：
//   - recipe.id / recipe.name / recipe.cuisines / recipe.ingredients / recipe.steps / recipe.cluster
//   - item.score / item.labels（map，值为 Label.Value）
//   - rctx.cuisine / rctx.cluster_id / rctx.granularity
//
// 示例：
//   - `"pork" in recipe.ingredients` → 排除含猪肉的食谱
//   - `recipe.steps.size() > 12` → 排除步骤过多的食谱
//   - `recipe.cuisines.exists(c, c == "dessert")` → 排除甜点
type ExprFilter struct {
	Expr string
	prg  cel.Program
}

func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("recipe", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("item", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("rctx", cel.MapType(cel.StringType, cel.DynType)),
	)
}

// NewExprFilter 编译表达式；语法或类型错误返回 ConfigurationError。
func NewExprFilter(expr string) (*ExprFilter, error) {
	env, err := newEnv()
	if err != nil {
		return nil, fmt.Errorf("create cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, core.ConfigurationError(core.ModuleFilter, issues.Err(), "compile exclude expression %q", expr)
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, core.ConfigurationError(core.ModuleFilter, err, "build exclude expression %q", expr)
	}
	return &ExprFilter{Expr: expr, prg: prg}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Recipe == nil {
		return true, nil
	}
	if f.prg == nil {
		return false, fmt.Errorf("expression %q not compiled", f.Expr)
	}

	out, _, err := f.prg.Eval(buildInput(rctx, item))
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", f.Expr, err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

func buildInput(rctx *core.RecommendContext, item *core.Item) map[string]any {
	r := item.Recipe

	labels := make(map[string]string, len(item.Labels))
	for k, v := range item.Labels {
		labels[k] = v.Value
	}

	input := map[string]any{
		"recipe": map[string]any{
			"id":          r.ID,
			"name":        r.Name,
			"cuisines":    nonNil(r.CuisineTags),
			"ingredients": nonNil(r.Ingredients),
			"steps":       nonNil(r.Steps),
			"cluster":     "",
		},
		"item": map[string]any{
			"score":  item.Score,
			"labels": labels,
		},
		"rctx": map[string]any{},
	}
	if rctx != nil {
		if id, ok := r.ClusterAt(rctx.Granularity); ok {
			input["recipe"].(map[string]any)["cluster"] = id
		}
		input["rctx"] = map[string]any{
			"cuisine":     rctx.Cuisine,
			"cluster_id":  rctx.ClusterID,
			"granularity": int64(rctx.Granularity),
		}
	}
	return input
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
