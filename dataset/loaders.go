// Package dataset 读取只读参考数据：全局食材词表、食谱表、各粒度的菜系聚类映射。
package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"github.com/rushteam/pantryrec/core"
	"github.com/rushteam/pantryrec/normalize"
)

// LoadVocabulary 读取词表：每行一个小写食材名，空行忽略，顺序即列下标。
func LoadVocabulary(r io.Reader) (*core.Vocabulary, error) {
	var terms []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if t := normalize.Clean(sc.Text()); t != "" {
			terms = append(terms, t)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	return core.NewVocabulary(terms)
}

// Columns 描述食谱表的列名。
type Columns struct {
	ID             string
	Name           string
	CuisineTags    string
	Ingredients    string
	Steps          string
	ClusterPattern string // 例如 "cluster_%d"，%d 为粒度
}

// DefaultColumns 与清洗后的食谱表保持一致。
func DefaultColumns() Columns {
	return Columns{
		ID:             "id",
		Name:           "name",
		CuisineTags:    "Cuisine_Tags",
		Ingredients:    "replaced_ingredients",
		Steps:          "steps",
		ClusterPattern: "cluster_%d",
	}
}

// LoadRecipes 读取 CSV 食谱表，按表中顺序返回。
// 列表列（菜系、食材、步骤）使用 ParseListLiteral 解析；食材名做小写和空白规整。
// 一列聚类都没有时返回 CONFIGURATION 错误；只缺部分粒度时对应粒度不写入 Recipe.Clusters，
// 由 cluster.ValidateRecipes 在查询该粒度时报错。
func LoadRecipes(r io.Reader, cols Columns) ([]core.Recipe, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, core.ConfigurationError(core.ModuleDataset, err, "read recipe header")
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	col := func(name string) int {
		if i, ok := index[strings.ToLower(name)]; ok {
			return i
		}
		return -1
	}

	required := map[string]int{
		cols.ID:          col(cols.ID),
		cols.Name:        col(cols.Name),
		cols.Ingredients: col(cols.Ingredients),
	}
	for name, i := range required {
		if i < 0 {
			return nil, core.ConfigurationError(core.ModuleDataset, nil, "recipe table has no %q column", name)
		}
	}
	idCol, nameCol, ingCol := required[cols.ID], required[cols.Name], required[cols.Ingredients]
	tagCol, stepCol := col(cols.CuisineTags), col(cols.Steps)

	clusterCols := make(map[core.Granularity]int)
	for _, g := range core.Levels() {
		if i := col(fmt.Sprintf(cols.ClusterPattern, int(g))); i >= 0 {
			clusterCols[g] = i
		}
	}
	if len(clusterCols) == 0 {
		return nil, core.ConfigurationError(core.ModuleDataset, nil,
			"recipe table has no cluster columns matching %q", cols.ClusterPattern)
	}

	field := func(rec []string, i int) string {
		if i < 0 || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var recipes []core.Recipe
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, core.ConfigurationError(core.ModuleDataset, err, "read recipe row %d", line)
		}

		ingredients := ParseListLiteral(field(rec, ingCol))
		for i := range ingredients {
			ingredients[i] = normalize.Clean(ingredients[i])
		}
		recipe := core.Recipe{
			ID:          strings.TrimSpace(field(rec, idCol)),
			Name:        strings.TrimSpace(field(rec, nameCol)),
			CuisineTags: ParseListLiteral(field(rec, tagCol)),
			Ingredients: ingredients,
			Steps:       ParseListLiteral(field(rec, stepCol)),
			Clusters:    make(map[core.Granularity]string, len(clusterCols)),
		}
		for g, i := range clusterCols {
			if id := normalizeClusterID(field(rec, i)); id != "" {
				recipe.Clusters[g] = id
			}
		}
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

// LoadClusterMap 读取 JSON 形式的聚类映射：{"0": ["italian", ...], "1": [...]}。
// 值为 null 的位置会被忽略。
func LoadClusterMap(r io.Reader) (map[string][]string, error) {
	var raw map[string][]*string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, core.ConfigurationError(core.ModuleDataset, err, "decode cluster map")
	}
	out := make(map[string][]string, len(raw))
	for id, list := range raw {
		cuisines := make([]string, 0, len(list))
		for _, c := range list {
			if c != nil && strings.TrimSpace(*c) != "" {
				cuisines = append(cuisines, strings.TrimSpace(*c))
			}
		}
		key := normalizeClusterID(id)
		if _, dup := out[key]; dup {
			return nil, core.DataIntegrityError(core.ModuleDataset, "cluster id %q listed more than once", key)
		}
		out[key] = cuisines
	}
	return out, nil
}

// normalizeClusterID 让 "3" 与 "3.0"（表格导出时常见的浮点形式）指向同一个聚类。
func normalizeClusterID(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, ".0") {
		return strings.TrimSuffix(s, ".0")
	}
	return s
}
