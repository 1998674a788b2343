package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Granularity 是菜系聚类的粒度（开放度），1 最粗，5 最细。
// 每个粒度对应一份 cuisine→cluster 映射文件和食谱表中的一列聚类 ID。
type Granularity int

const (
	MinGranularity Granularity = 1
	MaxGranularity Granularity = 5
)

// Valid 判断粒度是否在可识别范围内。
func (g Granularity) Valid() bool {
	return g >= MinGranularity && g <= MaxGranularity
}

func (g Granularity) String() string { return strconv.Itoa(int(g)) }

// Levels 返回所有可识别的粒度（从粗到细）。
func Levels() []Granularity {
	out := make([]Granularity, 0, MaxGranularity-MinGranularity+1)
	for g := MinGranularity; g <= MaxGranularity; g++ {
		out = append(out, g)
	}
	return out
}

// ParseGranularity 解析用户输入的开放度，越界时返回 CONFIGURATION 错误。
func ParseGranularity(s string) (Granularity, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, ConfigurationError(ModuleCluster, err, "granularity %q is not an integer", s)
	}
	g := Granularity(n)
	if !g.Valid() {
		return 0, ConfigurationError(ModuleCluster, nil, "granularity %d out of range [%d, %d]", n, MinGranularity, MaxGranularity)
	}
	return g, nil
}

// Recipe 是只读参考数据中的一条食谱。
type Recipe struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	CuisineTags []string               `json:"cuisine_tags"`
	Ingredients []string               `json:"ingredients"`
	Steps       []string               `json:"steps"`
	Clusters    map[Granularity]string `json:"clusters"` // 每个粒度下所属的聚类 ID
}

// ClusterAt 返回食谱在指定粒度下的聚类 ID。
func (r *Recipe) ClusterAt(g Granularity) (string, bool) {
	if r.Clusters == nil {
		return "", false
	}
	id, ok := r.Clusters[g]
	return id, ok && id != ""
}

// PrimaryCuisine 返回第一个菜系标签，没有时返回空串。
func (r *Recipe) PrimaryCuisine() string {
	if len(r.CuisineTags) == 0 {
		return ""
	}
	return r.CuisineTags[0]
}

// RankedResult 是排序输出中的一项。
type RankedResult struct {
	Recipe Recipe  `json:"recipe"`
	Score  float64 `json:"score"`
}

func (r RankedResult) String() string {
	return fmt.Sprintf("%s(%s)=%.4f", r.Recipe.Name, r.Recipe.ID, r.Score)
}
