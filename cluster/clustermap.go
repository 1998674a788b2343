// Package cluster 负责菜系聚类：加载指定粒度的 cuisine→cluster 映射，
// 把预测出的菜系解析为聚类 ID，并从全量食谱中筛出该聚类的候选池。
package cluster

import (
	"sort"

	"github.com/rushteam/pantryrec/core"
)

// ClusterMap 是某个粒度下的聚类映射。构建后只读，可在并发请求间共享。
type ClusterMap struct {
	Granularity core.Granularity

	ids      []string            // 排序后的聚类 ID
	cuisines map[string][]string // cluster id -> cuisines（保持文件中的顺序，已去重）
	inverse  map[string]string   // cuisine -> cluster id
}

// NewClusterMap 由原始 {cluster_id: [cuisine...]} 构建映射。
// 同一菜系出现在两个聚类中违反“每个菜系恰好属于一个聚类”的约束，返回 DATA_INTEGRITY 错误。
func NewClusterMap(g core.Granularity, raw map[string][]string) (*ClusterMap, error) {
	cm := &ClusterMap{
		Granularity: g,
		ids:         make([]string, 0, len(raw)),
		cuisines:    make(map[string][]string, len(raw)),
		inverse:     make(map[string]string),
	}
	for id := range raw {
		cm.ids = append(cm.ids, id)
	}
	sort.Strings(cm.ids)

	for _, id := range cm.ids {
		list := make([]string, 0, len(raw[id]))
		for _, cuisine := range raw[id] {
			if cuisine == "" {
				continue
			}
			if owner, ok := cm.inverse[cuisine]; ok {
				if owner == id {
					continue
				}
				return nil, core.DataIntegrityError(core.ModuleCluster,
					"cuisine %q mapped to clusters %q and %q at granularity %d", cuisine, owner, id, g)
			}
			cm.inverse[cuisine] = id
			list = append(list, cuisine)
		}
		cm.cuisines[id] = list
	}
	return cm, nil
}

// IDs 返回排序后的聚类 ID。
func (cm *ClusterMap) IDs() []string {
	out := make([]string, len(cm.ids))
	copy(out, cm.ids)
	return out
}

// Has 判断聚类 ID 是否存在。
func (cm *ClusterMap) Has(id string) bool {
	_, ok := cm.cuisines[id]
	return ok
}

// Cuisines 返回聚类中的菜系。
func (cm *ClusterMap) Cuisines(id string) []string {
	list := cm.cuisines[id]
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// ClusterOf 返回菜系所属的聚类 ID。
func (cm *ClusterMap) ClusterOf(cuisine string) (string, bool) {
	id, ok := cm.inverse[cuisine]
	return id, ok
}
