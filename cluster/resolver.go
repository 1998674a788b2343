package cluster

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/rushteam/pantryrec/core"
)

// Loader 读取指定粒度的原始聚类映射。
// 粒度只是一个参数：新增粒度是数据变更（多一份文件/多一个 key），不需要新增代码分支。
type Loader interface {
	ClusterMap(ctx context.Context, g core.Granularity) (map[string][]string, error)
}

// LoaderFunc 让普通函数实现 Loader。
type LoaderFunc func(ctx context.Context, g core.Granularity) (map[string][]string, error)

func (f LoaderFunc) ClusterMap(ctx context.Context, g core.Granularity) (map[string][]string, error) {
	return f(ctx, g)
}

// Resolver 按粒度加载并缓存 ClusterMap。缓存后的映射只读，可以被并发请求共享。
type Resolver struct {
	Loader Loader
	Logger *zap.Logger

	mu   sync.RWMutex
	maps map[core.Granularity]*ClusterMap
}

func NewResolver(loader Loader, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		Loader: loader,
		Logger: logger,
		maps:   make(map[core.Granularity]*ClusterMap),
	}
}

// Load 返回指定粒度的聚类映射；粒度越界返回 CONFIGURATION 错误。
func (r *Resolver) Load(ctx context.Context, g core.Granularity) (*ClusterMap, error) {
	if !g.Valid() {
		return nil, core.ConfigurationError(core.ModuleCluster, nil,
			"granularity %d out of range [%d, %d]", g, core.MinGranularity, core.MaxGranularity)
	}

	r.mu.RLock()
	cm, ok := r.maps[g]
	r.mu.RUnlock()
	if ok {
		return cm, nil
	}

	if r.Loader == nil {
		return nil, core.ConfigurationError(core.ModuleCluster, nil, "no cluster map loader configured")
	}
	raw, err := r.Loader.ClusterMap(ctx, g)
	if err != nil {
		if core.IsDomainError(err) {
			return nil, err
		}
		return nil, core.ConfigurationError(core.ModuleCluster, err, "load cluster map for granularity %d", g)
	}
	cm, err = NewClusterMap(g, raw)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if cached, ok := r.maps[g]; ok {
		cm = cached
	} else {
		r.maps[g] = cm
	}
	r.mu.Unlock()

	if r.Logger != nil {
		r.Logger.Debug("cluster map loaded", zap.Int("granularity", int(g)), zap.Int("clusters", len(cm.ids)))
	}
	return cm, nil
}

// Resolve 返回菜系所属的聚类 ID。
// 菜系不在映射中时返回 LOOKUP 错误（分类器标签与聚类表不同步），绝不回退到默认聚类。
func Resolve(cuisine string, cm *ClusterMap) (string, error) {
	if cm == nil {
		return "", core.ConfigurationError(core.ModuleCluster, nil, "cluster map is not loaded")
	}
	id, ok := cm.ClusterOf(cuisine)
	if !ok {
		return "", core.LookupError(core.ModuleCluster,
			"cuisine %q not found in cluster map at granularity %d", cuisine, cm.Granularity)
	}
	return id, nil
}

// Candidates 按原始数据集顺序返回在粒度 g 下属于 clusterID 的食谱。
func Candidates(clusterID string, recipes []core.Recipe, g core.Granularity) []core.Recipe {
	out := make([]core.Recipe, 0)
	for i := range recipes {
		if id, ok := recipes[i].ClusterAt(g); ok && id == clusterID {
			out = append(out, recipes[i])
		}
	}
	return out
}

// ValidateRecipes 检查每条食谱在粒度 cm.Granularity 下引用的聚类 ID 都存在于映射中。
// 食谱非空但没有任何一条带该粒度的聚类 ID 时，说明参考数据缺少这一列，返回 CONFIGURATION 错误。
func ValidateRecipes(cm *ClusterMap, recipes []core.Recipe) error {
	assigned := 0
	for i := range recipes {
		id, ok := recipes[i].ClusterAt(cm.Granularity)
		if !ok {
			continue
		}
		assigned++
		if !cm.Has(id) {
			return core.DataIntegrityError(core.ModuleCluster,
				"recipe %s references cluster %q absent from granularity %d map", recipes[i].ID, id, cm.Granularity)
		}
	}
	if len(recipes) > 0 && assigned == 0 {
		return core.ConfigurationError(core.ModuleCluster, nil,
			"no recipe carries a cluster id for granularity %d", cm.Granularity)
	}
	return nil
}
