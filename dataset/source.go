package dataset

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/pantryrec/core"
)

// Source 是参考数据来源。FileSource 与 StoreSource 都同时实现 cluster.Loader。
type Source interface {
	LoadVocabulary(ctx context.Context) (*core.Vocabulary, error)
	LoadRecipes(ctx context.Context) ([]core.Recipe, error)
	ClusterMap(ctx context.Context, g core.Granularity) (map[string][]string, error)
}

// Reference 是启动时加载一次、之后只读共享的参考数据。
type Reference struct {
	Vocabulary *core.Vocabulary
	Recipes    []core.Recipe
}

// LoadReference 并发加载词表与食谱表。
func LoadReference(ctx context.Context, src Source) (*Reference, error) {
	ref := &Reference{}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		v, err := src.LoadVocabulary(egCtx)
		if err != nil {
			return fmt.Errorf("load vocabulary: %w", err)
		}
		ref.Vocabulary = v
		return nil
	})
	eg.Go(func() error {
		recipes, err := src.LoadRecipes(egCtx)
		if err != nil {
			return fmt.Errorf("load recipes: %w", err)
		}
		ref.Recipes = recipes
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return ref, nil
}

// FileSource 从本地目录读取参考数据。
type FileSource struct {
	Dir               string
	VocabularyFile    string
	RecipesFile       string
	ClusterMapPattern string // 例如 "cuisine_clusters_%d.json"
	Columns           Columns
}

func (s *FileSource) path(name string) string {
	if filepath.IsAbs(name) || s.Dir == "" {
		return name
	}
	return filepath.Join(s.Dir, name)
}

func (s *FileSource) open(name string) (*os.File, error) {
	f, err := os.Open(s.path(name))
	if err != nil {
		return nil, core.ConfigurationError(core.ModuleDataset, err, "open reference file %s", name)
	}
	return f, nil
}

func (s *FileSource) LoadVocabulary(_ context.Context) (*core.Vocabulary, error) {
	f, err := s.open(s.VocabularyFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadVocabulary(f)
}

func (s *FileSource) LoadRecipes(_ context.Context) ([]core.Recipe, error) {
	f, err := s.open(s.RecipesFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cols := s.Columns
	if cols.ID == "" {
		cols = DefaultColumns()
	}
	return LoadRecipes(f, cols)
}

func (s *FileSource) ClusterMap(_ context.Context, g core.Granularity) (map[string][]string, error) {
	f, err := s.open(fmt.Sprintf(s.ClusterMapPattern, int(g)))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadClusterMap(f)
}

// StoreSource 从 core.Store（Redis 或内存）读取参考数据，便于多实例共享同一份数据。
// key 布局：
//   - <prefix>vocabulary：每行一个词条
//   - <prefix>recipes：[]core.Recipe 的 JSON
//   - <prefix>cluster_map:<level>：{"cluster": ["cuisine", ...]} 的 JSON
type StoreSource struct {
	Store  core.Store
	Prefix string
}

func (s *StoreSource) key(name string) string { return s.Prefix + name }

func (s *StoreSource) get(ctx context.Context, name string) ([]byte, error) {
	data, err := s.Store.Get(ctx, s.key(name))
	if err != nil {
		return nil, core.ConfigurationError(core.ModuleDataset, err, "read %s from %s store", s.key(name), s.Store.Name())
	}
	return data, nil
}

func (s *StoreSource) LoadVocabulary(ctx context.Context) (*core.Vocabulary, error) {
	data, err := s.get(ctx, "vocabulary")
	if err != nil {
		return nil, err
	}
	return LoadVocabulary(bytes.NewReader(data))
}

func (s *StoreSource) LoadRecipes(ctx context.Context) ([]core.Recipe, error) {
	data, err := s.get(ctx, "recipes")
	if err != nil {
		return nil, err
	}
	var recipes []core.Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, core.ConfigurationError(core.ModuleDataset, err, "decode recipes")
	}
	return recipes, nil
}

func (s *StoreSource) ClusterMap(ctx context.Context, g core.Granularity) (map[string][]string, error) {
	data, err := s.get(ctx, fmt.Sprintf("cluster_map:%d", int(g)))
	if err != nil {
		return nil, err
	}
	return LoadClusterMap(bytes.NewReader(data))
}

// Publish 把一份参考数据（通常来自 FileSource）写入 Store，供 StoreSource 读取。
func (s *StoreSource) Publish(ctx context.Context, ref *Reference, maps map[core.Granularity]map[string][]string) error {
	kvs := make(map[string][]byte, len(maps)+2)

	var vocab bytes.Buffer
	for _, t := range ref.Vocabulary.Terms() {
		vocab.WriteString(t)
		vocab.WriteByte('\n')
	}
	kvs[s.key("vocabulary")] = vocab.Bytes()

	recipes, err := json.Marshal(ref.Recipes)
	if err != nil {
		return fmt.Errorf("encode recipes: %w", err)
	}
	kvs[s.key("recipes")] = recipes

	for g, raw := range maps {
		data, err := json.Marshal(raw)
		if err != nil {
			return fmt.Errorf("encode cluster map %d: %w", g, err)
		}
		kvs[s.key(fmt.Sprintf("cluster_map:%d", int(g)))] = data
	}
	return s.Store.BatchSet(ctx, kvs)
}
