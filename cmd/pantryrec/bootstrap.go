package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rushteam/pantryrec/cluster"
	"github.com/rushteam/pantryrec/config"
	"github.com/rushteam/pantryrec/core"
	"github.com/rushteam/pantryrec/dataset"
	"github.com/rushteam/pantryrec/model"
	"github.com/rushteam/pantryrec/service"
	"github.com/rushteam/pantryrec/store"
)

// app 是启动后只读共享的组件集合。
type app struct {
	settings    *config.Settings
	logger      *zap.Logger
	cache       core.Store
	ref         *dataset.Reference
	resolver    *cluster.Resolver
	recommender *service.Recommender
}

func (a *app) Close() error {
	if a.cache != nil {
		return a.cache.Close()
	}
	return nil
}

func openStore(ctx context.Context, s config.CacheSettings) (core.Store, error) {
	switch s.Backend {
	case "memory":
		return store.NewMemoryStore(), nil
	case "redis":
		rs, err := store.NewRedisStore(ctx, s.Addr, s.DB)
		if err != nil {
			return nil, err
		}
		return rs, nil
	default:
		return nil, nil
	}
}

func fileSource(s config.DataSettings) *dataset.FileSource {
	return &dataset.FileSource{
		Dir:               s.Dir,
		VocabularyFile:    s.Vocabulary,
		RecipesFile:       s.Recipes,
		ClusterMapPattern: s.ClusterMapPattern,
		Columns:           dataset.DefaultColumns(),
	}
}

func loadClassifier(s config.ModelSettings) (*model.CuisineClassifier, error) {
	if s.Endpoint == "" {
		return model.LoadCuisineClassifier(s.Vectorizer, s.Classifier)
	}
	vec, err := model.LoadTFIDFVectorizer(s.Vectorizer)
	if err != nil {
		return nil, core.ConfigurationError(core.ModuleClassifier, err, "load vectorizer %s", s.Vectorizer)
	}
	return model.NewCuisineClassifier(vec, model.NewRPCClassifier("remote", s.Endpoint, s.Timeout))
}

func bootstrap(ctx context.Context, s *config.Settings, log *zap.Logger) (*app, error) {
	a := &app{settings: s, logger: log}

	cache, err := openStore(ctx, s.Cache)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", s.Cache.Backend, err)
	}
	a.cache = cache

	var src dataset.Source = fileSource(s.Data)
	if s.Data.Source == "store" {
		src = &dataset.StoreSource{Store: cache, Prefix: s.Data.StorePrefix}
	}

	ref, err := dataset.LoadReference(ctx, src)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.ref = ref
	log.Info("reference data loaded",
		zap.String("source", s.Data.Source),
		zap.Int("vocabulary", ref.Vocabulary.Len()),
		zap.Int("recipes", len(ref.Recipes)))

	resolver := cluster.NewResolver(src, log)
	a.resolver = resolver
	g := core.Granularity(s.Recommend.Granularity)
	cm, err := resolver.Load(ctx, g)
	if err == nil {
		err = cluster.ValidateRecipes(cm, ref.Recipes)
	}
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("check cluster map at granularity %d: %w", g, err)
	}

	clf, err := loadClassifier(s.Model)
	if err != nil {
		a.Close()
		return nil, err
	}

	p, err := config.BuildPipeline(config.Dependencies{
		Resolver:   resolver,
		Recipes:    ref.Recipes,
		Vocabulary: ref.Vocabulary,
		Store:      cache,
		Logger:     log,
	}, s)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.recommender = &service.Recommender{
		Vocabulary:  ref.Vocabulary,
		Classifier:  clf,
		Pipeline:    p,
		Config:      s,
		Cache:       cache,
		CacheTTL:    s.Cache.TTL,
		CachePrefix: s.Cache.Prefix,
		Logger:      log,
	}
	return a, nil
}

// publish 把本地文件中的参考数据（含全部粒度的聚类表）写入缓存后端，供 data.source=store 的实例读取。
func publish(ctx context.Context, s *config.Settings, log *zap.Logger) error {
	if s.Cache.Backend != "redis" {
		return core.ConfigurationError(core.ModuleConfig, nil, "publish requires cache.backend=redis")
	}
	kv, err := openStore(ctx, s.Cache)
	if err != nil {
		return err
	}
	defer kv.Close()

	src := fileSource(s.Data)
	ref, err := dataset.LoadReference(ctx, src)
	if err != nil {
		return err
	}
	maps := make(map[core.Granularity]map[string][]string, core.MaxGranularity)
	for _, g := range core.Levels() {
		raw, err := src.ClusterMap(ctx, g)
		if err != nil {
			return err
		}
		cm, err := cluster.NewClusterMap(g, raw)
		if err != nil {
			return err
		}
		if err := cluster.ValidateRecipes(cm, ref.Recipes); err != nil {
			return err
		}
		maps[g] = raw
	}

	dst := &dataset.StoreSource{Store: kv, Prefix: s.Data.StorePrefix}
	if err := dst.Publish(ctx, ref, maps); err != nil {
		return fmt.Errorf("publish reference data: %w", err)
	}
	log.Info("reference data published",
		zap.String("store", kv.Name()),
		zap.String("prefix", s.Data.StorePrefix),
		zap.Int("recipes", len(ref.Recipes)))
	return nil
}
