package config

import (
	"path/filepath"
	"strings"

	"github.com/rushteam/pantryrec/core"
	"github.com/rushteam/pantryrec/pipeline"
)

// DefaultPipelineConfig 按 Settings 生成默认链路：
// recall.cluster → [filter] → rank.incidence → [rerank.diversity] → rerank.topn
func DefaultPipelineConfig(s *Settings) *pipeline.Config {
	cfg := &pipeline.Config{}
	cfg.Pipeline.Name = "pantry"

	nodes := []pipeline.NodeConfig{{Type: "recall.cluster"}}

	var filters []any
	if s.Recommend.Exclude != "" {
		filters = append(filters, map[string]any{"type": "expr", "expr": s.Recommend.Exclude})
	}
	if len(s.Recommend.Blacklist) > 0 || s.Recommend.BlacklistKey != "" {
		ids := make([]any, 0, len(s.Recommend.Blacklist))
		for _, id := range s.Recommend.Blacklist {
			ids = append(ids, id)
		}
		filters = append(filters, map[string]any{"type": "blacklist", "ids": ids, "key": s.Recommend.BlacklistKey})
	}
	if len(filters) > 0 {
		nodes = append(nodes, pipeline.NodeConfig{Type: "filter", Config: map[string]any{"filters": filters}})
	}

	nodes = append(nodes, pipeline.NodeConfig{Type: "rank.incidence"})

	if s.Recommend.MaxPerCuisine > 0 {
		nodes = append(nodes, pipeline.NodeConfig{
			Type:   "rerank.diversity",
			Config: map[string]any{"max_per_key": s.Recommend.MaxPerCuisine},
		})
	}
	nodes = append(nodes, pipeline.NodeConfig{
		Type:   "rerank.topn",
		Config: map[string]any{"n": s.Recommend.TopK},
	})

	cfg.Pipeline.Nodes = nodes
	return cfg
}

// BuildPipeline 构建推荐链路：配置了 pipeline.file 时从文件读取（.json 按 JSON，其余按 YAML），
// 否则使用 DefaultPipelineConfig。
func BuildPipeline(deps Dependencies, s *Settings) (*pipeline.Pipeline, error) {
	cfg := DefaultPipelineConfig(s)
	if s.Pipeline.File != "" {
		load := pipeline.LoadFromYAML
		if strings.EqualFold(filepath.Ext(s.Pipeline.File), ".json") {
			load = pipeline.LoadFromJSON
		}
		loaded, err := load(s.Pipeline.File)
		if err != nil {
			return nil, core.ConfigurationError(core.ModuleConfig, err, "load pipeline %s", s.Pipeline.File)
		}
		cfg = loaded
	}

	factory := DefaultFactory(deps)
	if err := ValidatePipelineConfig(cfg, factory); err != nil {
		return nil, core.ConfigurationError(core.ModuleConfig, err, "validate pipeline")
	}
	p, err := cfg.BuildPipeline(factory)
	if err != nil {
		return nil, core.ConfigurationError(core.ModuleConfig, err, "build pipeline")
	}
	p.Logger = deps.Logger
	return p, nil
}
