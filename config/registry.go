package config

import (
	"fmt"

	"github.com/rushteam/pantryrec/pipeline"
)

// ValidatePipelineConfig 校验 pipeline 配置中所有 node 类型均已在 factory 注册；
// 若有未支持类型则返回包含已支持列表的错误。
func ValidatePipelineConfig(cfg *pipeline.Config, factory *pipeline.NodeFactory) error {
	if cfg == nil {
		return nil
	}
	if len(cfg.Pipeline.Nodes) == 0 {
		return fmt.Errorf("pipeline %q has no nodes", cfg.Pipeline.Name)
	}
	supported := factory.Types()
	known := make(map[string]bool, len(supported))
	for _, t := range supported {
		known[t] = true
	}
	for _, nc := range cfg.Pipeline.Nodes {
		if !known[nc.Type] {
			return fmt.Errorf("unsupported node type %q (supported: %v)", nc.Type, supported)
		}
	}
	return nil
}
