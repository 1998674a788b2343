package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rushteam/pantryrec/core"
)

// EnvPrefix 是环境变量前缀，例如 PANTRYREC_RECOMMEND_TOP_K。
const EnvPrefix = "PANTRYREC"

// Settings 是应用配置。
type Settings struct {
	Log       LogSettings       `mapstructure:"log"`
	Data      DataSettings      `mapstructure:"data"`
	Model     ModelSettings     `mapstructure:"model"`
	Recommend RecommendSettings `mapstructure:"recommend"`
	Pipeline  PipelineSettings  `mapstructure:"pipeline"`
	Cache     CacheSettings     `mapstructure:"cache"`
	Server    ServerSettings    `mapstructure:"server"`
}

type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console / json
}

// DataSettings 描述参考数据的位置。Source 为 store 时从缓存后端读取（需先 publish）。
type DataSettings struct {
	Source            string `mapstructure:"source"` // file / store
	Dir               string `mapstructure:"dir"`
	Vocabulary        string `mapstructure:"vocabulary"`
	Recipes           string `mapstructure:"recipes"`
	ClusterMapPattern string `mapstructure:"cluster_map_pattern"`
	StorePrefix       string `mapstructure:"store_prefix"`
}

// ModelSettings 描述菜系分类器。Endpoint 非空时使用远程分类器，向量化仍在本地完成。
type ModelSettings struct {
	Vectorizer string        `mapstructure:"vectorizer"`
	Classifier string        `mapstructure:"classifier"`
	Endpoint   string        `mapstructure:"endpoint"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type RecommendSettings struct {
	TopK          int      `mapstructure:"top_k"`
	Epsilon       float64  `mapstructure:"epsilon"`
	Granularity   int      `mapstructure:"granularity"`
	Exclude       string   `mapstructure:"exclude"` // CEL 表达式
	Blacklist     []string `mapstructure:"blacklist"`
	BlacklistKey  string   `mapstructure:"blacklist_key"`
	MaxPerCuisine int      `mapstructure:"max_per_cuisine"`
}

type PipelineSettings struct {
	File string `mapstructure:"file"`
}

type CacheSettings struct {
	Backend string        `mapstructure:"backend"` // none / memory / redis
	Addr    string        `mapstructure:"addr"`
	DB      int           `mapstructure:"db"`
	TTL     time.Duration `mapstructure:"ttl"`
	Prefix  string        `mapstructure:"prefix"`
}

type ServerSettings struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DefaultTopK 实现 core.RecommendConfig。
func (s *Settings) DefaultTopK() int { return s.Recommend.TopK }

func (s *Settings) DefaultEpsilon() float64 { return s.Recommend.Epsilon }

func (s *Settings) DefaultGranularity() core.Granularity {
	return core.Granularity(s.Recommend.Granularity)
}

// LoadSettings 按 默认值 < 配置文件 < .env/环境变量 < 已绑定的命令行参数 的优先级加载配置。
// v 可以预先绑定 pflag；为 nil 时新建。path 为空时不读配置文件。
func LoadSettings(v *viper.Viper, path string) (*Settings, error) {
	if v == nil {
		v = viper.New()
	}

	// .env 可选
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, core.ConfigurationError(core.ModuleConfig, err, "load .env")
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, core.ConfigurationError(core.ModuleConfig, err, "read config file %s", path)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, core.ConfigurationError(core.ModuleConfig, err, "unmarshal settings")
	}
	if err := validateSettings(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func setDefaults(v *viper.Viper) {
	def := &core.DefaultRecommendConfig{}

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("data.source", "file")
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.vocabulary", "ingredient_vocabulary.txt")
	v.SetDefault("data.recipes", "recipes.csv")
	v.SetDefault("data.cluster_map_pattern", "cuisine_clusters_%d.json")
	v.SetDefault("data.store_prefix", "pantryrec:ref:")

	v.SetDefault("model.vectorizer", "data/vectorizer.json")
	v.SetDefault("model.classifier", "data/classifier.json")
	v.SetDefault("model.endpoint", "")
	v.SetDefault("model.timeout", "5s")

	v.SetDefault("recommend.top_k", def.DefaultTopK())
	v.SetDefault("recommend.epsilon", def.DefaultEpsilon())
	v.SetDefault("recommend.granularity", int(def.DefaultGranularity()))
	v.SetDefault("recommend.exclude", "")
	v.SetDefault("recommend.blacklist", []string{})
	v.SetDefault("recommend.blacklist_key", "")
	v.SetDefault("recommend.max_per_cuisine", 0)

	v.SetDefault("pipeline.file", "")

	v.SetDefault("cache.backend", "none")
	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("cache.prefix", "pantryrec:rec:")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")
}

func validateSettings(s *Settings) error {
	invalid := func(format string, args ...any) error {
		return core.ConfigurationError(core.ModuleConfig, nil, format, args...)
	}

	if !core.Granularity(s.Recommend.Granularity).Valid() {
		return invalid("recommend.granularity must be in %d..%d, got %d", core.MinGranularity, core.MaxGranularity, s.Recommend.Granularity)
	}
	if s.Recommend.TopK <= 0 {
		return invalid("recommend.top_k must be positive, got %d", s.Recommend.TopK)
	}
	if s.Recommend.Epsilon <= 0 {
		return invalid("recommend.epsilon must be positive, got %v", s.Recommend.Epsilon)
	}
	if s.Recommend.MaxPerCuisine < 0 {
		return invalid("recommend.max_per_cuisine must not be negative")
	}

	switch s.Data.Source {
	case "file":
		if s.Data.Vocabulary == "" || s.Data.Recipes == "" {
			return invalid("data.vocabulary and data.recipes are required")
		}
		if !strings.Contains(s.Data.ClusterMapPattern, "%d") {
			return invalid("data.cluster_map_pattern must contain %%d, got %q", s.Data.ClusterMapPattern)
		}
	case "store":
		if s.Cache.Backend != "redis" {
			return invalid("data.source=store requires cache.backend=redis")
		}
	default:
		return invalid("unknown data.source %q", s.Data.Source)
	}

	if s.Model.Vectorizer == "" {
		return invalid("model.vectorizer is required")
	}
	if s.Model.Classifier == "" && s.Model.Endpoint == "" {
		return invalid("one of model.classifier or model.endpoint is required")
	}

	switch s.Cache.Backend {
	case "none", "memory":
	case "redis":
		if s.Cache.Addr == "" {
			return invalid("cache.addr is required for redis")
		}
	default:
		return invalid("unknown cache.backend %q", s.Cache.Backend)
	}
	if s.Cache.Backend != "none" && s.Cache.TTL <= 0 {
		return invalid("cache.ttl must be positive")
	}
	return nil
}
