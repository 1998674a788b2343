package filter

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/rushteam/pantryrec/core"
)

// BlacklistFilter 是黑名单过滤器，过滤掉黑名单中的食谱 ID。
type BlacklistFilter struct {
	// IDs 是内存中的黑名单食谱 ID
	IDs []string

	// Store 与 Key 可选：Key 对应的值为 JSON 字符串数组
	Store core.Store
	Key   string

	ids map[string]struct{} // 由 NewBlacklistFilter 构建，只读
}

// NewBlacklistFilter 创建一个黑名单过滤器，store 可以为 nil。
func NewBlacklistFilter(ids []string, store core.Store, key string) *BlacklistFilter {
	f := &BlacklistFilter{IDs: ids, Store: store, Key: key}
	f.ids = toSet(ids)
	return f
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

func (f *BlacklistFilter) ShouldFilter(
	ctx context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}

	if f.ids != nil {
		if _, ok := f.ids[item.ID]; ok {
			return true, nil
		}
	} else {
		for _, id := range f.IDs {
			if item.ID == id {
				return true, nil
			}
		}
	}

	if f.Store == nil || f.Key == "" {
		return false, nil
	}
	ids, err := f.load(ctx)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if item.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (f *BlacklistFilter) load(ctx context.Context) ([]string, error) {
	data, err := f.Store.Get(ctx, f.Key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("decode blacklist %s: %w", f.Key, err)
	}
	return ids, nil
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
