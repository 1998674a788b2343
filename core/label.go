package core

import "strings"

// Label 记录候选食谱在链路中得到的解释信息，例如召回来源、命中的食材。
// Source 标记写入阶段：recall / rank / rerank / rule。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Values 返回 Label 中累积的各个值。
func (l Label) Values() []string {
	if l.Value == "" {
		return nil
	}
	return strings.Split(l.Value, "|")
}

// MergeLabel 合并同名 Label：Value 以 '|' 累积，Source 以 ',' 累积；已存在的值不会重复追加。
func MergeLabel(existing, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}
	merged := existing
	if !contains(existing.Values(), incoming.Value) {
		merged.Value = existing.Value + "|" + incoming.Value
	}
	if incoming.Source != "" && !contains(strings.Split(existing.Source, ","), incoming.Source) {
		if merged.Source == "" {
			merged.Source = incoming.Source
		} else {
			merged.Source = existing.Source + "," + incoming.Source
		}
	}
	return merged
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
