package pantry

import (
	"strings"
	"time"

	"github.com/rushteam/pantryrec/core"
)

// Entry 是一条未经校验的用户输入。
type Entry struct {
	Name   string `json:"name" binding:"required"`
	Expiry string `json:"expiry" binding:"required"` // YYYY-MM-DD
}

// ParseEntry 解析交互输入 "name;YYYY-MM-DD"。
func ParseEntry(line string) (Entry, error) {
	name, date, ok := strings.Cut(line, ";")
	if !ok {
		return Entry{}, core.ValidationError(core.ModulePantry, "input %q is not in name;YYYY-MM-DD form", line)
	}
	e := Entry{Name: strings.TrimSpace(name), Expiry: strings.TrimSpace(date)}
	if e.Name == "" {
		return Entry{}, core.ValidationError(core.ModulePantry, "input %q has an empty ingredient name", line)
	}
	return e, nil
}

// ParseDate 解析 YYYY-MM-DD。
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, core.ValidationError(core.ModulePantry, "expiry %q is not a YYYY-MM-DD date", s)
	}
	return t, nil
}

// Rejected 记录一条被丢弃的输入及原因。
type Rejected struct {
	Entry  Entry  `json:"entry"`
	Reason string `json:"reason"`
}

// Build 依次加入 entries，返回 pantry 和被拒绝的条目。
// 单条输入无效只会被记录到 rejected，不会中断构建。
func Build(entries []Entry, now time.Time) (*Pantry, []Rejected) {
	return BuildWith(nil, entries, now)
}

// BuildWith 与 Build 相同，但用 norm 归一化食材名；norm 为 nil 时使用 normalize.Singular。
func BuildWith(norm func(string) string, entries []Entry, now time.Time) (*Pantry, []Rejected) {
	p := New()
	if norm != nil {
		p.Normalize = norm
	}
	var rejected []Rejected
	for _, e := range entries {
		expiry, err := ParseDate(e.Expiry)
		if err == nil {
			err = p.AddItem(e.Name, expiry, now)
		}
		if err != nil {
			rejected = append(rejected, Rejected{Entry: e, Reason: err.Error()})
		}
	}
	return p, rejected
}
