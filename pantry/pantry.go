// Package pantry 维护用户手头的食材及其过期日期，并派生出以全局词表为下标的权重向量。
//
// 权重公式：weight = 1 / (epsilon + days_left)，越临近过期权重越大；不在 pantry 中的词条权重为 0。
// 日期按自然日比较：过期日早于今天的食材在加入时即被拒绝。
package pantry

import (
	"sort"
	"strings"
	"time"

	"github.com/rushteam/pantryrec/core"
	"github.com/rushteam/pantryrec/normalize"
)

// DefaultEpsilon 是权重公式的默认平滑项，保证 days_left 为 0 时权重有限。
const DefaultEpsilon = 0.01

// DateLayout 是交互输入和 API 中的过期日期格式。
const DateLayout = "2006-01-02"

// Item 是 pantry 中的一条食材。
type Item struct {
	Name   string    `json:"name"`
	Expiry time.Time `json:"expiry"`
}

// Pantry 保存归一化名称到食材的映射，并记录首次插入顺序。
// 同名食材重复加入时覆盖过期日期，位置保持首次插入时的位置。
// 不是并发安全的：每个请求/会话各自构建一个 Pantry。
type Pantry struct {
	items map[string]Item
	order []string

	// Normalize 对用户输入的名称做归一化，默认 normalize.Singular
	Normalize func(string) string
}

func New() *Pantry {
	return &Pantry{
		items:     make(map[string]Item),
		Normalize: normalize.Singular,
	}
}

// AddItem 加入一条食材。过期日早于 now 所在自然日时返回 VALIDATION 错误，食材不会被保存。
func (p *Pantry) AddItem(name string, expiry, now time.Time) error {
	norm := p.normalize(name)
	if norm == "" {
		return core.ValidationError(core.ModulePantry, "ingredient name is empty")
	}
	if dayOf(expiry).Before(dayOf(now)) {
		return core.ValidationError(core.ModulePantry, "%s expired on %s", norm, expiry.Format(DateLayout))
	}
	if _, exists := p.items[norm]; !exists {
		p.order = append(p.order, norm)
	}
	p.items[norm] = Item{Name: norm, Expiry: expiry}
	return nil
}

// Get 按名称（会先归一化）查找食材。
func (p *Pantry) Get(name string) (Item, bool) {
	it, ok := p.items[p.normalize(name)]
	return it, ok
}

// Len 返回食材数。
func (p *Pantry) Len() int { return len(p.order) }

// Items 按插入顺序返回食材。
func (p *Pantry) Items() []Item {
	out := make([]Item, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, p.items[name])
	}
	return out
}

// Prioritized 按过期日期升序返回食材，同一天过期的保持插入顺序。
func (p *Pantry) Prioritized() []Item {
	out := p.Items()
	sort.SliceStable(out, func(i, j int) bool {
		return dayOf(out[i].Expiry).Before(dayOf(out[j].Expiry))
	})
	return out
}

// Tokens 返回喂给分类器的文本：归一化名称按插入顺序以单个空格拼接。
// 词袋式 TF-IDF 对顺序不敏感，但顺序仍固定为插入顺序以保证可复现。
func (p *Pantry) Tokens() string {
	return strings.Join(p.order, " ")
}

// DaysLeft 返回 item 距 now 的剩余自然日数，最小为 0。
func DaysLeft(item Item, now time.Time) int {
	days := int(dayOf(item.Expiry).Sub(dayOf(now)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// Weight 计算单个食材的权重。epsilon <= 0 时使用 DefaultEpsilon。
func Weight(daysLeft int, epsilon float64) float64 {
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	if daysLeft < 0 {
		daysLeft = 0
	}
	return 1 / (epsilon + float64(daysLeft))
}

// WeightVector 返回以 vocab 为下标的权重向量。
// 只依赖 pantry 状态、词表和 now，相同输入得到相同结果。
func (p *Pantry) WeightVector(vocab *core.Vocabulary, now time.Time, epsilon float64) []float64 {
	vec := make([]float64, vocab.Len())
	for _, name := range p.order {
		i, ok := vocab.Index(name)
		if !ok {
			continue
		}
		vec[i] = Weight(DaysLeft(p.items[name], now), epsilon)
	}
	return vec
}

func (p *Pantry) normalize(name string) string {
	if p.Normalize == nil {
		return normalize.Singular(name)
	}
	return p.Normalize(name)
}

// dayOf 取 t 在其自身时区下的日期，统一到 UTC 零点便于做差。
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
