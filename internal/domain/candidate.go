package domain

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"
)

// ErrInvalidCandidates top_k_json / candidate_items 不是数组
var ErrInvalidCandidates = errors.New("candidate items must be a JSON array")

var validate = validator.New()

// CandidateItem 识别候选商品（top_k_json 的元素，按识别排名排序）
type CandidateItem struct {
	ItemID  int64    `json:"item_id" validate:"required,gt=0"`
	NameKor string   `json:"name_kor,omitempty"`
	Score   *float64 `json:"score,omitempty"`
}

// DisplayName 展示名称，没有名称时使用 "#<item_id>"
func (c CandidateItem) DisplayName() string {
	if name := strings.TrimSpace(c.NameKor); name != "" {
		return name
	}
	return "#" + strconv.FormatInt(c.ItemID, 10)
}

// ParseCandidateItems 在系统边界解析形状不固定的候选列表
// - null / 空 → 空列表
// - 非数组 → ErrInvalidCandidates
// - 非对象元素、item_id 缺失或非正数的元素被丢弃，保留其余元素的原始顺序
func ParseCandidateItems(raw []byte) ([]CandidateItem, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []CandidateItem{}, nil
	}
	if !gjson.ValidBytes(trimmed) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidCandidates)
	}

	result := gjson.ParseBytes(trimmed)
	if !result.IsArray() {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidCandidates, describe(result))
	}

	items := make([]CandidateItem, 0, len(result.Array()))
	result.ForEach(func(_, v gjson.Result) bool {
		if item, ok := candidateFromResult(v); ok {
			items = append(items, item)
		}
		return true
	})
	return items, nil
}

func candidateFromResult(v gjson.Result) (CandidateItem, bool) {
	if !v.IsObject() {
		return CandidateItem{}, false
	}

	item := CandidateItem{}
	id := v.Get("item_id")
	switch id.Type {
	case gjson.Number:
		if id.Num != math.Trunc(id.Num) {
			return CandidateItem{}, false
		}
		item.ItemID = id.Int()
	case gjson.String:
		n, err := strconv.ParseInt(strings.TrimSpace(id.Str), 10, 64)
		if err != nil {
			return CandidateItem{}, false
		}
		item.ItemID = n
	}

	for _, key := range []string{"name_kor", "name"} {
		if name := v.Get(key); name.Type == gjson.String && strings.TrimSpace(name.Str) != "" {
			item.NameKor = name.Str
			break
		}
	}
	if score := v.Get("score"); score.Type == gjson.Number {
		s := score.Num
		item.Score = &s
	}

	if err := validate.Struct(item); err != nil {
		return CandidateItem{}, false
	}
	return item, true
}

func describe(r gjson.Result) string {
	switch {
	case r.IsObject():
		return "object"
	case r.Type == gjson.String:
		return "string"
	case r.Type == gjson.Number:
		return "number"
	case r.Type == gjson.True || r.Type == gjson.False:
		return "boolean"
	default:
		return r.Type.String()
	}
}

// ToConfirmedItems 候选商品 → 确认商品行（数量默认 1）
func ToConfirmedItems(items []CandidateItem) []ConfirmedItem {
	out := make([]ConfirmedItem, 0, len(items))
	for _, it := range items {
		out = append(out, ConfirmedItem{ItemID: it.ItemID, Qty: 1})
	}
	return out
}

// Validate 校验单个候选商品（item_id 必须为正数）
func (c CandidateItem) Validate() error {
	return validate.Struct(c)
}
