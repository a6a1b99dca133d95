package feature

import "strings"

// Encoder 相关实现：闭合词表上的类别编码。
//
// 与开放特征空间的哈希/嵌入编码不同，这里的词表在训练期冻结，
// 编码器只做"值 -> 固定维度"的确定性映射：未知值一律坍缩到
// 词表的 "Unknown" 成员，永不报错、永不扩维。

// OneHotEncoder One-Hot 编码（独热编码）。
// 将类别值转换为二进制向量，每个词表成员对应一个维度。
type OneHotEncoder struct {
	Categories []string // 闭合词表，顺序决定输出维度顺序
	Unknown    string   // 未匹配值坍缩到的词表成员（通常为 "Unknown"）
}

// NewOneHotEncoder 创建 One-Hot 编码器，Unknown 默认为 "Unknown"。
func NewOneHotEncoder(categories []string) *OneHotEncoder {
	return &OneHotEncoder{
		Categories: categories,
		Unknown:    "Unknown",
	}
}

// Coerce 将原始值规范到词表内：空白或不在词表中的值返回 Unknown 成员。
func (e *OneHotEncoder) Coerce(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return e.Unknown
	}
	for _, cat := range e.Categories {
		if cat == value {
			return value
		}
	}
	return e.Unknown
}

// Encode 编码单个值为 |Categories| 维的 0/1 向量。
func (e *OneHotEncoder) Encode(value string) []float64 {
	value = e.Coerce(value)
	out := make([]float64, len(e.Categories))
	for i, cat := range e.Categories {
		if cat == value {
			out[i] = 1.0
		}
	}
	return out
}

// Dim 返回输出向量维度。
func (e *OneHotEncoder) Dim() int { return len(e.Categories) }

// OrdinalEncoder 有序编码（Ordinal Encoding）。
// 将有序类别映射为 1..N 的整数，保持顺序关系；
// 未知值坍缩到 Unknown 成员对应的序号。
type OrdinalEncoder struct {
	Order   []string // 有序类别列表（从小到大）
	Unknown string
}

// NewOrdinalEncoder 创建有序编码器，Unknown 默认为 "Unknown"。
func NewOrdinalEncoder(order []string) *OrdinalEncoder {
	return &OrdinalEncoder{
		Order:   order,
		Unknown: "Unknown",
	}
}

// Encode 编码单个值为 1..N；未知值按 Unknown 成员的序号编码。
func (e *OrdinalEncoder) Encode(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		value = e.Unknown
	}
	for i, cat := range e.Order {
		if cat == value {
			return float64(i + 1)
		}
	}
	for i, cat := range e.Order {
		if cat == e.Unknown {
			return float64(i + 1)
		}
	}
	return 0
}
