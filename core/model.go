package core

import "context"

// Vectorizer 是冻结文本向量化器的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（model）实现
//   - 工件在进程启动时加载一次，此后只读、全请求共享
//
// 约定：
//   - Transform 将规范文本表示转为训练特征空间中的稀疏向量
//     （特征索引 -> 权重）；词表之外的 token 被静默丢弃，永不报错
//
// 实现：
//   - model.TFIDFVectorizer 实现此接口
type Vectorizer interface {
	// Transform 将文本转为稀疏特征向量（索引 -> 权重）
	Transform(text string) map[int]float64
}

// Classifier 是冻结多类别概率分类器的领域接口。
//
// 约定：
//   - Classes 返回训练时确定的类别编码顺序（与 PredictProba 输出一一对应）
//   - PredictProba 对每个训练类别给出概率，名义上和为 1.0
//     （受浮点误差影响）
//
// 实现：
//   - model.LogisticClassifier 实现此接口（本地 JSON 工件）
//   - model.ServingClient 实现此接口（进程外 HTTP 服务）
type Classifier interface {
	// Name 返回分类器名称（用于日志/标签）
	Name() string

	// Classes 返回训练类别编码的固定顺序
	Classes() []int

	// PredictProba 对稀疏特征向量输出固定长度的概率分布
	PredictProba(ctx context.Context, features map[int]float64) ([]float64, error)
}
