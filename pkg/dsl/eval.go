// Package dsl 提供基于 CEL (Common Expression Language) 的规则解释器，
// 用于对排序后的职位候选做策略判定（标记规则、复核规则）。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/careerkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("pctx", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Eval 是规则解释器，对单个 RoleItem 执行布尔表达式。
//
// 表达式语法（CEL 标准语法）：
//   - 数值：item.confidence < 40.0 / item.probability > 0.3
//   - 字符串：item.role == "Software Engineer"
//   - 标签：label.infer_model == "logistic"
//   - 逻辑：item.confidence < 40.0 && item.code != 62
//
// 典型用法是可配置的标记规则：默认的低置信度阈值
// `item.confidence < 40.0` 就是一条 CEL 规则。
type Eval struct {
	item *core.RoleItem
	pctx *core.PredictContext
	env  *cel.Env
}

// NewEval 创建一个新的规则解释器。
func NewEval(item *core.RoleItem, pctx *core.PredictContext) *Eval {
	env, _ := getCELEnv()
	return &Eval{
		item: item,
		pctx: pctx,
		env:  env,
	}
}

// Evaluate 编译并执行表达式，返回布尔结果。
// 空表达式返回 true。访问不存在的 key 会报错，
// 存在性检查请使用 label.key != null。
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}
	if e.env == nil {
		return false, fmt.Errorf("cel env unavailable")
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("program error: %v", err)
	}

	out, _, err := prg.Eval(e.buildInput())
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func (e *Eval) buildInput() map[string]any {
	labels := make(map[string]any)
	labelAccessor := make(map[string]any)
	for k, v := range e.item.Labels {
		labels[k] = map[string]any{
			"value":  v.Value,
			"source": v.Source,
		}
		// label.infer_model 直接返回 value，兼容简写语法
		labelAccessor[k] = v.Value
	}

	item := map[string]any{
		"code":        e.item.Code,
		"role":        e.item.Role,
		"probability": e.item.Probability,
		"confidence":  e.item.Confidence,
		"labels":      labels,
	}

	pctx := map[string]any{}
	if e.pctx != nil {
		pctx["user_id"] = e.pctx.UserID
		pctx["params"] = e.pctx.Params
		if e.pctx.Profile != nil {
			pctx["degree"] = e.pctx.Profile.Degree
			pctx["specialization"] = e.pctx.Profile.Specialization
		}
	}

	return map[string]any{
		"item":  item,
		"label": labelAccessor,
		"pctx":  pctx,
	}
}
