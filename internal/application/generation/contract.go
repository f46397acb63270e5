// Package generation 提供面向 LLM 的结构化生成适配层：
// 提示词组装、response_format 约束、容错解析、契约校验与退避重试。
package generation

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Contract 结构化契约：约定响应必须满足的形状（字段、枚举、数值范围）。
// Schema 以 JSON Schema 形式同时用于 response_format 和提示词内嵌描述；
// 解码后的 Go 值再经 validator 标签做第二道校验。
type Contract struct {
	Name   string
	Schema map[string]any
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ContractBlock 渲染契约的机器可读描述，供提示词模板嵌入。
func ContractBlock(c Contract) string {
	b, err := json.MarshalIndent(c.Schema, "", "  ")
	if err != nil {
		return ""
	}
	return fmt.Sprintf("输出必须是符合以下 JSON Schema 的单个 JSON 对象（%s），不得包含任何其他文本：\n%s", c.Name, string(b))
}

// contractError 标记“输出可达但不符合契约”的失败，
// 与传输层失败共用同一条重试路径，但在指标上分别计数。
type contractError struct {
	err error
}

func (e *contractError) Error() string {
	return "structural contract violated: " + e.err.Error()
}

func (e *contractError) Unwrap() error {
	return e.err
}

// IsContractError 判断错误是否为契约校验失败
func IsContractError(err error) bool {
	if err == nil {
		return false
	}
	var ce *contractError
	return errors.As(err, &ce)
}
