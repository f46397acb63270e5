package setting

import (
	"sort"

	"novel-review-api/internal/domain/entity"
)

// PostprocessDefaults 后处理使用的占位默认值，独立成配置便于测试
type PostprocessDefaults struct {
	// ProtagonistSpeechPattern 主角缺失说话方式时的占位描述
	ProtagonistSpeechPattern string
	// CriticalRuleEvidence critical 级规则缺失依据时的占位文本
	CriticalRuleEvidence string
}

// DefaultPostprocess 默认后处理配置
var DefaultPostprocess = PostprocessDefaults{
	ProtagonistSpeechPattern: "标准书面语，暂未提取到明显口癖",
	CriticalRuleEvidence:     "（未提取到原文依据，待人工补充）",
}

// Postprocess 对任意来源的设定集无条件执行后处理（纯函数，无生成调用）：
// 1. 剔除引用了不存在角色的关系条目；
// 2. 主角缺失说话方式时填充占位描述；
// 3. 时间轴按 timestamp 字典序排序；
// 4. critical 级世界规则缺失依据时填充占位文本。
func Postprocess(m *entity.SettingModel) {
	PostprocessWith(m, DefaultPostprocess)
}

// PostprocessWith 以指定默认值执行后处理
func PostprocessWith(m *entity.SettingModel, defaults PostprocessDefaults) {
	if m == nil {
		return
	}

	names := m.CharacterNames()
	for i := range m.Characters {
		c := &m.Characters[i]

		kept := c.Relationships[:0]
		for _, rel := range c.Relationships {
			if _, ok := names[rel.Character]; ok {
				kept = append(kept, rel)
			}
		}
		c.Relationships = kept

		if c.Role == entity.RoleProtagonist && c.SpeechPattern == "" {
			c.SpeechPattern = defaults.ProtagonistSpeechPattern
		}
	}

	// 注意：这里是 timestamp 字符串的字典序，不是叙事时序
	// （例如 "10장" 会排在 "2장" 之前），与上游行为保持一致。
	sort.SliceStable(m.Timeline, func(i, j int) bool {
		return m.Timeline[i].Timestamp < m.Timeline[j].Timestamp
	})

	for i := range m.WorldRules {
		r := &m.WorldRules[i]
		if r.Importance == entity.ImportanceCritical && r.Evidence == "" {
			r.Evidence = defaults.CriticalRuleEvidence
		}
	}
}
