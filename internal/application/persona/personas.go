// Package persona 提供模拟读者评估：三个固定读者画像并发阅读同一段正文，
// 各自产出满意度指标与反馈。
package persona

import "novel-review-api/internal/domain/entity"

// Profile 读者画像定义：固定配置，不是学习得来的状态。
// 评估流程以画像记录为参数，而不是按类型分支。
type Profile struct {
	Type        entity.PersonaType
	Name        string
	Description string
	FocusAreas  []string
	Criteria    string
}

// profiles 三个固定画像，顺序即结果数组的固定顺序
var profiles = []Profile{
	{
		Type:        entity.PersonaSettingObsessed,
		Name:        "设定控读者",
		Description: "逐字核对设定的硬核读者，世界观出现任何前后矛盾都会立刻弃书并留言指出。",
		FocusAreas:  []string{"世界观规则自洽", "力量体系边界", "时间线与既有事件吻合", "专有名词前后统一"},
		Criteria:    "满意度取决于设定执行的严谨程度；任何与既有设定冲突的细节都大幅增加挫败感。",
	},
	{
		Type:        entity.PersonaRomanceSubFan,
		Name:        "感情线读者",
		Description: "主要为角色间感情线追更的读者，对角色互动的温度和节奏极其敏感。",
		FocusAreas:  []string{"主要角色互动频率", "感情线推进节奏", "角色情绪描写", "关系变化的铺垫"},
		Criteria:    "满意度取决于感情线存在感与角色互动质量；感情线长期停滞或角色性格崩坏会显著降低参与度。",
	},
	{
		Type:        entity.PersonaMartialArtsFan,
		Name:        "传统武侠读者",
		Description: "读传统武侠长大的老读者，看重招式逻辑、江湖规矩和恩怨情仇的章法。",
		FocusAreas:  []string{"打斗场面的章法", "武功体系合理性", "江湖门派礼数", "恩怨因果铺陈"},
		Criteria:    "满意度取决于武打描写的功底与江湖味；流水账式战斗或无视门派规矩的情节会引起反感。",
	},
}

// Profiles 返回画像表的副本，顺序固定：
// setting_obsessed、romance_sub_focused、traditional_martial_arts_fan
func Profiles() []Profile {
	out := make([]Profile, len(profiles))
	copy(out, profiles)
	return out
}

// ProfileOf 按类型查找画像
func ProfileOf(t entity.PersonaType) (Profile, bool) {
	for _, p := range profiles {
		if p.Type == t {
			return p, true
		}
	}
	return Profile{}, false
}
