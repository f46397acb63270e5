package consistency

import "novel-review-api/internal/domain/entity"

// FilterIssuesBySeverity 返回严重程度不低于 minSeverity 的全部问题，
// 全序为 critical > high > medium > low；幂等
func FilterIssuesBySeverity(issues []entity.Issue, minSeverity entity.IssueSeverity) []entity.Issue {
	threshold := entity.SeverityRank(minSeverity)
	out := make([]entity.Issue, 0, len(issues))
	for _, issue := range issues {
		if entity.SeverityRank(issue.Severity) >= threshold {
			out = append(out, issue)
		}
	}
	return out
}
