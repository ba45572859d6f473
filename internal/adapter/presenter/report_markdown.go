package presenter

import (
	"fmt"
	"strings"

	dto "github.com/canton09/aisales/internal/adapter/dto/analysis"
)

// RenderMarkdown lays a report out as Markdown, section by section like the dashboard cards
func RenderMarkdown(r *dto.ReportResponse) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Summary.Title)
	participants := DefaultPlaceholder
	if len(r.Summary.Participants) > 0 {
		participants = strings.Join(r.Summary.Participants, ", ")
	}
	fmt.Fprintf(&b, "📅 %s · 📍 %s · 👥 %s\n\n", r.Summary.Time, r.Summary.Location, participants)
	fmt.Fprintf(&b, "> %s\n\n", r.Summary.Text)

	fmt.Fprintf(&b, "**实战评分** %s · **客户意向** %s · **引擎** %s", r.Insights.BattleEvaluation.Grade, r.Insights.CustomerIntent.Grade, r.ProviderName)
	if r.Repaired {
		b.WriteString(" · _输出已自动修复_")
	}
	b.WriteString("\n\n")

	b.WriteString("## 销售教练实战指导\n\n")
	if len(r.Insights.CoachingGuidance) == 0 {
		fmt.Fprintf(&b, "_%s_\n\n", DefaultNoGuidance)
	}
	for i, g := range r.Insights.CoachingGuidance {
		fmt.Fprintf(&b, "### %d. 客户原话：“%s”\n\n", i+1, g.OriginalQuestion)
		fmt.Fprintf(&b, "- **潜台词**：%s\n", g.Subtext)
		fmt.Fprintf(&b, "- **教练点评**：%s\n", g.CoachComment)
		fmt.Fprintf(&b, "- **实战话术示范**：%s\n\n", g.CoachingScript)
	}

	b.WriteString("## 高光时刻与亮点\n\n")
	fmt.Fprintf(&b, "%s\n\n", r.Insights.SalesPerformance.Pros)
	writeList(&b, r.Highlights, "")

	b.WriteString("## 核心失分点\n\n")
	writeList(&b, r.Insights.SalesPerformance.Cons, DefaultNoCons)

	b.WriteString("## 客户精准画像\n\n")
	fmt.Fprintf(&b, "- **客户标签**：%s\n", r.Insights.CustomerPortrait.Type)
	fmt.Fprintf(&b, "- **紧迫度**：%s\n", r.Insights.CustomerPortrait.Urgency)
	fmt.Fprintf(&b, "- **沟通风格**：%s\n\n", r.Insights.SalesPerformance.Style)
	if len(r.Insights.CustomerPortrait.Concerns) > 0 {
		b.WriteString("**核心疑虑**\n\n")
		writeList(&b, r.Insights.CustomerPortrait.Concerns, "")
	}

	b.WriteString("## 心态演变\n\n")
	if len(r.Insights.PsychologicalChange) == 0 {
		fmt.Fprintf(&b, "_%s_\n\n", DefaultNoPsychological)
	} else {
		for i, step := range r.Insights.PsychologicalChange {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
		b.WriteString("\n")
	}

	b.WriteString("## 竞品防御反击\n\n")
	fmt.Fprintf(&b, "_%s_\n\n", r.Insights.CompetitorDefense)

	b.WriteString("## 下一步跟进策略\n\n")
	fmt.Fprintf(&b, "- **具体建议**：%s\n", r.Insights.NextSteps.Method)
	fmt.Fprintf(&b, "- **目标**：%s\n", r.Insights.NextSteps.Goal)
	fmt.Fprintf(&b, "- **执行**：%s\n\n", r.Insights.NextSteps.Owner)

	if len(r.KeyMoments) > 0 {
		b.WriteString("## 关键时刻\n\n")
		for _, m := range r.KeyMoments {
			fmt.Fprintf(&b, "- `%s` **%s**：%s\n", m.Time, m.Speaker, m.Text)
			if m.Insight != "" {
				fmt.Fprintf(&b, "  - 💡 %s\n", m.Insight)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("## 原始录音转写文本\n\n")
	if len(r.Transcript) == 0 && len(r.KeyMoments) == 0 {
		fmt.Fprintf(&b, "_%s_\n", DefaultNoTranscript)
	}
	for _, line := range r.Transcript {
		fmt.Fprintf(&b, "- `%s` **%s**：%s\n", line.Time, line.Speaker, line.Text)
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeList(b *strings.Builder, items []string, empty string) {
	if len(items) == 0 {
		if empty != "" {
			fmt.Fprintf(b, "_%s_\n\n", empty)
		}
		return
	}
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
	b.WriteString("\n")
}
