package tui

import (
	"fmt"
	"strings"

	"github.com/canton09/aisales/internal/domain/entities"
)

func (m Model) View() string {
	if m.state == StateShowingResult {
		return m.resultView()
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("SalesCoach AI · 犀利教练，实战复盘"))
	b.WriteString("\n")

	b.WriteString(m.styles.Label.Render("分析引擎 "))
	for _, p := range []entities.Provider{entities.ProviderDeepSeek, entities.ProviderGemini} {
		name := " " + p.DisplayName() + " "
		if p == m.provider {
			b.WriteString(m.styles.Active.Render("[" + name + "]"))
		} else {
			b.WriteString(m.styles.Muted.Render(" " + name + " "))
		}
	}
	b.WriteString("\n")

	if s := m.currentScenario(); s != nil {
		fmt.Fprintf(&b, "%s %s %s\n", m.styles.Label.Render("分析场景"), s.Title, m.styles.Muted.Render("("+s.Key+")"))
	}
	b.WriteString("\n")

	if m.provider == entities.ProviderDeepSeek {
		b.WriteString(m.styles.Label.Render("DeepSeek API Key"))
		b.WriteString("\n")
		b.WriteString(m.keyInput.View())
		b.WriteString("\n")
		b.WriteString(m.styles.Notice.Render("密钥以明文形式保存在本机偏好设置中。"))
		b.WriteString("\n\n")
	}

	b.WriteString(m.styles.Label.Render("对话转写内容"))
	b.WriteString("\n")
	b.WriteString(m.styles.Panel.Render(m.transcript.View()))
	b.WriteString("\n")

	if m.state == StateAnalyzing {
		fmt.Fprintf(&b, "%s %s\n", m.spinner.View(), m.styles.Progress.Render(ProgressMessage(m.elapsed)))
	}
	if m.err != "" {
		b.WriteString(m.styles.Error.Render("引擎响应异常: " + m.err))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Help.Render(m.help()))
	return b.String()
}

func (m Model) help() string {
	if m.state == StateAnalyzing {
		return "分析中... ctrl+c 退出"
	}
	keys := []string{"ctrl+s 开始分析", "ctrl+p 切换引擎", "ctrl+t 切换场景", "ctrl+e 填入示例文本"}
	if m.provider == entities.ProviderDeepSeek {
		keys = append(keys, "tab 切换输入框")
	}
	keys = append(keys, "esc 退出")
	return strings.Join(keys, " · ")
}

func (m Model) resultView() string {
	header := m.styles.Title.Render(fmt.Sprintf("%s Engine · %d%%", m.result.Provider.DisplayName(), int(m.viewport.ScrollPercent()*100)))
	return header + "\n" + m.viewport.View() + "\n" + m.styles.Help.Render("↑/↓ 滚动 · b/esc 返回 · q 退出")
}
