package tui

import "fmt"

// ProgressMessage returns the status line shown after elapsed seconds of analysis
func ProgressMessage(elapsed int) string {
	var stage string
	switch {
	case elapsed < 10:
		stage = "正在发送对话内容..."
	case elapsed < 30:
		stage = "AI 正在阅读对话，分析客户心理..."
	case elapsed < 60:
		stage = "正在撰写诊断报告..."
	default:
		stage = "对话较长，仍在努力分析中，请耐心等待..."
	}
	return fmt.Sprintf("%s (%ds)", stage, elapsed)
}
