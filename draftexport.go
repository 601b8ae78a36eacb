// Package draftexport 将 Draft.js raw content state 转换为 HTML
//
// 输入是扁平的 block 列表：每个 block 带有文本、内联样式区间、实体区间和嵌套深度。
// 导出器把这些按偏移标注的区间编译成嵌套正确的节点树，再序列化为 HTML。
//
// 核心功能：
//   - 通过 block map / style map / entity decorators 配置每种类型的渲染方式
//   - 组件（Component）可以替代原始标签，接收完整的上下文
//   - 正则驱动的 composite decorators（链接、话题、换行等）
//   - 列表等 wrapper 元素按深度嵌套
//   - 可插拔的 DOM 引擎：string、string_compat、etree、html
//
// 主要 API：
//   - New(): 创建可复用、并发安全的 Exporter
//   - Render(): 一次性转换
//
// 示例：
//
//	exporter, err := draftexport.New(
//	    draftexport.WithEngine(dom.EngineHTML),
//	    draftexport.WithEntityDecorators(map[string]any{
//	        draftexport.EntityLink: link,
//	    }),
//	)
//	if err != nil {
//	    return err
//	}
//	html, err := exporter.Render(content)
package draftexport

// Render 使用给定选项一次性转换 content
//
// 需要多次转换时使用 New() 创建 Exporter，避免重复解析配置。
func Render(content ContentState, opts ...Option) (string, error) {
	exporter, err := New(opts...)
	if err != nil {
		return "", err
	}
	return exporter.Render(content)
}

// RenderJSON decodes a raw content state and renders it in one call.
func RenderJSON(data []byte, opts ...Option) (string, error) {
	exporter, err := New(opts...)
	if err != nil {
		return "", err
	}
	return exporter.RenderJSON(data)
}
