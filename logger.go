package draftexport

import "go.uber.org/zap"

// Logger 全局日志记录器，默认不输出
//
// Exporter 在创建时读取它；单个 Exporter 可以用 WithLogger 覆盖。
var Logger = zap.NewNop()

// SetLogger 设置自定义日志记录器，nil 恢复为不输出
func SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	Logger = logger
}
