package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Pausing capture":                  "キャプチャを一時停止します",
		"Resuming capture":                 "キャプチャを再開します",
		"Quit received, exiting":           "終了コマンドを受信しました。終了します",
		"Executing startup commands":       "起動コマンドを実行中",
		"Sending startup command %s":       "起動コマンド %s を送信中",

		// Monitor
		"Starting job processing":              "ジョブ処理を開始します",
		"Job complete (%d bytes), rendering":   "ジョブ完了 (%d バイト)、レンダリング中",

		// Renderer
		"Phosphor mode enabled, processing":    "フォスファーモード有効、処理中",
		"Rendered %s, launching viewer":        "%s をレンダリングしました。ビューアを起動中",
		"Rendered %s":                          "%s をレンダリングしました",
		"Keeping buffer on disk for inspection": "検査のためバッファをディスクに保持します",
		"Cleared buffer on disk":               "ディスク上のバッファをクリアしました",
		"Buffer kept on disk; capture paused until resume": "バッファを保持しました。再開までキャプチャを一時停止します",

		// Warnings
		"Failed to launch viewer %s: %s": "ビューア %s の起動に失敗しました: %s",
		"Failed to set raw mode: %s":     "raw モードの設定に失敗しました: %s",

		// Errors
		"Line read failed: %s":                      "ラインの読み取りに失敗しました: %s",
		"Buffer append failed: %s":                  "バッファへの追記に失敗しました: %s",
		"Failed to send startup command %s: %s":     "起動コマンド %s の送信に失敗しました: %s",
		"Failed to convert capture using %s: %s":    "%s によるキャプチャの変換に失敗しました: %s",
		"Failed to run phosphor processing on %s: %s": "%s のフォスファー処理に失敗しました: %s",
		"Render dispatch failed: %s":                "レンダリングのディスパッチに失敗しました: %s",
		"Failed to clear buffer on resume: %s":      "再開時のバッファクリアに失敗しました: %s",
	})
}
