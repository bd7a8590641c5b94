// Package main provides localization for the pcldump CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Startup
		"pcldump version %s": "pcldump バージョン %s",
		"Skipping configured interface %s. Line input disabled.": "設定されたインターフェース %s をスキップします。ライン入力は無効です。",
		"Hotkeys: [P]ause capture, [R]esume capture, [I]nformation, [H]elp, [Q]uit": "ホットキー: [P]一時停止, [R]再開, [I]情報, [H]ヘルプ, [Q]終了",

		// Shutdown
		"Interrupted, shutting down...": "中断されました。シャットダウン中...",
		"Goodbye":                       "さようなら",

		// Errors
		"Failed to open interface %s: %s":   "インターフェース %s のオープンに失敗しました: %s",
		"Failed to open buffer file %s: %s": "バッファファイル %s のオープンに失敗しました: %s",
		"Unable to continue, exiting":       "続行できません。終了します",

		// Render command
		"Buffer %s is empty, nothing to render": "バッファ %s は空です。レンダリングするものがありません",
	})
}
