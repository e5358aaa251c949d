package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration (info)
		"Recording %d frames at %dx%d, %d fps to %s":                     "%d フレームを %dx%d, %d fps で %s に録画します",
		"Selected codec %s: %s, %d bps, %d fps, key frame every %ds, %s": "コーデック %s を選択: %s, %d bps, %d fps, キーフレーム間隔 %d 秒, %s",
		"Removed existing output %s":                                     "既存の出力 %s を削除しました",
		"Failed to save contact sheet: %v":                               "コンタクトシートの保存に失敗しました: %v",
		"Output saved to %s (%d bytes)":                                  "出力を %s に保存しました (%d バイト)",
		"Summary saved to %s":                                            "サマリーを %s に保存しました",
		"Debug output in %s":                                             "デバッグ出力先: %s",
		"Interrupted, shutting down...":                                  "中断されました。シャットダウン中...",

		// Orchestration (errors)
		"Setup failed: %v":                  "セットアップに失敗しました: %v",
		"Recording failed: %v":              "録画に失敗しました: %v",
		"Could not stat output %s: %v":      "出力 %s のサイズを取得できません: %v",
		"Failed to save recording.json: %v": "recording.json の保存に失敗しました: %v",
		"Failed to write summary: %v":       "サマリーの書き込みに失敗しました: %v",

		// Capture loop
		"Frame %d queued at %dus (%s)":                     "フレーム %d を %dus で投入 (%s)",
		"End of stream queued at %dus":                     "ストリーム終端を %dus で投入",
		"End of stream received at %dus":                   "ストリーム終端を %dus で受信",
		"No input buffer for frame %d, skipping tick: %v":  "フレーム %d の入力バッファがありません。このティックをスキップします: %v",
		"Output buffers changed":                           "出力バッファが変更されました",
		"Output format: %s %dx%d":                          "出力フォーマット: %s %dx%d",
		"Output format changed after track start":          "トラック開始後に出力フォーマットが変更されました",
		"Ignoring repeated codec config sample (%d bytes)": "重複したコーデック設定サンプルを無視します (%d バイト)",
		"Failed to save debug frame %d: %v":                "デバッグフレーム %d の保存に失敗しました: %v",
		"Failed to save debug planes %d: %v":               "デバッグプレーン %d の保存に失敗しました: %v",
		"Recorded %d frames, %d samples, %d bytes in %v":   "%d フレーム, %d サンプル, %d バイトを %v で記録しました",
		"Recording aborted after %d frames: %v":            "%d フレームで録画を中断しました: %v",
		"Shutdown reported errors: %v":                     "シャットダウン中にエラーが発生しました: %v",

		// Muxer
		"Track %d started: %s %dx%d":                  "トラック %d を開始: %s %dx%d",
		"Muxer released without a started track":      "トラック未開始のままマルチプレクサを解放しました",
		"Muxer shut down after %d samples (%d bytes)": "%d サンプル (%d バイト) でマルチプレクサを終了しました",
		"Wrote %s: %d samples, %d bytes":              "%s を書き込みました: %d サンプル, %d バイト",

		// Encoder (ffmpeg)
		"Started %s %v":                        "%s を起動しました %v",
		"Input ended at %dus":                  "入力は %dus で終了しました",
		"Output buffer %d grown to %d bytes":   "出力バッファ %d を %d バイトに拡張しました",
		"SPS: profile %d level %d, %dx%d":      "SPS: プロファイル %d レベル %d, %dx%d",
		"Unparseable SPS: %v":                  "SPS を解析できません: %v",
		"Writing frame to ffmpeg failed: %v":   "ffmpeg へのフレーム書き込みに失敗しました: %v",
		"Reading ffmpeg output: %v":            "ffmpeg 出力の読み取り: %v",
		"ffmpeg did not exit, killing process": "ffmpeg が終了しないため強制終了します",

		// Browser surface
		"Browser surface ready: %s (%dx%d)": "ブラウザサーフェスの準備完了: %s (%dx%d)",

		// Summary labels
		"Recording Summary":  "録画サマリー",
		"Run ID":             "実行ID",
		"Generated At":       "生成日時",
		"Result":             "結果",
		"Item":               "項目",
		"Value":              "値",
		"Status":             "状態",
		"Completed":          "完了",
		"Aborted":            "中断",
		"Error":              "エラー",
		"Frames Submitted":   "投入フレーム数",
		"Samples Written":    "書き込みサンプル数",
		"Skipped Frames":     "スキップしたフレーム数",
		"Loop Ticks":         "ループ回数",
		"Timestamps":         "タイムスタンプ",
		"Elapsed":            "所要時間",
		"Settings":           "設定",
		"Codec":              "コーデック",
		"Surface":            "サーフェス",
		"Resolution":         "解像度",
		"Frame Rate":         "フレームレート",
		"Bitrate":            "ビットレート",
		"Key Frame Interval": "キーフレーム間隔",
		"End of Stream":      "ストリーム終端",
		"Video":              "動画",
		"Output":             "出力",
		"File Size":          "ファイルサイズ",
		"Payload Bytes":      "ペイロードバイト数",
		"Sample Entry":       "サンプルエントリ",
		"Profile / Level":    "プロファイル / レベル",
		"Samples":            "サンプル数",
		"Duration":           "再生時間",
		"sync":               "同期",
	})
}
