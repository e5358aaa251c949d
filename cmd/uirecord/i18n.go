// Package main provides localization for the uirecord CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Input":   "入力",
		"Output":  "出力",
		"Video":   "動画",
		"Surface": "サーフェス",
		"Encoder": "エンコーダ",
		"Debug":   "デバッグ",
		"Logging": "ログ",

		// Root command
		"Record a rendered UI surface as an H.264 MP4 video": "描画中のUIサーフェスをH.264のMP4動画として記録",
		"Error: %v": "エラー: %v",

		// Record command
		"Record a fixed number of frames to an MP4 file":                                                     "指定フレーム数をMP4ファイルに記録",
		"Render the surface on a fixed period, encode each frame and write the samples to an MP4 container.": "一定周期でサーフェスを描画してフレームをエンコードし、サンプルをMP4コンテナに書き込みます。",

		// Record flags
		"YAML configuration file":                                      "YAML設定ファイル",
		"Output MP4 file path":                                         "出力MP4ファイルパス",
		"Frame width in pixels (even)":                                 "フレーム幅（ピクセル、偶数）",
		"Frame height in pixels (even)":                                "フレーム高さ（ピクセル、偶数）",
		"Frame rate":                                                   "フレームレート",
		"Target bitrate in bits per second":                            "目標ビットレート（bps）",
		"Seconds between key frames":                                   "キーフレーム間隔（秒）",
		"Number of frames to record":                                   "記録するフレーム数",
		"Surface to record (widgets, html)":                            "記録するサーフェス（widgets, html）",
		"Title shown by the widget surface":                            "ウィジェットサーフェスに表示するタイトル",
		"Page loaded by the html surface":                              "htmlサーフェスで読み込むページ",
		"HTML document loaded by the html surface":                     "htmlサーフェスで読み込むHTML文書",
		"Replace an existing output file":                              "既存の出力ファイルを置き換える",
		"Capture browser screenshots as JPEG at this quality (0: PNG)": "ブラウザのスクリーンショットをこの品質のJPEGで取得（0: PNG）",
		"not found":               "見つかりません",
		"available":               "利用可能",
		"ffmpeg: %s":              "ffmpeg: %s",
		"Show the browser window": "ブラウザウィンドウを表示",
		"x264 preset":             "x264プリセット",
		"End of stream signalling (last-frame, empty-frame)":       "ストリーム終端の通知方法（last-frame, empty-frame）",
		"Wait bound for codec buffers in ms (negative: unbounded)": "コーデックバッファの待機上限ms（負数: 無制限）",
		"Abort after this many ticks without progress (0: never)":  "進捗のないティックがこの回数続いたら中断（0: 無効）",
		"Loop period in ms":                                  "ループ周期（ms）",
		"Save debug frames and recording.json":               "デバッグ用フレームとrecording.jsonを保存",
		"Directory for debug output":                         "デバッグ出力先ディレクトリ",
		"Save every k-th frame":                              "kフレームごとに保存",
		"Output execution summary to file (Markdown format)": "実行サマリーをファイルに出力（Markdown形式）",
		"Log level (debug, info, warn, error)":               "ログレベル（debug, info, warn, error）",
		"Log format (console, json)":                         "ログ形式（console, json）",
		"Suppress all log output":                            "すべてのログ出力を抑制",
		"Path to Chrome executable (falls back to CHROME_PATH env, then system default)": "Chrome実行ファイルのパス（未指定時はCHROME_PATH環境変数、次にシステムデフォルト）",
		"Path to ffmpeg executable (falls back to FFMPEG_PATH env, then PATH)":           "ffmpeg実行ファイルのパス（未指定時はFFMPEG_PATH環境変数、次にPATH）",

		// Probe command
		"Show the video track of an MP4 file": "MP4ファイルの映像トラックを表示",
		"Print as JSON":                       "JSONで出力",
		"List every sample":                   "全サンプルを一覧表示",
		"probe needs exactly one file":        "probeにはファイルを1つだけ指定してください",
		"Tracks: %d (fragmented: %v)":         "トラック数: %d（フラグメント: %v）",
		"Codec: %s, profile %d, level %d":     "コーデック: %s, プロファイル %d, レベル %d",
		"Size: %dx%d":                         "サイズ: %dx%d",
		"Samples: %d (%d sync), duration %v":  "サンプル数: %d（同期 %d）, 再生時間 %v",

		// Version command
		"Show version information": "バージョン情報を表示",
		"uirecord version %s":      "uirecord バージョン %s",
	})
}
