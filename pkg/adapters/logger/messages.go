package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Analyzing %s at %.2f samples/sec...": "%s を毎秒 %.2f サンプルで解析中...",
		"Output saved to %s":                  "出力を %s に保存しました",
		"Pipeline completed successfully":     "パイプラインが正常に完了しました",
		"Starting pipeline":                   "パイプラインを開始します",
		"Interrupted, shutting down...":       "中断されました。シャットダウン中...",
		"Summary written to %s":               "サマリーを %s に書き出しました",

		// Video source
		"Opening video %s":                              "動画 %s を開いています",
		"Video opened: %dx%d, %.3f fps, %d frames (%s)": "動画を開きました: %dx%d, %.3f fps, %d フレーム (%s)",
		"Frame rate unknown, assuming %.1f fps":          "フレームレートが不明なため %.1f fps とみなします",

		// Sample stage
		"Sampling %d frames every %.2f native frames": "%d フレームを %.2f フレーム間隔でサンプリング中",
		"Sampled %d/%d frames":                        "%d/%d フレームをサンプリングしました",

		// Reduce stage
		"Averaging %d frames":     "%d フレームの平均色を計算中",
		"Average colors computed": "平均色の計算が完了しました",

		// Render and export stages
		"Rendering %s view (%dx%d)":   "%s ビューを描画中 (%dx%d)",
		"Writing %s barcode to %s":    "%s 形式のバーコードを %s に書き出し中",
		"Embedded metadata title: %s": "埋め込みメタデータのタイトル: %s",
		"Opening display window: %s":  "表示ウィンドウを開いています: %s",
		"Processing Video":            "動画を処理中",

		// Warnings
		"Sampling truncated after %d of %d frames: %s": "%d/%d フレームでサンプリングが打ち切られました: %s",
		"Failed to save debug output: %s":              "デバッグ出力の保存に失敗しました: %s",

		"No frames could be sampled; skipping barcode, views and display": "フレームを取得できなかったため、バーコード・ビュー・表示を省略します",

		// Errors
		"Failed to open video: %s":   "動画を開けませんでした: %s",
		"Failed to sample video: %s": "動画のサンプリングに失敗しました: %s",
		"Failed to render view: %s":  "ビューの描画に失敗しました: %s",
		"Failed to write output: %s": "出力の書き込みに失敗しました: %s",
	})
}
