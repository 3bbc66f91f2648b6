// Package main provides localization for the moviesigdb CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Output":   "出力",
		"Metadata": "メタデータ",
		"Sampling": "サンプリング",
		"Views":    "ビュー",
		"Debug":    "デバッグ",
		"Logging":  "ログ",

		// Root command
		"Create movie color barcodes from videos": "動画からムービーカラーバーコードを作成",
		"moviesigdb samples a video at a fixed rate, averages the color of each sampled frame, and renders the sequence as a barcode.": "moviesigdbは動画を一定の間隔でサンプリングし、各フレームの平均色をバーコードとして描画します。",

		// Barcode command
		"Create a movie barcode from a video": "動画からムービーバーコードを作成",
		"Sample the video, compute average colors, and save the barcode with embedded metadata.": "動画をサンプリングして平均色を計算し、メタデータを埋め込んだバーコードを保存します。",
		"exactly one video path is required": "動画のパスを1つ指定してください",

		// Output flags
		"Barcode output path; the format extension is appended when missing (default: <video>-barcode)": "バーコードの出力パス。拡張子がなければ形式の拡張子を付加（デフォルト: <動画名>-barcode）",
		"Output format (png, svg)":                     "出力形式（png, svg）",
		"Barcode width in pixels (default: 1500)":      "バーコードの幅（ピクセル、デフォルト: 1500）",
		"Barcode height in pixels (default: 300)":      "バーコードの高さ（ピクセル、デフォルト: 300）",
		"Write a Markdown run summary to this path":    "実行サマリーをMarkdownで書き出すパス",

		// Metadata flags
		"Show name embedded in the barcode metadata": "バーコードのメタデータに埋め込む番組名",
		"Season number or label (default: 1)":        "シーズン番号またはラベル（デフォルト: 1）",
		"Episode number or label (default: 1)":       "エピソード番号またはラベル（デフォルト: 1）",

		// Sampling flags
		"Frames sampled per second of video (default: 1.0)": "動画1秒あたりのサンプリングフレーム数（デフォルト: 1.0）",
		"Decoding backend (auto, vidio, ffmpeg)":             "デコードバックエンド（auto, vidio, ffmpeg）",
		"Path to the ffmpeg executable":                      "ffmpeg実行ファイルのパス",

		// View flags
		"Save the barcode with title and time axis as PNG": "タイトルと時間軸付きのバーコードをPNGで保存",
		"Title of the annotated barcode":                   "注釈付きバーコードのタイトル",
		"Save the 3D RGB scatter plot as PNG":              "3D RGB散布図をPNGで保存",
		"Save the HSV polar plot as PNG":                   "HSV極座標プロットをPNGで保存",
		"Show the rendered images in a browser window":     "描画した画像をブラウザウィンドウで表示",
		"Path to Chrome executable (falls back to CHROME_PATH env, then system default)": "Chrome実行ファイルのパス（未指定時はCHROME_PATH環境変数、次にシステムデフォルト）",

		// Debug flags
		"YAML configuration file; flags override its values":            "YAML設定ファイル（フラグの値が優先）",
		"Write sampled frames, colors and views to the debug directory":  "サンプリングしたフレーム、平均色、ビューをデバッグディレクトリに書き出す",
		"Directory for debug output (default: ./debug)":                  "デバッグ出力先ディレクトリ（デフォルト: ./debug）",

		// Logging flags
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Suppress all log output":              "すべてのログ出力を抑制",

		// Inspect command
		"Show the metadata embedded in a saved barcode":                      "保存したバーコードに埋め込まれたメタデータを表示",
		"Read the title and average colors embedded in a PNG or SVG barcode.": "PNGまたはSVGバーコードに埋め込まれたタイトルと平均色を読み取ります。",
		"Print the raw metadata JSON":                                        "メタデータのJSONをそのまま表示",
		"exactly one image path is required":                                 "画像のパスを1つ指定してください",
		"Title: %s":                                                          "タイトル: %s",
		"Show: %s":                                                           "番組: %s",
		"Season: %s":                                                         "シーズン: %s",
		"Episode: %s":                                                        "エピソード: %s",
		"Frames: %d":                                                         "フレーム数: %d",
		"Sampling rate: %.2f/s":                                              "サンプリングレート: %.2f/秒",
		"Size: %dx%d":                                                        "サイズ: %dx%d",

		// Version command
		"Show version information":    "バージョン情報を表示",
		"moviesigdb version %s":       "moviesigdb バージョン %s",

		// Summary report
		"Barcode Summary":   "バーコードサマリー",
		"Generated":         "生成日時",
		"Video":             "動画",
		"Item":              "項目",
		"Value":             "値",
		"Path":              "パス",
		"Resolution":        "解像度",
		"Codec":             "コーデック",
		"Frame Rate":        "フレームレート",
		"Frames":            "フレーム数",
		"Backend":           "バックエンド",
		"Rate":              "レート",
		"Interval (frames)": "間隔（フレーム）",
		"Sampled":           "サンプリング数",
		"Truncated":         "打ち切り",
		"Colors":            "色",
		"Mean":              "平均",
		"Darkest":           "最も暗い色",
		"Brightest":         "最も明るい色",
		"Mean Saturation":   "平均彩度",
		"Mean Brightness":   "平均明度",
		"Outputs":           "出力ファイル",
		"Kind":              "種類",
		"Size":              "サイズ",
		"Embedded Title":    "埋め込みタイトル",
	})
}
