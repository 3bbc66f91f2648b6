// Package export implements the save-with-metadata stage: it renders the
// plain barcode and writes it as PNG or SVG with the barcode metadata
// embedded in the file's text fields.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/user/moviesigdb/pkg/barcode"
	"github.com/user/moviesigdb/pkg/imagemeta"
	"github.com/user/moviesigdb/pkg/pipeline"
	"github.com/user/moviesigdb/pkg/ports"
	"github.com/user/moviesigdb/pkg/stages/render"
)

// Software is written to the Software field of PNG output.
const Software = "moviesigdb"

// Text field keywords.
const (
	KeywordTitle       = "Title"
	KeywordDescription = "Description"
	KeywordSoftware    = "Software"
)

var (
	// ErrUnsupportedFormat is returned for output formats other than png and svg.
	ErrUnsupportedFormat = errors.New("export: unsupported output format")

	// ErrEmptyBarcode is returned when saving a barcode without colors.
	ErrEmptyBarcode = errors.New("export: no colors to save")

	// ErrNoMetadata is returned by ReadMetadata when the file carries no payload.
	ErrNoMetadata = errors.New("export: no barcode metadata found")
)

// Format is an output file format.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat validates a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPNG, FormatSVG:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// WithExtension appends ".format" unless path already ends with it.
// The comparison ignores case.
func WithExtension(path string, format Format) string {
	ext := "." + string(format)
	if strings.HasSuffix(strings.ToLower(path), ext) {
		return path
	}
	return path + ext
}

// Stage renders and saves barcodes.
type Stage struct {
	render   *render.Stage
	renderer ports.Renderer
	fs       ports.FileSystem
	logger   ports.Logger
}

// New creates a new export stage.
func New(renderer ports.Renderer, fs ports.FileSystem, sink ports.DebugSink, logger ports.Logger) *Stage {
	return &Stage{
		render:   render.New(renderer, sink, logger),
		renderer: renderer,
		fs:       fs,
		logger:   logger.WithComponent("export"),
	}
}

// Execute renders the plain barcode and, when OutputPath is set, writes it
// with embedded metadata. Write errors are returned unchanged in the chain.
func (s *Stage) Execute(ctx context.Context, input pipeline.ExportInput) (pipeline.ExportResult, error) {
	defaults := pipeline.DefaultExportInput()
	if input.Width <= 0 {
		input.Width = defaults.Width
	}
	if input.Height <= 0 {
		input.Height = defaults.Height
	}
	if input.Format == "" {
		input.Format = defaults.Format
	}

	result := pipeline.ExportResult{
		Image: s.render.Barcode(input.Colors, render.BarcodeOptions{
			Width:  input.Width,
			Height: input.Height,
		}),
	}
	if input.OutputPath == "" {
		return result, nil
	}

	format, err := ParseFormat(input.Format)
	if err != nil {
		return result, err
	}
	if len(input.Colors) == 0 {
		return result, ErrEmptyBarcode
	}

	select {
	case <-ctx.Done():
		return result, ctx.Err()
	default:
	}

	meta := barcode.NewMetadata(input.ShowName, input.Season, input.Episode, input.FPS, input.Colors)
	payload, err := meta.Encode()
	if err != nil {
		return result, fmt.Errorf("encode metadata: %w", err)
	}

	path := WithExtension(input.OutputPath, format)
	s.logger.Debug("Writing %s barcode to %s", string(format), path)
	s.logger.Debug("Embedded metadata title: %s", meta.Title())

	var data []byte
	switch format {
	case FormatPNG:
		data, err = s.encodePNG(result.Image, meta.Title(), string(payload))
	case FormatSVG:
		data = encodeSVG(input.Colors, input.Width, input.Height, meta.Title(), string(payload))
	}
	if err != nil {
		return result, err
	}

	if err := s.fs.WriteFile(path, data); err != nil {
		return result, fmt.Errorf("write barcode: %w", err)
	}

	result.Path = path
	result.FileSize = int64(len(data))
	result.Metadata = &meta
	return result, nil
}

func (s *Stage) encodePNG(img image.Image, title, description string) ([]byte, error) {
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return nil, fmt.Errorf("encode barcode: %w", err)
	}

	data, err = imagemeta.EmbedPNGText(data, imagemeta.Fields{
		{Keyword: KeywordTitle, Value: title},
		{Keyword: KeywordDescription, Value: description},
		{Keyword: KeywordSoftware, Value: Software},
	})
	if err != nil {
		return nil, fmt.Errorf("embed metadata: %w", err)
	}
	return data, nil
}

// encodeSVG draws one full-height rectangle per color. Sliver edges fall
// on whole pixels, floor(i*width/n), so no sliver is blurred by
// antialiasing. Slivers narrower than a pixel are dropped.
func encodeSVG(colors []barcode.AverageColor, width, height int, title, description string) []byte {
	doc := imagemeta.SVGDocument{
		Width:       width,
		Height:      height,
		Title:       title,
		Description: description,
		Rects:       make([]imagemeta.SVGRect, 0, len(colors)),
	}

	n := len(colors)
	for i, c := range colors {
		x0, x1 := i*width/n, (i+1)*width/n
		if x1 == x0 {
			continue
		}
		doc.Rects = append(doc.Rects, imagemeta.SVGRect{
			X:      x0,
			Width:  x1 - x0,
			Height: height,
			Fill:   c.Hex(),
		})
	}
	return doc.Encode()
}

// ReadMetadata extracts the barcode metadata from a saved PNG or SVG file.
func ReadMetadata(data []byte) (barcode.Metadata, error) {
	var (
		fields imagemeta.Fields
		err    error
	)
	if bytes.HasPrefix(data, []byte("\x89PNG")) {
		fields, err = imagemeta.ReadPNGText(data)
	} else {
		fields, err = imagemeta.ReadSVGText(data)
	}
	if err != nil {
		return barcode.Metadata{}, err
	}

	description, ok := fields.Get(KeywordDescription)
	if !ok {
		return barcode.Metadata{}, ErrNoMetadata
	}
	return barcode.DecodeMetadata([]byte(description))
}
