package imagemeta

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"
)

// ErrNotSVG is returned when data is not an SVG document.
var ErrNotSVG = errors.New("imagemeta: not an SVG document")

const dublinCoreNS = "http://purl.org/dc/elements/1.1/"

// SVGRect is a filled rectangle in an SVG document.
type SVGRect struct {
	X, Y, Width, Height int
	Fill                string
}

// SVGDocument is a flat vector image made of rectangles, with Dublin Core
// title and description metadata.
type SVGDocument struct {
	Width       int
	Height      int
	Title       string
	Description string
	Rects       []SVGRect
}

// Encode renders the document with svgo. The RDF metadata block has no
// svgo helper and is written to the canvas writer directly.
func (d SVGDocument) Encode() []byte {
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(d.Width, d.Height, fmt.Sprintf(`viewBox="0 0 %d %d"`, d.Width, d.Height))

	if d.Title != "" || d.Description != "" {
		writeRDF(&buf, d.Title, d.Description)
	}
	if d.Title != "" {
		canvas.Title(d.Title)
	}

	canvas.Group(`shape-rendering="crispEdges"`)
	for _, r := range d.Rects {
		canvas.Rect(r.X, r.Y, r.Width, r.Height, fmt.Sprintf(`fill="%s"`, r.Fill))
	}
	canvas.Gend()
	canvas.End()
	return buf.Bytes()
}

func writeRDF(buf *bytes.Buffer, title, description string) {
	buf.WriteString("<metadata>\n")
	buf.WriteString(`<rdf:RDF xmlns:dc="` + dublinCoreNS + `" xmlns:cc="http://creativecommons.org/ns#" xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">` + "\n")
	buf.WriteString("<cc:Work>\n")
	if title != "" {
		buf.WriteString("<dc:title>")
		_ = xml.EscapeText(buf, []byte(title))
		buf.WriteString("</dc:title>\n")
	}
	if description != "" {
		buf.WriteString("<dc:description>")
		_ = xml.EscapeText(buf, []byte(description))
		buf.WriteString("</dc:description>\n")
	}
	buf.WriteString(`<dc:type rdf:resource="http://purl.org/dc/dcmitype/StillImage"/>` + "\n")
	buf.WriteString("</cc:Work>\n</rdf:RDF>\n</metadata>\n")
}

// ReadSVGText returns the Dublin Core title and description of an SVG document.
func ReadSVGText(data []byte) (Fields, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		fields  Fields
		sawRoot bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotSVG, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if !sawRoot {
			if start.Name.Local != "svg" {
				return nil, ErrNotSVG
			}
			sawRoot = true
			continue
		}
		if start.Name.Space != dublinCoreNS {
			continue
		}
		var keyword string
		switch start.Name.Local {
		case "title":
			keyword = "Title"
		case "description":
			keyword = "Description"
		default:
			continue
		}
		var value string
		if err := dec.DecodeElement(&value, &start); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotSVG, err)
		}
		fields = append(fields, TextField{Keyword: keyword, Value: value})
	}
	if !sawRoot {
		return nil, ErrNotSVG
	}
	return fields, nil
}
