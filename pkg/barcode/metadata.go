package barcode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidMetadata is returned when an embedded payload cannot be parsed.
var ErrInvalidMetadata = errors.New("barcode: invalid metadata")

// Label is a season or episode identifier that is either text or an integer.
// The original kind survives JSON encoding, so "1" and 1 stay distinct.
type Label struct {
	text    string
	number  int
	numeric bool
}

// Text returns a textual label.
func Text(s string) Label {
	return Label{text: s}
}

// Number returns a numeric label.
func Number(n int) Label {
	return Label{number: n, numeric: true}
}

// ParseLabel returns a numeric label when s is a plain integer, a textual one otherwise.
func ParseLabel(s string) Label {
	if n, err := strconv.Atoi(s); err == nil && strconv.Itoa(n) == s {
		return Number(n)
	}
	return Text(s)
}

// IsNumber reports whether the label holds an integer.
func (l Label) IsNumber() bool {
	return l.numeric
}

// String formats the label for titles.
func (l Label) String() string {
	if l.numeric {
		return strconv.Itoa(l.number)
	}
	return l.text
}

// MarshalJSON encodes numeric labels as JSON numbers and others as strings.
func (l Label) MarshalJSON() ([]byte, error) {
	if l.numeric {
		return json.Marshal(l.number)
	}
	return json.Marshal(l.text)
}

// UnmarshalJSON accepts a JSON string or integer.
func (l *Label) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = Text(s)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("label must be a string or integer: %w", err)
	}
	*l = Number(n)
	return nil
}

// Metadata is the record embedded in a saved barcode.
type Metadata struct {
	ShowName      string         `json:"show_name"`
	Season        Label          `json:"season"`
	Episode       Label          `json:"episode"`
	FrameCount    int            `json:"frame_count"`
	FPS           float64        `json:"fps"`
	AverageColors []AverageColor `json:"average_colors"`
}

// NewMetadata builds a record whose frame count matches the color sequence.
func NewMetadata(showName string, season, episode Label, fps float64, colors []AverageColor) Metadata {
	copied := make([]AverageColor, len(colors))
	copy(copied, colors)
	return Metadata{
		ShowName:      showName,
		Season:        season,
		Episode:       episode,
		FrameCount:    len(copied),
		FPS:           fps,
		AverageColors: copied,
	}
}

// Title returns "{show}S{season}E{episode}".
func (m Metadata) Title() string {
	return m.ShowName + "S" + m.Season.String() + "E" + m.Episode.String()
}

// Encode serializes the record as compact JSON.
func (m Metadata) Encode() ([]byte, error) {
	if m.AverageColors == nil {
		m.AverageColors = []AverageColor{}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	return data, nil
}

// DecodeMetadata parses a payload produced by Encode.
func DecodeMetadata(data []byte) (Metadata, error) {
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}
	if m.AverageColors == nil {
		m.AverageColors = []AverageColor{}
	}
	return m, nil
}
