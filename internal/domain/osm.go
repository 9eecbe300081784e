package domain

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/htmlindex"
)

// NodeFields are the attributes extracted from an OSM node document.
type NodeFields struct {
	Name      string          `json:"name"`
	Latitude  decimal.Decimal `json:"latitude"`
	Longitude decimal.Decimal `json:"longitude"`
}

// ParseNode extracts the name and coordinates of the first node element in
// an OSM API XML document. See the package documentation for the order in
// which the checks are applied.
func ParseNode(body string) (NodeFields, error) {
	if body == "" {
		return NodeFields{}, ErrEmptyResponse
	}

	// A UTF-8 byte order mark is not content.
	scan, err := scanDocument(strings.NewReader(strings.TrimPrefix(body, "\uFEFF")))
	if err != nil {
		return NodeFields{}, err
	}
	if !scan.found {
		return NodeFields{}, ErrRecordNotFound
	}
	if scan.lat == "" || scan.lon == "" {
		return NodeFields{}, ErrMissingCoordinates
	}

	lat, err := parseCoordinate("lat", scan.lat)
	if err != nil {
		return NodeFields{}, err
	}
	lon, err := parseCoordinate("lon", scan.lon)
	if err != nil {
		return NodeFields{}, err
	}

	if strings.TrimSpace(scan.name) == "" {
		return NodeFields{}, ErrMissingName
	}

	return NodeFields{Name: scan.name, Latitude: lat, Longitude: lon}, nil
}

// MarshalJSON writes coordinates with the scale they were parsed with.
func (f NodeFields) MarshalJSON() ([]byte, error) {
	type alias NodeFields
	return json.Marshal(struct {
		alias
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	}{alias(f), FormatCoordinate(f.Latitude), FormatCoordinate(f.Longitude)})
}

// FormatCoordinate renders d keeping the digits of its source text, so
// "49.410" stays "49.410" and "1.0" stays "1.0".
func FormatCoordinate(d decimal.Decimal) string {
	if d.Exponent() < 0 {
		return d.StringFixed(-d.Exponent())
	}
	return d.String()
}

func parseCoordinate(attr, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, malformed(fmt.Sprintf("invalid %s %q", attr, raw), err)
	}
	return d, nil
}

// nodeScan holds what scanDocument saw of the first node element.
type nodeScan struct {
	found bool
	lat   string
	lon   string
	name  string
}

// scanDocument walks the whole token stream so that a document which is not
// well-formed is rejected even when the first node appears before the error.
// The root element itself is never treated as a node candidate; only its
// descendants are.
func scanDocument(r io.Reader) (nodeScan, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	var (
		scan       nodeScan
		depth      int
		rootSeen   bool
		inNode     bool
		nodeDepth  int
		nameLocked bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nodeScan{}, malformed("xml syntax", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case depth == 0:
				if rootSeen {
					return nodeScan{}, malformed("multiple root elements", nil)
				}
				rootSeen = true
			case !scan.found && t.Name.Local == "node":
				scan.found = true
				scan.lat = attrValue(t, "lat")
				scan.lon = attrValue(t, "lon")
				inNode = true
				nodeDepth = depth
			case inNode && !nameLocked && t.Name.Local == "tag" && attrValue(t, "k") == "name":
				// First match wins, even if its value turns out to be blank.
				scan.name = attrValue(t, "v")
				nameLocked = true
			}
			depth++
		case xml.EndElement:
			depth--
			if inNode && depth == nodeDepth {
				inNode = false
			}
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				return nodeScan{}, malformed("content outside the root element", nil)
			}
		}
	}

	if !rootSeen {
		return nodeScan{}, malformed("no root element", nil)
	}
	return scan, nil
}

func attrValue(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// charsetReader decodes documents declaring a non-UTF-8 encoding.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", charset, err)
	}
	return enc.NewDecoder().Reader(input), nil
}
