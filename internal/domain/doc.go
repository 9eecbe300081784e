// Package domain models points of sale imported from OpenStreetMap (OSM).
//
// # Data Source
//
// Nodes are fetched from the OSM editing API, e.g.
// https://www.openstreetmap.org/api/0.6/node/<id>, which answers with a
// document of the form:
//
//	<osm version="0.6">
//	  <node id="123" lat="49.4093582" lon="8.6947239" ...>
//	    <tag k="amenity" v="cafe"/>
//	    <tag k="name" v="Café Central"/>
//	  </node>
//	</osm>
//
// Only node elements are recognized. Ways, relations and changesets in the
// same document are ignored.
//
// # Extraction Rules
//
// [ParseNode] applies its checks in a fixed order and stops at the first
// failure:
//
//  1. empty body: [ErrEmptyResponse]
//  2. document not well-formed XML: [ErrMalformedResponse]
//  3. no node below the root element: [ErrRecordNotFound]
//  4. lat or lon missing or empty on the first node: [ErrMissingCoordinates]
//  5. lat or lon not a decimal number: [ErrMalformedResponse]
//  6. no name tag inside the first node, or a blank value: [ErrMissingName]
//
// Coordinates are kept as exact decimals. "49.41" stays 49.41 and is never
// routed through float64.
//
// Tags are only searched inside the located node, in document order, and the
// first tag with k="name" wins.
//
// # Errors
//
// Every failure is an [*Error] with a [Kind]. Validation kinds describe the
// input or the fetched document and reach callers untouched. Transport and
// persistence failures are wrapped by the importer into a single "import
// failed" error that keeps the original as its cause.
package domain
