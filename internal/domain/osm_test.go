package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCafeXML = `<osm><node lat="49.41" lon="8.71"><tag k="name" v="Café Central"/></node></osm>`

	testRealNodeXML = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="openstreetmap-cgimap 2.0.1" copyright="OpenStreetMap and contributors">
 <node id="5589879349" visible="true" version="4" changeset="123" timestamp="2023-05-14T10:12:01Z" user="someone" uid="1" lat="49.4093582" lon="8.6947239">
  <tag k="amenity" v="cafe"/>
  <tag k="cuisine" v="coffee_shop"/>
  <tag k="name" v="Rada Kaffeerösterei"/>
  <tag k="opening_hours" v="Mo-Fr 08:00-18:00"/>
 </node>
</osm>`
)

func TestParseNode_Scenarios(t *testing.T) {
	t.Run("cafe central", func(t *testing.T) {
		f, err := ParseNode(testCafeXML)
		require.NoError(t, err)
		assert.Equal(t, "Café Central", f.Name)
		assert.True(t, decimal.RequireFromString("49.41").Equal(f.Latitude))
		assert.True(t, decimal.RequireFromString("8.71").Equal(f.Longitude))
	})

	t.Run("empty osm document", func(t *testing.T) {
		_, err := ParseNode(`<osm></osm>`)
		require.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("node without tags", func(t *testing.T) {
		_, err := ParseNode(`<osm><node lat="1.0" lon="2.0"></node></osm>`)
		require.ErrorIs(t, err, ErrMissingName)
	})
}

func TestParseNode_RealAPIResponse(t *testing.T) {
	f, err := ParseNode(testRealNodeXML)
	require.NoError(t, err)

	assert.Equal(t, "Rada Kaffeerösterei", f.Name)
	assert.Equal(t, "49.4093582", f.Latitude.String())
	assert.Equal(t, "8.6947239", f.Longitude.String())
}

func TestParseNode_ExactDecimals(t *testing.T) {
	tests := []struct {
		lat, lon string
	}{
		{"49.41", "8.71"},
		{"-33.8688197", "151.2092955"},
		{"0.1", "0.2"},
		{"52.520008123456789012", "13.404954987654321098"},
		{"90", "-180"},
		{"49.4100000", "1.0"},
		{"49.410", "8.7100"},
	}

	for _, tt := range tests {
		t.Run(tt.lat+","+tt.lon, func(t *testing.T) {
			body := `<osm><node lat="` + tt.lat + `" lon="` + tt.lon + `"><tag k="name" v="X"/></node></osm>`
			f, err := ParseNode(body)
			require.NoError(t, err)
			assert.Equal(t, tt.lat, FormatCoordinate(f.Latitude))
			assert.Equal(t, tt.lon, FormatCoordinate(f.Longitude))
		})
	}
}

func TestParseNode_Empty(t *testing.T) {
	_, err := ParseNode("")
	require.ErrorIs(t, err, ErrEmptyResponse)
	assert.Equal(t, KindEmptyResponse, KindOf(err))
}

func TestParseNode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"plain text", "not xml at all"},
		{"whitespace only", "   \n\t"},
		{"html error page", "<html><body><h1>Bad Gateway</h1></html>"},
		{"unclosed root", `<osm><node lat="1" lon="2">`},
		{"garbage", "<<<>>>"},
		{"two roots", `<osm></osm><osm></osm>`},
		{"trailing text", `<osm></osm>trailing`},
		{"broken after node", `<osm><node lat="1" lon="2"><tag k="name" v="A"/></node><broken></osm>`},
		{"unquoted attribute", `<osm><node lat=1 lon=2/></osm>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNode(tt.body)
			require.ErrorIs(t, err, ErrMalformedResponse)
			assert.NotErrorIs(t, err, ErrEmptyResponse)
		})
	}
}

func TestParseNode_InvalidCoordinate(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"lat", `<osm><node lat="north" lon="8.71"><tag k="name" v="A"/></node></osm>`, "lat"},
		{"lon", `<osm><node lat="49.41" lon="8,71"><tag k="name" v="A"/></node></osm>`, "lon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNode(tt.body)
			require.ErrorIs(t, err, ErrMalformedResponse)
			assert.Contains(t, err.Error(), tt.want)

			var de *Error
			require.True(t, errors.As(err, &de))
			assert.Error(t, de.Unwrap(), "decimal parse error should be kept as cause")
		})
	}
}

func TestParseNode_MissingCoordinates(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no lat", `<osm><node lon="8.71"><tag k="name" v="A"/></node></osm>`},
		{"no lon", `<osm><node lat="49.41"><tag k="name" v="A"/></node></osm>`},
		{"empty lat", `<osm><node lat="" lon="8.71"><tag k="name" v="A"/></node></osm>`},
		{"neither", `<osm><node id="1"><tag k="name" v="A"/></node></osm>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNode(tt.body)
			require.ErrorIs(t, err, ErrMissingCoordinates)
		})
	}
}

func TestParseNode_MissingCoordinatesBeforeName(t *testing.T) {
	_, err := ParseNode(`<osm><node id="1"></node></osm>`)
	require.ErrorIs(t, err, ErrMissingCoordinates)
}

func TestParseNode_MissingName(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no name tag", `<osm><node lat="1.0" lon="2.0"><tag k="amenity" v="cafe"/></node></osm>`},
		{"empty value", `<osm><node lat="1.0" lon="2.0"><tag k="name" v=""/></node></osm>`},
		{"blank value", `<osm><node lat="1.0" lon="2.0"><tag k="name" v="   "/></node></osm>`},
		{"name tag without v", `<osm><node lat="1.0" lon="2.0"><tag k="name"/></node></osm>`},
		{"first name blank", `<osm><node lat="1.0" lon="2.0"><tag k="name" v=" "/><tag k="name" v="Later"/></node></osm>`},
		{"localized only", `<osm><node lat="1.0" lon="2.0"><tag k="name:de" v="Kaffee"/></node></osm>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNode(tt.body)
			require.ErrorIs(t, err, ErrMissingName)
		})
	}
}

func TestParseNode_FirstNameTagWins(t *testing.T) {
	body := `<osm><node lat="1.0" lon="2.0">
		<tag k="name" v="First"/>
		<tag k="name" v="Second"/>
	</node></osm>`

	f, err := ParseNode(body)
	require.NoError(t, err)
	assert.Equal(t, "First", f.Name)
}

func TestParseNode_FirstNodeWins(t *testing.T) {
	body := `<osm>
		<node lat="1.5" lon="2.5"><tag k="name" v="One"/></node>
		<node lat="3.5" lon="4.5"><tag k="name" v="Two"/></node>
	</osm>`

	f, err := ParseNode(body)
	require.NoError(t, err)
	assert.Equal(t, "One", f.Name)
	assert.Equal(t, "1.5", f.Latitude.String())
}

func TestParseNode_IgnoresTagsOutsideNode(t *testing.T) {
	t.Run("sibling way before node", func(t *testing.T) {
		body := `<osm>
			<way id="7"><tag k="name" v="Hauptstraße"/></way>
			<node lat="1.0" lon="2.0"><tag k="amenity" v="cafe"/></node>
		</osm>`
		_, err := ParseNode(body)
		require.ErrorIs(t, err, ErrMissingName)
	})

	t.Run("sibling after node", func(t *testing.T) {
		body := `<osm>
			<node lat="1.0" lon="2.0"/>
			<tag k="name" v="Stray"/>
		</osm>`
		_, err := ParseNode(body)
		require.ErrorIs(t, err, ErrMissingName)
	})

	t.Run("second node's name", func(t *testing.T) {
		body := `<osm>
			<node lat="1.0" lon="2.0"/>
			<node lat="3.0" lon="4.0"><tag k="name" v="Other"/></node>
		</osm>`
		_, err := ParseNode(body)
		require.ErrorIs(t, err, ErrMissingName)
	})
}

func TestParseNode_NestedTagInsideNode(t *testing.T) {
	body := `<osm><node lat="1.0" lon="2.0"><extra><tag k="name" v="Deep"/></extra></node></osm>`

	f, err := ParseNode(body)
	require.NoError(t, err)
	assert.Equal(t, "Deep", f.Name)
}

func TestParseNode_RootIsNotACandidate(t *testing.T) {
	_, err := ParseNode(`<node lat="1.0" lon="2.0"><tag k="name" v="Root"/></node>`)
	require.ErrorIs(t, err, ErrRecordNotFound)
}

func TestParseNode_IgnoresWaysAndRelations(t *testing.T) {
	body := `<osm><way id="1"/><relation id="2"/></osm>`
	_, err := ParseNode(body)
	require.ErrorIs(t, err, ErrRecordNotFound)
}

func TestParseNode_KeepsNameVerbatim(t *testing.T) {
	f, err := ParseNode(`<osm><node lat="1" lon="2"><tag k="name" v=" Café &amp; Bar "/></node></osm>`)
	require.NoError(t, err)
	assert.Equal(t, " Café & Bar ", f.Name)
}

func TestParseNode_Latin1Declaration(t *testing.T) {
	// "Café" encoded as ISO-8859-1: 0xE9 for é.
	body := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>" +
		"<osm><node lat=\"1\" lon=\"2\"><tag k=\"name\" v=\"Caf\xe9\"/></node></osm>"

	f, err := ParseNode(body)
	require.NoError(t, err)
	assert.Equal(t, "Café", f.Name)
}

func TestParseNode_ByteOrderMark(t *testing.T) {
	f, err := ParseNode("\uFEFF" + testCafeXML)
	require.NoError(t, err)
	assert.Equal(t, "Café Central", f.Name)
	assert.Equal(t, "49.41", FormatCoordinate(f.Latitude))
}

func TestParseNode_ByteOrderMarkOnly(t *testing.T) {
	_, err := ParseNode("\uFEFF")
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestNodeFields_JSONKeepsScale(t *testing.T) {
	f, err := ParseNode(`<osm><node lat="49.410" lon="1.0"><tag k="name" v="A"/></node></osm>`)
	require.NoError(t, err)

	data, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"A","latitude":"49.410","longitude":"1.0"}`, string(data))
}

func TestFormatCoordinate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1.0", "1.0"},
		{"49.4100000", "49.4100000"},
		{"-0.50", "-0.50"},
		{"90", "90"},
		{"0", "0"},
		{"-33.8688197", "-33.8688197"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCoordinate(decimal.RequireFromString(tt.in)))
		})
	}
}
