package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStyle(t *testing.T) {
	decls := parseStyle(`color: red; background: url("a;b.png"); background-image: linear-gradient(to right, #000 0%, #fff 100%);;bogus; WIDTH:10px`)

	assert.Equal(t, declarations{
		{property: "color", value: "red"},
		{property: "background", value: `url("a;b.png")`},
		{property: "background-image", value: "linear-gradient(to right, #000 0%, #fff 100%)"},
		{property: "width", value: "10px"},
	}, decls)
}

func TestParseStyle_Empty(t *testing.T) {
	assert.Empty(t, parseStyle(""))
	assert.Empty(t, parseStyle("  ;  "))
}

func TestDeclarations_GetUsesLastValue(t *testing.T) {
	decls := parseStyle("color: red; color: blue")
	v, ok := decls.get("color")
	assert.True(t, ok)
	assert.Equal(t, "blue", v)
}

func TestDeclarations_SetCollapsesDuplicates(t *testing.T) {
	decls := parseStyle("color: red; width: 1px; color: blue").set("color", "#000000")
	assert.Equal(t, "color: #000000; width: 1px;", decls.String())
}

func TestDeclarations_SetAppends(t *testing.T) {
	decls := parseStyle("width: 1px").set("filter", "none")
	assert.Equal(t, "width: 1px; filter: none;", decls.String())
}

func TestDeclarations_Remove(t *testing.T) {
	decls := parseStyle("color: red; width: 1px").remove("color")
	assert.Equal(t, "width: 1px;", decls.String())
}
