package config

// Alphabets maps names to glyph sets. Any other non-empty string is used
// verbatim.
var Alphabets = map[string]string{
	"classic":  "ABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890@#$%^&*()",
	"katakana": "ｱｲｳｴｵｶｷｸｹｺｻｼｽｾｿﾀﾁﾂﾃﾄﾅﾆﾇﾈﾉﾊﾋﾌﾍﾎﾏﾐﾑﾒﾓﾔﾕﾖﾗﾘﾙﾚﾛﾜﾝ",
	"binary":   "01",
	"hex":      "0123456789ABCDEF",
	"ascii":    "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789",
}

// Themes maps names to glyph colors.
var Themes = map[string]string{
	"aqua":  GlyphColor,
	"green": "#00ff00",
	"amber": "#ffbf00",
	"red":   "#ff0000",
	"blue":  "#0096ff",
	"white": "#ffffff",
}
