package scene

import "strings"

// namePrefixes feed the "catalog name + numeral" pattern.
var namePrefixes = []string{
	"Vega", "Altair", "Cygnus", "Orion", "Lyra", "Draco",
	"Rigel", "Auriga", "Talos", "Nexus", "Kepler", "Tycho",
	"Halcyon", "Meridian", "Corvus", "Pavo",
}

// nameSyllables feed the concatenation pattern.
var nameSyllables = []string{
	"ka", "zor", "vel", "thu", "ran", "ixi", "pha", "dor",
	"mek", "sol", "ora", "bex", "tan", "qua", "rin", "ul",
}

var romanNumerals = []string{
	"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X",
	"XI", "XII", "XIII", "XIV", "XV", "XVI", "XVII", "XVIII", "XIX", "XX",
}

// defaultName draws the next generated planet name. The stream is consumed
// planet-by-planet in index order, so inserting or removing a planet
// shifts all later default names; explicit name overrides are the
// mitigation.
func defaultName(st *Stream) string {
	if st.Bool(0.5) {
		prefix := namePrefixes[st.IntN(len(namePrefixes))]
		return prefix + " " + romanNumerals[st.IntN(len(romanNumerals))]
	}

	n := 2 + st.IntN(2)
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString(nameSyllables[st.IntN(len(nameSyllables))])
	}
	name := b.String()
	return strings.ToUpper(name[:1]) + name[1:]
}
