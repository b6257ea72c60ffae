package generator

import (
	"strings"

	"sectors-server/internal/entity"
	"sectors-server/internal/random"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var syllables = []string{
	"al", "an", "ar", "bel", "cor", "da", "del", "dra", "el", "en",
	"esh", "fal", "gan", "hal", "ith", "ka", "kor", "lan", "lis", "mar",
	"mir", "nak", "nor", "ol", "or", "pra", "quel", "ra", "ren", "sa",
	"sel", "tar", "tis", "ul", "va", "vor", "wen", "xan", "yl", "zar",
}

var starNames = []string{
	"Altair", "Vega", "Sirius", "Arcturus", "Capella", "Rigel", "Procyon",
	"Aldebaran", "Spica", "Antares", "Pollux", "Fomalhaut", "Deneb", "Regulus",
	"Adhara", "Castor", "Bellatrix", "Elnath", "Alnilam", "Alioth", "Dubhe",
	"Mirfak", "Wezen", "Avior", "Atria", "Alhena", "Polaris", "Alphard",
	"Hamal", "Diphda", "Mizar", "Nunki", "Menkent", "Mirach", "Kochab",
	"Saiph", "Enif", "Schedar", "Markab",
}

var sectorPrefixes = []string{
	"Alpha", "Beta", "Gamma", "Delta", "Epsilon", "Zeta", "Theta", "Kappa",
	"Lambda", "Sigma", "Omega", "Outer", "Inner", "Central", "Remote",
	"Azure", "Crimson", "Golden", "Silver", "Emerald", "Violet", "Amber",
}

var sectorSuffixes = []string{
	"Reach", "Expanse", "Drift", "Marches", "Verge", "Frontier", "Deep",
	"Cluster", "Rim", "Spur", "Corridor", "Hollows",
}

var stationSuffixes = []string{
	"Station", "Outpost", "Hub", "Platform", "Dock", "Array", "Anchorage", "Spire",
}

var systemDesignations = []string{"Prime", "Major", "Minor", "II", "III", "IV"}

type nameGenerator struct {
	chance *random.Chance
	caser  cases.Caser
}

func newNameGenerator(chance *random.Chance) *nameGenerator {
	return &nameGenerator{
		chance: chance,
		caser:  cases.Title(language.English),
	}
}

// word joins two to three syllables into a capitalised word.
func (n *nameGenerator) word() string {
	count := n.chance.Integer(2, 3)
	var b strings.Builder
	for i := 0; i < count; i++ {
		b.WriteString(random.PickOne(n.chance, syllables))
	}
	return n.caser.String(b.String())
}

func (n *nameGenerator) sector() string {
	return random.PickOne(n.chance, sectorPrefixes) + " " + random.PickOne(n.chance, sectorSuffixes)
}

func (n *nameGenerator) system() string {
	if n.chance.Bool(40) {
		name := random.PickOne(n.chance, starNames)
		if n.chance.Bool(50) {
			name += " " + random.PickOne(n.chance, systemDesignations)
		}
		return name
	}
	return n.word()
}

func (n *nameGenerator) station() string {
	return n.word() + " " + random.PickOne(n.chance, stationSuffixes)
}

func (n *nameGenerator) forType(t entity.Type) string {
	switch t {
	case entity.TypeSector:
		return n.sector()
	case entity.TypeSystem, entity.TypeBlackHole:
		return n.system()
	case entity.TypeSpaceStation, entity.TypeDeepSpaceStation, entity.TypeRefuelingStation,
		entity.TypeResearchBase, entity.TypeAsteroidBase, entity.TypeMoonBase, entity.TypeGasGiantMine:
		return n.station()
	default:
		return n.word()
	}
}
