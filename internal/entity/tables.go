package entity

import "slices"

type CategoryOption struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	Weight int    `json:"weight"`
}

// CategoryTable is a static attribute domain such as a space station's
// occupation.
type CategoryTable struct {
	Key     string           `json:"key"`
	Name    string           `json:"name"`
	Options []CategoryOption `json:"options"`
}

// Keys returns the option keys in table order.
func (t CategoryTable) Keys() []string {
	keys := make([]string, 0, len(t.Options))
	for _, o := range t.Options {
		keys = append(keys, o.Key)
	}
	return keys
}

// Weights returns the option weights in table order. Options without an
// explicit weight count as 1.
func (t CategoryTable) Weights() []int {
	weights := make([]int, 0, len(t.Options))
	for _, o := range t.Options {
		w := o.Weight
		if w == 0 {
			w = 1
		}
		weights = append(weights, w)
	}
	return weights
}

// Contains reports whether key is one of the table's options.
func (t CategoryTable) Contains(key string) bool {
	return slices.Contains(t.Keys(), key)
}

// Label returns the display name of key, or key itself when unknown.
func (t CategoryTable) Label(key string) string {
	for _, o := range t.Options {
		if o.Key == key {
			return o.Name
		}
	}
	return key
}

// Occupation is what a space station is mainly used for.
var Occupation = CategoryTable{
	Key:  "occupation",
	Name: "Occupation",
	Options: []CategoryOption{
		{Key: "asteroidMiners", Name: "Asteroid miners"},
		{Key: "customsInspectors", Name: "Customs inspectors"},
		{Key: "dockWorkers", Name: "Dock workers"},
		{Key: "exiledNobles", Name: "Exiled nobles"},
		{Key: "freeTraders", Name: "Free traders"},
		{Key: "gasHarvesters", Name: "Gas harvesters"},
		{Key: "hospitalStaff", Name: "Hospital staff"},
		{Key: "militaryGarrison", Name: "Military garrison"},
		{Key: "pilgrims", Name: "Pilgrims"},
		{Key: "pirates", Name: "Pirates"},
		{Key: "prisoners", Name: "Prisoners"},
		{Key: "refugees", Name: "Refugees"},
		{Key: "researchers", Name: "Researchers"},
		{Key: "salvagers", Name: "Salvagers"},
		{Key: "shipwrights", Name: "Shipwrights"},
		{Key: "smugglers", Name: "Smugglers"},
		{Key: "tourists", Name: "Tourists"},
		{Key: "xenoDiplomats", Name: "Xeno diplomats"},
	},
}

// Situation is the trouble a space station is currently in.
var Situation = CategoryTable{
	Key:  "situation",
	Name: "Situation",
	Options: []CategoryOption{
		{Key: "aiMalfunction", Name: "AI malfunction"},
		{Key: "blockaded", Name: "Blockaded by a hostile fleet"},
		{Key: "boomTimes", Name: "Boom times"},
		{Key: "cultInfiltration", Name: "Cult infiltration"},
		{Key: "decayingOrbit", Name: "Decaying orbit"},
		{Key: "diplomaticSummit", Name: "Hosting a diplomatic summit"},
		{Key: "failingLifeSupport", Name: "Failing life support"},
		{Key: "labourStrike", Name: "Labour strike"},
		{Key: "newManagement", Name: "Under new management"},
		{Key: "quarantine", Name: "Under quarantine"},
		{Key: "recentlyRaided", Name: "Recently raided"},
		{Key: "sabotage", Name: "Plagued by sabotage"},
		{Key: "secretExperiment", Name: "Running a secret experiment"},
		{Key: "supplyShortage", Name: "Supply shortage"},
		{Key: "successionCrisis", Name: "Succession crisis"},
		{Key: "uneasyTruce", Name: "Uneasy truce between factions"},
	},
}
