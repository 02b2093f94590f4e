package parser

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	// overallAbility is the row of the ability table holding the overall rating.
	overallAbility = 23
	// referenceLevelIndex is level 30, the level every flat rating refers to.
	referenceLevelIndex = 29
)

// abilityNames labels the rows of the embedded ability table.
var abilityNames = []string{
	"Attacking Prowess",
	"Ball Control",
	"Dribbling",
	"Low Pass",
	"Lofted Pass",
	"Finishing",
	"Place Kicking",
	"Swerve",
	"Header",
	"Defensive Prowess",
	"Ball Winning",
	"Kicking Power",
	"Speed",
	"Explosive Power",
	"Unwavering Balance",
	"Physical Contact",
	"Jump",
	"Goalkeeping",
	"Catching",
	"Clearing",
	"Reflexes",
	"Coverage",
	"Stamina",
	"Overall Rating",
}

// AbilityName returns the label of ability row i.
func AbilityName(i int) string {
	if i >= 0 && i < len(abilityNames) {
		return abilityNames[i]
	}
	return "ability_" + strconv.Itoa(i)
}

// abilityTable is indexed by ability, then by level index.
type abilityTable [][]int

type abilitySummary struct {
	overall      int
	overallAtMax int
	atReference  map[string]int
	all          map[string][]int
}

func decodeAbilityTable(raw string) (abilityTable, error) {
	var table abilityTable
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &table); err != nil {
		return nil, invalid("abilities", err)
	}
	return table, nil
}

// summarize derives the overall ratings and the flat level-30 map. maxLevel
// is 1-based.
func (t abilityTable) summarize(maxLevel int) (abilitySummary, error) {
	if len(t) <= overallAbility {
		return abilitySummary{}, invalid("abilities",
			fmt.Errorf("expected at least %d rows, got %d", overallAbility+1, len(t)))
	}
	overallRow := t[overallAbility]
	if maxLevel < 1 || maxLevel > len(overallRow) {
		return abilitySummary{}, invalid("max_level",
			fmt.Errorf("level %d outside ability table of %d levels", maxLevel, len(overallRow)))
	}

	s := abilitySummary{
		overallAtMax: overallRow[maxLevel-1],
		atReference:  make(map[string]int, len(t)),
		all:          make(map[string][]int, len(t)),
	}
	for i, row := range t {
		if len(row) <= referenceLevelIndex {
			return abilitySummary{}, invalid("abilities",
				fmt.Errorf("row %d has %d levels, need %d", i, len(row), referenceLevelIndex+1))
		}
		name := AbilityName(i)
		s.atReference[name] = row[referenceLevelIndex]
		s.all[name] = append([]int(nil), row...)
	}
	s.overall = overallRow[referenceLevelIndex]
	return s, nil
}
