// Package crawler defines core types shared across subsystems.
package crawler

import (
	"fmt"
	"strings"
)

// Foot is the player's dominant foot as printed on the detail page.
type Foot string

// Foot values accepted by the players.foot column.
const (
	FootRight Foot = "Right foot"
	FootLeft  Foot = "Left foot"
)

// ParseFoot maps a detail page value to a Foot. Both "Right" and "Right foot"
// are accepted.
func ParseFoot(raw string) (Foot, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "right foot", "right":
		return FootRight, nil
	case "left foot", "left":
		return FootLeft, nil
	default:
		return "", fmt.Errorf("unknown foot %q", raw)
	}
}

// Position is one of the thirteen registered playing positions.
type Position string

// Registered positions, in the order the site lists them.
const (
	PositionGK  Position = "GK"
	PositionCB  Position = "CB"
	PositionLB  Position = "LB"
	PositionRB  Position = "RB"
	PositionDMF Position = "DMF"
	PositionCMF Position = "CMF"
	PositionLMF Position = "LMF"
	PositionRMF Position = "RMF"
	PositionAMF Position = "AMF"
	PositionLWF Position = "LWF"
	PositionRWF Position = "RWF"
	PositionSS  Position = "SS"
	PositionCF  Position = "CF"
)

// Positions lists every valid Position.
var Positions = []Position{
	PositionGK, PositionCB, PositionLB, PositionRB, PositionDMF, PositionCMF, PositionLMF,
	PositionRMF, PositionAMF, PositionLWF, PositionRWF, PositionSS, PositionCF,
}

// ParsePosition validates a position abbreviation.
func ParsePosition(raw string) (Position, error) {
	p := Position(strings.ToUpper(strings.TrimSpace(raw)))
	for _, known := range Positions {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown position %q", raw)
}

// Region is the continental region a nation belongs to.
type Region string

// Regions accepted by the nations.region column.
const (
	RegionEurope       Region = "Europe"
	RegionAfrica       Region = "Africa"
	RegionNorthCentral Region = "North & Central America"
	RegionSouthAmerica Region = "South America"
	RegionAsiaOceania  Region = "Asia-Oceania"
)

// Regions lists every valid Region.
var Regions = []Region{
	RegionEurope, RegionAfrica, RegionNorthCentral, RegionSouthAmerica, RegionAsiaOceania,
}

// ParseRegion validates a region name exactly as the site prints it.
func ParseRegion(raw string) (Region, error) {
	r := Region(strings.TrimSpace(raw))
	for _, known := range Regions {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown region %q", raw)
}

// Player is the primary entity of the player crawl. It is written once and
// never updated.
type Player struct {
	ID                int64
	Name              string
	ClubName          *string
	ClubNumber        *int
	Nationality       string
	Height            int
	Weight            int
	Age               int
	Foot              Foot
	Position          Position
	PositionsAll      map[Position]int
	OverallRating     int
	MaxLevel          int
	OverallAtMaxLevel int
	Abilities         map[string]int
	AbilitiesAll      map[string][]int
	PlayingStyles     []string
}

// FreeAgent reports whether the player has no club.
func (p Player) FreeAgent() bool {
	return p.ClubName == nil
}

// Club is a reference entity keyed by name. League is only written when the
// club is first created.
type Club struct {
	ID     int64
	Name   string
	League string
}

// Nation is a reference entity keyed by name. Region is only written when the
// nation is first created.
type Nation struct {
	ID     int64
	Name   string
	Region Region
}

// League is keyed by the last path segment of its URI.
type League struct {
	ID   int64
	Name string
	URI  string
}

// Team is keyed by the last path segment of its URI.
type Team struct {
	ID       int64
	LeagueID int64
	Name     string
	URI      string
	Stats    TeamStats
}

// TeamStats holds the six team ratings in the order the site prints them.
type TeamStats struct {
	Overall  int
	Defense  int
	Midfield int
	Forward  int
	Physical int
	Speed    int
}

// PlayerRow is one entry of a player list page.
type PlayerRow struct {
	ID   int64
	Name string
}

// PlayerListPage is the parsed content of one player list page.
type PlayerListPage struct {
	LastPage int
	Rows     []PlayerRow
}

// LeagueRow is one entry of the league index.
type LeagueRow struct {
	Href string
	Name string
}

// TeamRow is one row of a league's team table.
type TeamRow struct {
	Href  string
	Name  string
	Stats TeamStats
}

// PlayerDetail is the parsed content of a player detail page together with
// the reference entities it introduces. Club is nil for free agents.
type PlayerDetail struct {
	Player Player
	Club   *Club
	Nation Nation
}
