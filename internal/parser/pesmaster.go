package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/JakeFAU/pesdb-crawler/internal/crawler"
)

var (
	leagueListPattern = regexp.MustCompile(`(?isU)<ul class="leagues-list">(.*)</ul>`)
	leagueItemPattern = regexp.MustCompile(`(?isU)<a href="(.+)"><li class="leagues-list-el">.+<div class="leagues-list-text">(.+)</div>`)
	teamTablePattern  = regexp.MustCompile(`(?isU)<table class="squad-table sortable" id="search-result-table">.*<tbody>(.*)</tbody>\s*</table>`)
	teamRowPattern    = regexp.MustCompile(`(?isU)<tr>(.+)</tr>`)
	teamNamePattern   = regexp.MustCompile(`(?isU)<a class="namelink" href="(.+)">(.+)</a>`)
	teamStatPattern   = regexp.MustCompile(`(?isU)<span class='.* squad-table-stat'>(\d+)</span>`)
)

// teamStatCount is the number of rating spans per team row.
const teamStatCount = 6

// PESMaster parses pesmaster.com league index and league pages.
type PESMaster struct{}

// NewPESMaster returns a pesmaster.com parser.
func NewPESMaster() PESMaster {
	return PESMaster{}
}

// ParseLeagueList extracts the (href, name) pairs of the league index.
func (PESMaster) ParseLeagueList(body []byte) ([]crawler.LeagueRow, error) {
	list := leagueListPattern.FindStringSubmatch(string(body))
	if list == nil {
		return nil, missing("league list")
	}
	items := leagueItemPattern.FindAllStringSubmatch(list[1], -1)
	if len(items) == 0 {
		return nil, missing("league items")
	}
	rows := make([]crawler.LeagueRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, crawler.LeagueRow{
			Href: strings.TrimSpace(item[1]),
			Name: cellText(item[2]),
		})
	}
	return rows, nil
}

// ParseTeamTable extracts one row per team with its six ratings in the
// order overall, defense, midfield, forward, physical, speed.
func (PESMaster) ParseTeamTable(body []byte) ([]crawler.TeamRow, error) {
	table := teamTablePattern.FindStringSubmatch(string(body))
	if table == nil {
		return nil, missing("team table")
	}
	matches := teamRowPattern.FindAllStringSubmatch(table[1], -1)
	if len(matches) == 0 {
		return nil, missing("team rows")
	}
	rows := make([]crawler.TeamRow, 0, len(matches))
	for i, m := range matches {
		row, err := parseTeamRow(m[1])
		if err != nil {
			return nil, fmt.Errorf("team row %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseTeamRow(html string) (crawler.TeamRow, error) {
	name := teamNamePattern.FindStringSubmatch(html)
	if name == nil {
		return crawler.TeamRow{}, missing("team name")
	}
	spans := teamStatPattern.FindAllStringSubmatch(html, -1)
	if len(spans) == 0 {
		return crawler.TeamRow{}, missing("team stat")
	}
	if len(spans) != teamStatCount {
		return crawler.TeamRow{}, invalid("team stat",
			fmt.Errorf("expected %d values, got %d", teamStatCount, len(spans)))
	}
	var stats [teamStatCount]int
	for i, s := range spans {
		v, err := strconv.Atoi(s[1])
		if err != nil {
			return crawler.TeamRow{}, invalid("team stat", err)
		}
		stats[i] = v
	}
	return crawler.TeamRow{
		Href: strings.TrimSpace(name[1]),
		Name: cellText(name[2]),
		Stats: crawler.TeamStats{
			Overall:  stats[0],
			Defense:  stats[1],
			Midfield: stats[2],
			Forward:  stats[3],
			Physical: stats[4],
			Speed:    stats[5],
		},
	}, nil
}
