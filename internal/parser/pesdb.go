package parser

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/JakeFAU/pesdb-crawler/internal/crawler"
)

var (
	paginationPattern   = regexp.MustCompile(`(?isU)<div class="pages">.*<a href="\./\?page=\d+".*>(\d+)</a>\..*</div>`)
	playersTablePattern = regexp.MustCompile(`(?isU)<table class="players">(.*)</table>`)
	playerRowPattern    = regexp.MustCompile(`(?isU)<tr>.*<a href="\./\?id=(\d+)">(.+)</a>.*</tr>`)

	infoTablePattern   = regexp.MustCompile(`(?isU)<table id="table_0" class="player" style="display: table; clear: both;">(.*)</table>`)
	infoCellPattern    = regexp.MustCompile(`(?isU)</th><td.*>(.*)</td></tr>`)
	positionPattern    = regexp.MustCompile(`(?isU)<span class="pos(\d)" title=".*">([A-Z]+)</span>`)
	maxLevelPattern    = regexp.MustCompile(`(?isU)var max_level = (\d+);`)
	abilitiesPattern   = regexp.MustCompile(`(?isU)<script>abilities =(.*);</script>`)
	stylesTablePattern = regexp.MustCompile(`(?isU)<table class="playing_styles">(.*)</table>`)
	styleRowPattern    = regexp.MustCompile(`(?isU)<tr><td>(.*)</td></tr>`)
)

// PESDB parses pesdb.net player list and detail pages.
type PESDB struct{}

// NewPESDB returns a pesdb.net parser.
func NewPESDB() PESDB {
	return PESDB{}
}

// ParsePlayerList extracts the last page number and the (id, name) rows of a
// list page in document order. A repeated id keeps its first row.
func (PESDB) ParsePlayerList(body []byte) (crawler.PlayerListPage, error) {
	html := string(body)

	m := paginationPattern.FindStringSubmatch(html)
	if m == nil {
		return crawler.PlayerListPage{}, missing("pagination")
	}
	lastPage, err := strconv.Atoi(m[1])
	if err != nil {
		return crawler.PlayerListPage{}, invalid("pagination", err)
	}

	table := playersTablePattern.FindStringSubmatch(html)
	if table == nil {
		return crawler.PlayerListPage{}, missing("players table")
	}
	matches := playerRowPattern.FindAllStringSubmatch(table[1], -1)
	if len(matches) == 0 {
		return crawler.PlayerListPage{}, missing("player rows")
	}

	page := crawler.PlayerListPage{LastPage: lastPage, Rows: make([]crawler.PlayerRow, 0, len(matches))}
	seen := make(map[int64]struct{}, len(matches))
	for _, row := range matches {
		id, err := strconv.ParseInt(row[1], 10, 64)
		if err != nil {
			return crawler.PlayerListPage{}, invalid("player rows", err)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		page.Rows = append(page.Rows, crawler.PlayerRow{ID: id, Name: cellText(row[2])})
	}
	return page, nil
}

// ParsePlayerDetail extracts a player and the club and nation it references.
func (PESDB) ParsePlayerDetail(id int64, body []byte) (crawler.PlayerDetail, error) {
	html := string(body)

	table := infoTablePattern.FindStringSubmatch(html)
	if table == nil {
		return crawler.PlayerDetail{}, missing("player info table")
	}
	cells := infoCellPattern.FindAllStringSubmatch(table[1], -1)
	if len(cells) == 0 {
		return crawler.PlayerDetail{}, missing("player properties")
	}
	values := make([]string, len(cells))
	for i, c := range cells {
		values[i] = cellText(c[1])
	}
	rec, err := newInfoRecord(values)
	if err != nil {
		return crawler.PlayerDetail{}, err
	}
	detail, err := rec.detail(id)
	if err != nil {
		return crawler.PlayerDetail{}, err
	}

	positions := positionPattern.FindAllStringSubmatch(table[1], -1)
	if len(positions) == 0 {
		return crawler.PlayerDetail{}, missing("positions")
	}
	detail.Player.PositionsAll = make(map[crawler.Position]int, len(positions))
	for _, p := range positions {
		level, err := strconv.Atoi(p[1])
		if err != nil {
			return crawler.PlayerDetail{}, invalid("positions", err)
		}
		detail.Player.PositionsAll[crawler.Position(p[2])] = level
	}

	m := maxLevelPattern.FindStringSubmatch(html)
	if m == nil {
		return crawler.PlayerDetail{}, missing("max_level")
	}
	maxLevel, err := strconv.Atoi(m[1])
	if err != nil {
		return crawler.PlayerDetail{}, invalid("max_level", err)
	}

	m = abilitiesPattern.FindStringSubmatch(html)
	if m == nil {
		return crawler.PlayerDetail{}, missing("abilities")
	}
	abilities, err := decodeAbilityTable(m[1])
	if err != nil {
		return crawler.PlayerDetail{}, err
	}
	summary, err := abilities.summarize(maxLevel)
	if err != nil {
		return crawler.PlayerDetail{}, err
	}
	detail.Player.MaxLevel = maxLevel
	detail.Player.OverallRating = summary.overall
	detail.Player.OverallAtMaxLevel = summary.overallAtMax
	detail.Player.Abilities = summary.atReference
	detail.Player.AbilitiesAll = summary.all

	styles := stylesTablePattern.FindStringSubmatch(html)
	if styles == nil {
		return crawler.PlayerDetail{}, missing("playing styles")
	}
	rows := styleRowPattern.FindAllStringSubmatch(styles[1], -1)
	if len(rows) == 0 {
		return crawler.PlayerDetail{}, missing("playing style rows")
	}
	detail.Player.PlayingStyles = make([]string, 0, len(rows))
	for _, r := range rows {
		detail.Player.PlayingStyles = append(detail.Player.PlayingStyles, cellText(r[1]))
	}

	return detail, nil
}

// freeAgentSentinel marks a player without a club in the club slot.
const freeAgentSentinel = "Free Agents"

// Offsets into the info cell sequence once the free agent slot is aligned.
const (
	offsetName = iota
	offsetClubNumber
	offsetClub
	offsetLeague
	offsetNationality
	offsetRegion
	offsetHeight
	offsetWeight
	offsetAge
	offsetFoot
	offsetUnused
	offsetPosition

	infoFieldCount
)

// infoRecord reads the info cells by fixed offset.
type infoRecord struct {
	values    []string
	freeAgent bool
}

// newInfoRecord aligns the cell sequence. When the sentinel appears at a
// non-zero offset, an empty slot is inserted at that offset so every later
// field keeps its position; the club slot is then empty.
func newInfoRecord(values []string) (infoRecord, error) {
	rec := infoRecord{values: values}
	for i, v := range values {
		if v != freeAgentSentinel {
			continue
		}
		if i > 0 {
			aligned := make([]string, 0, len(values)+1)
			aligned = append(aligned, values[:i]...)
			aligned = append(aligned, "")
			aligned = append(aligned, values[i:]...)
			rec.values = aligned
			rec.freeAgent = true
		}
		break
	}
	if len(rec.values) < infoFieldCount {
		return infoRecord{}, invalid("player properties",
			fmt.Errorf("expected %d cells, got %d", infoFieldCount, len(rec.values)))
	}
	return rec, nil
}

func (r infoRecord) field(offset int) string {
	return r.values[offset]
}

func (r infoRecord) intField(offset int, marker string) (int, error) {
	n, ok := firstInt(r.field(offset))
	if !ok {
		return 0, invalid(marker, fmt.Errorf("not a number: %q", r.field(offset)))
	}
	return n, nil
}

func (r infoRecord) detail(id int64) (crawler.PlayerDetail, error) {
	region, err := crawler.ParseRegion(r.field(offsetRegion))
	if err != nil {
		return crawler.PlayerDetail{}, invalid("region", err)
	}
	foot, err := crawler.ParseFoot(r.field(offsetFoot))
	if err != nil {
		return crawler.PlayerDetail{}, invalid("foot", err)
	}
	position, err := crawler.ParsePosition(r.field(offsetPosition))
	if err != nil {
		return crawler.PlayerDetail{}, invalid("position", err)
	}
	height, err := r.intField(offsetHeight, "height")
	if err != nil {
		return crawler.PlayerDetail{}, err
	}
	weight, err := r.intField(offsetWeight, "weight")
	if err != nil {
		return crawler.PlayerDetail{}, err
	}
	age, err := r.intField(offsetAge, "age")
	if err != nil {
		return crawler.PlayerDetail{}, err
	}

	player := crawler.Player{
		ID:          id,
		Name:        r.field(offsetName),
		Nationality: r.field(offsetNationality),
		Height:      height,
		Weight:      weight,
		Age:         age,
		Foot:        foot,
		Position:    position,
	}
	if n, ok := firstInt(r.field(offsetClubNumber)); ok {
		player.ClubNumber = &n
	}

	detail := crawler.PlayerDetail{
		Nation: crawler.Nation{Name: player.Nationality, Region: region},
	}
	if !r.freeAgent {
		club := r.field(offsetClub)
		player.ClubName = &club
		detail.Club = &crawler.Club{Name: club, League: r.field(offsetLeague)}
	}
	detail.Player = player
	return detail, nil
}
