package analytics

import "regexp"

// Sector is a market category tag.
type Sector string

const (
	SectorPolitics      Sector = "Politics"
	SectorCrypto        Sector = "Crypto"
	SectorSports        Sector = "Sports"
	SectorBusiness      Sector = "Business"
	SectorEntertainment Sector = "Entertainment"
	SectorOther         Sector = "Other"
)

// Sectors lists every sector in classification precedence order. A title
// matching several patterns takes the earliest sector in this list; ties in
// specialty volume resolve the same way.
func Sectors() []Sector {
	return []Sector{
		SectorPolitics,
		SectorCrypto,
		SectorSports,
		SectorBusiness,
		SectorEntertainment,
		SectorOther,
	}
}

// sectorPatterns is the ordered keyword list the classifier walks. First
// match wins, so "Will the President attend the Super Bowl?" is Politics,
// not Sports.
var sectorPatterns = []struct {
	sector  Sector
	pattern *regexp.Regexp
}{
	{SectorPolitics, regexp.MustCompile(`(?i)\b(election|president|senate|congress|governor|parliament|democrat|republican|trump|biden|harris|vote|ballot|impeach|primar(y|ies)|cabinet|prime minister)\b`)},
	{SectorCrypto, regexp.MustCompile(`(?i)\b(bitcoin|btc|ethereum|eth|solana|sol|crypto|token|blockchain|defi|nft|stablecoin|airdrop|halving)\b`)},
	{SectorSports, regexp.MustCompile(`(?i)\b(nfl|nba|mlb|nhl|ufc|fifa|premier league|champions league|super bowl|world cup|playoffs?|grand slam|olympics?|f1|formula 1)\b|(?i)\bvs\.?\s`)},
	{SectorBusiness, regexp.MustCompile(`(?i)\b(fed|interest rate|inflation|gdp|stock|s&p|nasdaq|ipo|earnings|merger|acquisition|ceo|recession|tariff|unemployment)\b`)},
	{SectorEntertainment, regexp.MustCompile(`(?i)\b(oscars?|grammys?|emmys?|box office|movie|album|taylor swift|celebrity|bachelor|survivor|eurovision|spotify|billboard)\b`)},
}

// ClassifySector maps a market title to its sector. Empty titles map to
// Other; the classifier never fails.
func ClassifySector(title string) Sector {
	if title == "" {
		return SectorOther
	}
	for _, p := range sectorPatterns {
		if p.pattern.MatchString(title) {
			return p.sector
		}
	}
	return SectorOther
}
