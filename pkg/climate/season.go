package climate

import (
	"strings"
	"time"

	"plantcare/entities"
)

// southern lists countries treated as Southern Hemisphere. Everything else,
// including equatorial countries, is treated as Northern.
var southern = map[string]struct{}{
	"argentina": {}, "australia": {}, "bolivia": {}, "botswana": {}, "brazil": {},
	"chile": {}, "eswatini": {}, "fiji": {}, "lesotho": {}, "madagascar": {},
	"malawi": {}, "mauritius": {}, "mozambique": {}, "namibia": {}, "new zealand": {},
	"paraguay": {}, "peru": {}, "south africa": {}, "uruguay": {}, "zambia": {},
	"zimbabwe": {}, "angola": {}, "new caledonia": {}, "samoa": {}, "tonga": {},
}

func IsSouthern(country string) bool {
	_, ok := southern[strings.ToLower(strings.TrimSpace(country))]
	return ok
}

// SeasonFor uses meteorological seasons. The Southern Hemisphere is the
// Northern assignment shifted by six months.
func SeasonFor(country string, at time.Time) entities.Season {
	m := int(at.Month())
	if IsSouthern(country) {
		m = (m+5)%12 + 1
	}
	switch m {
	case 3, 4, 5:
		return entities.SeasonSpring
	case 6, 7, 8:
		return entities.SeasonSummer
	case 9, 10, 11:
		return entities.SeasonAutumn
	default:
		return entities.SeasonWinter
	}
}
