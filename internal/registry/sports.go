package registry

import "github.com/XavierBriggs/fortuna/services/multi-generator/pkg/models"

func soccer(code, name, key string) models.Sport {
	return models.Sport{Code: code, Name: name, Icon: "⚽", Group: "Soccer", Key: key, MarketType: models.MarketTypeThreeWay}
}

func twoWay(code, name, icon, group, key string) models.Sport {
	return models.Sport{Code: code, Name: name, Icon: icon, Group: group, Key: key, MarketType: models.MarketTypeTwoWay}
}

// DefaultSports is the built-in sport table. Soccer leagues are three-way
// (draw priced), everything else is two-way.
func DefaultSports() []models.Sport {
	return []models.Sport{
		soccer("EPL", "English Premier League", "soccer_epl"),
		soccer("LA_LIGA", "La Liga", "soccer_spain_la_liga"),
		soccer("BUNDESLIGA", "Bundesliga", "soccer_germany_bundesliga"),
		soccer("SERIE_A", "Serie A", "soccer_italy_serie_a"),
		soccer("LIGUE_1", "Ligue 1", "soccer_france_ligue_one"),
		soccer("UEFA_CHAMPIONS", "UEFA Champions League", "soccer_uefa_champs_league"),
		soccer("UEFA_EUROPA", "UEFA Europa League", "soccer_uefa_europa_league"),

		twoWay("AFL", "Australian Football League", "🏉", "Australian Rules", "aussierules_afl"),
		twoWay("NRL", "National Rugby League", "🏉", "Rugby League", "rugbyleague_nrl"),

		twoWay("NFL", "NFL", "🏈", "American Football", "americanfootball_nfl"),
		twoWay("NBA", "NBA", "🏀", "Basketball", "basketball_nba"),
		twoWay("MLB", "MLB", "⚾", "Baseball", "baseball_mlb"),
		twoWay("NHL", "NHL", "🏒", "Ice Hockey", "icehockey_nhl"),
		twoWay("NCAAF", "NCAA Football", "🏈", "American Football", "americanfootball_ncaaf"),
		twoWay("NCAAB", "NCAA Basketball", "🏀", "Basketball", "basketball_ncaab"),

		twoWay("RUGBY_UNION", "Rugby Union", "🏉", "Rugby Union", "rugbyunion_super_rugby"),

		twoWay("UFC", "UFC/MMA", "🥊", "Combat Sports", "mma_mixed_martial_arts"),
		twoWay("BOXING", "Boxing", "🥊", "Combat Sports", "boxing_boxing"),
		twoWay("CRICKET", "Cricket", "🏏", "Cricket", "cricket_test_match"),
	}
}
