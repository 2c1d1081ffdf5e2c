package domain

// UnrankedLabel is returned for ratings that match no band.
const UnrankedLabel = "Unranked"

type rankBand struct {
	min   int
	max   int
	label string
}

// Ascending, non-overlapping inclusive bands. The ladder labels the top
// band "2001+"; ratings at or above topTierMin all resolve to topTierLabel.
var rankBands = []rankBand{
	{0, 400, "Coal 1"},
	{401, 500, "Coal 2"},
	{501, 600, "Coal 3"},
	{601, 700, "Iron 1"},
	{701, 800, "Iron 2"},
	{801, 900, "Iron 3"},
	{901, 1000, "Gold 1"},
	{1001, 1100, "Gold 2"},
	{1101, 1200, "Gold 3"},
	{1201, 1300, "Emerald 1"},
	{1301, 1400, "Emerald 2"},
	{1401, 1500, "Emerald 3"},
	{1501, 1650, "Diamond 1"},
	{1651, 1800, "Diamond 2"},
	{1801, 2000, "Diamond 3"},
}

const (
	topTierMin   = 2001
	topTierLabel = "Netherite 1"
)

// RankTier resolves a rating to its named tier with an ordered scan over
// the band table. Ratings at or above the open-ended top band clamp to the
// top tier. Anything that matches no band (e.g. negative ratings) resolves
// to UnrankedLabel rather than defaulting to the lowest tier.
func RankTier(rating int) string {
	if rating >= topTierMin {
		return topTierLabel
	}
	for _, band := range rankBands {
		if rating >= band.min && rating <= band.max {
			return band.label
		}
	}
	return UnrankedLabel
}
