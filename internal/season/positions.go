package season

// Position buckets, in tie-break order.
const (
	PositionKeeper     = "keeper"
	PositionDefender   = "defender"
	PositionMidfielder = "midfielder"
	PositionForward    = "forward"
	PositionDNP        = "dnp"
)

var positionBuckets = []string{PositionKeeper, PositionDefender, PositionMidfielder, PositionForward}

// positionBucket maps a StatsBomb position id to its bucket, or "" when unknown.
func positionBucket(id int) string {
	switch {
	case id == 1:
		return PositionKeeper
	case id >= 2 && id <= 8:
		return PositionDefender
	case id >= 9 && id <= 16:
		return PositionMidfielder
	case id >= 17 && id <= 25:
		return PositionForward
	}
	return ""
}

// PositionLabel returns the bucket holding most of a player's events, given
// event counts per position id. Ties go to the earlier bucket (keeper first).
// A player without positioned events is "dnp".
func PositionLabel(counts map[int]int) string {
	scores := make(map[string]int, len(positionBuckets))
	total := 0
	for id, n := range counts {
		if b := positionBucket(id); b != "" {
			scores[b] += n
			total += n
		}
	}
	if total == 0 {
		return PositionDNP
	}
	best := positionBuckets[0]
	for _, b := range positionBuckets[1:] {
		if scores[b] > scores[best] {
			best = b
		}
	}
	return best
}
