package handball

// MapToPosition resolves the tactical position implied by a shot type
// and zone. Non-shot actions and unknown combinations have no
// position; ok is false then and the event is skipped by positional
// aggregation.
func MapToPosition(action string, zone *string) (string, bool) {
	z := ""
	if zone != nil {
		z = *zone
	}
	switch action {
	case ShotWing:
		switch z {
		case ZoneLeft:
			return PosLeftWing, true
		case ZoneRight:
			return PosRightWing, true
		case ZoneCenter:
			return PosCenterBack, true
		}
	case ShotLine, ShotBreakthrough:
		return PosPivot, true
	case ShotDistance:
		switch z {
		case ZoneLeft:
			return PosLeftBack, true
		case ZoneCenter:
			return PosCenterBack, true
		case ZoneRight:
			return PosRightBack, true
		}
	case ShotPenalty:
		return PosPenalty, true
	case ShotEmptyGoal:
		return PosCenterBack, true
	}
	return "", false
}
