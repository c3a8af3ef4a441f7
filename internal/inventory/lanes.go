package inventory

import (
	"fmt"
	"strings"
)

const lanePrefix = "Street "

// LaneNames lists all 52 streets of the building: A1, A2, B1 ... Z2.
func LaneNames() []string {
	names := make([]string, 0, 52)
	for letter := 'A'; letter <= 'Z'; letter++ {
		for number := 1; number <= 2; number++ {
			names = append(names, fmt.Sprintf("%s%c%d", lanePrefix, letter, number))
		}
	}
	return names
}

// ResolveLane accepts "Street A1", "A1" or "a1" and returns the canonical name.
func ResolveLane(name string) (string, error) {
	code := strings.TrimSpace(name)
	if len(code) > len(lanePrefix) && strings.EqualFold(code[:len(lanePrefix)], lanePrefix) {
		code = strings.TrimSpace(code[len(lanePrefix):])
	}
	code = strings.ToUpper(code)

	if len(code) != 2 || code[0] < 'A' || code[0] > 'Z' || (code[1] != '1' && code[1] != '2') {
		return "", fmt.Errorf("%w: %q", ErrUnknownLane, name)
	}
	return lanePrefix + code, nil
}

// laneOrder maps canonical names to their position in LaneNames.
func laneOrder(name string) int {
	code := strings.TrimPrefix(name, lanePrefix)
	if len(code) != 2 {
		return 1 << 20
	}
	return int(code[0]-'A')*2 + int(code[1]-'1')
}

// LaneCode returns the short form of a canonical name: "Street A1" -> "A1".
func LaneCode(name string) string {
	return strings.TrimPrefix(name, lanePrefix)
}
