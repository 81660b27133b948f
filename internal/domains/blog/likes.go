package blog

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// LikeCount decodes a like count given either as a JSON number or as a
// numeric string ("50"). Arrays, objects, booleans, fractions and
// non-numeric strings are rejected with ErrInvalidLikes.
type LikeCount int

func (l *LikeCount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ErrInvalidLikes
	}

	var text string
	switch data[0] {
	case '"':
		if err := json.Unmarshal(data, &text); err != nil {
			return ErrInvalidLikes
		}
		text = strings.TrimSpace(text)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		text = string(data)
	default:
		return ErrInvalidLikes
	}

	n, err := parseCount(text)
	if err != nil {
		return ErrInvalidLikes
	}
	*l = LikeCount(n)
	return nil
}

// parseCount accepts integral values that fit the int4 likes column.
func parseCount(text string) (int, error) {
	if n, err := strconv.ParseInt(text, 10, 32); err == nil {
		return int(n), nil
	} else if errors.Is(err, strconv.ErrRange) {
		return 0, err
	}

	// 50.0 and 5e1 are integral numbers too
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, strconv.ErrRange
	}
	return int(f), nil
}
