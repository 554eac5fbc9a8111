package pihole

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// number accepts a JSON number, a numeric string or null.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("invalid quoted number %s: %w", s, err)
		}
		s = strings.ReplaceAll(strings.TrimSpace(unquoted), ",", "")
		if s == "" {
			*n = 0
			return nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %s: %w", string(b), err)
	}
	*n = number(f)
	return nil
}

// numberMap is a JSON object of numbers. PHP encodes an empty one as [].
type numberMap map[string]number

func (m *numberMap) UnmarshalJSON(b []byte) error {
	if isEmptyArray(b) {
		*m = numberMap{}
		return nil
	}
	var raw map[string]number
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*m = raw
	return nil
}

func isEmptyArray(b []byte) bool {
	b = bytes.TrimSpace(b)
	if len(b) < 2 || b[0] != '[' || b[len(b)-1] != ']' {
		return false
	}
	return len(bytes.TrimSpace(b[1:len(b)-1])) == 0
}

// apiResponse is the subset of the api.php reply the visualizer reads.
// Required fields are pointers so a missing key can be told apart from zero.
type apiResponse struct {
	DomainsOverTime    *numberMap `json:"domains_over_time"`
	AdsOverTime        *numberMap `json:"ads_over_time"`
	AdsPercentageToday *number    `json:"ads_percentage_today"`
	TopSources         numberMap  `json:"top_sources"`
	QueryTypes         numberMap  `json:"querytypes"`
}

func (r *apiResponse) validate() error {
	var missing []string
	if r.DomainsOverTime == nil {
		missing = append(missing, "domains_over_time")
	}
	if r.AdsOverTime == nil {
		missing = append(missing, "ads_over_time")
	}
	if r.AdsPercentageToday == nil {
		missing = append(missing, "ads_percentage_today")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidData, strings.Join(missing, ", "))
	}
	return nil
}

func series(m numberMap) (map[int64]int, error) {
	out := make(map[int64]int, len(m))
	for k, v := range m {
		ts, err := strconv.ParseInt(strings.TrimSpace(k), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid bucket timestamp %q: %w", k, err)
		}
		out[ts] = int(v)
	}
	return out, nil
}
