package withings

import "math"

// Measure type and category constants for the measure endpoint.
// https://developer.withings.com/api-reference/#operation/measure-getmeas
const (
	MeasTypeWeight   = 1
	CategoryMeasured = 1
)

// Tokens represents OAuth2 tokens issued by Withings.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
	Scope        string `json:"scope"`
	TokenType    string `json:"token_type"`
}

// tokenResponse is the envelope Withings wraps around token grants.
type tokenResponse struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
	Body   struct {
		UserID       any    `json:"userid"`
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int64  `json:"expires_in"`
		Scope        string `json:"scope"`
		TokenType    string `json:"token_type"`
	} `json:"body"`
}

// MeasureResponse is the envelope returned by the measure endpoint.
type MeasureResponse struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
	Body   struct {
		UpdateTime    int64          `json:"updatetime"`
		MeasureGroups []MeasureGroup `json:"measuregrps"`
	} `json:"body"`
}

// MeasureGroup holds the measures recorded at a single point in time.
type MeasureGroup struct {
	GroupID  int64     `json:"grpid"`
	Date     int64     `json:"date"`
	Created  int64     `json:"created"`
	Category int       `json:"category"`
	Measures []Measure `json:"measures"`
}

// Measure is a single reading. Value is scaled by 10^Unit.
type Measure struct {
	Value int64 `json:"value"`
	Type  int   `json:"type"`
	Unit  int   `json:"unit"`
}

// Kilograms returns the measure value with its unit exponent applied.
// Weight measures come back in kilograms (e.g. value 80500, unit -3).
func (m Measure) Kilograms() float64 {
	return float64(m.Value) * math.Pow(10, float64(m.Unit))
}

// Grams returns the measure value in grams.
func (m Measure) Grams() float64 {
	return m.Kilograms() * 1000
}
