package strava

// Athlete is the authenticated athlete's profile.
// https://developers.strava.com/docs/reference/#api-models-DetailedAthlete
type Athlete struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	Firstname string  `json:"firstname"`
	Lastname  string  `json:"lastname"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	Country   string  `json:"country"`
	Sex       string  `json:"sex"`
	Summit    bool    `json:"summit"`
	Weight    float64 `json:"weight"` // kilograms
	Profile   string  `json:"profile"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// ActivityTotals is a rolled-up set of activity statistics.
type ActivityTotals struct {
	Count            int     `json:"count"`
	Distance         float64 `json:"distance"`    // meters
	MovingTime       int64   `json:"moving_time"` // sec
	ElapsedTime      int64   `json:"elapsed_time"`
	ElevationGain    float64 `json:"elevation_gain"`
	AchievementCount int     `json:"achievement_count"`
}

// AthleteStats holds the athlete's activity statistics.
// https://developers.strava.com/docs/reference/#api-models-ActivityStats
type AthleteStats struct {
	BiggestRideDistance       float64 `json:"biggest_ride_distance"`
	BiggestClimbElevationGain float64 `json:"biggest_climb_elevation_gain"`

	RecentRideTotals ActivityTotals `json:"recent_ride_totals"`
	RecentRunTotals  ActivityTotals `json:"recent_run_totals"`
	RecentSwimTotals ActivityTotals `json:"recent_swim_totals"`
	YTDRideTotals    ActivityTotals `json:"ytd_ride_totals"`
	YTDRunTotals     ActivityTotals `json:"ytd_run_totals"`
	YTDSwimTotals    ActivityTotals `json:"ytd_swim_totals"`
	AllRideTotals    ActivityTotals `json:"all_ride_totals"`
	AllRunTotals     ActivityTotals `json:"all_run_totals"`
	AllSwimTotals    ActivityTotals `json:"all_swim_totals"`
}
