package pkg

const (
	DEFAULT_SPEED_KPH         = 40.0
	DEFAULT_RESAMPLE_INTERVAL = 50.0
	DEFAULT_SEARCH_RADIUS     = 500.0
)

// speed units accepted by the arrival-time schedule
const (
	UNIT_KPH = "kph"
	UNIT_MPS = "mps"
)
